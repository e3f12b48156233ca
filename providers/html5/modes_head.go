package html5

func isWhitespaceToken(tok Token) bool {
	return tok.Kind == TokenCharacter && isWhitespace(tok.Char)
}

func (p *Parser) inInitial(tok Token) bool {
	switch tok.Kind {
	case TokenCharacter:
		if isWhitespace(tok.Char) {
			return false
		}
	case TokenComment:
		p.insertComment(tok.Data)
		return false
	case TokenDoctype:
		p.quirks = quirksFromDoctype(tok)
		p.switchTo(modeBeforeHTML)
		return false
	}
	p.quirks = quirks
	p.switchTo(modeBeforeHTML)
	return true
}

// quirksFromDoctype implements a practical subset of §4.5's quirks-mode
// detection table: an exact "html" doctype with no public/system
// identifiers is NO_QUIRKS; force-quirks, a name other than "html", or a
// legacy public identifier prefix makes it fully QUIRKS; any other "html"
// doctype with a public or system identifier is LIMITED_QUIRKS.
func quirksFromDoctype(tok Token) quirksMode {
	if tok.ForceQuirks {
		return quirks
	}
	if tok.Name != "html" {
		return quirks
	}
	if !tok.HasPublicID && !tok.HasSystemID {
		return noQuirks
	}
	legacyQuirksPrefixes := []string{
		"-//w3c//dtd html 3", "-//w3c//dtd html 4.0 frameset",
		"-//w3c//dtd html 4.0 transitional", "html",
	}
	for _, prefix := range legacyQuirksPrefixes {
		if hasPrefixFold(tok.PublicID, prefix) {
			return quirks
		}
	}
	if tok.HasPublicID || tok.HasSystemID {
		return limitedQuirks
	}
	return noQuirks
}

func hasPrefixFold(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		if lowerASCII(rune(s[i])) != lowerASCII(rune(prefix[i])) {
			return false
		}
	}
	return true
}

func (p *Parser) inBeforeHTML(tok Token) bool {
	switch tok.Kind {
	case TokenDoctype:
		p.error("unexpected doctype")
		return false
	case TokenComment:
		p.insertComment(tok.Data)
		return false
	case TokenCharacter:
		if isWhitespace(tok.Char) {
			return false
		}
	case TokenStartTag:
		if tok.Name == "html" {
			p.htmlElem = p.insertElement(tok)
			p.switchTo(modeBeforeHead)
			return false
		}
	case TokenEndTag:
		switch tok.Name {
		case "head", "body", "html", "br":
		default:
			p.error("unexpected end tag %q before html", tok.Name)
			return false
		}
	case TokenEOF:
		// fall through to synthesize <html>
	}
	p.htmlElem = p.insertElement(Token{Kind: TokenStartTag, Name: "html"})
	p.switchTo(modeBeforeHead)
	return true
}

func (p *Parser) inBeforeHead(tok Token) bool {
	switch tok.Kind {
	case TokenCharacter:
		if isWhitespace(tok.Char) {
			return false
		}
	case TokenComment:
		p.insertComment(tok.Data)
		return false
	case TokenDoctype:
		p.error("unexpected doctype")
		return false
	case TokenStartTag:
		switch tok.Name {
		case "html":
			return p.inBody(tok)
		case "head":
			p.headElem = p.insertElement(tok)
			p.switchTo(modeInHead)
			return false
		}
	case TokenEndTag:
		switch tok.Name {
		case "head", "body", "html", "br":
		default:
			p.error("unexpected end tag %q before head", tok.Name)
			return false
		}
	}
	p.headElem = p.insertElement(Token{Kind: TokenStartTag, Name: "head"})
	p.switchTo(modeInHead)
	return true
}

func (p *Parser) inHead(tok Token) bool {
	switch tok.Kind {
	case TokenCharacter:
		if isWhitespace(tok.Char) {
			p.insertCharacter(tok.Char)
			return false
		}
	case TokenComment:
		p.insertComment(tok.Data)
		return false
	case TokenDoctype:
		p.error("unexpected doctype")
		return false
	case TokenStartTag:
		switch tok.Name {
		case "html":
			return p.inBody(tok)
		case "base", "basefont", "bgsound", "link", "meta":
			p.insertVoidElement(tok)
			return false
		case "title":
			p.insertElement(tok)
			p.tok.SwitchTo("title")
			p.originalMode = p.mode
			p.switchTo(modeText)
			return false
		case "noscript":
			if p.scriptingEnabled {
				p.insertElement(tok)
				p.switchTo(modeInHeadNoscript)
				return false
			}
			p.insertElement(tok)
			return false
		case "noframes", "style":
			p.insertElement(tok)
			p.tok.SwitchTo(tok.Name)
			p.originalMode = p.mode
			p.switchTo(modeText)
			return false
		case "script":
			p.insertElement(tok)
			p.tok.SwitchTo("script")
			p.originalMode = p.mode
			p.switchTo(modeText)
			return false
		case "template":
			p.insertElement(tok)
			p.afeInsertMarker()
			p.framesetOK = false
			p.switchTo(modeInTemplate)
			p.templateModes = append(p.templateModes, modeInTemplate)
			return false
		case "head":
			p.error("unexpected start tag %q in head", tok.Name)
			return false
		}
	case TokenEndTag:
		switch tok.Name {
		case "head":
			p.pop()
			p.switchTo(modeAfterHead)
			return false
		case "body", "html", "br":
		case "template":
			if p.hasOnStack("template") {
				p.generateImpliedEndTagsThoroughly()
				p.popUntil("template")
				p.afeClearToLastMarker()
				if len(p.templateModes) > 0 {
					p.templateModes = p.templateModes[:len(p.templateModes)-1]
				}
				p.resetInsertionModeAppropriately()
			}
			return false
		default:
			p.error("unexpected end tag %q in head", tok.Name)
			return false
		}
	}
	p.pop()
	p.switchTo(modeAfterHead)
	return true
}

func (p *Parser) inHeadNoscript(tok Token) bool {
	switch tok.Kind {
	case TokenDoctype:
		p.error("unexpected doctype")
		return false
	case TokenStartTag:
		switch tok.Name {
		case "html":
			return p.inBody(tok)
		case "basefont", "bgsound", "link", "meta", "noframes", "style":
			return p.inHead(tok)
		}
	case TokenEndTag:
		switch tok.Name {
		case "noscript":
			p.pop()
			p.switchTo(modeInHead)
			return false
		case "br":
		default:
			p.error("unexpected end tag %q in head noscript", tok.Name)
			return false
		}
	case TokenComment:
		return p.inHead(tok)
	case TokenCharacter:
		if isWhitespace(tok.Char) {
			return p.inHead(tok)
		}
	}
	p.error("unexpected token in head noscript")
	p.pop()
	p.switchTo(modeInHead)
	return true
}

func (p *Parser) inAfterHead(tok Token) bool {
	switch tok.Kind {
	case TokenCharacter:
		if isWhitespace(tok.Char) {
			p.insertCharacter(tok.Char)
			return false
		}
	case TokenComment:
		p.insertComment(tok.Data)
		return false
	case TokenDoctype:
		p.error("unexpected doctype")
		return false
	case TokenStartTag:
		switch tok.Name {
		case "html":
			return p.inBody(tok)
		case "body":
			p.insertElement(tok)
			p.framesetOK = false
			p.switchTo(modeInBody)
			return false
		case "frameset":
			p.insertElement(tok)
			p.switchTo(modeInFrameset)
			return false
		case "base", "basefont", "bgsound", "link", "meta", "noframes", "script", "style", "template", "title":
			p.error("unexpected start tag %q after head", tok.Name)
			p.openElements = append(p.openElements, openElement{elem: p.headElem, name: "head"})
			p.inHead(tok)
			p.removeFromStack(p.headElem)
			return false
		case "head":
			p.error("unexpected start tag %q after head", tok.Name)
			return false
		}
	case TokenEndTag:
		switch tok.Name {
		case "template":
			return p.inHead(tok)
		case "body", "html", "br":
		default:
			p.error("unexpected end tag %q after head", tok.Name)
			return false
		}
	}
	p.insertElement(Token{Kind: TokenStartTag, Name: "body"})
	p.switchTo(modeInBody)
	return true
}
