package html5

import "github.com/oxhq/inkwell/core"

func (p *Parser) commentElement(data string) *core.Element {
	elem := core.NewElement(p.in.Arena, p.in.Names.Intern("#comment"))
	elem.SetAttr(p.in.Names.Intern("data"), core.StringItem(core.NewStringFromString(p.in.Arena, data)))
	return elem
}

func (p *Parser) inBody(tok Token) bool {
	switch tok.Kind {
	case TokenCharacter:
		if tok.Char == 0 {
			p.error("unexpected null character")
			return false
		}
		p.reconstructActiveFormattingElements()
		p.insertCharacter(tok.Char)
		if !isWhitespace(tok.Char) {
			p.framesetOK = false
		}
		return false

	case TokenComment:
		p.insertComment(tok.Data)
		return false

	case TokenDoctype:
		p.error("unexpected doctype")
		return false

	case TokenEOF:
		if len(p.templateModes) > 0 {
			return p.inHead(tok)
		}
		p.done = true
		return false

	case TokenStartTag:
		return p.inBodyStartTag(tok)

	case TokenEndTag:
		return p.inBodyEndTag(tok)
	}
	return false
}

func (p *Parser) inBodyStartTag(tok Token) bool {
	switch tok.Name {
	case "html":
		p.error("unexpected start tag html")
		return false
	case "base", "basefont", "bgsound", "link", "meta", "noframes", "script", "style", "template", "title":
		return p.inHead(tok)
	case "body":
		p.error("unexpected start tag body")
		return false
	case "frameset":
		if p.framesetOK {
			p.insertElement(tok)
			p.switchTo(modeInFrameset)
		}
		return false
	case "address", "article", "aside", "blockquote", "center", "details",
		"dialog", "dir", "div", "dl", "fieldset", "figcaption", "figure",
		"footer", "header", "hgroup", "main", "menu", "nav", "ol", "p",
		"section", "summary", "ul":
		if p.hasInButtonScope("p") {
			closeP(p)
		}
		p.insertElement(tok)
		return false
	case "h1", "h2", "h3", "h4", "h5", "h6":
		if p.hasInButtonScope("p") {
			closeP(p)
		}
		if headingElements[p.currentNodeName()] {
			p.error("nested heading")
			p.pop()
		}
		p.insertElement(tok)
		return false
	case "pre", "listing":
		if p.hasInButtonScope("p") {
			closeP(p)
		}
		p.insertElement(tok)
		p.framesetOK = false
		return false
	case "form":
		if p.formElem != nil && !p.hasOnStack("template") {
			p.error("unexpected nested form")
			return false
		}
		if p.hasInButtonScope("p") {
			closeP(p)
		}
		elem := p.insertElement(tok)
		if !p.hasOnStack("template") {
			p.formElem = elem
		}
		return false
	case "li":
		p.framesetOK = false
		for i := len(p.openElements) - 1; i >= 0; i-- {
			node := p.openElements[i]
			if node.name == "li" {
				p.generateImpliedEndTags("li")
				if p.currentNodeName() != "li" {
					p.error("unexpected li")
				}
				p.popUntil("li")
				break
			}
			if specialElements[node.name] && node.name != "address" && node.name != "div" && node.name != "p" {
				break
			}
		}
		if p.hasInButtonScope("p") {
			closeP(p)
		}
		p.insertElement(tok)
		return false
	case "dd", "dt":
		p.framesetOK = false
		for i := len(p.openElements) - 1; i >= 0; i-- {
			node := p.openElements[i]
			if node.name == "dd" || node.name == "dt" {
				p.generateImpliedEndTags(node.name)
				if p.currentNodeName() != node.name {
					p.error("unexpected dd/dt")
				}
				p.popUntil(node.name)
				break
			}
			if specialElements[node.name] && node.name != "address" && node.name != "div" && node.name != "p" {
				break
			}
		}
		if p.hasInButtonScope("p") {
			closeP(p)
		}
		p.insertElement(tok)
		return false
	case "plaintext":
		if p.hasInButtonScope("p") {
			closeP(p)
		}
		p.insertElement(tok)
		p.tok.SwitchTo("plaintext")
		return false
	case "button":
		if p.hasInScope("button") {
			p.error("nested button")
			p.generateImpliedEndTags("")
			p.popUntil("button")
		}
		p.reconstructActiveFormattingElements()
		p.insertElement(tok)
		p.framesetOK = false
		return false
	case "a":
		if _, entry := p.afeFindByName("a"); entry != nil {
			p.error("unexpected start tag a inside anchor")
			p.adoptionAgency("a")
			if idx := p.afeFind(entry.elem); idx != -1 {
				p.afeRemove(idx)
			}
			p.removeFromStack(entry.elem)
		}
		p.reconstructActiveFormattingElements()
		elem := p.insertElement(tok)
		p.afePush("a", elem, tok)
		return false
	case "b", "big", "code", "em", "font", "i", "s", "small", "strike", "strong", "tt", "u":
		p.reconstructActiveFormattingElements()
		elem := p.insertElement(tok)
		p.afePush(tok.Name, elem, tok)
		return false
	case "nobr":
		p.reconstructActiveFormattingElements()
		if p.hasInScope("nobr") {
			p.adoptionAgency("nobr")
			p.reconstructActiveFormattingElements()
		}
		elem := p.insertElement(tok)
		p.afePush("nobr", elem, tok)
		return false
	case "applet", "marquee", "object":
		p.reconstructActiveFormattingElements()
		p.insertElement(tok)
		p.afeInsertMarker()
		p.framesetOK = false
		return false
	case "table":
		if p.quirks != quirks && p.hasInButtonScope("p") {
			closeP(p)
		}
		p.insertElement(tok)
		p.framesetOK = false
		p.switchTo(modeInTable)
		return false
	case "area", "br", "embed", "img", "keygen", "wbr":
		p.reconstructActiveFormattingElements()
		p.insertVoidElement(tok)
		p.framesetOK = false
		return false
	case "input":
		p.reconstructActiveFormattingElements()
		p.insertVoidElement(tok)
		if v, ok := tok.attr("type"); !ok || lowerASCIIStr(v) != "hidden" {
			p.framesetOK = false
		}
		return false
	case "param", "source", "track":
		p.insertVoidElement(tok)
		return false
	case "hr":
		if p.hasInButtonScope("p") {
			closeP(p)
		}
		p.insertVoidElement(tok)
		p.framesetOK = false
		return false
	case "image":
		tok.Name = "img"
		return p.inBodyStartTag(tok)
	case "textarea":
		p.insertElement(tok)
		p.tok.SwitchTo("textarea")
		p.originalMode = p.mode
		p.framesetOK = false
		p.switchTo(modeText)
		return false
	case "xmp":
		if p.hasInButtonScope("p") {
			closeP(p)
		}
		p.reconstructActiveFormattingElements()
		p.framesetOK = false
		p.genericRawText(tok)
		return false
	case "iframe":
		p.framesetOK = false
		p.genericRawText(tok)
		return false
	case "noembed":
		p.genericRawText(tok)
		return false
	case "select":
		p.reconstructActiveFormattingElements()
		p.insertElement(tok)
		p.framesetOK = false
		if p.inTableContext() {
			p.switchTo(modeInSelectInTable)
		} else {
			p.switchTo(modeInSelect)
		}
		return false
	case "optgroup", "option":
		if p.currentNodeName() == "option" {
			p.pop()
		}
		p.reconstructActiveFormattingElements()
		p.insertElement(tok)
		return false
	case "rb", "rtc":
		if p.hasInScope("ruby") {
			p.generateImpliedEndTags("")
		}
		p.insertElement(tok)
		return false
	case "rp", "rt":
		if p.hasInScope("ruby") {
			p.generateImpliedEndTags("rtc")
		}
		p.insertElement(tok)
		return false
	case "caption", "col", "colgroup", "frame", "head", "tbody", "td", "tfoot", "th", "thead", "tr":
		p.error("unexpected start tag %q in body", tok.Name)
		return false
	default:
		p.reconstructActiveFormattingElements()
		if voidElements[tok.Name] {
			p.insertVoidElement(tok)
		} else {
			p.insertElement(tok)
		}
		return false
	}
}

func lowerASCIIStr(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func (p *Parser) inTableContext() bool {
	for _, e := range p.openElements {
		if e.name == "table" {
			return true
		}
	}
	return false
}

func (p *Parser) genericRawText(tok Token) {
	p.insertElement(tok)
	p.tok.SwitchTo(tok.Name)
	p.originalMode = p.mode
	p.switchTo(modeText)
}

func (p *Parser) inBodyEndTag(tok Token) bool {
	switch tok.Name {
	case "template":
		return p.inHead(tok)
	case "body":
		if !p.hasInScope("body") {
			p.error("unexpected end tag body")
			return false
		}
		p.switchTo(modeAfterBody)
		return false
	case "html":
		if !p.hasInScope("body") {
			p.error("unexpected end tag html")
			return false
		}
		p.switchTo(modeAfterBody)
		return true
	case "address", "article", "aside", "blockquote", "button", "center",
		"details", "dialog", "dir", "div", "dl", "fieldset", "figcaption",
		"figure", "footer", "header", "hgroup", "listing", "main", "menu",
		"nav", "ol", "pre", "section", "summary", "ul":
		if !p.hasInScope(tok.Name) {
			p.error("unexpected end tag %q", tok.Name)
			return false
		}
		p.generateImpliedEndTags("")
		if p.currentNodeName() != tok.Name {
			p.error("unexpected end tag %q", tok.Name)
		}
		p.popUntil(tok.Name)
		return false
	case "form":
		if !p.hasOnStack("template") {
			node := p.formElem
			p.formElem = nil
			if node == nil || !p.hasInScope("form") {
				p.error("unexpected end tag form")
				return false
			}
			p.generateImpliedEndTags("")
			if p.currentNodeName() != "form" {
				p.error("unexpected end tag form")
			}
			p.removeFromStack(node)
			return false
		}
		if !p.hasInScope("form") {
			p.error("unexpected end tag form")
			return false
		}
		p.generateImpliedEndTags("")
		if p.currentNodeName() != "form" {
			p.error("unexpected end tag form")
		}
		p.popUntil("form")
		return false
	case "p":
		if !p.hasInButtonScope("p") {
			p.error("unexpected end tag p")
			p.insertElement(Token{Kind: TokenStartTag, Name: "p"})
		}
		closeP(p)
		return false
	case "li":
		if !p.hasInListItemScope("li") {
			p.error("unexpected end tag li")
			return false
		}
		p.generateImpliedEndTags("li")
		if p.currentNodeName() != "li" {
			p.error("unexpected end tag li")
		}
		p.popUntil("li")
		return false
	case "dd", "dt":
		if !p.hasInScope(tok.Name) {
			p.error("unexpected end tag %q", tok.Name)
			return false
		}
		p.generateImpliedEndTags(tok.Name)
		if p.currentNodeName() != tok.Name {
			p.error("unexpected end tag %q", tok.Name)
		}
		p.popUntil(tok.Name)
		return false
	case "h1", "h2", "h3", "h4", "h5", "h6":
		anyInScope := false
		for h := range headingElements {
			if p.hasInScope(h) {
				anyInScope = true
				break
			}
		}
		if !anyInScope {
			p.error("unexpected end tag %q", tok.Name)
			return false
		}
		p.generateImpliedEndTags("")
		if p.currentNodeName() != tok.Name {
			p.error("unexpected end tag %q", tok.Name)
		}
		for len(p.openElements) > 0 {
			name := p.currentNodeName()
			p.pop()
			if headingElements[name] {
				break
			}
		}
		return false
	case "a", "b", "big", "code", "em", "font", "i", "nobr", "s", "small", "strike", "strong", "tt", "u":
		p.adoptionAgency(tok.Name)
		return false
	case "applet", "marquee", "object":
		if !p.hasInScope(tok.Name) {
			p.error("unexpected end tag %q", tok.Name)
			return false
		}
		p.generateImpliedEndTags("")
		if p.currentNodeName() != tok.Name {
			p.error("unexpected end tag %q", tok.Name)
		}
		p.popUntil(tok.Name)
		p.afeClearToLastMarker()
		return false
	case "br":
		p.error("unexpected end tag br")
		p.reconstructActiveFormattingElements()
		p.insertVoidElement(Token{Kind: TokenStartTag, Name: "br"})
		p.framesetOK = false
		return false
	default:
		p.anyOtherEndTag(tok.Name)
		return false
	}
}

func (p *Parser) anyOtherEndTag(name string) {
	for i := len(p.openElements) - 1; i >= 0; i-- {
		node := p.openElements[i]
		if node.name == name {
			p.generateImpliedEndTags(name)
			if p.currentNodeName() != name {
				p.error("unexpected end tag %q", name)
			}
			for len(p.openElements) > i {
				p.pop()
			}
			return
		}
		if specialElements[node.name] {
			p.error("unexpected end tag %q", name)
			return
		}
	}
}

func (p *Parser) inText(tok Token) bool {
	switch tok.Kind {
	case TokenCharacter:
		p.insertCharacter(tok.Char)
		return false
	case TokenEOF:
		p.error("unexpected eof in text")
		p.pop()
		p.switchTo(p.originalMode)
		return true
	case TokenEndTag:
		p.pop()
		p.switchTo(p.originalMode)
		return false
	}
	return false
}

func (p *Parser) inAfterBody(tok Token) bool {
	switch tok.Kind {
	case TokenCharacter:
		if isWhitespace(tok.Char) {
			return p.inBody(tok)
		}
	case TokenComment:
		elem := p.commentElement(tok.Data)
		p.htmlElem.AddChild(core.ElementItem(elem))
		return false
	case TokenDoctype:
		p.error("unexpected doctype")
		return false
	case TokenStartTag:
		if tok.Name == "html" {
			return p.inBody(tok)
		}
	case TokenEndTag:
		if tok.Name == "html" {
			p.switchTo(modeAfterAfterBody)
			return false
		}
	case TokenEOF:
		p.done = true
		return false
	}
	p.error("unexpected token after body")
	p.switchTo(modeInBody)
	return true
}

func (p *Parser) inFrameset(tok Token) bool {
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
		case "frameset":
			p.insertElement(tok)
			return false
		case "frame":
			p.insertVoidElement(tok)
			return false
		case "noframes":
			return p.inHead(tok)
		}
	case TokenEndTag:
		if tok.Name == "frameset" {
			if p.currentNodeName() == "html" {
				p.error("unexpected end tag frameset")
				return false
			}
			p.pop()
			if p.currentNodeName() != "frameset" {
				p.switchTo(modeAfterFrameset)
			}
			return false
		}
	case TokenEOF:
		p.done = true
		return false
	}
	p.error("unexpected token in frameset")
	return false
}

func (p *Parser) inAfterFrameset(tok Token) bool {
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
		case "noframes":
			return p.inHead(tok)
		}
	case TokenEndTag:
		if tok.Name == "html" {
			p.switchTo(modeAfterAfterFrameset)
			return false
		}
	case TokenEOF:
		p.done = true
		return false
	}
	p.error("unexpected token after frameset")
	return false
}

func (p *Parser) inAfterAfterBody(tok Token) bool {
	switch tok.Kind {
	case TokenComment:
		elem := p.commentElement(tok.Data)
		p.document.AddChild(core.ElementItem(elem))
		return false
	case TokenDoctype:
		return p.inBody(tok)
	case TokenCharacter:
		if isWhitespace(tok.Char) {
			return p.inBody(tok)
		}
	case TokenStartTag:
		if tok.Name == "html" {
			return p.inBody(tok)
		}
	case TokenEOF:
		p.done = true
		return false
	}
	p.error("unexpected token after html")
	p.switchTo(modeInBody)
	return true
}

func (p *Parser) inAfterAfterFrameset(tok Token) bool {
	switch tok.Kind {
	case TokenComment:
		elem := p.commentElement(tok.Data)
		p.document.AddChild(core.ElementItem(elem))
		return false
	case TokenDoctype:
		return p.inBody(tok)
	case TokenCharacter:
		if isWhitespace(tok.Char) {
			return p.inBody(tok)
		}
	case TokenStartTag:
		switch tok.Name {
		case "html":
			return p.inBody(tok)
		case "noframes":
			return p.inHead(tok)
		}
	case TokenEOF:
		p.done = true
		return false
	}
	p.error("unexpected token after frameset document")
	return false
}
