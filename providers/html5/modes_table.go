package html5

var tableContextEndTags = map[string]bool{"table": true, "tbody": true, "tfoot": true, "thead": true, "tr": true}

func (p *Parser) clearStackToTableContext(stop map[string]bool) {
	for len(p.openElements) > 0 && !stop[p.currentNodeName()] {
		p.pop()
	}
}

func (p *Parser) inTable(tok Token) bool {
	switch tok.Kind {
	case TokenCharacter:
		if tableContextEndTags[p.currentNodeName()] || p.currentNodeName() == "table" {
			p.pendingTableChars = p.pendingTableChars[:0]
			p.pendingTableNonWS = false
			p.originalMode = p.mode
			p.switchTo(modeInTableText)
			return p.inTableText(tok)
		}
	case TokenComment:
		p.insertComment(tok.Data)
		return false
	case TokenDoctype:
		p.error("unexpected doctype in table")
		return false
	case TokenStartTag:
		switch tok.Name {
		case "caption":
			p.clearStackToTableContext(map[string]bool{"table": true, "template": true, "html": true})
			p.afeInsertMarker()
			p.insertElement(tok)
			p.switchTo(modeInCaption)
			return false
		case "colgroup":
			p.clearStackToTableContext(map[string]bool{"table": true, "template": true, "html": true})
			p.insertElement(tok)
			p.switchTo(modeInColumnGroup)
			return false
		case "col":
			p.clearStackToTableContext(map[string]bool{"table": true, "template": true, "html": true})
			p.insertElement(Token{Kind: TokenStartTag, Name: "colgroup"})
			p.switchTo(modeInColumnGroup)
			return true
		case "tbody", "tfoot", "thead":
			p.clearStackToTableContext(map[string]bool{"table": true, "template": true, "html": true})
			p.insertElement(tok)
			p.switchTo(modeInTableBody)
			return false
		case "td", "th", "tr":
			p.clearStackToTableContext(map[string]bool{"table": true, "template": true, "html": true})
			p.insertElement(Token{Kind: TokenStartTag, Name: "tbody"})
			p.switchTo(modeInTableBody)
			return true
		case "table":
			p.error("unexpected nested table")
			if p.hasInTableScope("table") {
				p.popUntil("table")
				p.resetInsertionModeAppropriately()
				return true
			}
			return false
		case "style", "script", "template":
			return p.inHead(tok)
		case "input":
			if v, ok := tok.attr("type"); ok && lowerASCIIStr(v) == "hidden" {
				p.error("unexpected hidden input in table")
				p.insertVoidElement(tok)
				return false
			}
		case "form":
			if p.formElem == nil && !p.hasOnStack("template") {
				p.error("unexpected form in table")
				elem := p.insertElement(tok)
				p.pop()
				p.formElem = elem
			}
			return false
		}
	case TokenEndTag:
		switch tok.Name {
		case "table":
			if !p.hasInTableScope("table") {
				p.error("unexpected end tag table")
				return false
			}
			p.popUntil("table")
			p.resetInsertionModeAppropriately()
			return false
		case "body", "caption", "col", "colgroup", "html", "tbody", "td", "tfoot", "th", "thead", "tr":
			p.error("unexpected end tag %q in table", tok.Name)
			return false
		case "template":
			return p.inHead(tok)
		}
	case TokenEOF:
		return p.inBody(tok)
	}
	p.error("foster-parented content in table")
	p.fosterParenting = true
	result := p.inBody(tok)
	p.fosterParenting = false
	return result
}

func (p *Parser) inTableText(tok Token) bool {
	if tok.Kind == TokenCharacter {
		if tok.Char == 0 {
			p.error("unexpected null character in table text")
			return false
		}
		p.pendingTableChars = append(p.pendingTableChars, tok.Char)
		if !isWhitespace(tok.Char) {
			p.pendingTableNonWS = true
		}
		return false
	}
	if p.pendingTableNonWS {
		p.error("non-whitespace character data in table")
		p.fosterParenting = true
		for _, r := range p.pendingTableChars {
			p.insertCharacter(r)
		}
		p.fosterParenting = false
	} else {
		for _, r := range p.pendingTableChars {
			p.insertCharacter(r)
		}
	}
	p.switchTo(p.originalMode)
	return true
}

func (p *Parser) inCaption(tok Token) bool {
	switch tok.Kind {
	case TokenStartTag:
		switch tok.Name {
		case "caption", "col", "colgroup", "tbody", "td", "tfoot", "th", "thead", "tr":
			if !p.hasElementInScope("caption", map[string]bool{"table": true}) {
				p.error("unexpected start tag %q in caption", tok.Name)
				return false
			}
			p.popUntil("caption")
			p.afeClearToLastMarker()
			p.switchTo(modeInTable)
			return true
		}
	case TokenEndTag:
		switch tok.Name {
		case "caption":
			if !p.hasElementInScope("caption", map[string]bool{"table": true}) {
				p.error("unexpected end tag caption")
				return false
			}
			p.generateImpliedEndTags("")
			if p.currentNodeName() != "caption" {
				p.error("unexpected end tag caption")
			}
			p.popUntil("caption")
			p.afeClearToLastMarker()
			p.switchTo(modeInTable)
			return false
		case "table":
			if !p.hasElementInScope("caption", map[string]bool{"table": true}) {
				p.error("unexpected end tag table")
				return false
			}
			p.popUntil("caption")
			p.afeClearToLastMarker()
			p.switchTo(modeInTable)
			return true
		case "body", "col", "colgroup", "html", "tbody", "td", "tfoot", "th", "thead", "tr":
			p.error("unexpected end tag %q in caption", tok.Name)
			return false
		}
	}
	return p.inBody(tok)
}

func (p *Parser) inColumnGroup(tok Token) bool {
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
		p.error("unexpected doctype in column group")
		return false
	case TokenStartTag:
		switch tok.Name {
		case "html":
			return p.inBody(tok)
		case "col":
			p.insertVoidElement(tok)
			return false
		case "template":
			return p.inHead(tok)
		}
	case TokenEndTag:
		switch tok.Name {
		case "colgroup":
			if p.currentNodeName() != "colgroup" {
				p.error("unexpected end tag colgroup")
				return false
			}
			p.pop()
			p.switchTo(modeInTable)
			return false
		case "col":
			p.error("unexpected end tag col")
			return false
		case "template":
			return p.inHead(tok)
		}
	case TokenEOF:
		return p.inBody(tok)
	}
	if p.currentNodeName() != "colgroup" {
		p.error("unexpected token in column group")
		return false
	}
	p.pop()
	p.switchTo(modeInTable)
	return true
}

func (p *Parser) inTableBody(tok Token) bool {
	switch tok.Kind {
	case TokenStartTag:
		switch tok.Name {
		case "tr":
			p.clearStackToTableContext(map[string]bool{"tbody": true, "tfoot": true, "thead": true, "template": true, "html": true})
			p.insertElement(tok)
			p.switchTo(modeInRow)
			return false
		case "th", "td":
			p.error("unexpected start tag %q in table body", tok.Name)
			p.clearStackToTableContext(map[string]bool{"tbody": true, "tfoot": true, "thead": true, "template": true, "html": true})
			p.insertElement(Token{Kind: TokenStartTag, Name: "tr"})
			p.switchTo(modeInRow)
			return true
		case "caption", "col", "colgroup", "tbody", "tfoot", "thead":
			if !p.hasAnyInTableScope(map[string]bool{"tbody": true, "tfoot": true, "thead": true}) {
				p.error("unexpected start tag %q in table body", tok.Name)
				return false
			}
			p.clearStackToTableContext(map[string]bool{"tbody": true, "tfoot": true, "thead": true, "template": true, "html": true})
			p.popUntil(p.currentNodeName())
			p.switchTo(modeInTable)
			return true
		}
	case TokenEndTag:
		switch tok.Name {
		case "tbody", "tfoot", "thead":
			if !p.hasInTableScope(tok.Name) {
				p.error("unexpected end tag %q in table body", tok.Name)
				return false
			}
			p.clearStackToTableContext(map[string]bool{"tbody": true, "tfoot": true, "thead": true, "template": true, "html": true})
			p.pop()
			p.switchTo(modeInTable)
			return false
		case "table":
			if !p.hasAnyInTableScope(map[string]bool{"tbody": true, "tfoot": true, "thead": true}) {
				p.error("unexpected end tag table in table body")
				return false
			}
			p.clearStackToTableContext(map[string]bool{"tbody": true, "tfoot": true, "thead": true, "template": true, "html": true})
			p.pop()
			p.switchTo(modeInTable)
			return true
		case "body", "caption", "col", "colgroup", "html", "td", "th", "tr":
			p.error("unexpected end tag %q in table body", tok.Name)
			return false
		}
	}
	return p.inTable(tok)
}

func (p *Parser) inRow(tok Token) bool {
	switch tok.Kind {
	case TokenStartTag:
		switch tok.Name {
		case "th", "td":
			p.clearStackToTableContext(map[string]bool{"tr": true, "template": true, "html": true})
			p.insertElement(tok)
			p.switchTo(modeInCell)
			p.afeInsertMarker()
			return false
		case "caption", "col", "colgroup", "tbody", "tfoot", "thead", "tr":
			if !p.hasInTableScope("tr") {
				p.error("unexpected start tag %q in row", tok.Name)
				return false
			}
			p.clearStackToTableContext(map[string]bool{"tr": true, "template": true, "html": true})
			p.pop()
			p.switchTo(modeInTableBody)
			return true
		}
	case TokenEndTag:
		switch tok.Name {
		case "tr":
			if !p.hasInTableScope("tr") {
				p.error("unexpected end tag tr")
				return false
			}
			p.clearStackToTableContext(map[string]bool{"tr": true, "template": true, "html": true})
			p.pop()
			p.switchTo(modeInTableBody)
			return false
		case "table":
			if !p.hasInTableScope("tr") {
				p.error("unexpected end tag table in row")
				return false
			}
			p.clearStackToTableContext(map[string]bool{"tr": true, "template": true, "html": true})
			p.pop()
			p.switchTo(modeInTableBody)
			return true
		case "tbody", "tfoot", "thead":
			if !p.hasInTableScope(tok.Name) || !p.hasInTableScope("tr") {
				p.error("unexpected end tag %q in row", tok.Name)
				return false
			}
			p.clearStackToTableContext(map[string]bool{"tr": true, "template": true, "html": true})
			p.pop()
			p.switchTo(modeInTableBody)
			return true
		case "body", "caption", "col", "colgroup", "html", "td", "th":
			p.error("unexpected end tag %q in row", tok.Name)
			return false
		}
	}
	return p.inTable(tok)
}

func (p *Parser) inCell(tok Token) bool {
	switch tok.Kind {
	case TokenEndTag:
		switch tok.Name {
		case "td", "th":
			if !p.hasElementInScope(tok.Name, map[string]bool{"table": true}) {
				p.error("unexpected end tag %q in cell", tok.Name)
				return false
			}
			p.generateImpliedEndTags("")
			if p.currentNodeName() != tok.Name {
				p.error("unexpected end tag %q in cell", tok.Name)
			}
			p.popUntil(tok.Name)
			p.afeClearToLastMarker()
			p.switchTo(modeInRow)
			return false
		case "body", "caption", "col", "colgroup", "html":
			p.error("unexpected end tag %q in cell", tok.Name)
			return false
		case "table", "tbody", "tfoot", "thead", "tr":
			if !p.hasInTableScope(tok.Name) {
				p.error("unexpected end tag %q in cell", tok.Name)
				return false
			}
			p.closeCellAndReprocess()
			return true
		}
	case TokenStartTag:
		switch tok.Name {
		case "caption", "col", "colgroup", "tbody", "td", "tfoot", "th", "thead", "tr":
			if !p.hasElementInScope("td", map[string]bool{"table": true}) && !p.hasElementInScope("th", map[string]bool{"table": true}) {
				p.error("unexpected start tag %q in cell", tok.Name)
				return false
			}
			p.closeCellAndReprocess()
			return true
		}
	}
	return p.inBody(tok)
}

func (p *Parser) closeCellAndReprocess() {
	cell := "td"
	if p.hasElementInScope("th", map[string]bool{"table": true}) {
		cell = "th"
	}
	p.generateImpliedEndTags("")
	p.popUntil(cell)
	p.afeClearToLastMarker()
	p.switchTo(modeInRow)
}

func (p *Parser) inSelect(tok Token) bool {
	switch tok.Kind {
	case TokenCharacter:
		if tok.Char == 0 {
			p.error("unexpected null character in select")
			return false
		}
		p.insertCharacter(tok.Char)
		return false
	case TokenComment:
		p.insertComment(tok.Data)
		return false
	case TokenDoctype:
		p.error("unexpected doctype in select")
		return false
	case TokenEOF:
		return p.inBody(tok)
	case TokenStartTag:
		switch tok.Name {
		case "html":
			return p.inBody(tok)
		case "option":
			if p.currentNodeName() == "option" {
				p.pop()
			}
			p.insertElement(tok)
			return false
		case "optgroup":
			if p.currentNodeName() == "option" {
				p.pop()
			}
			if p.currentNodeName() == "optgroup" {
				p.pop()
			}
			p.insertElement(tok)
			return false
		case "select":
			p.error("unexpected nested select")
			if !p.hasInSelectScope("select") {
				return false
			}
			p.popUntilSelect()
			p.resetInsertionModeAppropriately()
			return false
		case "input", "keygen", "textarea":
			p.error("unexpected start tag %q in select", tok.Name)
			if !p.hasInSelectScope("select") {
				return false
			}
			p.popUntilSelect()
			p.resetInsertionModeAppropriately()
			return true
		case "script", "template":
			return p.inHead(tok)
		}
	case TokenEndTag:
		switch tok.Name {
		case "optgroup":
			if p.currentNodeName() == "option" && len(p.openElements) > 1 && p.openElements[len(p.openElements)-2].name == "optgroup" {
				p.pop()
			}
			if p.currentNodeName() == "optgroup" {
				p.pop()
			} else {
				p.error("unexpected end tag optgroup")
			}
			return false
		case "option":
			if p.currentNodeName() == "option" {
				p.pop()
			} else {
				p.error("unexpected end tag option")
			}
			return false
		case "select":
			if !p.hasInSelectScope("select") {
				p.error("unexpected end tag select")
				return false
			}
			p.popUntilSelect()
			p.resetInsertionModeAppropriately()
			return false
		case "template":
			return p.inHead(tok)
		}
	}
	p.error("unexpected token in select")
	return false
}

func (p *Parser) hasInSelectScope(name string) bool {
	for i := len(p.openElements) - 1; i >= 0; i-- {
		n := p.openElements[i].name
		if n == name {
			return true
		}
		if n != "optgroup" && n != "option" {
			return false
		}
	}
	return false
}

func (p *Parser) popUntilSelect() {
	for len(p.openElements) > 0 {
		top := p.openElements[len(p.openElements)-1].name
		p.pop()
		if top == "select" {
			return
		}
	}
}
