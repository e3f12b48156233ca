package html5

import "github.com/oxhq/inkwell/core"

// Parser is the tree constructor (§4.5): it drives a Tokenizer token by
// token through the 23 insertion modes, building a core.Element tree and
// never failing outright — malformed input still produces a tree plus
// in.Errors.
type Parser struct {
	in  *core.Input
	tok *Tokenizer

	mode         insertionMode
	originalMode insertionMode

	openElements []openElement
	afe          []afeEntry

	templateModes []insertionMode

	document  *core.Element
	htmlElem  *core.Element
	headElem  *core.Element
	formElem  *core.Element

	parentOf map[*core.Element]*core.Element

	scriptingEnabled bool
	fosterParenting  bool
	framesetOK       bool
	quirks           quirksMode

	pendingTableChars   []rune
	pendingTableNonWS   bool

	done bool
}

// NewParser builds a tree constructor bound to in, reading tokens from tok.
func NewParser(in *core.Input, tok *Tokenizer) *Parser {
	return &Parser{
		in:         in,
		tok:        tok,
		mode:       modeInitial,
		framesetOK: true,
		parentOf:   make(map[*core.Element]*core.Element),
	}
}

// Parse runs the tree constructor to completion and returns a synthetic
// "#document" element. Its children are the <html> element (which holds
// <head> and <body>) and any comments that appear outside <html>; the
// returned root is the wrapper, not the <html> element itself.
func (p *Parser) Parse() *core.Element {
	p.document = core.NewElement(p.in.Arena, p.in.Names.Intern("#document"))
	for !p.done {
		tok := p.tok.Next()
		p.dispatch(tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
	return p.document
}

// dispatch repeatedly feeds tok through whatever insertion-mode handler is
// current, honoring the "reprocess the token" control flow the spec's
// prose leans on heavily (a mode can bounce a token to a different mode
// without consuming a new one from the tokenizer).
func (p *Parser) dispatch(tok Token) {
	for i := 0; i < 64; i++ {
		if !p.step(tok) {
			return
		}
	}
}

func (p *Parser) step(tok Token) bool {
	switch p.mode {
	case modeInitial:
		return p.inInitial(tok)
	case modeBeforeHTML:
		return p.inBeforeHTML(tok)
	case modeBeforeHead:
		return p.inBeforeHead(tok)
	case modeInHead:
		return p.inHead(tok)
	case modeInHeadNoscript:
		return p.inHeadNoscript(tok)
	case modeAfterHead:
		return p.inAfterHead(tok)
	case modeInBody, modeInTemplate:
		return p.inBody(tok)
	case modeText:
		return p.inText(tok)
	case modeInTable:
		return p.inTable(tok)
	case modeInTableText:
		return p.inTableText(tok)
	case modeInCaption:
		return p.inCaption(tok)
	case modeInColumnGroup:
		return p.inColumnGroup(tok)
	case modeInTableBody:
		return p.inTableBody(tok)
	case modeInRow:
		return p.inRow(tok)
	case modeInCell:
		return p.inCell(tok)
	case modeInSelect, modeInSelectInTable:
		return p.inSelect(tok)
	case modeAfterBody:
		return p.inAfterBody(tok)
	case modeInFrameset:
		return p.inFrameset(tok)
	case modeAfterFrameset:
		return p.inAfterFrameset(tok)
	case modeAfterAfterBody:
		return p.inAfterAfterBody(tok)
	case modeAfterAfterFrameset:
		return p.inAfterAfterFrameset(tok)
	}
	return false
}

func (p *Parser) switchTo(m insertionMode) { p.mode = m }

func (p *Parser) error(format string, args ...any) {
	p.in.AddError(core.ErrUnexpectedToken, core.Position{}, format, args...)
}

// --- tree insertion ---

func (p *Parser) insertionLocation() (*core.Element, int) {
	current := p.currentNode()
	if current == nil {
		return p.document, -1
	}
	if p.fosterParenting && isFosterParentingTarget(current.name) {
		return p.fosterParentLocation()
	}
	return current.elem, -1
}

func isFosterParentingTarget(name string) bool {
	switch name {
	case "table", "tbody", "tfoot", "thead", "tr":
		return true
	}
	return false
}

func (p *Parser) fosterParentLocation() (*core.Element, int) {
	tableIdx := -1
	for i := len(p.openElements) - 1; i >= 0; i-- {
		if p.openElements[i].name == "template" {
			return p.openElements[i].elem, -1
		}
		if p.openElements[i].name == "table" {
			tableIdx = i
			break
		}
	}
	if tableIdx <= 0 {
		return p.openElements[0].elem, -1
	}
	parent := p.openElements[tableIdx-1].elem
	tableElem := p.openElements[tableIdx].elem
	idx := childIndexOf(parent, tableElem)
	if idx == -1 {
		return parent, -1
	}
	return parent, idx
}

func childIndexOf(parent, child *core.Element) int {
	items := parent.Children().Items()
	for i, it := range items {
		if it.Tag == core.TagElement && it.Element() == child {
			return i
		}
	}
	return -1
}

func (p *Parser) insertNode(it core.Item) {
	target, idx := p.insertionLocation()
	if idx < 0 {
		target.AddChild(it)
	} else {
		target.InsertChildAt(idx, it)
	}
	if it.Tag == core.TagElement {
		p.parentOf[it.Element()] = target
	}
}

func (p *Parser) appendToCurrentNode(it core.Item) { p.insertNode(it) }

func (p *Parser) insertCharacter(r rune) {
	target, idx := p.insertionLocation()
	if idx < 0 {
		if last, ok := target.LastChild(); ok && last.Tag == core.TagString {
			merged := core.NewString(p.in.Arena, append(append([]byte(nil), last.String_().Bytes...), []byte(string(r))...))
			target.Children().Set(target.ContentLength()-1, core.StringItem(merged))
			return
		}
		target.AddChild(core.StringItem(core.NewStringFromString(p.in.Arena, string(r))))
		return
	}
	if idx > 0 {
		prev := target.Child(idx - 1)
		if prev.Tag == core.TagString {
			merged := core.NewString(p.in.Arena, append(append([]byte(nil), prev.String_().Bytes...), []byte(string(r))...))
			target.Children().Set(idx-1, core.StringItem(merged))
			return
		}
	}
	target.InsertChildAt(idx, core.StringItem(core.NewStringFromString(p.in.Arena, string(r))))
}

func (p *Parser) insertElement(tok Token) *core.Element {
	elem := p.buildElement(tok)
	p.insertNode(core.ElementItem(elem))
	p.push(tok.Name, elem)
	return elem
}

func (p *Parser) insertVoidElement(tok Token) *core.Element {
	elem := p.buildElement(tok)
	p.insertNode(core.ElementItem(elem))
	return elem
}

func (p *Parser) buildElement(tok Token) *core.Element {
	elem := core.NewElement(p.in.Arena, p.in.Names.Intern(tok.Name))
	for _, a := range tok.Attrs {
		name := p.in.Names.Intern(a.Name)
		if _, exists := elem.Attr(name); !exists {
			elem.SetAttr(name, core.StringItem(core.NewStringFromString(p.in.Arena, a.Value)))
		}
	}
	return elem
}

func (p *Parser) insertComment(data string) {
	elem := core.NewElement(p.in.Arena, p.in.Names.Intern("#comment"))
	elem.SetAttr(p.in.Names.Intern("data"), core.StringItem(core.NewStringFromString(p.in.Arena, data)))
	p.insertNode(core.ElementItem(elem))
}

func (p *Parser) detach(elem *core.Element) {
	parent, ok := p.parentOf[elem]
	if !ok {
		return
	}
	idx := childIndexOf(parent, elem)
	if idx != -1 {
		parent.Children().RemoveAt(idx)
	}
	delete(p.parentOf, elem)
}

// --- implied end tags (§4.5) ---

func (p *Parser) generateImpliedEndTags(except string) {
	for {
		name := p.currentNodeName()
		if name == "" || name == except || !impliedEndTags[name] {
			return
		}
		p.pop()
	}
}

func (p *Parser) generateImpliedEndTagsThoroughly() {
	for {
		name := p.currentNodeName()
		if name == "" || (!impliedEndTags[name] && name != "tbody" && name != "td" && name != "tfoot" && name != "th" && name != "thead" && name != "tr") {
			return
		}
		p.pop()
	}
}

// resetInsertionModeAppropriately implements §4.5's table/select/body mode
// recovery, used when popping back out of a cell/row/caption context.
func (p *Parser) resetInsertionModeAppropriately() {
	for i := len(p.openElements) - 1; i >= 0; i-- {
		last := i == 0
		node := p.openElements[i]
		switch node.name {
		case "select":
			for j := i - 1; j >= 0 && !last; j-- {
				switch p.openElements[j].name {
				case "table":
					p.switchTo(modeInSelectInTable)
					return
				}
			}
			p.switchTo(modeInSelect)
			return
		case "td", "th":
			if !last {
				p.switchTo(modeInCell)
				return
			}
		case "tr":
			p.switchTo(modeInRow)
			return
		case "tbody", "thead", "tfoot":
			p.switchTo(modeInTableBody)
			return
		case "caption":
			p.switchTo(modeInCaption)
			return
		case "colgroup":
			p.switchTo(modeInColumnGroup)
			return
		case "table":
			p.switchTo(modeInTable)
			return
		case "template":
			if len(p.templateModes) > 0 {
				p.switchTo(p.templateModes[len(p.templateModes)-1])
				return
			}
		case "head":
			p.switchTo(modeInHead)
			return
		case "body":
			p.switchTo(modeInBody)
			return
		case "html":
			if p.headElem == nil {
				p.switchTo(modeBeforeHead)
			} else {
				p.switchTo(modeAfterHead)
			}
			return
		}
		if last {
			p.switchTo(modeInBody)
			return
		}
	}
	p.switchTo(modeInBody)
}

func closeP(p *Parser) {
	p.generateImpliedEndTags("p")
	if p.currentNodeName() != "p" {
		p.error("unexpected end of paragraph context")
	}
	p.popUntil("p")
}
