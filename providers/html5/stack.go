package html5

import "github.com/oxhq/inkwell/core"

// afeEntry is one slot of the active formatting elements list (§4.5): a
// reconstructable formatting element, or a scope marker inserted at table
// cell/caption/object boundaries.
type afeEntry struct {
	elem     *core.Element
	name     string
	token    Token
	isMarker bool
}

// openElement pairs a tree element with the tag name used for scope
// matching, so scope checks don't need to re-intern/compare *core.Name
// values against string constants.
type openElement struct {
	elem *core.Element
	name string
}

func (p *Parser) currentNode() *openElement {
	if len(p.openElements) == 0 {
		return nil
	}
	return &p.openElements[len(p.openElements)-1]
}

func (p *Parser) currentNodeName() string {
	if c := p.currentNode(); c != nil {
		return c.name
	}
	return ""
}

func (p *Parser) push(name string, elem *core.Element) {
	p.openElements = append(p.openElements, openElement{elem: elem, name: name})
}

func (p *Parser) pop() {
	if len(p.openElements) > 0 {
		p.openElements = p.openElements[:len(p.openElements)-1]
	}
}

// popUntil pops elements off the stack through and including the first one
// named name (§4.5 "pop an element off the stack" loops).
func (p *Parser) popUntil(name string) {
	for len(p.openElements) > 0 {
		top := p.openElements[len(p.openElements)-1]
		p.pop()
		if top.name == name {
			return
		}
	}
}

func (p *Parser) hasOnStack(name string) bool {
	for _, e := range p.openElements {
		if e.name == name {
			return true
		}
	}
	return false
}

// removeFromStack removes elem wherever it appears on the open-elements
// stack (used by the adoption agency algorithm).
func (p *Parser) removeFromStack(elem *core.Element) {
	out := p.openElements[:0]
	for _, e := range p.openElements {
		if e.elem != elem {
			out = append(out, e)
		}
	}
	p.openElements = out
}

func (p *Parser) stackIndexOf(elem *core.Element) int {
	for i, e := range p.openElements {
		if e.elem == elem {
			return i
		}
	}
	return -1
}

var defaultScopeBoundary = map[string]bool{
	"applet": true, "caption": true, "html": true, "table": true, "td": true,
	"th": true, "marquee": true, "object": true, "template": true,
}

// hasElementInScope implements the family of "has an element in the
// specific scope" checks (§4.5): the generic default scope plus the
// button and list-item variants, parameterized by an extra boundary set.
// Table scope and select scope have their own boundary rules in
// hasInTableScope and hasInSelectScope.
func (p *Parser) hasElementInScope(name string, extraBoundary map[string]bool) bool {
	for i := len(p.openElements) - 1; i >= 0; i-- {
		n := p.openElements[i].name
		if n == name {
			return true
		}
		if defaultScopeBoundary[n] {
			return false
		}
		if extraBoundary != nil && extraBoundary[n] {
			return false
		}
	}
	return false
}

func (p *Parser) hasInScope(name string) bool { return p.hasElementInScope(name, nil) }

func (p *Parser) hasInButtonScope(name string) bool {
	return p.hasElementInScope(name, map[string]bool{"button": true})
}

func (p *Parser) hasInListItemScope(name string) bool {
	return p.hasElementInScope(name, map[string]bool{"ol": true, "ul": true})
}

var tableScopeBoundary = map[string]bool{"html": true, "table": true, "template": true}

func (p *Parser) hasInTableScope(name string) bool {
	for i := len(p.openElements) - 1; i >= 0; i-- {
		n := p.openElements[i].name
		if n == name {
			return true
		}
		if tableScopeBoundary[n] {
			return false
		}
	}
	return false
}

func (p *Parser) hasAnyInTableScope(names map[string]bool) bool {
	for i := len(p.openElements) - 1; i >= 0; i-- {
		n := p.openElements[i].name
		if names[n] {
			return true
		}
		if tableScopeBoundary[n] {
			return false
		}
	}
	return false
}

// --- active formatting elements list (§4.5) ---

func (p *Parser) afePush(name string, elem *core.Element, tok Token) {
	// Noah's Ark clause: at most 3 identical entries (same name, attrs)
	// since the last marker.
	matches := 0
	lastMatch := -1
	for i := len(p.afe) - 1; i >= 0; i-- {
		if p.afe[i].isMarker {
			break
		}
		if p.afe[i].name == name && sameAttrs(p.afe[i].token, tok) {
			matches++
			lastMatch = i
		}
	}
	if matches >= 3 {
		p.afe = append(p.afe[:lastMatch], p.afe[lastMatch+1:]...)
	}
	p.afe = append(p.afe, afeEntry{elem: elem, name: name, token: tok})
}

func sameAttrs(a, b Token) bool {
	if len(a.Attrs) != len(b.Attrs) {
		return false
	}
	for _, av := range a.Attrs {
		bv, ok := b.attr(av.Name)
		if !ok || bv != av.Value {
			return false
		}
	}
	return true
}

func (p *Parser) afeInsertMarker() {
	p.afe = append(p.afe, afeEntry{isMarker: true})
}

func (p *Parser) afeClearToLastMarker() {
	for len(p.afe) > 0 {
		last := p.afe[len(p.afe)-1]
		p.afe = p.afe[:len(p.afe)-1]
		if last.isMarker {
			return
		}
	}
}

func (p *Parser) afeFind(elem *core.Element) int {
	for i := len(p.afe) - 1; i >= 0; i-- {
		if p.afe[i].elem == elem {
			return i
		}
	}
	return -1
}

func (p *Parser) afeFindByName(name string) (int, *afeEntry) {
	for i := len(p.afe) - 1; i >= 0; i-- {
		if p.afe[i].isMarker {
			return -1, nil
		}
		if p.afe[i].name == name {
			return i, &p.afe[i]
		}
	}
	return -1, nil
}

func (p *Parser) afeRemove(idx int) {
	p.afe = append(p.afe[:idx], p.afe[idx+1:]...)
}

// reconstructActiveFormattingElements re-opens formatting elements that
// were implicitly closed by an intervening block element, e.g. "<b>x<p>y"
// needs the <b> re-opened inside the <p> (§4.5).
func (p *Parser) reconstructActiveFormattingElements() {
	if len(p.afe) == 0 {
		return
	}
	last := &p.afe[len(p.afe)-1]
	if last.isMarker || p.stackIndexOf(last.elem) != -1 {
		return
	}
	i := len(p.afe) - 1
	for {
		if i == 0 {
			break
		}
		i--
		if p.afe[i].isMarker || p.stackIndexOf(p.afe[i].elem) != -1 {
			i++
			break
		}
	}
	for ; i < len(p.afe); i++ {
		entry := &p.afe[i]
		clone := p.cloneElementShallow(entry.name, entry.token)
		p.appendToCurrentNode(core.ElementItem(clone))
		p.push(entry.name, clone)
		entry.elem = clone
	}
}

func (p *Parser) cloneElementShallow(name string, tok Token) *core.Element {
	elem := core.NewElement(p.in.Arena, p.in.Names.Intern(name))
	for _, a := range tok.Attrs {
		elem.SetAttr(p.in.Names.Intern(a.Name), core.StringItem(core.NewStringFromString(p.in.Arena, a.Value)))
	}
	return elem
}
