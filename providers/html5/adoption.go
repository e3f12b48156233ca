package html5

import "github.com/oxhq/inkwell/core"

// adoptionAgency implements §4.5's adoption agency algorithm: it repairs a
// formatting element mis-nested across block boundaries, e.g. "<b>1<p>2</b>3"
// where the end tag for "b" arrives after a "p" was opened inside it. The
// outer loop is bounded to 8 iterations and the inner search to 3, matching
// the spec's own stated bounds (real documents never need more; pathological
// ones would otherwise loop forever).
func (p *Parser) adoptionAgency(name string) {
	for outer := 0; outer < 8; outer++ {
		afeIdx, formatting := p.afeFindByName(name)
		if formatting == nil {
			p.anyOtherEndTag(name)
			return
		}
		stackIdx := p.stackIndexOf(formatting.elem)
		if stackIdx == -1 {
			p.error("adoption agency: formatting element not on stack")
			p.afeRemove(afeIdx)
			return
		}
		if !p.hasInScope(name) {
			p.error("adoption agency: %q not in scope", name)
			return
		}
		if stackIdx != len(p.openElements)-1 {
			p.error("adoption agency: %q not current node", name)
		}

		furthestBlockIdx := -1
		for i := stackIdx + 1; i < len(p.openElements); i++ {
			if specialElements[p.openElements[i].name] {
				furthestBlockIdx = i
				break
			}
		}

		if furthestBlockIdx == -1 {
			for len(p.openElements) > stackIdx {
				p.pop()
			}
			p.afeRemove(afeIdx)
			return
		}

		furthestBlock := p.openElements[furthestBlockIdx].elem
		commonAncestor := p.openElements[stackIdx-1].elem

		bookmark := afeIdx
		lastNode := furthestBlock
		node := furthestBlock
		nodeIdx := furthestBlockIdx

		for inner := 0; inner < 3; inner++ {
			nodeIdx--
			if nodeIdx <= stackIdx {
				break
			}
			node = p.openElements[nodeIdx].elem
			nodeAfeIdx := p.afeFind(node)
			if nodeAfeIdx == -1 {
				p.removeFromStack(node)
				continue
			}
			if node == formatting.elem {
				break
			}

			clone := p.cloneElementShallow(p.afe[nodeAfeIdx].name, p.afe[nodeAfeIdx].token)
			p.afe[nodeAfeIdx].elem = clone
			p.openElements[nodeIdx].elem = clone
			p.parentOf[clone] = p.parentOf[node]
			node = clone

			if bookmark >= nodeAfeIdx {
				bookmark++
			}

			if lastNode == furthestBlock {
				bookmark = nodeAfeIdx + 1
			}

			p.detach(lastNode)
			node.AddChild(core.ElementItem(lastNode))
			p.parentOf[lastNode] = node
			lastNode = node
		}

		p.detach(lastNode)
		target, idx := p.adoptionInsertionLocation(commonAncestor)
		if idx < 0 {
			target.AddChild(core.ElementItem(lastNode))
		} else {
			target.InsertChildAt(idx, core.ElementItem(lastNode))
		}
		p.parentOf[lastNode] = target

		newFormatting := p.cloneElementShallow(formatting.name, formatting.token)
		children := furthestBlock.Children()
		for _, it := range children.Items() {
			newFormatting.AddChild(it)
			if it.Tag == core.TagElement {
				p.parentOf[it.Element()] = newFormatting
			}
		}
		children.Clear()
		furthestBlock.AddChild(core.ElementItem(newFormatting))
		p.parentOf[newFormatting] = furthestBlock

		p.afeRemove(afeIdx)
		insertAt := bookmark
		if insertAt > len(p.afe) {
			insertAt = len(p.afe)
		}
		p.afe = append(p.afe[:insertAt], append([]afeEntry{{elem: newFormatting, name: formatting.name, token: formatting.token}}, p.afe[insertAt:]...)...)

		p.removeFromStack(formatting.elem)
		newStackIdx := p.stackIndexOf(furthestBlock)
		if newStackIdx == -1 {
			p.push(formatting.name, newFormatting)
		} else {
			out := make([]openElement, 0, len(p.openElements)+1)
			out = append(out, p.openElements[:newStackIdx+1]...)
			out = append(out, openElement{elem: newFormatting, name: formatting.name})
			out = append(out, p.openElements[newStackIdx+1:]...)
			p.openElements = out
		}
	}
}

// adoptionInsertionLocation mirrors insertionLocation but is keyed off an
// explicit common-ancestor node rather than the current node, since the
// adoption agency algorithm computes that ancestor itself.
func (p *Parser) adoptionInsertionLocation(commonAncestor *core.Element) (*core.Element, int) {
	name := p.nodeName(commonAncestor)
	if p.fosterParenting && isFosterParentingTarget(name) {
		return p.fosterParentLocation()
	}
	return commonAncestor, -1
}

func (p *Parser) nodeName(elem *core.Element) string {
	if idx := p.stackIndexOf(elem); idx != -1 {
		return p.openElements[idx].name
	}
	return ""
}
