package core

// Element is simultaneously a shape-typed attribute map and an ordered
// child sequence, plus a pool-interned tag name (§3.5). It is the node type
// every tree-shaped format — HTML5, math constructs, XML, the mark format —
// ultimately builds.
type Element struct {
	arena    *Arena
	Tag      *Name
	attrs    *Map
	children *List
}

func NewElement(a *Arena, tag *Name) *Element {
	return &Element{
		arena:    a,
		Tag:      tag,
		attrs:    NewMap(a),
		children: NewList(a),
	}
}

// SetAttr sets a named attribute (§4.1 element_set_attr).
func (e *Element) SetAttr(name *Name, v Item) { e.attrs.Put(name, v) }

func (e *Element) Attr(name *Name) (Item, bool) { return e.attrs.GetByName(name) }

func (e *Element) Attrs() *Map { return e.attrs }

// AddChild appends to the ordered child sequence (§4.1 element_add_child).
// Order is part of the document's meaning and must never be reordered by a
// consumer.
func (e *Element) AddChild(it Item) { e.children.Push(it) }

func (e *Element) Child(i int) Item { return e.children.Get(i) }

func (e *Element) Children() *List { return e.children }

// ContentLength is the element's child count (§3.5), used by the schema
// validator's CONTENT_LENGTH_MISMATCH check.
func (e *Element) ContentLength() int { return e.children.Len() }

// InsertChildAt splices an item into the child sequence at position i,
// shifting subsequent children right. Used by the HTML5 tree constructor's
// foster-parenting path, which relocates content to "before the table" in
// its parent rather than appending.
func (e *Element) InsertChildAt(i int, it Item) {
	n := e.children.Len()
	if i < 0 {
		i = 0
	}
	if i >= n {
		e.AddChild(it)
		return
	}
	e.children.Push(Null) // grow by one
	items := e.children.Items()
	copy(items[i+1:], items[i:n])
	items[i] = it
}

// LastChild returns the final child, or Null if the element has none —
// convenience used heavily by the tree constructor (merging adjacent text
// nodes, checking "is the last child already an open formatting element").
func (e *Element) LastChild() (Item, bool) {
	n := e.children.Len()
	if n == 0 {
		return Null, false
	}
	return e.children.Get(n - 1), true
}
