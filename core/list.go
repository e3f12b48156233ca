package core

// List is the ordered growable sequence backing TagArray items (§3.3).
// Appending amortizes O(1); indices are zero-based; order is semantically
// meaningful for every consumer (math-parser operand lists, JSON arrays,
// element children that happen to be flattened to a bare sequence).
type List struct {
	arena *Arena
	items []Item
}

func NewList(a *Arena) *List {
	return &List{arena: a}
}

func NewListCap(a *Arena, capHint int) *List {
	return &List{arena: a, items: make([]Item, 0, capHint)}
}

// Push appends an item, charging the arena for the (small, fixed) cost of a
// slot. Growth is geometric via Go's append, which already amortizes to
// O(1); preserving existing item *values* across growth is trivial here
// since Item is a small value type copied by the slice, not a pointer that
// growth could invalidate.
func (l *List) Push(it Item) {
	l.arena.charge(32)
	l.items = append(l.items, it)
}

func (l *List) Get(i int) Item {
	if i < 0 || i >= len(l.items) {
		return Error(&ParseError{Code: ErrAllocationFailed, Message: "core: list index out of range"})
	}
	return l.items[i]
}

func (l *List) Len() int { return len(l.items) }

// Items exposes the backing slice for range-based iteration. Callers must
// treat it as read-only; mutate through Push/Set instead.
func (l *List) Items() []Item { return l.items }

// Set overwrites the item at index i in place.
func (l *List) Set(i int, it Item) {
	if i >= 0 && i < len(l.items) {
		l.items[i] = it
	}
}

// RemoveAt splices out the item at index i, shifting subsequent items
// left. Used by the HTML5 tree constructor's adoption agency algorithm,
// which detaches a node from its current parent before reattaching it
// elsewhere in the tree.
func (l *List) RemoveAt(i int) {
	if i < 0 || i >= len(l.items) {
		return
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
}

// Clear empties the list in place, keeping the backing array for reuse.
// The adoption agency algorithm uses this to move a furthest block's
// children onto a newly created formatting element wrapper.
func (l *List) Clear() {
	l.items = l.items[:0]
}
