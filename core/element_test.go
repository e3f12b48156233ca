package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementAttrsAndChildren(t *testing.T) {
	a := NewArena()
	names := NewNamePool()

	div := NewElement(a, names.Intern("div"))
	div.SetAttr(names.Intern("class"), StringItem(NewStringFromString(a, "wrap")))

	v, ok := div.Attr(names.Intern("class"))
	require.True(t, ok)
	assert.Equal(t, "wrap", v.String_().Text())

	div.AddChild(Int(1))
	div.AddChild(Int(2))
	assert.Equal(t, 2, div.ContentLength())

	last, ok := div.LastChild()
	require.True(t, ok)
	assert.Equal(t, int64(2), last.Int())
}

func TestElementInsertChildAtFosterParenting(t *testing.T) {
	a := NewArena()
	names := NewNamePool()
	table := NewElement(a, names.Intern("table"))
	table.AddChild(Int(1))
	table.AddChild(Int(3))

	table.InsertChildAt(1, Int(2))

	got := make([]int64, table.ContentLength())
	for i := range got {
		got[i] = table.Child(i).Int()
	}
	assert.Equal(t, []int64{1, 2, 3}, got)
}

func TestMapFieldOrderAndOverwrite(t *testing.T) {
	a := NewArena()
	names := NewNamePool()
	m := NewMap(a)
	m.Put(names.Intern("a"), Int(1))
	m.Put(names.Intern("b"), Int(2))
	m.Put(names.Intern("a"), Int(10))

	assert.Equal(t, 2, m.Len())
	v, ok := m.GetByName(names.Intern("a"))
	require.True(t, ok)
	assert.Equal(t, int64(10), v.Int())

	order := m.Names()
	require.Len(t, order, 2)
	assert.Equal(t, "a", order[0].String())
	assert.Equal(t, "b", order[1].String())
}
