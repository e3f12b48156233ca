package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemScalars(t *testing.T) {
	a := NewArena()

	assert.True(t, Null.IsNull())
	assert.False(t, Null.IsError())

	b := Bool(true)
	assert.Equal(t, TagBool, b.Tag)
	assert.True(t, b.Bool())

	i := Int(42)
	assert.Equal(t, int64(42), i.Int())

	f := Float(a, 3.14)
	assert.InDelta(t, 3.14, f.Float(), 1e-9)
}

func TestItemErrorIsDistinctFromNull(t *testing.T) {
	e := Errorf(ErrTypeMismatch, "expected %s", "int")
	assert.True(t, e.IsError())
	assert.False(t, e.IsNull())
	assert.Equal(t, ErrTypeMismatch, e.Err().Code)
}

func TestItemAccessorPanicsOnWrongTag(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic when reading wrong accessor")
	}()
	Int(1).Bool()
}

func TestArenaBudgetExhaustion(t *testing.T) {
	a := NewArenaWithBudget(16)
	assert.True(t, a.TryCharge(8))
	assert.False(t, a.TryCharge(100))
}

func TestFloatPointerStableAcrossMoreAllocations(t *testing.T) {
	a := NewArena()
	items := make([]Item, 0, 100)
	for i := 0; i < 100; i++ {
		items = append(items, Float(a, float64(i)))
	}
	for i, it := range items {
		assert.Equal(t, float64(i), it.Float())
	}
}
