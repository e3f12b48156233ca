package csvfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/inkwell/core"
)

func TestParsesWithHeader(t *testing.T) {
	in := core.NewInput("csv", nil)
	require.NoError(t, New().Parse(in, []byte("name,age\nAlice,30\nBob,25\n")))
	require.False(t, in.Root.IsError())

	rows := in.Root.Array()
	require.Equal(t, 2, rows.Len())

	first := rows.Get(0).Element()
	nameVal, ok := first.Attr(in.Names.Intern("name"))
	require.True(t, ok)
	assert.Equal(t, "Alice", nameVal.String_().Text())
}

func TestParsesWithoutHeader(t *testing.T) {
	p := &Provider{HasHeader: false}
	in := core.NewInput("csv", nil)
	require.NoError(t, p.Parse(in, []byte("1,2,3\n4,5,6\n")))

	rows := in.Root.Array()
	require.Equal(t, 2, rows.Len())

	first := rows.Get(0).Element()
	col0, ok := first.Attr(in.Names.Intern("col0"))
	require.True(t, ok)
	assert.Equal(t, "1", col0.String_().Text())
}

func TestEmptyCSVYieldsEmptyArray(t *testing.T) {
	in := core.NewInput("csv", nil)
	require.NoError(t, New().Parse(in, []byte("")))
	require.False(t, in.Root.IsError())
	assert.Equal(t, 0, in.Root.Array().Len())
}
