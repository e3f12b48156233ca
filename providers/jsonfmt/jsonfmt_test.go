package jsonfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/inkwell/core"
)

func parse(t *testing.T, source string) *core.Input {
	t.Helper()
	in := core.NewInput("json", nil)
	require.NoError(t, New().Parse(in, []byte(source)))
	return in
}

func TestParsesScalars(t *testing.T) {
	tests := []struct {
		name   string
		source string
		check  func(t *testing.T, item core.Item)
	}{
		{name: "integer", source: "42", check: func(t *testing.T, item core.Item) {
			assert.Equal(t, int64(42), item.Int())
		}},
		{name: "float", source: "3.5", check: func(t *testing.T, item core.Item) {
			assert.InDelta(t, 3.5, item.Float(), 0.0001)
		}},
		{name: "string", source: `"hello"`, check: func(t *testing.T, item core.Item) {
			assert.Equal(t, "hello", item.String_().Text())
		}},
		{name: "bool", source: "true", check: func(t *testing.T, item core.Item) {
			assert.True(t, item.Bool())
		}},
		{name: "null", source: "null", check: func(t *testing.T, item core.Item) {
			assert.True(t, item.IsNull())
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := parse(t, tt.source)
			require.False(t, in.Root.IsError())
			tt.check(t, in.Root)
		})
	}
}

func TestParsesObjectAndArray(t *testing.T) {
	in := parse(t, `{"name": "doc", "tags": ["a", "b"], "count": 2}`)
	require.False(t, in.Root.IsError())

	m := in.Root.Map()
	nameVal, ok := m.GetByName(in.Names.Intern("name"))
	require.True(t, ok)
	assert.Equal(t, "doc", nameVal.String_().Text())

	tagsVal, ok := m.GetByName(in.Names.Intern("tags"))
	require.True(t, ok)
	assert.Equal(t, 2, tagsVal.Array().Len())

	countVal, ok := m.GetByName(in.Names.Intern("count"))
	require.True(t, ok)
	assert.Equal(t, int64(2), countVal.Int())
}

func TestMalformedJSONProducesError(t *testing.T) {
	in := parse(t, `{"unterminated": `)
	assert.True(t, in.Root.IsError())
	assert.NotEmpty(t, in.Errors)
}
