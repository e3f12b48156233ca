package mark

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/inkwell/core"
)

func parse(t *testing.T, source string) core.Item {
	t.Helper()
	in := core.NewInput("mark", nil)
	require.NoError(t, New().Parse(in, []byte(source)))
	require.False(t, in.Root.IsError())
	return in.Root
}

// roundTrip asserts parse -> serialize -> parse produces byte-identical
// serialized text, the practical form of §8.2's round-trip law (exact
// textual identity on re-serialization implies structural identity, since
// Serialize is a pure function of the tree).
func roundTrip(t *testing.T, source string) {
	t.Helper()
	first := parse(t, source)
	out := Serialize(first)
	second := parse(t, out)
	again := Serialize(second)

	if out != again {
		diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(out),
			B:        difflib.SplitLines(again),
			FromFile: "first-pass",
			ToFile:   "second-pass",
			Context:  3,
		})
		t.Fatalf("round trip not stable:\n%s", diff)
	}
}

func TestParsesScalars(t *testing.T) {
	cases := []struct {
		name   string
		source string
		tag    core.Tag
	}{
		{"null", "null", core.TagNull},
		{"true", "true", core.TagBool},
		{"false", "false", core.TagBool},
		{"int", "42", core.TagInt},
		{"negative int", "-7", core.TagInt},
		{"float", "3.14", core.TagFloat},
		{"string", `"hello"`, core.TagString},
		{"symbol", "'ready", core.TagSymbol},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := parse(t, tc.source)
			assert.Equal(t, tc.tag, item.Tag)
		})
	}
}

func TestParsesArrayAndMap(t *testing.T) {
	arr := parse(t, "[1, 2, 3]")
	require.Equal(t, core.TagArray, arr.Tag)
	require.Equal(t, 3, arr.Array().Len())
	assert.Equal(t, int64(2), arr.Array().Get(1).Int())

	in := core.NewInput("mark", nil)
	require.NoError(t, New().Parse(in, []byte(`{name: "ada", age: 36}`)))
	m := in.Root
	require.Equal(t, core.TagMap, m.Tag)
	name, ok := m.Map().GetByName(in.Names.Intern("name"))
	require.True(t, ok)
	assert.Equal(t, "ada", name.String_().Text())
}

func TestParsesBinaryAndDatetime(t *testing.T) {
	bin := parse(t, "b'aGVsbG8='")
	require.Equal(t, core.TagElement, bin.Tag)
	assert.Equal(t, binaryTag, bin.Element().Tag.String())
	assert.Equal(t, "hello", string(bin.Element().Child(0).String_().Bytes))

	dt := parse(t, "t'2026-07-30T00:00:00Z'")
	require.Equal(t, core.TagElement, dt.Tag)
	assert.Equal(t, datetimeTag, dt.Element().Tag.String())
	assert.Equal(t, "2026-07-30T00:00:00Z", dt.Element().Child(0).String_().Text())
}

func TestParsesElementSyntax(t *testing.T) {
	item := parse(t, `<div class:"wrap" id:'main'; "hello" 42>`)
	require.Equal(t, core.TagElement, item.Tag)
	elem := item.Element()
	assert.Equal(t, "div", elem.Tag.String())
	require.Equal(t, 2, elem.ContentLength())
	assert.Equal(t, "hello", elem.Child(0).String_().Text())
	assert.Equal(t, int64(42), elem.Child(1).Int())
}

func TestParsesCommentsAndWhitespace(t *testing.T) {
	source := "// leading comment\n[1, // inline\n 2]\n"
	item := parse(t, source)
	require.Equal(t, core.TagArray, item.Tag)
	assert.Equal(t, 2, item.Array().Len())
}

func TestMalformedInputProducesError(t *testing.T) {
	in := core.NewInput("mark", nil)
	require.NoError(t, New().Parse(in, []byte("[1, 2")))
	assert.NotEmpty(t, in.Errors)
}

func TestRoundTrip(t *testing.T) {
	sources := []string{
		"null",
		"true",
		"false",
		"42",
		"-13",
		"3.5",
		`"a string with \"quotes\" and a\nnewline"`,
		"'symbol_name",
		"[1, 2, 3]",
		"[]",
		`{age: 36, name: "ada"}`,
		"{}",
		"b'aGVsbG8='",
		"t'2026-07-30T00:00:00Z'",
		`<div class:"wrap"; "text" 1>`,
		"<leaf>",
		`<doc; <child a:1; "x"> <child a:2; "y">>`,
	}
	for _, source := range sources {
		t.Run(source, func(t *testing.T) {
			roundTrip(t, source)
		})
	}
}
