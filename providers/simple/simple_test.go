package simple

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/inkwell/core"
)

func TestEMLProvider(t *testing.T) {
	source := "From: a@example.com\r\nSubject: Hello\r\n\r\nBody text.\r\n"
	in := core.NewInput("eml", nil)
	require.NoError(t, NewEML().Parse(in, []byte(source)))

	msg := in.Root.Element()
	from, ok := msg.Attr(in.Names.Intern("from"))
	require.True(t, ok)
	assert.Equal(t, "a@example.com", from.String_().Text())

	body := msg.Child(0).Element()
	assert.Equal(t, "Body text.", body.Child(0).String_().Text())
}

func TestVCFProvider(t *testing.T) {
	source := "BEGIN:VCARD\nVERSION:3.0\nFN:Ada Lovelace\nEND:VCARD\n"
	in := core.NewInput("vcf", nil)
	require.NoError(t, NewVCF().Parse(in, []byte(source)))

	cards := in.Root.Array()
	require.Equal(t, 1, cards.Len())
	fn, ok := cards.Get(0).Element().Attr(in.Names.Intern("FN"))
	require.True(t, ok)
	assert.Equal(t, "Ada Lovelace", fn.String_().Text())
}

func TestRTFProvider(t *testing.T) {
	source := `{\rtf1\ansi {\fonttbl{\f0 Arial;}} Hello\par World}`
	in := core.NewInput("rtf", nil)
	require.NoError(t, NewRTF().Parse(in, []byte(source)))

	text := in.Root.Element().Child(0).String_().Text()
	assert.Contains(t, text, "Hello")
	assert.Contains(t, text, "World")
	assert.NotContains(t, text, "Arial")
}

func TestCSSProvider(t *testing.T) {
	source := "body { color: red; margin: 0; }\n.title { font-weight: bold; }"
	in := core.NewInput("css", nil)
	require.NoError(t, NewCSS().Parse(in, []byte(source)))

	sheet := in.Root.Element()
	require.Equal(t, 2, sheet.ContentLength())

	rule := sheet.Child(0).Element()
	sel, ok := rule.Attr(in.Names.Intern("selector"))
	require.True(t, ok)
	assert.Equal(t, "body", sel.String_().Text())
	require.Equal(t, 2, rule.ContentLength())
}

func TestMarkdownProvider(t *testing.T) {
	source := "# Title\n\nSome paragraph text.\n\n- item one\n- item two\n\n```go\nfmt.Println(\"hi\")\n```\n"
	in := core.NewInput("md", nil)
	require.NoError(t, NewMarkdown().Parse(in, []byte(source)))

	doc := in.Root.Element()
	heading := doc.Child(0).Element()
	assert.Equal(t, "heading", heading.Tag.String())
	level, _ := heading.Attr(in.Names.Intern("level"))
	assert.Equal(t, int64(1), level.Int())

	code := doc.Child(4).Element()
	assert.Equal(t, "code_block", code.Tag.String())
}

func TestMediaWikiProvider(t *testing.T) {
	source := "== Section ==\nSome text.\n\n* item\n"
	in := core.NewInput("mediawiki", nil)
	require.NoError(t, NewMediaWiki().Parse(in, []byte(source)))

	doc := in.Root.Element()
	heading := doc.Child(0).Element()
	level, _ := heading.Attr(in.Names.Intern("level"))
	assert.Equal(t, int64(2), level.Int())
}

func TestTextileProvider(t *testing.T) {
	source := "h1. Title\n\nA paragraph.\n\n* item one\n"
	in := core.NewInput("textile", nil)
	require.NoError(t, NewTextile().Parse(in, []byte(source)))

	doc := in.Root.Element()
	heading := doc.Child(0).Element()
	level, _ := heading.Attr(in.Names.Intern("level"))
	assert.Equal(t, int64(1), level.Int())
}

func TestManProvider(t *testing.T) {
	source := ".TH INKWELL 1\n.SH NAME\ninkwell \\- document toolchain\n.SH DESCRIPTION\nDoes things.\n"
	in := core.NewInput("man", nil)
	require.NoError(t, NewMan().Parse(in, []byte(source)))

	doc := in.Root.Element()
	title, ok := doc.Attr(in.Names.Intern("title"))
	require.True(t, ok)
	assert.Equal(t, "INKWELL", title.String_().Text())

	require.Equal(t, 2, doc.ContentLength())
	name := doc.Child(0).Element()
	nameTitle, _ := name.Attr(in.Names.Intern("title"))
	assert.Equal(t, "NAME", nameTitle.String_().Text())
}
