package html5

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/inkwell/core"
)

func parseDoc(t *testing.T, source string) *core.Element {
	t.Helper()
	in := core.NewInput("html5", nil)
	tok := NewTokenizer(in, []byte(source))
	p := NewParser(in, tok)
	doc := p.Parse()
	require.NotNil(t, doc)
	return doc
}

func findFirst(e *core.Element, name string) *core.Element {
	if e.Tag.String() == name {
		return e
	}
	for _, it := range e.Children().Items() {
		if it.Tag != core.TagElement {
			continue
		}
		if found := findFirst(it.Element(), name); found != nil {
			return found
		}
	}
	return nil
}

func TestParseMinimalDocument(t *testing.T) {
	doc := parseDoc(t, "<!DOCTYPE html><html><head><title>hi</title></head><body><p>hello</p></body></html>")
	html := findFirst(doc, "html")
	require.NotNil(t, html)
	body := findFirst(doc, "body")
	require.NotNil(t, body)
	p := findFirst(body, "p")
	require.NotNil(t, p)
	require.Equal(t, 1, p.ContentLength())
	assert.Equal(t, "hello", p.Child(0).String_().Text())
}

func TestImpliedHeadAndBody(t *testing.T) {
	// No explicit <html>/<head>/<body>: the tree constructor must still
	// synthesize them (§4.5's implied-tags behavior).
	doc := parseDoc(t, "<p>one</p><p>two</p>")
	body := findFirst(doc, "body")
	require.NotNil(t, body)

	var paragraphs []*core.Element
	for _, it := range body.Children().Items() {
		if it.Tag == core.TagElement && it.Element().Tag.String() == "p" {
			paragraphs = append(paragraphs, it.Element())
		}
	}
	require.Len(t, paragraphs, 2)
	assert.Equal(t, "one", paragraphs[0].Child(0).String_().Text())
	assert.Equal(t, "two", paragraphs[1].Child(0).String_().Text())
}

func TestAutoClosesOpenParagraph(t *testing.T) {
	// A second <p> implicitly closes the first rather than nesting inside it.
	doc := parseDoc(t, "<body><p>one<p>two</body>")
	body := findFirst(doc, "body")
	require.NotNil(t, body)

	count := 0
	for _, it := range body.Children().Items() {
		if it.Tag == core.TagElement && it.Element().Tag.String() == "p" {
			count++
			assert.Equal(t, 0, countElementChildren(it.Element()), "p should not nest another p")
		}
	}
	assert.Equal(t, 2, count)
}

func countElementChildren(e *core.Element) int {
	n := 0
	for _, it := range e.Children().Items() {
		if it.Tag == core.TagElement {
			n++
		}
	}
	return n
}

func TestVoidElementsHaveNoChildren(t *testing.T) {
	doc := parseDoc(t, "<body><img src=\"x.png\"><br></body>")
	body := findFirst(doc, "body")
	require.NotNil(t, body)
	img := findFirst(body, "img")
	require.NotNil(t, img)
	assert.Equal(t, 0, img.ContentLength())
	br := findFirst(body, "br")
	require.NotNil(t, br)
	assert.Equal(t, 0, br.ContentLength())
}

func TestAdoptionAgencyRepairsMisnestedFormatting(t *testing.T) {
	// <b>1<p>2</b>3</p> is the textbook adoption-agency trigger: the <b>
	// opened outside the <p> must be reconstructed inside it.
	doc := parseDoc(t, "<body><b>1<p>2</b>3</p></body>")
	body := findFirst(doc, "body")
	require.NotNil(t, body)

	outerB := findFirst(body, "b")
	require.NotNil(t, outerB, "expected a <b> element to survive adoption")

	p := findFirst(body, "p")
	require.NotNil(t, p)
	innerB := findFirst(p, "b")
	require.NotNil(t, innerB, "adoption agency should clone <b> inside <p>")
}

func TestTableFosterParenting(t *testing.T) {
	// A stray character token inside <table> (outside any cell) is foster
	// parented out in front of the table, not inserted as if table content
	// were ordinary text (§4.5.3).
	doc := parseDoc(t, "<body><table>stray<tr><td>cell</td></tr></table></body>")
	body := findFirst(doc, "body")
	require.NotNil(t, body)
	table := findFirst(body, "table")
	require.NotNil(t, table)

	td := findFirst(table, "td")
	require.NotNil(t, td)
	require.Equal(t, 1, td.ContentLength())
	assert.Equal(t, "cell", td.Child(0).String_().Text())

	foundStray := false
	for _, it := range body.Children().Items() {
		if it.Tag == core.TagString && it.String_().Text() == "stray" {
			foundStray = true
		}
	}
	assert.True(t, foundStray, "foster-parented text should land as a sibling of <table>, not inside it")
}

func TestMalformedInputStillProducesTree(t *testing.T) {
	in := core.NewInput("html5", nil)
	require.NoError(t, New().Parse(in, []byte("<div><span></div>")))
	require.False(t, in.Root.IsError())
	assert.NotEmpty(t, in.Errors)
}

func TestProviderMetadata(t *testing.T) {
	p := New()
	assert.Equal(t, "html5", p.Format())
	assert.Contains(t, p.Extensions(), ".html")
	assert.Contains(t, p.MIMETypes(), "text/html")
}
