package xmlfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/inkwell/core"
)

func TestParsesNestedElementsAndAttributes(t *testing.T) {
	in := core.NewInput("xml", nil)
	require.NoError(t, New().Parse(in, []byte(`<book id="1"><title>Go</title><author>Gopher</author></book>`)))
	require.False(t, in.Root.IsError())

	book := in.Root.Element()
	assert.Equal(t, "book", book.Tag.String())

	idVal, ok := book.Attr(in.Names.Intern("id"))
	require.True(t, ok)
	assert.Equal(t, "1", idVal.String_().Text())

	require.Equal(t, 2, book.ContentLength())
	title := book.Child(0).Element()
	assert.Equal(t, "title", title.Tag.String())
	assert.Equal(t, "Go", title.Child(0).String_().Text())
}

func TestMalformedXMLProducesError(t *testing.T) {
	in := core.NewInput("xml", nil)
	require.NoError(t, New().Parse(in, []byte(`<book><title>Go</book>`)))
	assert.True(t, in.Root.IsError())
	assert.NotEmpty(t, in.Errors)
}

func TestEmptyDocumentProducesError(t *testing.T) {
	in := core.NewInput("xml", nil)
	require.NoError(t, New().Parse(in, []byte(``)))
	assert.True(t, in.Root.IsError())
}
