package providers

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/inkwell/cache"
)

func newTestRegistry() *Registry {
	registry := NewRegistry()
	registry.Register(&stubProvider{
		format:     "text",
		extensions: []string{".txt"},
		mimeTypes:  []string{"text/plain"},
	})
	return registry
}

func TestInputFromSourceDispatchesByHint(t *testing.T) {
	d := NewDispatcher(newTestRegistry(), nil, nil, nil)

	in, err := d.InputFromSource([]byte("hello"), "text/plain")
	require.NoError(t, err)
	require.NotNil(t, in)
	assert.Equal(t, "text", in.Format)
	assert.Equal(t, "hello", in.Root.String_().Text())
}

func TestInputFromSourceUnknownHint(t *testing.T) {
	d := NewDispatcher(newTestRegistry(), nil, nil, nil)

	_, err := d.InputFromSource([]byte("hello"), "application/x-nonsense")
	assert.Error(t, err)
}

func TestInputFromURLFetchesAndDispatches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("file contents"), 0o644))

	fetcher := cache.NewFetcher(nil, time.Second)
	d := NewDispatcher(newTestRegistry(), fetcher, cache.NewTreeCache(16, 0), nil)

	in, err := d.InputFromURL(context.Background(), "file://"+path, "text")
	require.NoError(t, err)
	require.NotNil(t, in)
	assert.Equal(t, "file contents", in.Root.String_().Text())
}

func TestInputFromURLPopulatesTreeCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("cached"), 0o644))

	fetcher := cache.NewFetcher(nil, time.Second)
	trees := cache.NewTreeCache(16, 0)
	d := NewDispatcher(newTestRegistry(), fetcher, trees, nil)

	url := "file://" + path
	_, err := d.InputFromURL(context.Background(), url, "text")
	require.NoError(t, err)

	in, hit := trees.Get(url)
	require.True(t, hit)
	assert.Equal(t, "cached", in.Root.String_().Text())
}

func TestInputFromDirectoryBuildsElementTree(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644))

	d := NewDispatcher(newTestRegistry(), nil, nil, cache.NewDirectoryWalker())

	in, err := d.InputFromDirectory(dir, true, 0)
	require.NoError(t, err)
	require.NotNil(t, in)
	require.False(t, in.Root.IsError())

	elem := in.Root.Element()
	assert.Equal(t, "directory", elem.Tag.String())
	assert.Equal(t, 1, elem.ContentLength())
}

func TestInputFromURLDirectoryDelegatesToWalker(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644))

	fetcher := cache.NewFetcher(nil, time.Second)
	d := NewDispatcher(newTestRegistry(), fetcher, nil, cache.NewDirectoryWalker())

	in, err := d.InputFromURL(context.Background(), "file://"+dir, "")
	require.NoError(t, err)
	require.NotNil(t, in)
	assert.Equal(t, "directory", in.Root.Element().Tag.String())
}
