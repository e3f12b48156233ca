package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/inkwell/db"
)

func TestDiskCachePutAndGet(t *testing.T) {
	dir := t.TempDir()
	gdb, err := db.Connect(":memory:", false)
	require.NoError(t, err)

	dc, err := NewDiskCache(filepath.Join(dir, "blobs"), gdb, 0)
	require.NoError(t, err)

	_, _, hit, err := dc.Get("https://example.com/a.html")
	require.NoError(t, err)
	assert.False(t, hit)

	entry, err := dc.Put("https://example.com/a.html", []byte("<html></html>"), "text/html")
	require.NoError(t, err)
	assert.Equal(t, HashURL("https://example.com/a.html"), entry.Hash)

	content, got, hit, err := dc.Get("https://example.com/a.html")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, "<html></html>", string(content))
	assert.Equal(t, "text/html", got.ContentType)
}

func TestDiskCacheInvalidate(t *testing.T) {
	dir := t.TempDir()
	gdb, err := db.Connect(":memory:", false)
	require.NoError(t, err)

	dc, err := NewDiskCache(filepath.Join(dir, "blobs"), gdb, 0)
	require.NoError(t, err)

	_, err = dc.Put("https://example.com/b.html", []byte("data"), "text/html")
	require.NoError(t, err)

	require.NoError(t, dc.Invalidate("https://example.com/b.html"))

	_, _, hit, err := dc.Get("https://example.com/b.html")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestDiskCacheEvictsBySize(t *testing.T) {
	dir := t.TempDir()
	gdb, err := db.Connect(":memory:", false)
	require.NoError(t, err)

	dc, err := NewDiskCache(filepath.Join(dir, "blobs"), gdb, 10)
	require.NoError(t, err)

	_, err = dc.Put("https://example.com/1", []byte("0123456789"), "text/plain")
	require.NoError(t, err)
	_, err = dc.Put("https://example.com/2", []byte("abcdefghij"), "text/plain")
	require.NoError(t, err)

	size, err := dc.Size()
	require.NoError(t, err)
	assert.LessOrEqual(t, size, int64(10))

	_, _, hit, err := dc.Get("https://example.com/1")
	require.NoError(t, err)
	assert.False(t, hit, "oldest entry should have been evicted")

	content, _, hit, err := dc.Get("https://example.com/2")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, "abcdefghij", string(content))
}
