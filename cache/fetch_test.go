package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/inkwell/db"
)

func TestFetcherFetchesLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>hi</p>"), 0o644))

	f := NewFetcher(nil, time.Second)
	content, _, err := f.Fetch(context.Background(), "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", string(content))
}

func TestFetcherReturnsErrIsDirectory(t *testing.T) {
	dir := t.TempDir()

	f := NewFetcher(nil, time.Second)
	_, _, err := f.Fetch(context.Background(), "file://"+dir)
	assert.ErrorIs(t, err, ErrIsDirectory)
}

func TestFetcherFetchesHTTPAndPopulatesDiskCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("remote content"))
	}))
	defer srv.Close()

	gdb, err := db.Connect(":memory:", false)
	require.NoError(t, err)
	disk, err := NewDiskCache(filepath.Join(t.TempDir(), "blobs"), gdb, 0)
	require.NoError(t, err)

	f := NewFetcher(disk, time.Second)
	content, contentType, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "remote content", string(content))
	assert.Equal(t, "text/plain", contentType)

	_, _, hit, err := disk.Get(srv.URL)
	require.NoError(t, err)
	assert.True(t, hit, "a successful http fetch should populate the disk cache")
}

func TestFetcherRejectsUnsupportedScheme(t *testing.T) {
	f := NewFetcher(nil, time.Second)
	_, _, err := f.Fetch(context.Background(), "ftp://example.com/file")
	assert.Error(t, err)
}
