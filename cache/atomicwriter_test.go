package cache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicWriterWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blob", "deadbeef")

	aw := NewAtomicWriter(false)
	require.NoError(t, aw.WriteFile(path, []byte("hello world")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(got))

	_, err = os.Stat(path + aw.tempSuffix)
	assert.True(t, os.IsNotExist(err), "temp file should not survive a successful write")
}

func TestAtomicWriterOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deadbeef")

	aw := NewAtomicWriter(true)
	require.NoError(t, aw.WriteFile(path, []byte("first")))
	require.NoError(t, aw.WriteFile(path, []byte("second")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
}

func TestAtomicWriterConcurrentWritesSamePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "concurrent")

	aw := NewAtomicWriter(false)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, aw.WriteFile(path, []byte("same content")))
		}()
	}
	wg.Wait()

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "same content", string(got))
}
