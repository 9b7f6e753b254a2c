package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStoreWrite(t *testing.T) {
	root := t.TempDir()
	store := NewDiskStore(root, "/static")

	err := store.Write("reports/abc/photo.jpg", []byte("jpegdata"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "reports", "abc", "photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("jpegdata"), data)
}

func TestDiskStoreRejectsEscapingPaths(t *testing.T) {
	store := NewDiskStore(t.TempDir(), "/static")

	assert.Error(t, store.Write("../outside.txt", []byte("x")))
	assert.Error(t, store.Write("/etc/passwd", []byte("x")))
}

func TestDiskStoreURL(t *testing.T) {
	store := NewDiskStore("static", "/static/")

	assert.Equal(t, "/static/reports/abc/photo.jpg", store.URL("reports/abc/photo.jpg"))
	assert.Equal(t, "/static/a.jpg", store.URL("/a.jpg"))
}
