package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore writes files under a root directory on the local filesystem and
// serves them from a static URL prefix.
type DiskStore struct {
	Root      string
	URLPrefix string
}

// NewDiskStore returns a DiskStore rooted at root, serving files under urlPrefix.
func NewDiskStore(root, urlPrefix string) *DiskStore {
	return &DiskStore{Root: root, URLPrefix: strings.TrimSuffix(urlPrefix, "/")}
}

// Write stores data under root/path. Rejects paths that escape the root.
func (s *DiskStore) Write(path string, data []byte) error {
	clean := filepath.Clean(filepath.FromSlash(path))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("invalid storage path %q", path)
	}

	full := filepath.Join(s.Root, clean)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// URL returns the public URL for a stored path.
func (s *DiskStore) URL(path string) string {
	return s.URLPrefix + "/" + strings.TrimPrefix(path, "/")
}
