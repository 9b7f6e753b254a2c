// Package storage abstracts where uploaded photo files are written.
package storage

// BlobStore writes uploaded files and resolves their public URLs.
type BlobStore interface {
	// Write stores data under the given relative path, creating parent
	// directories as needed. Paths use forward slashes.
	Write(path string, data []byte) error
	// URL returns the public URL for a stored path.
	URL(path string) string
}
