package filestorage

import (
	"io"
)

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// Open returns a reader for a stored file
	Open(name string) (io.ReadCloser, error)

	// SaveFile stores data under name, replacing any previous content, and
	// returns the full path it was written to
	SaveFile(name string, data []byte) (string, error)

	// DeleteFile removes a file from storage
	DeleteFile(name string) error

	// GetFullPath returns the full filesystem path for a stored name
	GetFullPath(name string) (string, error)
}
