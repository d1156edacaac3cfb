package filestorage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ensab/scolarite/internal/pkg/logger"
)

// ErrInvalidName is returned for names escaping the storage root.
var ErrInvalidName = errors.New("invalid file name")

// LocalStorage handles files under a directory of the local filesystem.
type LocalStorage struct {
	basePath string // The root directory where files are stored
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath,
// creating the directory when needed.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Debug().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{basePath: basePath}, nil
}

// GetFullPath resolves name below the storage root.
func (ls *LocalStorage) GetFullPath(name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(ls.basePath, clean), nil
}

// Open opens a stored file for reading.
func (ls *LocalStorage) Open(name string) (io.ReadCloser, error) {
	path, err := ls.GetFullPath(name)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// SaveFile writes data through a temporary file renamed into place, so readers
// never observe a partial file.
func (ls *LocalStorage) SaveFile(name string, data []byte) (string, error) {
	dstPath, err := ls.GetFullPath(name)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(dstPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create subdirectory")
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create temporary file")
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to save file content: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to save file content: %w", err)
	}
	if err := os.Rename(tmp.Name(), dstPath); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to move file into place")
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}

	logger.Info().Str("path", dstPath).Int("size", len(data)).Msg("File saved successfully")
	return dstPath, nil
}

// DeleteFile removes a stored file. Removing a missing file is not an error.
func (ls *LocalStorage) DeleteFile(name string) error {
	path, err := ls.GetFullPath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Error().Err(err).Str("path", path).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
