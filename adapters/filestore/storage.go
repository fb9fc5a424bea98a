package filestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gotidy/domain/core"
	"gotidy/ports"
)

// StorageConfig holds local upload storage settings
type StorageConfig struct {
	BasePath    string
	MaxFileSize int64
	ChunkSize   int
}

// DefaultStorageConfig returns the defaults used by the upload form
func DefaultStorageConfig() *StorageConfig {
	return &StorageConfig{
		BasePath:    "uploads",
		MaxFileSize: 32 << 20,
		ChunkSize:   32 * 1024,
	}
}

// LocalFileStorage keeps uploaded files in a flat directory under their original name
type LocalFileStorage struct {
	config *StorageConfig
}

// NewLocalFileStorage creates a new local file storage instance
func NewLocalFileStorage(config *StorageConfig) *LocalFileStorage {
	if config == nil {
		config = DefaultStorageConfig()
	}
	return &LocalFileStorage{config: config}
}

// NewLocalFileStorageWithPath creates a new local file storage with a simple path
func NewLocalFileStorageWithPath(basePath string) *LocalFileStorage {
	config := DefaultStorageConfig()
	config.BasePath = basePath
	return NewLocalFileStorage(config)
}

var _ ports.FileStore = (*LocalFileStorage)(nil)

// Store saves r as <base>/<filename>. Only the final path element of filename
// is used, and an existing file with that name is overwritten.
func (s *LocalFileStorage) Store(ctx context.Context, r io.Reader, filename string) (path string, err error) {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == ".." || strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: empty filename", core.ErrMissingUpload)
	}

	if err := os.MkdirAll(s.config.BasePath, 0755); err != nil {
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}

	filePath := filepath.Join(s.config.BasePath, name)
	destFile, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer func() {
		if cerr := destFile.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close destination file: %w", cerr)
		}
		if err != nil {
			os.Remove(filePath)
			path = ""
		}
	}()

	src := r
	if s.config.MaxFileSize > 0 {
		src = io.LimitReader(r, s.config.MaxFileSize+1)
	}
	buf := make([]byte, s.config.ChunkSize)
	n, err := io.CopyBuffer(destFile, src, buf)
	if err != nil {
		return "", fmt.Errorf("failed to copy file contents: %w", err)
	}
	if s.config.MaxFileSize > 0 && n > s.config.MaxFileSize {
		return "", fmt.Errorf("file exceeds %d bytes", s.config.MaxFileSize)
	}

	return filePath, nil
}

// Delete removes a stored file; a missing file is not an error
func (s *LocalFileStorage) Delete(ctx context.Context, filePath string) error {
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Exists reports whether a regular file is stored at filePath
func (s *LocalFileStorage) Exists(ctx context.Context, filePath string) (bool, error) {
	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check file existence: %w", err)
	}
	return !info.IsDir(), nil
}
