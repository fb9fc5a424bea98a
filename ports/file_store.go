package ports

import (
	"context"
	"io"
)

// FileStore saves uploaded files and returns where they landed
type FileStore interface {
	Store(ctx context.Context, r io.Reader, filename string) (string, error)
	Exists(ctx context.Context, path string) (bool, error)
	Delete(ctx context.Context, path string) error
}
