package ports

import (
	"context"

	"gotidy/domain/dataset"
)

// LoadOptions are the request-scoped knobs for loading a file
type LoadOptions struct {
	// HeaderConfirmed skips header detection and takes row 0 as the header
	HeaderConfirmed bool
	// Sheet selects an Excel sheet; the first sheet is used when empty or absent
	Sheet string
}

// DatasetReader parses CSV and Excel files into datasets
type DatasetReader interface {
	Load(ctx context.Context, path string, opts LoadOptions) (*dataset.Dataset, error)
}
