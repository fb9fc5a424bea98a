package ports

import (
	"context"

	"gotidy/domain/core"
	"gotidy/domain/dataset"
)

// UploadRepository persists upload records
type UploadRepository interface {
	Save(ctx context.Context, upload *dataset.Upload) error
	Get(ctx context.Context, id core.UploadID) (*dataset.Upload, error)
}
