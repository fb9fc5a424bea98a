package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"gotidy/domain/core"
	"gotidy/domain/dataset"
	"gotidy/internal"
)

// UploadRepository stores upload records as <dir>/<id>.json with an
// in-process read cache in front
type UploadRepository struct {
	dir    string
	cache  *gocache.Cache
	logger *internal.Logger
}

// NewUploadRepository creates a repository rooted at dir. Cached records
// expire after ttl.
func NewUploadRepository(dir string, ttl time.Duration, logger *internal.Logger) *UploadRepository {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &UploadRepository{
		dir:    dir,
		cache:  gocache.New(ttl, 2*ttl),
		logger: logger,
	}
}

func (r *UploadRepository) recordPath(id core.UploadID) string {
	return filepath.Join(r.dir, id.String()+".json")
}

// Save writes the record atomically and refreshes the cache
func (r *UploadRepository) Save(ctx context.Context, upload *dataset.Upload) error {
	if upload == nil || upload.ID.IsEmpty() {
		return fmt.Errorf("%w: upload record has no id", core.ErrInvalidID)
	}
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("failed to create record directory: %w", err)
	}

	data, err := json.MarshalIndent(upload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode upload record: %w", err)
	}

	tmp, err := os.CreateTemp(r.dir, ".record-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp record: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write upload record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close upload record: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.recordPath(upload.ID)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to commit upload record: %w", err)
	}

	copied := *upload
	r.cache.Set(upload.ID.String(), &copied, gocache.DefaultExpiration)
	r.logger.Debug("[UploadRepository] saved %s", upload.ID)
	return nil
}

// Get returns a copy of the record. Unknown ids wrap core.ErrUploadNotFound.
func (r *UploadRepository) Get(ctx context.Context, id core.UploadID) (*dataset.Upload, error) {
	if cached, ok := r.cache.Get(id.String()); ok {
		copied := *cached.(*dataset.Upload)
		return &copied, nil
	}

	data, err := os.ReadFile(r.recordPath(id))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", core.ErrUploadNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read upload record: %w", err)
	}

	var upload dataset.Upload
	if err := json.Unmarshal(data, &upload); err != nil {
		return nil, fmt.Errorf("failed to decode upload record %s: %w", id, err)
	}

	copied := upload
	r.cache.Set(id.String(), &copied, gocache.DefaultExpiration)
	return &upload, nil
}
