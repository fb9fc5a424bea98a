package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gotidy/domain/core"
	"gotidy/domain/dataset"
	"gotidy/internal"
)

func TestUploadRepositoryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	repo := NewUploadRepository(dir, time.Minute, internal.NewNopLogger())
	ctx := context.Background()

	upload, err := dataset.NewUpload("sales.csv", filepath.Join(dir, "sales.csv"))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, upload))
	assert.FileExists(t, filepath.Join(dir, upload.ID.String()+".json"))

	got, err := repo.Get(ctx, upload.ID)
	require.NoError(t, err)
	assert.Equal(t, upload.ReportPath, got.ReportPath)

	got.Cleaned = true
	again, err := repo.Get(ctx, upload.ID)
	require.NoError(t, err)
	assert.False(t, again.Cleaned, "callers receive copies")
}

func TestUploadRepositoryReadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	upload, err := dataset.NewUpload("book.xlsx", filepath.Join(dir, "book.xlsx"))
	require.NoError(t, err)
	upload.Reported = true
	require.NoError(t, NewUploadRepository(dir, time.Minute, internal.NewNopLogger()).Save(ctx, upload))

	fresh := NewUploadRepository(dir, time.Minute, internal.NewNopLogger())
	got, err := fresh.Get(ctx, upload.ID)
	require.NoError(t, err)
	assert.Equal(t, upload.ID, got.ID)
	assert.Equal(t, dataset.KindExcel, got.Kind)
	assert.True(t, got.Reported)
	assert.True(t, upload.CreatedAt.Equal(got.CreatedAt))
}

func TestUploadRepositoryNotFound(t *testing.T) {
	repo := NewUploadRepository(t.TempDir(), time.Minute, internal.NewNopLogger())

	_, err := repo.Get(context.Background(), core.NewUploadID())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUploadNotFound)
	assert.True(t, core.IsNotFoundError(err))
}

func TestUploadRepositoryRejectsMissingID(t *testing.T) {
	repo := NewUploadRepository(t.TempDir(), time.Minute, internal.NewNopLogger())
	err := repo.Save(context.Background(), &dataset.Upload{})
	assert.ErrorIs(t, err, core.ErrInvalidID)
}

func TestUploadRepositoryCorruptRecord(t *testing.T) {
	dir := t.TempDir()
	id := core.NewUploadID()
	require.NoError(t, os.WriteFile(filepath.Join(dir, id.String()+".json"), []byte("{"), 0644))

	_, err := NewUploadRepository(dir, time.Minute, internal.NewNopLogger()).Get(context.Background(), id)
	require.Error(t, err)
	assert.False(t, core.IsNotFoundError(err))
}
