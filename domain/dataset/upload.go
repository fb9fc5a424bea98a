package dataset

import (
	"path/filepath"
	"strings"
	"time"

	"gotidy/domain/core"
)

// FileKind is the tabular format of an upload
type FileKind string

const (
	KindCSV   FileKind = "csv"
	KindExcel FileKind = "xlsx"
)

// KindFromName infers the file kind from the extension. ok is false for unsupported files.
func KindFromName(name string) (FileKind, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return KindCSV, true
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return KindExcel, true
	default:
		return "", false
	}
}

// Upload tracks one uploaded file and where each derived artifact lives.
// CSV uploads get sibling _actual/_cleaned CSVs and a _report workbook;
// Excel uploads keep every stage inside the source workbook.
type Upload struct {
	ID           core.UploadID `json:"id"`
	OriginalName string        `json:"original_name"`
	Kind         FileKind      `json:"kind"`
	SourcePath   string        `json:"source_path"`
	ActualPath   string        `json:"actual_path"`
	CleanedPath  string        `json:"cleaned_path"`
	ReportPath   string        `json:"report_path"`
	Cleaned      bool          `json:"cleaned"`
	Reported     bool          `json:"reported"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// NewUpload derives the artifact layout for a file stored at sourcePath
func NewUpload(originalName, sourcePath string) (*Upload, error) {
	kind, ok := KindFromName(originalName)
	if !ok {
		return nil, core.ErrUnsupportedFormat
	}

	now := time.Now().UTC()
	u := &Upload{
		ID:           core.NewUploadID(),
		OriginalName: originalName,
		Kind:         kind,
		SourcePath:   sourcePath,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	switch kind {
	case KindCSV:
		base := strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath))
		u.ActualPath = base + "_actual.csv"
		u.CleanedPath = base + "_cleaned.csv"
		u.ReportPath = base + "_report.xlsx"
	default:
		u.ActualPath = sourcePath
		u.CleanedPath = sourcePath
		u.ReportPath = sourcePath
	}
	return u, nil
}

// Touch bumps UpdatedAt
func (u *Upload) Touch() {
	u.UpdatedAt = time.Now().UTC()
}
