package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound         = errors.New("resource not found")
	ErrUploadNotFound   = fmt.Errorf("%w: upload", ErrNotFound)
	ErrArtifactNotFound = fmt.Errorf("%w: artifact", ErrNotFound)
	ErrSheetNotFound    = fmt.Errorf("%w: sheet", ErrNotFound)

	// Input errors
	ErrInvalidID         = errors.New("invalid identifier")
	ErrMissingUpload     = errors.New("no file uploaded")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyFile         = errors.New("file contains no data")
	ErrMalformedRow      = errors.New("malformed row")

	// Header detection
	ErrHeaderNotDetected = errors.New("header row not detected")

	// Dataset invariants
	ErrRaggedDataset = errors.New("columns have different row counts")
)

// NewMalformedRowError reports a row whose width disagrees with the header
func NewMalformedRowError(line, want, got int) error {
	return fmt.Errorf("%w: expected %d fields in line %d, saw %d", ErrMalformedRow, want, line, got)
}

// IsNotFoundError checks for any not-found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsHeaderNotDetected reports whether the loader refused the file for lack of a header row
func IsHeaderNotDetected(err error) bool {
	return errors.Is(err, ErrHeaderNotDetected)
}
