package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Falls back to v4 if v7 fails
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// UploadID identifies one uploaded file and every artifact derived from it
type UploadID ID

func (id UploadID) String() string { return ID(id).String() }

// IsEmpty reports whether no upload was referenced
func (id UploadID) IsEmpty() bool { return id == "" }

// NewUploadID creates a fresh upload identifier
func NewUploadID() UploadID {
	return UploadID(NewID())
}

// ParseUploadID parses a string into UploadID. Only canonical UUIDs are accepted
// since the ID doubles as a record file name.
func ParseUploadID(s string) (UploadID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: upload ID cannot be empty", ErrInvalidID)
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return UploadID(parsed.String()), nil
}
