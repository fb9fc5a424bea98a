package core

import (
	"errors"
	"fmt"
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id == "" {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestUploadIDIsEmpty tests upload ID emptiness check
func TestUploadIDIsEmpty(t *testing.T) {
	if !UploadID("").IsEmpty() {
		t.Error("Expected empty upload ID to be empty")
	}
	if NewUploadID().IsEmpty() {
		t.Error("Expected generated upload ID to not be empty")
	}
}

// TestParseUploadID tests upload ID parsing
func TestParseUploadID(t *testing.T) {
	fresh := NewUploadID()

	tests := []struct {
		input    string
		expected UploadID
		hasError bool
	}{
		{fresh.String(), fresh, false},
		{"  " + fresh.String() + " ", fresh, false},
		{"", "", true},
		{"   ", "", true},
		{"../../etc/passwd", "", true},
	}

	for _, test := range tests {
		result, err := ParseUploadID(test.input)
		if test.hasError {
			if err == nil {
				t.Errorf("Expected error for input '%s', but got none", test.input)
			} else if !errors.Is(err, ErrInvalidID) {
				t.Errorf("Expected ErrInvalidID for input '%s', got %v", test.input, err)
			}
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, result)
		}
	}
}

func TestNotFoundHelpers(t *testing.T) {
	err := fmt.Errorf("%w: abc", ErrUploadNotFound)
	if !IsNotFoundError(err) {
		t.Errorf("Expected %v to be a not-found error", err)
	}
	if !IsNotFoundError(ErrUploadNotFound) {
		t.Error("Expected ErrUploadNotFound to wrap ErrNotFound")
	}
	if IsHeaderNotDetected(err) {
		t.Error("not-found error must not look like a header error")
	}
}
