package excel

import (
	"fmt"
	"strings"
)

// placeholderPrefix names header cells that had no text
const placeholderPrefix = "Unnamed"

// Messages shown when a file has no usable header row
const (
	headerMissingMsg      = "Header row not detected. Please confirm if you want to treat the first row as header."
	headerMissingSheetMsg = "Header row not detected in Excel sheet. Please confirm if you want to treat the first row as header."
)

// placeholderName is the generated name for a blank header cell at index i
func placeholderName(i int) string {
	return fmt.Sprintf("%s: %d", placeholderPrefix, i)
}

// HeaderDetected reports whether at least one column carries a real name.
// A table whose every column is an Unnamed placeholder has no header row.
func HeaderDetected(columns []string) bool {
	for _, c := range columns {
		if !strings.HasPrefix(c, placeholderPrefix) {
			return true
		}
	}
	return false
}

// headerNames keeps header cells as written, fills empty ones with placeholders and
// de-duplicates repeated names as name, name.1, name.2, ...
func headerNames(raw []string, width int) []string {
	names := make([]string, width)
	used := make(map[string]bool, width)
	counts := make(map[string]int, width)

	for i := 0; i < width; i++ {
		name := ""
		if i < len(raw) {
			name = raw[i]
		}
		if name == "" {
			name = placeholderName(i)
		}

		candidate := name
		for used[candidate] {
			counts[name]++
			candidate = fmt.Sprintf("%s.%d", name, counts[name])
		}
		used[candidate] = true
		names[i] = candidate
	}
	return names
}
