package dataset

import (
	"strconv"
	"strings"
)

// CellKind classifies a scalar value in a tabular dataset
type CellKind int

const (
	CellMissing CellKind = iota
	CellNumber
	CellText
)

// naValues are the markers read as missing, matching the vocabulary most
// spreadsheet and dataframe tools agree on.
var naValues = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// Cell is a single value. Raw keeps the text as read so present values round-trip.
type Cell struct {
	Kind CellKind
	Raw  string
	Num  float64
}

// Missing returns the missing-value marker
func Missing() Cell {
	return Cell{Kind: CellMissing}
}

// Number builds a numeric cell
func Number(v float64) Cell {
	return Cell{Kind: CellNumber, Raw: strconv.FormatFloat(v, 'f', -1, 64), Num: v}
}

// Text builds a text cell; NA markers still become missing
func Text(s string) Cell {
	if IsNA(s) {
		return Missing()
	}
	return Cell{Kind: CellText, Raw: s}
}

// IsNA reports whether s is exactly one of the missing-value markers.
// Whitespace is data: "  " and " NA " are text.
func IsNA(s string) bool {
	_, ok := naValues[s]
	return ok
}

// ParseCell classifies raw text as missing, numeric or text. Numbers may carry
// surrounding spaces; NA markers must match exactly.
func ParseCell(raw string) Cell {
	if IsNA(raw) {
		return Missing()
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		return Cell{Kind: CellNumber, Raw: raw, Num: v}
	}
	return Cell{Kind: CellText, Raw: raw}
}

// IsMissing reports whether the cell holds no value
func (c Cell) IsMissing() bool {
	return c.Kind == CellMissing
}

// String renders the cell for previews and CSV output; missing cells render empty
func (c Cell) String() string {
	if c.Kind == CellMissing {
		return ""
	}
	return c.Raw
}

// Value returns the cell as a spreadsheet value: float64, string or nil
func (c Cell) Value() interface{} {
	switch c.Kind {
	case CellNumber:
		return c.Num
	case CellText:
		return c.Raw
	default:
		return nil
	}
}
