package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"gotidy/domain/core"
)

// Dataset is an ordered set of named columns sharing one row count.
// Rows are stored row-major; every row has len(Columns) cells.
type Dataset struct {
	Columns []string
	Rows    [][]Cell
}

// New builds a dataset and enforces the equal-row-count invariant
func New(columns []string, rows [][]Cell) (*Dataset, error) {
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d cells for %d columns", core.ErrRaggedDataset, i, len(row), len(columns))
		}
	}
	return &Dataset{Columns: columns, Rows: rows}, nil
}

// NumRows returns the number of data rows
func (d *Dataset) NumRows() int { return len(d.Rows) }

// NumCols returns the number of columns
func (d *Dataset) NumCols() int { return len(d.Columns) }

// ColumnIndex returns the position of a column or -1
func (d *Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns a copy of column i
func (d *Dataset) Column(i int) []Cell {
	out := make([]Cell, len(d.Rows))
	for r, row := range d.Rows {
		out[r] = row[i]
	}
	return out
}

// IsNumeric reports whether column i has at least one value and all values are numbers
func (d *Dataset) IsNumeric(i int) bool {
	seen := false
	for _, row := range d.Rows {
		switch row[i].Kind {
		case CellText:
			return false
		case CellNumber:
			seen = true
		}
	}
	return seen
}

// NumericColumns returns the indexes of numeric columns in column order
func (d *Dataset) NumericColumns() []int {
	var idx []int
	for i := range d.Columns {
		if d.IsNumeric(i) {
			idx = append(idx, i)
		}
	}
	return idx
}

// Floats returns the present values of column i
func (d *Dataset) Floats(i int) []float64 {
	values := make([]float64, 0, len(d.Rows))
	for _, row := range d.Rows {
		if row[i].Kind == CellNumber {
			values = append(values, row[i].Num)
		}
	}
	return values
}

// MissingCounts returns the number of missing cells per column
func (d *Dataset) MissingCounts() map[string]int {
	counts := make(map[string]int, len(d.Columns))
	for i, name := range d.Columns {
		n := 0
		for _, row := range d.Rows {
			if row[i].IsMissing() {
				n++
			}
		}
		counts[name] = n
	}
	return counts
}

// DuplicateMask marks every row equal to an earlier row. Numeric columns compare
// by value, other columns by text, and missing equals missing.
func (d *Dataset) DuplicateMask() []bool {
	numeric := make([]bool, len(d.Columns))
	for i := range d.Columns {
		numeric[i] = d.IsNumeric(i)
	}

	seen := make(map[string]struct{}, len(d.Rows))
	mask := make([]bool, len(d.Rows))
	for r, row := range d.Rows {
		key := rowKey(row, numeric)
		if _, ok := seen[key]; ok {
			mask[r] = true
			continue
		}
		seen[key] = struct{}{}
	}
	return mask
}

// DuplicateCount returns the number of rows that repeat an earlier row
func (d *Dataset) DuplicateCount() int {
	n := 0
	for _, dup := range d.DuplicateMask() {
		if dup {
			n++
		}
	}
	return n
}

func rowKey(row []Cell, numeric []bool) string {
	var b strings.Builder
	for i, c := range row {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		switch {
		case c.IsMissing():
			b.WriteByte('m')
		case numeric[i]:
			b.WriteByte('n')
			b.WriteString(strconv.FormatFloat(c.Num, 'g', -1, 64))
		default:
			b.WriteByte('t')
			b.WriteString(c.Raw)
		}
	}
	return b.String()
}

// Head returns a dataset holding at most the first n rows
func (d *Dataset) Head(n int) *Dataset {
	if n > len(d.Rows) {
		n = len(d.Rows)
	}
	return &Dataset{Columns: d.Columns, Rows: d.Rows[:n]}
}

// Clone deep-copies the dataset
func (d *Dataset) Clone() *Dataset {
	cols := make([]string, len(d.Columns))
	copy(cols, d.Columns)
	rows := make([][]Cell, len(d.Rows))
	for i, row := range d.Rows {
		rows[i] = make([]Cell, len(row))
		copy(rows[i], row)
	}
	return &Dataset{Columns: cols, Rows: rows}
}

// Matrix renders the dataset as strings, header first, for writers and previews
func (d *Dataset) Matrix() [][]string {
	out := make([][]string, 0, len(d.Rows)+1)
	out = append(out, append([]string(nil), d.Columns...))
	for _, row := range d.Rows {
		line := make([]string, len(row))
		for i, c := range row {
			line[i] = c.String()
		}
		out = append(out, line)
	}
	return out
}
