package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCell(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind CellKind
		num  float64
	}{
		{"empty", "", CellMissing, 0},
		{"whitespace is text", "   ", CellText, 0},
		{"NA marker", "NA", CellMissing, 0},
		{"padded NA marker is text", " NA ", CellText, 0},
		{"null marker", "null", CellMissing, 0},
		{"excel error marker", "#N/A", CellMissing, 0},
		{"integer", "5", CellNumber, 5},
		{"padded float", " 2.50 ", CellNumber, 2.5},
		{"negative exponent", "-1e3", CellNumber, -1000},
		{"text", "north", CellText, 0},
		{"mixed", "12abc", CellText, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell := ParseCell(tt.raw)
			assert.Equal(t, tt.kind, cell.Kind)
			if tt.kind == CellNumber {
				assert.Equal(t, tt.num, cell.Num)
			}
		})
	}
}

func TestCellRawRoundTrip(t *testing.T) {
	assert.Equal(t, "007", ParseCell("007").String())
	assert.Equal(t, "", ParseCell("NaN").String())
	assert.Equal(t, "hello", Text("hello").String())
	assert.True(t, Text("N/A").IsMissing())
	assert.Equal(t, " ", ParseCell(" ").String())
}

func TestCellValue(t *testing.T) {
	assert.Equal(t, 3.5, Number(3.5).Value())
	assert.Equal(t, "x", Text("x").Value())
	assert.Nil(t, Missing().Value())
}
