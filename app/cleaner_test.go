package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gotidy/domain/dataset"
	"gotidy/internal"
)

func buildDataset(t *testing.T, columns []string, raw [][]string) *dataset.Dataset {
	t.Helper()
	rows := make([][]dataset.Cell, len(raw))
	for i, r := range raw {
		rows[i] = make([]dataset.Cell, len(r))
		for j, v := range r {
			rows[i][j] = dataset.ParseCell(v)
		}
	}
	ds, err := dataset.New(columns, rows)
	require.NoError(t, err)
	return ds
}

// tenRowDataset has two trailing duplicates of its first two rows and a
// value column that is missing everywhere except row 2
func tenRowDataset(t *testing.T) *dataset.Dataset {
	return buildDataset(t, []string{"id", "name", "value"}, [][]string{
		{"1", "a", ""},
		{"2", "b", "5"},
		{"3", "c", ""},
		{"4", "d", ""},
		{"5", "e", ""},
		{"6", "f", ""},
		{"7", "g", ""},
		{"8", "h", ""},
		{"1", "a", ""},
		{"2", "b", "5"},
	})
}

func TestCleanDedupesThenFills(t *testing.T) {
	ds := tenRowDataset(t)
	before := ds.Clone()

	outcome := NewCleaner(internal.NewNopLogger()).Clean(ds)
	cleaned := outcome.Cleaned

	require.Equal(t, 8, cleaned.NumRows())
	assert.Equal(t, 2, outcome.DuplicatesRemoved)
	assert.Equal(t, 6, outcome.CellsFilled)

	value := cleaned.ColumnIndex("value")
	assert.True(t, cleaned.Rows[0][value].IsMissing(), "leading missing run stays missing")
	assert.Equal(t, "5", cleaned.Rows[7][value].String())
	assert.Equal(t, 5.0, cleaned.Rows[7][value].Num)

	assert.Equal(t, before, ds, "input must not be modified")
}

func TestCleanWithoutDuplicatesKeepsRowCount(t *testing.T) {
	ds := buildDataset(t, []string{"a", "b"}, [][]string{
		{"1", "x"},
		{"2", ""},
		{"3", "y"},
	})

	outcome := NewCleaner(internal.NewNopLogger()).Clean(ds)
	assert.Equal(t, ds.NumRows(), outcome.Cleaned.NumRows())
	assert.Equal(t, 0, outcome.DuplicatesRemoved)
	assert.Equal(t, "x", outcome.Cleaned.Rows[1][1].String())
}

func TestCleanedRowsEqualOriginalMinusDuplicates(t *testing.T) {
	ds := buildDataset(t, []string{"a"}, [][]string{{"1"}, {"1"}, {"2"}, {""}, {""}, {"2"}})

	cleaned := DropDuplicates(ds)
	assert.Equal(t, ds.NumRows()-ds.DuplicateCount(), cleaned.NumRows())
	assert.Equal(t, 3, cleaned.NumRows())
}

func TestForwardFillKeepsTextAndNumbers(t *testing.T) {
	ds := buildDataset(t, []string{"n", "s"}, [][]string{
		{"", "a"},
		{"2", ""},
		{"", "b"},
		{"", ""},
	})

	filled := ForwardFill(ds)
	assert.True(t, filled.Rows[0][0].IsMissing())
	assert.Equal(t, dataset.CellNumber, filled.Rows[2][0].Kind)
	assert.Equal(t, 2.0, filled.Rows[3][0].Num)
	assert.Equal(t, "a", filled.Rows[1][1].String())
	assert.Equal(t, "b", filled.Rows[3][1].String())
}

func TestDropMissingRows(t *testing.T) {
	ds := buildDataset(t, []string{"a", "b"}, [][]string{
		{"1", "x"},
		{"2", ""},
		{"NA", "y"},
		{"4", "z"},
	})

	kept := DropMissingRows(ds)
	require.Equal(t, 2, kept.NumRows())
	assert.Equal(t, "1", kept.Rows[0][0].String())
	assert.Equal(t, "4", kept.Rows[1][0].String())
}
