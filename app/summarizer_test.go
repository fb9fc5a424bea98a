package app

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gotidy/internal"
)

func TestChanges(t *testing.T) {
	actual := tenRowDataset(t)
	cleaned := NewCleaner(internal.NewNopLogger()).Clean(actual).Cleaned

	report := NewSummarizer(internal.NewNopLogger()).Changes(actual, cleaned)
	assert.Equal(t, 2, report.DuplicatesRemoved)
	assert.Equal(t, map[string]int{"id": 0, "name": 0, "value": 7}, report.MissingValuesFilled)
	assert.Equal(t, []string{"id", "name", "value"}, report.Columns)
	assert.Equal(t, 7, report.TotalFilled())
}

func TestChangesColumnAbsentFromCleaned(t *testing.T) {
	actual := buildDataset(t, []string{"a", "b"}, [][]string{{"1", ""}, {"", ""}})
	cleaned := buildDataset(t, []string{"a"}, [][]string{{"1"}, {"1"}})

	report := NewSummarizer(internal.NewNopLogger()).Changes(actual, cleaned)
	assert.Equal(t, 1, report.MissingValuesFilled["a"])
	assert.Equal(t, 2, report.MissingValuesFilled["b"])
}

func TestDescribeNumeric(t *testing.T) {
	ds := buildDataset(t, []string{"x", "label", "y"}, [][]string{
		{"1", "a", "10"},
		{"2", "b", ""},
		{"3", "c", "30"},
		{"4", "d", "20"},
	})

	table := NewSummarizer(internal.NewNopLogger()).Describe(ds)
	assert.Equal(t, NumericStatistics, table.Statistics)
	require.Len(t, table.Rows, 2)

	x := table.Rows[0]
	assert.Equal(t, "x", x.Column)
	expected := []float64{4, 2.5, math.Sqrt(5.0 / 3.0), 1, 1.75, 2.5, 3.25, 4}
	for i, want := range expected {
		assert.InDelta(t, want, x.Values[i].(float64), 1e-9, table.Statistics[i])
	}

	y := table.Rows[1]
	assert.Equal(t, "y", y.Column)
	assert.Equal(t, 3.0, y.Values[0])
	assert.InDelta(t, 20.0, y.Values[5].(float64), 1e-9)
}

func TestDescribeSingleValueHasNaNStd(t *testing.T) {
	ds := buildDataset(t, []string{"x"}, [][]string{{"7"}})

	row := NewSummarizer(internal.NewNopLogger()).Describe(ds).Rows[0]
	assert.Equal(t, 1.0, row.Values[0])
	assert.True(t, math.IsNaN(row.Values[2].(float64)))
	assert.Equal(t, 7.0, row.Values[4])
	assert.Equal(t, 7.0, row.Values[7])
}

func TestDescribeCategoricalFallback(t *testing.T) {
	ds := buildDataset(t, []string{"city", "empty"}, [][]string{
		{"paris", ""},
		{"rome", ""},
		{"paris", ""},
		{"", ""},
	})

	table := NewSummarizer(internal.NewNopLogger()).Describe(ds)
	assert.Equal(t, CategoricalStatistics, table.Statistics)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []interface{}{3, 2, "paris", 2}, table.Rows[0].Values)

	empty := table.Rows[1].Values
	assert.Equal(t, 0, empty[0])
	assert.Equal(t, 0, empty[1])
	assert.True(t, math.IsNaN(empty[2].(float64)))
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, 2.0, quantile(sorted, 0.25))
	assert.Equal(t, 3.0, quantile(sorted, 0.5))
	assert.Equal(t, 5.0, quantile(sorted, 1))
	assert.True(t, math.IsNaN(quantile(nil, 0.5)))
}

func TestCorrelationPairwiseComplete(t *testing.T) {
	ds := buildDataset(t, []string{"a", "b", "c"}, [][]string{
		{"1", "2", "5"},
		{"2", "4", ""},
		{"3", "6", "1"},
		{"4", "8", "3"},
		{"", "10", "2"},
	})

	corr := Correlation(ds, []int{0, 1, 2})
	r, c := corr.Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 3, c)

	assert.InDelta(t, 1.0, corr.At(0, 0), 1e-9)
	assert.InDelta(t, 1.0, corr.At(0, 1), 1e-9)
	assert.InDelta(t, corr.At(1, 2), corr.At(2, 1), 1e-12)
	assert.False(t, math.IsNaN(corr.At(0, 2)))
}

func TestCorrelationConstantColumnIsNaN(t *testing.T) {
	ds := buildDataset(t, []string{"a", "b"}, [][]string{{"1", "3"}, {"2", "3"}, {"3", "3"}})

	corr := Correlation(ds, []int{0, 1})
	assert.True(t, math.IsNaN(corr.At(0, 1)))
}
