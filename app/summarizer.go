package app

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"gotidy/domain/dataset"
	"gotidy/internal"
)

// NumericStatistics are the describe() columns for numeric data
var NumericStatistics = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// CategoricalStatistics are used when a dataset has no numeric column
var CategoricalStatistics = []string{"count", "unique", "top", "freq"}

// Summarizer computes change reports and descriptive statistics
type Summarizer struct {
	logger *internal.Logger
}

// NewSummarizer creates a summarizer
func NewSummarizer(logger *internal.Logger) *Summarizer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Summarizer{logger: logger}
}

// Changes compares the actual and cleaned datasets. Duplicates are counted on
// actual; a column missing from cleaned counts as fully filled.
func (s *Summarizer) Changes(actual, cleaned *dataset.Dataset) *dataset.ChangeReport {
	before := actual.MissingCounts()
	after := map[string]int{}
	if cleaned != nil {
		after = cleaned.MissingCounts()
	}

	report := &dataset.ChangeReport{
		DuplicatesRemoved:   actual.DuplicateCount(),
		MissingValuesFilled: make(map[string]int, len(actual.Columns)),
		Columns:             append([]string(nil), actual.Columns...),
	}
	for _, col := range actual.Columns {
		report.MissingValuesFilled[col] = before[col] - after[col]
	}

	s.logger.Debug("[Summarizer] change report: %d duplicates, %d cells filled",
		report.DuplicatesRemoved, report.TotalFilled())
	return report
}

// Describe builds the statistics table for every numeric column, or the
// categorical table when there is none
func (s *Summarizer) Describe(ds *dataset.Dataset) *dataset.StatsTable {
	numeric := ds.NumericColumns()
	if len(numeric) == 0 {
		return describeCategorical(ds)
	}

	table := &dataset.StatsTable{Statistics: NumericStatistics}
	for _, col := range numeric {
		row, err := describeNumeric(ds.Floats(col))
		if err != nil {
			s.logger.Warn("[Summarizer] column %q: %v", ds.Columns[col], err)
		}
		table.Rows = append(table.Rows, dataset.StatsRow{Column: ds.Columns[col], Values: row})
	}
	return table
}

func describeNumeric(values []float64) ([]interface{}, error) {
	n := len(values)
	out := []interface{}{float64(n), math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN()}
	if n == 0 {
		return out, nil
	}

	mean, err := stats.Mean(values)
	if err != nil {
		return out, err
	}
	lowest, err := stats.Min(values)
	if err != nil {
		return out, err
	}
	highest, err := stats.Max(values)
	if err != nil {
		return out, err
	}
	std := math.NaN()
	if n > 1 {
		if std, err = stats.StandardDeviationSample(values); err != nil {
			return out, err
		}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	out[1] = mean
	out[2] = std
	out[3] = lowest
	out[4] = quantile(sorted, 0.25)
	out[5] = quantile(sorted, 0.50)
	out[6] = quantile(sorted, 0.75)
	out[7] = highest
	return out, nil
}

// quantile interpolates linearly between the closest ranks of sorted data
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	h := float64(len(sorted)-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

func describeCategorical(ds *dataset.Dataset) *dataset.StatsTable {
	table := &dataset.StatsTable{Statistics: CategoricalStatistics}
	for col, name := range ds.Columns {
		counts := map[string]int{}
		var order []string
		present := 0
		for _, cell := range ds.Column(col) {
			if cell.IsMissing() {
				continue
			}
			present++
			key := cell.String()
			if counts[key] == 0 {
				order = append(order, key)
			}
			counts[key]++
		}

		var top interface{} = math.NaN()
		var freq interface{} = math.NaN()
		best := 0
		for _, key := range order {
			if counts[key] > best {
				best = counts[key]
				top, freq = key, best
			}
		}
		table.Rows = append(table.Rows, dataset.StatsRow{
			Column: name,
			Values: []interface{}{present, len(order), top, freq},
		})
	}
	return table
}

// Correlation returns the Pearson correlation matrix of the given columns,
// each pair computed over rows where both cells are present
func Correlation(ds *dataset.Dataset, columns []int) *mat.SymDense {
	corr := mat.NewSymDense(len(columns), nil)
	for i, a := range columns {
		for j := i; j < len(columns); j++ {
			xs, ys := pairwiseComplete(ds, a, columns[j])
			r := math.NaN()
			if len(xs) > 1 {
				r = stat.Correlation(xs, ys, nil)
			}
			corr.SetSym(i, j, r)
		}
	}
	return corr
}

func pairwiseComplete(ds *dataset.Dataset, a, b int) ([]float64, []float64) {
	var xs, ys []float64
	for _, row := range ds.Rows {
		x, y := row[a], row[b]
		if x.Kind != dataset.CellNumber || y.Kind != dataset.CellNumber {
			continue
		}
		xs = append(xs, x.Num)
		ys = append(ys, y.Num)
	}
	return xs, ys
}
