package app

import (
	"gotidy/domain/dataset"
	"gotidy/internal"
)

// Cleaner removes duplicate rows and forward-fills missing values
type Cleaner struct {
	logger *internal.Logger
}

// CleanOutcome is the cleaned dataset plus what the pass changed
type CleanOutcome struct {
	Cleaned           *dataset.Dataset
	DuplicatesRemoved int
	CellsFilled       int
}

// NewCleaner creates a cleaner
func NewCleaner(logger *internal.Logger) *Cleaner {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Cleaner{logger: logger}
}

// Clean drops exact duplicate rows, keeping the first occurrence, then
// forward-fills each column. The input is never modified.
func (c *Cleaner) Clean(ds *dataset.Dataset) *CleanOutcome {
	deduped := DropDuplicates(ds)
	before := countMissing(deduped)
	filled := ForwardFill(deduped)
	after := countMissing(filled)

	outcome := &CleanOutcome{
		Cleaned:           filled,
		DuplicatesRemoved: ds.NumRows() - deduped.NumRows(),
		CellsFilled:       before - after,
	}
	c.logger.Info("[Cleaner] %d rows in, %d duplicates removed, %d cells filled",
		ds.NumRows(), outcome.DuplicatesRemoved, outcome.CellsFilled)
	return outcome
}

// DropDuplicates returns a copy of ds without rows equal to an earlier row
func DropDuplicates(ds *dataset.Dataset) *dataset.Dataset {
	mask := ds.DuplicateMask()
	out := &dataset.Dataset{Columns: append([]string(nil), ds.Columns...)}
	for i, row := range ds.Rows {
		if mask[i] {
			continue
		}
		out.Rows = append(out.Rows, append([]dataset.Cell(nil), row...))
	}
	return out
}

// ForwardFill returns a copy of ds where each missing cell takes the nearest
// preceding present value in its column. Leading missing cells stay missing.
func ForwardFill(ds *dataset.Dataset) *dataset.Dataset {
	out := ds.Clone()
	for col := range out.Columns {
		var last *dataset.Cell
		for r := range out.Rows {
			cell := &out.Rows[r][col]
			if cell.IsMissing() {
				if last != nil {
					*cell = *last
				}
				continue
			}
			last = cell
		}
	}
	return out
}

// DropMissingRows returns a copy of ds without any row holding a missing cell
func DropMissingRows(ds *dataset.Dataset) *dataset.Dataset {
	out := &dataset.Dataset{Columns: append([]string(nil), ds.Columns...)}
	for _, row := range ds.Rows {
		complete := true
		for _, c := range row {
			if c.IsMissing() {
				complete = false
				break
			}
		}
		if complete {
			out.Rows = append(out.Rows, append([]dataset.Cell(nil), row...))
		}
	}
	return out
}

func countMissing(ds *dataset.Dataset) int {
	total := 0
	for _, n := range ds.MissingCounts() {
		total += n
	}
	return total
}
