package dataset

// Workbook sheet names shared by every stage
const (
	SheetActual  = "Actual Data"
	SheetCleaned = "Cleaned Data"
	SheetReports = "Reports"
)

// CleanAllowList is what survives pruning after the clean stage
var CleanAllowList = []string{SheetActual, SheetCleaned}

// ReportAllowList is what survives pruning after the report stage
var ReportAllowList = []string{SheetActual, SheetCleaned, SheetReports}

// ChangeReport summarizes what a cleaning pass changed
type ChangeReport struct {
	DuplicatesRemoved   int            `json:"duplicates_removed"`
	MissingValuesFilled map[string]int `json:"missing_values_filled"`
	// Columns keeps MissingValuesFilled in dataset order for display
	Columns []string `json:"columns"`
}

// TotalFilled sums filled cells across columns
func (c *ChangeReport) TotalFilled() int {
	total := 0
	for _, n := range c.MissingValuesFilled {
		total += n
	}
	return total
}

// StatsTable is a describe()-style table: one row per described column.
// Values hold float64 (NaN for undefined), int or string cells.
type StatsTable struct {
	Statistics []string
	Rows       []StatsRow
}

// StatsRow holds one described column
type StatsRow struct {
	Column string
	Values []interface{}
}

// ChartKind names a report chart type
type ChartKind string

const (
	ChartHistogram ChartKind = "histogram"
	ChartBoxPlot   ChartKind = "boxplot"
	ChartScatter   ChartKind = "scatter"
	ChartHeatmap   ChartKind = "heatmap"
)

// Chart is a rendered PNG with its title label
type Chart struct {
	Kind  ChartKind
	Title string
	PNG   []byte
}

// ChartFailure records a chart that could not be rendered
type ChartFailure struct {
	Kind  ChartKind
	Title string
	Err   error
}

// EmbeddedChart records where a chart landed in the Reports sheet
type EmbeddedChart struct {
	Kind      ChartKind `json:"kind"`
	Title     string    `json:"title"`
	TitleCell string    `json:"title_cell"`
	ImageCell string    `json:"image_cell"`
}
