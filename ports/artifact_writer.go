package ports

import (
	"gotidy/domain/dataset"
)

// Sheet pairs a worksheet name with the dataset written to it
type Sheet struct {
	Name string
	Data *dataset.Dataset
}

// ArtifactWriter persists cleaned data and reports. Every workbook write prunes
// sheets outside allowList before saving.
type ArtifactWriter interface {
	WriteCSV(path string, ds *dataset.Dataset) error
	CreateWorkbook(path string, sheets []Sheet, allowList []string) error
	UpsertSheets(path string, sheets []Sheet, allowList []string) error
	WriteReport(path string, table *dataset.StatsTable, charts []dataset.Chart, allowList []string) ([]dataset.EmbeddedChart, []dataset.ChartFailure, error)
}
