package excel

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"

	"github.com/xuri/excelize/v2"

	"gotidy/domain/dataset"
	"gotidy/internal"
	apperrors "gotidy/internal/errors"
	"gotidy/ports"
)

// RowsPerChart is the vertical room reserved for one embedded image.
// Charts are 384px tall and default rows are 20px, so 22 rows leave a gap.
const RowsPerChart = 22

// stagingSheet keeps a workbook non-empty while its only sheet is replaced
const stagingSheet = "__staging"

// WorkbookWriter persists datasets as CSV files and workbook sheets
type WorkbookWriter struct {
	logger *internal.Logger
}

// NewWorkbookWriter creates a writer
func NewWorkbookWriter(logger *internal.Logger) *WorkbookWriter {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &WorkbookWriter{logger: logger}
}

var _ ports.ArtifactWriter = (*WorkbookWriter)(nil)

// WriteCSV writes ds with a header row; missing cells are written empty
func (w *WorkbookWriter) WriteCSV(path string, ds *dataset.Dataset) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return apperrors.ArtifactWriteFailed("Failed to create CSV file", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = apperrors.ArtifactWriteFailed("Failed to close CSV file", cerr)
		}
	}()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(ds.Matrix()); err != nil {
		return apperrors.ArtifactWriteFailed("Failed to write CSV file", err)
	}
	w.logger.Debug("[WorkbookWriter] Wrote %d rows to %s", ds.NumRows(), path)
	return nil
}

// CreateWorkbook writes sheets into a new workbook at path, replacing any file there
func (w *WorkbookWriter) CreateWorkbook(path string, sheets []ports.Sheet, allowList []string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := w.writeSheets(f, sheets, allowList); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return apperrors.ArtifactWriteFailed("Failed to save workbook", err)
	}
	w.logger.Info("[WorkbookWriter] Created workbook %s with %d sheets", path, len(sheets))
	return nil
}

// UpsertSheets replaces same-named sheets in the existing workbook at path
func (w *WorkbookWriter) UpsertSheets(path string, sheets []ports.Sheet, allowList []string) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return apperrors.ArtifactWriteFailed("Failed to open workbook", err)
	}
	defer f.Close()

	if err := w.writeSheets(f, sheets, allowList); err != nil {
		return err
	}
	if err := f.Save(); err != nil {
		return apperrors.ArtifactWriteFailed("Failed to save workbook", err)
	}
	w.logger.Info("[WorkbookWriter] Updated %d sheets in %s", len(sheets), path)
	return nil
}

// WriteReport replaces the Reports sheet with the statistics table and embeds
// charts below it, each under a title label. A chart that cannot be embedded
// is reported back and skipped.
func (w *WorkbookWriter) WriteReport(path string, table *dataset.StatsTable, charts []dataset.Chart, allowList []string) ([]dataset.EmbeddedChart, []dataset.ChartFailure, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, apperrors.ArtifactWriteFailed("Failed to open workbook", err)
	}
	defer f.Close()

	sheet := dataset.SheetReports
	if err := replaceSheet(f, sheet); err != nil {
		return nil, nil, apperrors.ArtifactWriteFailed("Failed to prepare Reports sheet", err)
	}
	if err := writeStatsTable(f, sheet, table); err != nil {
		return nil, nil, apperrors.ArtifactWriteFailed("Failed to write statistics", err)
	}

	var (
		embedded []dataset.EmbeddedChart
		failures []dataset.ChartFailure
	)
	current := len(table.Rows) + 3
	for _, chart := range charts {
		titleCell, _ := excelize.CoordinatesToCellName(1, current)
		imageCell, _ := excelize.CoordinatesToCellName(1, current+1)

		if err := f.SetCellValue(sheet, titleCell, chart.Title); err != nil {
			failures = append(failures, dataset.ChartFailure{Kind: chart.Kind, Title: chart.Title, Err: err})
			continue
		}
		err := f.AddPictureFromBytes(sheet, imageCell, &excelize.Picture{
			Extension: ".png",
			File:      chart.PNG,
			Format:    &excelize.GraphicOptions{AltText: chart.Title},
		})
		if err != nil {
			w.logger.Warn("[WorkbookWriter] Could not embed %q: %v", chart.Title, err)
			failures = append(failures, dataset.ChartFailure{Kind: chart.Kind, Title: chart.Title, Err: err})
			_ = f.SetCellValue(sheet, titleCell, nil)
			continue
		}

		embedded = append(embedded, dataset.EmbeddedChart{Kind: chart.Kind, Title: chart.Title, TitleCell: titleCell, ImageCell: imageCell})
		current += 1 + RowsPerChart
	}

	if err := pruneSheets(f, allowList); err != nil {
		return nil, nil, apperrors.ArtifactWriteFailed("Failed to prune workbook", err)
	}
	if err := f.Save(); err != nil {
		return nil, nil, apperrors.ArtifactWriteFailed("Failed to save report", err)
	}
	w.logger.Info("[WorkbookWriter] Report written to %s (%d stats rows, %d charts)", path, len(table.Rows), len(embedded))
	return embedded, failures, nil
}

func (w *WorkbookWriter) writeSheets(f *excelize.File, sheets []ports.Sheet, allowList []string) error {
	for _, s := range sheets {
		if err := replaceSheet(f, s.Name); err != nil {
			return apperrors.ArtifactWriteFailed(fmt.Sprintf("Failed to prepare sheet %s", s.Name), err)
		}
		if err := writeDataset(f, s.Name, s.Data); err != nil {
			return apperrors.ArtifactWriteFailed(fmt.Sprintf("Failed to write sheet %s", s.Name), err)
		}
	}
	if err := pruneSheets(f, allowList); err != nil {
		return apperrors.ArtifactWriteFailed("Failed to prune workbook", err)
	}
	return nil
}

// replaceSheet leaves an empty sheet called name, deleting any previous one
func replaceSheet(f *excelize.File, name string) error {
	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return err
	}
	if idx != -1 {
		if f.SheetCount == 1 {
			if _, err := f.NewSheet(stagingSheet); err != nil {
				return err
			}
		}
		if err := f.DeleteSheet(name); err != nil {
			return err
		}
	}
	_, err = f.NewSheet(name)
	return err
}

// pruneSheets deletes every sheet outside allowList and activates the first survivor
func pruneSheets(f *excelize.File, allowList []string) error {
	allowed := make(map[string]bool, len(allowList))
	for _, name := range allowList {
		allowed[name] = true
	}

	var keep []string
	for _, name := range f.GetSheetList() {
		if allowed[name] {
			keep = append(keep, name)
		}
	}
	if len(keep) == 0 {
		return fmt.Errorf("no sheet from %v present", allowList)
	}

	idx, err := f.GetSheetIndex(keep[0])
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)

	for _, name := range f.GetSheetList() {
		if allowed[name] {
			continue
		}
		if err := f.DeleteSheet(name); err != nil {
			return err
		}
	}

	idx, err = f.GetSheetIndex(keep[0])
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	return nil
}

func writeDataset(f *excelize.File, sheet string, ds *dataset.Dataset) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}

	header := make([]interface{}, len(ds.Columns))
	for i, c := range ds.Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for r, row := range ds.Rows {
		values := make([]interface{}, len(row))
		for i, c := range row {
			values[i] = c.Value()
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := sw.SetRow(cell, values); err != nil {
			return err
		}
	}
	return sw.Flush()
}

func writeStatsTable(f *excelize.File, sheet string, table *dataset.StatsTable) error {
	header := make([]interface{}, 0, len(table.Statistics)+1)
	header = append(header, nil)
	for _, s := range table.Statistics {
		header = append(header, s)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for r, row := range table.Rows {
		values := make([]interface{}, 0, len(row.Values)+1)
		values = append(values, row.Column)
		for _, v := range row.Values {
			values = append(values, statsCell(v))
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

func statsCell(v interface{}) interface{} {
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return nil
	}
	return v
}
