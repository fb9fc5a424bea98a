package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gotidy/domain/core"
	"gotidy/domain/dataset"
	apperrors "gotidy/internal/errors"
	"gotidy/ports"
)

const (
	// ProcessedReportName is the shared workbook written by QuickProcess
	ProcessedReportName = "processed_report.xlsx"
	// HistogramImageName is the grid image written by QuickProcess
	HistogramImageName = "histogram.png"
)

// Row-total labels on the quick-process Reports sheet
const (
	TotalRowsOriginal = "Total Rows (Original)"
	TotalRowsCleaned  = "Total Rows (Cleaned)"
	RowsRemoved       = "Duplicate Rows Removed"
)

// QuickResult is returned by QuickProcess. ImagePath is empty when no
// histogram could be drawn.
type QuickResult struct {
	Upload          *dataset.Upload
	ReportPath      string
	ImagePath       string
	OriginalRows    int
	CleanedRows     int
	ImageSkipReason string
}

// QuickProcess drops duplicate rows and any row with a missing cell, writes a
// three-sheet workbook to the reports directory and a histogram grid of the
// cleaned numeric columns to the static directory
func (s *PipelineService) QuickProcess(ctx context.Context, id core.UploadID, headerConfirmed bool) (*QuickResult, error) {
	upload, err := s.record(ctx, id)
	if err != nil {
		return nil, s.fail("process", err)
	}

	actual, err := s.reader.Load(ctx, upload.SourcePath, ports.LoadOptions{HeaderConfirmed: headerConfirmed})
	if err != nil {
		return nil, s.fail("process", err)
	}
	cleaned := DropMissingRows(DropDuplicates(actual))

	totals, err := dataset.New(
		[]string{TotalRowsOriginal, TotalRowsCleaned, RowsRemoved},
		[][]dataset.Cell{{
			dataset.Number(float64(actual.NumRows())),
			dataset.Number(float64(cleaned.NumRows())),
			dataset.Number(float64(actual.NumRows() - cleaned.NumRows())),
		}},
	)
	if err != nil {
		return nil, s.fail("process", apperrors.InternalError(err.Error()))
	}

	reportPath := filepath.Join(s.reportDir, ProcessedReportName)
	if err := os.MkdirAll(s.reportDir, 0755); err != nil {
		return nil, s.fail("process", apperrors.ArtifactWriteFailed("Error saving Excel report", err))
	}
	err = s.writer.CreateWorkbook(reportPath, []ports.Sheet{
		{Name: dataset.SheetActual, Data: actual},
		{Name: dataset.SheetCleaned, Data: cleaned},
		{Name: dataset.SheetReports, Data: totals},
	}, dataset.ReportAllowList)
	if err != nil {
		return nil, s.fail("process", apperrors.ArtifactWriteFailed("Error saving Excel report", err))
	}

	result := &QuickResult{
		Upload:       upload,
		ReportPath:   reportPath,
		OriginalRows: actual.NumRows(),
		CleanedRows:  cleaned.NumRows(),
	}

	imagePath, err := s.histogramGrid(cleaned)
	if err != nil {
		s.logger.Warn("[Pipeline] histogram grid for %s skipped: %v", upload.ID, err)
		result.ImageSkipReason = err.Error()
	} else {
		result.ImagePath = imagePath
	}

	s.logger.Info("[Pipeline] quick process for %s: %d rows kept of %d", upload.ID, result.CleanedRows, result.OriginalRows)
	return result, nil
}

func (s *PipelineService) histogramGrid(ds *dataset.Dataset) (string, error) {
	numeric := ds.NumericColumns()
	if len(numeric) == 0 {
		return "", fmt.Errorf("no numeric columns to plot")
	}
	names := make([]string, len(numeric))
	values := make([][]float64, len(numeric))
	for i, col := range numeric {
		names[i] = ds.Columns[col]
		values[i] = ds.Floats(col)
	}

	png, err := safeRender(func() ([]byte, error) {
		return s.renderer.HistogramGrid(names, values)
	})
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.staticDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(s.staticDir, HistogramImageName)
	if err := os.WriteFile(path, png, 0644); err != nil {
		return "", err
	}
	return path, nil
}
