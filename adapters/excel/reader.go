package excel

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"gotidy/domain/core"
	"gotidy/domain/dataset"
	"gotidy/internal"
	apperrors "gotidy/internal/errors"
	"gotidy/ports"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DataReader handles reading Excel and CSV files
type DataReader struct {
	logger *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{logger: logger}
}

var _ ports.DatasetReader = (*DataReader)(nil)

// Load parses path into a dataset. Row 0 is always the header row; unless
// opts.HeaderConfirmed is set, a header made only of placeholders is refused.
func (r *DataReader) Load(ctx context.Context, path string, opts ports.LoadOptions) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kind, ok := dataset.KindFromName(path)
	if !ok {
		return nil, apperrors.ParseFailed("Unsupported file format. Upload a CSV or Excel (.xlsx) file.", core.ErrUnsupportedFormat)
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.NotFoundWithCause("file "+path, core.ErrArtifactNotFound)
		}
		return nil, apperrors.ParseFailed("Could not access file", err)
	}

	r.logger.Debug("[DataReader] Starting to read %s file: %s", kind, path)

	var (
		ds  *dataset.Dataset
		err error
	)
	switch kind {
	case dataset.KindCSV:
		ds, err = r.readCSV(path)
		if err == nil && !opts.HeaderConfirmed && !HeaderDetected(ds.Columns) {
			return nil, apperrors.HeaderNotDetected(headerMissingMsg, core.ErrHeaderNotDetected)
		}
	default:
		ds, err = r.readExcel(path, opts.Sheet)
		if err == nil && !opts.HeaderConfirmed && !HeaderDetected(ds.Columns) {
			return nil, apperrors.HeaderNotDetected(headerMissingSheetMsg, core.ErrHeaderNotDetected)
		}
	}
	if err != nil {
		return nil, err
	}

	r.logger.Info("[DataReader] %s file processed (%d columns, %d rows)", strings.ToUpper(string(kind)), ds.NumCols(), ds.NumRows())
	return ds, nil
}

// readCSV reads a CSV file. Rows longer than the header are rejected unless the
// extra cells are empty; shorter rows are padded with missing cells.
func (r *DataReader) readCSV(path string) (*dataset.Dataset, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.ParseFailed("Failed to open CSV file", err)
	}
	content = bytes.TrimPrefix(content, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	readStart := time.Now()
	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.ParseFailed("Failed to read CSV file", err)
		}
		rows = append(rows, record)
	}
	r.logger.Debug("[DataReader] CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) == 0 {
		return nil, apperrors.ParseFailed("No columns to parse from file", core.ErrEmptyFile)
	}

	width := len(rows[0])
	for i := 1; i < len(rows); i++ {
		rows[i], err = trimToWidth(rows[i], width, i+1)
		if err != nil {
			return nil, apperrors.ParseFailed("Error tokenizing data", err)
		}
	}
	return buildDataset(rows[0], rows[1:], width)
}

// readExcel reads the named sheet, or the first sheet when the name is absent
func (r *DataReader) readExcel(path, sheet string) (*dataset.Dataset, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.ParseFailed("Error reading Excel file", err)
	}
	defer f.Close()
	r.logger.Debug("[DataReader] Excel file opened in %.2fms", float64(time.Since(startTime).Nanoseconds())/1e6)

	target, err := selectSheet(f, sheet)
	if err != nil {
		return nil, apperrors.ParseFailed("Error reading Excel file", err)
	}
	if sheet != "" && target != sheet {
		r.logger.Info("[DataReader] Sheet %q not found in %s, falling back to %q", sheet, path, target)
	}

	rows, err := f.GetRows(target, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.ParseFailed(fmt.Sprintf("Failed to read sheet %s", target), err)
	}

	// excelize trims trailing empty cells, so the widest row decides the width
	var kept [][]string
	width := 0
	for i, row := range rows {
		if i > 0 && len(row) == 0 {
			continue
		}
		kept = append(kept, row)
		if len(row) > width {
			width = len(row)
		}
	}
	if len(kept) == 0 || width == 0 {
		return nil, apperrors.ParseFailed("No columns to parse from file", core.ErrEmptyFile)
	}
	return buildDataset(kept[0], kept[1:], width)
}

func selectSheet(f *excelize.File, sheet string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", core.ErrSheetNotFound
	}
	for _, s := range sheets {
		if s == sheet {
			return s, nil
		}
	}
	return sheets[0], nil
}

func trimToWidth(row []string, width, line int) ([]string, error) {
	if len(row) <= width {
		return row, nil
	}
	for _, extra := range row[width:] {
		if extra != "" {
			return nil, core.NewMalformedRowError(line, width, len(row))
		}
	}
	return row[:width], nil
}

func buildDataset(header []string, body [][]string, width int) (*dataset.Dataset, error) {
	columns := headerNames(header, width)
	rows := make([][]dataset.Cell, len(body))
	for i, raw := range body {
		row := make([]dataset.Cell, width)
		for j := 0; j < width; j++ {
			if j < len(raw) {
				row[j] = dataset.ParseCell(raw[j])
			} else {
				row[j] = dataset.Missing()
			}
		}
		rows[i] = row
	}
	return dataset.New(columns, rows)
}
