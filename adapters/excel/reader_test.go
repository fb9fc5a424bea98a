package excel

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gotidy/domain/core"
	"gotidy/domain/dataset"
	"gotidy/internal"
	apperrors "gotidy/internal/errors"
	"gotidy/ports"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func writeWorkbook(t *testing.T, name string, sheets map[string][][]interface{}, order []string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", sheet))
		} else {
			_, err := f.NewSheet(sheet)
			require.NoError(t, err)
		}
		for r, row := range sheets[sheet] {
			cell, _ := excelize.CoordinatesToCellName(1, r+1)
			values := row
			require.NoError(t, f.SetSheetRow(sheet, cell, &values))
		}
	}

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func newTestReader() *DataReader {
	return NewDataReader(internal.NewNopLogger())
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "sales.csv", "\ufeffregion,amount,note\nnorth,10,\nsouth,,late\neast,7.5\n")

	ds, err := newTestReader().Load(context.Background(), path, ports.LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"region", "amount", "note"}, ds.Columns)
	require.Equal(t, 3, ds.NumRows())
	assert.Equal(t, dataset.CellText, ds.Rows[0][0].Kind)
	assert.Equal(t, 10.0, ds.Rows[0][1].Num)
	assert.True(t, ds.Rows[1][1].IsMissing())
	assert.True(t, ds.Rows[2][2].IsMissing(), "short rows are padded")
	assert.Equal(t, []int{1}, ds.NumericColumns())
}

func TestLoadCSVHeaderNames(t *testing.T) {
	path := writeFile(t, "dupes.csv", "a,,a,a\n1,2,3,4\n")

	ds, err := newTestReader().Load(context.Background(), path, ports.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "Unnamed: 1", "a.1", "a.2"}, ds.Columns)
}

func TestLoadCSVHeaderNotDetected(t *testing.T) {
	path := writeFile(t, "noheader.csv", ",\n1,2\n3,4\n")

	_, err := newTestReader().Load(context.Background(), path, ports.LoadOptions{})
	require.Error(t, err)
	assert.True(t, core.IsHeaderNotDetected(err))
	assert.Equal(t, apperrors.CodeHeaderNotDetected, apperrors.GetCode(err))
	assert.Equal(t, headerMissingMsg, apperrors.UserMessage(err))

	ds, err := newTestReader().Load(context.Background(), path, ports.LoadOptions{HeaderConfirmed: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Unnamed: 0", "Unnamed: 1"}, ds.Columns)
	assert.Equal(t, 2, ds.NumRows())
}

func TestLoadCSVKeepsWhitespace(t *testing.T) {
	path := writeFile(t, "spaces.csv", " id ,note\n 1 , \n2, NA \n")

	ds, err := newTestReader().Load(context.Background(), path, ports.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{" id ", "note"}, ds.Columns)
	assert.Equal(t, dataset.CellNumber, ds.Rows[0][0].Kind, "padded numbers still parse")
	assert.Equal(t, " ", ds.Rows[0][1].String())
	assert.Equal(t, " NA ", ds.Rows[1][1].String())
	assert.Equal(t, map[string]int{" id ": 0, "note": 0}, ds.MissingCounts())
}

func TestLoadCSVWhitespaceHeaderIsAName(t *testing.T) {
	path := writeFile(t, "blankish.csv", " ,\n1,2\n")

	ds, err := newTestReader().Load(context.Background(), path, ports.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{" ", "Unnamed: 1"}, ds.Columns)
}

func TestLoadCSVRejectsLongRows(t *testing.T) {
	path := writeFile(t, "long.csv", "a,b\n1,2,3\n")

	_, err := newTestReader().Load(context.Background(), path, ports.LoadOptions{})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeParseFailed, apperrors.GetCode(err))
	assert.ErrorIs(t, err, core.ErrMalformedRow)
}

func TestLoadCSVAcceptsEmptyTrailingCells(t *testing.T) {
	path := writeFile(t, "trailing.csv", "a,b\n1,2,\n")

	ds, err := newTestReader().Load(context.Background(), path, ports.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, ds.NumCols())
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeFile(t, "empty.csv", "")

	_, err := newTestReader().Load(context.Background(), path, ports.LoadOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrEmptyFile)
	assert.Equal(t, apperrors.CodeParseFailed, apperrors.GetCode(err))
}

func TestLoadUnsupportedAndMissing(t *testing.T) {
	r := newTestReader()

	_, err := r.Load(context.Background(), writeFile(t, "notes.txt", "a\n1\n"), ports.LoadOptions{})
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)

	_, err = r.Load(context.Background(), filepath.Join(t.TempDir(), "gone.csv"), ports.LoadOptions{})
	assert.True(t, core.IsNotFoundError(err))
	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(err))
}

func TestLoadExcel(t *testing.T) {
	path := writeWorkbook(t, "book.xlsx", map[string][][]interface{}{
		"Data": {
			{"name", "score"},
			{"ann", 3},
			{},
			{"bob", nil},
			{"cy", 4.5},
		},
	}, []string{"Data"})

	ds, err := newTestReader().Load(context.Background(), path, ports.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "score"}, ds.Columns)
	require.Equal(t, 3, ds.NumRows(), "empty rows are skipped")
	assert.Equal(t, 3.0, ds.Rows[0][1].Num)
	assert.True(t, ds.Rows[1][1].IsMissing())
	assert.Equal(t, 4.5, ds.Rows[2][1].Num)
}

func TestLoadExcelHeaderNotDetected(t *testing.T) {
	path := writeWorkbook(t, "unnamed.xlsx", map[string][][]interface{}{
		"Sheet": {
			{"Unnamed: 0", "Unnamed: 1"},
			{1, 2},
		},
	}, []string{"Sheet"})

	_, err := newTestReader().Load(context.Background(), path, ports.LoadOptions{})
	require.Error(t, err)
	assert.True(t, core.IsHeaderNotDetected(err))
	assert.Equal(t, headerMissingSheetMsg, apperrors.UserMessage(err))
}

func TestLoadExcelBlankHeaderRow(t *testing.T) {
	path := writeWorkbook(t, "blank.xlsx", map[string][][]interface{}{
		"Sheet": {
			{nil, nil},
			{1, 2},
			{3, 4},
		},
	}, []string{"Sheet"})

	_, err := newTestReader().Load(context.Background(), path, ports.LoadOptions{})
	assert.True(t, core.IsHeaderNotDetected(err))
}

func TestLoadExcelSheetSelection(t *testing.T) {
	path := writeWorkbook(t, "multi.xlsx", map[string][][]interface{}{
		"First":        {{"a"}, {1}},
		"Cleaned Data": {{"b"}, {2}, {3}},
	}, []string{"First", "Cleaned Data"})
	r := newTestReader()

	ds, err := r.Load(context.Background(), path, ports.LoadOptions{Sheet: "Cleaned Data"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ds.Columns)
	assert.Equal(t, 2, ds.NumRows())

	ds, err = r.Load(context.Background(), path, ports.LoadOptions{Sheet: "Missing"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ds.Columns, "unknown sheet falls back to the first")
}

func TestHeaderDetected(t *testing.T) {
	assert.False(t, HeaderDetected([]string{"Unnamed: 0", "Unnamed: 1"}))
	assert.True(t, HeaderDetected([]string{"Unnamed: 0", "id"}))
	assert.False(t, HeaderDetected(nil))
}
