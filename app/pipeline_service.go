package app

import (
	"context"
	"errors"
	"io"
	"path/filepath"

	"gotidy/domain/core"
	"gotidy/domain/dataset"
	"gotidy/internal"
	apperrors "gotidy/internal/errors"
	"gotidy/internal/metrics"
	"gotidy/ports"
)

// PreviewRows is how many rows the upload and clean pages show
const PreviewRows = 5

// PipelineService runs one user action per call: upload, confirm, clean,
// report, change summary, download and the quick-process path
type PipelineService struct {
	files      ports.FileStore
	uploads    ports.UploadRepository
	reader     ports.DatasetReader
	writer     ports.ArtifactWriter
	renderer   ports.ChartRenderer
	cleaner    *Cleaner
	summarizer *Summarizer
	visualizer *Visualizer
	reportDir  string
	staticDir  string
	logger     *internal.Logger
}

// PipelineDeps groups the collaborators of a PipelineService
type PipelineDeps struct {
	Files        ports.FileStore
	Uploads      ports.UploadRepository
	Reader       ports.DatasetReader
	Writer       ports.ArtifactWriter
	Renderer     ports.ChartRenderer
	ChartWorkers int
	ReportDir    string
	StaticDir    string
	Logger       *internal.Logger
}

// Preview is what the upload page shows about a dataset
type Preview struct {
	Columns       []string
	Head          [][]string
	TotalRows     int
	MissingValues []ColumnCount
	DuplicateRows int
}

// ColumnCount is a per-column count kept in column order
type ColumnCount struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
}

// UploadResult is returned by Upload and ConfirmHeader. When HeaderMissing is
// set Preview is nil and Message holds the prompt for the user.
type UploadResult struct {
	Upload        *dataset.Upload
	Preview       *Preview
	HeaderMissing bool
	Message       string
}

// CleanResult is returned by Clean
type CleanResult struct {
	Upload  *dataset.Upload
	Preview *Preview
	Outcome *CleanOutcome
}

// ReportResult is returned by Report
type ReportResult struct {
	Upload   *dataset.Upload
	Table    *dataset.StatsTable
	Embedded []dataset.EmbeddedChart
	Skipped  []dataset.ChartFailure
}

// NewPipelineService creates a pipeline service
func NewPipelineService(deps PipelineDeps) *PipelineService {
	logger := deps.Logger
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &PipelineService{
		files:      deps.Files,
		uploads:    deps.Uploads,
		reader:     deps.Reader,
		writer:     deps.Writer,
		renderer:   deps.Renderer,
		cleaner:    NewCleaner(logger),
		summarizer: NewSummarizer(logger),
		visualizer: NewVisualizer(deps.Renderer, deps.ChartWorkers, logger),
		reportDir:  deps.ReportDir,
		staticDir:  deps.StaticDir,
		logger:     logger,
	}
}

// Upload stores the file under its original name, records it and loads it
// without header confirmation
func (s *PipelineService) Upload(ctx context.Context, filename string, r io.Reader) (*UploadResult, error) {
	if r == nil || filename == "" {
		return nil, s.fail("upload", apperrors.MissingUpload(core.ErrMissingUpload))
	}
	if _, ok := dataset.KindFromName(filename); !ok {
		return nil, s.fail("upload", apperrors.ParseFailed("Unsupported file format. Upload a CSV or Excel (.xlsx) file.", core.ErrUnsupportedFormat))
	}

	path, err := s.files.Store(ctx, r, filename)
	if err != nil {
		if errors.Is(err, core.ErrMissingUpload) {
			return nil, s.fail("upload", apperrors.MissingUpload(err))
		}
		return nil, s.fail("upload", apperrors.ArtifactWriteFailed("Failed to save the uploaded file", err))
	}

	upload, err := dataset.NewUpload(filepath.Base(path), path)
	if err != nil {
		return nil, s.fail("upload", apperrors.ParseFailed("Unsupported file format", err))
	}
	if err := s.uploads.Save(ctx, upload); err != nil {
		if derr := s.files.Delete(ctx, path); derr != nil {
			s.logger.Warn("[Pipeline] could not remove unrecorded upload %s: %v", path, derr)
		}
		return nil, s.fail("upload", apperrors.ArtifactWriteFailed("Failed to record the upload", err))
	}
	metrics.UploadsTotal.WithLabelValues(string(upload.Kind)).Inc()
	s.logger.Info("[Pipeline] upload %s stored at %s", upload.ID, path)

	return s.preview(ctx, upload, false)
}

// ConfirmHeader reloads an upload taking row 0 as the header regardless of its names
func (s *PipelineService) ConfirmHeader(ctx context.Context, id core.UploadID) (*UploadResult, error) {
	upload, err := s.record(ctx, id)
	if err != nil {
		return nil, s.fail("confirm", err)
	}
	return s.preview(ctx, upload, true)
}

func (s *PipelineService) preview(ctx context.Context, upload *dataset.Upload, headerConfirmed bool) (*UploadResult, error) {
	ds, err := s.reader.Load(ctx, upload.SourcePath, ports.LoadOptions{HeaderConfirmed: headerConfirmed})
	if err != nil {
		if core.IsHeaderNotDetected(err) {
			s.logger.Info("[Pipeline] upload %s needs header confirmation", upload.ID)
			return &UploadResult{Upload: upload, HeaderMissing: true, Message: apperrors.UserMessage(err)}, nil
		}
		return nil, s.fail("load", err)
	}
	return &UploadResult{Upload: upload, Preview: NewPreview(ds)}, nil
}

// Clean dedupes and forward-fills the upload, then writes the actual and
// cleaned variants. Excel workbooks are pruned to the two data sheets.
func (s *PipelineService) Clean(ctx context.Context, id core.UploadID, headerConfirmed bool) (*CleanResult, error) {
	upload, err := s.record(ctx, id)
	if err != nil {
		return nil, s.fail("clean", err)
	}

	actual, err := s.reader.Load(ctx, upload.SourcePath, ports.LoadOptions{HeaderConfirmed: headerConfirmed})
	if err != nil {
		return nil, s.fail("clean", err)
	}

	outcome := s.cleaner.Clean(actual)
	if err := s.persistClean(upload, actual, outcome.Cleaned); err != nil {
		return nil, s.fail("clean", err)
	}
	metrics.DuplicatesRemovedTotal.Add(float64(outcome.DuplicatesRemoved))
	metrics.CellsFilledTotal.Add(float64(outcome.CellsFilled))

	upload.Cleaned = true
	upload.Touch()
	if err := s.uploads.Save(ctx, upload); err != nil {
		return nil, s.fail("clean", apperrors.ArtifactWriteFailed("Failed to update the upload record", err))
	}

	return &CleanResult{Upload: upload, Preview: NewPreview(outcome.Cleaned), Outcome: outcome}, nil
}

func (s *PipelineService) persistClean(upload *dataset.Upload, actual, cleaned *dataset.Dataset) error {
	var err error
	switch upload.Kind {
	case dataset.KindCSV:
		if err = s.writer.WriteCSV(upload.ActualPath, actual); err == nil {
			err = s.writer.WriteCSV(upload.CleanedPath, cleaned)
		}
	default:
		err = s.writer.UpsertSheets(upload.SourcePath, []ports.Sheet{
			{Name: dataset.SheetActual, Data: actual},
			{Name: dataset.SheetCleaned, Data: cleaned},
		}, dataset.CleanAllowList)
	}
	if err != nil {
		return apperrors.ArtifactWriteFailed("Error during cleaning process", err)
	}
	return nil
}

// Report writes the statistics table and charts for the cleaned data. CSV
// uploads get a fresh three-sheet workbook; Excel uploads are augmented in place.
func (s *PipelineService) Report(ctx context.Context, id core.UploadID, headerConfirmed bool) (*ReportResult, error) {
	upload, err := s.record(ctx, id)
	if err != nil {
		return nil, s.fail("report", err)
	}

	opts := ports.LoadOptions{HeaderConfirmed: headerConfirmed, Sheet: dataset.SheetCleaned}
	cleaned, err := s.reader.Load(ctx, upload.CleanedPath, opts)
	if err != nil {
		return nil, s.fail("report", err)
	}

	if upload.Kind == dataset.KindCSV {
		actual, err := s.reader.Load(ctx, upload.ActualPath, ports.LoadOptions{HeaderConfirmed: headerConfirmed})
		if err != nil {
			s.logger.Warn("[Pipeline] actual data for %s unreadable, using cleaned data: %v", upload.ID, err)
			actual = cleaned
		}
		err = s.writer.CreateWorkbook(upload.ReportPath, []ports.Sheet{
			{Name: dataset.SheetActual, Data: actual},
			{Name: dataset.SheetCleaned, Data: cleaned},
		}, dataset.ReportAllowList)
		if err != nil {
			return nil, s.fail("report", apperrors.ArtifactWriteFailed("Error generating report", err))
		}
	}

	table := s.summarizer.Describe(cleaned)
	charts, failures, err := s.visualizer.Render(ctx, cleaned)
	if err != nil {
		return nil, s.fail("report", err)
	}

	embedded, embedFailures, err := s.writer.WriteReport(upload.ReportPath, table, charts, dataset.ReportAllowList)
	if err != nil {
		return nil, s.fail("report", apperrors.ArtifactWriteFailed("Error generating report", err))
	}
	for _, f := range embedFailures {
		metrics.ChartFailuresTotal.WithLabelValues(string(f.Kind)).Inc()
	}
	failures = append(failures, embedFailures...)
	metrics.ReportsTotal.WithLabelValues(string(upload.Kind)).Inc()

	upload.Reported = true
	upload.Touch()
	if err := s.uploads.Save(ctx, upload); err != nil {
		return nil, s.fail("report", apperrors.ArtifactWriteFailed("Failed to update the upload record", err))
	}

	s.logger.Info("[Pipeline] report for %s: %d stats rows, %d charts, %d skipped",
		upload.ID, len(table.Rows), len(embedded), len(failures))
	return &ReportResult{Upload: upload, Table: table, Embedded: embedded, Skipped: failures}, nil
}

// Changes reads both data sheets of the report workbook and compares them
func (s *PipelineService) Changes(ctx context.Context, id core.UploadID, headerConfirmed bool) (*dataset.ChangeReport, error) {
	upload, err := s.record(ctx, id)
	if err != nil {
		return nil, s.fail("changes", err)
	}

	actual, err := s.reader.Load(ctx, upload.ReportPath, ports.LoadOptions{HeaderConfirmed: headerConfirmed, Sheet: dataset.SheetActual})
	if err != nil {
		return nil, s.fail("changes", err)
	}
	cleaned, err := s.reader.Load(ctx, upload.ReportPath, ports.LoadOptions{HeaderConfirmed: headerConfirmed, Sheet: dataset.SheetCleaned})
	if err != nil {
		return nil, s.fail("changes", err)
	}
	return s.summarizer.Changes(actual, cleaned), nil
}

// Download returns the report artifact path and its attachment name
func (s *PipelineService) Download(ctx context.Context, id core.UploadID) (string, string, error) {
	upload, err := s.record(ctx, id)
	if err != nil {
		return "", "", s.fail("download", err)
	}
	ok, err := s.files.Exists(ctx, upload.ReportPath)
	if err != nil {
		return "", "", s.fail("download", apperrors.Wrapf(err, "Failed to locate the report of upload %s", id))
	}
	if !ok {
		return "", "", s.fail("download", apperrors.NotFoundWithCause("report for upload "+id.String(), core.ErrArtifactNotFound))
	}
	return upload.ReportPath, filepath.Base(upload.ReportPath), nil
}

// Record returns the upload record for id
func (s *PipelineService) Record(ctx context.Context, id core.UploadID) (*dataset.Upload, error) {
	return s.record(ctx, id)
}

func (s *PipelineService) record(ctx context.Context, id core.UploadID) (*dataset.Upload, error) {
	if id.IsEmpty() {
		return nil, apperrors.MissingUpload(core.ErrMissingUpload)
	}
	upload, err := s.uploads.Get(ctx, id)
	if err != nil {
		if core.IsNotFoundError(err) {
			return nil, apperrors.NotFoundWithCause("upload "+id.String(), err)
		}
		return nil, apperrors.Wrapf(err, "Failed to read the record of upload %s", id)
	}
	if ok, err := s.files.Exists(ctx, upload.SourcePath); err != nil || !ok {
		return nil, apperrors.MissingUpload(core.ErrMissingUpload)
	}
	return upload, nil
}

func (s *PipelineService) fail(stage string, err error) error {
	code := apperrors.GetCode(err)
	metrics.StageErrorsTotal.WithLabelValues(stage, code).Inc()
	s.logger.Warn("[Pipeline] %s failed (%s): %v", stage, code, err)
	return err
}

// NewPreview summarizes a dataset for display
func NewPreview(ds *dataset.Dataset) *Preview {
	missing := ds.MissingCounts()
	p := &Preview{
		Columns:       append([]string(nil), ds.Columns...),
		Head:          ds.Head(PreviewRows).Matrix()[1:],
		TotalRows:     ds.NumRows(),
		DuplicateRows: ds.DuplicateCount(),
	}
	for _, col := range ds.Columns {
		p.MissingValues = append(p.MissingValues, ColumnCount{Column: col, Count: missing[col]})
	}
	return p
}
