package ui

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"

	"gotidy/app"
	"gotidy/domain/core"
	"gotidy/domain/dataset"
	apperrors "gotidy/internal/errors"
)

// indexPage is the data behind index.html
type indexPage struct {
	Messages        []string
	Error           string
	UploadID        string
	FileName        string
	HeaderMissing   bool
	HeaderConfirmed bool
	Preview         *app.Preview
	Cleaned         *app.Preview
}

// downloadPage is the data behind download.html
type downloadPage struct {
	Messages        []string
	UploadID        string
	FileName        string
	HeaderConfirmed bool
	Summary         template.HTML
	Changes         *dataset.ChangeReport
}

// processedPage is the data behind processed.html
type processedPage struct {
	Messages     []string
	ReportURL    string
	ImageURL     string
	OriginalRows int
	CleanedRows  int
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	a.renderTemplate(w, http.StatusOK, "index.html", indexPage{})
}

// handleUpload handles POST / with the multipart field data_file
func (a *App) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.config.Server.MaxUploadMB<<20)
	file, header, err := r.FormFile("data_file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.renderIndexError(w, apperrors.InvalidInput(fmt.Sprintf("File exceeds the %d MB upload limit.", a.config.Server.MaxUploadMB)))
			return
		}
		a.renderIndexError(w, apperrors.MissingUpload(err))
		return
	}
	defer file.Close()

	if header.Filename == "" {
		a.renderIndexError(w, apperrors.MissingUpload(core.ErrMissingUpload))
		return
	}

	result, err := a.pipeline.Upload(r.Context(), header.Filename, file)
	if err != nil {
		a.renderIndexError(w, err)
		return
	}
	a.renderTemplate(w, http.StatusOK, "index.html", uploadPage(result, false, nil))
}

// handleConfirmHeader reloads the upload taking row 0 as the header
func (a *App) handleConfirmHeader(w http.ResponseWriter, r *http.Request) {
	id, err := formUploadID(r)
	if err != nil {
		a.renderIndexError(w, err)
		return
	}
	result, err := a.pipeline.ConfirmHeader(r.Context(), id)
	if err != nil {
		a.renderIndexError(w, err)
		return
	}
	a.renderTemplate(w, http.StatusOK, "index.html",
		uploadPage(result, true, []string{"Continuing with first row as header."}))
}

func (a *App) handleClean(w http.ResponseWriter, r *http.Request) {
	id, err := formUploadID(r)
	if err != nil {
		a.renderIndexError(w, err)
		return
	}
	confirmed := headerConfirmed(r.FormValue("header_confirmed"))

	result, err := a.pipeline.Clean(r.Context(), id, confirmed)
	if err != nil {
		a.renderIndexError(w, err)
		return
	}
	a.renderTemplate(w, http.StatusOK, "index.html", indexPage{
		Messages:        []string{"Cleaning completed. You can now generate reports."},
		UploadID:        result.Upload.ID.String(),
		FileName:        result.Upload.OriginalName,
		HeaderConfirmed: confirmed,
		Cleaned:         result.Preview,
	})
}

// handleReport builds the report and redirects to the change summary
func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	id, err := formUploadID(r)
	if err != nil {
		a.renderIndexError(w, err)
		return
	}
	confirmed := headerConfirmed(r.FormValue("header_confirmed"))

	result, err := a.pipeline.Report(r.Context(), id, confirmed)
	if err != nil {
		a.renderIndexError(w, err)
		return
	}

	q := url.Values{}
	q.Set("upload_id", id.String())
	q.Set("header_confirmed", strconv.FormatBool(confirmed))
	if n := len(result.Skipped); n > 0 {
		q.Set("skipped", strconv.Itoa(n))
	}
	http.Redirect(w, r, "/download_page?"+q.Encode(), http.StatusSeeOther)
}

func (a *App) handleDownloadPage(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseUploadID(r.URL.Query().Get("upload_id"))
	if err != nil {
		a.renderIndexError(w, apperrors.NotFoundWithCause("file", err))
		return
	}
	confirmed := headerConfirmed(r.URL.Query().Get("header_confirmed"))

	changes, err := a.pipeline.Changes(r.Context(), id, confirmed)
	if err != nil {
		a.renderIndexError(w, err)
		return
	}
	record, err := a.pipeline.Record(r.Context(), id)
	if err != nil {
		a.renderIndexError(w, err)
		return
	}

	messages := []string{"Report generated and saved in the file with visuals."}
	if skipped, _ := strconv.Atoi(r.URL.Query().Get("skipped")); skipped > 0 {
		messages = append(messages, fmt.Sprintf("%d chart(s) could not be generated and were skipped.", skipped))
	}

	a.renderTemplate(w, http.StatusOK, "download.html", downloadPage{
		Messages:        messages,
		UploadID:        id.String(),
		FileName:        filepath.Base(record.ReportPath),
		HeaderConfirmed: confirmed,
		Summary:         renderChangeSummary(changes),
		Changes:         changes,
	})
}

func (a *App) handleDownloadFile(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseUploadID(r.URL.Query().Get("upload_id"))
	if err != nil {
		a.renderIndexError(w, apperrors.NotFoundWithCause("file", err))
		return
	}
	path, name, err := a.pipeline.Download(r.Context(), id)
	if err != nil {
		a.renderIndexError(w, err)
		return
	}
	serveAttachment(w, r, path, name)
}

// handleProcess runs the quick-process path for an upload
func (a *App) handleProcess(w http.ResponseWriter, r *http.Request) {
	id, err := formUploadID(r)
	if err != nil {
		a.renderIndexError(w, err)
		return
	}
	result, err := a.pipeline.QuickProcess(r.Context(), id, headerConfirmed(r.FormValue("header_confirmed")))
	if err != nil {
		a.renderIndexError(w, err)
		return
	}

	page := processedPage{
		Messages:     []string{"File processed."},
		ReportURL:    "/reports/" + app.ProcessedReportName,
		OriginalRows: result.OriginalRows,
		CleanedRows:  result.CleanedRows,
	}
	if result.ImagePath != "" {
		page.ImageURL = "/static/" + app.HistogramImageName
	} else {
		page.Messages = append(page.Messages, "Error generating histogram: "+result.ImageSkipReason)
	}
	a.renderTemplate(w, http.StatusOK, "processed.html", page)
}

func (a *App) handleProcessedReport(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(a.config.Paths.ReportDir, app.ProcessedReportName)
	if ok, _ := fileExists(path); !ok {
		a.renderIndexError(w, apperrors.NotFoundWithCause("file", core.ErrArtifactNotFound))
		return
	}
	serveAttachment(w, r, path, app.ProcessedReportName)
}

func (a *App) renderIndexError(w http.ResponseWriter, err error) {
	a.logger.Warn("[UI] request failed (%s): %v", apperrors.GetCode(err), err)
	a.renderTemplate(w, apperrors.HTTPStatus(err), "index.html", indexPage{Error: apperrors.UserMessage(err)})
}

func uploadPage(result *app.UploadResult, confirmed bool, messages []string) indexPage {
	page := indexPage{
		Messages:        messages,
		UploadID:        result.Upload.ID.String(),
		FileName:        result.Upload.OriginalName,
		HeaderMissing:   result.HeaderMissing,
		HeaderConfirmed: confirmed,
		Preview:         result.Preview,
	}
	if result.HeaderMissing {
		page.Messages = append(page.Messages, result.Message)
	}
	return page
}

func formUploadID(r *http.Request) (core.UploadID, error) {
	raw := r.FormValue("upload_id")
	if raw == "" {
		return "", apperrors.MissingUpload(core.ErrMissingUpload)
	}
	id, err := core.ParseUploadID(raw)
	if err != nil {
		return "", apperrors.MissingUpload(err)
	}
	return id, nil
}

func headerConfirmed(raw string) bool {
	v, err := strconv.ParseBool(raw)
	return err == nil && v
}
