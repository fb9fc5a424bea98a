package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"gotidy/domain/core"
	apperrors "gotidy/internal/errors"
)

// errorResponse is the JSON body of a failed API call
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleGetUpload handles GET /api/uploads/{id}
func (a *App) handleGetUpload(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseUploadID(chi.URLParam(r, "id"))
	if err != nil {
		a.renderAPIError(w, r, apperrors.NotFoundWithCause("upload", err))
		return
	}
	record, err := a.pipeline.Record(r.Context(), id)
	if err != nil {
		a.renderAPIError(w, r, err)
		return
	}
	render.JSON(w, r, record)
}

// handleGetChanges handles GET /api/uploads/{id}/changes
func (a *App) handleGetChanges(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseUploadID(chi.URLParam(r, "id"))
	if err != nil {
		a.renderAPIError(w, r, apperrors.NotFoundWithCause("upload", err))
		return
	}
	changes, err := a.pipeline.Changes(r.Context(), id, headerConfirmed(r.URL.Query().Get("header_confirmed")))
	if err != nil {
		a.renderAPIError(w, r, err)
		return
	}
	render.JSON(w, r, changes)
}

// handleHealth handles GET /healthz
func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (a *App) renderAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("[API] %s %s: %v", r.Method, r.URL.Path, err)
	}
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Code: apperrors.GetCode(err), Message: apperrors.UserMessage(err)})
}
