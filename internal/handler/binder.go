package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/compliance-binder/internal/model"
	"github.com/sakif/compliance-binder/internal/service"
)

// BinderHandler serves the binder CRUD and the per-binder statistics and
// report endpoints. Task and document routes live in their own files but
// share this handler type.
type BinderHandler struct {
	svc    *service.BinderService
	logger *slog.Logger
}

func NewBinderHandler(svc *service.BinderService, logger *slog.Logger) *BinderHandler {
	return &BinderHandler{svc: svc, logger: logger}
}

type createBinderRequest struct {
	Name     string `json:"name"`
	Industry string `json:"industry"`
}

// HandleCreate creates a binder.
//
// POST /api/binders {"name": "...", "industry": "..."}
func (h *BinderHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req createBinderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	binder, err := h.svc.CreateBinder(r.Context(), userID, req.Name, req.Industry)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, binder)
}

// HandleList returns the caller's binders.
//
// GET /api/binders
func (h *BinderHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	binders, err := h.svc.ListBinders(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if binders == nil {
		binders = []model.Binder{}
	}
	writeJSON(w, http.StatusOK, binders)
}

// HandleGet returns one binder.
//
// GET /api/binders/{binderID}
func (h *BinderHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	binder, err := h.svc.GetBinder(r.Context(), userID, chi.URLParam(r, "binderID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, binder)
}

// HandleDelete removes a binder and everything inside it.
//
// DELETE /api/binders/{binderID}
func (h *BinderHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteBinder(r.Context(), userID, chi.URLParam(r, "binderID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleStats returns the binder's summary counts.
//
// GET /api/binders/{binderID}/stats
func (h *BinderHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	summary, err := h.svc.Stats(r.Context(), userID, chi.URLParam(r, "binderID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// HandleReport renders the binder's inspection report as HTML.
//
// GET /api/binders/{binderID}/report
func (h *BinderHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	html, err := h.svc.Report(r.Context(), userID, chi.URLParam(r, "binderID"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(html); err != nil {
		h.logger.Error("failed to write report", slog.String("error", err.Error()))
	}
}
