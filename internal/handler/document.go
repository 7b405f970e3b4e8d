package handler

import (
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/compliance-binder/internal/model"
	"github.com/sakif/compliance-binder/internal/service"
)

// HandleUploadDocument accepts a multipart upload and attaches it to a
// binder. The form field "file" carries the bytes; "note" is optional.
//
// POST /api/binders/{binderID}/documents
func (h *BinderHandler) HandleUploadDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	// The multipart reader spools anything beyond this to disk; the hard
	// size check happens in the service.
	if err := r.ParseMultipartForm(service.MaxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "form field 'file' is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxUploadBytes+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "could not read uploaded file"})
		return
	}

	doc, err := h.svc.UploadDocument(r.Context(), userID, chi.URLParam(r, "binderID"),
		header.Filename, r.FormValue("note"), data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// HandleListDocuments returns a binder's document metadata.
//
// GET /api/binders/{binderID}/documents
func (h *BinderHandler) HandleListDocuments(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	docs, err := h.svc.ListDocuments(r.Context(), userID, chi.URLParam(r, "binderID"))
	if err != nil {
		writeError(w, err)
		return
	}
	if docs == nil {
		docs = []model.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

// HandleDownloadDocument streams a document's bytes back with the original
// filename in the Content-Disposition header.
//
// GET /api/documents/{documentID}/download
func (h *BinderHandler) HandleDownloadDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	doc, body, err := h.svc.DownloadDocument(r.Context(), userID, chi.URLParam(r, "documentID"))
	if err != nil {
		writeError(w, err)
		return
	}
	defer body.Close()

	contentType := mime.TypeByExtension(filepath.Ext(doc.OriginalName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(doc.Size, 10))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", doc.OriginalName))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, body); err != nil {
		h.logger.Error("failed to stream document",
			slog.String("documentID", doc.ID),
			slog.String("error", err.Error()),
		)
	}
}
