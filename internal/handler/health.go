package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/compliance-binder/internal/blob"
)

// Pinger is what the health check needs from the database.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the database and the blob store answer.
type HealthHandler struct {
	db     Pinger
	blobs  blob.Pinger
	logger *slog.Logger
}

func NewHealthHandler(db Pinger, blobs blob.Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, blobs: blobs, logger: logger}
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Storage  string `json:"storage"`
}

// HandleHealth probes both dependencies with a short deadline. Any failing
// dependency turns the whole response into a 503.
//
// GET /health
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Database: "ok", Storage: "ok"}
	status := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Error("health check: database unreachable", slog.String("error", err.Error()))
		resp.Status = "degraded"
		resp.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}
	if err := h.blobs.Ping(ctx); err != nil {
		h.logger.Error("health check: blob store unreachable", slog.String("error", err.Error()))
		resp.Status = "degraded"
		resp.Storage = "unreachable"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, resp)
}
