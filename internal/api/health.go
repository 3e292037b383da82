package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger is satisfied by *sqlx.DB and *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	responder
	db      Pinger
	version string
}

func NewHealthHandler(db Pinger, version string, l *slog.Logger) *HealthHandler {
	return &HealthHandler{responder: responder{logger: l}, db: db, version: version}
}

// Check reports whether the service can reach its database.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, code := "available", http.StatusOK
	if err := h.db.PingContext(ctx); err != nil {
		h.logger.ErrorContext(ctx, "Health check ping failed", slog.String("error", err.Error()))
		status, code = "unavailable", http.StatusServiceUnavailable
	}
	h.respondJSON(w, r, code, map[string]string{
		"status":  status,
		"version": h.version,
	})
}
