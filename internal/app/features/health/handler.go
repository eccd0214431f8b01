// internal/app/features/health/handler.go
package health

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/bookcrew/bookcrew/internal/app/system/timeouts"
	"github.com/bookcrew/bookcrew/internal/bookcrew"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	API bookcrew.API
	Log *zap.Logger
}

func NewHandler(api bookcrew.API, logger *zap.Logger) *Handler {
	return &Handler{API: api, Log: logger}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
	Error   string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// The app itself is healthy as long as it can serve this response; the
// backend field reports whether the BookCrew API answered the probe. An
// unreachable backend degrades the status but still answers 200, because
// the UI keeps working read-only error states.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{Status: "ok", Backend: "reachable"}

	// An auth failure still proves the backend answered.
	if _, err := h.API.Me(ctx); err != nil && bookcrew.IsUnreachable(err) {
		h.Log.Warn("health: backend unreachable", zap.Error(err))
		resp.Status = "degraded"
		resp.Backend = "unreachable"
		resp.Error = err.Error()
	}

	_ = json.NewEncoder(w).Encode(resp)
}
