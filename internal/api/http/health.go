package http

import (
	"net/http"

	"github.com/curiolabs/curio-server/internal/api/respond"
	"github.com/curiolabs/curio-server/internal/health"
)

type HealthHandler struct {
	pinger health.Pinger
}

func NewHealthHandler(p health.Pinger) *HealthHandler {
	return &HealthHandler{pinger: p}
}

// Health GET /v1/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.pinger.HealthPing(r.Context()); err != nil {
		respond.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
