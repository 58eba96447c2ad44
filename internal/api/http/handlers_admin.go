package http

import (
	"net/http"

	"github.com/curiolabs/curio-server/internal/api/respond"
	"github.com/curiolabs/curio-server/internal/services"
)

type AdminHandler struct {
	svc *services.AdminService
}

func NewAdminHandler(svc *services.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// Reindex POST /v1/admin/reindex
func (h *AdminHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Reindex(r.Context())
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"indexedEntries": n})
}
