package http

import (
	"net/http"

	"github.com/curiolabs/curio-server/internal/api/respond"
	"github.com/curiolabs/curio-server/internal/api/validate"
	"github.com/curiolabs/curio-server/internal/services"
)

type SearchHandler struct {
	svc *services.SearchService
}

func NewSearchHandler(svc *services.SearchService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// Search POST /v1/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q, err := validate.ParseSearchQuery(r.Body)
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	resp, err := h.svc.Search(r.Context(), *q)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, resp)
}
