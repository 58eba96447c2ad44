package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/curiolabs/curio-server/internal/api/respond"
	"github.com/curiolabs/curio-server/internal/model"
	"github.com/curiolabs/curio-server/internal/services"
)

type HighlightHandler struct {
	svc *services.HighlightService
}

func NewHighlightHandler(svc *services.HighlightService) *HighlightHandler {
	return &HighlightHandler{svc: svc}
}

// Create POST /v1/highlights
func (h *HighlightHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID     string  `json:"userId"`
		BookmarkID *string `json:"bookmarkId"`
		URL        string  `json:"url"`
		Text       string  `json:"text"`
		Visibility string  `json:"visibility"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	out, err := h.svc.CreateHighlight(r.Context(), &model.Highlight{
		UserID:     req.UserID,
		BookmarkID: req.BookmarkID,
		URL:        req.URL,
		Text:       req.Text,
		Visibility: req.Visibility,
	})
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// Get GET /v1/highlights/{id}
func (h *HighlightHandler) Get(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.GetHighlight(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Update PATCH /v1/highlights/{id}
func (h *HighlightHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	current, err := h.svc.GetHighlight(r.Context(), id)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	var req struct {
		Text       *string `json:"text"`
		Visibility *string `json:"visibility"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	if req.Text != nil {
		current.Text = *req.Text
	}
	if req.Visibility != nil {
		current.Visibility = *req.Visibility
	}
	out, err := h.svc.UpdateHighlight(r.Context(), current)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Delete DELETE /v1/highlights/{id}
func (h *HighlightHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteHighlight(r.Context(), mux.Vars(r)["id"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
