package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/curiolabs/curio-server/internal/api/respond"
	"github.com/curiolabs/curio-server/internal/model"
	"github.com/curiolabs/curio-server/internal/services"
)

type CommentHandler struct {
	svc *services.CommentService
}

func NewCommentHandler(svc *services.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// Create POST /v1/comments
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      string `json:"userId"`
		HighlightID string `json:"highlightId"`
		Body        string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	out, err := h.svc.CreateComment(r.Context(), &model.Comment{
		UserID:      req.UserID,
		HighlightID: req.HighlightID,
		Body:        req.Body,
	})
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// Get GET /v1/comments/{id}
func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.GetComment(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Update PATCH /v1/comments/{id}
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	out, err := h.svc.UpdateComment(r.Context(), &model.Comment{
		CommentID: mux.Vars(r)["id"],
		Body:      req.Body,
	})
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Delete DELETE /v1/comments/{id}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteComment(r.Context(), mux.Vars(r)["id"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
