package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/curiolabs/curio-server/internal/api/respond"
	"github.com/curiolabs/curio-server/internal/model"
	"github.com/curiolabs/curio-server/internal/services"
)

type BookmarkHandler struct {
	svc *services.BookmarkService
}

func NewBookmarkHandler(svc *services.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{svc: svc}
}

// Create POST /v1/bookmarks
func (h *BookmarkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      string `json:"userId"`
		URL         string `json:"url"`
		Title       string `json:"title"`
		Description string `json:"description"`
		SiteName    string `json:"siteName"`
		Visibility  string `json:"visibility"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	out, err := h.svc.CreateBookmark(r.Context(), &model.Bookmark{
		UserID:      req.UserID,
		URL:         req.URL,
		Title:       req.Title,
		Description: req.Description,
		SiteName:    req.SiteName,
		Visibility:  req.Visibility,
	})
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// Get GET /v1/bookmarks/{id}
func (h *BookmarkHandler) Get(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.GetBookmark(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Update PATCH /v1/bookmarks/{id}
func (h *BookmarkHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	current, err := h.svc.GetBookmark(r.Context(), id)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	var req struct {
		URL         *string `json:"url"`
		Title       *string `json:"title"`
		Description *string `json:"description"`
		SiteName    *string `json:"siteName"`
		Visibility  *string `json:"visibility"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	if req.URL != nil {
		current.URL = *req.URL
	}
	if req.Title != nil {
		current.Title = *req.Title
	}
	if req.Description != nil {
		current.Description = *req.Description
	}
	if req.SiteName != nil {
		current.SiteName = *req.SiteName
	}
	if req.Visibility != nil {
		current.Visibility = *req.Visibility
	}
	out, err := h.svc.UpdateBookmark(r.Context(), current)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Delete DELETE /v1/bookmarks/{id}
func (h *BookmarkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteBookmark(r.Context(), mux.Vars(r)["id"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
