package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/curiolabs/curio-server/internal/api/respond"
	"github.com/curiolabs/curio-server/internal/model"
	"github.com/curiolabs/curio-server/internal/services"
)

type TagHandler struct {
	svc *services.TagService
}

func NewTagHandler(svc *services.TagService) *TagHandler {
	return &TagHandler{svc: svc}
}

// Create POST /v1/tags
func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
		Name   string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	out, err := h.svc.CreateTag(r.Context(), &model.Tag{UserID: req.UserID, Name: req.Name})
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// Attach POST /v1/bookmarks/{id}/tags/{tagId}
func (h *TagHandler) Attach(w http.ResponseWriter, r *http.Request) {
	v := mux.Vars(r)
	if err := h.svc.AttachTag(r.Context(), v["id"], v["tagId"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Detach DELETE /v1/bookmarks/{id}/tags/{tagId}
func (h *TagHandler) Detach(w http.ResponseWriter, r *http.Request) {
	v := mux.Vars(r)
	if err := h.svc.DetachTag(r.Context(), v["id"], v["tagId"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type FriendHandler struct {
	svc *services.FriendService
}

func NewFriendHandler(svc *services.FriendService) *FriendHandler {
	return &FriendHandler{svc: svc}
}

// Befriend PUT /v1/friends/{userId}/{friendId}
func (h *FriendHandler) Befriend(w http.ResponseWriter, r *http.Request) {
	v := mux.Vars(r)
	if err := h.svc.Befriend(r.Context(), v["userId"], v["friendId"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Unfriend DELETE /v1/friends/{userId}/{friendId}
func (h *FriendHandler) Unfriend(w http.ResponseWriter, r *http.Request) {
	v := mux.Vars(r)
	if err := h.svc.Unfriend(r.Context(), v["userId"], v["friendId"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List GET /v1/friends/{userId}
func (h *FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	ids, err := h.svc.ListFriendIDs(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"friendIds": ids, "count": len(ids)})
}
