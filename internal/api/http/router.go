// Package http wires the versioned REST surface onto gorilla/mux.
package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/curiolabs/curio-server/internal/api/recovery"
	"github.com/curiolabs/curio-server/internal/health"
	"github.com/curiolabs/curio-server/internal/services"
)

// Deps carries everything the router needs.
type Deps struct {
	Bookmarks  *services.BookmarkService
	Highlights *services.HighlightService
	Comments   *services.CommentService
	Tags       *services.TagService
	Friends    *services.FriendService
	Search     *services.SearchService
	Admin      *services.AdminService
	Health     health.Pinger
}

// NewRouter builds the full route table.
func NewRouter(d Deps) http.Handler {
	r := mux.NewRouter()

	search := NewSearchHandler(d.Search)
	r.HandleFunc("/v1/search", search.Search).Methods(http.MethodPost)

	bm := NewBookmarkHandler(d.Bookmarks)
	r.HandleFunc("/v1/bookmarks", bm.Create).Methods(http.MethodPost)
	r.HandleFunc("/v1/bookmarks/{id}", bm.Get).Methods(http.MethodGet)
	r.HandleFunc("/v1/bookmarks/{id}", bm.Update).Methods(http.MethodPatch)
	r.HandleFunc("/v1/bookmarks/{id}", bm.Delete).Methods(http.MethodDelete)

	hl := NewHighlightHandler(d.Highlights)
	r.HandleFunc("/v1/highlights", hl.Create).Methods(http.MethodPost)
	r.HandleFunc("/v1/highlights/{id}", hl.Get).Methods(http.MethodGet)
	r.HandleFunc("/v1/highlights/{id}", hl.Update).Methods(http.MethodPatch)
	r.HandleFunc("/v1/highlights/{id}", hl.Delete).Methods(http.MethodDelete)

	cm := NewCommentHandler(d.Comments)
	r.HandleFunc("/v1/comments", cm.Create).Methods(http.MethodPost)
	r.HandleFunc("/v1/comments/{id}", cm.Get).Methods(http.MethodGet)
	r.HandleFunc("/v1/comments/{id}", cm.Update).Methods(http.MethodPatch)
	r.HandleFunc("/v1/comments/{id}", cm.Delete).Methods(http.MethodDelete)

	tg := NewTagHandler(d.Tags)
	r.HandleFunc("/v1/tags", tg.Create).Methods(http.MethodPost)
	r.HandleFunc("/v1/bookmarks/{id}/tags/{tagId}", tg.Attach).Methods(http.MethodPost)
	r.HandleFunc("/v1/bookmarks/{id}/tags/{tagId}", tg.Detach).Methods(http.MethodDelete)

	fr := NewFriendHandler(d.Friends)
	r.HandleFunc("/v1/friends/{userId}/{friendId}", fr.Befriend).Methods(http.MethodPut)
	r.HandleFunc("/v1/friends/{userId}/{friendId}", fr.Unfriend).Methods(http.MethodDelete)
	r.HandleFunc("/v1/friends/{userId}", fr.List).Methods(http.MethodGet)

	ad := NewAdminHandler(d.Admin)
	r.HandleFunc("/v1/admin/reindex", ad.Reindex).Methods(http.MethodPost)

	r.HandleFunc("/v1/health", NewHealthHandler(d.Health).Health).Methods(http.MethodGet)

	return recovery.Middleware(r)
}
