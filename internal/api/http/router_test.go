package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/curiolabs/curio-server/internal/embeddings"
	"github.com/curiolabs/curio-server/internal/health"
	"github.com/curiolabs/curio-server/internal/model"
	"github.com/curiolabs/curio-server/internal/search"
	"github.com/curiolabs/curio-server/internal/services"
	"github.com/curiolabs/curio-server/internal/store/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := sqlite.OpenMemory()
	if err != nil {
		t.Fatalf("sqlite open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("sqlite schema: %v", err)
	}
	s := sqlite.NewWithDB(db)

	log := zerolog.Nop()
	emb := embeddings.NewAdapter(nil, log)
	ix := search.NewIndexer(s, emb, log)
	eng := search.NewEngine(s, emb, search.NewBreaker(0), log)

	srv := httptest.NewServer(NewRouter(Deps{
		Bookmarks:  services.NewBookmarkService(s, ix),
		Highlights: services.NewHighlightService(s, ix),
		Comments:   services.NewCommentService(s, ix),
		Tags:       services.NewTagService(s),
		Friends:    services.NewFriendService(s),
		Search:     services.NewSearchService(eng, search.NewHydrator(s)),
		Admin:      services.NewAdminService(ix),
		Health:     health.PingFunc(db.PingContext),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return resp.StatusCode
}

func TestRouter_BookmarkLifecycleAndSearch(t *testing.T) {
	srv := newTestServer(t)

	var created model.Bookmark
	code := doJSON(t, http.MethodPost, srv.URL+"/v1/bookmarks", map[string]string{
		"userId":     "u1",
		"url":        "https://example.com/raft",
		"title":      "Raft consensus",
		"visibility": "public",
	}, &created)
	if code != http.StatusCreated || created.BookmarkID == "" {
		t.Fatalf("create: code=%d body=%+v", code, created)
	}

	var resp model.SearchResponse
	code = doJSON(t, http.MethodPost, srv.URL+"/v1/search", map[string]string{
		"userId": "u2", "query": "raft",
	}, &resp)
	if code != http.StatusOK {
		t.Fatalf("search: code=%d", code)
	}
	if len(resp.Results) != 1 || resp.Results[0].Bookmark == nil {
		t.Fatalf("search results: %+v", resp)
	}
	if resp.RequestedMode != model.ModeHybrid || resp.EffectiveMode != model.ModeLexical {
		t.Fatalf("modes: %s/%s", resp.RequestedMode, resp.EffectiveMode)
	}

	// PATCH then confirm the index reflects the new title.
	code = doJSON(t, http.MethodPatch, srv.URL+"/v1/bookmarks/"+created.BookmarkID, map[string]string{
		"title": "Paxos made hard",
	}, nil)
	if code != http.StatusOK {
		t.Fatalf("patch: code=%d", code)
	}
	code = doJSON(t, http.MethodPost, srv.URL+"/v1/search", map[string]string{
		"userId": "u2", "query": "paxos",
	}, &resp)
	if code != http.StatusOK || len(resp.Results) != 1 {
		t.Fatalf("post-update search: code=%d results=%+v", code, resp.Results)
	}

	code = doJSON(t, http.MethodDelete, srv.URL+"/v1/bookmarks/"+created.BookmarkID, nil, nil)
	if code != http.StatusNoContent {
		t.Fatalf("delete: code=%d", code)
	}
	code = doJSON(t, http.MethodPost, srv.URL+"/v1/search", map[string]string{
		"userId": "u2", "query": "paxos",
	}, &resp)
	if code != http.StatusOK || len(resp.Results) != 0 {
		t.Fatalf("post-delete search: code=%d results=%+v", code, resp.Results)
	}
}

func TestRouter_FriendsGateVisibility(t *testing.T) {
	srv := newTestServer(t)

	var hl model.Highlight
	code := doJSON(t, http.MethodPost, srv.URL+"/v1/highlights", map[string]string{
		"userId":     "u1",
		"url":        "https://example.com/dist",
		"text":       "distributed systems are hard",
		"visibility": "friends",
	}, &hl)
	if code != http.StatusCreated {
		t.Fatalf("create highlight: code=%d", code)
	}

	search := func(userID string) int {
		var resp model.SearchResponse
		if code := doJSON(t, http.MethodPost, srv.URL+"/v1/search", map[string]string{
			"userId": userID, "query": "distributed",
		}, &resp); code != http.StatusOK {
			t.Fatalf("search as %s: code=%d", userID, code)
		}
		return len(resp.Results)
	}

	if n := search("u2"); n != 0 {
		t.Fatalf("stranger saw %d results", n)
	}
	if code := doJSON(t, http.MethodPut, srv.URL+"/v1/friends/u1/u2", nil, nil); code != http.StatusNoContent {
		t.Fatalf("befriend: code=%d", code)
	}
	if n := search("u2"); n != 1 {
		t.Fatalf("friend saw %d results", n)
	}
	if code := doJSON(t, http.MethodDelete, srv.URL+"/v1/friends/u1/u2", nil, nil); code != http.StatusNoContent {
		t.Fatalf("unfriend: code=%d", code)
	}
	if n := search("u2"); n != 0 {
		t.Fatalf("ex-friend saw %d results", n)
	}
}

func TestRouter_CommentsAndReindex(t *testing.T) {
	srv := newTestServer(t)

	var hl model.Highlight
	doJSON(t, http.MethodPost, srv.URL+"/v1/highlights", map[string]string{
		"userId": "u1", "url": "https://example.com/x", "text": "leader election", "visibility": "public",
	}, &hl)

	var cm model.Comment
	code := doJSON(t, http.MethodPost, srv.URL+"/v1/comments", map[string]string{
		"userId": "u2", "highlightId": hl.HighlightID, "body": "clocks drift",
	}, &cm)
	if code != http.StatusCreated {
		t.Fatalf("create comment: code=%d", code)
	}

	var re struct {
		IndexedEntries int `json:"indexedEntries"`
	}
	code = doJSON(t, http.MethodPost, srv.URL+"/v1/admin/reindex", nil, &re)
	if code != http.StatusOK || re.IndexedEntries != 2 {
		t.Fatalf("reindex: code=%d entries=%d", code, re.IndexedEntries)
	}
}

func TestRouter_Rejections(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		name string
		do   func() int
		want int
	}{
		{"malformed mode", func() int {
			return doJSON(t, http.MethodPost, srv.URL+"/v1/search", map[string]string{
				"userId": "u1", "query": "x", "mode": "psychic",
			}, nil)
		}, http.StatusBadRequest},
		{"malformed date", func() int {
			return doJSON(t, http.MethodPost, srv.URL+"/v1/search", map[string]string{
				"userId": "u1", "query": "x", "after": "yesterday",
			}, nil)
		}, http.StatusBadRequest},
		{"missing bookmark", func() int {
			return doJSON(t, http.MethodGet, srv.URL+"/v1/bookmarks/nope", nil, nil)
		}, http.StatusNotFound},
		{"self friendship", func() int {
			return doJSON(t, http.MethodPut, srv.URL+"/v1/friends/u1/u1", nil, nil)
		}, http.StatusBadRequest},
		{"comment on missing highlight", func() int {
			return doJSON(t, http.MethodPost, srv.URL+"/v1/comments", map[string]string{
				"userId": "u1", "highlightId": "nope", "body": "x",
			}, nil)
		}, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.do(); got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestRouter_Health(t *testing.T) {
	srv := newTestServer(t)
	var body map[string]string
	code := doJSON(t, http.MethodGet, srv.URL+"/v1/health", nil, &body)
	if code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("health: code=%d body=%v", code, body)
	}
}

func TestRouter_HealthDown(t *testing.T) {
	srvDown := httptest.NewServer(NewRouter(Deps{
		Health: health.PingFunc(func(context.Context) error { return fmt.Errorf("db gone") }),
	}))
	defer srvDown.Close()

	var body map[string]string
	code := doJSON(t, http.MethodGet, srvDown.URL+"/v1/health", nil, &body)
	if code != http.StatusServiceUnavailable || body["status"] != "unhealthy" {
		t.Fatalf("health: code=%d body=%v", code, body)
	}
}
