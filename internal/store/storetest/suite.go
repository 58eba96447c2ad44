// Package storetest holds a backend-agnostic compliance suite for
// store.Store implementations. Both drivers run the same suite so the query
// engine can treat them interchangeably.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/curiolabs/curio-server/internal/model"
	"github.com/curiolabs/curio-server/internal/store"
)

// Run exercises a compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	if err := s.HealthPing(ctx); err != nil {
		t.Fatalf("HealthPing: %v", err)
	}

	owner := "u-" + uuid.New().String()
	friend := "u-" + uuid.New().String()
	stranger := "u-" + uuid.New().String()

	// Bookmarks
	b, err := s.Bookmarks().Create(ctx, &model.Bookmark{
		UserID:     owner,
		URL:        "https://example.com/raft",
		Title:      "Raft consensus explained",
		SiteName:   "example",
		Visibility: model.VisibilityPrivate,
	})
	if err != nil {
		t.Fatalf("CreateBookmark: %v", err)
	}
	if b.BookmarkID == "" || b.CreatedAt.IsZero() {
		t.Fatalf("CreateBookmark: missing id or timestamp: %+v", b)
	}
	if got, err := s.Bookmarks().Get(ctx, b.BookmarkID); err != nil || got.Title != "Raft consensus explained" {
		t.Fatalf("GetBookmark: got=%v err=%v", got, err)
	}
	b.Title = "Raft consensus, annotated"
	b.Visibility = model.VisibilityPublic
	if _, err := s.Bookmarks().Update(ctx, b); err != nil {
		t.Fatalf("UpdateBookmark: %v", err)
	}
	if got, _ := s.Bookmarks().Get(ctx, b.BookmarkID); got.Visibility != model.VisibilityPublic {
		t.Fatalf("UpdateBookmark: visibility not persisted: %+v", got)
	}
	if _, err := s.Bookmarks().Get(ctx, uuid.New().String()); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetBookmark missing: want ErrNotFound, got %v", err)
	}

	// Highlights
	h, err := s.Highlights().Create(ctx, &model.Highlight{
		UserID:     owner,
		BookmarkID: &b.BookmarkID,
		URL:        b.URL,
		Text:       "distributed systems are hard",
		Visibility: model.VisibilityFriends,
	})
	if err != nil {
		t.Fatalf("CreateHighlight: %v", err)
	}
	if got, err := s.Highlights().Get(ctx, h.HighlightID); err != nil || got.Text != h.Text {
		t.Fatalf("GetHighlight: got=%v err=%v", got, err)
	}

	// Comments
	c, err := s.Comments().Create(ctx, &model.Comment{
		HighlightID: h.HighlightID,
		UserID:      friend,
		Body:        "agreed, clocks drift",
	})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	c.Body = "agreed, clocks always drift"
	if _, err := s.Comments().Update(ctx, c); err != nil {
		t.Fatalf("UpdateComment: %v", err)
	}
	if got, _ := s.Comments().Get(ctx, c.CommentID); got.Body != "agreed, clocks always drift" {
		t.Fatalf("UpdateComment: body not persisted: %+v", got)
	}
	if cs, err := s.Comments().ForHighlight(ctx, h.HighlightID); err != nil || len(cs) != 1 || cs[0].CommentID != c.CommentID {
		t.Fatalf("CommentsForHighlight: n=%d err=%v", len(cs), err)
	}

	// BatchGet tolerates missing ids and returns what exists.
	bs, err := s.Bookmarks().BatchGet(ctx, []string{b.BookmarkID, uuid.New().String()})
	if err != nil || len(bs) != 1 || bs[0].BookmarkID != b.BookmarkID {
		t.Fatalf("BatchGetBookmarks: n=%d err=%v", len(bs), err)
	}

	// Tags
	tag, err := s.Tags().Create(ctx, &model.Tag{UserID: owner, Name: "consensus"})
	if err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	if err := s.Tags().Attach(ctx, b.BookmarkID, tag.TagID); err != nil {
		t.Fatalf("AttachTag: %v", err)
	}
	if err := s.Tags().Attach(ctx, b.BookmarkID, tag.TagID); err != nil {
		t.Fatalf("AttachTag repeat: %v", err)
	}
	if ok, err := s.Tags().HasTag(ctx, b.BookmarkID, tag.TagID); err != nil || !ok {
		t.Fatalf("HasTag: ok=%v err=%v", ok, err)
	}
	byBookmark, err := s.Tags().ForBookmarks(ctx, []string{b.BookmarkID})
	if err != nil || len(byBookmark[b.BookmarkID]) != 1 || byBookmark[b.BookmarkID][0].Name != "consensus" {
		t.Fatalf("ForBookmarks: got=%v err=%v", byBookmark, err)
	}
	if err := s.Tags().Detach(ctx, b.BookmarkID, tag.TagID); err != nil {
		t.Fatalf("DetachTag: %v", err)
	}
	if ok, _ := s.Tags().HasTag(ctx, b.BookmarkID, tag.TagID); ok {
		t.Fatalf("HasTag after detach: still attached")
	}
	if err := s.Tags().Attach(ctx, b.BookmarkID, tag.TagID); err != nil {
		t.Fatalf("ReattachTag: %v", err)
	}

	// Friends: symmetric and idempotent.
	if err := s.Friends().Add(ctx, owner, friend); err != nil {
		t.Fatalf("AddFriend: %v", err)
	}
	if err := s.Friends().Add(ctx, friend, owner); err != nil {
		t.Fatalf("AddFriend repeat: %v", err)
	}
	if ids, err := s.Friends().ListIDs(ctx, owner); err != nil || len(ids) != 1 || ids[0] != friend {
		t.Fatalf("ListFriendIDs(owner): ids=%v err=%v", ids, err)
	}
	if ids, _ := s.Friends().ListIDs(ctx, friend); len(ids) != 1 || ids[0] != owner {
		t.Fatalf("ListFriendIDs(friend): ids=%v", ids)
	}
	if ids, _ := s.Friends().ListIDs(ctx, stranger); len(ids) != 0 {
		t.Fatalf("ListFriendIDs(stranger): ids=%v", ids)
	}

	runSearchIndex(t, ctx, s, owner, friend, stranger, b, h, c, tag)

	// Deletes cascade far enough for the suite's purposes.
	if err := s.Comments().Delete(ctx, c.CommentID); err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}
	if _, err := s.Comments().Get(ctx, c.CommentID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetComment after delete: want ErrNotFound, got %v", err)
	}
	if err := s.Highlights().Delete(ctx, h.HighlightID); err != nil {
		t.Fatalf("DeleteHighlight: %v", err)
	}
	if err := s.Bookmarks().Delete(ctx, b.BookmarkID); err != nil {
		t.Fatalf("DeleteBookmark: %v", err)
	}
	if err := s.Friends().Remove(ctx, friend, owner); err != nil {
		t.Fatalf("RemoveFriend: %v", err)
	}
	if ids, _ := s.Friends().ListIDs(ctx, owner); len(ids) != 0 {
		t.Fatalf("ListFriendIDs after remove: ids=%v", ids)
	}
}

func runSearchIndex(t *testing.T, ctx context.Context, s store.Store, owner, friend, stranger string,
	b *model.Bookmark, h *model.Highlight, c *model.Comment, tag *model.Tag) {
	t.Helper()

	idx := s.SearchIndex()

	put := func(entityType, entityID, ownerID, content, url, visibility string) *model.IndexEntry {
		t.Helper()
		e, err := idx.Upsert(ctx, &model.IndexEntry{
			EntityType: entityType,
			EntityID:   entityID,
			OwnerID:    ownerID,
			Content:    content,
			URL:        url,
			Visibility: visibility,
		})
		if err != nil {
			t.Fatalf("Upsert %s/%s: %v", entityType, entityID, err)
		}
		return e
	}

	put(model.EntityBookmark, b.BookmarkID, owner, "raft consensus annotated example", b.URL, model.VisibilityPublic)
	put(model.EntityHighlight, h.HighlightID, owner, "distributed systems are hard example", h.URL, model.VisibilityFriends)
	// Comment rows carry the parent highlight's visibility.
	put(model.EntityComment, c.CommentID, friend, "agreed clocks always drift", "", model.VisibilityFriends)

	privateID := uuid.New().String()
	put(model.EntityBookmark, privateID, owner, "private raft notes", "https://notes.example.com/raft", model.VisibilityPrivate)

	// Re-indexing overwrites in place: same key, one row, new content.
	first := put(model.EntityBookmark, privateID, owner, "private consensus notes", "https://notes.example.com/raft", model.VisibilityPrivate)
	second := put(model.EntityBookmark, privateID, owner, "private raft consensus notes", "https://notes.example.com/raft", model.VisibilityPrivate)
	if first.ID != second.ID {
		t.Fatalf("Upsert: re-index allocated a new row: %s vs %s", first.ID, second.ID)
	}
	if got, err := idx.Get(ctx, model.EntityBookmark, privateID); err != nil || got.Content != "private raft consensus notes" {
		t.Fatalf("Get after re-index: got=%v err=%v", got, err)
	}

	// Embeddings catch up out of band; Upsert must not clobber them.
	if err := idx.SetEmbedding(ctx, model.EntityBookmark, privateID, []float32{0.6, 0.8}); err != nil {
		t.Fatalf("SetEmbedding: %v", err)
	}
	put(model.EntityBookmark, privateID, owner, "private raft consensus notes v2", "https://notes.example.com/raft", model.VisibilityPrivate)
	if got, _ := idx.Get(ctx, model.EntityBookmark, privateID); len(got.Embedding) != 2 {
		t.Fatalf("Get: Upsert clobbered embedding: %+v", got)
	}
	if err := idx.SetEmbedding(ctx, model.EntityBookmark, privateID, nil); err != nil {
		t.Fatalf("SetEmbedding nil: %v", err)
	}
	if err := idx.SetEmbedding(ctx, model.EntityBookmark, uuid.New().String(), []float32{1, 0}); err != nil {
		t.Fatalf("SetEmbedding missing row: %v", err)
	}

	search := func(userID string, req model.IndexSearchRequest) ([]model.ScoredEntry, int) {
		t.Helper()
		req.UserID = userID
		if req.Mode == "" {
			req.Mode = model.ModeLexical
		}
		if req.Limit == 0 {
			req.Limit = 20
		}
		rows, total, err := idx.Search(ctx, req)
		if err != nil {
			t.Fatalf("Search %q as %s: %v", req.Query, userID, err)
		}
		return rows, total
	}

	has := func(rows []model.ScoredEntry, entityID string) bool {
		for _, r := range rows {
			if r.Entry.EntityID == entityID {
				return true
			}
		}
		return false
	}

	// Owner sees everything they own.
	rows, _ := search(owner, model.IndexSearchRequest{Query: "raft"})
	if !has(rows, b.BookmarkID) || !has(rows, privateID) {
		t.Fatalf("owner search: missing own rows: %v", rows)
	}

	// A friend sees friends-tier and public rows, never private ones.
	rows, _ = search(friend, model.IndexSearchRequest{
		Query:     "distributed systems",
		FriendIDs: []string{owner},
	})
	if !has(rows, h.HighlightID) {
		t.Fatalf("friend search: friends-tier highlight not visible: %v", rows)
	}
	rows, _ = search(friend, model.IndexSearchRequest{Query: "raft", FriendIDs: []string{owner}})
	if has(rows, privateID) {
		t.Fatalf("friend search: private row leaked: %v", rows)
	}

	// A stranger sees only public rows.
	rows, _ = search(stranger, model.IndexSearchRequest{Query: "raft"})
	if !has(rows, b.BookmarkID) {
		t.Fatalf("stranger search: public bookmark not visible: %v", rows)
	}
	if has(rows, privateID) || has(rows, h.HighlightID) {
		t.Fatalf("stranger search: non-public rows leaked: %v", rows)
	}

	// Entity-type filter.
	rows, _ = search(owner, model.IndexSearchRequest{
		Query:       "raft",
		EntityTypes: []string{model.EntityHighlight},
	})
	if len(rows) != 0 {
		t.Fatalf("entity filter: bookmark rows leaked through highlight filter: %v", rows)
	}

	// Tag filter keeps tagged bookmarks and all non-bookmark rows.
	rows, _ = search(owner, model.IndexSearchRequest{Query: "raft", TagID: tag.TagID})
	if !has(rows, b.BookmarkID) {
		t.Fatalf("tag filter: tagged bookmark missing: %v", rows)
	}
	if has(rows, privateID) {
		t.Fatalf("tag filter: untagged bookmark kept: %v", rows)
	}

	// Domain filter matches with or without www.
	rows, _ = search(owner, model.IndexSearchRequest{Query: "raft", Domain: "notes.example.com"})
	if !has(rows, privateID) || has(rows, b.BookmarkID) {
		t.Fatalf("domain filter: got=%v", rows)
	}

	// URL glob.
	rows, _ = search(owner, model.IndexSearchRequest{Query: "raft", URLPattern: "https://example.com/*"})
	if !has(rows, b.BookmarkID) || has(rows, privateID) {
		t.Fatalf("url filter: got=%v", rows)
	}

	// Pagination reports the pre-page total.
	rows, total := search(owner, model.IndexSearchRequest{Query: "raft", Limit: 1})
	if len(rows) != 1 || total < 2 {
		t.Fatalf("pagination: n=%d total=%d", len(rows), total)
	}

	// created sort is newest-first.
	rows, _ = search(owner, model.IndexSearchRequest{Query: "raft", SortBy: model.SortCreated})
	for i := 1; i < len(rows); i++ {
		if rows[i].Entry.CreatedAt.After(rows[i-1].Entry.CreatedAt) {
			t.Fatalf("created sort: out of order at %d: %v", i, rows)
		}
	}

	// Removal is idempotent and takes effect.
	if err := idx.Remove(ctx, model.EntityBookmark, privateID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := idx.Remove(ctx, model.EntityBookmark, privateID); err != nil {
		t.Fatalf("Remove repeat: %v", err)
	}
	if _, err := idx.Get(ctx, model.EntityBookmark, privateID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Get after remove: want ErrNotFound, got %v", err)
	}
	rows, _ = search(owner, model.IndexSearchRequest{Query: "raft"})
	if has(rows, privateID) {
		t.Fatalf("search after remove: row still matches: %v", rows)
	}
}
