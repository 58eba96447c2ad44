package sqlite

import (
	"context"
	"testing"

	"github.com/curiolabs/curio-server/internal/model"
	"github.com/curiolabs/curio-server/internal/store"
)

func seedScoringRows(t *testing.T, ctx context.Context, s store.Store) {
	t.Helper()
	idx := s.SearchIndex()
	rows := []struct {
		id, content string
		vec         []float32
	}{
		// Strong lexical match, orthogonal vector.
		{"bm-lex", "raft raft consensus notes", []float32{0, 1}},
		// No lexical overlap, aligned vector.
		{"bm-sem", "weekend sourdough baking", []float32{1, 0}},
		// Both signals, each middling.
		{"bm-mix", "raft baking timers", []float32{0.8, 0.6}},
		// No embedding at all.
		{"bm-cold", "raft deep dive", nil},
	}
	for _, r := range rows {
		if _, err := idx.Upsert(ctx, &model.IndexEntry{
			EntityType: model.EntityBookmark,
			EntityID:   r.id,
			OwnerID:    "u1",
			Content:    r.content,
			Visibility: model.VisibilityPrivate,
		}); err != nil {
			t.Fatalf("upsert %s: %v", r.id, err)
		}
		if err := idx.SetEmbedding(ctx, model.EntityBookmark, r.id, r.vec); err != nil {
			t.Fatalf("set embedding %s: %v", r.id, err)
		}
	}
}

func TestSearchIndex_SemanticMode(t *testing.T) {
	ctx := context.Background()
	s := makeSQLiteStore(t)
	seedScoringRows(t, ctx, s)

	rows, total, err := s.SearchIndex().Search(ctx, model.IndexSearchRequest{
		Mode:     model.ModeSemantic,
		Query:    "raft",
		QueryVec: []float32{1, 0},
		UserID:   "u1",
		Limit:    10,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	// Only rows with embeddings are candidates.
	if total != 3 {
		t.Fatalf("total: got %d, want 3", total)
	}
	if rows[0].Entry.EntityID != "bm-sem" {
		t.Fatalf("order: got %s first, want bm-sem", rows[0].Entry.EntityID)
	}
	if rows[0].SemanticScore < 0.99 || rows[0].FtsScore != 0 {
		t.Fatalf("scores: %+v", rows[0])
	}
}

func TestSearchIndex_HybridMode(t *testing.T) {
	ctx := context.Background()
	s := makeSQLiteStore(t)
	seedScoringRows(t, ctx, s)

	rows, total, err := s.SearchIndex().Search(ctx, model.IndexSearchRequest{
		Mode:     model.ModeHybrid,
		Query:    "raft",
		QueryVec: []float32{1, 0},
		UserID:   "u1",
		Limit:    10,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	// bm-sem qualifies via its embedding despite zero lexical overlap;
	// everything else matches "raft".
	if total != 4 {
		t.Fatalf("total: got %d, want 4", total)
	}
	for _, r := range rows {
		if r.Entry.EntityID == "bm-cold" && r.SemanticScore != 0 {
			t.Fatalf("bm-cold has no embedding, semantic score %v", r.SemanticScore)
		}
		if r.Score == 0 {
			t.Fatalf("zero combined score for %s", r.Entry.EntityID)
		}
	}
}

func TestSearchIndex_HybridWithoutVectorFallsBackToTextOnly(t *testing.T) {
	ctx := context.Background()
	s := makeSQLiteStore(t)
	seedScoringRows(t, ctx, s)

	rows, _, err := s.SearchIndex().Search(ctx, model.IndexSearchRequest{
		Mode:   model.ModeHybrid,
		Query:  "raft",
		UserID: "u1",
		Limit:  10,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	for _, r := range rows {
		if r.SemanticScore != 0 {
			t.Fatalf("no query vector but semantic score set: %+v", r)
		}
	}
}

func TestSearchIndex_OffsetBeyondTotal(t *testing.T) {
	ctx := context.Background()
	s := makeSQLiteStore(t)
	seedScoringRows(t, ctx, s)

	rows, total, err := s.SearchIndex().Search(ctx, model.IndexSearchRequest{
		Mode:   model.ModeLexical,
		Query:  "raft",
		UserID: "u1",
		Limit:  10,
		Offset: 50,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(rows) != 0 || total == 0 {
		t.Fatalf("offset past end: rows=%d total=%d", len(rows), total)
	}
}
