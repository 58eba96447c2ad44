package search

import (
	"context"

	"github.com/curiolabs/curio-server/internal/model"
	"github.com/curiolabs/curio-server/internal/store"
)

// Hydrator expands ranked index rows back into full entity payloads with one
// batch read per entity type, preserving rank order.
type Hydrator struct {
	store store.Store
}

func NewHydrator(s store.Store) *Hydrator {
	return &Hydrator{store: s}
}

// Hydrate attaches primary records to the ranked rows. Rows whose primary
// record no longer exists are dropped silently without shifting the relative
// order of the rest. Bookmark results carry their current tag set.
func (h *Hydrator) Hydrate(ctx context.Context, rows []model.ScoredEntry) ([]model.SearchResult, error) {
	idsByType := make(map[string][]string)
	for _, r := range rows {
		idsByType[r.Entry.EntityType] = append(idsByType[r.Entry.EntityType], r.Entry.EntityID)
	}

	bookmarks := make(map[string]*model.Bookmark)
	if ids := idsByType[model.EntityBookmark]; len(ids) > 0 {
		got, err := h.store.Bookmarks().BatchGet(ctx, ids)
		if err != nil {
			return nil, err
		}
		tags, err := h.store.Tags().ForBookmarks(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, b := range got {
			b.Tags = tags[b.BookmarkID]
			bookmarks[b.BookmarkID] = b
		}
	}

	highlights := make(map[string]*model.Highlight)
	if ids := idsByType[model.EntityHighlight]; len(ids) > 0 {
		got, err := h.store.Highlights().BatchGet(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, hl := range got {
			highlights[hl.HighlightID] = hl
		}
	}

	comments := make(map[string]*model.Comment)
	if ids := idsByType[model.EntityComment]; len(ids) > 0 {
		got, err := h.store.Comments().BatchGet(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, c := range got {
			comments[c.CommentID] = c
		}
	}

	results := make([]model.SearchResult, 0, len(rows))
	for _, r := range rows {
		res := model.SearchResult{
			Type:          r.Entry.EntityType,
			Score:         r.Score,
			FtsScore:      r.FtsScore,
			SemanticScore: r.SemanticScore,
		}
		switch r.Entry.EntityType {
		case model.EntityBookmark:
			b, ok := bookmarks[r.Entry.EntityID]
			if !ok {
				continue
			}
			res.Bookmark = b
		case model.EntityHighlight:
			hl, ok := highlights[r.Entry.EntityID]
			if !ok {
				continue
			}
			res.Highlight = hl
		case model.EntityComment:
			c, ok := comments[r.Entry.EntityID]
			if !ok {
				continue
			}
			res.Comment = c
		default:
			continue
		}
		results = append(results, res)
	}
	return results, nil
}
