// Package store defines the persistence surface required by services and the
// search engine. Implementations live under internal/store/<driver>/.
package store

import (
	"context"

	"github.com/curiolabs/curio-server/internal/model"
)

// Store exposes the primary-record repositories, the relations consulted at
// query time, and the secondary search index. HealthPing doubles as the
// health.Pinger implementation.
type Store interface {
	Bookmarks() Bookmarks
	Highlights() Highlights
	Comments() Comments
	Tags() Tags
	Friends() Friends
	SearchIndex() SearchIndex
	HealthPing(ctx context.Context) error
}

type Bookmarks interface {
	Create(ctx context.Context, b *model.Bookmark) (*model.Bookmark, error)
	Get(ctx context.Context, bookmarkID string) (*model.Bookmark, error)
	Update(ctx context.Context, b *model.Bookmark) (*model.Bookmark, error)
	Delete(ctx context.Context, bookmarkID string) error
	// BatchGet returns the records that still exist, in no particular order.
	BatchGet(ctx context.Context, ids []string) ([]*model.Bookmark, error)
	All(ctx context.Context) ([]*model.Bookmark, error)
}

type Highlights interface {
	Create(ctx context.Context, h *model.Highlight) (*model.Highlight, error)
	Get(ctx context.Context, highlightID string) (*model.Highlight, error)
	Update(ctx context.Context, h *model.Highlight) (*model.Highlight, error)
	Delete(ctx context.Context, highlightID string) error
	BatchGet(ctx context.Context, ids []string) ([]*model.Highlight, error)
	All(ctx context.Context) ([]*model.Highlight, error)
}

type Comments interface {
	Create(ctx context.Context, c *model.Comment) (*model.Comment, error)
	Get(ctx context.Context, commentID string) (*model.Comment, error)
	Update(ctx context.Context, c *model.Comment) (*model.Comment, error)
	Delete(ctx context.Context, commentID string) error
	BatchGet(ctx context.Context, ids []string) ([]*model.Comment, error)
	// ForHighlight lists a highlight's comments, oldest first. Visibility
	// inheritance and cascade deletes both need this.
	ForHighlight(ctx context.Context, highlightID string) ([]*model.Comment, error)
	All(ctx context.Context) ([]*model.Comment, error)
}

type Tags interface {
	Create(ctx context.Context, t *model.Tag) (*model.Tag, error)
	Attach(ctx context.Context, bookmarkID, tagID string) error
	Detach(ctx context.Context, bookmarkID, tagID string) error
	HasTag(ctx context.Context, bookmarkID, tagID string) (bool, error)
	// ForBookmarks returns the tag sets of many bookmarks in one query,
	// keyed by bookmark id. Absent keys mean no tags.
	ForBookmarks(ctx context.Context, bookmarkIDs []string) (map[string][]model.Tag, error)
}

type Friends interface {
	// Add records a symmetric friendship; adding an existing edge is a no-op.
	Add(ctx context.Context, userID, friendID string) error
	Remove(ctx context.Context, userID, friendID string) error
	ListIDs(ctx context.Context, userID string) ([]string, error)
}

// SearchIndex maintains and queries the denormalized search projection. The
// Indexer is the only writer; the query engine only reads.
type SearchIndex interface {
	// Upsert inserts or updates the entry for (EntityType, EntityID),
	// rewriting content and its lexical representation in the same
	// statement. The stored embedding is left untouched; it catches up via
	// SetEmbedding.
	Upsert(ctx context.Context, e *model.IndexEntry) (*model.IndexEntry, error)
	// SetEmbedding writes the vector for an existing entry. A nil vector is
	// a no-op. Missing entries are ignored (the row may have been removed
	// while the embedding was in flight).
	SetEmbedding(ctx context.Context, entityType, entityID string, vec []float32) error
	// Remove deletes by key; removing an absent entry is not an error.
	Remove(ctx context.Context, entityType, entityID string) error
	Get(ctx context.Context, entityType, entityID string) (*model.IndexEntry, error)
	// Search applies the visibility predicate and structural filters, scores
	// candidates under req.Mode, orders, and paginates. It returns the page
	// plus the pre-pagination match count.
	Search(ctx context.Context, req model.IndexSearchRequest) ([]model.ScoredEntry, int, error)
}
