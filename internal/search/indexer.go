package search

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/curiolabs/curio-server/internal/embeddings"
	"github.com/curiolabs/curio-server/internal/model"
	"github.com/curiolabs/curio-server/internal/store"
)

// How long a fire-and-forget embedding write may take before being dropped.
const embedWriteTimeout = 30 * time.Second

// How many texts go to the embedding provider per batch during a full
// reindex.
const reindexBatchSize = 64

// IndexRequest describes one content item to upsert into the search index.
type IndexRequest struct {
	EntityType string
	EntityID   string
	OwnerID    string
	Content    string
	URL        string
	Visibility string
	// Immediate makes IndexContent await the embedding write instead of
	// scheduling it after return.
	Immediate bool
}

// Indexer is the exclusive writer of the search index. The lexical
// representation is written synchronously with the content; the embedding
// follows either synchronously (Immediate) or fire-and-forget.
type Indexer struct {
	store store.Store
	emb   *embeddings.Adapter
	log   zerolog.Logger
}

func NewIndexer(s store.Store, emb *embeddings.Adapter, log zerolog.Logger) *Indexer {
	return &Indexer{store: s, emb: emb, log: log}
}

// IndexContent upserts the index entry for (EntityType, EntityID). Empty
// content skips indexing entirely; an index entry with nothing searchable is
// meaningless.
func (ix *Indexer) IndexContent(ctx context.Context, req IndexRequest) error {
	if strings.TrimSpace(req.Content) == "" {
		return nil
	}

	entry := &model.IndexEntry{
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		OwnerID:    req.OwnerID,
		Content:    req.Content,
		URL:        req.URL,
		Visibility: req.Visibility,
	}
	if _, err := ix.store.SearchIndex().Upsert(ctx, entry); err != nil {
		return err
	}

	if !ix.emb.Enabled() {
		return nil
	}
	if req.Immediate {
		vec := ix.emb.Embed(ctx, req.Content)
		if vec == nil {
			return nil
		}
		return ix.store.SearchIndex().SetEmbedding(ctx, req.EntityType, req.EntityID, vec)
	}

	go ix.embedLater(req.EntityType, req.EntityID, req.Content)
	return nil
}

// embedLater runs detached from the triggering request. Failures are
// swallowed and logged; a nil vector leaves the row's embedding absent.
func (ix *Indexer) embedLater(entityType, entityID, content string) {
	ctx, cancel := context.WithTimeout(context.Background(), embedWriteTimeout)
	defer cancel()

	vec := ix.emb.Embed(ctx, content)
	if vec == nil {
		return
	}
	if err := ix.store.SearchIndex().SetEmbedding(ctx, entityType, entityID, vec); err != nil {
		ix.log.Warn().Err(err).
			Str("entity_type", entityType).
			Str("entity_id", entityID).
			Msg("deferred embedding write failed")
	}
}

// Remove deletes the index entry by key. Removing an absent entry is a no-op.
func (ix *Indexer) Remove(ctx context.Context, entityType, entityID string) error {
	return ix.store.SearchIndex().Remove(ctx, entityType, entityID)
}

// ReindexAll rebuilds the whole index from the primary records: lexical
// writes first, then embeddings in provider batches. It is the recovery path
// after enabling an embedding provider on an existing dataset. Returns the
// number of entries written.
func (ix *Indexer) ReindexAll(ctx context.Context) (int, error) {
	reqs, err := ix.collectAll(ctx)
	if err != nil {
		return 0, err
	}

	for i := range reqs {
		entry := &model.IndexEntry{
			EntityType: reqs[i].EntityType,
			EntityID:   reqs[i].EntityID,
			OwnerID:    reqs[i].OwnerID,
			Content:    reqs[i].Content,
			URL:        reqs[i].URL,
			Visibility: reqs[i].Visibility,
		}
		if _, err := ix.store.SearchIndex().Upsert(ctx, entry); err != nil {
			return 0, err
		}
	}

	if ix.emb.Enabled() {
		for start := 0; start < len(reqs); start += reindexBatchSize {
			end := start + reindexBatchSize
			if end > len(reqs) {
				end = len(reqs)
			}
			batch := reqs[start:end]
			texts := make([]string, len(batch))
			for i := range batch {
				texts[i] = batch[i].Content
			}
			vecs := ix.emb.EmbedMany(ctx, texts)
			for i, vec := range vecs {
				if vec == nil {
					continue
				}
				if err := ix.store.SearchIndex().SetEmbedding(ctx, batch[i].EntityType, batch[i].EntityID, vec); err != nil {
					ix.log.Warn().Err(err).
						Str("entity_type", batch[i].EntityType).
						Str("entity_id", batch[i].EntityID).
						Msg("reindex embedding write failed")
				}
			}
		}
	}

	ix.log.Info().Int("entries", len(reqs)).Msg("full reindex complete")
	return len(reqs), nil
}

// collectAll gathers index requests for every indexable primary record,
// skipping items that normalize to empty content. Comments inherit the parent
// highlight's visibility.
func (ix *Indexer) collectAll(ctx context.Context) ([]IndexRequest, error) {
	var reqs []IndexRequest

	bookmarks, err := ix.store.Bookmarks().All(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range bookmarks {
		content := BookmarkContent(b)
		if content == "" {
			continue
		}
		reqs = append(reqs, IndexRequest{
			EntityType: model.EntityBookmark,
			EntityID:   b.BookmarkID,
			OwnerID:    b.UserID,
			Content:    content,
			URL:        b.URL,
			Visibility: b.Visibility,
		})
	}

	highlights, err := ix.store.Highlights().All(ctx)
	if err != nil {
		return nil, err
	}
	visByHighlight := make(map[string]string, len(highlights))
	for _, h := range highlights {
		visByHighlight[h.HighlightID] = h.Visibility
		content := HighlightContent(h)
		if content == "" {
			continue
		}
		reqs = append(reqs, IndexRequest{
			EntityType: model.EntityHighlight,
			EntityID:   h.HighlightID,
			OwnerID:    h.UserID,
			Content:    content,
			URL:        h.URL,
			Visibility: h.Visibility,
		})
	}

	comments, err := ix.store.Comments().All(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		content := CommentContent(c)
		if content == "" {
			continue
		}
		reqs = append(reqs, IndexRequest{
			EntityType: model.EntityComment,
			EntityID:   c.CommentID,
			OwnerID:    c.UserID,
			Content:    content,
			Visibility: visByHighlight[c.HighlightID],
		})
	}

	return reqs, nil
}
