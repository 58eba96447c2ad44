package services

import (
	"context"
	"fmt"

	"github.com/curiolabs/curio-server/internal/model"
	"github.com/curiolabs/curio-server/internal/search"
	"github.com/curiolabs/curio-server/internal/store"
)

type HighlightService struct {
	store   store.Store
	indexer *search.Indexer
}

func NewHighlightService(s store.Store, ix *search.Indexer) *HighlightService {
	return &HighlightService{store: s, indexer: ix}
}

func (s *HighlightService) CreateHighlight(ctx context.Context, h *model.Highlight) (*model.Highlight, error) {
	if err := validateHighlight(h); err != nil {
		return nil, err
	}
	if h.BookmarkID != nil {
		if _, err := s.store.Bookmarks().Get(ctx, *h.BookmarkID); err != nil {
			return nil, fmt.Errorf("bookmark %s: %w", *h.BookmarkID, err)
		}
	}
	created, err := s.store.Highlights().Create(ctx, h)
	if err != nil {
		return nil, err
	}
	if err := s.indexHighlight(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *HighlightService) GetHighlight(ctx context.Context, highlightID string) (*model.Highlight, error) {
	return s.store.Highlights().Get(ctx, highlightID)
}

// UpdateHighlight persists the change and re-indexes the highlight. Because
// comment index rows carry the parent's visibility, a visibility change also
// rewrites every comment entry under this highlight.
func (s *HighlightService) UpdateHighlight(ctx context.Context, h *model.Highlight) (*model.Highlight, error) {
	if err := validateHighlight(h); err != nil {
		return nil, err
	}
	prev, err := s.store.Highlights().Get(ctx, h.HighlightID)
	if err != nil {
		return nil, err
	}
	updated, err := s.store.Highlights().Update(ctx, h)
	if err != nil {
		return nil, err
	}
	if err := s.indexHighlight(ctx, updated); err != nil {
		return nil, err
	}
	if prev.Visibility != updated.Visibility {
		if err := s.reindexComments(ctx, updated); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

// DeleteHighlight removes the highlight, its comments, and all their index
// entries. There is no FK cascade; this is the only delete path.
func (s *HighlightService) DeleteHighlight(ctx context.Context, highlightID string) error {
	comments, err := s.store.Comments().ForHighlight(ctx, highlightID)
	if err != nil {
		return err
	}
	for _, c := range comments {
		if err := s.store.Comments().Delete(ctx, c.CommentID); err != nil {
			return err
		}
		if err := s.indexer.Remove(ctx, model.EntityComment, c.CommentID); err != nil {
			return err
		}
	}
	if err := s.store.Highlights().Delete(ctx, highlightID); err != nil {
		return err
	}
	return s.indexer.Remove(ctx, model.EntityHighlight, highlightID)
}

func (s *HighlightService) indexHighlight(ctx context.Context, h *model.Highlight) error {
	content := search.HighlightContent(h)
	if content == "" {
		return s.indexer.Remove(ctx, model.EntityHighlight, h.HighlightID)
	}
	return s.indexer.IndexContent(ctx, search.IndexRequest{
		EntityType: model.EntityHighlight,
		EntityID:   h.HighlightID,
		OwnerID:    h.UserID,
		Content:    content,
		URL:        h.URL,
		Visibility: h.Visibility,
	})
}

func (s *HighlightService) reindexComments(ctx context.Context, h *model.Highlight) error {
	comments, err := s.store.Comments().ForHighlight(ctx, h.HighlightID)
	if err != nil {
		return err
	}
	for _, c := range comments {
		content := search.CommentContent(c)
		if content == "" {
			continue
		}
		if err := s.indexer.IndexContent(ctx, search.IndexRequest{
			EntityType: model.EntityComment,
			EntityID:   c.CommentID,
			OwnerID:    c.UserID,
			Content:    content,
			Visibility: h.Visibility,
		}); err != nil {
			return err
		}
	}
	return nil
}

func validateHighlight(h *model.Highlight) error {
	if h.UserID == "" {
		return fmt.Errorf("userId is required: %w", model.ErrValidation)
	}
	if h.Text == "" {
		return fmt.Errorf("text is required: %w", model.ErrValidation)
	}
	if h.Visibility == "" {
		h.Visibility = model.VisibilityPrivate
	}
	return validateVisibility(h.Visibility)
}
