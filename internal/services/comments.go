package services

import (
	"context"
	"fmt"

	"github.com/curiolabs/curio-server/internal/model"
	"github.com/curiolabs/curio-server/internal/search"
	"github.com/curiolabs/curio-server/internal/store"
)

type CommentService struct {
	store   store.Store
	indexer *search.Indexer
}

func NewCommentService(s store.Store, ix *search.Indexer) *CommentService {
	return &CommentService{store: s, indexer: ix}
}

// CreateComment attaches a comment to an existing highlight. The index entry
// inherits the highlight's visibility; the comment record itself carries
// none.
func (s *CommentService) CreateComment(ctx context.Context, c *model.Comment) (*model.Comment, error) {
	if err := validateComment(c); err != nil {
		return nil, err
	}
	parent, err := s.store.Highlights().Get(ctx, c.HighlightID)
	if err != nil {
		return nil, fmt.Errorf("highlight %s: %w", c.HighlightID, err)
	}
	created, err := s.store.Comments().Create(ctx, c)
	if err != nil {
		return nil, err
	}
	if err := s.indexComment(ctx, created, parent.Visibility); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *CommentService) GetComment(ctx context.Context, commentID string) (*model.Comment, error) {
	return s.store.Comments().Get(ctx, commentID)
}

func (s *CommentService) UpdateComment(ctx context.Context, c *model.Comment) (*model.Comment, error) {
	prev, err := s.store.Comments().Get(ctx, c.CommentID)
	if err != nil {
		return nil, err
	}
	// The parent binding is immutable; only the body changes.
	c.HighlightID = prev.HighlightID
	if c.UserID == "" {
		c.UserID = prev.UserID
	}
	if err := validateComment(c); err != nil {
		return nil, err
	}
	parent, err := s.store.Highlights().Get(ctx, c.HighlightID)
	if err != nil {
		return nil, fmt.Errorf("highlight %s: %w", c.HighlightID, err)
	}
	updated, err := s.store.Comments().Update(ctx, c)
	if err != nil {
		return nil, err
	}
	if err := s.indexComment(ctx, updated, parent.Visibility); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, commentID string) error {
	if err := s.store.Comments().Delete(ctx, commentID); err != nil {
		return err
	}
	return s.indexer.Remove(ctx, model.EntityComment, commentID)
}

func (s *CommentService) indexComment(ctx context.Context, c *model.Comment, visibility string) error {
	content := search.CommentContent(c)
	if content == "" {
		return s.indexer.Remove(ctx, model.EntityComment, c.CommentID)
	}
	return s.indexer.IndexContent(ctx, search.IndexRequest{
		EntityType: model.EntityComment,
		EntityID:   c.CommentID,
		OwnerID:    c.UserID,
		Content:    content,
		Visibility: visibility,
	})
}

func validateComment(c *model.Comment) error {
	if c.UserID == "" {
		return fmt.Errorf("userId is required: %w", model.ErrValidation)
	}
	if c.HighlightID == "" {
		return fmt.Errorf("highlightId is required: %w", model.ErrValidation)
	}
	if c.Body == "" {
		return fmt.Errorf("body is required: %w", model.ErrValidation)
	}
	return nil
}
