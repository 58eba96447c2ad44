package services

import (
	"context"
	"fmt"

	"github.com/curiolabs/curio-server/internal/model"
	"github.com/curiolabs/curio-server/internal/store"
)

type TagService struct {
	store store.Store
}

func NewTagService(s store.Store) *TagService {
	return &TagService{store: s}
}

func (s *TagService) CreateTag(ctx context.Context, t *model.Tag) (*model.Tag, error) {
	if t.UserID == "" {
		return nil, fmt.Errorf("userId is required: %w", model.ErrValidation)
	}
	if t.Name == "" {
		return nil, fmt.Errorf("name is required: %w", model.ErrValidation)
	}
	return s.store.Tags().Create(ctx, t)
}

// AttachTag links a tag to a bookmark. Tag filters read the link table
// directly at query time, so the search index needs no refresh.
func (s *TagService) AttachTag(ctx context.Context, bookmarkID, tagID string) error {
	if _, err := s.store.Bookmarks().Get(ctx, bookmarkID); err != nil {
		return fmt.Errorf("bookmark %s: %w", bookmarkID, err)
	}
	return s.store.Tags().Attach(ctx, bookmarkID, tagID)
}

func (s *TagService) DetachTag(ctx context.Context, bookmarkID, tagID string) error {
	return s.store.Tags().Detach(ctx, bookmarkID, tagID)
}
