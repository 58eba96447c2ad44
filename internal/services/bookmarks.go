// Package services orchestrates the primary records and keeps the search
// index in step with every mutation. Handlers call services, never the store
// directly.
package services

import (
	"context"
	"fmt"

	"github.com/curiolabs/curio-server/internal/model"
	"github.com/curiolabs/curio-server/internal/search"
	"github.com/curiolabs/curio-server/internal/store"
)

type BookmarkService struct {
	store   store.Store
	indexer *search.Indexer
}

func NewBookmarkService(s store.Store, ix *search.Indexer) *BookmarkService {
	return &BookmarkService{store: s, indexer: ix}
}

func (s *BookmarkService) CreateBookmark(ctx context.Context, b *model.Bookmark) (*model.Bookmark, error) {
	if err := validateBookmark(b); err != nil {
		return nil, err
	}
	created, err := s.store.Bookmarks().Create(ctx, b)
	if err != nil {
		return nil, err
	}
	if err := s.indexBookmark(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *BookmarkService) GetBookmark(ctx context.Context, bookmarkID string) (*model.Bookmark, error) {
	b, err := s.store.Bookmarks().Get(ctx, bookmarkID)
	if err != nil {
		return nil, err
	}
	tags, err := s.store.Tags().ForBookmarks(ctx, []string{bookmarkID})
	if err != nil {
		return nil, err
	}
	b.Tags = tags[bookmarkID]
	return b, nil
}

func (s *BookmarkService) UpdateBookmark(ctx context.Context, b *model.Bookmark) (*model.Bookmark, error) {
	if err := validateBookmark(b); err != nil {
		return nil, err
	}
	updated, err := s.store.Bookmarks().Update(ctx, b)
	if err != nil {
		return nil, err
	}
	if err := s.indexBookmark(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *BookmarkService) DeleteBookmark(ctx context.Context, bookmarkID string) error {
	if err := s.store.Bookmarks().Delete(ctx, bookmarkID); err != nil {
		return err
	}
	return s.indexer.Remove(ctx, model.EntityBookmark, bookmarkID)
}

// indexBookmark refreshes the bookmark's index entry, or drops it when its
// content normalizes to nothing.
func (s *BookmarkService) indexBookmark(ctx context.Context, b *model.Bookmark) error {
	content := search.BookmarkContent(b)
	if content == "" {
		return s.indexer.Remove(ctx, model.EntityBookmark, b.BookmarkID)
	}
	return s.indexer.IndexContent(ctx, search.IndexRequest{
		EntityType: model.EntityBookmark,
		EntityID:   b.BookmarkID,
		OwnerID:    b.UserID,
		Content:    content,
		URL:        b.URL,
		Visibility: b.Visibility,
	})
}

func validateBookmark(b *model.Bookmark) error {
	if b.UserID == "" {
		return fmt.Errorf("userId is required: %w", model.ErrValidation)
	}
	if b.URL == "" {
		return fmt.Errorf("url is required: %w", model.ErrValidation)
	}
	if b.Visibility == "" {
		b.Visibility = model.VisibilityPrivate
	}
	return validateVisibility(b.Visibility)
}

func validateVisibility(v string) error {
	switch v {
	case model.VisibilityPrivate, model.VisibilityFriends, model.VisibilityPublic:
		return nil
	default:
		return fmt.Errorf("visibility %q is not one of private, friends, public: %w", v, model.ErrValidation)
	}
}
