package services

import (
	"context"
	"fmt"

	"github.com/curiolabs/curio-server/internal/model"
	"github.com/curiolabs/curio-server/internal/store"
)

type FriendService struct {
	store store.Store
}

func NewFriendService(s store.Store) *FriendService {
	return &FriendService{store: s}
}

// Befriend records a symmetric friendship; repeating it is a no-op.
func (s *FriendService) Befriend(ctx context.Context, userID, friendID string) error {
	if userID == "" || friendID == "" {
		return fmt.Errorf("both user ids are required: %w", model.ErrValidation)
	}
	if userID == friendID {
		return fmt.Errorf("cannot befriend yourself: %w", model.ErrValidation)
	}
	return s.store.Friends().Add(ctx, userID, friendID)
}

func (s *FriendService) Unfriend(ctx context.Context, userID, friendID string) error {
	return s.store.Friends().Remove(ctx, userID, friendID)
}

func (s *FriendService) ListFriendIDs(ctx context.Context, userID string) ([]string, error) {
	return s.store.Friends().ListIDs(ctx, userID)
}
