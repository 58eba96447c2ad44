package services

import (
	"context"

	"github.com/curiolabs/curio-server/internal/search"
)

// AdminService exposes maintenance operations.
type AdminService struct {
	indexer *search.Indexer
}

func NewAdminService(ix *search.Indexer) *AdminService {
	return &AdminService{indexer: ix}
}

// Reindex rebuilds the entire search index from the primary records and
// returns how many entries were written.
func (s *AdminService) Reindex(ctx context.Context) (int, error) {
	return s.indexer.ReindexAll(ctx)
}
