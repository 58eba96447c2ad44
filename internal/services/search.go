package services

import (
	"context"
	"fmt"

	"github.com/curiolabs/curio-server/internal/model"
	"github.com/curiolabs/curio-server/internal/search"
)

type SearchService struct {
	engine   *search.Engine
	hydrator *search.Hydrator
}

func NewSearchService(engine *search.Engine, hydrator *search.Hydrator) *SearchService {
	return &SearchService{engine: engine, hydrator: hydrator}
}

// Search runs one ranked query and hydrates the page into full entity
// payloads.
func (s *SearchService) Search(ctx context.Context, q model.SearchQuery) (*model.SearchResponse, error) {
	if q.UserID == "" {
		return nil, fmt.Errorf("userId is required: %w", model.ErrValidation)
	}
	if q.Query == "" {
		return nil, fmt.Errorf("query is required: %w", model.ErrValidation)
	}
	ranked, err := s.engine.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	results, err := s.hydrator.Hydrate(ctx, ranked.Rows)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []model.SearchResult{}
	}
	return &model.SearchResponse{
		Results:       results,
		RequestedMode: ranked.RequestedMode,
		EffectiveMode: ranked.EffectiveMode,
		Total:         ranked.Total,
		Limit:         ranked.Limit,
		Offset:        ranked.Offset,
		SortBy:        ranked.SortBy,
	}, nil
}
