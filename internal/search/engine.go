package search

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/curiolabs/curio-server/internal/embeddings"
	"github.com/curiolabs/curio-server/internal/model"
	"github.com/curiolabs/curio-server/internal/store"
)

// DefaultLimit bounds a query that does not ask for one.
const DefaultLimit = 20

// Engine answers ranked queries against the search index, combining the
// lexical and semantic signals and degrading to lexical-only when the vector
// path is unavailable. It only reads the index; the Indexer writes it.
type Engine struct {
	store        store.Store
	emb          *embeddings.Adapter
	breaker      *Breaker
	log          zerolog.Logger
	defaultLimit int
}

func NewEngine(s store.Store, emb *embeddings.Adapter, breaker *Breaker, log zerolog.Logger) *Engine {
	return &Engine{store: s, emb: emb, breaker: breaker, log: log, defaultLimit: DefaultLimit}
}

// SetDefaultLimit overrides the fallback limit applied when a query does not
// carry one. Values below 1 are ignored.
func (e *Engine) SetDefaultLimit(n int) {
	if n > 0 {
		e.defaultLimit = n
	}
}

// Ranked is the engine's output before hydration: ordered index rows plus the
// mode bookkeeping the response surface reports.
type Ranked struct {
	Rows          []model.ScoredEntry
	RequestedMode string
	EffectiveMode string
	Total         int
	Limit         int
	Offset        int
	SortBy        string
}

// Search runs one ranked query for the requesting user. The requested mode is
// never mutated; the effective mode records what actually ran.
func (e *Engine) Search(ctx context.Context, q model.SearchQuery) (*Ranked, error) {
	requested := q.Mode
	if requested == "" {
		requested = model.ModeHybrid
	}
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = model.SortRelevance
	}
	limit := q.Limit
	if limit <= 0 {
		limit = e.defaultLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	friendIDs, err := e.store.Friends().ListIDs(ctx, q.UserID)
	if err != nil {
		return nil, err
	}

	// Mode selection with graceful degradation: an unconfigured provider, a
	// tripped breaker, or a failed query embedding all silently demote the
	// call to lexical. None of these are errors.
	effective := requested
	var queryVec []float32
	if requested != model.ModeLexical {
		switch {
		case !e.emb.Enabled():
			effective = model.ModeLexical
		case !e.breaker.Available():
			effective = model.ModeLexical
		default:
			queryVec = e.emb.Embed(ctx, q.Query)
			if len(queryVec) == 0 {
				effective = model.ModeLexical
				e.log.Debug().Str("mode", requested).Msg("query embedding unavailable; using lexical scoring")
			}
		}
	}

	req := model.IndexSearchRequest{
		Mode:        effective,
		Query:       q.Query,
		QueryVec:    queryVec,
		UserID:      q.UserID,
		FriendIDs:   friendIDs,
		EntityTypes: q.EntityTypes,
		TagID:       q.TagID,
		URLPattern:  q.URLPattern,
		Domain:      q.Domain,
		After:       q.After,
		Before:      q.Before,
		SortBy:      sortBy,
		Limit:       limit,
		Offset:      offset,
	}

	rows, total, err := e.store.SearchIndex().Search(ctx, req)
	if err != nil && effective != model.ModeLexical && IsVectorBackendErr(err) {
		// One bounded retry: trip the breaker and re-issue the whole query
		// lexical-only. A failure of the retry itself is fatal — the lexical
		// path is the baseline.
		e.breaker.MarkUnavailable()
		e.log.Warn().Err(err).Str("mode", effective).Msg("vector backend failed; retrying lexical-only")
		effective = model.ModeLexical
		req.Mode = model.ModeLexical
		req.QueryVec = nil
		rows, total, err = e.store.SearchIndex().Search(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	return &Ranked{
		Rows:          rows,
		RequestedMode: requested,
		EffectiveMode: effective,
		Total:         total,
		Limit:         limit,
		Offset:        offset,
		SortBy:        sortBy,
	}, nil
}
