package factory

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/curiolabs/curio-server/internal/config"
	"github.com/curiolabs/curio-server/internal/embeddings"
	"github.com/curiolabs/curio-server/internal/search"
	"github.com/curiolabs/curio-server/internal/store"
)

// NewSearch wires the indexer, engine and hydrator around one store and one
// embedding adapter. The breaker is engine-owned, sized from config.
func NewSearch(s store.Store, emb *embeddings.Adapter, cfg *config.Config, log zerolog.Logger) (*search.Indexer, *search.Engine, *search.Hydrator) {
	breaker := search.NewBreaker(time.Duration(cfg.SearchCooldownSeconds) * time.Second)
	indexer := search.NewIndexer(s, emb, log)
	engine := search.NewEngine(s, emb, breaker, log)
	engine.SetDefaultLimit(cfg.SearchDefaultLimit)
	return indexer, engine, search.NewHydrator(s)
}
