package factory

import (
	"github.com/rs/zerolog"

	"github.com/curiolabs/curio-server/internal/config"
	"github.com/curiolabs/curio-server/internal/embeddings"
	"github.com/curiolabs/curio-server/internal/embeddings/ollama"
	"github.com/curiolabs/curio-server/internal/embeddings/openai"
)

// NewEmbeddings builds the embedding adapter. An empty provider name yields a
// disabled adapter and the service runs lexical-only.
func NewEmbeddings(cfg *config.Config, log zerolog.Logger) *embeddings.Adapter {
	var provider embeddings.Provider

	switch cfg.EmbedProvider {
	case "openai":
		provider = openai.New(cfg.EmbedBaseURL, cfg.EmbedAPIKey, cfg.EmbedModel)
	case "ollama":
		provider = ollama.New(cfg.EmbedBaseURL, cfg.EmbedModel)
	case "":
		log.Info().Msg("no embedding provider configured; semantic search disabled")
	default:
		log.Warn().Str("provider", cfg.EmbedProvider).Msg("unknown embedding provider; semantic search disabled")
	}

	return embeddings.NewAdapter(provider, log)
}
