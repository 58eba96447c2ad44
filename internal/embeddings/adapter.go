package embeddings

import (
	"context"

	"github.com/rs/zerolog"
)

// Adapter wraps a possibly-nil Provider behind the contract callers rely on:
// every call answers, a missing vector is a nil slice, never an error. With no
// provider configured it short-circuits without any network I/O — that is the
// deliberate degraded mode, not a failure.
type Adapter struct {
	provider Provider
	log      zerolog.Logger
}

// NewAdapter builds an Adapter. provider may be nil when no credential is
// configured.
func NewAdapter(provider Provider, log zerolog.Logger) *Adapter {
	return &Adapter{provider: provider, log: log}
}

// Enabled reports whether a provider is configured at all.
func (a *Adapter) Enabled() bool { return a.provider != nil }

// Embed returns the vector for text, or nil when the provider is unset or the
// call failed. Callers decide whether a missing vector is acceptable.
func (a *Adapter) Embed(ctx context.Context, text string) []float32 {
	if a.provider == nil {
		return nil
	}
	vec, err := a.provider.Embed(ctx, text)
	if err != nil {
		a.log.Debug().Err(err).Msg("embedding call failed")
		return nil
	}
	if len(vec) == 0 {
		return nil
	}
	return vec
}

// EmbedMany returns one result per input text, in input order. A provider
// error for the whole batch degrades to an all-nil slice.
func (a *Adapter) EmbedMany(ctx context.Context, texts []string) [][]float32 {
	out := make([][]float32, len(texts))
	if a.provider == nil || len(texts) == 0 {
		return out
	}
	vecs, err := a.provider.EmbedMany(ctx, texts)
	if err != nil {
		a.log.Debug().Err(err).Int("batch", len(texts)).Msg("batch embedding call failed")
		return out
	}
	for i := range out {
		if i < len(vecs) && len(vecs[i]) > 0 {
			out[i] = vecs[i]
		}
	}
	return out
}
