// Package embeddings turns text into fixed-length vectors via an external
// provider, tolerating both absent configuration and per-call failures.
package embeddings

import "context"

// Provider produces vector representations for text.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedMany preserves the 1:1 positional correspondence between inputs
	// and outputs; a failed item yields nil at its slot, never an error for
	// the whole batch.
	EmbedMany(ctx context.Context, texts []string) ([][]float32, error)
}
