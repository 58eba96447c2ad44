// Package ollama implements embeddings against a local Ollama instance.
package ollama

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "http://localhost:11434"

// Provider calls the Ollama embeddings HTTP API.
type Provider struct {
	client *resty.Client
	model  string
}

// New constructs a Provider for the given base URL and model.
func New(baseURL, model string) *Provider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second)
	return &Provider{client: client, model: model}
}

type embRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embResponse struct {
	Embedding []float32 `json:"embedding"`
	Error     string    `json:"error"`
}

// Embed returns the vector for a single text.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	var body embResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(embRequest{Model: p.model, Prompt: text}).
		SetResult(&body).
		ForceContentType("application/json").
		Post("/api/embeddings")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("ollama embeddings status %d", resp.StatusCode())
	}
	if body.Error != "" {
		return nil, fmt.Errorf("ollama embeddings error: %s", body.Error)
	}
	return body.Embedding, nil
}

// EmbedMany embeds texts one call at a time; Ollama has no batch endpoint. A
// failed item yields nil at its slot without failing the rest of the batch.
func (p *Provider) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := p.Embed(ctx, t)
		if err != nil {
			continue
		}
		out[i] = vec
	}
	return out, nil
}
