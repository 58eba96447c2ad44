// Package openai implements embeddings against an OpenAI-compatible
// /embeddings endpoint.
package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Provider calls an OpenAI-compatible embeddings API.
type Provider struct {
	client *resty.Client
	model  string
}

// New constructs a Provider. baseURL may be empty for the public API.
func New(baseURL, apiKey, model string) *Provider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey).
		SetTimeout(15 * time.Second)
	return &Provider{client: client, model: model}
}

type embRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Embed returns the vector for a single text.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := p.EmbedMany(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedMany embeds a batch in one call. Results are slotted by the index the
// API reports, so output order matches input order even when the provider
// answers out of order; an item with no usable vector stays nil.
func (p *Provider) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	if len(texts) == 0 {
		return out, nil
	}

	// ForceContentType: compatible endpoints do not all label their JSON,
	// and resty only unmarshals into SetResult when the header says JSON.
	var body embResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(embRequest{Model: p.model, Input: texts}).
		SetResult(&body).
		ForceContentType("application/json").
		Post("/embeddings")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("embeddings status %d: %s", resp.StatusCode(), resp.String())
	}
	if body.Error != nil {
		return nil, fmt.Errorf("embeddings error: %s", body.Error.Message)
	}

	for _, d := range body.Data {
		if d.Index < 0 || d.Index >= len(out) || len(d.Embedding) == 0 {
			continue
		}
		out[d.Index] = d.Embedding
	}
	return out, nil
}
