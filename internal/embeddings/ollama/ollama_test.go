package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEmbed_Single(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "test-model" || req.Prompt != "hello" {
			t.Errorf("unexpected request: %+v", req)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"embedding": []float32{0.5, 0.25},
		})
	}))
	defer srv.Close()

	p := New(srv.URL, "test-model")
	vec, err := p.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 2 || vec[0] != 0.5 {
		t.Fatalf("unexpected vector %v", vec)
	}
}

// The response must decode even when the server mislabels its Content-Type;
// Ollama builds and proxies in front of it do not all say application/json.
func TestEmbed_MislabeledContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"embedding": []float32{0.125},
		})
	}))
	defer srv.Close()

	p := New(srv.URL, "test-model")
	vec, err := p.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 1 || vec[0] != 0.125 {
		t.Fatalf("mislabeled response not decoded: %v", vec)
	}
}

func TestEmbed_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": "model not found",
		})
	}))
	defer srv.Close()

	p := New(srv.URL, "test-model")
	if _, err := p.Embed(context.Background(), "hello"); err == nil {
		t.Fatal("expected error from error body")
	}
}

func TestEmbed_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := New(srv.URL, "test-model")
	if _, err := p.Embed(context.Background(), "hello"); err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}

// A failed item must not fail the rest of the batch.
func TestEmbedMany_PartialFailure(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"embedding": []float32{float32(calls)},
		})
	}))
	defer srv.Close()

	p := New(srv.URL, "test-model")
	got, err := p.EmbedMany(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("EmbedMany: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	if got[0] == nil || got[1] != nil || got[2] == nil {
		t.Fatalf("expected nil only at the failed slot: %v", got)
	}
}
