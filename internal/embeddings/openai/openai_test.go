package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// The provider must slot results by the index field, not response order.
func TestEmbedMany_OutOfOrderResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Input) != 3 {
			t.Errorf("expected 3 inputs, got %d", len(req.Input))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"index": 2, "embedding": []float32{3}},
				{"index": 0, "embedding": []float32{1}},
				// index 1 missing: provider failed that item
			},
		})
	}))
	defer srv.Close()

	p := New(srv.URL, "key", "test-model")
	got, err := p.EmbedMany(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("EmbedMany: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	if got[0] == nil || got[0][0] != 1 {
		t.Fatalf("slot 0: got %v", got[0])
	}
	if got[1] != nil {
		t.Fatalf("slot 1 should be nil for the failed item, got %v", got[1])
	}
	if got[2] == nil || got[2][0] != 3 {
		t.Fatalf("slot 2: got %v", got[2])
	}
}

func TestEmbedMany_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := New(srv.URL, "key", "test-model")
	if _, err := p.EmbedMany(context.Background(), []string{"a"}); err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}

func TestEmbed_Single(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"index": 0, "embedding": []float32{0.5, 0.25}}},
		})
	}))
	defer srv.Close()

	p := New(srv.URL, "key", "test-model")
	vec, err := p.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 2 || vec[0] != 0.5 {
		t.Fatalf("unexpected vector %v", vec)
	}
}

// Compatible endpoints do not all label their JSON; the response must decode
// even when Content-Type says something else entirely.
func TestEmbedMany_MislabeledContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"index": 0, "embedding": []float32{0.75}}},
		})
	}))
	defer srv.Close()

	p := New(srv.URL, "key", "test-model")
	got, err := p.EmbedMany(context.Background(), []string{"a"})
	if err != nil {
		t.Fatalf("EmbedMany: %v", err)
	}
	if got[0] == nil || got[0][0] != 0.75 {
		t.Fatalf("mislabeled response not decoded: %v", got[0])
	}
}

func TestEmbedMany_Empty(t *testing.T) {
	p := New("http://unused.invalid", "key", "test-model")
	got, err := p.EmbedMany(context.Background(), nil)
	if err != nil || len(got) != 0 {
		t.Fatalf("empty batch: got %v err %v", got, err)
	}
}
