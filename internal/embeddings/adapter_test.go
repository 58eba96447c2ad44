package embeddings

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

type stubProvider struct {
	vec      []float32
	err      error
	batchErr error
	calls    int
}

func (s *stubProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	s.calls++
	return s.vec, s.err
}

func (s *stubProvider) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	s.calls++
	if s.batchErr != nil {
		return nil, s.batchErr
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = s.vec
	}
	return out, nil
}

func TestAdapter_NilProvider(t *testing.T) {
	a := NewAdapter(nil, zerolog.Nop())

	if a.Enabled() {
		t.Fatal("adapter with nil provider should report disabled")
	}
	if vec := a.Embed(context.Background(), "hello"); vec != nil {
		t.Fatalf("expected nil vector, got %v", vec)
	}
	got := a.EmbedMany(context.Background(), []string{"a", "b", "c"})
	if len(got) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(got))
	}
	for i, v := range got {
		if v != nil {
			t.Fatalf("slot %d should be nil, got %v", i, v)
		}
	}
}

func TestAdapter_ErrorBecomesNil(t *testing.T) {
	p := &stubProvider{err: errors.New("boom")}
	a := NewAdapter(p, zerolog.Nop())

	if vec := a.Embed(context.Background(), "hello"); vec != nil {
		t.Fatalf("provider error should surface as nil, got %v", vec)
	}
	if p.calls != 1 {
		t.Fatalf("expected one provider call, got %d", p.calls)
	}
}

func TestAdapter_BatchErrorDegradesToAllNil(t *testing.T) {
	p := &stubProvider{batchErr: errors.New("boom")}
	a := NewAdapter(p, zerolog.Nop())

	got := a.EmbedMany(context.Background(), []string{"x", "y"})
	if len(got) != 2 || got[0] != nil || got[1] != nil {
		t.Fatalf("batch error should degrade to all-nil, got %v", got)
	}
}

func TestAdapter_PassThrough(t *testing.T) {
	p := &stubProvider{vec: []float32{1, 2}}
	a := NewAdapter(p, zerolog.Nop())

	if !a.Enabled() {
		t.Fatal("adapter should report enabled")
	}
	if vec := a.Embed(context.Background(), "hello"); len(vec) != 2 {
		t.Fatalf("expected vector pass-through, got %v", vec)
	}
}
