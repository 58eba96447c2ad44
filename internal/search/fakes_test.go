package search

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/curiolabs/curio-server/internal/model"
	"github.com/curiolabs/curio-server/internal/store"
)

// --- Fakes ---

type fakeSearchIndex struct {
	mu         sync.Mutex
	entries    map[string]*model.IndexEntry
	embeddings map[string][]float32

	// searchErrs are consumed one per Search call; nil means success.
	searchErrs []error
	searchReqs []model.IndexSearchRequest
	searchRows []model.ScoredEntry
}

func newFakeSearchIndex() *fakeSearchIndex {
	return &fakeSearchIndex{
		entries:    make(map[string]*model.IndexEntry),
		embeddings: make(map[string][]float32),
	}
}

func indexKey(entityType, entityID string) string { return entityType + "/" + entityID }

func (f *fakeSearchIndex) Upsert(_ context.Context, e *model.IndexEntry) (*model.IndexEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *e
	f.entries[indexKey(e.EntityType, e.EntityID)] = &cp
	return &cp, nil
}

func (f *fakeSearchIndex) SetEmbedding(_ context.Context, entityType, entityID string, vec []float32) error {
	if len(vec) == 0 {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entries[indexKey(entityType, entityID)]; !ok {
		return nil
	}
	f.embeddings[indexKey(entityType, entityID)] = vec
	return nil
}

func (f *fakeSearchIndex) Remove(_ context.Context, entityType, entityID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, indexKey(entityType, entityID))
	delete(f.embeddings, indexKey(entityType, entityID))
	return nil
}

func (f *fakeSearchIndex) Get(_ context.Context, entityType, entityID string) (*model.IndexEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[indexKey(entityType, entityID)]
	if !ok {
		return nil, fmt.Errorf("index entry %s/%s: %w", entityType, entityID, model.ErrNotFound)
	}
	cp := *e
	cp.Embedding = f.embeddings[indexKey(entityType, entityID)]
	return &cp, nil
}

func (f *fakeSearchIndex) Search(_ context.Context, req model.IndexSearchRequest) ([]model.ScoredEntry, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchReqs = append(f.searchReqs, req)
	if len(f.searchErrs) > 0 {
		err := f.searchErrs[0]
		f.searchErrs = f.searchErrs[1:]
		if err != nil {
			return nil, 0, err
		}
	}
	return f.searchRows, len(f.searchRows), nil
}

func (f *fakeSearchIndex) embeddingOf(entityType, entityID string) []float32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.embeddings[indexKey(entityType, entityID)]
}

func (f *fakeSearchIndex) requests() []model.IndexSearchRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.IndexSearchRequest, len(f.searchReqs))
	copy(out, f.searchReqs)
	return out
}

type fakeStore struct {
	index      *fakeSearchIndex
	friendIDs  map[string][]string
	bookmarks  map[string]*model.Bookmark
	highlights map[string]*model.Highlight
	comments   map[string]*model.Comment
	tags       map[string][]model.Tag
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		index:      newFakeSearchIndex(),
		friendIDs:  make(map[string][]string),
		bookmarks:  make(map[string]*model.Bookmark),
		highlights: make(map[string]*model.Highlight),
		comments:   make(map[string]*model.Comment),
		tags:       make(map[string][]model.Tag),
	}
}

func (f *fakeStore) Bookmarks() store.Bookmarks     { return &fakeBookmarks{f} }
func (f *fakeStore) Highlights() store.Highlights   { return &fakeHighlights{f} }
func (f *fakeStore) Comments() store.Comments       { return &fakeComments{f} }
func (f *fakeStore) Tags() store.Tags               { return &fakeTags{f} }
func (f *fakeStore) Friends() store.Friends         { return &fakeFriends{f} }
func (f *fakeStore) SearchIndex() store.SearchIndex { return f.index }
func (f *fakeStore) HealthPing(context.Context) error { return nil }

type fakeBookmarks struct{ s *fakeStore }

func (r *fakeBookmarks) Create(context.Context, *model.Bookmark) (*model.Bookmark, error) {
	panic("unused")
}
func (r *fakeBookmarks) Get(_ context.Context, id string) (*model.Bookmark, error) {
	b, ok := r.s.bookmarks[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return b, nil
}
func (r *fakeBookmarks) Update(context.Context, *model.Bookmark) (*model.Bookmark, error) {
	panic("unused")
}
func (r *fakeBookmarks) Delete(context.Context, string) error { panic("unused") }
func (r *fakeBookmarks) BatchGet(_ context.Context, ids []string) ([]*model.Bookmark, error) {
	var out []*model.Bookmark
	for _, id := range ids {
		if b, ok := r.s.bookmarks[id]; ok {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (r *fakeBookmarks) All(context.Context) ([]*model.Bookmark, error) {
	var out []*model.Bookmark
	for _, b := range r.s.bookmarks {
		out = append(out, b)
	}
	return out, nil
}

type fakeHighlights struct{ s *fakeStore }

func (r *fakeHighlights) Create(context.Context, *model.Highlight) (*model.Highlight, error) {
	panic("unused")
}
func (r *fakeHighlights) Get(_ context.Context, id string) (*model.Highlight, error) {
	h, ok := r.s.highlights[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return h, nil
}
func (r *fakeHighlights) Update(context.Context, *model.Highlight) (*model.Highlight, error) {
	panic("unused")
}
func (r *fakeHighlights) Delete(context.Context, string) error { panic("unused") }
func (r *fakeHighlights) BatchGet(_ context.Context, ids []string) ([]*model.Highlight, error) {
	var out []*model.Highlight
	for _, id := range ids {
		if h, ok := r.s.highlights[id]; ok {
			cp := *h
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (r *fakeHighlights) All(context.Context) ([]*model.Highlight, error) {
	var out []*model.Highlight
	for _, h := range r.s.highlights {
		out = append(out, h)
	}
	return out, nil
}

type fakeComments struct{ s *fakeStore }

func (r *fakeComments) Create(context.Context, *model.Comment) (*model.Comment, error) {
	panic("unused")
}
func (r *fakeComments) Get(_ context.Context, id string) (*model.Comment, error) {
	c, ok := r.s.comments[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return c, nil
}
func (r *fakeComments) Update(context.Context, *model.Comment) (*model.Comment, error) {
	panic("unused")
}
func (r *fakeComments) Delete(context.Context, string) error { panic("unused") }
func (r *fakeComments) BatchGet(_ context.Context, ids []string) ([]*model.Comment, error) {
	var out []*model.Comment
	for _, id := range ids {
		if c, ok := r.s.comments[id]; ok {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (r *fakeComments) ForHighlight(_ context.Context, highlightID string) ([]*model.Comment, error) {
	var out []*model.Comment
	for _, c := range r.s.comments {
		if c.HighlightID == highlightID {
			out = append(out, c)
		}
	}
	return out, nil
}
func (r *fakeComments) All(context.Context) ([]*model.Comment, error) {
	var out []*model.Comment
	for _, c := range r.s.comments {
		out = append(out, c)
	}
	return out, nil
}

type fakeTags struct{ s *fakeStore }

func (r *fakeTags) Create(context.Context, *model.Tag) (*model.Tag, error) { panic("unused") }
func (r *fakeTags) Attach(context.Context, string, string) error           { panic("unused") }
func (r *fakeTags) Detach(context.Context, string, string) error           { panic("unused") }
func (r *fakeTags) HasTag(context.Context, string, string) (bool, error)   { panic("unused") }
func (r *fakeTags) ForBookmarks(_ context.Context, ids []string) (map[string][]model.Tag, error) {
	out := make(map[string][]model.Tag)
	for _, id := range ids {
		if ts, ok := r.s.tags[id]; ok {
			out[id] = ts
		}
	}
	return out, nil
}

type fakeFriends struct{ s *fakeStore }

func (r *fakeFriends) Add(context.Context, string, string) error    { panic("unused") }
func (r *fakeFriends) Remove(context.Context, string, string) error { panic("unused") }
func (r *fakeFriends) ListIDs(_ context.Context, userID string) ([]string, error) {
	return r.s.friendIDs[userID], nil
}

// stubProvider returns a canned vector, or an error when err is set.
type stubProvider struct {
	vec []float32
	err error
}

func (p *stubProvider) Embed(context.Context, string) ([]float32, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.vec, nil
}

func (p *stubProvider) EmbedMany(_ context.Context, texts []string) ([][]float32, error) {
	if p.err != nil {
		return nil, p.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = p.vec
	}
	return out, nil
}

var errProviderDown = errors.New("provider down")
