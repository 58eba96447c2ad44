package model

import "time"

// Entity types indexed for search.
const (
	EntityBookmark  = "bookmark"
	EntityHighlight = "highlight"
	EntityComment   = "comment"
)

// Visibility tiers on indexable content.
const (
	VisibilityPrivate = "private"
	VisibilityFriends = "friends"
	VisibilityPublic  = "public"
)

// Search modes accepted by the query engine.
const (
	ModeHybrid   = "hybrid"
	ModeLexical  = "lexical"
	ModeSemantic = "semantic"
)

// Sort orders accepted by the query engine.
const (
	SortRelevance = "relevance"
	SortCreated   = "created"
)

// Bookmark is a saved link.
type Bookmark struct {
	BookmarkID  string    `json:"bookmarkId"`
	UserID      string    `json:"userId"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	SiteName    string    `json:"siteName,omitempty"`
	Visibility  string    `json:"visibility"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Tags is populated on hydration, not by bookmark reads.
	Tags []Tag `json:"tags,omitempty"`
}

// Highlight is a passage a user marked on a page.
type Highlight struct {
	HighlightID string    `json:"highlightId"`
	UserID      string    `json:"userId"`
	BookmarkID  *string   `json:"bookmarkId,omitempty"`
	URL         string    `json:"url"`
	Text        string    `json:"text"`
	Visibility  string    `json:"visibility"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Comment is a discussion message attached to a highlight. It carries no
// visibility of its own; it inherits the parent highlight's at index time.
type Comment struct {
	CommentID   string    `json:"commentId"`
	HighlightID string    `json:"highlightId"`
	UserID      string    `json:"userId"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Tag labels bookmarks.
type Tag struct {
	TagID  string `json:"tagId"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// IndexEntry is one row of the denormalized search index. Exactly one entry
// exists per (EntityType, EntityID); re-indexing overwrites in place.
type IndexEntry struct {
	ID         string    `json:"id"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId"`
	OwnerID    string    `json:"ownerId"`
	Content    string    `json:"content"`
	URL        string    `json:"url,omitempty"`
	Visibility string    `json:"visibility,omitempty"`
	Embedding  []float32 `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// SearchQuery is a ranked retrieval request.
type SearchQuery struct {
	Query       string     `json:"query"`
	UserID      string     `json:"userId"`
	Mode        string     `json:"mode,omitempty"`
	EntityTypes []string   `json:"entityTypes,omitempty"`
	Limit       int        `json:"limit,omitempty"`
	Offset      int        `json:"offset,omitempty"`
	TagID       string     `json:"tagId,omitempty"`
	URLPattern  string     `json:"urlPattern,omitempty"`
	Domain      string     `json:"domain,omitempty"`
	After       *time.Time `json:"after,omitempty"`
	Before      *time.Time `json:"before,omitempty"`
	SortBy      string     `json:"sortBy,omitempty"`
}

// IndexSearchRequest is the candidate query handed to a search index backend.
// Mode is the effective mode the engine settled on; QueryVec is nil unless the
// mode needs a semantic signal.
type IndexSearchRequest struct {
	Mode        string
	Query       string
	QueryVec    []float32
	UserID      string
	FriendIDs   []string
	EntityTypes []string
	TagID       string
	URLPattern  string
	Domain      string
	After       *time.Time
	Before      *time.Time
	SortBy      string
	Limit       int
	Offset      int
}

// ScoredEntry is one ranked index row before hydration.
type ScoredEntry struct {
	Entry         IndexEntry `json:"entry"`
	FtsScore      float64    `json:"ftsScore"`
	SemanticScore float64    `json:"semanticScore"`
	Score         float64    `json:"score"`
}

// SearchResult is one hydrated result, tagged by Type with exactly one of the
// three payloads set.
type SearchResult struct {
	Type          string     `json:"type"`
	Score         float64    `json:"score"`
	FtsScore      float64    `json:"ftsScore"`
	SemanticScore float64    `json:"semanticScore"`
	Bookmark      *Bookmark  `json:"bookmark,omitempty"`
	Highlight     *Highlight `json:"highlight,omitempty"`
	Comment       *Comment   `json:"comment,omitempty"`
}

// SearchResponse is the full query surface reply.
type SearchResponse struct {
	Results       []SearchResult `json:"results"`
	RequestedMode string         `json:"requestedMode"`
	EffectiveMode string         `json:"effectiveMode"`
	Total         int            `json:"total"`
	Limit         int            `json:"limit"`
	Offset        int            `json:"offset"`
	SortBy        string         `json:"sortBy"`
}
