// Package validate rejects malformed request input at the HTTP boundary,
// before it reaches the services.
package validate

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/curiolabs/curio-server/internal/model"
)

// searchPayload is the wire form of a search request. Dates travel as RFC3339
// strings so a malformed value yields a targeted error instead of a generic
// decode failure.
type searchPayload struct {
	Query       string   `json:"query"`
	UserID      string   `json:"userId"`
	Mode        string   `json:"mode"`
	EntityTypes []string `json:"entityTypes"`
	Limit       int      `json:"limit"`
	Offset      int      `json:"offset"`
	TagID       string   `json:"tagId"`
	URLPattern  string   `json:"urlPattern"`
	Domain      string   `json:"domain"`
	After       string   `json:"after"`
	Before      string   `json:"before"`
	SortBy      string   `json:"sortBy"`
}

// ParseSearchQuery decodes and validates a search request body.
func ParseSearchQuery(body io.Reader) (*model.SearchQuery, error) {
	var p searchPayload
	if err := json.NewDecoder(body).Decode(&p); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if err := Mode(p.Mode); err != nil {
		return nil, err
	}
	if err := SortBy(p.SortBy); err != nil {
		return nil, err
	}
	for _, et := range p.EntityTypes {
		if err := EntityType(et); err != nil {
			return nil, err
		}
	}
	if p.Limit < 0 {
		return nil, fmt.Errorf("limit must not be negative")
	}
	if p.Offset < 0 {
		return nil, fmt.Errorf("offset must not be negative")
	}

	q := &model.SearchQuery{
		Query:       p.Query,
		UserID:      p.UserID,
		Mode:        p.Mode,
		EntityTypes: p.EntityTypes,
		Limit:       p.Limit,
		Offset:      p.Offset,
		TagID:       p.TagID,
		URLPattern:  p.URLPattern,
		Domain:      p.Domain,
		SortBy:      p.SortBy,
	}

	var err error
	if q.After, err = Date("after", p.After); err != nil {
		return nil, err
	}
	if q.Before, err = Date("before", p.Before); err != nil {
		return nil, err
	}
	return q, nil
}

// Mode accepts the three search modes or empty (the engine defaults it).
func Mode(v string) error {
	switch v {
	case "", model.ModeHybrid, model.ModeLexical, model.ModeSemantic:
		return nil
	default:
		return fmt.Errorf("mode %q is not one of hybrid, lexical, semantic", v)
	}
}

// SortBy accepts the two sort orders or empty.
func SortBy(v string) error {
	switch v {
	case "", model.SortRelevance, model.SortCreated:
		return nil
	default:
		return fmt.Errorf("sortBy %q is not one of relevance, created", v)
	}
}

// EntityType accepts the three indexable kinds.
func EntityType(v string) error {
	switch v {
	case model.EntityBookmark, model.EntityHighlight, model.EntityComment:
		return nil
	default:
		return fmt.Errorf("entityType %q is not one of bookmark, highlight, comment", v)
	}
}

// Date parses an optional RFC3339 timestamp.
func Date(field, v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("%s is not an RFC3339 timestamp: %q", field, v)
	}
	return &t, nil
}

// NonEmpty rejects a missing required field.
func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}
