package search

import (
	"net/url"
	"strings"

	"github.com/curiolabs/curio-server/internal/model"
)

// BookmarkContent builds the canonical searchable string for a bookmark:
// title, description, site name and the bare domain of its URL, skipping
// empty parts. An empty result means the bookmark must not be indexed.
func BookmarkContent(b *model.Bookmark) string {
	return joinParts(b.Title, b.Description, b.SiteName, domainOf(b.URL))
}

// HighlightContent builds the searchable string for a highlight: the
// highlighted text plus the bare domain of its source URL.
func HighlightContent(h *model.Highlight) string {
	return joinParts(h.Text, domainOf(h.URL))
}

// CommentContent is the trimmed comment body.
func CommentContent(c *model.Comment) string {
	return strings.TrimSpace(c.Body)
}

func joinParts(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// domainOf extracts the bare host from a URL, stripping a leading "www.".
// Unparseable or host-less URLs yield "".
func domainOf(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
