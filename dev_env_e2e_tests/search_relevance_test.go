//go:build e2e
// +build e2e

package e2e

import (
	"fmt"
	"testing"
	"time"
)

// Seeds bookmarks with varying term frequency for one query word and checks
// the lexical ranking puts the denser document first. Runs against whatever
// backend the dev stack is configured with.
func TestDevEnv_LexicalRanking(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in short mode")
	}

	api := env("CURIO_API", "http://localhost:8080")
	if err := ping(api + "/v1/health"); err != nil {
		t.Skipf("curio-server unreachable at %s: %v", api, err)
	}

	owner := fmt.Sprintf("e2e-rank-%d", time.Now().UnixNano())
	marker := fmt.Sprintf("gossipx%d", time.Now().UnixNano())

	var dense, sparse struct {
		BookmarkID string `json:"bookmarkId"`
	}
	mustJSON(t, postJSON(t, api, "/v1/bookmarks", map[string]interface{}{
		"userId":      owner,
		"url":         "https://example.com/dense-" + marker,
		"title":       marker + " protocols",
		"description": fmt.Sprintf("%s rounds, %s fanout and %s convergence", marker, marker, marker),
		"visibility":  "private",
	}), &dense)
	mustJSON(t, postJSON(t, api, "/v1/bookmarks", map[string]interface{}{
		"userId":      owner,
		"url":         "https://example.com/sparse-" + marker,
		"title":       "Background reading",
		"description": "mentions " + marker + " once",
		"visibility":  "private",
	}), &sparse)

	var found struct {
		Results []struct {
			Score    float64 `json:"score"`
			Bookmark *struct {
				BookmarkID string `json:"bookmarkId"`
			} `json:"bookmark"`
		} `json:"results"`
		Total int `json:"total"`
	}
	mustJSON(t, postJSON(t, api, "/v1/search", map[string]interface{}{
		"userId": owner,
		"query":  marker,
		"mode":   "lexical",
	}), &found)

	if found.Total != 2 {
		t.Fatalf("want both seeded bookmarks, got total=%d", found.Total)
	}
	if found.Results[0].Bookmark == nil || found.Results[0].Bookmark.BookmarkID != dense.BookmarkID {
		t.Fatalf("densest document not ranked first: %+v", found.Results)
	}
	if found.Results[0].Score < found.Results[1].Score {
		t.Fatalf("scores not descending: %v then %v", found.Results[0].Score, found.Results[1].Score)
	}
}
