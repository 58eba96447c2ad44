// Package index holds the scoring primitives shared by search index backends
// that rank in-process rather than in SQL.
package index

import (
	"math"
	"strings"
)

// Tokenize splits text into lowercase terms, stripping punctuation and
// dropping terms shorter than two characters.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) >= 2 {
			terms = append(terms, f)
		}
	}
	return terms
}

// BuildTokens produces the stored lexical representation of content: the
// sorted token list with term frequencies flattened by repetition, joined by
// single spaces. It round-trips through ParseTokens.
func BuildTokens(content string) string {
	return strings.Join(Tokenize(content), " ")
}

// ParseTokens rebuilds the term-frequency map from a stored token string.
func ParseTokens(stored string) map[string]int {
	if stored == "" {
		return nil
	}
	tf := make(map[string]int)
	for _, t := range strings.Fields(stored) {
		tf[t]++
	}
	return tf
}

// LexicalScore ranks stored tokens against query terms. Each matched term
// contributes tf/(tf+1), dampening long documents, and the sum is normalized
// by the query length so the score stays in [0,1). Zero means no match.
func LexicalScore(queryTerms []string, tf map[string]int) float64 {
	if len(queryTerms) == 0 || len(tf) == 0 {
		return 0
	}
	var sum float64
	for _, term := range queryTerms {
		if n := tf[term]; n > 0 {
			sum += float64(n) / float64(n+1)
		}
	}
	return sum / float64(len(queryTerms))
}

// CosineSimilarity returns the cosine of the angle between two vectors, or 0
// when either is empty or their lengths differ.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return dot / denom
}

// Weights of the two retrieval signals in hybrid mode.
const (
	FtsWeight      = 0.5
	SemanticWeight = 0.5
)

// HybridScore combines the lexical and semantic signals. Absent signals are
// passed as 0 and simply contribute nothing.
func HybridScore(fts, semantic float64) float64 {
	return FtsWeight*fts + SemanticWeight*semantic
}
