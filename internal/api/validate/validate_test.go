package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSearchQuery_Valid(t *testing.T) {
	body := `{
        "query": "raft consensus",
        "userId": "u1",
        "mode": "semantic",
        "entityTypes": ["bookmark", "highlight"],
        "limit": 5,
        "offset": 10,
        "after": "2025-01-01T00:00:00Z",
        "sortBy": "created"
    }`
	q, err := ParseSearchQuery(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, "raft consensus", q.Query)
	assert.Equal(t, "semantic", q.Mode)
	assert.Equal(t, []string{"bookmark", "highlight"}, q.EntityTypes)
	assert.Equal(t, 5, q.Limit)
	assert.Equal(t, 10, q.Offset)
	require.NotNil(t, q.After)
	assert.Equal(t, 2025, q.After.Year())
	assert.Nil(t, q.Before)
}

func TestParseSearchQuery_Minimal(t *testing.T) {
	q, err := ParseSearchQuery(strings.NewReader(`{"query":"raft","userId":"u1"}`))
	require.NoError(t, err)
	assert.Empty(t, q.Mode)
	assert.Empty(t, q.SortBy)
	assert.Nil(t, q.After)
}

func TestParseSearchQuery_Rejections(t *testing.T) {
	cases := map[string]string{
		"bad json":        `{`,
		"bad mode":        `{"query":"x","userId":"u1","mode":"psychic"}`,
		"bad sort":        `{"query":"x","userId":"u1","sortBy":"shuffled"}`,
		"bad entity type": `{"query":"x","userId":"u1","entityTypes":["page"]}`,
		"bad date":        `{"query":"x","userId":"u1","after":"yesterday"}`,
		"negative limit":  `{"query":"x","userId":"u1","limit":-1}`,
		"negative offset": `{"query":"x","userId":"u1","offset":-3}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSearchQuery(strings.NewReader(body))
			assert.Error(t, err)
		})
	}
}

func TestMode(t *testing.T) {
	for _, ok := range []string{"", "hybrid", "lexical", "semantic"} {
		assert.NoError(t, Mode(ok))
	}
	assert.Error(t, Mode("fuzzy"))
}

func TestDate(t *testing.T) {
	got, err := Date("after", "")
	require.NoError(t, err)
	assert.Nil(t, got)
	_, err = Date("after", "2025-13-01T00:00:00Z")
	assert.Error(t, err)
}
