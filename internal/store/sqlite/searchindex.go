package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	idx "github.com/curiolabs/curio-server/internal/index"
	"github.com/curiolabs/curio-server/internal/model"
)

type searchIndex struct{ db *sql.DB }

func (s *searchIndex) Upsert(ctx context.Context, e *model.IndexEntry) (*model.IndexEntry, error) {
	out := *e
	out.UpdatedAt = time.Now().UTC()
	lexical := idx.BuildTokens(out.Content)

	var existingID string
	var createdAt time.Time
	err := s.db.QueryRowContext(ctx, `
        SELECT id, created_at FROM search_index WHERE entity_type=? AND entity_id=?
    `, out.EntityType, out.EntityID).Scan(&existingID, &createdAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		out.ID = uuid.New().String()
		out.CreatedAt = out.UpdatedAt
		_, err = s.db.ExecContext(ctx, `
            INSERT INTO search_index (id, entity_type, entity_id, owner_id, content, lexical, url, visibility, created_at, updated_at)
            VALUES (?,?,?,?,?,?,?,?,?,?)
        `, out.ID, out.EntityType, out.EntityID, out.OwnerID, out.Content, lexical, out.URL, out.Visibility, out.CreatedAt, out.UpdatedAt)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		out.ID = existingID
		out.CreatedAt = createdAt
		_, err = s.db.ExecContext(ctx, `
            UPDATE search_index SET owner_id=?, content=?, lexical=?, url=?, visibility=?, updated_at=?
            WHERE id=?
        `, out.OwnerID, out.Content, lexical, out.URL, out.Visibility, out.UpdatedAt, out.ID)
		if err != nil {
			return nil, err
		}
	}
	return &out, nil
}

func (s *searchIndex) SetEmbedding(ctx context.Context, entityType, entityID string, vec []float32) error {
	if len(vec) == 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
        UPDATE search_index SET embedding=?, updated_at=? WHERE entity_type=? AND entity_id=?
    `, idx.SerializeVector(vec), time.Now().UTC(), entityType, entityID)
	return err
}

func (s *searchIndex) Remove(ctx context.Context, entityType, entityID string) error {
	_, err := s.db.ExecContext(ctx, `
        DELETE FROM search_index WHERE entity_type=? AND entity_id=?
    `, entityType, entityID)
	return err
}

func (s *searchIndex) Get(ctx context.Context, entityType, entityID string) (*model.IndexEntry, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, entity_type, entity_id, owner_id, content, embedding, url, visibility, created_at, updated_at
        FROM search_index WHERE entity_type=? AND entity_id=?
    `, entityType, entityID)
	var e model.IndexEntry
	var blob []byte
	err := row.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.OwnerID, &e.Content, &blob, &e.URL, &e.Visibility, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("index entry %s/%s: %w", entityType, entityID, model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	e.Embedding = idx.DeserializeVector(blob)
	return &e, nil
}

// Search filters candidates in SQL (visibility plus structural filters) and
// scores them in Go under the effective mode.
func (s *searchIndex) Search(ctx context.Context, req model.IndexSearchRequest) ([]model.ScoredEntry, int, error) {
	where, args := buildFilter(req)
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, entity_type, entity_id, owner_id, content, lexical, embedding, url, visibility, created_at, updated_at
        FROM search_index WHERE `+where, args...)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = rows.Close() }()

	terms := idx.Tokenize(req.Query)
	var scored []model.ScoredEntry
	for rows.Next() {
		var e model.IndexEntry
		var lexical string
		var blob []byte
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.OwnerID, &e.Content, &lexical, &blob, &e.URL, &e.Visibility, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, 0, err
		}
		e.Embedding = idx.DeserializeVector(blob)

		fts := idx.LexicalScore(terms, idx.ParseTokens(lexical))
		var sem float64
		if len(req.QueryVec) > 0 && len(e.Embedding) > 0 {
			sem = idx.CosineSimilarity(req.QueryVec, e.Embedding)
		}

		se := model.ScoredEntry{Entry: e}
		switch req.Mode {
		case model.ModeLexical:
			if fts == 0 {
				continue
			}
			se.FtsScore, se.Score = fts, fts
		case model.ModeSemantic:
			if len(e.Embedding) == 0 {
				continue
			}
			se.SemanticScore, se.Score = sem, sem
		default: // hybrid
			if fts == 0 && len(e.Embedding) == 0 {
				continue
			}
			se.FtsScore, se.SemanticScore = fts, sem
			se.Score = idx.HybridScore(fts, sem)
		}
		scored = append(scored, se)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if req.SortBy == model.SortCreated {
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].Entry.CreatedAt.After(scored[j].Entry.CreatedAt)
		})
	} else {
		sort.SliceStable(scored, func(i, j int) bool {
			if scored[i].Score != scored[j].Score {
				return scored[i].Score > scored[j].Score
			}
			return scored[i].Entry.CreatedAt.After(scored[j].Entry.CreatedAt)
		})
	}

	total := len(scored)
	if req.Offset >= total {
		return nil, total, nil
	}
	scored = scored[req.Offset:]
	if req.Limit > 0 && req.Limit < len(scored) {
		scored = scored[:req.Limit]
	}
	return scored, total, nil
}

// buildFilter renders the visibility predicate and the optional structural
// filters as a WHERE clause.
func buildFilter(req model.IndexSearchRequest) (string, []any) {
	var conds []string
	var args []any

	// Visibility: own content always; friends' content when shared to
	// friends or public; anyone's public content.
	vis := []string{"owner_id = ?", "visibility = ?"}
	args = append(args, req.UserID, model.VisibilityPublic)
	if len(req.FriendIDs) > 0 {
		vis = append(vis, "(owner_id IN ("+placeholders(len(req.FriendIDs))+") AND visibility IN (?,?))")
		args = append(args, idArgs(req.FriendIDs)...)
		args = append(args, model.VisibilityFriends, model.VisibilityPublic)
	}
	conds = append(conds, "("+strings.Join(vis, " OR ")+")")

	if len(req.EntityTypes) > 0 {
		conds = append(conds, "entity_type IN ("+placeholders(len(req.EntityTypes))+")")
		args = append(args, idArgs(req.EntityTypes)...)
	}
	if req.TagID != "" {
		// Tag membership only constrains bookmarks; other kinds pass.
		conds = append(conds, "(entity_type <> ? OR entity_id IN (SELECT bookmark_id FROM bookmark_tags WHERE tag_id = ?))")
		args = append(args, model.EntityBookmark, req.TagID)
	}
	if req.URLPattern != "" {
		conds = append(conds, `url LIKE ? ESCAPE '\'`)
		args = append(args, globToLike(req.URLPattern))
	}
	if req.Domain != "" {
		conds = append(conds, "(url LIKE ? OR url LIKE ? OR url LIKE ? OR url LIKE ?)")
		args = append(args,
			"http://"+req.Domain+"%",
			"https://"+req.Domain+"%",
			"http://www."+req.Domain+"%",
			"https://www."+req.Domain+"%")
	}
	if req.After != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, req.After.UTC())
	}
	if req.Before != nil {
		conds = append(conds, "created_at <= ?")
		args = append(args, req.Before.UTC())
	}

	return strings.Join(conds, " AND "), args
}

// globToLike converts a glob pattern (* wildcard) into a LIKE pattern,
// escaping LIKE metacharacters in the literal parts.
func globToLike(glob string) string {
	var b strings.Builder
	for _, r := range glob {
		switch r {
		case '*':
			b.WriteByte('%')
		case '%', '_', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
