package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	idx "github.com/curiolabs/curio-server/internal/index"
	"github.com/curiolabs/curio-server/internal/model"
)

type searchIndex struct{ db *sql.DB }

func (s *searchIndex) Upsert(ctx context.Context, e *model.IndexEntry) (*model.IndexEntry, error) {
	out := *e
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	row := s.db.QueryRowContext(ctx, `
        INSERT INTO search_index (id, entity_type, entity_id, owner_id, content, lexical, url, visibility)
        VALUES ($1,$2,$3,$4,$5,to_tsvector('english',$5),$6,$7)
        ON CONFLICT (entity_type, entity_id) DO UPDATE SET
            owner_id   = EXCLUDED.owner_id,
            content    = EXCLUDED.content,
            lexical    = EXCLUDED.lexical,
            url        = EXCLUDED.url,
            visibility = EXCLUDED.visibility,
            updated_at = now()
        RETURNING id, created_at, updated_at
    `, out.ID, out.EntityType, out.EntityID, out.OwnerID, out.Content, out.URL, out.Visibility)
	if err := row.Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *searchIndex) SetEmbedding(ctx context.Context, entityType, entityID string, vec []float32) error {
	if len(vec) == 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
        UPDATE search_index SET embedding=$1::vector, updated_at=now()
        WHERE entity_type=$2 AND entity_id=$3
    `, idx.VectorLiteral(vec), entityType, entityID)
	return err
}

func (s *searchIndex) Remove(ctx context.Context, entityType, entityID string) error {
	_, err := s.db.ExecContext(ctx, `
        DELETE FROM search_index WHERE entity_type=$1 AND entity_id=$2
    `, entityType, entityID)
	return err
}

func (s *searchIndex) Get(ctx context.Context, entityType, entityID string) (*model.IndexEntry, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, entity_type, entity_id, owner_id, content, coalesce(embedding::text,''), url, visibility, created_at, updated_at
        FROM search_index WHERE entity_type=$1 AND entity_id=$2
    `, entityType, entityID)
	var e model.IndexEntry
	var vecText string
	err := row.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.OwnerID, &e.Content, &vecText, &e.URL, &e.Visibility, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("index entry %s/%s: %w", entityType, entityID, model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	e.Embedding = parseVectorText(vecText)
	return &e, nil
}

// Search scores entirely in SQL: ts_rank for the lexical signal, pgvector
// cosine distance for the semantic one, combined and paginated server-side.
func (s *searchIndex) Search(ctx context.Context, req model.IndexSearchRequest) ([]model.ScoredEntry, int, error) {
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	queryPh := arg(req.Query)
	ftsExpr := "ts_rank(lexical, plainto_tsquery('english', " + queryPh + "))"
	matchExpr := "lexical @@ plainto_tsquery('english', " + queryPh + ")"

	semExpr := "0::float8"
	if len(req.QueryVec) > 0 {
		vecPh := arg(idx.VectorLiteral(req.QueryVec))
		semExpr = "CASE WHEN embedding IS NOT NULL THEN 1 - (embedding <=> " + vecPh + "::vector) ELSE 0 END"
	}

	var ftsSel, semSel, scoreExpr, candExpr string
	switch req.Mode {
	case model.ModeLexical:
		ftsSel, semSel = ftsExpr, "0::float8"
		scoreExpr = ftsExpr
		candExpr = matchExpr
	case model.ModeSemantic:
		ftsSel, semSel = "0::float8", semExpr
		scoreExpr = semExpr
		candExpr = "embedding IS NOT NULL"
	default: // hybrid
		ftsSel, semSel = ftsExpr, semExpr
		scoreExpr = fmt.Sprintf("%g*%s + %g*%s", idx.FtsWeight, ftsExpr, idx.SemanticWeight, semExpr)
		candExpr = "(" + matchExpr + " OR embedding IS NOT NULL)"
	}

	conds := []string{candExpr}

	vis := []string{"owner_id = " + arg(req.UserID), "visibility = " + arg(model.VisibilityPublic)}
	if len(req.FriendIDs) > 0 {
		phs := make([]string, len(req.FriendIDs))
		for i, f := range req.FriendIDs {
			phs[i] = arg(f)
		}
		vis = append(vis, "(owner_id IN ("+strings.Join(phs, ",")+") AND visibility IN ("+
			arg(model.VisibilityFriends)+","+arg(model.VisibilityPublic)+"))")
	}
	conds = append(conds, "("+strings.Join(vis, " OR ")+")")

	if len(req.EntityTypes) > 0 {
		phs := make([]string, len(req.EntityTypes))
		for i, t := range req.EntityTypes {
			phs[i] = arg(t)
		}
		conds = append(conds, "entity_type IN ("+strings.Join(phs, ",")+")")
	}
	if req.TagID != "" {
		conds = append(conds, "(entity_type <> "+arg(model.EntityBookmark)+
			" OR entity_id IN (SELECT bookmark_id FROM bookmark_tags WHERE tag_id = "+arg(req.TagID)+"))")
	}
	if req.URLPattern != "" {
		conds = append(conds, `url LIKE `+arg(globToLike(req.URLPattern))+` ESCAPE '\'`)
	}
	if req.Domain != "" {
		conds = append(conds, "(url LIKE "+arg("http://"+req.Domain+"%")+
			" OR url LIKE "+arg("https://"+req.Domain+"%")+
			" OR url LIKE "+arg("http://www."+req.Domain+"%")+
			" OR url LIKE "+arg("https://www."+req.Domain+"%")+")")
	}
	if req.After != nil {
		conds = append(conds, "created_at >= "+arg(req.After.UTC()))
	}
	if req.Before != nil {
		conds = append(conds, "created_at <= "+arg(req.Before.UTC()))
	}

	orderBy := "score DESC, created_at DESC"
	if req.SortBy == model.SortCreated {
		orderBy = "created_at DESC"
	}

	query := `
        SELECT id, entity_type, entity_id, owner_id, content, url, visibility, created_at, updated_at,
               ` + ftsSel + ` AS fts_score,
               ` + semSel + ` AS semantic_score,
               ` + scoreExpr + ` AS score,
               count(*) OVER () AS total
        FROM search_index
        WHERE ` + strings.Join(conds, " AND ") + `
        ORDER BY ` + orderBy + `
        LIMIT ` + arg(req.Limit) + ` OFFSET ` + arg(req.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.ScoredEntry
	var total int
	for rows.Next() {
		var se model.ScoredEntry
		if err := rows.Scan(
			&se.Entry.ID, &se.Entry.EntityType, &se.Entry.EntityID, &se.Entry.OwnerID,
			&se.Entry.Content, &se.Entry.URL, &se.Entry.Visibility,
			&se.Entry.CreatedAt, &se.Entry.UpdatedAt,
			&se.FtsScore, &se.SemanticScore, &se.Score, &total,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, se)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// parseVectorText decodes pgvector's "[x,y,...]" text form.
func parseVectorText(text string) []float32 {
	text = strings.TrimSpace(text)
	if len(text) < 2 || text[0] != '[' {
		return nil
	}
	inner := strings.Trim(text, "[]")
	if inner == "" {
		return nil
	}
	parts := strings.Split(inner, ",")
	vec := make([]float32, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil
		}
		vec = append(vec, float32(f))
	}
	return vec
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
