// Package postgres implements store.Store on PostgreSQL. Lexical ranking uses
// the built-in full-text machinery (tsvector/ts_rank); semantic ranking uses
// the pgvector extension with cosine distance.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/curiolabs/curio-server/internal/model"
	"github.com/curiolabs/curio-server/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies
// connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Bookmarks() store.Bookmarks     { return &bookmarks{db: s.db} }
func (s *pgStore) Highlights() store.Highlights   { return &highlights{db: s.db} }
func (s *pgStore) Comments() store.Comments       { return &comments{db: s.db} }
func (s *pgStore) Tags() store.Tags               { return &tags{db: s.db} }
func (s *pgStore) Friends() store.Friends         { return &friends{db: s.db} }
func (s *pgStore) SearchIndex() store.SearchIndex { return &searchIndex{db: s.db} }

// HealthPing implements health.Pinger.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// numbered renders $start..$start+n-1 placeholders.
func numbered(start, n int) string {
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = "$" + strconv.Itoa(start+i)
	}
	return strings.Join(parts, ",")
}

func idArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// --- Bookmarks ---

type bookmarks struct{ db *sql.DB }

func (r *bookmarks) Create(ctx context.Context, b *model.Bookmark) (*model.Bookmark, error) {
	out := *b
	if out.BookmarkID == "" {
		out.BookmarkID = uuid.New().String()
	}
	if out.Visibility == "" {
		out.Visibility = model.VisibilityPrivate
	}
	row := r.db.QueryRowContext(ctx, `
        INSERT INTO bookmarks (bookmark_id, user_id, url, title, description, site_name, visibility)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING created_at, updated_at
    `, out.BookmarkID, out.UserID, out.URL, out.Title, out.Description, out.SiteName, out.Visibility)
	if err := row.Scan(&out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *bookmarks) Get(ctx context.Context, bookmarkID string) (*model.Bookmark, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT bookmark_id, user_id, url, title, description, site_name, visibility, created_at, updated_at
        FROM bookmarks WHERE bookmark_id=$1
    `, bookmarkID)
	var b model.Bookmark
	err := row.Scan(&b.BookmarkID, &b.UserID, &b.URL, &b.Title, &b.Description, &b.SiteName, &b.Visibility, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bookmark: %w", model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookmarks) Update(ctx context.Context, b *model.Bookmark) (*model.Bookmark, error) {
	out := *b
	row := r.db.QueryRowContext(ctx, `
        UPDATE bookmarks SET url=$1, title=$2, description=$3, site_name=$4, visibility=$5, updated_at=now()
        WHERE bookmark_id=$6
        RETURNING updated_at
    `, out.URL, out.Title, out.Description, out.SiteName, out.Visibility, out.BookmarkID)
	err := row.Scan(&out.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bookmark %s: %w", b.BookmarkID, model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *bookmarks) Delete(ctx context.Context, bookmarkID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE bookmark_id=$1`, bookmarkID)
	return err
}

func (r *bookmarks) BatchGet(ctx context.Context, ids []string) ([]*model.Bookmark, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `
        SELECT bookmark_id, user_id, url, title, description, site_name, visibility, created_at, updated_at
        FROM bookmarks WHERE bookmark_id IN (`+numbered(1, len(ids))+`)
    `, idArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return collectBookmarks(rows)
}

func (r *bookmarks) All(ctx context.Context) ([]*model.Bookmark, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT bookmark_id, user_id, url, title, description, site_name, visibility, created_at, updated_at
        FROM bookmarks
    `)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return collectBookmarks(rows)
}

func collectBookmarks(rows *sql.Rows) ([]*model.Bookmark, error) {
	var out []*model.Bookmark
	for rows.Next() {
		var b model.Bookmark
		if err := rows.Scan(&b.BookmarkID, &b.UserID, &b.URL, &b.Title, &b.Description, &b.SiteName, &b.Visibility, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

// --- Highlights ---

type highlights struct{ db *sql.DB }

func (r *highlights) Create(ctx context.Context, h *model.Highlight) (*model.Highlight, error) {
	out := *h
	if out.HighlightID == "" {
		out.HighlightID = uuid.New().String()
	}
	if out.Visibility == "" {
		out.Visibility = model.VisibilityPrivate
	}
	row := r.db.QueryRowContext(ctx, `
        INSERT INTO highlights (highlight_id, user_id, bookmark_id, url, text, visibility)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at, updated_at
    `, out.HighlightID, out.UserID, out.BookmarkID, out.URL, out.Text, out.Visibility)
	if err := row.Scan(&out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *highlights) Get(ctx context.Context, highlightID string) (*model.Highlight, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT highlight_id, user_id, bookmark_id, url, text, visibility, created_at, updated_at
        FROM highlights WHERE highlight_id=$1
    `, highlightID)
	var h model.Highlight
	err := row.Scan(&h.HighlightID, &h.UserID, &h.BookmarkID, &h.URL, &h.Text, &h.Visibility, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("highlight: %w", model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *highlights) Update(ctx context.Context, h *model.Highlight) (*model.Highlight, error) {
	out := *h
	row := r.db.QueryRowContext(ctx, `
        UPDATE highlights SET url=$1, text=$2, visibility=$3, updated_at=now()
        WHERE highlight_id=$4
        RETURNING updated_at
    `, out.URL, out.Text, out.Visibility, out.HighlightID)
	err := row.Scan(&out.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("highlight %s: %w", h.HighlightID, model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *highlights) Delete(ctx context.Context, highlightID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM highlights WHERE highlight_id=$1`, highlightID)
	return err
}

func (r *highlights) BatchGet(ctx context.Context, ids []string) ([]*model.Highlight, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `
        SELECT highlight_id, user_id, bookmark_id, url, text, visibility, created_at, updated_at
        FROM highlights WHERE highlight_id IN (`+numbered(1, len(ids))+`)
    `, idArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return collectHighlights(rows)
}

func (r *highlights) All(ctx context.Context) ([]*model.Highlight, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT highlight_id, user_id, bookmark_id, url, text, visibility, created_at, updated_at
        FROM highlights
    `)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return collectHighlights(rows)
}

func collectHighlights(rows *sql.Rows) ([]*model.Highlight, error) {
	var out []*model.Highlight
	for rows.Next() {
		var h model.Highlight
		if err := rows.Scan(&h.HighlightID, &h.UserID, &h.BookmarkID, &h.URL, &h.Text, &h.Visibility, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &h)
	}
	return out, rows.Err()
}

// --- Comments ---

type comments struct{ db *sql.DB }

func (r *comments) Create(ctx context.Context, c *model.Comment) (*model.Comment, error) {
	out := *c
	if out.CommentID == "" {
		out.CommentID = uuid.New().String()
	}
	row := r.db.QueryRowContext(ctx, `
        INSERT INTO comments (comment_id, highlight_id, user_id, body)
        VALUES ($1,$2,$3,$4)
        RETURNING created_at, updated_at
    `, out.CommentID, out.HighlightID, out.UserID, out.Body)
	if err := row.Scan(&out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *comments) Get(ctx context.Context, commentID string) (*model.Comment, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT comment_id, highlight_id, user_id, body, created_at, updated_at
        FROM comments WHERE comment_id=$1
    `, commentID)
	var c model.Comment
	err := row.Scan(&c.CommentID, &c.HighlightID, &c.UserID, &c.Body, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("comment: %w", model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *comments) Update(ctx context.Context, c *model.Comment) (*model.Comment, error) {
	out := *c
	row := r.db.QueryRowContext(ctx, `
        UPDATE comments SET body=$1, updated_at=now() WHERE comment_id=$2
        RETURNING updated_at
    `, out.Body, out.CommentID)
	err := row.Scan(&out.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("comment %s: %w", c.CommentID, model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *comments) Delete(ctx context.Context, commentID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE comment_id=$1`, commentID)
	return err
}

func (r *comments) BatchGet(ctx context.Context, ids []string) ([]*model.Comment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `
        SELECT comment_id, highlight_id, user_id, body, created_at, updated_at
        FROM comments WHERE comment_id IN (`+numbered(1, len(ids))+`)
    `, idArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return collectComments(rows)
}

func (r *comments) ForHighlight(ctx context.Context, highlightID string) ([]*model.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT comment_id, highlight_id, user_id, body, created_at, updated_at
        FROM comments WHERE highlight_id=$1 ORDER BY created_at
    `, highlightID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return collectComments(rows)
}

func (r *comments) All(ctx context.Context) ([]*model.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT comment_id, highlight_id, user_id, body, created_at, updated_at FROM comments
    `)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return collectComments(rows)
}

func collectComments(rows *sql.Rows) ([]*model.Comment, error) {
	var out []*model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.CommentID, &c.HighlightID, &c.UserID, &c.Body, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// --- Tags ---

type tags struct{ db *sql.DB }

func (r *tags) Create(ctx context.Context, t *model.Tag) (*model.Tag, error) {
	out := *t
	if out.TagID == "" {
		out.TagID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO tags (tag_id, user_id, name) VALUES ($1,$2,$3)
    `, out.TagID, out.UserID, out.Name)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *tags) Attach(ctx context.Context, bookmarkID, tagID string) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO bookmark_tags (bookmark_id, tag_id) VALUES ($1,$2)
        ON CONFLICT DO NOTHING
    `, bookmarkID, tagID)
	return err
}

func (r *tags) Detach(ctx context.Context, bookmarkID, tagID string) error {
	_, err := r.db.ExecContext(ctx, `
        DELETE FROM bookmark_tags WHERE bookmark_id=$1 AND tag_id=$2
    `, bookmarkID, tagID)
	return err
}

func (r *tags) HasTag(ctx context.Context, bookmarkID, tagID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `
        SELECT 1 FROM bookmark_tags WHERE bookmark_id=$1 AND tag_id=$2
    `, bookmarkID, tagID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *tags) ForBookmarks(ctx context.Context, bookmarkIDs []string) (map[string][]model.Tag, error) {
	out := make(map[string][]model.Tag)
	if len(bookmarkIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.QueryContext(ctx, `
        SELECT bt.bookmark_id, t.tag_id, t.user_id, t.name
        FROM bookmark_tags bt JOIN tags t ON t.tag_id = bt.tag_id
        WHERE bt.bookmark_id IN (`+numbered(1, len(bookmarkIDs))+`)
    `, idArgs(bookmarkIDs)...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var bid string
		var t model.Tag
		if err := rows.Scan(&bid, &t.TagID, &t.UserID, &t.Name); err != nil {
			return nil, err
		}
		out[bid] = append(out[bid], t)
	}
	return out, rows.Err()
}

// --- Friends ---

type friends struct{ db *sql.DB }

func (r *friends) Add(ctx context.Context, userID, friendID string) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO friendships (user_id, friend_id) VALUES ($1,$2), ($2,$1)
        ON CONFLICT DO NOTHING
    `, userID, friendID)
	return err
}

func (r *friends) Remove(ctx context.Context, userID, friendID string) error {
	_, err := r.db.ExecContext(ctx, `
        DELETE FROM friendships
        WHERE (user_id=$1 AND friend_id=$2) OR (user_id=$2 AND friend_id=$1)
    `, userID, friendID)
	return err
}

func (r *friends) ListIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT friend_id FROM friendships WHERE user_id=$1
    `, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
