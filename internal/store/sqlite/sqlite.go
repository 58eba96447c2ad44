// Package sqlite implements store.Store on modernc.org/sqlite. Lexical and
// vector scoring happen in Go over the filtered candidate set, which keeps
// this backend dependency-free and suitable for local mode and tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/curiolabs/curio-server/internal/model"
	"github.com/curiolabs/curio-server/internal/store"
)

// NewWithDB constructs a sqlite-backed store over an open connection. The
// schema must already exist (see EnsureSchema).
func NewWithDB(db *sql.DB) store.Store { return &sqlStore{db: db} }

type sqlStore struct{ db *sql.DB }

func (s *sqlStore) Bookmarks() store.Bookmarks     { return &bookmarks{db: s.db} }
func (s *sqlStore) Highlights() store.Highlights   { return &highlights{db: s.db} }
func (s *sqlStore) Comments() store.Comments       { return &comments{db: s.db} }
func (s *sqlStore) Tags() store.Tags               { return &tags{db: s.db} }
func (s *sqlStore) Friends() store.Friends         { return &friends{db: s.db} }
func (s *sqlStore) SearchIndex() store.SearchIndex { return &searchIndex{db: s.db} }

// HealthPing implements health.Pinger.
func (s *sqlStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
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
	now := time.Now().UTC()
	out.CreatedAt, out.UpdatedAt = now, now
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO bookmarks (bookmark_id, user_id, url, title, description, site_name, visibility, created_at, updated_at)
        VALUES (?,?,?,?,?,?,?,?,?)
    `, out.BookmarkID, out.UserID, out.URL, out.Title, out.Description, out.SiteName, out.Visibility, out.CreatedAt, out.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *bookmarks) Get(ctx context.Context, bookmarkID string) (*model.Bookmark, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT bookmark_id, user_id, url, title, description, site_name, visibility, created_at, updated_at
        FROM bookmarks WHERE bookmark_id = ?
    `, bookmarkID)
	return scanBookmark(row)
}

func (r *bookmarks) Update(ctx context.Context, b *model.Bookmark) (*model.Bookmark, error) {
	out := *b
	out.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
        UPDATE bookmarks SET url=?, title=?, description=?, site_name=?, visibility=?, updated_at=?
        WHERE bookmark_id=?
    `, out.URL, out.Title, out.Description, out.SiteName, out.Visibility, out.UpdatedAt, out.BookmarkID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("bookmark %s: %w", b.BookmarkID, model.ErrNotFound)
	}
	return &out, nil
}

func (r *bookmarks) Delete(ctx context.Context, bookmarkID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE bookmark_id=?`, bookmarkID)
	return err
}

func (r *bookmarks) BatchGet(ctx context.Context, ids []string) ([]*model.Bookmark, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `
        SELECT bookmark_id, user_id, url, title, description, site_name, visibility, created_at, updated_at
        FROM bookmarks WHERE bookmark_id IN (`+placeholders(len(ids))+`)
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

func scanBookmark(row *sql.Row) (*model.Bookmark, error) {
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
	now := time.Now().UTC()
	out.CreatedAt, out.UpdatedAt = now, now
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO highlights (highlight_id, user_id, bookmark_id, url, text, visibility, created_at, updated_at)
        VALUES (?,?,?,?,?,?,?,?)
    `, out.HighlightID, out.UserID, out.BookmarkID, out.URL, out.Text, out.Visibility, out.CreatedAt, out.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *highlights) Get(ctx context.Context, highlightID string) (*model.Highlight, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT highlight_id, user_id, bookmark_id, url, text, visibility, created_at, updated_at
        FROM highlights WHERE highlight_id = ?
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
	out.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
        UPDATE highlights SET url=?, text=?, visibility=?, updated_at=? WHERE highlight_id=?
    `, out.URL, out.Text, out.Visibility, out.UpdatedAt, out.HighlightID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("highlight %s: %w", h.HighlightID, model.ErrNotFound)
	}
	return &out, nil
}

func (r *highlights) Delete(ctx context.Context, highlightID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM highlights WHERE highlight_id=?`, highlightID)
	return err
}

func (r *highlights) BatchGet(ctx context.Context, ids []string) ([]*model.Highlight, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `
        SELECT highlight_id, user_id, bookmark_id, url, text, visibility, created_at, updated_at
        FROM highlights WHERE highlight_id IN (`+placeholders(len(ids))+`)
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
	now := time.Now().UTC()
	out.CreatedAt, out.UpdatedAt = now, now
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO comments (comment_id, highlight_id, user_id, body, created_at, updated_at)
        VALUES (?,?,?,?,?,?)
    `, out.CommentID, out.HighlightID, out.UserID, out.Body, out.CreatedAt, out.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *comments) Get(ctx context.Context, commentID string) (*model.Comment, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT comment_id, highlight_id, user_id, body, created_at, updated_at
        FROM comments WHERE comment_id = ?
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
	out.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
        UPDATE comments SET body=?, updated_at=? WHERE comment_id=?
    `, out.Body, out.UpdatedAt, out.CommentID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("comment %s: %w", c.CommentID, model.ErrNotFound)
	}
	return &out, nil
}

func (r *comments) Delete(ctx context.Context, commentID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE comment_id=?`, commentID)
	return err
}

func (r *comments) BatchGet(ctx context.Context, ids []string) ([]*model.Comment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `
        SELECT comment_id, highlight_id, user_id, body, created_at, updated_at
        FROM comments WHERE comment_id IN (`+placeholders(len(ids))+`)
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
        FROM comments WHERE highlight_id=? ORDER BY created_at
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
        INSERT INTO tags (tag_id, user_id, name) VALUES (?,?,?)
    `, out.TagID, out.UserID, out.Name)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *tags) Attach(ctx context.Context, bookmarkID, tagID string) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO bookmark_tags (bookmark_id, tag_id) VALUES (?,?)
    `, bookmarkID, tagID)
	return err
}

func (r *tags) Detach(ctx context.Context, bookmarkID, tagID string) error {
	_, err := r.db.ExecContext(ctx, `
        DELETE FROM bookmark_tags WHERE bookmark_id=? AND tag_id=?
    `, bookmarkID, tagID)
	return err
}

func (r *tags) HasTag(ctx context.Context, bookmarkID, tagID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `
        SELECT 1 FROM bookmark_tags WHERE bookmark_id=? AND tag_id=?
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
        WHERE bt.bookmark_id IN (`+placeholders(len(bookmarkIDs))+`)
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
	// Symmetric edge: stored in both directions.
	_, err := r.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO friendships (user_id, friend_id) VALUES (?,?), (?,?)
    `, userID, friendID, friendID, userID)
	return err
}

func (r *friends) Remove(ctx context.Context, userID, friendID string) error {
	_, err := r.db.ExecContext(ctx, `
        DELETE FROM friendships
        WHERE (user_id=? AND friend_id=?) OR (user_id=? AND friend_id=?)
    `, userID, friendID, friendID, userID)
	return err
}

func (r *friends) ListIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT friend_id FROM friendships WHERE user_id=?
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
