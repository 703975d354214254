// Package store is a local SQLite mirror of the blog dataset. It answers the
// same reads as the remote content store, for offline development and as a
// fallback copy.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/famedia/site/blog"
)

// Store wraps a SQLite database holding mirrored posts.
type Store struct {
	db *sql.DB
}

var _ blog.Repository = (*Store)(nil)

// New opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func New(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the server read while a sync writes; busy_timeout makes the
	// writer wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    slug TEXT PRIMARY KEY,
    id TEXT NOT NULL,
    title TEXT NOT NULL,
    category TEXT NOT NULL,
    title_image TEXT NOT NULL DEFAULT '',
    excerpt TEXT NOT NULL DEFAULT '',
    read_time INTEGER NOT NULL DEFAULT 0,
    author TEXT NOT NULL DEFAULT '',
    author_role TEXT NOT NULL DEFAULT '',
    topics TEXT NOT NULL DEFAULT '[]',
    content TEXT NOT NULL DEFAULT '[]',
    created_at INTEGER NOT NULL -- unix milliseconds
);
CREATE INDEX IF NOT EXISTS posts_created_at ON posts (created_at DESC);
`)
	return err
}

const summaryColumns = `id, slug, title, category, title_image, excerpt, read_time, author, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner, extra ...any) (blog.PostSummary, error) {
	var p blog.PostSummary
	var created int64
	dest := append([]any{&p.ID, &p.Slug, &p.Title, &p.Category, &p.TitleImage, &p.Excerpt, &p.ReadTime, &p.Author, &created}, extra...)
	if err := row.Scan(dest...); err != nil {
		return blog.PostSummary{}, err
	}
	p.CreatedAt = time.UnixMilli(created).UTC()
	return p, nil
}

// ListPosts returns posts passing f ordered by creation time descending.
// Search is a case-sensitive substring match on title or excerpt.
func (s *Store) ListPosts(ctx context.Context, f blog.Filter) ([]blog.PostSummary, error) {
	category := f.Category
	if category == "" {
		category = blog.AllCategories
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+summaryColumns+` FROM posts
WHERE (?1 = 'all' OR category = ?1)
  AND (?2 = '' OR instr(title, ?2) > 0 OR instr(excerpt, ?2) > 0)
ORDER BY created_at DESC`, category, f.Search)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var posts []blog.PostSummary
	for rows.Next() {
		p, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// FeaturedPost returns the newest post, or nil when the mirror is empty.
func (s *Store) FeaturedPost(ctx context.Context) (*blog.PostSummary, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+summaryColumns+` FROM posts ORDER BY created_at DESC LIMIT 1`)
	p, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query featured post: %w", err)
	}
	return &p, nil
}

// Categories returns the sorted distinct category labels.
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT category FROM posts ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// PostMeta returns the head-tag projection of slug, or nil.
func (s *Store) PostMeta(ctx context.Context, slug string) (*blog.PostMeta, error) {
	var m blog.PostMeta
	err := s.db.QueryRowContext(ctx, `SELECT title, excerpt, slug, title_image FROM posts WHERE slug = ?`, slug).
		Scan(&m.Title, &m.Excerpt, &m.Slug, &m.Image)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query post meta: %w", err)
	}
	return &m, nil
}

// PostDetail returns the full post for slug, or nil.
func (s *Store) PostDetail(ctx context.Context, slug string) (*blog.PostDetail, error) {
	var role, topics, content string
	row := s.db.QueryRowContext(ctx, `SELECT `+summaryColumns+`, author_role, topics, content FROM posts WHERE slug = ?`, slug)
	summary, err := scanSummary(row, &role, &topics, &content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query post detail: %w", err)
	}
	d := &blog.PostDetail{PostSummary: summary, AuthorRole: role}
	if err := json.Unmarshal([]byte(topics), &d.Topics); err != nil {
		return nil, fmt.Errorf("decode topics of %q: %w", slug, err)
	}
	if err := json.Unmarshal([]byte(content), &d.Content); err != nil {
		return nil, fmt.Errorf("decode content of %q: %w", slug, err)
	}
	return d, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SavePost upserts p keyed by slug.
func (s *Store) SavePost(ctx context.Context, p blog.PostDetail) error {
	return savePost(ctx, s.db, p)
}

func savePost(ctx context.Context, db execer, p blog.PostDetail) error {
	if p.Slug == "" {
		return fmt.Errorf("save post %q: empty slug", p.ID)
	}
	topics := p.Topics
	if topics == nil {
		topics = []string{}
	}
	topicsJSON, err := json.Marshal(topics)
	if err != nil {
		return err
	}
	blocks := p.Content
	if blocks == nil {
		blocks = []blog.Block{}
	}
	contentJSON, err := json.Marshal(blocks)
	if err != nil {
		return fmt.Errorf("encode content of %q: %w", p.Slug, err)
	}
	_, err = db.ExecContext(ctx, `INSERT OR REPLACE INTO posts
(slug, id, title, category, title_image, excerpt, read_time, author, author_role, topics, content, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Slug, p.ID, p.Title, p.Category, p.TitleImage, p.Excerpt, p.ReadTime, p.Author, p.AuthorRole,
		string(topicsJSON), string(contentJSON), p.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("save post %q: %w", p.Slug, err)
	}
	return nil
}

// ReplaceAll swaps the mirror contents for posts in one transaction.
func (s *Store) ReplaceAll(ctx context.Context, posts []blog.PostDetail) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM posts`); err != nil {
		return fmt.Errorf("clear posts: %w", err)
	}
	for _, p := range posts {
		if err := savePost(ctx, tx, p); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeletePost removes a post by slug. It returns blog.ErrNotFound when no
// post has that slug.
func (s *Store) DeletePost(ctx context.Context, slug string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE slug = ?`, slug)
	if err != nil {
		return fmt.Errorf("store: delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete post: %w", err)
	}
	if n == 0 {
		return blog.ErrNotFound
	}
	return nil
}
