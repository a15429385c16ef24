package marketdesk

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/eringen/marketdesk/model"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("marketdesk: not found")
	// ErrNotConfigured is returned when the backing table is missing.
	ErrNotConfigured = errors.New("marketdesk: database not configured")
)

// Store persists accounts and their generated content.
type Store interface {
	ListAccounts(ctx context.Context) ([]model.Account, error)
	GetAccount(ctx context.Context, id string) (model.Account, error)
	CreateAccount(ctx context.Context, a *model.Account) error
	UpdateAccount(ctx context.Context, a *model.Account) error
	DeleteAccount(ctx context.Context, id string) error

	ListPosts(ctx context.Context, accountID string) ([]model.Post, error)
	GetPost(ctx context.Context, id string) (model.Post, error)
	CreatePost(ctx context.Context, p *model.Post) error
	UpdatePost(ctx context.Context, p *model.Post) error
	DeletePost(ctx context.Context, id string) error
	DeletePostsByAccount(ctx context.Context, accountID string) error

	ListBlogs(ctx context.Context, accountID string) ([]model.Blog, error)
	GetBlog(ctx context.Context, id string) (model.Blog, error)
	CreateBlog(ctx context.Context, b *model.Blog) error
	UpdateBlog(ctx context.Context, b *model.Blog) error
	DeleteBlog(ctx context.Context, id string) error
	DeleteBlogsByAccount(ctx context.Context, accountID string) error

	Close() error
}

// isMissingTable recognizes the sqlite and postgres errors for an absent table.
func isMissingTable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no such table") ||
		(strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist")) ||
		strings.Contains(msg, "sqlstate 42p01")
}

func storeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case isMissingTable(err):
		return ErrNotConfigured
	}
	return err
}

// stamp fills the id and timestamps of a new row.
func stamp(id *string, created, updated *time.Time, now time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

// SQLStore is a Store over an SQLite database.
type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewSQLStore(path string) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers proceed during writes; busy_timeout makes writers wait
	// instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &SQLStore{db: db, now: func() time.Time { return time.Now().UTC() }}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS accounts (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    industry TEXT NOT NULL DEFAULT '',
    profile TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS posts (
    id TEXT PRIMARY KEY,
    account_id TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    hashtags TEXT NOT NULL DEFAULT '[]',
    image_url TEXT NOT NULL DEFAULT '',
    video_url TEXT NOT NULL DEFAULT '',
    image_prompt TEXT NOT NULL DEFAULT '',
    media_type TEXT NOT NULL DEFAULT 'image',
    status TEXT NOT NULL DEFAULT 'draft',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS posts_account_idx ON posts (account_id, created_at);
CREATE TABLE IF NOT EXISTS blogs (
    id TEXT PRIMARY KEY,
    account_id TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    slug TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL DEFAULT '',
    meta_title TEXT NOT NULL DEFAULT '',
    meta_description TEXT NOT NULL DEFAULT '',
    target_keyword TEXT NOT NULL DEFAULT '',
    secondary_keywords TEXT NOT NULL DEFAULT '[]',
    word_count INTEGER NOT NULL DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'draft',
    published_at TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS blogs_account_idx ON blogs (account_id, created_at);
`)
	return err
}

// timeLayout has fixed-width fractions so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

type scanner interface {
	Scan(dest ...any) error
}

const accountColumns = `id, name, industry, profile, created_at, updated_at`

func scanAccount(sc scanner) (model.Account, error) {
	var (
		r                accountRow
		created, updated string
	)
	if err := sc.Scan(&r.ID, &r.Name, &r.Industry, &r.Profile, &created, &updated); err != nil {
		return model.Account{}, err
	}
	r.CreatedAt, r.UpdatedAt = parseTime(created), parseTime(updated)
	return r.account()
}

// ListAccounts returns every account, newest first.
func (s *SQLStore) ListAccounts(ctx context.Context) ([]model.Account, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY created_at DESC`)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	accounts := []model.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// GetAccount returns a normalized account by id.
func (s *SQLStore) GetAccount(ctx context.Context, id string) (model.Account, error) {
	a, err := scanAccount(s.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id))
	return a, storeErr(err)
}

// CreateAccount inserts a, assigning an id and timestamps when unset.
func (s *SQLStore) CreateAccount(ctx context.Context, a *model.Account) error {
	stamp(&a.ID, &a.CreatedAt, &a.UpdatedAt, s.now())
	model.NormalizeAccount(a)
	r, err := toAccountRow(*a)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO accounts (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Name, r.Industry, r.Profile, formatTime(r.CreatedAt), formatTime(r.UpdatedAt))
	return storeErr(err)
}

// UpdateAccount replaces the stored account with a.
func (s *SQLStore) UpdateAccount(ctx context.Context, a *model.Account) error {
	a.UpdatedAt = s.now()
	model.NormalizeAccount(a)
	r, err := toAccountRow(*a)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE accounts SET name = ?, industry = ?, profile = ?, updated_at = ? WHERE id = ?`,
		r.Name, r.Industry, r.Profile, formatTime(r.UpdatedAt), r.ID)
	return affected(res, err)
}

// DeleteAccount removes the account row only. Children are deleted separately.
func (s *SQLStore) DeleteAccount(ctx context.Context, id string) error {
	return affected(s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id))
}

func affected(res sql.Result, err error) error {
	if err != nil {
		return storeErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

const postColumns = `id, account_id, content, hashtags, image_url, video_url, image_prompt, media_type, status, created_at, updated_at`

func scanPost(sc scanner) (model.Post, error) {
	var (
		r                postRow
		created, updated string
	)
	err := sc.Scan(&r.ID, &r.AccountID, &r.Content, &r.Hashtags, &r.ImageURL, &r.VideoURL,
		&r.ImagePrompt, &r.MediaType, &r.Status, &created, &updated)
	if err != nil {
		return model.Post{}, err
	}
	r.CreatedAt, r.UpdatedAt = parseTime(created), parseTime(updated)
	return r.post(), nil
}

// ListPosts returns an account's posts, newest first.
func (s *SQLStore) ListPosts(ctx context.Context, accountID string) ([]model.Post, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+postColumns+` FROM posts WHERE account_id = ? ORDER BY created_at DESC`, accountID)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// GetPost returns a post by id.
func (s *SQLStore) GetPost(ctx context.Context, id string) (model.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id))
	return p, storeErr(err)
}

// CreatePost inserts p, assigning an id and timestamps when unset.
func (s *SQLStore) CreatePost(ctx context.Context, p *model.Post) error {
	stamp(&p.ID, &p.CreatedAt, &p.UpdatedAt, s.now())
	if p.Status == "" {
		p.Status = model.StatusDraft
	}
	r := toPostRow(*p)
	_, err := s.db.ExecContext(ctx, `INSERT INTO posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.AccountID, r.Content, r.Hashtags, r.ImageURL, r.VideoURL, r.ImagePrompt,
		r.MediaType, r.Status, formatTime(r.CreatedAt), formatTime(r.UpdatedAt))
	return storeErr(err)
}

// UpdatePost saves the editable fields of p.
func (s *SQLStore) UpdatePost(ctx context.Context, p *model.Post) error {
	p.UpdatedAt = s.now()
	r := toPostRow(*p)
	return affected(s.db.ExecContext(ctx, `UPDATE posts SET content = ?, hashtags = ?, image_url = ?, video_url = ?, status = ?, updated_at = ? WHERE id = ?`,
		r.Content, r.Hashtags, r.ImageURL, r.VideoURL, r.Status, formatTime(r.UpdatedAt), r.ID))
}

// DeletePost removes a post by id.
func (s *SQLStore) DeletePost(ctx context.Context, id string) error {
	return affected(s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id))
}

// DeletePostsByAccount removes every post of an account.
func (s *SQLStore) DeletePostsByAccount(ctx context.Context, accountID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE account_id = ?`, accountID)
	return storeErr(err)
}

const blogColumns = `id, account_id, title, slug, content, meta_title, meta_description, target_keyword, secondary_keywords, word_count, status, published_at, created_at, updated_at`

func scanBlog(sc scanner) (model.Blog, error) {
	var (
		r                blogRow
		published        sql.NullString
		created, updated string
	)
	err := sc.Scan(&r.ID, &r.AccountID, &r.Title, &r.Slug, &r.Content, &r.MetaTitle, &r.MetaDescription,
		&r.TargetKeyword, &r.SecondaryKeywords, &r.WordCount, &r.Status, &published, &created, &updated)
	if err != nil {
		return model.Blog{}, err
	}
	if published.Valid && published.String != "" {
		t := parseTime(published.String)
		r.PublishedAt = &t
	}
	r.CreatedAt, r.UpdatedAt = parseTime(created), parseTime(updated)
	return r.blog(), nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

// ListBlogs returns an account's blogs, newest first.
func (s *SQLStore) ListBlogs(ctx context.Context, accountID string) ([]model.Blog, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+blogColumns+` FROM blogs WHERE account_id = ? ORDER BY created_at DESC`, accountID)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	blogs := []model.Blog{}
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, b)
	}
	return blogs, rows.Err()
}

// GetBlog returns a blog by id.
func (s *SQLStore) GetBlog(ctx context.Context, id string) (model.Blog, error) {
	b, err := scanBlog(s.db.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blogs WHERE id = ?`, id))
	return b, storeErr(err)
}

// CreateBlog inserts b. The word count is recomputed from the content.
func (s *SQLStore) CreateBlog(ctx context.Context, b *model.Blog) error {
	stamp(&b.ID, &b.CreatedAt, &b.UpdatedAt, s.now())
	if b.Status == "" {
		b.Status = model.StatusDraft
	}
	b.WordCount = model.CountWords(b.Content)
	r := toBlogRow(*b)
	_, err := s.db.ExecContext(ctx, `INSERT INTO blogs (`+blogColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.AccountID, r.Title, r.Slug, r.Content, r.MetaTitle, r.MetaDescription, r.TargetKeyword,
		r.SecondaryKeywords, r.WordCount, r.Status, nullTime(r.PublishedAt), formatTime(r.CreatedAt), formatTime(r.UpdatedAt))
	return storeErr(err)
}

// UpdateBlog saves the editable fields of b. The word count is recomputed.
func (s *SQLStore) UpdateBlog(ctx context.Context, b *model.Blog) error {
	b.UpdatedAt = s.now()
	b.WordCount = model.CountWords(b.Content)
	r := toBlogRow(*b)
	return affected(s.db.ExecContext(ctx, `UPDATE blogs SET title = ?, slug = ?, content = ?, meta_title = ?, meta_description = ?,
		target_keyword = ?, secondary_keywords = ?, word_count = ?, status = ?, published_at = ?, updated_at = ? WHERE id = ?`,
		r.Title, r.Slug, r.Content, r.MetaTitle, r.MetaDescription, r.TargetKeyword, r.SecondaryKeywords,
		r.WordCount, r.Status, nullTime(r.PublishedAt), formatTime(r.UpdatedAt), r.ID))
}

// DeleteBlog removes a blog by id.
func (s *SQLStore) DeleteBlog(ctx context.Context, id string) error {
	return affected(s.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = ?`, id))
}

// DeleteBlogsByAccount removes every blog of an account.
func (s *SQLStore) DeleteBlogsByAccount(ctx context.Context, accountID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM blogs WHERE account_id = ?`, accountID)
	return storeErr(err)
}
