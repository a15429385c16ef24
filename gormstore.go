package marketdesk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/eringen/marketdesk/model"
)

// GormStore is a Store over PostgreSQL through gorm.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStore connects to the postgres DSN and migrates the schema.
func NewGormStore(dsn string, log *zap.Logger) (*GormStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	gormLog := logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt: false,
		Logger:      gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return newGormStore(db)
}

func newGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&accountRow{}, &postRow{}, &blogRow{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &GormStore{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Close closes the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func gormErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return storeErr(err)
}

func gormAffected(tx *gorm.DB) error {
	if tx.Error != nil {
		return gormErr(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) ListAccounts(ctx context.Context) ([]model.Account, error) {
	var rows []accountRow
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, gormErr(err)
	}
	accounts := make([]model.Account, 0, len(rows))
	for _, r := range rows {
		a, err := r.account()
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}

func (s *GormStore) GetAccount(ctx context.Context, id string) (model.Account, error) {
	var r accountRow
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return model.Account{}, gormErr(err)
	}
	return r.account()
}

func (s *GormStore) CreateAccount(ctx context.Context, a *model.Account) error {
	stamp(&a.ID, &a.CreatedAt, &a.UpdatedAt, s.now())
	model.NormalizeAccount(a)
	r, err := toAccountRow(*a)
	if err != nil {
		return err
	}
	return gormErr(s.db.WithContext(ctx).Create(&r).Error)
}

func (s *GormStore) UpdateAccount(ctx context.Context, a *model.Account) error {
	a.UpdatedAt = s.now()
	model.NormalizeAccount(a)
	r, err := toAccountRow(*a)
	if err != nil {
		return err
	}
	return gormAffected(s.db.WithContext(ctx).Model(&accountRow{}).Where("id = ?", r.ID).Updates(map[string]any{
		"name":       r.Name,
		"industry":   r.Industry,
		"profile":    r.Profile,
		"updated_at": r.UpdatedAt,
	}))
}

func (s *GormStore) DeleteAccount(ctx context.Context, id string) error {
	return gormAffected(s.db.WithContext(ctx).Delete(&accountRow{}, "id = ?", id))
}

func (s *GormStore) ListPosts(ctx context.Context, accountID string) ([]model.Post, error) {
	var rows []postRow
	if err := s.db.WithContext(ctx).Where("account_id = ?", accountID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, gormErr(err)
	}
	posts := make([]model.Post, 0, len(rows))
	for _, r := range rows {
		posts = append(posts, r.post())
	}
	return posts, nil
}

func (s *GormStore) GetPost(ctx context.Context, id string) (model.Post, error) {
	var r postRow
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return model.Post{}, gormErr(err)
	}
	return r.post(), nil
}

func (s *GormStore) CreatePost(ctx context.Context, p *model.Post) error {
	stamp(&p.ID, &p.CreatedAt, &p.UpdatedAt, s.now())
	if p.Status == "" {
		p.Status = model.StatusDraft
	}
	r := toPostRow(*p)
	return gormErr(s.db.WithContext(ctx).Create(&r).Error)
}

func (s *GormStore) UpdatePost(ctx context.Context, p *model.Post) error {
	p.UpdatedAt = s.now()
	r := toPostRow(*p)
	return gormAffected(s.db.WithContext(ctx).Model(&postRow{}).Where("id = ?", r.ID).Updates(map[string]any{
		"content":    r.Content,
		"hashtags":   r.Hashtags,
		"image_url":  r.ImageURL,
		"video_url":  r.VideoURL,
		"status":     r.Status,
		"updated_at": r.UpdatedAt,
	}))
}

func (s *GormStore) DeletePost(ctx context.Context, id string) error {
	return gormAffected(s.db.WithContext(ctx).Delete(&postRow{}, "id = ?", id))
}

func (s *GormStore) DeletePostsByAccount(ctx context.Context, accountID string) error {
	return gormErr(s.db.WithContext(ctx).Where("account_id = ?", accountID).Delete(&postRow{}).Error)
}

func (s *GormStore) ListBlogs(ctx context.Context, accountID string) ([]model.Blog, error) {
	var rows []blogRow
	if err := s.db.WithContext(ctx).Where("account_id = ?", accountID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, gormErr(err)
	}
	blogs := make([]model.Blog, 0, len(rows))
	for _, r := range rows {
		blogs = append(blogs, r.blog())
	}
	return blogs, nil
}

func (s *GormStore) GetBlog(ctx context.Context, id string) (model.Blog, error) {
	var r blogRow
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return model.Blog{}, gormErr(err)
	}
	return r.blog(), nil
}

func (s *GormStore) CreateBlog(ctx context.Context, b *model.Blog) error {
	stamp(&b.ID, &b.CreatedAt, &b.UpdatedAt, s.now())
	if b.Status == "" {
		b.Status = model.StatusDraft
	}
	b.WordCount = model.CountWords(b.Content)
	r := toBlogRow(*b)
	return gormErr(s.db.WithContext(ctx).Create(&r).Error)
}

func (s *GormStore) UpdateBlog(ctx context.Context, b *model.Blog) error {
	b.UpdatedAt = s.now()
	b.WordCount = model.CountWords(b.Content)
	r := toBlogRow(*b)
	return gormAffected(s.db.WithContext(ctx).Model(&blogRow{}).Where("id = ?", r.ID).Updates(map[string]any{
		"title":              r.Title,
		"slug":               r.Slug,
		"content":            r.Content,
		"meta_title":         r.MetaTitle,
		"meta_description":   r.MetaDescription,
		"target_keyword":     r.TargetKeyword,
		"secondary_keywords": r.SecondaryKeywords,
		"word_count":         r.WordCount,
		"status":             r.Status,
		"published_at":       r.PublishedAt,
		"updated_at":         r.UpdatedAt,
	}))
}

func (s *GormStore) DeleteBlog(ctx context.Context, id string) error {
	return gormAffected(s.db.WithContext(ctx).Delete(&blogRow{}, "id = ?", id))
}

func (s *GormStore) DeleteBlogsByAccount(ctx context.Context, accountID string) error {
	return gormErr(s.db.WithContext(ctx).Where("account_id = ?", accountID).Delete(&blogRow{}).Error)
}
