package marketdesk

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/eringen/marketdesk/model"
)

// accountRow is the persisted form of an account. The queryable columns are
// duplicated out of the JSON profile document.
type accountRow struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Industry  string `gorm:"not null;default:''"`
	Profile   string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (accountRow) TableName() string { return "accounts" }

func toAccountRow(a model.Account) (accountRow, error) {
	profile, err := json.Marshal(a)
	if err != nil {
		return accountRow{}, fmt.Errorf("encode account profile: %w", err)
	}
	return accountRow{
		ID:        a.ID,
		Name:      a.Name,
		Industry:  a.Industry,
		Profile:   string(profile),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}, nil
}

func (r accountRow) account() (model.Account, error) {
	var a model.Account
	if r.Profile != "" {
		if err := json.Unmarshal([]byte(r.Profile), &a); err != nil {
			return model.Account{}, fmt.Errorf("decode account %s: %w", r.ID, err)
		}
	}
	a.ID = r.ID
	a.Name = r.Name
	a.Industry = r.Industry
	a.CreatedAt = r.CreatedAt
	a.UpdatedAt = r.UpdatedAt
	model.NormalizeAccount(&a)
	return a, nil
}

type postRow struct {
	ID          string `gorm:"primaryKey"`
	AccountID   string `gorm:"index;not null"`
	Content     string `gorm:"type:text"`
	Hashtags    string `gorm:"type:text"`
	ImageURL    string
	VideoURL    string
	ImagePrompt string `gorm:"type:text"`
	MediaType   string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (postRow) TableName() string { return "posts" }

func toPostRow(p model.Post) postRow {
	return postRow{
		ID:          p.ID,
		AccountID:   p.AccountID,
		Content:     p.Content,
		Hashtags:    encodeList(p.Hashtags),
		ImageURL:    p.ImageURL,
		VideoURL:    p.VideoURL,
		ImagePrompt: p.ImagePrompt,
		MediaType:   string(p.MediaType),
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r postRow) post() model.Post {
	return model.Post{
		ID:          r.ID,
		AccountID:   r.AccountID,
		Content:     r.Content,
		Hashtags:    decodeList(r.Hashtags),
		ImageURL:    r.ImageURL,
		VideoURL:    r.VideoURL,
		ImagePrompt: r.ImagePrompt,
		MediaType:   model.MediaType(r.MediaType),
		Status:      model.Status(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type blogRow struct {
	ID                string `gorm:"primaryKey"`
	AccountID         string `gorm:"index;not null"`
	Title             string
	Slug              string
	Content           string `gorm:"type:text"`
	MetaTitle         string
	MetaDescription   string `gorm:"type:text"`
	TargetKeyword     string
	SecondaryKeywords string `gorm:"type:text"`
	WordCount         int
	Status            string
	PublishedAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (blogRow) TableName() string { return "blogs" }

func toBlogRow(b model.Blog) blogRow {
	return blogRow{
		ID:                b.ID,
		AccountID:         b.AccountID,
		Title:             b.Title,
		Slug:              b.Slug,
		Content:           b.Content,
		MetaTitle:         b.MetaTitle,
		MetaDescription:   b.MetaDescription,
		TargetKeyword:     b.TargetKeyword,
		SecondaryKeywords: encodeList(b.SecondaryKeywords),
		WordCount:         model.CountWords(b.Content),
		Status:            string(b.Status),
		PublishedAt:       b.PublishedAt,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}

func (r blogRow) blog() model.Blog {
	return model.Blog{
		ID:                r.ID,
		AccountID:         r.AccountID,
		Title:             r.Title,
		Slug:              r.Slug,
		Content:           r.Content,
		MetaTitle:         r.MetaTitle,
		MetaDescription:   r.MetaDescription,
		TargetKeyword:     r.TargetKeyword,
		SecondaryKeywords: decodeList(r.SecondaryKeywords),
		WordCount:         r.WordCount,
		Status:            model.Status(r.Status),
		PublishedAt:       r.PublishedAt,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func encodeList(vals []string) string {
	if vals == nil {
		vals = []string{}
	}
	b, _ := json.Marshal(vals)
	return string(b)
}

func decodeList(s string) []string {
	out := []string{}
	if s == "" {
		return out
	}
	_ = json.Unmarshal([]byte(s), &out)
	return out
}
