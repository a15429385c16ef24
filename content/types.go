// Package content generates social posts, SEO blogs and keyword reports for an
// account, falling back to deterministic templates whenever the text provider
// is missing, fails or answers with something unusable.
package content

import (
	"context"

	v "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/eringen/marketdesk/media"
	"github.com/eringen/marketdesk/model"
	"github.com/eringen/marketdesk/outcome"
)

// MaxBatch is the largest number of items one request may generate.
const MaxBatch = 10

// TrendingTopic steers a post toward a current theme.
type TrendingTopic struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Hashtags    []string `json:"hashtags"`
}

// PostRequest is the body of a generate-posts call.
type PostRequest struct {
	Count         int            `json:"count"`
	MediaType     string         `json:"media_type"`
	AspectRatio   string         `json:"aspect_ratio"`
	CustomPrompt  string         `json:"custom_prompt"`
	TrendingTopic *TrendingTopic `json:"trending_topic"`
}

func (r *PostRequest) setDefaults() {
	if r.Count == 0 {
		r.Count = 1
	}
	if r.MediaType == "" {
		r.MediaType = string(model.MediaImage)
	}
	if r.AspectRatio == "" {
		r.AspectRatio = string(media.Square)
	}
}

// Validate checks the request after defaults have been applied.
func (r PostRequest) Validate() error {
	r.setDefaults()
	return v.ValidateStruct(&r,
		v.Field(&r.Count, v.Min(1), v.Max(MaxBatch)),
		v.Field(&r.MediaType, v.In(string(model.MediaImage), string(model.MediaVideo))),
		v.Field(&r.AspectRatio, v.In(string(media.Square), string(media.Horizontal), string(media.Vertical))),
	)
}

// BlogRequest is the body of a generate-blogs call.
type BlogRequest struct {
	Count          int                    `json:"count"`
	TargetKeywords []string               `json:"target_keywords"`
	KeywordData    *model.KeywordAnalysis `json:"keyword_data"`
}

func (r *BlogRequest) setDefaults() {
	if r.Count == 0 {
		r.Count = 2
	}
}

// Validate checks the request after defaults have been applied.
func (r BlogRequest) Validate() error {
	r.setDefaults()
	return v.ValidateStruct(&r,
		v.Field(&r.Count, v.Min(1), v.Max(MaxBatch)),
	)
}

// keyword picks the target keyword for blog i.
func (r BlogRequest) keyword(i int, industry string) string {
	if i < len(r.TargetKeywords) && r.TargetKeywords[i] != "" {
		return r.TargetKeywords[i]
	}
	if r.KeywordData != nil && i < len(r.KeywordData.Opportunities) && r.KeywordData.Opportunities[i].Keyword != "" {
		return r.KeywordData.Opportunities[i].Keyword
	}
	return or(industry, "business") + " best practices"
}

// ItemError records why one batch item produced nothing.
type ItemError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// Batch is the outcome of a generation run. Items holds everything that was
// produced, persisted or not.
type Batch[T any] struct {
	Items    []T
	Failures []ItemError
}

// Store is the persistence the generator needs.
type Store interface {
	ListPosts(ctx context.Context, accountID string) ([]model.Post, error)
	CreatePost(ctx context.Context, p *model.Post) error
	CreateBlog(ctx context.Context, b *model.Blog) error
}

// MediaSource produces a resolvable media URL for a prompt.
type MediaSource interface {
	Image(ctx context.Context, prompt string, aspect media.AspectRatio) outcome.Result[string]
	Video(ctx context.Context, prompt string, aspect media.AspectRatio) outcome.Result[string]
}
