package model

import (
	"fmt"
	"strings"
	"time"
)

// Status is the publishing state of a post or blog.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusPublished Status = "published"
)

// ParseStatus validates s. An empty string means draft.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusDraft:
		return StatusDraft, nil
	case StatusScheduled:
		return StatusScheduled, nil
	case StatusPublished:
		return StatusPublished, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// MediaType selects between image and video generation for a post.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Post is one generated social-media update owned by an account.
type Post struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	Content     string    `json:"content"`
	Hashtags    []string  `json:"hashtags"`
	ImageURL    string    `json:"image_url"`
	VideoURL    string    `json:"video_url"`
	ImagePrompt string    `json:"image_prompt"`
	MediaType   MediaType `json:"media_type"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Temporary marks an item that could not be persisted.
	Temporary bool `json:"temporary,omitempty"`
	// ContentFallback holds the reason template copy was used.
	ContentFallback string `json:"content_fallback,omitempty"`
	// MediaFallback holds the reason placeholder media was used.
	MediaFallback string `json:"media_fallback,omitempty"`
}

// Blog is one generated long-form article owned by an account.
type Blog struct {
	ID                string     `json:"id"`
	AccountID         string     `json:"account_id"`
	Title             string     `json:"title"`
	Slug              string     `json:"slug"`
	Content           string     `json:"content"`
	MetaTitle         string     `json:"meta_title"`
	MetaDescription   string     `json:"meta_description"`
	TargetKeyword     string     `json:"target_keyword"`
	SecondaryKeywords []string   `json:"secondary_keywords"`
	WordCount         int        `json:"word_count"`
	Status            Status     `json:"status"`
	PublishedAt       *time.Time `json:"published_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	Temporary       bool   `json:"temporary,omitempty"`
	ContentFallback string `json:"content_fallback,omitempty"`
}

// CountWords returns the number of whitespace-separated words in s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// KeywordAnalysis is a transient SEO report. It is regenerated on demand and
// never stored.
type KeywordAnalysis struct {
	CurrentRankings []KeywordRanking     `json:"currentRankings"`
	Opportunities   []KeywordOpportunity `json:"opportunities"`
	CompetitorGaps  []CompetitorGap      `json:"competitorGaps"`
}

// KeywordRanking is a keyword the business likely ranks for today.
type KeywordRanking struct {
	Keyword      string `json:"keyword"`
	Position     int    `json:"position"`
	SearchVolume int    `json:"searchVolume"`
	Difficulty   string `json:"difficulty"`
}

// KeywordOpportunity is a keyword worth targeting.
type KeywordOpportunity struct {
	Keyword         string   `json:"keyword"`
	SearchVolume    int      `json:"searchVolume"`
	Difficulty      string   `json:"difficulty"`
	Intent          string   `json:"intent"`
	LocalVariations []string `json:"localVariations"`
}

// CompetitorGap is a keyword competitors rank for and the business does not.
type CompetitorGap struct {
	Keyword     string   `json:"keyword"`
	Competitors []string `json:"competitors"`
	Opportunity string   `json:"opportunity"`
}
