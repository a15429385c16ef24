// Package model holds the entities shared by the marketdesk store, generators
// and HTTP layer.
package model

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Account is a client brand profile. Every content generator reads from it.
type Account struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	WebsiteURL string `json:"website_url"`
	Industry   string `json:"industry"`

	Description     string `json:"description"`
	Goals           string `json:"goals"`
	TargetAudience  string `json:"target_audience"`
	Tone            string `json:"tone"`
	ColorScheme     string `json:"color_scheme"`
	Keywords        string `json:"keywords"`
	WebsiteAnalysis string `json:"website_analysis"`
	Products        string `json:"products"`
	Expertise       string `json:"expertise"`
	BlogTopics      string `json:"blog_topics"`
	CompanyValues   string `json:"company_values"`
	ClientTypes     string `json:"client_types"`

	VisualStyle      string `json:"visual_style"`
	ImageStyle       string `json:"image_style"`
	DesignElements   string `json:"design_elements"`
	BrandPersonality string `json:"brand_personality"`
	LayoutStyle      string `json:"layout_style"`

	MonthlyPostCount int   `json:"monthly_post_count"`
	MonthlyBlogCount int   `json:"monthly_blog_count"`
	TextLength       int   `json:"text_length"`
	UseEmojis        *bool `json:"use_emojis"`

	FacebookURL  string `json:"facebook_url"`
	InstagramURL string `json:"instagram_url"`
	YoutubeURL   string `json:"youtube_url"`
	TwitterURL   string `json:"twitter_url"`
	LinkedinURL  string `json:"linkedin_url"`
	TiktokURL    string `json:"tiktok_url"`
	PinterestURL string `json:"pinterest_url"`

	LocationStrategy string            `json:"location_strategy"`
	PrimaryLocation  Location          `json:"primary_location"`
	ServiceLocations []ServiceLocation `json:"service_locations"`
	TargetRegions    []TargetRegion    `json:"target_regions"`

	LogoURL   string    `json:"logo_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Location is a city/state/country triple.
type Location struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// ServiceLocation is an area the business serves, either a radius around a
// city or a whole state.
type ServiceLocation struct {
	ID          string `json:"id,omitempty"`
	City        string `json:"city"`
	State       string `json:"state"`
	Radius      int    `json:"radius"`
	IsStatewide bool   `json:"is_statewide"`
}

// TargetRegion is a named marketing region such as a metro area or county.
type TargetRegion struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Account field defaults.
const (
	DefaultAccountName      = "Unnamed Account"
	DefaultTone             = "professional"
	DefaultMonthlyPosts     = 2
	DefaultMonthlyBlogs     = 2
	DefaultTextLength       = 150
	DefaultImageStyle       = "corporate_professional"
	DefaultLocationStrategy = "local"
	DefaultCountry          = "United States"
)

// NormalizeAccount fills every unset field with its default. It is the only
// place account defaults live; every read and write path calls it.
func NormalizeAccount(a *Account) {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		a.Name = DefaultAccountName
	}
	if a.Tone == "" {
		a.Tone = DefaultTone
	}
	if a.MonthlyPostCount <= 0 {
		a.MonthlyPostCount = DefaultMonthlyPosts
	}
	if a.MonthlyBlogCount <= 0 {
		a.MonthlyBlogCount = DefaultMonthlyBlogs
	}
	if a.TextLength <= 0 {
		a.TextLength = DefaultTextLength
	}
	if a.UseEmojis == nil {
		t := true
		a.UseEmojis = &t
	}
	if a.ImageStyle == "" {
		a.ImageStyle = DefaultImageStyle
	}
	if a.LocationStrategy == "" {
		a.LocationStrategy = DefaultLocationStrategy
	}
	if a.PrimaryLocation.Country == "" {
		a.PrimaryLocation.Country = DefaultCountry
	}
	if a.ServiceLocations == nil {
		a.ServiceLocations = []ServiceLocation{}
	}
	if a.TargetRegions == nil {
		a.TargetRegions = []TargetRegion{}
	}
	if a.LogoURL == "" {
		a.LogoURL = PlaceholderLogo(a.Name)
	}
}

// PlaceholderLogo returns the placeholder logo URL for an account name.
func PlaceholderLogo(name string) string {
	initial := "A"
	if r, _ := utf8.DecodeRuneInString(strings.TrimSpace(name)); r != utf8.RuneError {
		initial = string(r)
	}
	return "/placeholder.svg?height=40&width=40&text=" + initial
}

// Emojis reports whether generated copy may contain emojis.
func (a Account) Emojis() bool {
	return a.UseEmojis == nil || *a.UseEmojis
}

// SocialURLs returns the account's social profile links keyed by platform.
func (a Account) SocialURLs() map[string]string {
	return map[string]string{
		"facebook":  a.FacebookURL,
		"instagram": a.InstagramURL,
		"twitter":   a.TwitterURL,
		"linkedin":  a.LinkedinURL,
		"youtube":   a.YoutubeURL,
		"tiktok":    a.TiktokURL,
		"pinterest": a.PinterestURL,
	}
}

// LocationContext describes the account's geographic targeting for prompts.
func (a Account) LocationContext() string {
	var b strings.Builder
	if a.PrimaryLocation.City != "" {
		b.WriteString("Primary Location: " + joinCityState(a.PrimaryLocation.City, a.PrimaryLocation.State) + "\n")
	}
	if len(a.ServiceLocations) > 0 {
		b.WriteString("Service Locations:\n")
		for _, loc := range a.ServiceLocations {
			if loc.IsStatewide {
				fmt.Fprintf(&b, "- %s (statewide)\n", loc.State)
				continue
			}
			fmt.Fprintf(&b, "- %s (%d mile radius)\n", joinCityState(loc.City, loc.State), loc.Radius)
		}
	}
	if len(a.TargetRegions) > 0 {
		b.WriteString("Target Regions:\n")
		for _, r := range a.TargetRegions {
			fmt.Fprintf(&b, "- %s (%s)\n", r.Name, r.Type)
		}
	}
	if b.Len() == 0 {
		return "No specific location targeting configured"
	}
	return b.String()
}

func joinCityState(city, state string) string {
	if state == "" {
		return city
	}
	return city + ", " + state
}
