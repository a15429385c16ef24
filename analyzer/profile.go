// Package analyzer derives a brand profile from a company website. Analyze
// never fails: it degrades from AI enrichment to regex extraction to a
// template built from the domain name.
package analyzer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/eringen/marketdesk/model"
)

// ContactInfo lists contact details scraped from the page.
type ContactInfo struct {
	Phones    []string `json:"phones"`
	Emails    []string `json:"emails"`
	Addresses []string `json:"addresses"`
}

// Profile is the brand profile an account can be pre-filled from.
type Profile struct {
	Name             string                  `json:"name"`
	Industry         string                  `json:"industry"`
	Description      string                  `json:"description"`
	Goals            string                  `json:"goals"`
	TargetAudience   string                  `json:"target_audience"`
	Tone             string                  `json:"tone"`
	ColorScheme      string                  `json:"color_scheme"`
	Keywords         string                  `json:"keywords"`
	Products         string                  `json:"products"`
	Expertise        string                  `json:"expertise"`
	BlogTopics       string                  `json:"blog_topics"`
	CompanyValues    string                  `json:"company_values"`
	ClientTypes      string                  `json:"client_types"`
	BrandPersonality string                  `json:"brand_personality"`
	ImageStyle       string                  `json:"image_style"`
	VisualStyle      string                  `json:"visual_style"`
	DesignElements   string                  `json:"design_elements"`
	LayoutStyle      string                  `json:"layout_style"`
	LocationStrategy string                  `json:"location_strategy"`
	PrimaryLocation  model.Location          `json:"primary_location"`
	ServiceLocations []model.ServiceLocation `json:"service_locations"`
	LogoURL          string                  `json:"logo_url"`
	FacebookURL      string                  `json:"facebook_url"`
	InstagramURL     string                  `json:"instagram_url"`
	TwitterURL       string                  `json:"twitter_url"`
	LinkedinURL      string                  `json:"linkedin_url"`
	YoutubeURL       string                  `json:"youtube_url"`
	ContactInfo      ContactInfo             `json:"contact_info"`
	FullAnalysis     string                  `json:"full_analysis"`

	// Fallback is true when AI enrichment did not happen.
	Fallback bool   `json:"fallback"`
	Error    string `json:"error,omitempty"`
}

// NameFromURL turns "https://www.acme-spine.com/about" into "Acme spine".
func NameFromURL(raw string) string {
	s := strings.TrimSpace(raw)
	lower := strings.ToLower(s)
	for _, p := range []string{"https://", "http://"} {
		if strings.HasPrefix(lower, p) {
			s = s[len(p):]
			break
		}
	}
	if strings.HasPrefix(strings.ToLower(s), "www.") {
		s = s[4:]
	}
	s, _, _ = strings.Cut(s, "/")
	s, _, _ = strings.Cut(s, ".")
	if s == "" {
		return "Business"
	}
	r, size := utf8.DecodeRuneInString(s)
	rest := strings.NewReplacer("-", " ", "_", " ").Replace(s[size:])
	return string(unicode.ToUpper(r)) + rest
}

// IndustryFromName guesses an industry from words in the business name.
func IndustryFromName(name string) string {
	n := strings.ToLower(name)
	has := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(n, w) {
				return true
			}
		}
		return false
	}
	switch {
	case has("health", "medical", "clinic", "doctor", "spine"):
		return "healthcare"
	case has("tech", "software", "digital"):
		return "technology"
	case has("law", "legal", "attorney"):
		return "legal"
	case has("real estate", "realty"):
		return "real-estate"
	case has("restaurant", "food", "cafe"):
		return "food"
	}
	return "business"
}

// basicProfile is the template used when nothing better is known.
func basicProfile(name string) Profile {
	return Profile{
		Name:             name,
		Industry:         IndustryFromName(name),
		Description:      name + " is a professional business providing quality services to customers.",
		Goals:            "Provide excellent service and grow the business",
		TargetAudience:   "Local customers and businesses",
		Tone:             model.DefaultTone,
		ColorScheme:      "blue and white",
		Keywords:         strings.ToLower(name) + ", business, professional, service, quality, local",
		Products:         "Professional services and solutions",
		Expertise:        "Industry expertise and customer service",
		BlogTopics:       "industry trends, customer stories, tips, company news, best practices",
		CompanyValues:    "Quality, integrity, customer satisfaction",
		ClientTypes:      "Businesses and individual customers",
		BrandPersonality: "Professional, reliable, trustworthy",
		ImageStyle:       model.DefaultImageStyle,
		VisualStyle:      "Clean, professional, modern",
		DesignElements:   "Simple, clean lines, professional imagery",
		LayoutStyle:      "Modern, user-friendly, organized",
		LocationStrategy: model.DefaultLocationStrategy,
		PrimaryLocation:  model.Location{Country: model.DefaultCountry},
		ServiceLocations: []model.ServiceLocation{},
		ContactInfo:      ContactInfo{Phones: []string{}, Emails: []string{}, Addresses: []string{}},
	}
}

func (p *Profile) summarize() {
	found := 0
	for _, u := range []string{p.FacebookURL, p.InstagramURL, p.TwitterURL, p.LinkedinURL, p.YoutubeURL} {
		if u != "" {
			found++
		}
	}
	p.FullAnalysis = fmt.Sprintf("Basic analysis completed for %s. %d social media profiles found.", p.Name, found)
}

// aiProfile is the reply shape requested from the text provider.
type aiProfile struct {
	Name             string `json:"name"`
	Industry         string `json:"industry"`
	Description      string `json:"description"`
	Goals            string `json:"goals"`
	TargetAudience   string `json:"targetAudience"`
	Tone             string `json:"tone"`
	ColorScheme      string `json:"colorScheme"`
	Keywords         string `json:"keywords"`
	Products         string `json:"products"`
	Expertise        string `json:"expertise"`
	BlogTopics       string `json:"blogTopics"`
	CompanyValues    string `json:"companyValues"`
	ClientTypes      string `json:"clientTypes"`
	BrandPersonality string `json:"brandPersonality"`
	ImageStyle       string `json:"imageStyle"`
	VisualStyle      string `json:"visualStyle"`
	DesignElements   string `json:"designElements"`
	LayoutStyle      string `json:"layoutStyle"`
}

// merge copies every non-empty AI field over p.
func (ai aiProfile) merge(p *Profile) {
	set := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(&p.Name, ai.Name)
	set(&p.Industry, ai.Industry)
	set(&p.Description, ai.Description)
	set(&p.Goals, ai.Goals)
	set(&p.TargetAudience, ai.TargetAudience)
	set(&p.Tone, ai.Tone)
	set(&p.ColorScheme, ai.ColorScheme)
	set(&p.Keywords, ai.Keywords)
	set(&p.Products, ai.Products)
	set(&p.Expertise, ai.Expertise)
	set(&p.BlogTopics, ai.BlogTopics)
	set(&p.CompanyValues, ai.CompanyValues)
	set(&p.ClientTypes, ai.ClientTypes)
	set(&p.BrandPersonality, ai.BrandPersonality)
	set(&p.ImageStyle, ai.ImageStyle)
	set(&p.VisualStyle, ai.VisualStyle)
	set(&p.DesignElements, ai.DesignElements)
	set(&p.LayoutStyle, ai.LayoutStyle)
}

// ApplyTo fills the empty fields of a with values from p. Fields the operator
// already set are left alone.
func (p Profile) ApplyTo(a *model.Account) {
	fill := func(dst *string, v string) {
		if strings.TrimSpace(*dst) == "" && v != "" {
			*dst = v
		}
	}
	fill(&a.Name, p.Name)
	fill(&a.Industry, p.Industry)
	fill(&a.Description, p.Description)
	fill(&a.Goals, p.Goals)
	fill(&a.TargetAudience, p.TargetAudience)
	fill(&a.ColorScheme, p.ColorScheme)
	fill(&a.Keywords, p.Keywords)
	fill(&a.Products, p.Products)
	fill(&a.Expertise, p.Expertise)
	fill(&a.BlogTopics, p.BlogTopics)
	fill(&a.CompanyValues, p.CompanyValues)
	fill(&a.ClientTypes, p.ClientTypes)
	fill(&a.BrandPersonality, p.BrandPersonality)
	fill(&a.VisualStyle, p.VisualStyle)
	fill(&a.DesignElements, p.DesignElements)
	fill(&a.LayoutStyle, p.LayoutStyle)
	fill(&a.FacebookURL, p.FacebookURL)
	fill(&a.InstagramURL, p.InstagramURL)
	fill(&a.TwitterURL, p.TwitterURL)
	fill(&a.LinkedinURL, p.LinkedinURL)
	fill(&a.YoutubeURL, p.YoutubeURL)
	if a.WebsiteAnalysis == "" {
		a.WebsiteAnalysis = p.FullAnalysis
	}
}
