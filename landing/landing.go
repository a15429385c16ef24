// Package landing turns an account and a short brief into a prompt for an AI
// site builder.
package landing

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/eringen/marketdesk/model"
)

const (
	defaultObjective = "Generate leads and increase conversions"
	defaultCTA       = "Get Started"
	defaultCTACount  = 3
	defaultPrimary   = "#3B82F6"
	defaultSecondary = "#1E40AF"
)

// Sections toggles the page blocks to request.
type Sections struct {
	Masthead        bool `json:"masthead"`
	VideoBackground bool `json:"video_background"`
	ImageCarousel   bool `json:"image_carousel"`
	About           bool `json:"about"`
	Services        bool `json:"services"`
	Reviews         bool `json:"reviews"`
	Testimonials    bool `json:"testimonials"`
	Video           bool `json:"video"`
	Footer          bool `json:"footer"`
}

// DefaultSections is the block set a new brief starts with.
var DefaultSections = Sections{
	Masthead:     true,
	About:        true,
	Services:     true,
	Testimonials: true,
	Footer:       true,
}

// Form is the landing page brief.
type Form struct {
	Purpose                string    `json:"purpose"`
	Objective              string    `json:"objective"`
	TargetAudience         string    `json:"target_audience"`
	PrimaryCTA             string    `json:"primary_cta"`
	CTAInstances           int       `json:"cta_instances"`
	LogoURL                string    `json:"logo_url"`
	PrimaryColor           string    `json:"primary_color"`
	SecondaryColor         string    `json:"secondary_color"`
	Sections               *Sections `json:"sections"`
	LightDarkMode          *bool     `json:"light_dark_mode"`
	AdditionalInstructions string    `json:"additional_instructions"`
}

var hexColor = regexp.MustCompile(`#[0-9A-Fa-f]{6}\b|#[0-9A-Fa-f]{3}\b`)

// Prefill fills empty fields from the account, then from the built-in defaults.
func (f *Form) Prefill(a model.Account) {
	if f.Purpose == "" {
		f.Purpose = a.Description
	}
	if f.Objective == "" {
		f.Objective = defaultObjective
	}
	if f.TargetAudience == "" {
		f.TargetAudience = a.TargetAudience
	}
	if f.PrimaryCTA == "" {
		f.PrimaryCTA = defaultCTA
	}
	if f.CTAInstances == 0 {
		f.CTAInstances = defaultCTACount
	}
	if f.LogoURL == "" && !strings.HasPrefix(a.LogoURL, "/placeholder.svg") {
		f.LogoURL = a.LogoURL
	}
	colors := hexColor.FindAllString(a.ColorScheme, 2)
	if f.PrimaryColor == "" {
		f.PrimaryColor = defaultPrimary
		if len(colors) > 0 {
			f.PrimaryColor = colors[0]
		}
	}
	if f.SecondaryColor == "" {
		f.SecondaryColor = defaultSecondary
		if len(colors) > 1 {
			f.SecondaryColor = colors[1]
		}
	}
	if f.Sections == nil {
		s := DefaultSections
		f.Sections = &s
	}
	if f.LightDarkMode == nil {
		t := true
		f.LightDarkMode = &t
	}
}

// Validate checks a prefilled form.
func (f Form) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.CTAInstances, validation.Min(1), validation.Max(10)),
		validation.Field(&f.LogoURL, is.RequestURI),
		validation.Field(&f.PrimaryColor, is.HexColor),
		validation.Field(&f.SecondaryColor, is.HexColor),
	)
}

func (s Sections) list() []string {
	var out []string
	if s.Masthead {
		switch {
		case s.VideoBackground:
			out = append(out, "Masthead (Hero) with video background")
		case s.ImageCarousel:
			out = append(out, "Masthead (Hero) with image carousel (3 images)")
		default:
			out = append(out, "Masthead (Hero)")
		}
	}
	if s.About {
		out = append(out, "About Section")
	}
	if s.Services {
		out = append(out, "Services/Offerings Section")
	}
	if s.Reviews {
		out = append(out, "Reviews (Trustpilot or G2 snippets)")
	}
	if s.Testimonials {
		out = append(out, "Testimonials (long-form quotes from customers)")
	}
	if s.Video {
		out = append(out, "Video section (embedded YouTube or self-hosted)")
	}
	if s.Footer {
		out = append(out, "Footer with links, social icons, and contact info")
	}
	return out
}

func or(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// Prompt builds the seven-part instruction document. f should be prefilled.
func Prompt(a model.Account, f Form) string {
	if f.Sections == nil {
		s := DefaultSections
		f.Sections = &s
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Create a professional landing page for %s with the following specifications:\n\n", or(a.Name, "the business"))

	b.WriteString("**1. General Info**\n")
	fmt.Fprintf(&b, "- Purpose of the landing page: %s\n", f.Purpose)
	fmt.Fprintf(&b, "- Objective/Goal: %s\n", f.Objective)
	fmt.Fprintf(&b, "- Target Audience: %s\n", f.TargetAudience)
	fmt.Fprintf(&b, "- Primary Call-to-Action (CTA): %q\n", f.PrimaryCTA)
	fmt.Fprintf(&b, "- Number of CTA instances: %d\n", f.CTAInstances)
	fmt.Fprintf(&b, "- Logo: %s\n", or(f.LogoURL, "Use placeholder logo"))
	fmt.Fprintf(&b, "- Color scheme: Primary color: %s, Secondary color: %s\n\n", f.PrimaryColor, f.SecondaryColor)

	b.WriteString("**2. Business Context**\n")
	fmt.Fprintf(&b, "- Business Name: %s\n", or(a.Name, "Business Name"))
	fmt.Fprintf(&b, "- Industry: %s\n", or(a.Industry, "General"))
	fmt.Fprintf(&b, "- Website: %s\n", or(a.WebsiteURL, "Not specified"))
	fmt.Fprintf(&b, "- Brand Tone: %s\n", or(a.Tone, "Professional"))
	fmt.Fprintf(&b, "- Keywords: %s\n\n", or(a.Keywords, "Not specified"))

	b.WriteString("**3. Page Structure**\nInclude the following sections:\n")
	for _, s := range f.Sections.list() {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	b.WriteString("\n")

	mode := "Light mode only"
	if f.LightDarkMode == nil || *f.LightDarkMode {
		mode = "Include light and dark mode toggle"
	}
	b.WriteString("**4. Functional Requirements**\n")
	b.WriteString("- All CTAs should scroll smoothly to contact form or CTA section\n")
	b.WriteString("- Responsive on mobile, tablet, and desktop\n")
	fmt.Fprintf(&b, "- %s\n", mode)
	b.WriteString("- Modern, clean design with professional typography\n")
	b.WriteString("- Fast loading and optimized for performance\n")
	b.WriteString("- SEO-friendly structure with proper meta tags\n\n")

	b.WriteString(designGuidelines)
	b.WriteString(technical)

	b.WriteString("**7. Additional Instructions**\n")
	b.WriteString(or(f.AdditionalInstructions, "Follow modern web design best practices and ensure the landing page is conversion-optimized."))
	b.WriteString("\n\nPlease create a complete, production-ready landing page that follows these specifications and includes all necessary components, styling, and functionality.")
	return b.String()
}

const designGuidelines = `**5. Design Guidelines**
- Use modern UI components (shadcn/ui style)
- Implement smooth animations and transitions
- Ensure accessibility best practices
- Use the specified color scheme consistently
- Professional photography placeholders where needed
- Clean, minimalist layout with good whitespace

`

const technical = `**6. Technical Implementation**
- Built with Next.js 14+ App Router
- TypeScript for type safety
- Tailwind CSS for styling
- Responsive design with mobile-first approach
- Optimized images and assets
- Contact form with validation

`

// BuilderURL opens the prompt in the v0 chat.
func BuilderURL(prompt string) string {
	return "https://v0.dev/chat?q=" + url.QueryEscape(prompt)
}
