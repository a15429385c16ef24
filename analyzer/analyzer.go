package analyzer

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	v "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/eringen/marketdesk/outcome"
	"github.com/eringen/marketdesk/textgen"
)

const (
	fetchTimeout  = 8 * time.Second
	userAgent     = "Mozilla/5.0 (compatible; WebsiteAnalyzer/1.0)"
	maxPageText   = 3000
	maxContactHit = 5
)

// Degradation reasons surfaced in Profile.Error.
const (
	ReasonNoURL       = "URL is required"
	ReasonNoAI        = "AI analysis not available, using basic analysis"
	ReasonAIFailed    = "AI analysis failed, using extracted data"
	ReasonFetchFailed = "website could not be fetched, using basic analysis"
)

var (
	socialPatterns = []struct {
		platform string
		re       *regexp.Regexp
	}{
		{"facebook", regexp.MustCompile(`(?i)facebook\.com/[a-z0-9._-]+`)},
		{"instagram", regexp.MustCompile(`(?i)instagram\.com/[a-z0-9._-]+`)},
		{"twitter", regexp.MustCompile(`(?i)(?:twitter\.com|x\.com)/[a-z0-9._-]+`)},
		{"linkedin", regexp.MustCompile(`(?i)linkedin\.com/(?:company|in)/[a-z0-9._-]+`)},
		{"youtube", regexp.MustCompile(`(?i)youtube\.com/(?:channel|user|c)/[a-z0-9._-]+`)},
	}
	phonePattern = regexp.MustCompile(`\(?\b\d{3}\)?[-.\s]?\d{3}[-.\s]\d{4}\b`)
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
)

// Analyzer fetches websites and turns them into brand profiles.
type Analyzer struct {
	text   textgen.Provider
	client *resty.Client
	log    *zap.Logger
}

// New returns an Analyzer. text may be textgen.Disabled.
func New(text textgen.Provider, log *zap.Logger) *Analyzer {
	if text == nil {
		text = textgen.Disabled{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	client := resty.New().
		SetTimeout(fetchTimeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml")
	return &Analyzer{text: text, client: client, log: log}
}

// normalizeURL adds a scheme when missing and validates the result.
func normalizeURL(raw string) (string, error) {
	u := strings.TrimSpace(raw)
	if u == "" {
		return "", fmt.Errorf("empty url")
	}
	if !strings.Contains(u, "://") {
		u = "https://" + u
	}
	if err := v.Validate(u, v.Required, is.URL); err != nil {
		return "", err
	}
	return u, nil
}

// Analyze builds a profile for rawURL. The result is degraded whenever AI
// enrichment did not happen; the profile is complete either way.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) outcome.Result[Profile] {
	if strings.TrimSpace(rawURL) == "" {
		return outcome.Degraded(basicProfile("Business"), ReasonNoURL)
	}
	p := basicProfile(NameFromURL(rawURL))

	page, err := a.fetch(ctx, rawURL)
	if err != nil {
		a.log.Warn("website fetch failed", zap.String("url", rawURL), zap.Error(err))
	} else {
		extractSocial(page, &p)
		extractContacts(page, &p)
	}
	p.summarize()

	if !textgen.Configured(a.text) {
		return outcome.Degraded(p, ReasonNoAI)
	}
	if page == "" {
		return outcome.Degraded(p, ReasonFetchFailed)
	}
	text := VisibleText(page, maxPageText)
	raw, err := a.text.Generate(ctx, profilePrompt(rawURL, p.Name, text))
	if err != nil {
		a.log.Warn("profile enrichment failed", zap.String("url", rawURL), zap.Error(err))
		return outcome.Degraded(p, ReasonAIFailed)
	}
	var ai aiProfile
	if err := textgen.DecodeJSON(raw, &ai); err != nil {
		a.log.Warn("profile enrichment unparseable", zap.String("url", rawURL), zap.Error(err))
		return outcome.Degraded(p, ReasonAIFailed)
	}
	ai.merge(&p)
	return outcome.Success(p)
}

// Report flattens a result into the profile JSON shape, with the fallback
// flag and warning filled in.
func Report(r outcome.Result[Profile]) Profile {
	p := r.Value
	p.Fallback = r.IsDegraded()
	p.Error = r.Reason
	return p
}

func (a *Analyzer) fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := normalizeURL(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	resp, err := a.client.R().SetContext(ctx).Get(u)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("fetch %s: %s", u, resp.Status())
	}
	return resp.String(), nil
}

func extractSocial(page string, p *Profile) {
	for _, sp := range socialPatterns {
		m := sp.re.FindString(page)
		if m == "" {
			continue
		}
		url := "https://" + strings.ToLower(m[:strings.IndexByte(m, '/')]) + m[strings.IndexByte(m, '/'):]
		switch sp.platform {
		case "facebook":
			p.FacebookURL = url
		case "instagram":
			p.InstagramURL = url
		case "twitter":
			p.TwitterURL = url
		case "linkedin":
			p.LinkedinURL = url
		case "youtube":
			p.YoutubeURL = url
		}
	}
}

func extractContacts(page string, p *Profile) {
	p.ContactInfo.Phones = uniqueMatches(phonePattern, VisibleText(page, 0))
	p.ContactInfo.Emails = uniqueMatches(emailPattern, page)
}

func uniqueMatches(re *regexp.Regexp, s string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, m := range re.FindAllString(s, -1) {
		key := strings.ToLower(m)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
		if len(out) == maxContactHit {
			break
		}
	}
	return out
}

// VisibleText returns the whitespace-collapsed text of an HTML page without
// script, style and noscript content. limit <= 0 means no limit.
func VisibleText(page string, limit int) string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "template":
				return
			}
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	text := strings.Join(strings.Fields(b.String()), " ")
	if limit > 0 && utf8.RuneCountInString(text) > limit {
		text = string([]rune(text)[:limit])
	}
	return text
}

func profilePrompt(url, name, content string) string {
	return fmt.Sprintf(`Analyze this website and return comprehensive business information in JSON format.

Website: %s
Business: %s
Content: %s

Return ONLY valid JSON with this exact structure (fill ALL fields with your best analysis):

{
  "name": "Business name from website",
  "industry": "specific industry category",
  "description": "2-3 sentence business description",
  "goals": "inferred business goals and objectives",
  "targetAudience": "detailed target audience description",
  "tone": "brand tone (professional/friendly/casual/authoritative/playful)",
  "colorScheme": "primary colors found on website",
  "keywords": "relevant SEO keywords comma separated",
  "products": "main products and services offered",
  "expertise": "areas of specialization and expertise",
  "blogTopics": "suggested content topics for blogs",
  "companyValues": "inferred company values and mission",
  "clientTypes": "types of customers they serve",
  "brandPersonality": "brand personality traits",
  "imageStyle": "visual style preference",
  "visualStyle": "overall aesthetic description",
  "designElements": "design elements and style notes",
  "layoutStyle": "website layout characteristics"
}

Make educated inferences based on the content, industry and business type.`, url, name, content)
}
