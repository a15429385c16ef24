package analyzer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/eringen/marketdesk/model"
	"github.com/eringen/marketdesk/textgen"
)

const samplePage = `<html><head><title>Acme</title>
<style>body{color:red}</style><script>var secret = "hidden";</script></head>
<body><h1>Acme Spine Clinic</h1><p>Call (619) 555-0147 or write hello@acme-spine.com</p>
<a href="https://www.facebook.com/acmespine">fb</a>
<a href="https://x.com/acmespine">x</a>
<a href="https://linkedin.com/company/acme-spine">li</a>
<a href="https://youtube.com/c/AcmeSpine">yt</a>
</body></html>`

func TestNameFromURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://acme-spine.com", "Acme spine"},
		{"http://www.blue_sky.co.uk/about", "Blue sky"},
		{"acme.com", "Acme"},
		{"https://", "Business"},
	}
	for _, tt := range tests {
		if got := NameFromURL(tt.in); got != tt.want {
			t.Errorf("NameFromURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIndustryFromName(t *testing.T) {
	tests := map[string]string{
		"Acme spine":     "healthcare",
		"Bytesoftware":   "technology",
		"Smith law":      "legal",
		"Coastal realty": "real-estate",
		"Corner cafe":    "food",
		"Widgets":        "business",
	}
	for name, want := range tests {
		if got := IndustryFromName(name); got != want {
			t.Errorf("IndustryFromName(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestAnalyzeUnreachableWithoutAI(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(textgen.Disabled{}, nil).Analyze(ctx, "https://acme-spine.com")
	p := Report(r)
	if p.Name != "Acme spine" || p.Industry != "healthcare" || !p.Fallback {
		t.Errorf("got name=%q industry=%q fallback=%v", p.Name, p.Industry, p.Fallback)
	}
	if p.Error != ReasonNoAI {
		t.Errorf("error = %q", p.Error)
	}
	required := map[string]string{
		"description": p.Description, "goals": p.Goals, "target_audience": p.TargetAudience,
		"tone": p.Tone, "color_scheme": p.ColorScheme, "keywords": p.Keywords,
		"products": p.Products, "expertise": p.Expertise, "blog_topics": p.BlogTopics,
		"company_values": p.CompanyValues, "client_types": p.ClientTypes,
		"brand_personality": p.BrandPersonality, "image_style": p.ImageStyle,
		"visual_style": p.VisualStyle, "design_elements": p.DesignElements,
		"layout_style": p.LayoutStyle, "location_strategy": p.LocationStrategy,
		"full_analysis": p.FullAnalysis,
	}
	for field, v := range required {
		if v == "" {
			t.Errorf("%s is empty", field)
		}
	}
	if p.PrimaryLocation.Country != model.DefaultCountry || p.ServiceLocations == nil || p.ContactInfo.Phones == nil {
		t.Errorf("structured defaults missing: %+v", p)
	}
}

func TestAnalyzeMissingURL(t *testing.T) {
	p := Report(New(nil, nil).Analyze(context.Background(), "  "))
	if p.Error != ReasonNoURL || !p.Fallback || p.Name != "Business" || p.Industry != "business" {
		t.Errorf("profile = %+v", p)
	}
}

func TestAnalyzeExtractsAndEnriches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != userAgent {
			t.Errorf("user agent = %q", ua)
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	var prompt string
	ai := textgen.Func(func(_ context.Context, p string) (string, error) {
		prompt = p
		return "```json\n{\"name\":\"Acme Spine Clinic\",\"industry\":\"healthcare\",\"tone\":\"friendly\"}\n```", nil
	})
	r := New(ai, nil).Analyze(context.Background(), srv.URL)
	if r.IsDegraded() {
		t.Fatalf("unexpected degradation: %s", r.Reason)
	}
	p := Report(r)
	if p.Name != "Acme Spine Clinic" || p.Tone != "friendly" || p.Fallback {
		t.Errorf("merge failed: %+v", p)
	}
	if p.Products == "" {
		t.Error("fields missing from the AI reply should keep their defaults")
	}
	if p.FacebookURL != "https://facebook.com/acmespine" {
		t.Errorf("facebook = %q", p.FacebookURL)
	}
	if p.TwitterURL != "https://x.com/acmespine" {
		t.Errorf("twitter = %q", p.TwitterURL)
	}
	if p.LinkedinURL != "https://linkedin.com/company/acme-spine" || p.YoutubeURL != "https://youtube.com/c/AcmeSpine" {
		t.Errorf("linkedin=%q youtube=%q", p.LinkedinURL, p.YoutubeURL)
	}
	if p.InstagramURL != "" {
		t.Errorf("instagram = %q", p.InstagramURL)
	}
	if len(p.ContactInfo.Emails) != 1 || len(p.ContactInfo.Phones) != 1 {
		t.Errorf("contacts = %+v", p.ContactInfo)
	}
	if strings.Contains(prompt, "hidden") || strings.Contains(prompt, "color:red") {
		t.Error("script or style text leaked into the prompt")
	}
	if !strings.Contains(prompt, "Acme Spine Clinic") {
		t.Error("visible text missing from the prompt")
	}
}

func TestAnalyzeAIFailureKeepsExtractedData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	ai := textgen.Func(func(context.Context, string) (string, error) { return "", errors.New("rate limited") })
	p := Report(New(ai, nil).Analyze(context.Background(), srv.URL))
	if p.Error != ReasonAIFailed || !p.Fallback {
		t.Errorf("error=%q fallback=%v", p.Error, p.Fallback)
	}
	if p.FacebookURL == "" {
		t.Error("regex data lost on AI failure")
	}
}

func TestVisibleTextLimit(t *testing.T) {
	got := VisibleText("<p>"+strings.Repeat("a ", 100)+"</p>", 10)
	if len([]rune(got)) != 10 {
		t.Errorf("len = %d", len([]rune(got)))
	}
}

func TestProfileApplyToFillsOnlyEmptyFields(t *testing.T) {
	a := model.Account{Name: "Kept", Description: ""}
	p := basicProfile("Acme spine")
	p.FacebookURL = "https://facebook.com/acme"
	p.ApplyTo(&a)
	if a.Name != "Kept" {
		t.Errorf("name overwritten: %q", a.Name)
	}
	if a.Description == "" || a.FacebookURL == "" || a.Industry != "healthcare" {
		t.Errorf("account = %+v", a)
	}
}
