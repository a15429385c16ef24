package model

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeAccountDefaults(t *testing.T) {
	var a Account
	NormalizeAccount(&a)

	if a.Name != DefaultAccountName {
		t.Errorf("Name = %q, want %q", a.Name, DefaultAccountName)
	}
	if a.Tone != "professional" {
		t.Errorf("Tone = %q", a.Tone)
	}
	if a.MonthlyPostCount != 2 || a.MonthlyBlogCount != 2 {
		t.Errorf("monthly counts = %d/%d, want 2/2", a.MonthlyPostCount, a.MonthlyBlogCount)
	}
	if a.TextLength != 150 {
		t.Errorf("TextLength = %d, want 150", a.TextLength)
	}
	if a.UseEmojis == nil || !*a.UseEmojis {
		t.Errorf("UseEmojis should default to true")
	}
	if a.ImageStyle != "corporate_professional" {
		t.Errorf("ImageStyle = %q", a.ImageStyle)
	}
	if a.LocationStrategy != "local" {
		t.Errorf("LocationStrategy = %q", a.LocationStrategy)
	}
	want := Location{Country: "United States"}
	if diff := cmp.Diff(want, a.PrimaryLocation); diff != "" {
		t.Errorf("PrimaryLocation mismatch (-want +got):\n%s", diff)
	}
	if a.ServiceLocations == nil || a.TargetRegions == nil {
		t.Errorf("location slices should be non-nil")
	}
	if a.LogoURL != "/placeholder.svg?height=40&width=40&text=U" {
		t.Errorf("LogoURL = %q", a.LogoURL)
	}
}

func TestNormalizeAccountKeepsExplicitValues(t *testing.T) {
	f := false
	a := Account{
		Name:             "Acme",
		Tone:             "playful",
		TextLength:       280,
		UseEmojis:        &f,
		PrimaryLocation:  Location{City: "Austin", State: "TX", Country: "USA"},
		LogoURL:          "/media/logos/acme.png",
		MonthlyPostCount: 8,
	}
	NormalizeAccount(&a)

	if a.Tone != "playful" || a.TextLength != 280 || a.MonthlyPostCount != 8 {
		t.Errorf("explicit values overwritten: %+v", a)
	}
	if *a.UseEmojis {
		t.Errorf("explicit use_emojis=false overwritten")
	}
	if a.PrimaryLocation.Country != "USA" {
		t.Errorf("Country = %q", a.PrimaryLocation.Country)
	}
	if a.LogoURL != "/media/logos/acme.png" {
		t.Errorf("LogoURL = %q", a.LogoURL)
	}
}

func TestPlaceholderLogo(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Acme", "/placeholder.svg?height=40&width=40&text=A"},
		{"  zeta", "/placeholder.svg?height=40&width=40&text=z"},
		{"", "/placeholder.svg?height=40&width=40&text=A"},
	}
	for _, tt := range tests {
		if got := PlaceholderLogo(tt.name); got != tt.want {
			t.Errorf("PlaceholderLogo(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestLocationContext(t *testing.T) {
	a := Account{}
	if got := a.LocationContext(); got != "No specific location targeting configured" {
		t.Errorf("empty context = %q", got)
	}

	a = Account{
		PrimaryLocation: Location{City: "Denver", State: "CO"},
		ServiceLocations: []ServiceLocation{
			{City: "Boulder", State: "CO", Radius: 25},
			{State: "Wyoming", IsStatewide: true},
		},
		TargetRegions: []TargetRegion{{Name: "Front Range", Type: "metro"}},
	}
	got := a.LocationContext()
	for _, want := range []string{
		"Primary Location: Denver, CO",
		"- Boulder, CO (25 mile radius)",
		"- Wyoming (statewide)",
		"- Front Range (metro)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("context missing %q:\n%s", want, got)
		}
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"", StatusDraft, false},
		{"Published", StatusPublished, false},
		{"scheduled", StatusScheduled, false},
		{"archived", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStatus(%q) err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
