// Package banner composes display-ad creatives: a standalone animated HTML
// document and a PNG preview per standard ad size.
package banner

import (
	"math"
	"strings"
)

// Size is a named ad slot.
type Size struct {
	Name        string `json:"name"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Description string `json:"description"`
}

// Slug is the file-name form of the size name, e.g. "medium-rectangle".
func (s Size) Slug() string {
	return strings.Join(strings.Fields(strings.ToLower(s.Name)), "-")
}

// Sizes are the ten standard display sizes, in render order.
var Sizes = []Size{
	{"Leaderboard", 728, 90, "Top of page banner"},
	{"Medium Rectangle", 300, 250, "Sidebar ad"},
	{"Large Rectangle", 336, 280, "Content area"},
	{"Wide Skyscraper", 160, 600, "Sidebar banner"},
	{"Mobile Banner", 320, 50, "Mobile display"},
	{"Large Mobile Banner", 320, 100, "Mobile content"},
	{"Square", 250, 250, "Social media"},
	{"Small Square", 200, 200, "Compact display"},
	{"Button", 125, 125, "Small button ad"},
	{"Half Page", 300, 600, "Large sidebar"},
}

// SelectSizes returns the sizes whose name or slug is in names, keeping the
// standard order. An empty filter selects every size.
func SelectSizes(names []string) []Size {
	if len(names) == 0 {
		return Sizes
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[strings.ToLower(strings.TrimSpace(n))] = true
	}
	var out []Size
	for _, s := range Sizes {
		if want[strings.ToLower(s.Name)] || want[s.Slug()] {
			out = append(out, s)
		}
	}
	return out
}

// Layout holds the type and spacing metrics for one size, in pixels.
type Layout struct {
	HeadlineSize float64
	BodySize     float64
	CTASize      float64
	CTAWidth     float64
	CTAHeight    float64
	Padding      float64

	// Small banners put text and CTA on one row.
	Small bool
	// Vertical banners are more than twice as tall as wide.
	Vertical bool
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// LayoutFor computes the metrics for s.
func LayoutFor(s Size) Layout {
	w, h := float64(s.Width), float64(s.Height)
	return Layout{
		HeadlineSize: clamp(w/15, 12, 24),
		BodySize:     clamp(w/25, 10, 14),
		CTASize:      clamp(w/30, 10, 12),
		CTAWidth:     math.Min(100, w*0.35),
		CTAHeight:    math.Min(30, h*0.2),
		Padding:      clamp(w*0.03, 8, 20),
		Small:        s.Height <= 100 || s.Width <= 200,
		Vertical:     h > w*2,
	}
}
