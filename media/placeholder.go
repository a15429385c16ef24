package media

import (
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

// AspectRatio is the requested shape of generated media.
type AspectRatio string

const (
	Square     AspectRatio = "square"
	Horizontal AspectRatio = "horizontal"
	Vertical   AspectRatio = "vertical"
)

// ParseAspectRatio maps s to an AspectRatio. Unknown values become Square.
func ParseAspectRatio(s string) AspectRatio {
	switch AspectRatio(strings.ToLower(strings.TrimSpace(s))) {
	case Horizontal:
		return Horizontal
	case Vertical:
		return Vertical
	}
	return Square
}

// PlaceholderSize returns the width and height used for placeholder media.
func (a AspectRatio) PlaceholderSize() (width, height int) {
	switch a {
	case Horizontal:
		return 800, 450
	case Vertical:
		return 400, 800
	}
	return 600, 600
}

// openAISize is the DALL-E 3 size string for the ratio.
func (a AspectRatio) openAISize() string {
	switch a {
	case Horizontal:
		return "1792x1024"
	case Vertical:
		return "1024x1792"
	}
	return "1024x1024"
}

// ratio is the W:H notation used by Imagen and Veo.
func (a AspectRatio) ratio() string {
	switch a {
	case Horizontal:
		return "16:9"
	case Vertical:
		return "9:16"
	}
	return "1:1"
}

// PlaceholderURL builds the always-resolvable placeholder for an image.
func PlaceholderURL(prompt string, aspect AspectRatio) string {
	return placeholderURL(truncateRunes(prompt, 50), aspect)
}

// VideoPlaceholderURL builds the placeholder for a video.
func VideoPlaceholderURL(prompt string, aspect AspectRatio) string {
	return placeholderURL("Video: "+truncateRunes(prompt, 25), aspect)
}

func placeholderURL(text string, aspect AspectRatio) string {
	w, h := aspect.PlaceholderSize()
	return fmt.Sprintf("/placeholder.svg?height=%d&width=%d&text=%s", h, w, url.QueryEscape(text))
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

// Placeholder limits keep the rendered SVG bounded.
const (
	maxPlaceholderSide = 4096
	maxCaptionRunes    = 120
)

// PlaceholderSVG renders the grey captioned box served at /placeholder.svg.
// Invalid or missing dimensions fall back to 600x600.
func PlaceholderSVG(widthParam, heightParam, text string) []byte {
	w := parseSide(widthParam)
	h := parseSide(heightParam)
	caption := html.EscapeString(truncateRunes(text, maxCaptionRunes))
	fontSize := min(w, h) / 12
	if fontSize < 8 {
		fontSize = 8
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, w, h, w, h)
	fmt.Fprintf(&b, `<rect width="100%%" height="100%%" fill="#e5e7eb"/>`)
	if caption != "" {
		fmt.Fprintf(&b, `<text x="50%%" y="50%%" fill="#6b7280" font-family="sans-serif" font-size="%d" text-anchor="middle" dominant-baseline="middle">%s</text>`, fontSize, caption)
	}
	b.WriteString(`</svg>`)
	return []byte(b.String())
}

func parseSide(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 600
	}
	return min(n, maxPlaceholderSide)
}
