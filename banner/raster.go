package banner

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	fontsOnce   sync.Once
	regularFont *opentype.Font
	boldFont    *opentype.Font
	fontsErr    error
)

func loadFonts() error {
	fontsOnce.Do(func() {
		regularFont, fontsErr = opentype.Parse(goregular.TTF)
		if fontsErr != nil {
			return
		}
		boldFont, fontsErr = opentype.Parse(gobold.TTF)
	})
	return fontsErr
}

// Faces are not safe for concurrent use, so every render builds its own.
func newFace(f *opentype.Font, size float64) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
}

type stop struct {
	at float64
	c  color.NRGBA
}

// linearGradient runs diagonally from the top-left to the bottom-right of r.
type linearGradient struct {
	r     image.Rectangle
	stops []stop
}

func (g linearGradient) ColorModel() color.Model { return color.NRGBAModel }
func (g linearGradient) Bounds() image.Rectangle { return g.r }

func (g linearGradient) At(x, y int) color.Color {
	w, h := float64(g.r.Dx()), float64(g.r.Dy())
	dx, dy := float64(x-g.r.Min.X), float64(y-g.r.Min.Y)
	t := 0.0
	if d := w*w + h*h; d > 0 {
		t = (dx*w + dy*h) / d
	}
	t = clamp(t, 0, 1)
	for i := 1; i < len(g.stops); i++ {
		a, b := g.stops[i-1], g.stops[i]
		if t <= b.at {
			f := 0.0
			if b.at > a.at {
				f = (t - a.at) / (b.at - a.at)
			}
			return lerp(a.c, b.c, f)
		}
	}
	return g.stops[len(g.stops)-1].c
}

func lerp(a, b color.NRGBA, f float64) color.NRGBA {
	mix := func(x, y uint8) uint8 { return uint8(math.Round(float64(x) + (float64(y)-float64(x))*f)) }
	return color.NRGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), mix(a.A, b.A)}
}

// roundedRect is an alpha mask for a rectangle with rounded corners.
type roundedRect struct {
	r      image.Rectangle
	radius float64
}

func (m roundedRect) ColorModel() color.Model { return color.AlphaModel }
func (m roundedRect) Bounds() image.Rectangle { return m.r }

func (m roundedRect) At(x, y int) color.Color {
	px, py := float64(x)+0.5, float64(y)+0.5
	minX, minY := float64(m.r.Min.X), float64(m.r.Min.Y)
	maxX, maxY := float64(m.r.Max.X), float64(m.r.Max.Y)
	cx := clamp(px, minX+m.radius, maxX-m.radius)
	cy := clamp(py, minY+m.radius, maxY-m.radius)
	d := math.Hypot(px-cx, py-cy)
	switch {
	case d <= m.radius-0.5:
		return color.Alpha{A: 255}
	case d >= m.radius+0.5:
		return color.Alpha{}
	}
	return color.Alpha{A: uint8(math.Round((m.radius + 0.5 - d) * 255))}
}

var (
	brandGradient = []stop{{0, color.NRGBA{0x66, 0x7e, 0xea, 0xff}}, {1, color.NRGBA{0x76, 0x4b, 0xa2, 0xff}}}
	overlayStops  = []stop{{0, color.NRGBA{0, 0, 0, 128}}, {0.5, color.NRGBA{0, 0, 0, 77}}, {1, color.NRGBA{0, 0, 0, 179}}}
	ctaStops      = []stop{{0, color.NRGBA{0xff, 0x6b, 0x6b, 0xff}}, {1, color.NRGBA{0xee, 0x5a, 0x24, 0xff}}}
	textShadow    = color.NRGBA{0, 0, 0, 204}
	headlineColor = color.NRGBA{255, 255, 255, 255}
	bodyColor     = color.NRGBA{255, 255, 255, 242}
)

// Preview rasterizes the banner for s as PNG bytes. bg may be nil, in which
// case the brand gradient is used.
func Preview(s Size, bg image.Image, c Content) ([]byte, error) {
	if err := loadFonts(); err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}
	l := LayoutFor(s)
	dst := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))

	if bg != nil {
		draw.CatmullRom.Scale(dst, dst.Bounds(), bg, bg.Bounds(), draw.Src, nil)
	} else {
		draw.Draw(dst, dst.Bounds(), linearGradient{dst.Bounds(), brandGradient}, image.Point{}, draw.Src)
	}
	draw.Draw(dst, dst.Bounds(), linearGradient{dst.Bounds(), overlayStops}, image.Point{}, draw.Over)

	headFace, err := newFace(boldFont, l.HeadlineSize)
	if err != nil {
		return nil, err
	}
	defer headFace.Close()
	bodyFace, err := newFace(regularFont, l.BodySize)
	if err != nil {
		return nil, err
	}
	defer bodyFace.Close()
	ctaFace, err := newFace(boldFont, l.CTASize)
	if err != nil {
		return nil, err
	}
	defer ctaFace.Close()

	availW := float64(s.Width) - l.Padding*2
	if l.Small {
		textW := availW - l.CTAWidth - 8
		y := l.Padding
		drawText(dst, headFace, truncate(headFace, c.Headline, textW), l.Padding, y, headlineColor)
		y += l.HeadlineSize + 2
		drawText(dst, bodyFace, truncate(bodyFace, c.Body, textW), l.Padding, y, bodyColor)

		ctaX := float64(s.Width) - l.CTAWidth - l.Padding
		ctaY := l.Padding + (float64(s.Height)-l.Padding*2-l.CTAHeight)/2
		drawCTA(dst, ctaFace, c.CTA, ctaX, ctaY, l.CTAWidth, l.CTAHeight)
	} else {
		y := l.Padding
		for _, line := range wrap(headFace, c.Headline, availW) {
			drawText(dst, headFace, line, l.Padding, y, headlineColor)
			y += l.HeadlineSize * 1.1
		}
		y += math.Max(4, float64(s.Height)*0.02)
		for _, line := range wrap(bodyFace, c.Body, availW) {
			drawText(dst, bodyFace, line, l.Padding, y, bodyColor)
			y += l.BodySize * 1.2
		}
		drawCTA(dst, ctaFace, c.CTA, l.Padding, float64(s.Height)-l.CTAHeight-l.Padding, l.CTAWidth, l.CTAHeight)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// drawText writes s with its top edge at y and a drop shadow.
func drawText(dst draw.Image, face font.Face, s string, x, y float64, c color.NRGBA) {
	if s == "" {
		return
	}
	baseline := y + float64(face.Metrics().Ascent.Round())
	d := font.Drawer{Dst: dst, Src: image.NewUniform(textShadow), Face: face}
	d.Dot = fixed.P(int(math.Round(x))+2, int(math.Round(baseline))+2)
	d.DrawString(s)
	d.Src = image.NewUniform(c)
	d.Dot = fixed.P(int(math.Round(x)), int(math.Round(baseline)))
	d.DrawString(s)
}

func measure(face font.Face, s string) float64 {
	return float64(font.MeasureString(face, s)) / 64
}

// truncate shortens s with "..." until it fits in maxW.
func truncate(face font.Face, s string, maxW float64) string {
	if measure(face, s) <= maxW {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && measure(face, string(r)+"...") > maxW {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

// wrap breaks s into lines no wider than maxW. A single word wider than maxW
// gets a line of its own.
func wrap(face font.Face, s string, maxW float64) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(s) {
		test := word
		if line != "" {
			test = line + " " + word
		}
		if measure(face, test) > maxW && line != "" {
			lines = append(lines, line)
			line = word
			continue
		}
		line = test
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

func drawCTA(dst draw.Image, face font.Face, label string, x, y, w, h float64) {
	r := image.Rect(int(math.Round(x)), int(math.Round(y)), int(math.Round(x+w)), int(math.Round(y+h)))
	if r.Empty() {
		return
	}
	radius := math.Min(20, float64(min(r.Dx(), r.Dy()))/2)
	draw.DrawMask(dst, r, linearGradient{r, ctaStops}, r.Min, roundedRect{r, radius}, r.Min, draw.Over)

	label = strings.ToUpper(label)
	m := face.Metrics()
	tw := measure(face, label)
	tx := float64(r.Min.X) + (float64(r.Dx())-tw)/2
	baseline := float64(r.Min.Y) + (float64(r.Dy())+float64(m.Ascent.Round())-float64(m.Descent.Round()))/2
	d := font.Drawer{Dst: dst, Src: image.NewUniform(headlineColor), Face: face}
	d.Dot = fixed.P(int(math.Round(tx)), int(math.Round(baseline)))
	d.DrawString(label)
}
