// Package markdown renders blog markdown to sanitized HTML.
package markdown

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
	policy = bluemonday.UGCPolicy()
)

// Render converts md to HTML. Raw HTML in the source is dropped and the
// output passes through a UGC sanitizer.
func Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return policy.Sanitize(buf.String()), nil
}

// Markdown returns a templ.Component that renders src as HTML.
func Markdown(src string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		html, err := Render(src)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, html)
		return err
	})
}

// Article wraps the rendered body in an <article> headed by title.
func Article(title, src string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<article><h1>"+templ.EscapeString(title)+"</h1>"); err != nil {
			return err
		}
		if err := Markdown(src).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</article>")
		return err
	})
}

// Excerpt returns the first paragraph of src as plain text, cut to max runes.
func Excerpt(src string, max int) string {
	for _, block := range strings.Split(src, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" || strings.HasPrefix(block, "#") || strings.HasPrefix(block, "|") || strings.HasPrefix(block, "```") {
			continue
		}
		text := bluemonday.StrictPolicy().Sanitize(mustRender(block))
		text = strings.Join(strings.Fields(text), " ")
		if r := []rune(text); len(r) > max {
			return strings.TrimSpace(string(r[:max-3])) + "..."
		}
		return text
	}
	return ""
}

func mustRender(src string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return src
	}
	return buf.String()
}
