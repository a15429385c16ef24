// Package media produces images and videos for posts. Every call resolves to a
// usable URL: a stored blob when a provider delivers, a placeholder otherwise.
package media

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eringen/marketdesk/outcome"
)

// ImageBackend renders a still image for a prompt.
type ImageBackend interface {
	Name() string
	Image(ctx context.Context, prompt string, aspect AspectRatio) ([]byte, string, error)
}

// VideoBackend renders a short clip for a prompt.
type VideoBackend interface {
	Name() string
	Video(ctx context.Context, prompt string, aspect AspectRatio) ([]byte, string, error)
}

// Generator tries each backend in order and falls back to a placeholder.
type Generator struct {
	images []ImageBackend
	videos []VideoBackend
	blobs  BlobStore
	log    *zap.Logger
	now    func() time.Time
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithImageBackends appends image backends in priority order.
func WithImageBackends(b ...ImageBackend) GeneratorOption {
	return func(g *Generator) { g.images = append(g.images, b...) }
}

// WithVideoBackends appends video backends in priority order.
func WithVideoBackends(b ...VideoBackend) GeneratorOption {
	return func(g *Generator) { g.videos = append(g.videos, b...) }
}

// WithLogger sets the logger used for degradations.
func WithLogger(l *zap.Logger) GeneratorOption {
	return func(g *Generator) { g.log = l }
}

// NewGenerator builds a Generator that stores results in blobs.
func NewGenerator(blobs BlobStore, opts ...GeneratorOption) *Generator {
	g := &Generator{blobs: blobs, log: zap.NewNop(), now: time.Now}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Image returns a URL for an image matching prompt.
func (g *Generator) Image(ctx context.Context, prompt string, aspect AspectRatio) outcome.Result[string] {
	var errs []error
	for _, b := range g.images {
		data, ct, err := b.Image(ctx, prompt, aspect)
		if err == nil {
			url, err := g.store(ctx, data, ct, ".png")
			if err == nil {
				return outcome.Success(url)
			}
			errs = append(errs, fmt.Errorf("%s: store: %w", b.Name(), err))
			continue
		}
		errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
	}
	return g.placeholder(PlaceholderURL(prompt, aspect), "image", errs)
}

// Video returns a URL for a video matching prompt.
func (g *Generator) Video(ctx context.Context, prompt string, aspect AspectRatio) outcome.Result[string] {
	var errs []error
	for _, b := range g.videos {
		data, ct, err := b.Video(ctx, prompt, aspect)
		if err == nil {
			url, err := g.store(ctx, data, ct, ".mp4")
			if err == nil {
				return outcome.Success(url)
			}
			errs = append(errs, fmt.Errorf("%s: store: %w", b.Name(), err))
			continue
		}
		errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
	}
	return g.placeholder(VideoPlaceholderURL(prompt, aspect), "video", errs)
}

func (g *Generator) store(ctx context.Context, data []byte, contentType, ext string) (string, error) {
	if g.blobs == nil {
		return "", errors.New("no blob store")
	}
	if len(data) == 0 {
		return "", errors.New("empty payload")
	}
	key := fmt.Sprintf("social-post-%d-%s%s", g.now().UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:8], ext)
	return g.blobs.Put(ctx, key, contentType, data)
}

func (g *Generator) placeholder(url, kind string, errs []error) outcome.Result[string] {
	reason := kind + " provider not configured"
	if len(errs) > 0 {
		reason = errors.Join(errs...).Error()
	}
	g.log.Warn("media placeholder", zap.String("kind", kind), zap.String("reason", reason))
	return outcome.Degraded(url, reason)
}
