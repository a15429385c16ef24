// Package textgen wraps the text-generation providers used to write posts,
// blogs, keyword reports and brand profiles.
package textgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotConfigured is returned by providers that have no credentials.
var ErrNotConfigured = errors.New("textgen: provider not configured")

// Provider turns a prompt into generated text.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Disabled is the provider used when no API key is available.
type Disabled struct{}

func (Disabled) Name() string { return "disabled" }

func (Disabled) Generate(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}

// Func adapts an ordinary function to the Provider interface.
type Func func(ctx context.Context, prompt string) (string, error)

func (Func) Name() string { return "func" }

func (f Func) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Configured reports whether p can actually reach a model.
func Configured(p Provider) bool {
	if p == nil {
		return false
	}
	_, off := p.(Disabled)
	return !off
}

// Config selects and configures a provider.
type Config struct {
	Provider string // "openai", "gemini" or "" to pick whichever has a key

	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string

	GeminiKey   string
	GeminiModel string

	Temperature float64
	Timeout     time.Duration
}

func (c *Config) setDefaults() {
	if c.OpenAIBaseURL == "" {
		c.OpenAIBaseURL = "https://api.openai.com/v1"
	}
	if c.OpenAIModel == "" {
		c.OpenAIModel = "gpt-4o"
	}
	if c.GeminiModel == "" {
		c.GeminiModel = "gemini-2.5-flash"
	}
	if c.Temperature == 0 {
		c.Temperature = 0.8
	}
	if c.Timeout == 0 {
		c.Timeout = 60 * time.Second
	}
}

// New builds the provider named by cfg. Missing credentials yield Disabled,
// not an error.
func New(ctx context.Context, cfg Config) (Provider, error) {
	cfg.setDefaults()
	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if name == "" {
		switch {
		case cfg.OpenAIKey != "":
			name = "openai"
		case cfg.GeminiKey != "":
			name = "gemini"
		default:
			return Disabled{}, nil
		}
	}
	switch name {
	case "openai":
		if cfg.OpenAIKey == "" {
			return Disabled{}, nil
		}
		return NewOpenAI(cfg), nil
	case "gemini":
		if cfg.GeminiKey == "" {
			return Disabled{}, nil
		}
		return NewGemini(ctx, cfg)
	case "disabled", "none":
		return Disabled{}, nil
	}
	return nil, fmt.Errorf("textgen: unknown provider %q", cfg.Provider)
}
