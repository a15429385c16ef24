package textgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// OpenAI talks to any OpenAI-compatible chat/completions endpoint.
type OpenAI struct {
	client      *resty.Client
	model       string
	temperature float64
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *APIError `json:"error,omitempty"`
}

// APIError is the error object returned by OpenAI-style APIs.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *APIError) Error() string {
	return e.Type + ": " + e.Message
}

// NewOpenAI creates an OpenAI provider from cfg.
func NewOpenAI(cfg Config) *OpenAI {
	cfg.setDefaults()
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.OpenAIBaseURL, "/")).
		SetAuthToken(cfg.OpenAIKey).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")
	return &OpenAI{client: client, model: cfg.OpenAIModel, temperature: cfg.Temperature}
}

func (o *OpenAI) Name() string { return "openai:" + o.model }

// Generate sends prompt as a single user message and returns the reply.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	var out chatResponse
	resp, err := o.client.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model:       o.model,
			Messages:    []chatMessage{{Role: "user", Content: prompt}},
			Temperature: o.temperature,
		}).
		SetResult(&out).
		SetError(&out).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("openai: request: %w", err)
	}
	if resp.IsError() {
		if out.Error != nil {
			return "", fmt.Errorf("openai: %s: %w", resp.Status(), out.Error)
		}
		return "", fmt.Errorf("openai: %s: %s", resp.Status(), resp.String())
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("openai: empty response")
	}
	return out.Choices[0].Message.Content, nil
}
