package textgen

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fence same line", "```json {\"a\":1}```", `{"a":1}`},
		{"whitespace", "  \n{\"a\":1}\n  ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanJSON(tt.in); got != tt.want {
				t.Errorf("CleanJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type reply struct {
		Content  string   `json:"content"`
		Hashtags []string `json:"hashtags"`
	}

	var r reply
	if err := DecodeJSON("Sure! Here it is:\n{\"content\":\"hi\",\"hashtags\":[\"#a\"]}\nEnjoy.", &r); err != nil {
		t.Fatalf("DecodeJSON with prose: %v", err)
	}
	if r.Content != "hi" || len(r.Hashtags) != 1 {
		t.Errorf("decoded %+v", r)
	}

	if err := DecodeJSON("no json here", &r); !errors.Is(err, ErrNoJSON) {
		t.Errorf("err = %v, want ErrNoJSON", err)
	}
	if err := DecodeJSON("{broken", &r); err == nil {
		t.Errorf("expected error for broken JSON")
	}
}

func TestNewSelectsProvider(t *testing.T) {
	ctx := context.Background()

	p, err := New(ctx, Config{})
	if err != nil {
		t.Fatal(err)
	}
	if Configured(p) {
		t.Errorf("provider without keys should be disabled, got %s", p.Name())
	}

	p, err = New(ctx, Config{OpenAIKey: "k"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*OpenAI); !ok {
		t.Errorf("expected OpenAI provider, got %T", p)
	}

	if _, err := New(ctx, Config{Provider: "bogus"}); err == nil {
		t.Errorf("expected error for unknown provider")
	}
}

func TestOpenAIGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "gpt-test" || len(req.Messages) != 1 {
			t.Errorf("request = %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello"}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAI(Config{OpenAIKey: "test-key", OpenAIBaseURL: srv.URL, OpenAIModel: "gpt-test"})
	got, err := p.Generate(context.Background(), "say hello")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "hello" {
		t.Errorf("Generate = %q", got)
	}
}

func TestOpenAIGenerateError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	p := NewOpenAI(Config{OpenAIKey: "k", OpenAIBaseURL: srv.URL})
	if _, err := p.Generate(context.Background(), "x"); err == nil {
		t.Fatal("expected error on 429")
	}
}

func TestDisabled(t *testing.T) {
	if _, err := (Disabled{}).Generate(context.Background(), "x"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v", err)
	}
}
