package textgen

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when a reply contains no JSON object at all.
var ErrNoJSON = errors.New("textgen: no JSON object in response")

// CleanJSON strips surrounding whitespace and markdown code fences.
func CleanJSON(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop the info string ("json", "JSON", ...) on the opening fence line.
	if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.ContainsAny(s[:i], "{[") {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(strings.TrimPrefix(s, "json"), "JSON")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// DecodeJSON parses a model reply into v. It first tries the fence-stripped
// text and then the outermost {...} span, since models often wrap JSON in prose.
func DecodeJSON(reply string, v any) error {
	cleaned := CleanJSON(reply)
	err := json.Unmarshal([]byte(cleaned), v)
	if err == nil {
		return nil
	}
	start := strings.IndexByte(cleaned, '{')
	end := strings.LastIndexByte(cleaned, '}')
	if start < 0 || end <= start {
		return ErrNoJSON
	}
	if err2 := json.Unmarshal([]byte(cleaned[start:end+1]), v); err2 != nil {
		return fmt.Errorf("textgen: decode reply: %w", err)
	}
	return nil
}
