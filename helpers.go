package marketdesk

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

// AbsoluteURL resolves ref against base. Absolute refs are returned unchanged.
func AbsoluteURL(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// FilterEmpty trims every value and drops the empty ones.
func FilterEmpty(vals []string) []string {
	out := []string{}
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// readBody returns the raw request body. An empty body reads as "{}".
func readBody(c echo.Context) ([]byte, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, newAPIError(http.StatusBadRequest, "Failed to read request body", err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return []byte("{}"), nil
	}
	return body, nil
}

// decodeJSON unmarshals body into v, merging over any values already in v.
func decodeJSON(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return newAPIError(http.StatusBadRequest, "Invalid JSON body", err)
	}
	return nil
}

// bindJSON decodes the request body into v and runs its validation.
func bindJSON(c echo.Context, v interface{ Validate() error }) error {
	body, err := readBody(c)
	if err != nil {
		return err
	}
	if err := decodeJSON(body, v); err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return newAPIError(http.StatusBadRequest, "invalid request", err)
	}
	return nil
}
