package marketdesk

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/marketdesk/media"
)

// errorBody is the JSON shape of every API error.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// apiError is a handler failure with its status and public message.
type apiError struct {
	Code    int
	Message string
	Err     error
}

func (e *apiError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *apiError) Unwrap() error { return e.Err }

func newAPIError(code int, msg string, err error) *apiError {
	return &apiError{Code: code, Message: msg, Err: err}
}

func jsonError(c echo.Context, code int, msg string, err error) error {
	body := errorBody{Error: msg}
	if err != nil {
		body.Details = err.Error()
	}
	return c.JSON(code, body)
}

// lookupErr maps store errors for a single-row lookup.
func lookupErr(what string, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return newAPIError(http.StatusNotFound, what+" not found", nil)
	case errors.Is(err, ErrNotConfigured):
		return newAPIError(http.StatusServiceUnavailable, "Database not configured", err)
	}
	return newAPIError(http.StatusInternalServerError, "Failed to load "+what, err)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := "Internal server error"
	var details error

	var ae *apiError
	var he *echo.HTTPError
	switch {
	case errors.As(err, &ae):
		code, msg, details = ae.Code, ae.Message, ae.Err
	case errors.As(err, &he):
		code = he.Code
		msg = http.StatusText(code)
		if m, ok := he.Message.(string); ok && m != "" {
			msg = m
		}
		details = he.Internal
	default:
		details = err
	}

	if code >= 500 {
		a.Log.Error("server error",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err))
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = jsonError(c, code, msg, details)
}

// handlePlaceholder renders the SVG behind every placeholder media URL.
func (a *App) handlePlaceholder(c echo.Context) error {
	svg := media.PlaceholderSVG(c.QueryParam("width"), c.QueryParam("height"), c.QueryParam("text"))
	return c.Blob(http.StatusOK, "image/svg+xml", svg)
}

// handleMedia streams a stored blob.
func (a *App) handleMedia(c echo.Context) error {
	key := c.Param("*")
	rc, contentType, err := a.Blobs.Open(c.Request().Context(), key)
	if err != nil {
		if errors.Is(err, media.ErrBlobNotFound) {
			return newAPIError(http.StatusNotFound, "Media not found", nil)
		}
		return newAPIError(http.StatusBadRequest, "Invalid media key", err)
	}
	defer rc.Close()
	return c.Stream(http.StatusOK, contentType, rc)
}

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
