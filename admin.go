package marketdesk

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type loginRequest struct {
	Password string `json:"password" form:"password"`
}

// loginPassword reads the login password from a JSON body or a form post.
func loginPassword(c echo.Context) (string, error) {
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		body, err := readBody(c)
		if err != nil {
			return "", err
		}
		var req loginRequest
		if err := decodeJSON(body, &req); err != nil {
			return "", err
		}
		return req.Password, nil
	}
	return c.FormValue("password"), nil
}

func (a *App) handleLogin(c echo.Context) error {
	if a.Config.DisableAuth {
		return c.JSON(http.StatusOK, map[string]bool{"success": true})
	}
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return jsonError(c, http.StatusTooManyRequests, "Too many login attempts. Try again later.", nil)
	}
	pass, err := loginPassword(c)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) != 1 {
		a.loginLimiter.Record(ip)
		a.Log.Warn("failed login", zap.String("ip", ip))
		return jsonError(c, http.StatusUnauthorized, "Invalid password", nil)
	}
	if err := setAdminSession(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (a *App) handleLogout(c echo.Context) error {
	if !a.Config.DisableAuth {
		if err := clearAdminSession(c); err != nil {
			return err
		}
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

type sessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	CSRFToken     string `json:"csrf_token"`
}

func (a *App) handleSession(c echo.Context) error {
	if a.Config.DisableAuth {
		return c.JSON(http.StatusOK, sessionResponse{Authenticated: true})
	}
	return c.JSON(http.StatusOK, sessionResponse{Authenticated: IsAdmin(c), CSRFToken: CsrfToken(c)})
}
