package middleware

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aslectra/backend/internal/repositories"
	"github.com/aslectra/backend/internal/session"
)

// LoadSession resolves the session cookie to the current user. It does not
// enforce authentication. A session whose user no longer exists is ignored.
func LoadSession(store *session.Store, users repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			data, err := store.Get(ctx, c.Request())
			if err != nil {
				slog.Warn("failed to load session", "error", err)
				return next(c)
			}
			if data == nil {
				return next(c)
			}

			user, err := users.GetUserByID(ctx, data.UserID)
			if err != nil {
				return next(c)
			}

			SetCurrentSession(c, data)
			SetCurrentUser(c, user)
			return next(c)
		}
	}
}

// RequireAuth redirects guests to the login page.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			return next(c)
		}
	}
}

// RequireAdmin answers 403 unless the current user is an admin.
// The role is read from the stored user, so a revoked admin loses access
// on the next request.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !CurrentUser(c).IsAdmin() {
				return echo.NewHTTPError(http.StatusForbidden, "Accès réservé aux administrateurs")
			}
			return next(c)
		}
	}
}

// NumericParams answers 404 when one of the named path parameters is not
// made of digits only.
func NumericParams(names ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, name := range names {
				if !isDigits(c.Param(name)) {
					return echo.ErrNotFound
				}
			}
			return next(c)
		}
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
