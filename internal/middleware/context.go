package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/aslectra/backend/internal/models"
	"github.com/aslectra/backend/internal/session"
)

const (
	userKey    = "current_user"
	sessionKey = "session"
)

// CurrentUser returns the authenticated user of the request, or nil.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(userKey).(*models.User)
	return user
}

// SetCurrentUser attaches the authenticated user to the request.
func SetCurrentUser(c echo.Context, user *models.User) {
	c.Set(userKey, user)
}

// CurrentSession returns the web session of the request, or nil.
func CurrentSession(c echo.Context) *session.Data {
	data, _ := c.Get(sessionKey).(*session.Data)
	return data
}

// SetCurrentSession attaches a freshly created session to the request.
func SetCurrentSession(c echo.Context, data *session.Data) {
	c.Set(sessionKey, data)
}
