package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "github.com/aslectra/backend/internal/errors"
	"github.com/aslectra/backend/internal/middleware"
	"github.com/aslectra/backend/internal/views"
)

// ErrorHandler answers JSON for the API and renders the error page for the
// HTML site.
func ErrorHandler(renderer *views.Renderer) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		he := apperrors.Map(err)
		message := he.Message
		if s, ok := message.(string); !ok || s == "" {
			message = http.StatusText(he.Code)
		}

		var rerr error
		switch {
		case c.Request().Method == http.MethodHead:
			rerr = c.NoContent(he.Code)
		case wantsJSON(c) || renderer == nil:
			rerr = c.JSON(he.Code, echo.Map{"message": message})
		default:
			p := &views.Page{
				Title: http.StatusText(he.Code),
				User:  middleware.CurrentUser(c),
				Data:  map[string]any{"Code": he.Code, "Message": message},
			}
			rerr = c.Render(he.Code, "error", p)
		}
		if rerr != nil {
			c.Logger().Error(rerr)
		}
	}
}

func wantsJSON(c echo.Context) bool {
	req := c.Request()
	return strings.HasPrefix(req.URL.Path, "/api/") ||
		strings.Contains(req.Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}
