package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/aslectra/backend/internal/middleware"
	"github.com/aslectra/backend/internal/session"
	"github.com/aslectra/backend/internal/views"
)

// Base carries what every HTML handler needs to render pages and flash
// messages.
type Base struct {
	sessions *session.Store
}

func NewBase(sessions *session.Store) Base {
	return Base{sessions: sessions}
}

// render fills the request-scoped parts of p and renders the named page.
func (b Base) render(c echo.Context, status int, name string, p *views.Page) error {
	p.User = middleware.CurrentUser(c)
	if token, ok := c.Get(echomw.DefaultCSRFConfig.ContextKey).(string); ok {
		p.CSRFToken = token
	}
	if data := middleware.CurrentSession(c); data != nil {
		flashes, err := b.sessions.PopFlashes(c.Request().Context(), data)
		if err != nil {
			slog.Warn("failed to read flashes", "error", err)
		}
		p.Flashes = flashes
	}
	return c.Render(status, name, p)
}

// flash queues a message for the next page. Guests have no session and
// silently lose it.
func (b Base) flash(c echo.Context, kind, message string) {
	data := middleware.CurrentSession(c)
	if data == nil {
		return
	}
	if err := b.sessions.AddFlash(c.Request().Context(), data, kind, message); err != nil {
		slog.Warn("failed to store flash", "error", err)
	}
}

func (b Base) redirectWith(c echo.Context, to, kind, message string) error {
	b.flash(c, kind, message)
	return c.Redirect(http.StatusSeeOther, to)
}

// back returns the local path of the referring page, or fallback.
func back(c echo.Context, fallback string) string {
	ref, err := url.Parse(c.Request().Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != c.Request().Host) {
		return fallback
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}

func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound)
	}
	return uint(id), nil
}

func pageParam(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func formValues(c echo.Context, names ...string) map[string]string {
	values := make(map[string]string, len(names))
	for _, n := range names {
		values[n] = c.FormValue(n)
	}
	return values
}
