package router_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aslectra/backend/internal/mail"
	"github.com/aslectra/backend/internal/models"
	"github.com/aslectra/backend/internal/router"
	"github.com/aslectra/backend/internal/session"
	"github.com/aslectra/backend/internal/storage"
	"github.com/aslectra/backend/internal/testutil"
	"github.com/aslectra/backend/internal/views"
)

const csrfToken = "test-csrf-token"

var pngImage = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R', 0, 0, 0, 1, 0, 0, 0, 1}

type testApp struct {
	t        *testing.T
	e        *echo.Echo
	db       *gorm.DB
	sessions *session.Store
	images   *storage.MemoryStore
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.NewDB(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	renderer, err := views.New()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := &testApp{
		t:        t,
		e:        echo.New(),
		db:       db,
		sessions: session.NewStore(client, 0, false),
		images:   storage.NewMemoryStore(),
	}

	router.SetupMiddleware(app.e, router.MiddlewareOptions{BodyLimit: "2M"})
	notifier, err := router.SetupRoutes(app.e, router.Deps{
		DB:        db,
		Sessions:  app.sessions,
		Renderer:  renderer,
		Images:    app.images,
		Mailer:    mail.NewLogMailer(logger),
		JWTSecret: "test-secret",
		AppURL:    "http://aslectra.test",
		Logger:    logger,
	})
	require.NoError(t, err)
	t.Cleanup(notifier.Wait)
	return app
}

// client is a browser holding a session cookie and the CSRF cookie.
type client struct {
	app     *testApp
	cookies []*http.Cookie
}

func (a *testApp) guest() *client {
	return &client{app: a, cookies: []*http.Cookie{{Name: "_csrf", Value: csrfToken}}}
}

func (a *testApp) login(user *models.User) *client {
	a.t.Helper()
	rec := httptest.NewRecorder()
	_, err := a.sessions.Create(context.Background(), rec, &session.Data{UserID: user.ID, Role: user.Role})
	require.NoError(a.t, err)

	c := a.guest()
	c.cookies = append(c.cookies, rec.Result().Cookies()...)
	return c
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c.app.e.ServeHTTP(rec, req)
	return rec
}

func (c *client) get(target string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (c *client) postForm(target string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	form.Set("_token", csrfToken)
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return c.do(req)
}

func (c *client) postMultipart(target string, fields map[string]string, image []byte) *httptest.ResponseRecorder {
	c.app.t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(c.app.t, w.WriteField("_token", csrfToken))
	for k, v := range fields {
		require.NoError(c.app.t, w.WriteField(k, v))
	}
	if image != nil {
		part, err := w.CreateFormFile("image", "upload.png")
		require.NoError(c.app.t, err)
		_, err = part.Write(image)
		require.NoError(c.app.t, err)
	}
	require.NoError(c.app.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return c.do(req)
}

// flashes returns the messages queued in the client's session.
func (c *client) flashes() map[string][]string {
	c.app.t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	data, err := c.app.sessions.Get(context.Background(), req)
	require.NoError(c.app.t, err)
	require.NotNil(c.app.t, data)
	return data.Flashes
}

func (a *testApp) count(model any, query string, args ...any) int64 {
	a.t.Helper()
	var n int64
	require.NoError(a.t, a.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
