package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aslectra/backend/internal/models"
	"github.com/aslectra/backend/internal/repositories"
	"github.com/aslectra/backend/internal/services"
	"github.com/aslectra/backend/internal/session"
	"github.com/aslectra/backend/internal/testutil"
)

func okHandler(c echo.Context) error {
	if u := CurrentUser(c); u != nil {
		return c.String(http.StatusOK, u.Email)
	}
	return c.String(http.StatusOK, "guest")
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthMiddleware(t *testing.T) {
	db := testutil.NewDB(t)
	users := repositories.NewUserRepository(db)
	auth := services.NewAuthService(users, "secret")
	user := testutil.CreateUser(t, db, "jane@example.com", models.RoleUser)

	e := echo.New()
	e.GET("/api/me", okHandler, JWTAuthMiddleware(auth, users))

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Token abc")
	assert.Equal(t, http.StatusUnauthorized, serve(e, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, serve(e, req).Code)

	token, err := auth.GenerateToken(user)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = serve(e, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jane@example.com", rec.Body.String())

	// token of a deleted account
	ghost, err := auth.GenerateToken(&models.User{ID: 999})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+ghost)
	assert.Equal(t, http.StatusUnauthorized, serve(e, req).Code)
}

func TestSessionMiddlewares(t *testing.T) {
	db := testutil.NewDB(t)
	users := repositories.NewUserRepository(db)
	member := testutil.CreateUser(t, db, "member@example.com", models.RoleUser)
	admin := testutil.CreateUser(t, db, "admin@example.com", models.RoleAdmin)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	store := session.NewStore(client, time.Hour, false)

	e := echo.New()
	e.Use(LoadSession(store, users))
	e.GET("/open", okHandler)
	e.GET("/private", okHandler, RequireAuth())
	e.GET("/admin", okHandler, RequireAuth(), RequireAdmin())

	login := func(u *models.User) *http.Cookie {
		w := httptest.NewRecorder()
		_, err := store.Create(t.Context(), w, &session.Data{UserID: u.ID, Role: u.Role})
		require.NoError(t, err)
		return w.Result().Cookies()[0]
	}
	get := func(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		return serve(e, req)
	}

	rec := get("/open", nil)
	assert.Equal(t, "guest", rec.Body.String())

	rec = get("/private", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	memberCookie := login(member)
	rec = get("/private", memberCookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "member@example.com", rec.Body.String())

	assert.Equal(t, http.StatusForbidden, get("/admin", memberCookie).Code)
	assert.Equal(t, http.StatusOK, get("/admin", login(admin)).Code)

	// unknown session id behaves as a guest
	rec = get("/private", &http.Cookie{Name: session.CookieName, Value: "missing"})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestNumericParams(t *testing.T) {
	e := echo.New()
	e.GET("/delete/:actuality_id", okHandler, NumericParams("actuality_id"))

	assert.Equal(t, http.StatusOK, serve(e, httptest.NewRequest(http.MethodGet, "/delete/12", nil)).Code)
	assert.Equal(t, http.StatusNotFound, serve(e, httptest.NewRequest(http.MethodGet, "/delete/abc", nil)).Code)
	assert.Equal(t, http.StatusNotFound, serve(e, httptest.NewRequest(http.MethodGet, "/delete/1a", nil)).Code)
}
