package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newContext(method, target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestBack(t *testing.T) {
	tests := []struct {
		name    string
		referer string
		want    string
	}{
		{"no referer", "", "/fallback"},
		{"local path", "http://example.com/3?page=2", "/3?page=2"},
		{"other host", "http://evil.test/steal", "/fallback"},
		{"relative", "/notifications", "/notifications"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newContext(http.MethodGet, "http://example.com/actuality/like/1")
			c.Request().Host = "example.com"
			if tt.referer != "" {
				c.Request().Header.Set("Referer", tt.referer)
			}
			assert.Equal(t, tt.want, back(c, "/fallback"))
		})
	}
}

func TestPageParam(t *testing.T) {
	for query, want := range map[string]int{"": 1, "?page=3": 3, "?page=-2": 1, "?page=x": 1} {
		c, _ := newContext(http.MethodGet, "/"+query)
		assert.Equal(t, want, pageParam(c), query)
	}
}

func TestErrorHandler_JSONForAPI(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/api/actualities")
	ErrorHandler(nil)(gorm.ErrRecordNotFound, c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Ressource introuvable"}`, rec.Body.String())
}

func TestErrorHandler_InternalError(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/api/categories")
	ErrorHandler(nil)(errors.New("boom"), c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}
