package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/aslectra/backend/internal/storage"
)

// ImageHandler streams images attached to actualities
type ImageHandler struct {
	images storage.ImageStore
}

func NewImageHandler(images storage.ImageStore) *ImageHandler {
	return &ImageHandler{images: images}
}

func (h *ImageHandler) RegisterImageRoutes(g *echo.Group) {
	g.GET("/:id", h.Show)
}

func (h *ImageHandler) Show(c echo.Context) error {
	rc, info, err := h.images.Open(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	defer func() {
		if err := rc.Close(); err != nil {
			slog.Warn("failed to close image stream", "error", err)
		}
	}()

	header := c.Response().Header()
	header.Set("Cache-Control", "private, max-age=86400")
	header.Set(echo.HeaderXContentTypeOptions, "nosniff")
	header.Set(echo.HeaderContentSecurityPolicy, "default-src 'none'; sandbox")
	if info.Size > 0 {
		header.Set(echo.HeaderContentLength, strconv.FormatInt(info.Size, 10))
	}
	return c.Stream(http.StatusOK, info.ContentType, rc)
}
