package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aslectra/backend/internal/middleware"
	"github.com/aslectra/backend/internal/models"
	"github.com/aslectra/backend/internal/repositories"
	"github.com/aslectra/backend/internal/services"
	"github.com/aslectra/backend/internal/session"
	"github.com/aslectra/backend/internal/validators"
	"github.com/aslectra/backend/internal/views"
)

// PreferenceHandler lets users choose the categories of their feed
type PreferenceHandler struct {
	Base
	feed        services.FeedService
	preferences repositories.PreferenceRepository
	categories  repositories.CategoryRepository
}

func NewPreferenceHandler(base Base, feed services.FeedService, preferences repositories.PreferenceRepository, categories repositories.CategoryRepository) *PreferenceHandler {
	return &PreferenceHandler{
		Base:        base,
		feed:        feed,
		preferences: preferences,
		categories:  categories,
	}
}

// RegisterPreferenceRoutes registers preference routes on an authenticated group
func (h *PreferenceHandler) RegisterPreferenceRoutes(g *echo.Group) {
	g.GET("", h.Index)
	g.GET("/create", h.Index)
	g.POST("/store", h.Store)
	g.GET("/delete/:category_id", h.Delete, middleware.NumericParams("category_id"))
}

func (h *PreferenceHandler) Index(c echo.Context) error {
	summaries, err := h.feed.CategorySummaries(c.Request().Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, "preferences", &views.Page{
		Title:   "Préférences",
		Section: "preferences",
		Data:    map[string]any{"Categories": summaries},
	})
}

// Store replaces the user's preferences with the checked categories.
func (h *PreferenceHandler) Store(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.PreferencesRequest
	if err := c.Bind(&req); err != nil {
		return h.redirectWith(c, "/preferences/create", session.FlashError, validators.ExistsMessage("category_id"))
	}

	categories, err := h.categories.GetCategories(ctx)
	if err != nil {
		return err
	}
	known := make(map[uint]bool, len(categories))
	for _, cat := range categories {
		known[cat.ID] = true
	}
	for _, id := range req.CategoryIDs {
		if !known[id] {
			return h.redirectWith(c, "/preferences/create", session.FlashError, validators.ExistsMessage("category_id"))
		}
	}

	if err := h.preferences.SyncPreferences(ctx, middleware.CurrentUser(c).ID, req.CategoryIDs); err != nil {
		return err
	}
	return h.redirectWith(c, "/", session.FlashSuccess, "Préférences enregistrées")
}

func (h *PreferenceHandler) Delete(c echo.Context) error {
	categoryID, err := paramID(c, "category_id")
	if err != nil {
		return err
	}
	if err := h.preferences.RemovePreference(c.Request().Context(), middleware.CurrentUser(c).ID, categoryID); err != nil {
		return err
	}
	return h.redirectWith(c, back(c, "/preferences/create"), session.FlashSuccess, "Préférence supprimée")
}
