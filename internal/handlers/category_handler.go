package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "github.com/aslectra/backend/internal/errors"
	"github.com/aslectra/backend/internal/middleware"
	"github.com/aslectra/backend/internal/models"
	"github.com/aslectra/backend/internal/repositories"
	"github.com/aslectra/backend/internal/services"
	"github.com/aslectra/backend/internal/session"
	"github.com/aslectra/backend/internal/views"
)

// CategoryHandler serves the category summary API and the admin pages
type CategoryHandler struct {
	Base
	feed       services.FeedService
	categories repositories.CategoryRepository
}

func NewCategoryHandler(base Base, feed services.FeedService, categories repositories.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{Base: base, feed: feed, categories: categories}
}

// RegisterAPIRoutes registers the category summary endpoint
func (h *CategoryHandler) RegisterAPIRoutes(g *echo.Group) {
	g.GET("/categories", h.APIIndex)
}

// RegisterAdminRoutes registers category management. g must be admin-only.
func (h *CategoryHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("", h.Index)
	g.GET("/create", h.Create)
	g.POST("/store", h.Store)
	g.GET("/edit/:category_id", h.Edit, middleware.NumericParams("category_id"))
	g.POST("/update/:category_id", h.Update, middleware.NumericParams("category_id"))
	g.GET("/delete/:category_id", h.Delete, middleware.NumericParams("category_id"))
}

// APIIndex returns every category with its post count and the caller's
// preference flag.
func (h *CategoryHandler) APIIndex(c echo.Context) error {
	summaries, err := h.feed.CategorySummaries(c.Request().Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summaries)
}

func (h *CategoryHandler) Index(c echo.Context) error {
	categories, err := h.categories.GetCategories(c.Request().Context())
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, "categories", &views.Page{
		Title:   "Catégories",
		Section: "categories",
		Data:    map[string]any{"Categories": categories},
	})
}

func (h *CategoryHandler) Create(c echo.Context) error {
	return h.renderForm(c, http.StatusOK, "Nouvelle catégorie", "/categories/store",
		map[string]string{"color": "#028FCC", "order": "0"}, nil)
}

func (h *CategoryHandler) renderForm(c echo.Context, status int, title, action string, form, errs map[string]string) error {
	return h.render(c, status, "category_form", &views.Page{
		Title:   title,
		Section: "categories",
		Errors:  errs,
		Form:    form,
		Data:    map[string]any{"Action": action},
	})
}

// bindCategory validates the form and checks the name is not taken by
// another category than exceptID.
func (h *CategoryHandler) bindCategory(c echo.Context, exceptID uint) (models.CategoryRequest, map[string]string, error) {
	var req models.CategoryRequest
	errs := map[string]string{}
	if err := c.Bind(&req); err != nil {
		errs["order"] = "Le champ ordre doit être un nombre."
		return req, errs, nil
	}
	if err := c.Validate(&req); err != nil {
		mergeErrors(errs, err)
	}
	if _, failed := errs["name"]; !failed {
		existing, err := h.categories.GetCategoryByName(c.Request().Context(), req.Name)
		switch {
		case err == nil && existing.ID != exceptID:
			errs["name"] = "Cette catégorie existe déjà."
		case err != nil && !apperrors.IsNotFound(err):
			return req, nil, err
		}
	}
	return req, errs, nil
}

func (h *CategoryHandler) Store(c echo.Context) error {
	req, errs, err := h.bindCategory(c, 0)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return h.renderForm(c, http.StatusUnprocessableEntity, "Nouvelle catégorie", "/categories/store",
			formValues(c, "name", "color", "order"), errs)
	}

	category := &models.Category{Name: req.Name, Color: req.Color, Order: req.Order}
	if err := h.categories.CreateCategory(c.Request().Context(), category); err != nil {
		return err
	}
	return h.redirectWith(c, "/categories", session.FlashSuccess, "Catégorie créée")
}

func (h *CategoryHandler) Edit(c echo.Context) error {
	id, err := paramID(c, "category_id")
	if err != nil {
		return err
	}
	category, err := h.categories.GetCategoryByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	form := map[string]string{
		"name":  category.Name,
		"color": category.Color,
		"order": strconv.Itoa(category.Order),
	}
	return h.renderForm(c, http.StatusOK, "Modifier la catégorie", fmt.Sprintf("/categories/update/%d", id), form, nil)
}

func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := paramID(c, "category_id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	category, err := h.categories.GetCategoryByID(ctx, id)
	if err != nil {
		return err
	}

	req, errs, err := h.bindCategory(c, id)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return h.renderForm(c, http.StatusUnprocessableEntity, "Modifier la catégorie", fmt.Sprintf("/categories/update/%d", id),
			formValues(c, "name", "color", "order"), errs)
	}

	category.Name = req.Name
	category.Color = req.Color
	category.Order = req.Order
	if err := h.categories.UpdateCategory(ctx, category); err != nil {
		return err
	}
	return h.redirectWith(c, "/categories", session.FlashSuccess, "Catégorie modifiée")
}

func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "category_id")
	if err != nil {
		return err
	}

	err = h.categories.DeleteCategory(c.Request().Context(), id)
	if errors.Is(err, apperrors.ErrCategoryNotEmpty) {
		return h.redirectWith(c, "/categories", session.FlashError, "La catégorie contient encore des actualités")
	}
	if err != nil {
		return err
	}
	return h.redirectWith(c, "/categories", session.FlashSuccess, "Catégorie supprimée")
}
