package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aslectra/backend/internal/middleware"
	"github.com/aslectra/backend/internal/models"
	"github.com/aslectra/backend/internal/repositories"
	"github.com/aslectra/backend/internal/session"
	"github.com/aslectra/backend/internal/views"
)

// UserHandler lists members and lets them edit their own profile
type UserHandler struct {
	Base
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(base Base, userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{Base: base, userRepository: userRepo}
}

// RegisterUserRoutes registers member routes. admin guards the role toggle.
func (h *UserHandler) RegisterUserRoutes(g *echo.Group, admin echo.MiddlewareFunc) {
	g.GET("", h.Index)
	g.GET("/edit", h.Edit)
	g.POST("/update", h.Update)
	g.GET("/role/:user_id", h.ToggleRole, middleware.NumericParams("user_id"), admin)
}

func (h *UserHandler) Index(c echo.Context) error {
	users, err := h.userRepository.GetUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, "users", &views.Page{
		Title:   "Membres",
		Section: "users",
		Data:    map[string]any{"Users": users},
	})
}

func (h *UserHandler) Edit(c echo.Context) error {
	user := middleware.CurrentUser(c)
	return h.render(c, http.StatusOK, "user_form", &views.Page{
		Title:   "Mon profil",
		Section: "users",
		Form: map[string]string{
			"name":     user.Name,
			"forename": user.Forename,
			"avatar":   user.Avatar,
		},
	})
}

// Update saves the current user's own profile.
func (h *UserHandler) Update(c echo.Context) error {
	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Requête invalide")
	}
	if err := c.Validate(&req); err != nil {
		errs := map[string]string{}
		mergeErrors(errs, err)
		return h.render(c, http.StatusUnprocessableEntity, "user_form", &views.Page{
			Title:   "Mon profil",
			Section: "users",
			Errors:  errs,
			Form:    formValues(c, "name", "forename", "avatar"),
		})
	}

	user := middleware.CurrentUser(c)
	user.Name = req.Name
	user.Forename = req.Forename
	user.Avatar = req.Avatar
	if err := h.userRepository.UpdateUser(c.Request().Context(), user); err != nil {
		return err
	}
	return h.redirectWith(c, "/users", session.FlashSuccess, "Profil mis à jour")
}

// ToggleRole promotes a member to admin or demotes an admin. Admins cannot
// demote themselves, so there is always at least one admin left.
func (h *UserHandler) ToggleRole(c echo.Context) error {
	id, err := paramID(c, "user_id")
	if err != nil {
		return err
	}
	if id == middleware.CurrentUser(c).ID {
		return h.redirectWith(c, "/users", session.FlashError, "Vous ne pouvez pas modifier votre propre rôle")
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return err
	}

	role, message := models.RoleAdmin, "Rôle administrateur attribué"
	if user.IsAdmin() {
		role, message = models.RoleUser, "Rôle administrateur retiré"
	}
	if err := h.userRepository.SetRole(ctx, id, role); err != nil {
		return err
	}
	return h.redirectWith(c, "/users", session.FlashSuccess, message)
}
