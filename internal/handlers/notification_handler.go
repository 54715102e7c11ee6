package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aslectra/backend/internal/middleware"
	"github.com/aslectra/backend/internal/models"
	"github.com/aslectra/backend/internal/repositories"
	"github.com/aslectra/backend/internal/views"
)

const notificationsPerPage = 20

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	Base
	notificationRepository repositories.NotificationRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(base Base, notifRepo repositories.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{Base: base, notificationRepository: notifRepo}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("", h.GetNotifications)
	g.POST("/read-all", h.MarkAllAsRead)
	g.POST("/:id/read", h.MarkAsRead, middleware.NumericParams("id"))
}

// GetNotifications lists the current user's notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.CurrentUser(c).ID
	page := pageParam(c)

	notifications, total, err := h.notificationRepository.GetByRecipientID(ctx, userID, page, notificationsPerPage)
	if err != nil {
		return err
	}
	unread, err := h.notificationRepository.GetUnreadCount(ctx, userID)
	if err != nil {
		return err
	}

	return h.render(c, http.StatusOK, "notifications", &views.Page{
		Title:   "Notifications",
		Section: "notifications",
		Data: map[string]any{
			"Notifications": notifications,
			"Unread":        unread,
			"Pagination":    models.NewPagination(page, notificationsPerPage, total),
		},
	})
}

// MarkAsRead marks one notification of the current user as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.notificationRepository.MarkAsRead(c.Request().Context(), id, middleware.CurrentUser(c).ID); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, back(c, "/notifications"))
}

// MarkAllAsRead marks every notification of the current user as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	if err := h.notificationRepository.MarkAllAsRead(c.Request().Context(), middleware.CurrentUser(c).ID); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/notifications")
}
