package handlers

import (
	"pasar/internal/middleware"
	"pasar/internal/services"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler handles HTTP requests for the recipient-facing
// notification surface. Every route requires authentication.
type NotificationHandler struct {
	service     *services.NotificationService
	authService *services.AuthService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(service *services.NotificationService, authService *services.AuthService) *NotificationHandler {
	return &NotificationHandler{
		service:     service,
		authService: authService,
	}
}

// RegisterRoutes registers the notification routes with the Fiber app.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	notificationRoutes := router.Group("/notifications", middleware.AuthRequired(h.authService))
	notificationRoutes.Get("/", h.HandleList)
	notificationRoutes.Get("/unread-count", h.HandleUnreadCount)
	notificationRoutes.Post("/read-all", h.HandleMarkAllRead)
	notificationRoutes.Get("/:id", h.HandleGet)
	notificationRoutes.Post("/:id/read", h.HandleMarkRead)
}

// HandleList returns the caller's notifications, newest first.
func (h *NotificationHandler) HandleList(c *fiber.Ctx) error {
	notifications, err := h.service.List(middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(notifications)
}

// HandleUnreadCount returns the caller's unread notification count.
func (h *NotificationHandler) HandleUnreadCount(c *fiber.Ctx) error {
	count, err := h.service.UnreadCount(middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"unread": count,
	})
}

// HandleGet returns a single notification, recipient only.
func (h *NotificationHandler) HandleGet(c *fiber.Ctx) error {
	notification, err := h.service.GetForRecipient(c.Params("id"), middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(notification)
}

// HandleMarkRead marks one notification as read. Idempotent.
func (h *NotificationHandler) HandleMarkRead(c *fiber.Ctx) error {
	if err := h.service.MarkRead(c.Params("id"), middleware.CurrentUser(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Notification marked as read",
	})
}

// HandleMarkAllRead marks every unread notification as read in one go.
func (h *NotificationHandler) HandleMarkAllRead(c *fiber.Ctx) error {
	updated, err := h.service.MarkAllRead(middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "All notifications marked as read",
		"updated": updated,
	})
}
