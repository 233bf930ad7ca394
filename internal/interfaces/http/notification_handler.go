package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lvaldez/bookkeeper-api/internal/application/dto"
	"github.com/lvaldez/bookkeeper-api/internal/application/notifications"
)

// NotificationHandler maneja las peticiones HTTP de notificaciones (protegido).
type NotificationHandler struct {
	uc *notifications.NotificationUseCase
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(uc *notifications.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

// List lista las notificaciones de la cuenta, más recientes primero.
// GET /api/notifications
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	businessID := GetBusinessAccountID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.List(c.Context(), businessID, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MarkSeen marca una notificación como vista.
// POST /api/notifications/:id/seen
func (h *NotificationHandler) MarkSeen(c *fiber.Ctx) error {
	businessID := GetBusinessAccountID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.MarkSeen(c.Context(), businessID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
