package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lvaldez/bookkeeper-api/internal/application/dto"
	"github.com/lvaldez/bookkeeper-api/internal/application/orders"
)

// OrderHandler maneja las peticiones HTTP de órdenes (protegido).
type OrderHandler struct {
	uc *orders.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// CreateFromList godoc
// @Summary      Crear orden FROM_LIST (ítems del inventario, consolidados)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderFromListRequest  true  "customer, order_items"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/from-list [post]
func (h *OrderHandler) CreateFromList(c *fiber.Ctx) error {
	businessID := GetBusinessAccountID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateOrderFromListRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateFromList(c.Context(), businessID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateFromList agrega o consolida líneas en una orden FROM_LIST abierta.
// PUT /api/orders/:id/from-list
func (h *OrderHandler) UpdateFromList(c *fiber.Ctx) error {
	businessID := GetBusinessAccountID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.UpdateOrderFromListRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateFromList(c.Context(), businessID, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateCustom godoc
// @Summary      Crear orden CUSTOM (descripción libre + precio acordado)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCustomOrderRequest  true  "customer, description, cost"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders/custom [post]
func (h *OrderHandler) CreateCustom(c *fiber.Ctx) error {
	businessID := GetBusinessAccountID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateCustomOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateCustom(c.Context(), businessID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateCustom edita una orden CUSTOM abierta.
// PUT /api/orders/:id/custom
func (h *OrderHandler) UpdateCustom(c *fiber.Ctx) error {
	businessID := GetBusinessAccountID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.UpdateCustomOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateCustom(c.Context(), businessID, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List lista las órdenes de la cuenta (filtro opcional ?status=OPEN|CLOSED).
// GET /api/orders
func (h *OrderHandler) List(c *fiber.Ctx) error {
	businessID := GetBusinessAccountID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.List(c.Context(), businessID, c.Query("status"), c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID obtiene la orden con costo e impuestos calculados.
// GET /api/orders/:id
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	businessID := GetBusinessAccountID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.Get(c.Context(), businessID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete borra una orden abierta con sus líneas.
// DELETE /api/orders/:id
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	businessID := GetBusinessAccountID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.Delete(c.Context(), businessID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RemoveItem quita una línea de una orden abierta.
// DELETE /api/orders/:id/items/:itemId
func (h *OrderHandler) RemoveItem(c *fiber.Ctx) error {
	businessID := GetBusinessAccountID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.RemoveItem(c.Context(), businessID, c.Params("id"), c.Params("itemId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
