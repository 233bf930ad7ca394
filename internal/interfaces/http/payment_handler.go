package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lvaldez/bookkeeper-api/internal/application/dto"
	"github.com/lvaldez/bookkeeper-api/internal/application/payments"
	"github.com/lvaldez/bookkeeper-api/internal/domain/repository"
)

// PaymentHandler maneja las peticiones HTTP de pagos y liquidación (protegido).
type PaymentHandler struct {
	uc *payments.PaymentUseCase
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *payments.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

// Create godoc
// @Summary      Crear pago PENDING de una orden (uno por orden)
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePaymentRequest  true  "order, mode_of_payment, pay_later_date (CREDIT)"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/payments [post]
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	businessID := GetBusinessAccountID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreatePaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), businessID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update edita modo y fecha de crédito de un pago PENDING.
// PUT /api/payments/:id
func (h *PaymentHandler) Update(c *fiber.Ctx) error {
	businessID := GetBusinessAccountID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.UpdatePaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), businessID, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Liquidar el pago (descuento + instantáneas + cierre, atómico)
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PaymentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/payments/{id}/complete [post]
func (h *PaymentHandler) Complete(c *fiber.Ctx) error {
	businessID := GetBusinessAccountID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.Complete(c.Context(), businessID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MarkFailed marca un pago PENDING como FAILED (sin efecto en inventario).
// POST /api/payments/:id/fail
func (h *PaymentHandler) MarkFailed(c *fiber.Ctx) error {
	businessID := GetBusinessAccountID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.MarkFailed(c.Context(), businessID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID obtiene el pago (montos vivos o congelados según estado).
// GET /api/payments/:id
func (h *PaymentHandler) GetByID(c *fiber.Ctx) error {
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

// List lista los pagos de la cuenta con filtros opcionales
// (?status=, ?mode_of_payment=, ?order=).
// GET /api/payments
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	businessID := GetBusinessAccountID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	filter := repository.PaymentFilter{
		Status:        c.Query("status"),
		ModeOfPayment: c.Query("mode_of_payment"),
		OrderID:       c.Query("order"),
	}
	out, err := h.uc.List(c.Context(), businessID, filter, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListSales vista de ventas: pagos COMPLETED con montos congelados.
// GET /api/sales
func (h *PaymentHandler) ListSales(c *fiber.Ctx) error {
	businessID := GetBusinessAccountID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.ListSales(c.Context(), businessID, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Receipt descarga el comprobante PDF de un pago completado.
// GET /api/payments/:id/receipt
func (h *PaymentHandler) Receipt(c *fiber.Ctx) error {
	businessID := GetBusinessAccountID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	pdfBytes, err := h.uc.Receipt(c.Context(), businessID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="receipt-`+c.Params("id")+`.pdf"`)
	return c.Send(pdfBytes)
}
