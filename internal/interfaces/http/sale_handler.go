package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pos-caja/internal/application/checkout"
	"github.com/tu-usuario/pos-caja/internal/application/dto"
	"github.com/tu-usuario/pos-caja/internal/domain"
)

// SaleHandler maneja las peticiones HTTP del flujo de caja (protegido).
type SaleHandler struct {
	create   *checkout.CreateSaleUseCase
	complete *checkout.CompletePaymentUseCase
	cancel   *checkout.CancelSaleUseCase
	annul    *checkout.AnnulSaleUseCase
	query    *checkout.SaleQueryUseCase
	ticket   *checkout.TicketUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(
	create *checkout.CreateSaleUseCase,
	complete *checkout.CompletePaymentUseCase,
	cancel *checkout.CancelSaleUseCase,
	annul *checkout.AnnulSaleUseCase,
	query *checkout.SaleQueryUseCase,
	ticket *checkout.TicketUseCase,
) *SaleHandler {
	return &SaleHandler{
		create:   create,
		complete: complete,
		cancel:   cancel,
		annul:    annul,
		query:    query,
		ticket:   ticket,
	}
}

// Create crea una venta desde el carrito.
// POST /api/sales
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.create.Create(c.Context(), userID, in)
	if err != nil {
		return saleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Complete completa el cobro de una venta pendiente o encargada.
// POST /api/sales/:id/complete
func (h *SaleHandler) Complete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var in dto.CompletePaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.complete.Complete(c.Context(), id, in)
	if err != nil {
		return saleError(c, err)
	}
	return c.JSON(out)
}

// Cancel cancela una venta antes de completarse.
// POST /api/sales/:id/cancel
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	out, err := h.cancel.Cancel(c.Context(), id)
	if err != nil {
		return saleError(c, err)
	}
	return c.JSON(out)
}

// Annul anula una venta ya completada (solo admin).
// POST /api/sales/:id/annul
func (h *SaleHandler) Annul(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	out, err := h.annul.Annul(c.Context(), id)
	if err != nil {
		return saleError(c, err)
	}
	return c.JSON(out)
}

// GetByID obtiene una venta con ítems y pagos.
// GET /api/sales/:id
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	out, err := h.query.GetByID(c.Context(), id)
	if err != nil {
		return saleError(c, err)
	}
	return c.JSON(out)
}

// List lista ventas con filtro de estado y fechas.
// GET /api/sales?status=&from=&to=&limit=&offset=
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var in dto.SaleListRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	out, err := h.query.List(c.Context(), in)
	if err != nil {
		return saleError(c, err)
	}
	return c.JSON(out)
}

// Ticket devuelve el PDF del ticket de la venta.
// GET /api/sales/:id/ticket
func (h *SaleHandler) Ticket(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	pdfBytes, err := h.ticket.Generate(c.Context(), id)
	if err != nil {
		return saleError(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `inline; filename="ticket.pdf"`)
	return c.Send(pdfBytes)
}

// saleError mapea errores de dominio del flujo de caja a códigos HTTP.
func saleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMPTY_CART", Message: "el carrito está vacío"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrInsufficientPayment):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_PAYMENT", Message: "el pago no cubre el total de la venta"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "venta no encontrada"})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "el estado actual de la venta no permite la operación"})
	case errors.Is(err, domain.ErrSaleBusy):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SALE_BUSY", Message: "la venta tiene una operación en curso"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "otra terminal modificó la venta; recargar y reintentar"})
	case errors.Is(err, domain.ErrTimeout):
		return c.Status(fiber.StatusGatewayTimeout).JSON(dto.ErrorResponse{Code: "TIMEOUT", Message: "la operación excedió el tiempo límite"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
