package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-pro/internal/application/dto"
	"github.com/jhoicas/pos-pro/internal/application/ledger"
)

// SaleHandler maneja las peticiones HTTP de ventas (protegido).
type SaleHandler struct {
	ledger *ledger.Ledger
}

// NewSaleHandler construye el handler.
func NewSaleHandler(l *ledger.Ledger) *SaleHandler {
	return &SaleHandler{ledger: l}
}

// Create confirma una venta. El cajero se toma del token.
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	cashier := GetCashierName(c)
	if cashier == "" {
		cashier = GetCashierID(c)
	}
	items := make([]ledger.SaleLine, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, ledger.SaleLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	out, err := h.ledger.CreateSale(ledger.CreateSaleInput{
		Items:         items,
		CustomerID:    in.CustomerID,
		PaymentMethod: in.PaymentMethod,
		Cashier:       cashier,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List devuelve todas las ventas en orden de commit.
func (h *SaleHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.ledger.Sales())
}

// GetByID obtiene una venta por ID.
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.ledger.Sale(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Refund reembolsa una venta confirmada: repone stock y revierte puntos.
func (h *SaleHandler) Refund(c *fiber.Ctx) error {
	cashier := GetCashierName(c)
	if cashier == "" {
		cashier = GetCashierID(c)
	}
	out, err := h.ledger.Refund(c.Params("id"), cashier)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
