package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-pro/internal/application/dto"
	"github.com/jhoicas/pos-pro/internal/application/loyalty"
)

// CustomerHandler maneja las peticiones HTTP de clientes y fidelización (protegido).
type CustomerHandler struct {
	loyalty *loyalty.Manager
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(m *loyalty.Manager) *CustomerHandler {
	return &CustomerHandler{loyalty: m}
}

// Create registra un cliente.
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.loyalty.Add(loyalty.AddInput{Name: in.Name, Email: in.Email, Phone: in.Phone})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List lista clientes; con ?phone= o ?email= busca por coincidencia exacta.
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	if phone := c.Query("phone"); phone != "" {
		out, err := h.loyalty.FindByPhone(phone)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
	if email := c.Query("email"); email != "" {
		out, err := h.loyalty.FindByEmail(email)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
	return c.JSON(h.loyalty.List())
}

// GetByID obtiene un cliente por ID.
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.loyalty.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Redeem canjea puntos del cliente por un descuento.
func (h *CustomerHandler) Redeem(c *fiber.Ctx) error {
	var in dto.RedeemPointsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	id := c.Params("id")
	discount, err := h.loyalty.Redeem(id, in.Points)
	if err != nil {
		return respondError(c, err)
	}
	customer, err := h.loyalty.Get(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.RedeemPointsResponse{Discount: discount, RemainingPoints: customer.Points})
}
