package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-pro/internal/application/dto"
	"github.com/jhoicas/pos-pro/internal/application/ledger"
	"github.com/jhoicas/pos-pro/internal/domain/entity"
)

// InventoryHandler maneja movimientos de stock, órdenes de compra y
// sugerencias de reposición (protegido).
type InventoryHandler struct {
	ledger *ledger.Ledger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(l *ledger.Ledger) *InventoryHandler {
	return &InventoryHandler{ledger: l}
}

// RegisterMovement registra un movimiento manual de inventario.
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	actor := GetCashierName(c)
	if actor == "" {
		actor = GetCashierID(c)
	}
	out, err := h.ledger.RecordMovement(in.ProductID, in.Quantity, in.Type, in.Reason, actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements devuelve el historial de movimientos; filtros opcionales
// ?product_id= y ?days= (últimos N días).
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	days := c.QueryInt("days", 0)
	return c.JSON(h.ledger.Movements(productID, days))
}

// CreatePurchaseOrder crea una orden de compra en estado pending.
func (h *InventoryHandler) CreatePurchaseOrder(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	var expectedAt time.Time
	if in.ExpectedAt != "" {
		var err error
		expectedAt, err = time.ParseInLocation("2006-01-02", in.ExpectedAt, time.Local)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "expected_at inválido (formato 2006-01-02)"})
		}
	}
	items := make([]entity.PurchaseOrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, entity.PurchaseOrderItem{ProductID: it.ProductID, Quantity: it.Quantity, UnitCost: it.UnitCost})
	}
	po, err := h.ledger.CreatePurchaseOrder(in.Supplier, items, expectedAt)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPurchaseOrderResponse(po))
}

// ListPurchaseOrders devuelve todas las órdenes en orden de creación.
func (h *InventoryHandler) ListPurchaseOrders(c *fiber.Ctx) error {
	pos := h.ledger.PurchaseOrders()
	out := make([]dto.PurchaseOrderResponse, 0, len(pos))
	for i := range pos {
		out = append(out, toPurchaseOrderResponse(&pos[i]))
	}
	return c.JSON(out)
}

// GetPurchaseOrder obtiene una orden por ID.
func (h *InventoryHandler) GetPurchaseOrder(c *fiber.Ctx) error {
	po, err := h.ledger.PurchaseOrder(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toPurchaseOrderResponse(po))
}

// UpdatePurchaseOrderStatus aplica una transición de estado a la orden.
func (h *InventoryHandler) UpdatePurchaseOrderStatus(c *fiber.Ctx) error {
	var in dto.UpdatePurchaseOrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	po, err := h.ledger.UpdatePurchaseOrderStatus(c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toPurchaseOrderResponse(po))
}

// ReorderSuggestions lista las sugerencias de reposición.
func (h *InventoryHandler) ReorderSuggestions(c *fiber.Ctx) error {
	return c.JSON(h.ledger.ReorderSuggestions())
}

func toPurchaseOrderResponse(po *entity.PurchaseOrder) dto.PurchaseOrderResponse {
	items := make([]dto.PurchaseOrderItemRequest, 0, len(po.Items))
	for _, it := range po.Items {
		items = append(items, dto.PurchaseOrderItemRequest{ProductID: it.ProductID, Quantity: it.Quantity, UnitCost: it.UnitCost})
	}
	return dto.PurchaseOrderResponse{
		ID:         po.ID,
		Supplier:   po.Supplier,
		Items:      items,
		Status:     po.Status,
		ExpectedAt: po.ExpectedAt.Format("2006-01-02"),
		Total:      po.Total(),
		CreatedAt:  po.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  po.UpdatedAt.Format(time.RFC3339),
	}
}
