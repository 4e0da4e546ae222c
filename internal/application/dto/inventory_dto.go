package dto

import "github.com/shopspring/decimal"

// RegisterMovementRequest movimiento manual de inventario.
// Quantity es el delta con signo aplicado al stock.
type RegisterMovementRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	Type      string `json:"type"` // in | out | adjustment | return
	Reason    string `json:"reason"`
}

// PurchaseOrderItemRequest línea de una orden de compra.
type PurchaseOrderItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseOrderRequest orden de compra a un proveedor.
// ExpectedAt en formato 2006-01-02.
type CreatePurchaseOrderRequest struct {
	Supplier   string                     `json:"supplier"`
	ExpectedAt string                     `json:"expected_at"`
	Items      []PurchaseOrderItemRequest `json:"items"`
}

// UpdatePurchaseOrderStatusRequest transición de estado de la orden.
type UpdatePurchaseOrderStatusRequest struct {
	Status string `json:"status"` // received | cancelled
}

// PurchaseOrderResponse orden con su total derivado (recalculado al leer).
type PurchaseOrderResponse struct {
	ID         string                     `json:"id"`
	Supplier   string                     `json:"supplier"`
	Items      []PurchaseOrderItemRequest `json:"items"`
	Status     string                     `json:"status"`
	ExpectedAt string                     `json:"expected_at"`
	Total      decimal.Decimal            `json:"total"`
	CreatedAt  string                     `json:"created_at"`
	UpdatedAt  string                     `json:"updated_at"`
}
