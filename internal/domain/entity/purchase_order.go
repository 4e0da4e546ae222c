package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra. Transiciones válidas:
// pending -> received y pending -> cancelled; ambas son terminales.
const (
	PurchaseOrderPending   = "pending"
	PurchaseOrderReceived  = "received"
	PurchaseOrderCancelled = "cancelled"
)

// PurchaseOrderItem línea de una orden de compra al proveedor.
type PurchaseOrderItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// PurchaseOrder orden de compra a un proveedor. El total es derivado y se
// recalcula en cada lectura (nunca se almacena desactualizado).
type PurchaseOrder struct {
	ID         string              `json:"id"`
	Supplier   string              `json:"supplier"`
	Items      []PurchaseOrderItem `json:"items"`
	Status     string              `json:"status"`
	ExpectedAt time.Time           `json:"expected_at"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// Total devuelve Σ(cantidad × costo unitario) de las líneas.
func (po *PurchaseOrder) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range po.Items {
		total = total.Add(it.UnitCost.Mul(decimal.NewFromInt(it.Quantity)))
	}
	return total
}

// CanTransition valida la transición de estado de la orden.
func (po *PurchaseOrder) CanTransition(next string) bool {
	if po.Status != PurchaseOrderPending {
		return false
	}
	return next == PurchaseOrderReceived || next == PurchaseOrderCancelled
}
