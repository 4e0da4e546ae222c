package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementIn         = "in"
	MovementOut        = "out"
	MovementAdjustment = "adjustment"
	MovementReturn     = "return"
	MovementSale       = "sale"
)

// ValidMovementType indica si el tipo es uno de los conocidos.
func ValidMovementType(t string) bool {
	switch t {
	case MovementIn, MovementOut, MovementAdjustment, MovementReturn, MovementSale:
		return true
	}
	return false
}

// StockMovement es una entrada del historial de inventario (append-only).
// Quantity es el delta con signo aplicado al stock del producto; la suma de los
// deltas confirmados de un producto reconcilia con su stock actual.
type StockMovement struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Quantity  int64     `json:"quantity"` // delta con signo
	Type      string    `json:"type"`
	Reason    string    `json:"reason"`
	CreatedBy string    `json:"created_by"` // cajero o usuario que originó el movimiento
	CreatedAt time.Time `json:"created_at"`
	SaleID    string    `json:"sale_id,omitempty"` // venta que originó el movimiento, si aplica
}
