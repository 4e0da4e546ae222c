package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo del punto de venta.
// Stock solo lo muta el catálogo vía AdjustStock (las ventas y los movimientos
// de inventario pasan por esa misma primitiva); Price/Category son editables y
// no afectan retroactivamente los snapshots de ventas pasadas.
type Product struct {
	ID        string          `json:"id"`
	SKU       string          `json:"sku"`     // código único
	Barcode   string          `json:"barcode"` // código de barras único
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`     // precio de venta unitario
	Stock     int64           `json:"stock"`     // unidades disponibles, nunca negativo
	MinStock  int64           `json:"min_stock"` // umbral de reposición
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
