package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-pro/internal/domain/entity"
)

// ProductStore es la capacidad estrecha que el libro de ventas necesita del
// catálogo: leer productos y mutar stock a través de la primitiva única.
type ProductStore interface {
	Get(id string) (*entity.Product, error)
	AdjustStock(id string, delta int64, movType, reason, actor string) (entity.StockMovement, error)
	Snapshot() []entity.Product
}

// LoyaltyAccruer es la capacidad estrecha sobre el programa de fidelización:
// acumular puntos en el commit de una venta y revertirlos en el reembolso.
type LoyaltyAccruer interface {
	Exists(customerID string) bool
	Accrue(customerID string, total decimal.Decimal) (points int64, err error)
	Reverse(customerID string, points int64, total decimal.Decimal) error
}
