package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente del programa de fidelización.
// Points nunca es negativo: las acumulaciones vienen solo de ventas confirmadas
// y los canjes fallan antes de dejar el saldo en rojo.
type Customer struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	Points        int64           `json:"points"`
	LifetimeSpend decimal.Decimal `json:"lifetime_spend"`
	Visits        int64           `json:"visits"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
