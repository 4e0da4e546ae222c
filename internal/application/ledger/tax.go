package ledger

import "github.com/shopspring/decimal"

// TaxTable tabla de tasas de impuesto indexada por categoría de producto.
type TaxTable struct {
	Default decimal.Decimal
	Rates   map[string]decimal.Decimal
}

// RateFor devuelve la tasa para la categoría. La búsqueda es por clave exacta:
// una categoría con casing distinto al configurado cae en la tasa por defecto.
func (t TaxTable) RateFor(category string) decimal.Decimal {
	if rate, ok := t.Rates[category]; ok {
		return rate
	}
	return t.Default
}
