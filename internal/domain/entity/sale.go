package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
	PaymentWallet   = "wallet"
)

// ValidPaymentMethod indica si el método de pago es uno de los aceptados.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentWallet:
		return true
	}
	return false
}

// Estados de una venta. Una venta confirmada solo puede transicionar a refunded.
const (
	SaleCompleted = "completed"
	SaleRefunded  = "refunded"
)

// SaleItem es la línea de una venta. Nombre y precio son snapshots tomados al
// momento de la venta: ediciones posteriores del producto no los alteran.
type SaleItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Category    string          `json:"category"` // usada para la tasa de impuesto del ítem
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int64           `json:"quantity"`
}

// Subtotal devuelve precio unitario × cantidad de la línea.
func (it SaleItem) Subtotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))
}

// Sale es una venta confirmada del libro de ventas. Inmutable una vez creada,
// salvo la transición de estado completed -> refunded.
// Invariantes: Total = Subtotal + Tax y Subtotal = Σ(UnitPrice × Quantity),
// ambos redondeados a 2 decimales.
type Sale struct {
	ID            string          `json:"id"`
	ReceiptNumber string          `json:"receipt_number"` // único durante la vida del libro
	Timestamp     time.Time       `json:"timestamp"`
	Items         []SaleItem      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	Cashier       string          `json:"cashier"`
	CustomerID    string          `json:"customer_id,omitempty"` // referencia débil, puede estar vacío
	Status        string          `json:"status"`
	PointsEarned  int64           `json:"points_earned"` // puntos acumulados al cliente; el reembolso revierte exactamente esto
}

// ItemCount devuelve el total de unidades vendidas en la venta.
func (s *Sale) ItemCount() int64 {
	var n int64
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}
