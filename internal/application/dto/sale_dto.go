package dto

// SaleLineRequest línea de venta: producto y cantidad. El precio se captura
// del catálogo al confirmar, nunca lo fija el cliente HTTP.
type SaleLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// CreateSaleRequest comando de venta. El cajero sale del token, no del cuerpo.
type CreateSaleRequest struct {
	Items         []SaleLineRequest `json:"items"`
	CustomerID    string            `json:"customer_id"`
	PaymentMethod string            `json:"payment_method"`
}
