package dto

import "github.com/shopspring/decimal"

// CreateProductRequest datos para crear un producto en el catálogo.
type CreateProductRequest struct {
	SKU      string          `json:"sku"`
	Barcode  string          `json:"barcode"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Stock    int64           `json:"stock"`
	MinStock int64           `json:"min_stock"`
}

// UpdateProductRequest campos parciales a actualizar; nil = sin cambio.
// El stock no se actualiza por aquí: solo vía movimientos de inventario.
type UpdateProductRequest struct {
	SKU      *string          `json:"sku"`
	Barcode  *string          `json:"barcode"`
	Name     *string          `json:"name"`
	Category *string          `json:"category"`
	Price    *decimal.Decimal `json:"price"`
	MinStock *int64           `json:"min_stock"`
}
