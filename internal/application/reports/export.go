package reports

import (
	"strconv"
	"time"

	"github.com/jhoicas/pos-pro/internal/domain/entity"
)

// Table filas planas con encabezados: el único contrato de exportación del
// motor. La representación final (CSV, PDF, hoja de cálculo) es externa.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// SalesRows aplana las ventas para exportación.
func SalesRows(sales []entity.Sale) Table {
	t := Table{
		Headers: []string{"receipt", "timestamp", "cashier", "customer_id", "payment_method", "status", "items", "subtotal", "tax", "total"},
		Rows:    make([][]string, 0, len(sales)),
	}
	for _, s := range sales {
		t.Rows = append(t.Rows, []string{
			s.ReceiptNumber,
			s.Timestamp.Format(time.RFC3339),
			s.Cashier,
			s.CustomerID,
			s.PaymentMethod,
			s.Status,
			strconv.FormatInt(s.ItemCount(), 10),
			s.Subtotal.StringFixed(2),
			s.Tax.StringFixed(2),
			s.Total.StringFixed(2),
		})
	}
	return t
}

// ProductRows aplana el catálogo para exportación.
func ProductRows(products []entity.Product) Table {
	t := Table{
		Headers: []string{"sku", "barcode", "name", "category", "price", "stock", "min_stock"},
		Rows:    make([][]string, 0, len(products)),
	}
	for _, p := range products {
		t.Rows = append(t.Rows, []string{
			p.SKU,
			p.Barcode,
			p.Name,
			p.Category,
			p.Price.StringFixed(2),
			strconv.FormatInt(p.Stock, 10),
			strconv.FormatInt(p.MinStock, 10),
		})
	}
	return t
}

// MovementRows aplana el historial de movimientos para exportación.
func MovementRows(movements []entity.StockMovement) Table {
	t := Table{
		Headers: []string{"timestamp", "product_id", "type", "quantity", "reason", "created_by", "sale_id"},
		Rows:    make([][]string, 0, len(movements)),
	}
	for _, m := range movements {
		t.Rows = append(t.Rows, []string{
			m.CreatedAt.Format(time.RFC3339),
			m.ProductID,
			m.Type,
			strconv.FormatInt(m.Quantity, 10),
			m.Reason,
			m.CreatedBy,
			m.SaleID,
		})
	}
	return t
}
