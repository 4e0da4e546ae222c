package dto

import "github.com/jhoicas/pos-pro/internal/application/reports"

// SalesReportResponse reporte de ventas de un rango de fechas: buckets por
// periodo, resumen global y ranking de productos.
type SalesReportResponse struct {
	ID          string                   `json:"id"`
	Type        string                   `json:"type"` // "sales"
	StartDate   string                   `json:"start_date"`
	EndDate     string                   `json:"end_date"`
	Granularity string                   `json:"granularity"`
	GeneratedAt string                   `json:"generated_at"`
	Buckets     []reports.PeriodBucket   `json:"buckets"`
	Summary     reports.Summary          `json:"summary"`
	TopProducts []reports.ProductRanking `json:"top_products"`
}

// InventoryReportResponse reporte de inventario: valuación y conteos.
type InventoryReportResponse struct {
	ID          string                     `json:"id"`
	Type        string                     `json:"type"` // "inventory"
	GeneratedAt string                     `json:"generated_at"`
	Valuation   reports.InventoryValuation `json:"valuation"`
}
