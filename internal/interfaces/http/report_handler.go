package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/pos-pro/internal/application/catalog"
	"github.com/jhoicas/pos-pro/internal/application/dto"
	"github.com/jhoicas/pos-pro/internal/application/ledger"
	"github.com/jhoicas/pos-pro/internal/application/reports"
)

const topProductsInReport = 10

// ReportHandler genera reportes y filas de exportación sobre snapshots del
// motor (protegido, solo lectura).
type ReportHandler struct {
	ledger  *ledger.Ledger
	catalog *catalog.Catalog
}

// NewReportHandler construye el handler.
func NewReportHandler(l *ledger.Ledger, cat *catalog.Catalog) *ReportHandler {
	return &ReportHandler{ledger: l, catalog: cat}
}

// Sales genera el reporte de ventas del rango ?start=&end= (2006-01-02,
// inclusive) con granularidad ?granularity=day|week|month.
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	start, end, err := parsePeriod(c.Query("start"), c.Query("end"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	granularity := c.Query("granularity", reports.GranularityDay)

	sales := reports.SalesInRange(h.ledger.Sales(), start, end)
	out := dto.SalesReportResponse{
		ID:          uuid.NewString(),
		Type:        "sales",
		StartDate:   start.Format("2006-01-02"),
		EndDate:     end.Format("2006-01-02"),
		Granularity: granularity,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Buckets:     reports.GroupByPeriod(sales, granularity),
		Summary:     reports.Summarize(sales),
		TopProducts: reports.TopSellingProducts(sales, topProductsInReport),
	}
	return c.JSON(out)
}

// Inventory genera el reporte de valuación del inventario actual.
func (h *ReportHandler) Inventory(c *fiber.Ctx) error {
	out := dto.InventoryReportResponse{
		ID:          uuid.NewString(),
		Type:        "inventory",
		GeneratedAt: time.Now().Format(time.RFC3339),
		Valuation:   reports.ValuateInventory(h.catalog.Snapshot()),
	}
	return c.JSON(out)
}

// Export devuelve filas planas con encabezados para el tipo pedido
// (sales | products | movements). La representación final es externa.
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	switch c.Params("kind") {
	case "sales":
		return c.JSON(reports.SalesRows(h.ledger.Sales()))
	case "products":
		return c.JSON(reports.ProductRows(h.catalog.Snapshot()))
	case "movements":
		return c.JSON(reports.MovementRows(h.ledger.Movements("", 0)))
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "kind debe ser sales, products o movements"})
	}
}

// parsePeriod convierte los strings de fecha en time.Time; aplica valores por
// defecto si están vacíos (inicio del mes actual hasta ahora) y extiende el
// fin hasta el último instante del día para que el rango sea inclusivo.
func parsePeriod(startStr, endStr string) (start, end time.Time, err error) {
	now := time.Now()

	if endStr == "" {
		end = now
	} else {
		end, err = time.ParseInLocation("2006-01-02", endStr, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("end inválido: %w", err)
		}
		// Último instante del día: inicio del día siguiente menos un nanosegundo,
		// para no excluir ventas registradas en el último segundo.
		end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	if startStr == "" {
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	} else {
		start, err = time.ParseInLocation("2006-01-02", startStr, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("start inválido: %w", err)
		}
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start no puede ser posterior a end")
	}
	return start, end, nil
}
