package reports_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-pro/internal/application/reports"
	"github.com/jhoicas/pos-pro/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func ts(day, hour int) time.Time {
	return time.Date(2025, 6, day, hour, 0, 0, 0, time.UTC)
}

// saleAt arma una venta mínima con una sola línea; subtotal y total quedan
// consistentes con una tasa del 10%.
func saleAt(t time.Time, productID, name, payment string, unitPrice string, qty int64) entity.Sale {
	price := decimal.RequireFromString(unitPrice)
	subtotal := price.Mul(decimal.NewFromInt(qty)).Round(2)
	tax := subtotal.Mul(decimal.RequireFromString("0.10")).Round(2)
	return entity.Sale{
		ID:        productID + "-" + t.Format("02-15"),
		Timestamp: t,
		Items: []entity.SaleItem{{
			ProductID:   productID,
			ProductName: name,
			UnitPrice:   price,
			Quantity:    qty,
		}},
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         subtotal.Add(tax),
		PaymentMethod: payment,
		Status:        entity.SaleCompleted,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests SalesInRange / GroupByPeriod
// ──────────────────────────────────────────────────────────────────────────────

func TestSalesInRange_BordesInclusivos(t *testing.T) {
	sales := []entity.Sale{
		saleAt(ts(1, 0), "p1", "Café", entity.PaymentCash, "10.00", 1),
		saleAt(ts(2, 12), "p1", "Café", entity.PaymentCash, "10.00", 1),
		saleAt(ts(3, 23), "p1", "Café", entity.PaymentCash, "10.00", 1),
	}

	got := reports.SalesInRange(sales, ts(1, 0), ts(3, 23))
	assert.Len(t, got, 3, "ambos extremos del rango son inclusivos")

	got = reports.SalesInRange(sales, ts(2, 0), ts(2, 23))
	require.Len(t, got, 1)
	assert.Equal(t, ts(2, 12), got[0].Timestamp)
}

func TestGroupByPeriod_PorDia(t *testing.T) {
	sales := []entity.Sale{
		saleAt(ts(1, 9), "p1", "Café", entity.PaymentCash, "10.00", 2),  // día 1: 20.00
		saleAt(ts(1, 14), "p2", "Té", entity.PaymentCard, "5.00", 1),    // día 1: 5.00
		saleAt(ts(1, 17), "p2", "Té", entity.PaymentCard, "5.00", 2),    // día 1: 10.00
		saleAt(ts(2, 9), "p1", "Café", entity.PaymentCash, "10.00", 3),  // día 2: 30.00
	}

	buckets := reports.GroupByPeriod(sales, reports.GranularityDay)
	require.Len(t, buckets, 2)

	assert.Equal(t, "2025-06-01", buckets[0].Key)
	assert.Equal(t, int64(3), buckets[0].Transactions)
	assert.Equal(t, int64(5), buckets[0].Items)
	assert.True(t, buckets[0].Revenue.Equal(decimal.RequireFromString("35.00")))
	assert.True(t, buckets[0].GrossTotal.Equal(decimal.RequireFromString("38.50")))

	assert.Equal(t, "2025-06-02", buckets[1].Key)
	assert.Equal(t, int64(1), buckets[1].Transactions)
	assert.True(t, buckets[1].Revenue.Equal(decimal.RequireFromString("30.00")))
}

func TestGroupByPeriod_PorMesYSemana(t *testing.T) {
	sales := []entity.Sale{
		saleAt(time.Date(2025, 6, 30, 10, 0, 0, 0, time.UTC), "p1", "Café", entity.PaymentCash, "10.00", 1),
		saleAt(time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC), "p1", "Café", entity.PaymentCash, "10.00", 1),
	}

	byMonth := reports.GroupByPeriod(sales, reports.GranularityMonth)
	require.Len(t, byMonth, 2)
	assert.Equal(t, "2025-06", byMonth[0].Key)
	assert.Equal(t, "2025-07", byMonth[1].Key)

	// 1 de enero de 2025 cae miércoles (weekday 3):
	// semana del 1 de enero = ceil((0 + 3 + 1)/7) = 1
	jan1 := saleAt(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC), "p1", "Café", entity.PaymentCash, "10.00", 1)
	byWeek := reports.GroupByPeriod([]entity.Sale{jan1}, reports.GranularityWeek)
	require.Len(t, byWeek, 1)
	assert.Equal(t, "2025-W01", byWeek[0].Key)

	// 5 de enero (domingo): ceil((4 + 3 + 1)/7) = ceil(8/7) = 2
	jan5 := saleAt(time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC), "p1", "Café", entity.PaymentCash, "10.00", 1)
	byWeek = reports.GroupByPeriod([]entity.Sale{jan5}, reports.GranularityWeek)
	require.Len(t, byWeek, 1)
	assert.Equal(t, "2025-W02", byWeek[0].Key)
}

func TestGroupByPeriod_GranularidadDesconocidaAgrupaPorDia(t *testing.T) {
	sales := []entity.Sale{saleAt(ts(1, 9), "p1", "Café", entity.PaymentCash, "10.00", 1)}
	buckets := reports.GroupByPeriod(sales, "quarter")
	require.Len(t, buckets, 1)
	assert.Equal(t, "2025-06-01", buckets[0].Key)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Summarize
// ──────────────────────────────────────────────────────────────────────────────

func TestSummarize_IngresoEsSumaDeSubtotales(t *testing.T) {
	sales := []entity.Sale{
		saleAt(ts(1, 9), "p1", "Café", entity.PaymentCash, "10.00", 2),
		saleAt(ts(1, 17), "p2", "Té", entity.PaymentCard, "5.00", 1),
		saleAt(ts(2, 11), "p1", "Café", entity.PaymentCash, "10.00", 3),
	}

	sum := reports.Summarize(sales)
	assert.Equal(t, int64(3), sum.Count)
	assert.Equal(t, int64(6), sum.TotalItems)
	// El ingreso se mide sin impuesto: 20 + 5 + 30 = 55
	assert.True(t, sum.TotalRevenue.Equal(decimal.RequireFromString("55.00")), "revenue %s", sum.TotalRevenue)
	assert.True(t, sum.AverageTransaction.Equal(decimal.RequireFromString("18.33")))
	assert.Equal(t, entity.PaymentCash, sum.DominantPaymentMethod)

	// El ingreso del resumen reconcilia con la suma de los buckets
	var bucketRevenue decimal.Decimal
	for _, b := range reports.GroupByPeriod(sales, reports.GranularityDay) {
		bucketRevenue = bucketRevenue.Add(b.Revenue)
	}
	assert.True(t, sum.TotalRevenue.Equal(bucketRevenue))
}

func TestSummarize_SinVentas_TodoEnCero(t *testing.T) {
	sum := reports.Summarize(nil)
	assert.Equal(t, int64(0), sum.Count)
	assert.True(t, sum.TotalRevenue.IsZero())
	assert.True(t, sum.AverageTransaction.IsZero(), "sin ventas no hay división por cero")
	assert.Empty(t, sum.DominantPaymentMethod)
}

func TestSummarize_EmpateEnMetodoDominante_GanaElPrimero(t *testing.T) {
	sales := []entity.Sale{
		saleAt(ts(1, 9), "p1", "Café", entity.PaymentCard, "10.00", 1),
		saleAt(ts(1, 10), "p1", "Café", entity.PaymentCash, "10.00", 1),
		saleAt(ts(1, 11), "p1", "Café", entity.PaymentCash, "10.00", 1),
		saleAt(ts(1, 12), "p1", "Café", entity.PaymentCard, "10.00", 1),
	}
	sum := reports.Summarize(sales)
	assert.Equal(t, entity.PaymentCard, sum.DominantPaymentMethod,
		"con empate gana el método visto primero")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests TopSellingProducts
// ──────────────────────────────────────────────────────────────────────────────

func TestTopSellingProducts_OrdenaPorCantidadDescendente(t *testing.T) {
	sales := []entity.Sale{
		saleAt(ts(1, 9), "p1", "Café", entity.PaymentCash, "10.00", 2),
		saleAt(ts(1, 10), "p2", "Té", entity.PaymentCash, "5.00", 7),
		saleAt(ts(1, 11), "p1", "Café", entity.PaymentCash, "10.00", 3),
	}

	top := reports.TopSellingProducts(sales, 0)
	require.Len(t, top, 2)
	assert.Equal(t, "p2", top[0].ProductID)
	assert.Equal(t, int64(7), top[0].Quantity)
	assert.Equal(t, "p1", top[1].ProductID)
	assert.Equal(t, int64(5), top[1].Quantity)
	assert.True(t, top[1].Revenue.Equal(decimal.RequireFromString("50.00")))
}

func TestTopSellingProducts_LimiteYEmpateEstable(t *testing.T) {
	sales := []entity.Sale{
		saleAt(ts(1, 9), "p1", "Café", entity.PaymentCash, "10.00", 3),
		saleAt(ts(1, 10), "p2", "Té", entity.PaymentCash, "5.00", 3),
		saleAt(ts(1, 11), "p3", "Camisa", entity.PaymentCash, "35.00", 1),
	}

	top := reports.TopSellingProducts(sales, 2)
	require.Len(t, top, 2)
	// Empate 3-3: conserva el orden de primera aparición
	assert.Equal(t, "p1", top[0].ProductID)
	assert.Equal(t, "p2", top[1].ProductID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests ValuateInventory
// ──────────────────────────────────────────────────────────────────────────────

func TestValuateInventory_TotalesYCategorias(t *testing.T) {
	products := []entity.Product{
		{ID: "p1", Category: "food", Price: decimal.RequireFromString("10.00"), Stock: 5, MinStock: 2},
		{ID: "p2", Category: "food", Price: decimal.RequireFromString("5.00"), Stock: 0, MinStock: 2},
		{ID: "p3", Category: "clothing", Price: decimal.RequireFromString("35.00"), Stock: 2, MinStock: 2},
	}

	val := reports.ValuateInventory(products)
	assert.Equal(t, int64(3), val.TotalProducts)
	// 50 + 0 + 70 = 120
	assert.True(t, val.TotalValue.Equal(decimal.RequireFromString("120.00")), "valor %s", val.TotalValue)
	assert.Equal(t, int64(2), val.LowStockCount, "stock == umbral también cuenta como bajo")
	assert.Equal(t, int64(1), val.OutOfStockCount)

	require.Len(t, val.ByCategory, 2)
	assert.Equal(t, "food", val.ByCategory[0].Category)
	assert.Equal(t, int64(2), val.ByCategory[0].Count)
	assert.True(t, val.ByCategory[0].Value.Equal(decimal.RequireFromString("50.00")))
	assert.Equal(t, "clothing", val.ByCategory[1].Category)
}

func TestValuateInventory_Vacio(t *testing.T) {
	val := reports.ValuateInventory(nil)
	assert.Equal(t, int64(0), val.TotalProducts)
	assert.True(t, val.TotalValue.IsZero())
	assert.Empty(t, val.ByCategory)
}
