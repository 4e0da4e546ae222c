// Package reports contiene el agregador de reportes: funciones puras sobre
// snapshots del libro de ventas y del catálogo. Nunca muta estado y nunca
// retorna errores de dominio: con entrada vacía o degenerada produce agregados
// en cero, no fallos.
package reports

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-pro/internal/domain/entity"
)

// Granularidades de agrupación temporal.
const (
	GranularityDay   = "day"
	GranularityWeek  = "week"
	GranularityMonth = "month"
)

// SalesInRange filtra las ventas con a <= timestamp <= b (ambos inclusive),
// conservando el orden de entrada.
func SalesInRange(sales []entity.Sale, start, end time.Time) []entity.Sale {
	out := make([]entity.Sale, 0)
	for _, s := range sales {
		if s.Timestamp.Before(start) || s.Timestamp.After(end) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// PeriodBucket agregado de un periodo (día, semana o mes).
type PeriodBucket struct {
	Key          string          `json:"key"`
	GrossTotal   decimal.Decimal `json:"gross_total"` // Σ total (con impuesto)
	Revenue      decimal.Decimal `json:"revenue"`     // Σ subtotal
	Transactions int64           `json:"transactions"`
	Items        int64           `json:"items"`
}

// GroupByPeriod agrupa las ventas por periodo. Los buckets se devuelven en el
// orden de primera aparición de las ventas de entrada; quien requiera orden
// cronológico debe ordenar la entrada por timestamp. Granularidad desconocida
// agrupa por día.
func GroupByPeriod(sales []entity.Sale, granularity string) []PeriodBucket {
	buckets := make([]PeriodBucket, 0)
	index := make(map[string]int)

	for _, s := range sales {
		key := bucketKey(s.Timestamp, granularity)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, PeriodBucket{Key: key, GrossTotal: decimal.Zero, Revenue: decimal.Zero})
		}
		buckets[i].GrossTotal = buckets[i].GrossTotal.Add(s.Total)
		buckets[i].Revenue = buckets[i].Revenue.Add(s.Subtotal)
		buckets[i].Transactions++
		buckets[i].Items += s.ItemCount()
	}
	return buckets
}

func bucketKey(ts time.Time, granularity string) string {
	switch granularity {
	case GranularityWeek:
		return fmt.Sprintf("%d-W%02d", ts.Year(), weekOfYear(ts))
	case GranularityMonth:
		return ts.Format("2006-01")
	default:
		return ts.Format("2006-01-02")
	}
}

// weekOfYear calcula la semana del año a partir de la fecha calendario:
// ceil((días transcurridos del año + día de la semana del 1 de enero + 1) / 7).
func weekOfYear(ts time.Time) int {
	firstDay := time.Date(ts.Year(), time.January, 1, 0, 0, 0, 0, ts.Location())
	date := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
	pastDays := int(date.Sub(firstDay).Hours() / 24)
	n := pastDays + int(firstDay.Weekday()) + 1
	return (n + 6) / 7
}

// Summary resumen global de un conjunto de ventas.
type Summary struct {
	Count                 int64           `json:"count"`
	TotalRevenue          decimal.Decimal `json:"total_revenue"` // Σ subtotal
	TotalItems            int64           `json:"total_items"`
	AverageTransaction    decimal.Decimal `json:"average_transaction"`
	DominantPaymentMethod string          `json:"dominant_payment_method"`
}

// Summarize calcula el resumen. Con cero ventas el promedio es cero (sin
// división por cero) y el método dominante queda vacío. Empates en el método
// dominante se resuelven por el primero encontrado en orden de entrada.
func Summarize(sales []entity.Sale) Summary {
	sum := Summary{TotalRevenue: decimal.Zero, AverageTransaction: decimal.Zero}
	counts := make(map[string]int64)
	var methodOrder []string

	for _, s := range sales {
		sum.Count++
		sum.TotalRevenue = sum.TotalRevenue.Add(s.Subtotal)
		sum.TotalItems += s.ItemCount()
		if _, seen := counts[s.PaymentMethod]; !seen {
			methodOrder = append(methodOrder, s.PaymentMethod)
		}
		counts[s.PaymentMethod]++
	}
	if sum.Count > 0 {
		sum.AverageTransaction = sum.TotalRevenue.Div(decimal.NewFromInt(sum.Count)).Round(2)
	}

	var best int64
	for _, m := range methodOrder {
		if counts[m] > best {
			best = counts[m]
			sum.DominantPaymentMethod = m
		}
	}
	return sum
}

// ProductRanking posición de un producto en el ranking de más vendidos.
type ProductRanking struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// TopSellingProducts agrega cantidad e ingreso por producto sobre las ventas
// de entrada y devuelve los primeros limit ordenados por cantidad descendente.
// Los empates quedan sin resolver (orden estable de primera aparición).
// limit <= 0 devuelve el ranking completo.
func TopSellingProducts(sales []entity.Sale, limit int) []ProductRanking {
	ranking := make([]ProductRanking, 0)
	index := make(map[string]int)

	for _, s := range sales {
		for _, it := range s.Items {
			i, ok := index[it.ProductID]
			if !ok {
				i = len(ranking)
				index[it.ProductID] = i
				ranking = append(ranking, ProductRanking{
					ProductID: it.ProductID,
					Name:      it.ProductName,
					Revenue:   decimal.Zero,
				})
			}
			ranking[i].Quantity += it.Quantity
			ranking[i].Revenue = ranking[i].Revenue.Add(it.Subtotal())
		}
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Quantity > ranking[j].Quantity
	})
	if limit > 0 && len(ranking) > limit {
		ranking = ranking[:limit]
	}
	return ranking
}

// CategoryBreakdown agregado de inventario por categoría.
type CategoryBreakdown struct {
	Category string          `json:"category"`
	Count    int64           `json:"count"`
	Value    decimal.Decimal `json:"value"`
	Stock    int64           `json:"stock"`
}

// InventoryValuation valuación del inventario completo.
type InventoryValuation struct {
	TotalProducts   int64               `json:"total_products"`
	TotalValue      decimal.Decimal     `json:"total_value"` // Σ precio × stock
	LowStockCount   int64               `json:"low_stock_count"`
	OutOfStockCount int64               `json:"out_of_stock_count"`
	ByCategory      []CategoryBreakdown `json:"by_category"`
}

// ValuateInventory calcula la valuación sobre un snapshot del catálogo.
// Las categorías aparecen en orden de primera aparición de los productos.
func ValuateInventory(products []entity.Product) InventoryValuation {
	val := InventoryValuation{TotalValue: decimal.Zero, ByCategory: make([]CategoryBreakdown, 0)}
	index := make(map[string]int)

	for _, p := range products {
		value := p.Price.Mul(decimal.NewFromInt(p.Stock))
		val.TotalProducts++
		val.TotalValue = val.TotalValue.Add(value)
		if p.Stock <= p.MinStock {
			val.LowStockCount++
		}
		if p.Stock == 0 {
			val.OutOfStockCount++
		}

		i, ok := index[p.Category]
		if !ok {
			i = len(val.ByCategory)
			index[p.Category] = i
			val.ByCategory = append(val.ByCategory, CategoryBreakdown{Category: p.Category, Value: decimal.Zero})
		}
		val.ByCategory[i].Count++
		val.ByCategory[i].Value = val.ByCategory[i].Value.Add(value)
		val.ByCategory[i].Stock += p.Stock
	}
	return val
}
