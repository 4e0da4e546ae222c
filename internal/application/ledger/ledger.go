package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-pro/internal/application/ports"
	"github.com/jhoicas/pos-pro/internal/domain"
	"github.com/jhoicas/pos-pro/internal/domain/entity"
	"github.com/jhoicas/pos-pro/pkg/logger"
)

// Ledger es el dueño de la secuencia ordenada de ventas, movimientos de stock
// y órdenes de compra. Es la fuente de verdad de los reportes derivados.
//
// Disciplina de concurrencia: un único mutex serializa de extremo a extremo la
// sección crítica de commit (mutación de stock + append de la venta), de modo
// que dos ventas concurrentes no pueden observar ambas stock suficiente para
// una cantidad que ya no alcanza. Las lecturas devuelven copias.
type Ledger struct {
	mu         sync.RWMutex
	sales      []*entity.Sale
	salesByID  map[string]*entity.Sale
	movements  []entity.StockMovement
	pos        map[string]*entity.PurchaseOrder
	poOrder    []string
	receiptSeq int64

	catalog       ProductStore
	loyalty       LoyaltyAccruer
	taxes         TaxTable
	receiptPrefix string

	gateway ports.Gateway
	log     *logger.Logger
	now     func() time.Time
	newID   func() string
}

// Deps dependencias inyectables del libro de ventas.
type Deps struct {
	Catalog       ProductStore
	Loyalty       LoyaltyAccruer
	Taxes         TaxTable
	ReceiptPrefix string
	Gateway       ports.Gateway
	Log           *logger.Logger
	Now           func() time.Time
	NewID         func() string
}

// New construye un libro de ventas vacío.
func New(d Deps) *Ledger {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.ReceiptPrefix == "" {
		d.ReceiptPrefix = "RCP"
	}
	return &Ledger{
		salesByID:     make(map[string]*entity.Sale),
		pos:           make(map[string]*entity.PurchaseOrder),
		catalog:       d.Catalog,
		loyalty:       d.Loyalty,
		taxes:         d.Taxes,
		receiptPrefix: d.ReceiptPrefix,
		gateway:       d.Gateway,
		log:           d.Log,
		now:           d.Now,
		newID:         d.NewID,
	}
}

// SaleLine línea de entrada para crear una venta: referencia al producto y
// cantidad. Nombre, categoría y precio se capturan del catálogo al momento
// del commit.
type SaleLine struct {
	ProductID string
	Quantity  int64
}

// CreateSaleInput entrada del comando de venta.
type CreateSaleInput struct {
	Items         []SaleLine
	CustomerID    string // opcional; si está presente debe existir
	PaymentMethod string
	Cashier       string
}

// CreateSale ejecuta el commit de una venta: valida las líneas, descuenta
// stock línea a línea, calcula subtotal/impuesto/total con los precios
// capturados, asigna recibo, acumula fidelización y registra venta y
// movimientos. La venta es todo-o-nada respecto al stock: si cualquier línea
// falla por stock insuficiente, los descuentos ya aplicados de esta misma
// venta se compensan antes de devolver el error.
func (l *Ledger) CreateSale(in CreateSaleInput) (*entity.Sale, error) {
	if len(in.Items) == 0 || in.Cashier == "" || !entity.ValidPaymentMethod(in.PaymentMethod) {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range in.Items {
		if line.ProductID == "" || line.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Validación previa: todas las líneas referencian productos existentes y,
	// si hay cliente, está registrado. Se captura aquí el snapshot de nombre,
	// categoría y precio por línea (no una lectura posterior del catálogo, para
	// no competir con ediciones de precio concurrentes).
	if in.CustomerID != "" && !l.loyalty.Exists(in.CustomerID) {
		return nil, domain.ErrNotFound
	}
	items := make([]entity.SaleItem, 0, len(in.Items))
	for _, line := range in.Items {
		p, err := l.catalog.Get(line.ProductID)
		if err != nil {
			return nil, err
		}
		items = append(items, entity.SaleItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Category:    p.Category,
			UnitPrice:   p.Price,
			Quantity:    line.Quantity,
		})
	}

	// Descuento de stock línea a línea con compensación en caso de fallo.
	movements := make([]entity.StockMovement, 0, len(items))
	for i, it := range items {
		mov, err := l.catalog.AdjustStock(it.ProductID, -it.Quantity, entity.MovementSale, "venta", in.Cashier)
		if err != nil {
			l.compensate(items[:i], in.Cashier)
			l.log.Warn().Err(err).Str("product_id", it.ProductID).Int64("qty", it.Quantity).
				Msg("ledger: venta abortada, stock compensado")
			return nil, err
		}
		movements = append(movements, mov)
	}

	// Totales sobre los precios capturados; impuesto por categoría con
	// fallback a la tasa por defecto.
	subtotal := decimal.Zero
	tax := decimal.Zero
	for _, it := range items {
		lineSubtotal := it.Subtotal()
		subtotal = subtotal.Add(lineSubtotal)
		tax = tax.Add(lineSubtotal.Mul(l.taxes.RateFor(it.Category)))
	}
	subtotal = subtotal.Round(2)
	tax = tax.Round(2)
	total := subtotal.Add(tax)

	l.receiptSeq++
	sale := &entity.Sale{
		ID:            l.newID(),
		ReceiptNumber: fmt.Sprintf("%s-%06d", l.receiptPrefix, l.receiptSeq),
		Timestamp:     l.now(),
		Items:         items,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         total,
		PaymentMethod: in.PaymentMethod,
		Cashier:       in.Cashier,
		CustomerID:    in.CustomerID,
		Status:        entity.SaleCompleted,
	}

	if in.CustomerID != "" {
		points, err := l.loyalty.Accrue(in.CustomerID, total)
		if err != nil {
			// El cliente se validó bajo este mismo lock; un fallo aquí es un
			// estado imposible salvo bug, no se deja la venta a medias.
			l.compensate(items, in.Cashier)
			return nil, err
		}
		sale.PointsEarned = points
	}

	for i := range movements {
		movements[i].SaleID = sale.ID
	}
	l.sales = append(l.sales, sale)
	l.salesByID[sale.ID] = sale
	l.movements = append(l.movements, movements...)
	l.persistLocked()

	l.log.Info().Str("sale_id", sale.ID).Str("receipt", sale.ReceiptNumber).
		Str("total", total.String()).Int("lines", len(items)).Msg("ledger: venta confirmada")

	out := copySale(sale)
	return &out, nil
}

// compensate revierte los descuentos de stock ya aplicados de una venta
// abortada. Las compensaciones no generan movimientos en el historial: una
// venta fallida no deja rastro.
func (l *Ledger) compensate(applied []entity.SaleItem, actor string) {
	for _, it := range applied {
		if _, err := l.catalog.AdjustStock(it.ProductID, it.Quantity, entity.MovementAdjustment, "compensación de venta abortada", actor); err != nil {
			l.log.Error().Err(err).Str("product_id", it.ProductID).
				Msg("ledger: fallo compensando stock de venta abortada")
		}
	}
}

// Refund reembolsa una venta confirmada: repone el stock de cada línea,
// revierte la acumulación de fidelización y marca la venta como refunded.
// Reembolsar una venta ya reembolsada falla con ErrConflict (nunca se
// reversa dos veces).
func (l *Ledger) Refund(saleID, actor string) (*entity.Sale, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sale, ok := l.salesByID[saleID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if sale.Status != entity.SaleCompleted {
		return nil, domain.ErrConflict
	}

	movements := make([]entity.StockMovement, 0, len(sale.Items))
	for i, it := range sale.Items {
		mov, err := l.catalog.AdjustStock(it.ProductID, it.Quantity, entity.MovementReturn, "reembolso", actor)
		if err != nil {
			// Producto eliminado desde la venta: se revierten las reposiciones
			// ya aplicadas y el reembolso falla completo.
			for _, prev := range sale.Items[:i] {
				if _, cerr := l.catalog.AdjustStock(prev.ProductID, -prev.Quantity, entity.MovementAdjustment, "compensación de reembolso abortado", actor); cerr != nil {
					l.log.Error().Err(cerr).Str("product_id", prev.ProductID).
						Msg("ledger: fallo compensando reembolso abortado")
				}
			}
			return nil, err
		}
		mov.SaleID = sale.ID
		movements = append(movements, mov)
	}

	if sale.CustomerID != "" && sale.PointsEarned > 0 {
		if err := l.loyalty.Reverse(sale.CustomerID, sale.PointsEarned, sale.Total); err != nil {
			l.log.Error().Err(err).Str("customer_id", sale.CustomerID).
				Msg("ledger: fallo revirtiendo puntos en reembolso")
		}
	}

	sale.Status = entity.SaleRefunded
	l.movements = append(l.movements, movements...)
	l.persistLocked()

	l.log.Info().Str("sale_id", sale.ID).Str("receipt", sale.ReceiptNumber).Msg("ledger: venta reembolsada")

	out := copySale(sale)
	return &out, nil
}

// RecordMovement registra un movimiento manual de inventario (entrada, salida,
// ajuste o devolución). Quantity es el delta con signo y debe ser coherente con
// el tipo: in/return suman, out resta, adjustment admite ambos signos. El stock
// se muta a través de la primitiva del catálogo, que rechaza saldos negativos.
func (l *Ledger) RecordMovement(productID string, quantity int64, movType, reason, actor string) (*entity.StockMovement, error) {
	switch movType {
	case entity.MovementSale:
		return nil, domain.ErrInvalidInput // los movimientos de venta solo los emite CreateSale
	case entity.MovementIn, entity.MovementReturn:
		if quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
	case entity.MovementOut:
		if quantity >= 0 {
			return nil, domain.ErrInvalidInput
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	mov, err := l.catalog.AdjustStock(productID, quantity, movType, reason, actor)
	if err != nil {
		return nil, err
	}
	l.movements = append(l.movements, mov)
	l.persistLocked()

	out := mov
	return &out, nil
}

// Movements devuelve el historial de movimientos, opcionalmente filtrado por
// producto y acotado a los últimos days días (days <= 0 = sin límite).
func (l *Ledger) Movements(productID string, days int) []entity.StockMovement {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var cutoff time.Time
	if days > 0 {
		cutoff = l.now().AddDate(0, 0, -days)
	}
	out := make([]entity.StockMovement, 0)
	for _, m := range l.movements {
		if productID != "" && m.ProductID != productID {
			continue
		}
		if days > 0 && m.CreatedAt.Before(cutoff) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Sale devuelve una copia de la venta.
func (l *Ledger) Sale(id string) (*entity.Sale, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	sale, ok := l.salesByID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := copySale(sale)
	return &out, nil
}

// Sales devuelve una copia de todas las ventas en orden de commit.
func (l *Ledger) Sales() []entity.Sale {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.salesSnapshotLocked()
}

func (l *Ledger) salesSnapshotLocked() []entity.Sale {
	out := make([]entity.Sale, 0, len(l.sales))
	for _, s := range l.sales {
		out = append(out, copySale(s))
	}
	return out
}

// ReorderSuggestion sugerencia de reposición para un producto bajo umbral.
type ReorderSuggestion struct {
	ProductID    string `json:"product_id"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	CurrentStock int64  `json:"current_stock"`
	MinStock     int64  `json:"min_stock"`
	SuggestedQty int64  `json:"suggested_qty"`
}

// ReorderSuggestions sugiere pedir 2×umbral − stock (recortado en cero) para
// cada producto con stock en o bajo su umbral de reposición. La fórmula es la
// regla de negocio dada, incluso cuando sugiere cantidades grandes para
// umbrales altos.
func (l *Ledger) ReorderSuggestions() []ReorderSuggestion {
	products := l.catalog.Snapshot()
	out := make([]ReorderSuggestion, 0)
	for _, p := range products {
		if p.MinStock <= 0 || p.Stock > p.MinStock {
			continue
		}
		qty := 2*p.MinStock - p.Stock
		if qty < 0 {
			qty = 0
		}
		out = append(out, ReorderSuggestion{
			ProductID:    p.ID,
			SKU:          p.SKU,
			Name:         p.Name,
			CurrentStock: p.Stock,
			MinStock:     p.MinStock,
			SuggestedQty: qty,
		})
	}
	return out
}

// copySale copia profunda de la venta (las líneas no comparten backing array).
func copySale(s *entity.Sale) entity.Sale {
	out := *s
	out.Items = make([]entity.SaleItem, len(s.Items))
	copy(out.Items, s.Items)
	return out
}

// ledgerSnapshot estado serializable del libro.
type ledgerSnapshot struct {
	Sales          []entity.Sale          `json:"sales"`
	Movements      []entity.StockMovement `json:"movements"`
	PurchaseOrders []entity.PurchaseOrder `json:"purchase_orders"`
	ReceiptSeq     int64                  `json:"receipt_seq"`
}

// Rehydrate carga el snapshot persistido. Clave ausente = libro vacío.
// La secuencia de recibos se restaura para que los números sigan siendo
// únicos tras un reinicio.
func (l *Ledger) Rehydrate(ctx context.Context) error {
	if l.gateway == nil {
		return nil
	}
	blob, ok, err := l.gateway.Load(ctx, ports.KeySales)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	var snap ledgerSnapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.sales = l.sales[:0]
	l.salesByID = make(map[string]*entity.Sale, len(snap.Sales))
	for i := range snap.Sales {
		s := snap.Sales[i]
		sale := &s
		l.sales = append(l.sales, sale)
		l.salesByID[sale.ID] = sale
	}
	l.movements = snap.Movements
	l.pos = make(map[string]*entity.PurchaseOrder, len(snap.PurchaseOrders))
	l.poOrder = l.poOrder[:0]
	for i := range snap.PurchaseOrders {
		po := snap.PurchaseOrders[i]
		l.pos[po.ID] = &po
		l.poOrder = append(l.poOrder, po.ID)
	}
	l.receiptSeq = snap.ReceiptSeq
	return nil
}

func (l *Ledger) persistLocked() {
	if l.gateway == nil {
		return
	}
	snap := ledgerSnapshot{
		Sales:      l.salesSnapshotLocked(),
		Movements:  append([]entity.StockMovement(nil), l.movements...),
		ReceiptSeq: l.receiptSeq,
	}
	snap.PurchaseOrders = make([]entity.PurchaseOrder, 0, len(l.poOrder))
	for _, id := range l.poOrder {
		snap.PurchaseOrders = append(snap.PurchaseOrders, *l.pos[id])
	}
	blob, err := json.Marshal(snap)
	if err != nil {
		l.log.Error().Err(err).Msg("ledger: serializar snapshot")
		return
	}
	if err := l.gateway.Save(context.Background(), ports.KeySales, blob); err != nil {
		l.log.Error().Err(err).Str("key", ports.KeySales).Msg("ledger: persistir snapshot")
	}
}
