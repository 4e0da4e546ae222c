package ledger

import (
	"time"

	"github.com/jhoicas/pos-pro/internal/domain"
	"github.com/jhoicas/pos-pro/internal/domain/entity"
)

// CreatePurchaseOrder crea una orden de compra en estado pending. Toda línea
// debe referenciar un producto existente con cantidad positiva y costo no
// negativo.
func (l *Ledger) CreatePurchaseOrder(supplier string, items []entity.PurchaseOrderItem, expectedAt time.Time) (*entity.PurchaseOrder, error) {
	if supplier == "" || len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range items {
		if it.ProductID == "" || it.Quantity <= 0 || it.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, it := range items {
		if _, err := l.catalog.Get(it.ProductID); err != nil {
			return nil, err
		}
	}

	now := l.now()
	po := &entity.PurchaseOrder{
		ID:         l.newID(),
		Supplier:   supplier,
		Items:      append([]entity.PurchaseOrderItem(nil), items...),
		Status:     entity.PurchaseOrderPending,
		ExpectedAt: expectedAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	l.pos[po.ID] = po
	l.poOrder = append(l.poOrder, po.ID)
	l.persistLocked()

	out := copyPurchaseOrder(po)
	return &out, nil
}

// UpdatePurchaseOrderStatus aplica una transición de estado. Las transiciones
// son de una sola vía: pending -> received o pending -> cancelled; cualquier
// otra falla con ErrConflict sin mutar la orden.
func (l *Ledger) UpdatePurchaseOrderStatus(id, status string) (*entity.PurchaseOrder, error) {
	switch status {
	case entity.PurchaseOrderPending, entity.PurchaseOrderReceived, entity.PurchaseOrderCancelled:
	default:
		return nil, domain.ErrInvalidInput
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	po, ok := l.pos[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !po.CanTransition(status) {
		return nil, domain.ErrConflict
	}
	po.Status = status
	po.UpdatedAt = l.now()
	l.persistLocked()

	out := copyPurchaseOrder(po)
	return &out, nil
}

// PurchaseOrder devuelve una copia de la orden.
func (l *Ledger) PurchaseOrder(id string) (*entity.PurchaseOrder, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	po, ok := l.pos[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := copyPurchaseOrder(po)
	return &out, nil
}

// PurchaseOrders devuelve todas las órdenes en orden de creación.
func (l *Ledger) PurchaseOrders() []entity.PurchaseOrder {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]entity.PurchaseOrder, 0, len(l.poOrder))
	for _, id := range l.poOrder {
		out = append(out, copyPurchaseOrder(l.pos[id]))
	}
	return out
}

func copyPurchaseOrder(po *entity.PurchaseOrder) entity.PurchaseOrder {
	out := *po
	out.Items = append([]entity.PurchaseOrderItem(nil), po.Items...)
	return out
}
