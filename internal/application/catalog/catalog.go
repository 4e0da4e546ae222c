package catalog

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-pro/internal/application/ports"
	"github.com/jhoicas/pos-pro/internal/domain"
	"github.com/jhoicas/pos-pro/internal/domain/entity"
	"github.com/jhoicas/pos-pro/pkg/logger"
)

// Catalog es el dueño exclusivo de los productos y el único escritor de stock.
// Todas las mutaciones de stock (ventas, reembolsos, ajustes manuales) pasan por
// AdjustStock, que garantiza que el stock nunca queda negativo.
//
// Las lecturas (Search, List, Snapshot) devuelven copias, así los reportes
// operan sobre un snapshot inmutable sin bloquear a los escritores.
type Catalog struct {
	mu        sync.RWMutex
	byID      map[string]*entity.Product
	order     []string // orden de inserción, desempate estable en búsquedas
	bySKU     map[string]string
	byBarcode map[string]string

	gateway ports.Gateway
	log     *logger.Logger
	now     func() time.Time
	newID   func() string
}

// Deps dependencias inyectables del catálogo. Now y NewID tienen defaults
// (time.Now, uuid.NewString); inyectarlos permite tests deterministas.
type Deps struct {
	Gateway ports.Gateway
	Log     *logger.Logger
	Now     func() time.Time
	NewID   func() string
}

// New construye un catálogo vacío.
func New(d Deps) *Catalog {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return &Catalog{
		byID:      make(map[string]*entity.Product),
		bySKU:     make(map[string]string),
		byBarcode: make(map[string]string),
		gateway:   d.Gateway,
		log:       d.Log,
		now:       d.Now,
		newID:     d.NewID,
	}
}

// AddInput datos para crear un producto.
type AddInput struct {
	SKU      string
	Barcode  string
	Name     string
	Category string
	Price    decimal.Decimal
	Stock    int64
	MinStock int64
}

// Add crea un producto con ID fresco y timestamps inicializados.
// Falla con ErrDuplicate si el SKU o el código de barras ya existen.
func (c *Catalog) Add(in AddInput) (*entity.Product, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.IsNegative() || in.Stock < 0 || in.MinStock < 0 {
		return nil, domain.ErrInvalidInput
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, dup := c.bySKU[in.SKU]; dup {
		return nil, domain.ErrDuplicate
	}
	if in.Barcode != "" {
		if _, dup := c.byBarcode[in.Barcode]; dup {
			return nil, domain.ErrDuplicate
		}
	}

	now := c.now()
	p := &entity.Product{
		ID:        c.newID(),
		SKU:       in.SKU,
		Barcode:   in.Barcode,
		Name:      in.Name,
		Category:  in.Category,
		Price:     in.Price,
		Stock:     in.Stock,
		MinStock:  in.MinStock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.byID[p.ID] = p
	c.order = append(c.order, p.ID)
	c.bySKU[p.SKU] = p.ID
	if p.Barcode != "" {
		c.byBarcode[p.Barcode] = p.ID
	}
	c.persistLocked()

	out := *p
	return &out, nil
}

// UpdateInput campos parciales a fusionar; nil significa "sin cambio".
type UpdateInput struct {
	SKU      *string
	Barcode  *string
	Name     *string
	Category *string
	Price    *decimal.Decimal
	MinStock *int64
}

// Update fusiona los campos presentes y refresca UpdatedAt. El stock no se toca
// aquí (solo vía AdjustStock) y las ventas pasadas conservan sus snapshots de
// precio y nombre.
func (c *Catalog) Update(id string, in UpdateInput) (*entity.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	if in.SKU != nil && *in.SKU != p.SKU {
		if *in.SKU == "" {
			return nil, domain.ErrInvalidInput
		}
		if _, dup := c.bySKU[*in.SKU]; dup {
			return nil, domain.ErrDuplicate
		}
		delete(c.bySKU, p.SKU)
		p.SKU = *in.SKU
		c.bySKU[p.SKU] = id
	}
	if in.Barcode != nil && *in.Barcode != p.Barcode {
		if *in.Barcode != "" {
			if _, dup := c.byBarcode[*in.Barcode]; dup {
				return nil, domain.ErrDuplicate
			}
		}
		delete(c.byBarcode, p.Barcode)
		p.Barcode = *in.Barcode
		if p.Barcode != "" {
			c.byBarcode[p.Barcode] = id
		}
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		p.Name = *in.Name
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		p.Price = *in.Price
	}
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			return nil, domain.ErrInvalidInput
		}
		p.MinStock = *in.MinStock
	}
	p.UpdatedAt = c.now()
	c.persistLocked()

	out := *p
	return &out, nil
}

// Delete elimina un producto por ID.
func (c *Catalog) Delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(c.byID, id)
	delete(c.bySKU, p.SKU)
	if p.Barcode != "" {
		delete(c.byBarcode, p.Barcode)
	}
	for i, pid := range c.order {
		if pid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.persistLocked()
	return nil
}

// Get devuelve una copia del producto.
func (c *Catalog) Get(id string) (*entity.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *p
	return &out, nil
}

// AdjustStock aplica un delta con signo al stock del producto y devuelve el
// movimiento resultante (sin registrarlo: el libro de ventas es el dueño del
// historial de movimientos). Falla con ErrInsufficientStock si el stock
// quedaría negativo, sin mutar nada.
func (c *Catalog) AdjustStock(id string, delta int64, movType, reason, actor string) (entity.StockMovement, error) {
	if delta == 0 || !entity.ValidMovementType(movType) {
		return entity.StockMovement{}, domain.ErrInvalidInput
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.byID[id]
	if !ok {
		return entity.StockMovement{}, domain.ErrNotFound
	}
	newStock := p.Stock + delta
	if newStock < 0 {
		return entity.StockMovement{}, domain.ErrInsufficientStock
	}
	now := c.now()
	p.Stock = newStock
	p.UpdatedAt = now
	c.persistLocked()

	return entity.StockMovement{
		ID:        c.newID(),
		ProductID: id,
		Quantity:  delta,
		Type:      movType,
		Reason:    reason,
		CreatedBy: actor,
		CreatedAt: now,
	}, nil
}

// Search busca por substring (insensible a mayúsculas) en nombre, SKU,
// categoría y código de barras; el orden de los resultados es el de inserción.
func (c *Catalog) Search(query string) []entity.Product {
	term := strings.ToLower(strings.TrimSpace(query))
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]entity.Product, 0)
	for _, id := range c.order {
		p := c.byID[id]
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.SKU), term) ||
			strings.Contains(strings.ToLower(p.Category), term) ||
			strings.Contains(strings.ToLower(p.Barcode), term) {
			out = append(out, *p)
		}
	}
	return out
}

// List devuelve todos los productos en orden de inserción.
func (c *Catalog) List() []entity.Product {
	return c.Snapshot()
}

// LowStock devuelve los productos con stock <= umbral de reposición.
func (c *Catalog) LowStock() []entity.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]entity.Product, 0)
	for _, id := range c.order {
		if p := c.byID[id]; p.Stock <= p.MinStock {
			out = append(out, *p)
		}
	}
	return out
}

// OutOfStock devuelve los productos sin existencias.
func (c *Catalog) OutOfStock() []entity.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]entity.Product, 0)
	for _, id := range c.order {
		if p := c.byID[id]; p.Stock == 0 {
			out = append(out, *p)
		}
	}
	return out
}

// Snapshot devuelve una copia inmutable de todos los productos en orden de
// inserción, para reportes y persistencia.
func (c *Catalog) Snapshot() []entity.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

func (c *Catalog) snapshotLocked() []entity.Product {
	out := make([]entity.Product, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.byID[id])
	}
	return out
}

// Rehydrate carga el snapshot persistido. Clave ausente = catálogo vacío.
func (c *Catalog) Rehydrate(ctx context.Context) error {
	if c.gateway == nil {
		return nil
	}
	blob, ok, err := c.gateway.Load(ctx, ports.KeyProducts)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	var products []entity.Product
	if err := json.Unmarshal(blob, &products); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID = make(map[string]*entity.Product, len(products))
	c.bySKU = make(map[string]string, len(products))
	c.byBarcode = make(map[string]string, len(products))
	c.order = c.order[:0]
	for i := range products {
		p := products[i]
		c.byID[p.ID] = &p
		c.order = append(c.order, p.ID)
		c.bySKU[p.SKU] = p.ID
		if p.Barcode != "" {
			c.byBarcode[p.Barcode] = p.ID
		}
	}
	return nil
}

// persistLocked serializa el snapshot tras una mutación exitosa. El estado en
// memoria es autoritativo: un fallo del almacén se registra y no revierte nada.
func (c *Catalog) persistLocked() {
	if c.gateway == nil {
		return
	}
	blob, err := json.Marshal(c.snapshotLocked())
	if err != nil {
		c.log.Error().Err(err).Msg("catalog: serializar snapshot")
		return
	}
	if err := c.gateway.Save(context.Background(), ports.KeyProducts, blob); err != nil {
		c.log.Error().Err(err).Str("key", ports.KeyProducts).Msg("catalog: persistir snapshot")
	}
}
