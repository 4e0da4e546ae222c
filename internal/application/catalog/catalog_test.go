package catalog_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-pro/internal/application/catalog"
	"github.com/jhoicas/pos-pro/internal/domain"
	"github.com/jhoicas/pos-pro/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func newCatalog() *catalog.Catalog {
	return catalog.New(catalog.Deps{})
}

func mustAdd(t *testing.T, c *catalog.Catalog, sku, name, category string, price string, stock int64) *entity.Product {
	t.Helper()
	p, err := c.Add(catalog.AddInput{
		SKU:      sku,
		Name:     name,
		Category: category,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		MinStock: 2,
	})
	require.NoError(t, err)
	return p
}

func strPtr(s string) *string { return &s }

// ──────────────────────────────────────────────────────────────────────────────
// Tests Add / Update / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestAdd_AsignaIDYTimestamps(t *testing.T) {
	c := newCatalog()
	p := mustAdd(t, c, "SKU-1", "Café molido", "food", "12.50", 10)

	assert.NotEmpty(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("12.50")))
}

func TestAdd_SKUDuplicado_RetornaErrDuplicate(t *testing.T) {
	c := newCatalog()
	mustAdd(t, c, "SKU-1", "Café molido", "food", "12.50", 10)

	_, err := c.Add(catalog.AddInput{
		SKU:   "SKU-1",
		Name:  "Otro producto",
		Price: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestAdd_BarcodeDuplicado_RetornaErrDuplicate(t *testing.T) {
	c := newCatalog()
	_, err := c.Add(catalog.AddInput{
		SKU:     "SKU-1",
		Barcode: "7791234567890",
		Name:    "Café molido",
		Price:   decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	_, err = c.Add(catalog.AddInput{
		SKU:     "SKU-2",
		Barcode: "7791234567890",
		Name:    "Té verde",
		Price:   decimal.NewFromInt(5),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestAdd_EntradaInvalida(t *testing.T) {
	c := newCatalog()

	_, err := c.Add(catalog.AddInput{Name: "sin sku", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "SKU vacío debe rechazarse")

	_, err = c.Add(catalog.AddInput{SKU: "S", Name: "precio negativo", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = c.Add(catalog.AddInput{SKU: "S", Name: "stock negativo", Price: decimal.NewFromInt(1), Stock: -5})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdate_FusionaCamposParciales(t *testing.T) {
	c := newCatalog()
	p := mustAdd(t, c, "SKU-1", "Café molido", "food", "12.50", 10)

	newPrice := decimal.RequireFromString("14.00")
	updated, err := c.Update(p.ID, catalog.UpdateInput{
		Name:  strPtr("Café molido premium"),
		Price: &newPrice,
	})
	require.NoError(t, err)

	assert.Equal(t, "Café molido premium", updated.Name)
	assert.True(t, updated.Price.Equal(newPrice))
	assert.Equal(t, "SKU-1", updated.SKU, "SKU no enviado no debe cambiar")
	assert.Equal(t, int64(10), updated.Stock, "Update nunca toca el stock")
}

func TestUpdate_SKUDuplicado_RetornaErrDuplicate(t *testing.T) {
	c := newCatalog()
	mustAdd(t, c, "SKU-1", "Café molido", "food", "12.50", 10)
	p2 := mustAdd(t, c, "SKU-2", "Té verde", "food", "8.00", 5)

	_, err := c.Update(p2.ID, catalog.UpdateInput{SKU: strPtr("SKU-1")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestUpdate_ProductoInexistente_RetornaErrNotFound(t *testing.T) {
	c := newCatalog()
	_, err := c.Update("no-existe", catalog.UpdateInput{Name: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_LiberaSKUYBarcode(t *testing.T) {
	c := newCatalog()
	p, err := c.Add(catalog.AddInput{
		SKU:     "SKU-1",
		Barcode: "779",
		Name:    "Café molido",
		Price:   decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	require.NoError(t, c.Delete(p.ID))

	_, err = c.Get(p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// SKU y barcode quedan disponibles de nuevo
	_, err = c.Add(catalog.AddInput{
		SKU:     "SKU-1",
		Barcode: "779",
		Name:    "Café de reemplazo",
		Price:   decimal.NewFromInt(11),
	})
	assert.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AdjustStock
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjustStock_AplicaDeltaYDevuelveMovimiento(t *testing.T) {
	c := newCatalog()
	p := mustAdd(t, c, "SKU-1", "Café molido", "food", "12.50", 10)

	mov, err := c.AdjustStock(p.ID, -3, entity.MovementOut, "merma", "ana")
	require.NoError(t, err)

	assert.Equal(t, int64(-3), mov.Quantity)
	assert.Equal(t, entity.MovementOut, mov.Type)
	assert.Equal(t, "ana", mov.CreatedBy)
	assert.NotEmpty(t, mov.ID)

	got, err := c.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Stock)
}

func TestAdjustStock_StockInsuficiente_NoMutaNada(t *testing.T) {
	c := newCatalog()
	p := mustAdd(t, c, "SKU-1", "Café molido", "food", "12.50", 2)

	_, err := c.AdjustStock(p.ID, -3, entity.MovementSale, "venta", "ana")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := c.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Stock, "un ajuste fallido no debe tocar el stock")
}

func TestAdjustStock_TipoInvalidoODeltaCero(t *testing.T) {
	c := newCatalog()
	p := mustAdd(t, c, "SKU-1", "Café molido", "food", "12.50", 10)

	_, err := c.AdjustStock(p.ID, 0, entity.MovementIn, "nada", "ana")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = c.AdjustStock(p.ID, 1, "teleport", "?", "ana")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Search / LowStock / OutOfStock
// ──────────────────────────────────────────────────────────────────────────────

func TestSearch_InsensibleAMayusculas_OrdenDeInsercion(t *testing.T) {
	c := newCatalog()
	mustAdd(t, c, "CAF-1", "Café molido", "food", "12.50", 10)
	mustAdd(t, c, "TE-1", "Té verde", "food", "8.00", 5)
	mustAdd(t, c, "CAM-1", "Camisa lino", "clothing", "35.00", 3)

	results := c.Search("CAF")
	require.Len(t, results, 1)
	assert.Equal(t, "Café molido", results[0].Name)

	// Coincidencia por categoría, en orden de inserción
	results = c.Search("food")
	require.Len(t, results, 2)
	assert.Equal(t, "Café molido", results[0].Name)
	assert.Equal(t, "Té verde", results[1].Name)

	// Query vacío devuelve todo
	assert.Len(t, c.Search(""), 3)
}

func TestLowStock_IncluyeStockIgualAlUmbral(t *testing.T) {
	c := newCatalog()
	mustAdd(t, c, "SKU-1", "Café molido", "food", "12.50", 10) // minStock=2
	low := mustAdd(t, c, "SKU-2", "Té verde", "food", "8.00", 2)
	empty := mustAdd(t, c, "SKU-3", "Camisa lino", "clothing", "35.00", 0)

	lowStock := c.LowStock()
	require.Len(t, lowStock, 2)
	assert.Equal(t, low.ID, lowStock[0].ID)
	assert.Equal(t, empty.ID, lowStock[1].ID)

	outOfStock := c.OutOfStock()
	require.Len(t, outOfStock, 1)
	assert.Equal(t, empty.ID, outOfStock[0].ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de aislamiento de copias
// ──────────────────────────────────────────────────────────────────────────────

func TestGet_DevuelveCopia(t *testing.T) {
	c := newCatalog()
	p := mustAdd(t, c, "SKU-1", "Café molido", "food", "12.50", 10)

	got, err := c.Get(p.ID)
	require.NoError(t, err)
	got.Name = "mutado desde afuera"
	got.Stock = 999

	again, err := c.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Café molido", again.Name)
	assert.Equal(t, int64(10), again.Stock)
}

func TestNow_Inyectable(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := catalog.New(catalog.Deps{Now: func() time.Time { return fixed }})

	p, err := c.Add(catalog.AddInput{SKU: "SKU-1", Name: "Café", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)
	assert.Equal(t, fixed, p.CreatedAt)
}
