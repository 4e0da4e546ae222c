package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-pro/internal/application/catalog"
	"github.com/jhoicas/pos-pro/internal/application/dto"
)

// ProductHandler maneja las peticiones HTTP del catálogo (protegido).
type ProductHandler struct {
	catalog *catalog.Catalog
}

// NewProductHandler construye el handler.
func NewProductHandler(cat *catalog.Catalog) *ProductHandler {
	return &ProductHandler{catalog: cat}
}

// Create registra un producto nuevo en el catálogo.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.catalog.Add(catalog.AddInput{
		SKU:      in.SKU,
		Barcode:  in.Barcode,
		Name:     in.Name,
		Category: in.Category,
		Price:    in.Price,
		Stock:    in.Stock,
		MinStock: in.MinStock,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List lista productos; con ?q= hace búsqueda por substring sobre
// nombre/SKU/categoría/código de barras.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	if q := c.Query("q"); q != "" {
		return c.JSON(h.catalog.Search(q))
	}
	return c.JSON(h.catalog.List())
}

// GetByID obtiene un producto por ID.
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.catalog.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update actualiza campos parciales de un producto. El stock no se toca por
// aquí; va por movimientos de inventario.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.catalog.Update(c.Params("id"), catalog.UpdateInput{
		SKU:      in.SKU,
		Barcode:  in.Barcode,
		Name:     in.Name,
		Category: in.Category,
		Price:    in.Price,
		MinStock: in.MinStock,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete elimina un producto.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.catalog.Delete(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LowStock lista los productos con stock en o bajo su umbral de reposición.
func (h *ProductHandler) LowStock(c *fiber.Ctx) error {
	return c.JSON(h.catalog.LowStock())
}

// OutOfStock lista los productos sin existencias.
func (h *ProductHandler) OutOfStock(c *fiber.Ctx) error {
	return c.JSON(h.catalog.OutOfStock())
}
