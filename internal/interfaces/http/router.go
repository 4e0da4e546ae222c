package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-pro/internal/application/catalog"
	"github.com/jhoicas/pos-pro/internal/application/ledger"
	"github.com/jhoicas/pos-pro/internal/application/loyalty"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Catalog   *catalog.Catalog
	Ledger    *ledger.Ledger
	Loyalty   *loyalty.Manager
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Health (público)
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Rutas protegidas (requieren Bearer Token de cajero)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.Catalog)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/out-of-stock", productHandler.OutOfStock)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Sales (protegido)
	sales := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.Ledger)
	sales.Post("/", saleHandler.Create)
	sales.Get("/", saleHandler.List)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Post("/:id/refund", saleHandler.Refund)

	// Inventory movements y órdenes de compra (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger)
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/reorder-suggestions", inventoryHandler.ReorderSuggestions)
	invGroup.Post("/purchase-orders", inventoryHandler.CreatePurchaseOrder)
	invGroup.Get("/purchase-orders", inventoryHandler.ListPurchaseOrders)
	invGroup.Get("/purchase-orders/:id", inventoryHandler.GetPurchaseOrder)
	invGroup.Patch("/purchase-orders/:id/status", inventoryHandler.UpdatePurchaseOrderStatus)

	// Customers (protegido, fidelización)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.Loyalty)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Post("/:id/redeem", customerHandler.Redeem)

	// Reports (protegido; solo admin y manager para exportar)
	reportsGroup := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.Ledger, deps.Catalog)
	reportsGroup.Get("/sales", reportHandler.Sales)
	reportsGroup.Get("/inventory", reportHandler.Inventory)
	reportsGroup.Get("/export/:kind", RequireRole("admin", "manager"), reportHandler.Export)
}
