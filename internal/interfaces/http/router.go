package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/crm-farmaceutico/internal/application/analytics"
	"github.com/jhoicas/crm-farmaceutico/internal/application/inventory"
	"github.com/jhoicas/crm-farmaceutico/internal/application/sales"
	"github.com/jhoicas/crm-farmaceutico/internal/application/usecase"
	"github.com/jhoicas/crm-farmaceutico/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	PharmacyUC  *usecase.PharmacyUseCase
	ProductUC   *usecase.ProductUseCase
	CustomerUC  *usecase.CustomerUseCase
	LotUC       *inventory.LotUseCase
	AlertUC     *inventory.AlertUseCase
	SaleUC      *sales.SaleUseCase
	ReceiptUC   *sales.ReceiptUseCase
	DashboardUC *appanalytics.DashboardUseCase
	JWTSecret   string
	APIPrefix   string // default /api/v1
	ServiceName string
	Version     string
	Logger      *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	prefix := deps.APIPrefix
	if prefix == "" {
		prefix = "/api/v1"
	}
	api := app.Group(prefix)

	// Health (público)
	health := NewHealthHandler(deps.ServiceName, deps.Version)
	app.Get("/health", health.Check)
	api.Get("/health", health.Check)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	backOffice := RequireRole(RoleAdmin, RoleManager, RolePharmacist)

	// Pharmacies (solo ADMIN)
	pharmacies := protected.Group("/pharmacies", RequireRole(RoleAdmin))
	pharmacyHandler := NewPharmacyHandler(deps.PharmacyUC, log)
	pharmacies.Post("/", pharmacyHandler.Create)
	pharmacies.Get("/", pharmacyHandler.List)
	pharmacies.Get("/:id", pharmacyHandler.GetByID)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, log)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", backOffice, productHandler.Create)
	products.Put("/:id", backOffice, productHandler.Update)
	products.Delete("/:id", backOffice, productHandler.Delete)

	// Inventory: las rutas fijas antes de /:productId
	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.LotUC, deps.AlertUC, log)
	inv.Post("/lots", backOffice, inventoryHandler.CreateLot)
	inv.Get("/lots/:id", inventoryHandler.GetLot)
	inv.Get("/alerts/expiring", inventoryHandler.Expiring)
	inv.Get("/alerts/low-stock", inventoryHandler.LowStock)
	inv.Get("/:productId", inventoryHandler.Availability)

	// Customers
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC, log)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", backOffice, customerHandler.Delete)

	// Sales: borradores antes de /:id
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC, deps.ReceiptUC, log)
	salesGroup.Post("/drafts", saleHandler.OpenDraft)
	salesGroup.Get("/drafts/:id", saleHandler.GetDraft)
	salesGroup.Post("/drafts/:id/items", saleHandler.AddDraftItem)
	salesGroup.Delete("/drafts/:id/items/:lineId", saleHandler.RemoveDraftItem)
	salesGroup.Post("/drafts/:id/commit", saleHandler.CommitDraft)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id/receipt.pdf", saleHandler.ReceiptPDF)
	salesGroup.Get("/:id/receipt.xml", saleHandler.ReceiptXML)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Delete("/:id", saleHandler.Cancel)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, log)
	protected.Get("/dashboard/summary", dashboardHandler.GetSummary)
}
