package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sakura-shop/backoffice/internal/application/ads"
	"github.com/sakura-shop/backoffice/internal/application/analytics"
	"github.com/sakura-shop/backoffice/internal/application/auth"
	"github.com/sakura-shop/backoffice/internal/application/sales"
	"github.com/sakura-shop/backoffice/internal/application/usecase"
	"github.com/sakura-shop/backoffice/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	ProductUC     *usecase.ProductUseCase
	CustomerUC    *usecase.CustomerUseCase
	CreateOrder   *sales.CreateOrderUseCase
	RestoreSale   *sales.RestoreUseCase
	SalesQuery    *sales.QueryUseCase
	DashboardUC   *analytics.DashboardUseCase
	ChannelReport *analytics.ChannelReportUseCase
	AdsImport     *ads.ImportUseCase
	SalePDF       salePDFRenderer
	SaleXML       saleXMLExporter
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authHandler := NewAuthHandler(deps.AuthUC)

	// Auth (público)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	managers := RequireRole(entity.RoleAdmin, entity.RoleManager)

	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/auth/register", RequireRole(entity.RoleAdmin), authHandler.Register)

	// Sales
	salesHandler := NewSalesHandler(deps.CreateOrder, deps.RestoreSale, deps.SalesQuery, deps.SalePDF, deps.SaleXML)
	salesGroup := protected.Group("/sales")
	salesGroup.Post("/", salesHandler.Create)
	salesGroup.Get("/", salesHandler.List)
	// /restore antes de /:idOrDocNo
	salesGroup.Post("/restore", managers, salesHandler.Restore)
	salesGroup.Get("/:idOrDocNo", salesHandler.Get)
	salesGroup.Patch("/:idOrDocNo/status", salesHandler.ChangeStatus)
	salesGroup.Delete("/:idOrDocNo", managers, salesHandler.Delete)
	salesGroup.Get("/:idOrDocNo/pdf", salesHandler.PDF)
	salesGroup.Get("/:idOrDocNo/xml", salesHandler.XML)

	// Products: lectura para todos, escritura admin/manager
	productHandler := NewProductHandler(deps.ProductUC)
	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/:code", productHandler.GetByCode)
	products.Post("/", managers, productHandler.Create)
	products.Put("/:code", managers, productHandler.Update)
	products.Post("/:code/receive", managers, productHandler.Receive)

	// Customers
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers := protected.Group("/customers")
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)

	// Ads
	adsHandler := NewAdsHandler(deps.AdsImport)
	protected.Post("/ads/import", managers, adsHandler.Import)

	// Dashboard y reportes
	protected.Get("/dashboard/summary", NewDashboardHandler(deps.DashboardUC).GetSummary)
	protected.Get("/reports/sales-by-channel", NewReportsHandler(deps.ChannelReport).SalesByChannel)
}
