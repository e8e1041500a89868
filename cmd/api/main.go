// @title           Sakura Back-office API
// @version         1.0
// @description     Pedidos, stock, clientes y reportes de la tienda.
// @BasePath        /
// @securityDefinitions.apikey Bearer
// @in              header
// @name            Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/sakura-shop/backoffice/docs"
	"github.com/sakura-shop/backoffice/internal/application/ads"
	"github.com/sakura-shop/backoffice/internal/application/analytics"
	"github.com/sakura-shop/backoffice/internal/application/auth"
	"github.com/sakura-shop/backoffice/internal/application/sales"
	"github.com/sakura-shop/backoffice/internal/application/usecase"
	"github.com/sakura-shop/backoffice/internal/domain/entity"
	"github.com/sakura-shop/backoffice/internal/infrastructure/export"
	infrapdf "github.com/sakura-shop/backoffice/internal/infrastructure/pdf"
	httpRouter "github.com/sakura-shop/backoffice/internal/interfaces/http"
	"github.com/sakura-shop/backoffice/pkg/config"
	"github.com/sakura-shop/backoffice/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	repos, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("persistencia")
	}
	defer repos.close()

	authUC := auth.NewAuthUseCase(repos.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	created, err := authUC.EnsureAdmin(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("crear administrador inicial")
	}
	if created {
		log.Info().Str("email", cfg.Seed.AdminEmail).Msg("administrador inicial creado")
	}

	salesLog := log.Component("sales")
	createOrderUC := sales.NewCreateOrderUseCase(
		repos.tx,
		sales.NewLastRowAllocator(repos.sales),
		sales.NewCustomerResolver(repos.customers),
		repos.products,
		salesLog,
	)
	restoreUC := sales.NewRestoreUseCase(repos.tx, salesLog)
	salesQueryUC := sales.NewQueryUseCase(repos.sales)

	productUC := usecase.NewProductUseCase(repos.products, repos.tx, log.Component("products"))
	customerUC := usecase.NewCustomerUseCase(repos.customers)
	adsUC := ads.NewImportUseCase(repos.adSpend, log.Component("ads"))
	dashboardUC := analytics.NewDashboardUseCase(repos.analytics, repos.products)
	channelReportUC := analytics.NewChannelReportUseCase(repos.analytics)

	shop := entity.Shop{Name: cfg.Shop.Name, Address: cfg.Shop.Address, TaxID: cfg.Shop.TaxID}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	docs.SwaggerInfo.Title = cfg.App.Name
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		ProductUC:     productUC,
		CustomerUC:    customerUC,
		CreateOrder:   createOrderUC,
		RestoreSale:   restoreUC,
		SalesQuery:    salesQueryUC,
		DashboardUC:   dashboardUC,
		ChannelReport: channelReportUC,
		AdsImport:     adsUC,
		SalePDF:       infrapdf.NewMarotoPDFGenerator(shop),
		SaleXML:       export.NewSaleXMLExporter(shop),
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
