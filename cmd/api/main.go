package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"

	appanalytics "github.com/jhoicas/crm-farmaceutico/internal/application/analytics"
	"github.com/jhoicas/crm-farmaceutico/internal/application/inventory"
	"github.com/jhoicas/crm-farmaceutico/internal/application/sales"
	"github.com/jhoicas/crm-farmaceutico/internal/application/usecase"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/repository"
	"github.com/jhoicas/crm-farmaceutico/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/crm-farmaceutico/internal/infrastructure/pdf"
	"github.com/jhoicas/crm-farmaceutico/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/crm-farmaceutico/internal/infrastructure/redis"
	"github.com/jhoicas/crm-farmaceutico/internal/infrastructure/xmlreceipt"
	httpRouter "github.com/jhoicas/crm-farmaceutico/internal/interfaces/http"
	"github.com/jhoicas/crm-farmaceutico/pkg/config"
	"github.com/jhoicas/crm-farmaceutico/pkg/logger"
)

// repos puertos de persistencia elegidos según STORAGE_DRIVER.
type repos struct {
	pharmacies repository.PharmacyRepository
	products   repository.ProductRepository
	lots       repository.StockLotRepository
	customers  repository.CustomerRepository
	sales      repository.SaleRepository
	analytics  repository.AnalyticsRepository
	tx         sales.SaleTxRunner
}

func memoryRepos() repos {
	st := memory.NewStore()
	return repos{
		pharmacies: st.Pharmacies(),
		products:   st.Products(),
		lots:       st.Lots(),
		customers:  st.Customers(),
		sales:      st.Sales(),
		analytics:  st.Analytics(),
		tx:         st.TxRunner(),
	}
}

func postgresRepos(pool *pgxpool.Pool) repos {
	return repos{
		pharmacies: postgres.NewPharmacyRepository(pool),
		products:   postgres.NewProductRepository(pool),
		lots:       postgres.NewStockLotRepository(pool),
		customers:  postgres.NewCustomerRepository(pool),
		sales:      postgres.NewSaleRepository(pool),
		analytics:  postgres.NewAnalyticsRepository(pool),
		tx:         postgres.NewTxRunner(pool),
	}
}

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
		Str("storage", cfg.App.Storage).
		Str("drafts", cfg.Sales.DraftStore).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var r repos
	switch cfg.App.Storage {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		r = postgresRepos(pool)
	default:
		log.Warn().Msg("STORAGE_DRIVER=memory: los datos se pierden al reiniciar")
		r = memoryRepos()
	}

	clock := inventory.SystemClock
	var drafts sales.DraftStore
	switch cfg.Sales.DraftStore {
	case "redis":
		client, err := infraredis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer client.Close()
		drafts = infraredis.NewDraftStore(client)
	default:
		drafts = memory.NewDraftStore(clock)
	}

	builder := sales.NewBuilder(r.products, r.lots, clock)
	committer := sales.NewCommitter(r.tx, r.sales, clock, log)
	saleUC := sales.NewSaleUseCase(builder, committer, drafts, r.sales, r.customers, clock,
		time.Duration(cfg.Sales.DraftTTLMinutes)*time.Minute)
	receiptUC := sales.NewReceiptUseCase(r.sales, r.pharmacies, r.customers, r.products, r.lots,
		infrapdf.NewMarotoReceiptGenerator(), xmlreceipt.NewBuilder())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))
	origins := cfg.HTTP.FrontendURL
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// Swagger UI en local: http://localhost:<port>/docs (solo si se generó docs/swagger.json)
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    cfg.App.Name,
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		PharmacyUC:  usecase.NewPharmacyUseCase(r.pharmacies),
		ProductUC:   usecase.NewProductUseCase(r.products),
		CustomerUC:  usecase.NewCustomerUseCase(r.customers),
		LotUC:       inventory.NewLotUseCase(r.lots, r.products, clock),
		AlertUC:     inventory.NewAlertUseCase(r.lots, r.products, r.pharmacies, clock, cfg.Sales.ExpiryAlertDays),
		SaleUC:      saleUC,
		ReceiptUC:   receiptUC,
		DashboardUC: appanalytics.NewDashboardUseCase(r.analytics, clock, cfg.Sales.ExpiryAlertDays),
		JWTSecret:   cfg.JWT.Secret,
		APIPrefix:   cfg.HTTP.APIPrefix,
		ServiceName: cfg.App.Name,
		Version:     cfg.App.Version,
		Logger:      log,
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
