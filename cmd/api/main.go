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
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jhoicas/cafe-ledger-api/internal/application/contract"
	"github.com/jhoicas/cafe-ledger-api/internal/application/deposit"
	"github.com/jhoicas/cafe-ledger-api/internal/application/inventory"
	"github.com/jhoicas/cafe-ledger-api/internal/application/loan"
	"github.com/jhoicas/cafe-ledger-api/internal/application/ports"
	"github.com/jhoicas/cafe-ledger-api/internal/application/receipt"
	"github.com/jhoicas/cafe-ledger-api/internal/infrastructure/cache"
	"github.com/jhoicas/cafe-ledger-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/cafe-ledger-api/internal/infrastructure/pdf"
	"github.com/jhoicas/cafe-ledger-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/cafe-ledger-api/internal/interfaces/http"
	"github.com/jhoicas/cafe-ledger-api/pkg/config"
	"github.com/jhoicas/cafe-ledger-api/pkg/logger"
)

// ledgerStore transacciones de los cuatro motores; lo implementan postgres.TxRunner y memory.Store.
type ledgerStore interface {
	contract.TxRunner
	inventory.TxRunner
	loan.TxRunner
	deposit.TxRunner
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.App.StorageDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		store   ledgerStore
		clients receipt.ClientDirectory
	)
	switch cfg.App.StorageDriver {
	case config.StorageDriverMemory:
		mem := memory.NewStore()
		store, clients = mem, mem.Clients()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		store, clients = postgres.NewTxRunner(pool), postgres.NewClientRepository(pool)
	}

	// Redis opcional: sin REDIS_ADDR las claves de idempotencia y los comprobantes viven en memoria.
	var (
		idempotency ports.IdempotencyStore = memory.NewIdempotencyStore()
		receipts    ports.ReceiptStore     = memory.NewReceiptStore()
	)
	if cfg.Redis.Enabled() {
		rdb, err := cache.OpenRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a redis")
		}
		defer rdb.Close()
		idempotency, receipts = cache.NewIdempotencyStore(rdb), cache.NewReceiptStore(rdb)
	}

	lotIntakeUC := inventory.NewLotIntakeUseCase(store, log.Component("inventory"))
	fulfillmentUC := contract.NewFulfillmentUseCase(store, inventory.NewGlobalPool(nil), log.Component("contract"))
	loanUC := loan.NewLedgerUseCase(store, log.Component("loan"))
	depositUC := deposit.NewLiquidationUseCase(store, log.Component("deposit"))

	// PDF: comprobante de cada movimiento, emitido después del commit
	receiptSvc := receipt.NewService(
		infrapdf.NewReceiptGenerator(cfg.HTTP.PublicBaseURL),
		receipts, clients, cfg.Receipt.CompanyName, cfg.Receipt.TTL,
		log.Component("receipt"),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Café Ledger API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		LotIntake:      lotIntakeUC,
		Fulfillment:    fulfillmentUC,
		Loans:          loanUC,
		Deposits:       depositUC,
		Receipts:       receiptSvc,
		Idempotency:    idempotency,
		IdempotencyTTL: cfg.Redis.IdempotencyTTL,
		JWTSecret:      cfg.JWT.Secret,
		JWTIssuer:      cfg.JWT.Issuer,
		ServiceName:    cfg.App.Name,
		Log:            log.Component("http"),
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
