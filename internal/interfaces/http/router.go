package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cafe-ledger-api/internal/application/contract"
	"github.com/jhoicas/cafe-ledger-api/internal/application/deposit"
	"github.com/jhoicas/cafe-ledger-api/internal/application/inventory"
	"github.com/jhoicas/cafe-ledger-api/internal/application/loan"
	"github.com/jhoicas/cafe-ledger-api/internal/application/ports"
	"github.com/jhoicas/cafe-ledger-api/internal/application/receipt"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/entity"
	"github.com/jhoicas/cafe-ledger-api/pkg/jwt"
	"github.com/rs/zerolog"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LotIntake      *inventory.LotIntakeUseCase
	Fulfillment    *contract.FulfillmentUseCase
	Loans          *loan.LedgerUseCase
	Deposits       *deposit.LiquidationUseCase
	Receipts       *receipt.Service
	Idempotency    ports.IdempotencyStore
	IdempotencyTTL time.Duration
	JWTSecret      string
	JWTIssuer      string
	ServiceName    string
	Log            zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	// Todo /api requiere Bearer Token; las mutaciones aceptan Idempotency-Key.
	api := app.Group("/api",
		AuthMiddleware(deps.JWTSecret, deps.JWTIssuer),
		Idempotency(deps.Idempotency, deps.IdempotencyTTL, deps.Log),
	)
	read := RequireRole(jwt.RoleAdmin, jwt.RoleOperator, jwt.RoleViewer)
	write := RequireRole(jwt.RoleAdmin, jwt.RoleOperator)
	admin := RequireRole(jwt.RoleAdmin)

	// Pool de inventario
	inventoryHandler := NewInventoryHandler(deps.LotIntake)
	api.Post("/inventory/lots", write, inventoryHandler.CreateLot)
	api.Get("/inventory/lots", read, inventoryHandler.ListLots)
	api.Get("/inventory/lots/:id/movements", read, inventoryHandler.LotMovements)

	// Contratos y entregas
	contractHandler := NewContractHandler(deps.Fulfillment, deps.Receipts)
	api.Get("/contracts/:id", read, contractHandler.GetPosition)
	api.Post("/contracts/:id/deliveries", write, contractHandler.CreateDelivery)
	api.Put("/deliveries/:id", write, contractHandler.EditDelivery)
	api.Delete("/deliveries/:id", admin, contractHandler.VoidDelivery)

	// Préstamos y anticipos: mismas reglas, libros separados
	books := []struct {
		prefix, movements, kind string
	}{
		{"/loans", "/loan-movements", entity.LedgerKindLoan},
		{"/advances", "/advance-movements", entity.LedgerKindAdvance},
	}
	for _, b := range books {
		h := NewLoanHandler(deps.Loans, deps.Receipts, b.kind)
		api.Post(b.prefix, write, h.Open)
		api.Get(b.prefix+"/:id", read, h.Statement)
		api.Post(b.prefix+"/:id/movements", write, h.AppendMovement)
		api.Post(b.prefix+"/:id/interest", write, h.AccrueInterest)
		api.Delete(b.movements+"/:id", admin, h.VoidMovement)
	}

	// Depósitos y liquidaciones
	depositHandler := NewDepositHandler(deps.Deposits, deps.Receipts)
	api.Post("/deposits", write, depositHandler.Register)
	api.Get("/deposits/:id/liquidations", read, depositHandler.Balance)
	api.Post("/deposits/:id/liquidations", write, depositHandler.LiquidateDeposit)
	api.Delete("/deposits/:id", admin, depositHandler.Delete)
	api.Post("/liquidations", write, depositHandler.LiquidateClient)
	api.Delete("/liquidations/:id", admin, depositHandler.VoidLiquidation)

	// Comprobantes
	receiptHandler := NewReceiptHandler(deps.Receipts)
	api.Get("/comprobantes/:kind/:id", read, receiptHandler.Get)
}
