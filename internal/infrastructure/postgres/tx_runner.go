package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/cafe-ledger-api/internal/application/contract"
	"github.com/jhoicas/cafe-ledger-api/internal/application/deposit"
	"github.com/jhoicas/cafe-ledger-api/internal/application/inventory"
	"github.com/jhoicas/cafe-ledger-api/internal/application/loan"
	"github.com/jhoicas/cafe-ledger-api/internal/domain"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/repository"
)

// Ensure TxRunner implementa los runners de los cuatro motores.
var (
	_ contract.TxRunner  = (*TxRunner)(nil)
	_ inventory.TxRunner = (*TxRunner)(nil)
	_ loan.TxRunner      = (*TxRunner)(nil)
	_ deposit.TxRunner   = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// inTx abre la transacción, ejecuta fn y hace Commit; cualquier error deja Rollback.
// Los bloqueos de fila los toma fn con SELECT FOR UPDATE.
func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		if isLockTimeout(err) {
			return fmt.Errorf("%w: registro bloqueado por otra operación", domain.ErrConflict)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunContract transacción del motor de cumplimiento: contratos, entregas y pool.
func (r *TxRunner) RunContract(ctx context.Context, fn func(
	contracts repository.ContractRepository,
	deliveries repository.ContractDeliveryRepository,
	lots repository.InventoryLotRepository,
	movements repository.InventoryMovementRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(
			NewContractRepository(tx),
			NewContractDeliveryRepository(tx),
			NewInventoryLotRepository(tx),
			NewInventoryMovementRepository(tx),
		)
	})
}

// RunInventory transacción de ingresos de lotes.
func (r *TxRunner) RunInventory(ctx context.Context, fn func(
	lots repository.InventoryLotRepository,
	movements repository.InventoryMovementRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewInventoryLotRepository(tx), NewInventoryMovementRepository(tx))
	})
}

// RunLoan transacción del libro de préstamos y anticipos.
func (r *TxRunner) RunLoan(ctx context.Context, fn func(
	loans repository.LoanRepository,
	movements repository.LoanMovementRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewLoanRepository(tx), NewLoanMovementRepository(tx))
	})
}

// RunDeposit transacción del libro de depósitos.
func (r *TxRunner) RunDeposit(ctx context.Context, fn func(
	deposits repository.DepositRepository,
	liquidations repository.DepositLiquidationRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewDepositRepository(tx), NewDepositLiquidationRepository(tx))
	})
}
