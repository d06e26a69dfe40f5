package inventory

import (
	"context"

	"github.com/jhoicas/cafe-ledger-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para los ingresos de lotes al pool.
type TxRunner interface {
	RunInventory(ctx context.Context, fn func(
		lots repository.InventoryLotRepository,
		movements repository.InventoryMovementRepository,
	) error) error
}
