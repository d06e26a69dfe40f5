package repository

import (
	"context"

	"github.com/jhoicas/cafe-ledger-api/internal/domain/entity"
)

// InventoryMovementRepository puerto append-only de movimientos de inventario (sin Update ni Delete).
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	ListByReference(ctx context.Context, referenceType string, referenceID int64) ([]*entity.InventoryMovement, error)
	ListByLot(ctx context.Context, lotID int64) ([]*entity.InventoryMovement, error)
}
