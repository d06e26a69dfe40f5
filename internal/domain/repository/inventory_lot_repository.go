package repository

import (
	"context"
	"time"

	"github.com/jhoicas/cafe-ledger-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// InventoryLotRepository puerto del pool de lotes.
type InventoryLotRepository interface {
	Create(ctx context.Context, lot *entity.InventoryLot) error
	// GetByID devuelve (nil, nil) si el lote no existe.
	GetByID(ctx context.Context, id int64) (*entity.InventoryLot, error)
	// ListForUpdate devuelve los lotes del alcance ordenados por id ascendente y los bloquea.
	ListForUpdate(ctx context.Context, scope entity.LotScope) ([]*entity.InventoryLot, error)
	UpdateQuantity(ctx context.Context, id int64, quantity decimal.Decimal, at time.Time) error
	List(ctx context.Context) ([]*entity.InventoryLot, error)
}
