package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/cafe-ledger-api/internal/domain"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/entity"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/ledger"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// LotIntakeUseCase registra ingresos de café al pool (compras, importaciones) de forma transaccional:
// crea el lote y su movimiento de Entrada en la misma tx.
type LotIntakeUseCase struct {
	txRunner TxRunner
	log      zerolog.Logger
	now      func() time.Time
}

// NewLotIntakeUseCase construye el caso de uso.
func NewLotIntakeUseCase(txRunner TxRunner, log zerolog.Logger) *LotIntakeUseCase {
	return &LotIntakeUseCase{txRunner: txRunner, log: log, now: time.Now}
}

// LotEntryInput entrada para registrar un lote.
type LotEntryInput struct {
	Reference string
	Quantity  decimal.Decimal
	Note      string
	UserID    string
}

// PoolSnapshot existencia actual del pool.
type PoolSnapshot struct {
	Lots  []*entity.InventoryLot
	Total decimal.Decimal
}

// LotHistory lote con su bitácora de movimientos. Net = Σ entradas − Σ salidas y debe igualar Quantity.
type LotHistory struct {
	Lot       *entity.InventoryLot
	Movements []*entity.InventoryMovement
	Net       decimal.Decimal
}

// RegisterEntry crea un lote con la cantidad truncada y su movimiento de Entrada.
func (uc *LotIntakeUseCase) RegisterEntry(ctx context.Context, in LotEntryInput) (*entity.InventoryLot, error) {
	qty := ledger.Truncate2(in.Quantity)
	if !qty.IsPositive() {
		return nil, domain.Invalid("cantidad", "debe ser mayor que cero")
	}
	if in.Reference == "" {
		return nil, domain.Invalid("referencia", "requerida")
	}
	now := uc.now()
	txID := uuid.New().String()
	var lot *entity.InventoryLot

	err := uc.txRunner.RunInventory(ctx, func(
		lots repository.InventoryLotRepository,
		movements repository.InventoryMovementRepository,
	) error {
		lot = &entity.InventoryLot{Reference: in.Reference, Quantity: qty, CreatedAt: now, UpdatedAt: now}
		if err := lots.Create(ctx, lot); err != nil {
			return err
		}
		return movements.Create(ctx, &entity.InventoryMovement{
			TransactionID: txID,
			LotID:         lot.ID,
			Direction:     entity.MovementDirectionIn,
			ReferenceType: entity.ReferenceLotIntake,
			ReferenceID:   lot.ID,
			Quantity:      qty,
			Note:          in.Note,
			CreatedAt:     now,
			CreatedBy:     in.UserID,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("lot_id", lot.ID).Str("qty", qty.String()).Str("tx", txID).Msg("ingreso de lote registrado")
	return lot, nil
}

// Snapshot lista los lotes y la suma del pool.
func (uc *LotIntakeUseCase) Snapshot(ctx context.Context) (*PoolSnapshot, error) {
	var snap PoolSnapshot
	err := uc.txRunner.RunInventory(ctx, func(lots repository.InventoryLotRepository, _ repository.InventoryMovementRepository) error {
		list, err := lots.List(ctx)
		if err != nil {
			return err
		}
		snap.Lots = list
		return nil
	})
	if err != nil {
		return nil, err
	}
	snap.Total = decimal.Zero
	for _, l := range snap.Lots {
		snap.Total = snap.Total.Add(l.Quantity)
	}
	return &snap, nil
}

// History devuelve los movimientos de un lote en orden de escritura.
func (uc *LotIntakeUseCase) History(ctx context.Context, lotID int64) (*LotHistory, error) {
	if lotID <= 0 {
		return nil, domain.Invalid("lote_id", "requerido")
	}
	var h LotHistory
	err := uc.txRunner.RunInventory(ctx, func(lots repository.InventoryLotRepository, movements repository.InventoryMovementRepository) error {
		lot, err := lots.GetByID(ctx, lotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrNotFound
		}
		list, err := movements.ListByLot(ctx, lotID)
		if err != nil {
			return err
		}
		h.Lot, h.Movements = lot, list
		return nil
	})
	if err != nil {
		return nil, err
	}
	h.Net = decimal.Zero
	for _, m := range h.Movements {
		h.Net = h.Net.Add(m.Signed())
	}
	return &h, nil
}
