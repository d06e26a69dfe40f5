package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/cafe-ledger-api/internal/domain"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/entity"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/ledger"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Reference identifica la operación que origina movimientos en el pool.
type Reference struct {
	TransactionID string
	Type          string
	ID            int64
	Note          string
	UserID        string
	Scope         entity.LotScope
	At            time.Time
}

// Pool descuenta y reintegra cantidades en los lotes, escribiendo un movimiento por lote tocado.
// Siempre se invoca con repositorios atados a la transacción del caller.
type Pool interface {
	Withdraw(ctx context.Context,
		lots repository.InventoryLotRepository,
		movements repository.InventoryMovementRepository,
		quantity decimal.Decimal, ref Reference,
	) ([]*entity.InventoryMovement, error)
	Credit(ctx context.Context,
		lots repository.InventoryLotRepository,
		movements repository.InventoryMovementRepository,
		quantity decimal.Decimal, ref Reference,
	) (*entity.InventoryMovement, error)
}

// CreditTarget elige el lote que recibe un reintegro. Recibe los lotes ordenados por id ascendente;
// devolver nil crea un lote nuevo para el reintegro.
type CreditTarget func(lots []*entity.InventoryLot) *entity.InventoryLot

// FirstLot reintegra al primer lote encontrado (menor id), aunque no sea el que se descontó.
func FirstLot(lots []*entity.InventoryLot) *entity.InventoryLot {
	if len(lots) == 0 {
		return nil
	}
	return lots[0]
}

var _ Pool = (*GlobalPool)(nil)

// GlobalPool pool único sin partición por producto ni cliente: el alcance de la referencia se ignora.
type GlobalPool struct {
	creditTarget CreditTarget
}

// NewGlobalPool construye el pool. target nil usa FirstLot.
func NewGlobalPool(target CreditTarget) *GlobalPool {
	if target == nil {
		target = FirstLot
	}
	return &GlobalPool{creditTarget: target}
}

// Withdraw recorre los lotes por id ascendente y descuenta min(pendiente, existencia) de cada uno.
// Si el total disponible no alcanza no toca ningún lote y devuelve *domain.InsufficientInventoryError.
func (p *GlobalPool) Withdraw(
	ctx context.Context,
	lots repository.InventoryLotRepository,
	movements repository.InventoryMovementRepository,
	quantity decimal.Decimal, ref Reference,
) ([]*entity.InventoryMovement, error) {
	quantity = ledger.Truncate2(quantity)
	if !quantity.IsPositive() {
		return nil, domain.Invalid("cantidad", "debe ser mayor que cero")
	}
	pool, err := lots.ListForUpdate(ctx, entity.LotScope{})
	if err != nil {
		return nil, err
	}
	available := decimal.Zero
	for _, lot := range pool {
		if lot.Quantity.IsPositive() {
			available = available.Add(lot.Quantity)
		}
	}
	if available.LessThan(quantity) {
		return nil, &domain.InsufficientInventoryError{Requested: quantity, Available: available}
	}

	pending := quantity
	var written []*entity.InventoryMovement
	for _, lot := range pool {
		if !pending.IsPositive() {
			break
		}
		if !lot.Quantity.IsPositive() {
			continue
		}
		take := ledger.MinDecimal(pending, lot.Quantity)
		lot.Quantity = lot.Quantity.Sub(take)
		if err := lots.UpdateQuantity(ctx, lot.ID, lot.Quantity, ref.At); err != nil {
			return nil, err
		}
		mov := &entity.InventoryMovement{
			TransactionID: ref.TransactionID,
			LotID:         lot.ID,
			Direction:     entity.MovementDirectionOut,
			ReferenceType: ref.Type,
			ReferenceID:   ref.ID,
			Quantity:      take,
			Note:          ref.Note,
			CreatedAt:     ref.At,
			CreatedBy:     ref.UserID,
		}
		if err := movements.Create(ctx, mov); err != nil {
			return nil, err
		}
		written = append(written, mov)
		pending = pending.Sub(take)
	}
	return written, nil
}

// Credit reintegra la cantidad al lote elegido por la estrategia y escribe su movimiento de entrada.
func (p *GlobalPool) Credit(
	ctx context.Context,
	lots repository.InventoryLotRepository,
	movements repository.InventoryMovementRepository,
	quantity decimal.Decimal, ref Reference,
) (*entity.InventoryMovement, error) {
	quantity = ledger.Truncate2(quantity)
	if !quantity.IsPositive() {
		return nil, domain.Invalid("cantidad", "debe ser mayor que cero")
	}
	pool, err := lots.ListForUpdate(ctx, entity.LotScope{})
	if err != nil {
		return nil, err
	}
	target := p.creditTarget(pool)
	if target == nil {
		// pool vacío: el reintegro abre un lote propio
		target = &entity.InventoryLot{
			Reference: fmt.Sprintf("reintegro %s #%d", ref.Type, ref.ID),
			Quantity:  quantity,
			CreatedAt: ref.At,
			UpdatedAt: ref.At,
		}
		if err := lots.Create(ctx, target); err != nil {
			return nil, err
		}
	} else {
		target.Quantity = target.Quantity.Add(quantity)
		if err := lots.UpdateQuantity(ctx, target.ID, target.Quantity, ref.At); err != nil {
			return nil, err
		}
	}
	mov := &entity.InventoryMovement{
		TransactionID: ref.TransactionID,
		LotID:         target.ID,
		Direction:     entity.MovementDirectionIn,
		ReferenceType: ref.Type,
		ReferenceID:   ref.ID,
		Quantity:      quantity,
		Note:          ref.Note,
		CreatedAt:     ref.At,
		CreatedBy:     ref.UserID,
	}
	if err := movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}
