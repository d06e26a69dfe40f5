package contract

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/cafe-ledger-api/internal/application/inventory"
	"github.com/jhoicas/cafe-ledger-api/internal/domain"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/entity"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/ledger"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// FulfillmentUseCase motor de cumplimiento de contratos: crea, edita y anula entregas moviendo el pool
// de inventario y recalculando el estado del contrato dentro de la misma transacción.
type FulfillmentUseCase struct {
	txRunner TxRunner
	pool     inventory.Pool
	log      zerolog.Logger
	now      func() time.Time
}

// NewFulfillmentUseCase construye el motor.
func NewFulfillmentUseCase(txRunner TxRunner, pool inventory.Pool, log zerolog.Logger) *FulfillmentUseCase {
	return &FulfillmentUseCase{txRunner: txRunner, pool: pool, log: log, now: time.Now}
}

// CreateDeliveryInput entrada de CreateDelivery.
type CreateDeliveryInput struct {
	ContractID int64
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	Notes      string
	UserID     string
}

// EditDeliveryInput entrada de EditDelivery.
type EditDeliveryInput struct {
	DeliveryID int64
	Quantity   decimal.Decimal
	Notes      string
	UserID     string
}

// DeliveryResult estado posterior al commit.
type DeliveryResult struct {
	Delivery  *entity.ContractDelivery
	Contract  *entity.Contract
	Delivered decimal.Decimal // Σ entregas activas
	Remaining decimal.Decimal // pendiente por entregar (0 si ya se cumplió)
	Movements []*entity.InventoryMovement
}

// Position vista de lectura de un contrato.
type Position struct {
	Contract   *entity.Contract
	Deliveries []*entity.ContractDelivery
	Delivered  decimal.Decimal
	Remaining  decimal.Decimal
	Amount     decimal.Decimal // Σ cantidad × precio de las entregas activas
	// Movements movimientos de inventario de cada entrega (salidas y reintegros), por id de entrega.
	Movements map[int64][]*entity.InventoryMovement
}

// CreateDelivery registra una entrega: descuenta el pool por id de lote ascendente, inserta la entrega
// y recalcula el estado. Si el pool no alcanza, aborta todo con *domain.InsufficientInventoryError.
func (uc *FulfillmentUseCase) CreateDelivery(ctx context.Context, in CreateDeliveryInput) (*DeliveryResult, error) {
	qty := ledger.Truncate2(in.Quantity)
	if in.ContractID <= 0 {
		return nil, domain.Invalid("contrato_id", "requerido")
	}
	if !qty.IsPositive() {
		return nil, domain.Invalid("cantidad", "debe ser mayor que cero")
	}
	if in.UnitPrice.IsNegative() {
		return nil, domain.Invalid("precio", "no puede ser negativo")
	}

	now := uc.now()
	txID := uuid.New().String()
	var res *DeliveryResult

	err := uc.txRunner.RunContract(ctx, func(
		contracts repository.ContractRepository,
		deliveries repository.ContractDeliveryRepository,
		lots repository.InventoryLotRepository,
		movements repository.InventoryMovementRepository,
	) error {
		c, err := lockOpenContract(ctx, contracts, in.ContractID)
		if err != nil {
			return err
		}
		delivery := &entity.ContractDelivery{
			ContractID: c.ID,
			Quantity:   qty,
			UnitPrice:  in.UnitPrice,
			Tag:        entity.DeliveryTagEntry,
			Notes:      in.Notes,
			Date:       now,
			UpdatedAt:  now,
			CreatedBy:  in.UserID,
		}
		if err := deliveries.Create(ctx, delivery); err != nil {
			return err
		}
		movs, err := uc.pool.Withdraw(ctx, lots, movements, qty, uc.reference(txID, delivery.ID, in.UserID, in.Notes, c, now))
		if err != nil {
			return err
		}
		res, err = recompute(ctx, contracts, deliveries, c, now)
		if err != nil {
			return err
		}
		res.Delivery = delivery
		res.Movements = movs
		return nil
	})
	if err != nil {
		uc.logRejected(err, "crear entrega", in.ContractID)
		return nil, err
	}
	uc.log.Info().
		Int64("contract_id", res.Contract.ID).
		Int64("delivery_id", res.Delivery.ID).
		Str("qty", qty.String()).
		Str("status", res.Contract.Status).
		Str("tx", txID).
		Msg("entrega registrada")
	return res, nil
}

// EditDelivery cambia cantidad y notas. delta = nueva − anterior:
// delta > 0 descuenta el pool como CreateDelivery; delta < 0 reintegra |delta| según la estrategia del pool;
// delta == 0 solo actualiza notas y fecha.
func (uc *FulfillmentUseCase) EditDelivery(ctx context.Context, in EditDeliveryInput) (*DeliveryResult, error) {
	qty := ledger.Truncate2(in.Quantity)
	if in.DeliveryID <= 0 {
		return nil, domain.Invalid("entrega_id", "requerido")
	}
	if !qty.IsPositive() {
		return nil, domain.Invalid("cantidad", "debe ser mayor que cero")
	}

	now := uc.now()
	txID := uuid.New().String()
	var res *DeliveryResult

	err := uc.txRunner.RunContract(ctx, func(
		contracts repository.ContractRepository,
		deliveries repository.ContractDeliveryRepository,
		lots repository.InventoryLotRepository,
		movements repository.InventoryMovementRepository,
	) error {
		delivery, c, err := lockDelivery(ctx, contracts, deliveries, in.DeliveryID)
		if err != nil {
			return err
		}
		if !delivery.Active() {
			return domain.ErrDeliveryVoided
		}

		delta := qty.Sub(delivery.Quantity)
		ref := uc.reference(txID, delivery.ID, in.UserID, in.Notes, c, now)
		var movs []*entity.InventoryMovement
		switch {
		case delta.IsPositive():
			movs, err = uc.pool.Withdraw(ctx, lots, movements, delta, ref)
			if err != nil {
				return err
			}
		case delta.IsNegative():
			mov, err := uc.pool.Credit(ctx, lots, movements, delta.Abs(), ref)
			if err != nil {
				return err
			}
			movs = append(movs, mov)
		}

		delivery.Quantity = qty
		delivery.Notes = in.Notes
		delivery.UpdatedAt = now
		if err := deliveries.Update(ctx, delivery); err != nil {
			return err
		}
		res, err = recompute(ctx, contracts, deliveries, c, now)
		if err != nil {
			return err
		}
		res.Delivery = delivery
		res.Movements = movs
		return nil
	})
	if err != nil {
		uc.logRejected(err, "editar entrega", in.DeliveryID)
		return nil, err
	}
	uc.log.Info().
		Int64("contract_id", res.Contract.ID).
		Int64("delivery_id", res.Delivery.ID).
		Str("qty", qty.String()).
		Str("status", res.Contract.Status).
		Str("tx", txID).
		Msg("entrega editada")
	return res, nil
}

// VoidDelivery anula una entrega (cambia la etiqueta, la fila se conserva) y reintegra su cantidad completa
// al pool. Solo puede mover el contrato de Liquidado a Pendiente.
func (uc *FulfillmentUseCase) VoidDelivery(ctx context.Context, deliveryID int64, userID string) (*DeliveryResult, error) {
	if deliveryID <= 0 {
		return nil, domain.Invalid("entrega_id", "requerido")
	}
	now := uc.now()
	txID := uuid.New().String()
	var res *DeliveryResult

	err := uc.txRunner.RunContract(ctx, func(
		contracts repository.ContractRepository,
		deliveries repository.ContractDeliveryRepository,
		lots repository.InventoryLotRepository,
		movements repository.InventoryMovementRepository,
	) error {
		delivery, c, err := lockDelivery(ctx, contracts, deliveries, deliveryID)
		if err != nil {
			return err
		}
		if !delivery.Active() {
			return domain.ErrDeliveryVoided
		}
		mov, err := uc.pool.Credit(ctx, lots, movements, delivery.Quantity,
			uc.reference(txID, delivery.ID, userID, "anulación de entrega", c, now))
		if err != nil {
			return err
		}
		delivery.Tag = entity.DeliveryTagVoided
		delivery.UpdatedAt = now
		if err := deliveries.Update(ctx, delivery); err != nil {
			return err
		}
		res, err = recompute(ctx, contracts, deliveries, c, now)
		if err != nil {
			return err
		}
		res.Delivery = delivery
		res.Movements = []*entity.InventoryMovement{mov}
		return nil
	})
	if err != nil {
		uc.logRejected(err, "anular entrega", deliveryID)
		return nil, err
	}
	uc.log.Info().
		Int64("contract_id", res.Contract.ID).
		Int64("delivery_id", deliveryID).
		Str("status", res.Contract.Status).
		Str("tx", txID).
		Msg("entrega anulada")
	return res, nil
}

// GetPosition devuelve el contrato con sus entregas y totales calculados al leer.
func (uc *FulfillmentUseCase) GetPosition(ctx context.Context, contractID int64) (*Position, error) {
	var pos *Position
	err := uc.txRunner.RunContract(ctx, func(
		contracts repository.ContractRepository,
		deliveries repository.ContractDeliveryRepository,
		_ repository.InventoryLotRepository,
		movements repository.InventoryMovementRepository,
	) error {
		c, err := contracts.GetByID(ctx, contractID)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		list, err := deliveries.ListByContract(ctx, contractID)
		if err != nil {
			return err
		}
		delivered := ledger.SumActiveDeliveries(list)
		amount := decimal.Zero
		byDelivery := make(map[int64][]*entity.InventoryMovement, len(list))
		for _, d := range list {
			if d.Active() {
				amount = amount.Add(ledger.Total(d.Quantity, d.UnitPrice))
			}
			moves, err := movements.ListByReference(ctx, entity.ReferenceContractDelivery, d.ID)
			if err != nil {
				return err
			}
			byDelivery[d.ID] = moves
		}
		pos = &Position{
			Contract:   c,
			Deliveries: list,
			Delivered:  delivered,
			Remaining:  remaining(c.TargetQuantity, delivered),
			Amount:     amount,
			Movements:  byDelivery,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pos, nil
}

func (uc *FulfillmentUseCase) reference(txID string, deliveryID int64, userID, note string, c *entity.Contract, at time.Time) inventory.Reference {
	return inventory.Reference{
		TransactionID: txID,
		Type:          entity.ReferenceContractDelivery,
		ID:            deliveryID,
		Note:          note,
		UserID:        userID,
		Scope:         entity.LotScope{Product: c.Product, ClientID: c.ClientID},
		At:            at,
	}
}

func (uc *FulfillmentUseCase) logRejected(err error, op string, id int64) {
	uc.log.Warn().Err(err).Int64("id", id).Str("op", op).Msg("operación de entrega revertida")
}

// lockOpenContract bloquea el contrato y verifica que exista y no esté anulado.
func lockOpenContract(ctx context.Context, contracts repository.ContractRepository, id int64) (*entity.Contract, error) {
	c, err := contracts.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if c.Voided() {
		return nil, domain.ErrContractVoided
	}
	return c, nil
}

// lockDelivery bloquea primero el contrato y luego la entrega, en el mismo orden que CreateDelivery.
func lockDelivery(
	ctx context.Context,
	contracts repository.ContractRepository,
	deliveries repository.ContractDeliveryRepository,
	id int64,
) (*entity.ContractDelivery, *entity.Contract, error) {
	peek, err := deliveries.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if peek == nil {
		return nil, nil, domain.ErrNotFound
	}
	c, err := lockOpenContract(ctx, contracts, peek.ContractID)
	if err != nil {
		return nil, nil, err
	}
	delivery, err := deliveries.GetForUpdate(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if delivery == nil {
		return nil, nil, domain.ErrNotFound
	}
	return delivery, c, nil
}

// recompute suma las entregas activas y ajusta el estado Pendiente ⇄ Liquidado.
func recompute(
	ctx context.Context,
	contracts repository.ContractRepository,
	deliveries repository.ContractDeliveryRepository,
	c *entity.Contract,
	now time.Time,
) (*DeliveryResult, error) {
	list, err := deliveries.ListByContract(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	delivered := ledger.SumActiveDeliveries(list)
	status := ledger.FulfillmentStatus(delivered, c.TargetQuantity)
	if status != c.Status {
		if err := contracts.UpdateStatus(ctx, c.ID, status, now); err != nil {
			return nil, err
		}
		c.Status = status
		c.UpdatedAt = now
	}
	return &DeliveryResult{
		Contract:  c,
		Delivered: delivered,
		Remaining: remaining(c.TargetQuantity, delivered),
	}, nil
}

func remaining(target, delivered decimal.Decimal) decimal.Decimal {
	r := ledger.Truncate2(target).Sub(delivered)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}
