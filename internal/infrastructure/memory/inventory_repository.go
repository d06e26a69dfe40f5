package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/cafe-ledger-api/internal/domain/entity"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.InventoryLotRepository      = (*lotRepo)(nil)
	_ repository.InventoryMovementRepository = (*movementRepo)(nil)
)

type lotRepo struct{ s *Store }

func (r *lotRepo) Create(_ context.Context, lot *entity.InventoryLot) error {
	if err := r.s.fault("lots.create"); err != nil {
		return err
	}
	lot.ID = r.s.st.next("lots")
	r.s.st.lots[lot.ID] = copyLot(lot)
	return nil
}

func (r *lotRepo) GetByID(_ context.Context, id int64) (*entity.InventoryLot, error) {
	if l, ok := r.s.st.lots[id]; ok {
		return copyLot(l), nil
	}
	return nil, nil
}

func (r *lotRepo) ListForUpdate(_ context.Context, _ entity.LotScope) ([]*entity.InventoryLot, error) {
	return sortedLots(r.s.st.lots), nil
}

func (r *lotRepo) UpdateQuantity(_ context.Context, id int64, quantity decimal.Decimal, at time.Time) error {
	if err := r.s.fault("lots.update"); err != nil {
		return err
	}
	lot, ok := r.s.st.lots[id]
	if !ok {
		return fmt.Errorf("update lot: lote %d no existe", id)
	}
	lot.Quantity = quantity
	lot.UpdatedAt = at
	return nil
}

func (r *lotRepo) List(_ context.Context) ([]*entity.InventoryLot, error) {
	return sortedLots(r.s.st.lots), nil
}

type movementRepo struct{ s *Store }

func (r *movementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	if err := r.s.fault("movements.create"); err != nil {
		return err
	}
	m.ID = r.s.st.next("movements")
	r.s.st.movements = append(r.s.st.movements, copyMovement(m))
	return nil
}

func (r *movementRepo) ListByReference(_ context.Context, refType string, refID int64) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range r.s.st.movements {
		if m.ReferenceType == refType && m.ReferenceID == refID {
			out = append(out, copyMovement(m))
		}
	}
	return out, nil
}

func (r *movementRepo) ListByLot(_ context.Context, lotID int64) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range r.s.st.movements {
		if m.LotID == lotID {
			out = append(out, copyMovement(m))
		}
	}
	return out, nil
}
