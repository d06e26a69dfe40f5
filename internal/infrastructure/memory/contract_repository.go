package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/cafe-ledger-api/internal/domain/entity"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/repository"
)

var (
	_ repository.ContractRepository         = (*contractRepo)(nil)
	_ repository.ContractDeliveryRepository = (*deliveryRepo)(nil)
)

type contractRepo struct{ s *Store }

func (r *contractRepo) GetByID(_ context.Context, id int64) (*entity.Contract, error) {
	if c, ok := r.s.st.contracts[id]; ok {
		return copyContract(c), nil
	}
	return nil, nil
}

// GetForUpdate: el candado global de la tx ya serializa el acceso.
func (r *contractRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Contract, error) {
	return r.GetByID(ctx, id)
}

func (r *contractRepo) UpdateStatus(_ context.Context, id int64, status string, at time.Time) error {
	if err := r.s.fault("contracts.update_status"); err != nil {
		return err
	}
	c, ok := r.s.st.contracts[id]
	if !ok {
		return fmt.Errorf("update contract status: contrato %d no existe", id)
	}
	c.Status = status
	c.UpdatedAt = at
	return nil
}

type deliveryRepo struct{ s *Store }

func (r *deliveryRepo) Create(_ context.Context, d *entity.ContractDelivery) error {
	if err := r.s.fault("deliveries.create"); err != nil {
		return err
	}
	d.ID = r.s.st.next("deliveries")
	r.s.st.deliveries[d.ID] = copyDelivery(d)
	return nil
}

func (r *deliveryRepo) GetByID(_ context.Context, id int64) (*entity.ContractDelivery, error) {
	if d, ok := r.s.st.deliveries[id]; ok {
		return copyDelivery(d), nil
	}
	return nil, nil
}

func (r *deliveryRepo) GetForUpdate(ctx context.Context, id int64) (*entity.ContractDelivery, error) {
	return r.GetByID(ctx, id)
}

func (r *deliveryRepo) Update(_ context.Context, d *entity.ContractDelivery) error {
	if err := r.s.fault("deliveries.update"); err != nil {
		return err
	}
	if _, ok := r.s.st.deliveries[d.ID]; !ok {
		return fmt.Errorf("update delivery: entrega %d no existe", d.ID)
	}
	r.s.st.deliveries[d.ID] = copyDelivery(d)
	return nil
}

func (r *deliveryRepo) ListByContract(_ context.Context, contractID int64) ([]*entity.ContractDelivery, error) {
	var out []*entity.ContractDelivery
	for _, d := range r.s.st.deliveries {
		if d.ContractID == contractID {
			out = append(out, copyDelivery(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
