package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/cafe-ledger-api/internal/domain/entity"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/repository"
)

var (
	_ repository.DepositRepository            = (*depositRepo)(nil)
	_ repository.DepositLiquidationRepository = (*liquidationRepo)(nil)
)

type depositRepo struct{ s *Store }

func (r *depositRepo) Create(_ context.Context, d *entity.Deposit) error {
	if err := r.s.fault("deposits.create"); err != nil {
		return err
	}
	d.ID = r.s.st.next("deposits")
	r.s.st.deposits[d.ID] = copyDeposit(d)
	return nil
}

func (r *depositRepo) GetByID(_ context.Context, id int64) (*entity.Deposit, error) {
	if d, ok := r.s.st.deposits[id]; ok {
		return copyDeposit(d), nil
	}
	return nil, nil
}

func (r *depositRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Deposit, error) {
	return r.GetByID(ctx, id)
}

func (r *depositRepo) ListByClientProductForUpdate(_ context.Context, clientID int64, product string) ([]*entity.Deposit, error) {
	var out []*entity.Deposit
	for _, d := range r.s.st.deposits {
		if d.ClientID == clientID && d.Product == product {
			out = append(out, copyDeposit(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *depositRepo) Delete(_ context.Context, id int64) error {
	if err := r.s.fault("deposits.delete"); err != nil {
		return err
	}
	if _, ok := r.s.st.deposits[id]; !ok {
		return fmt.Errorf("delete deposit: depósito %d no existe", id)
	}
	delete(r.s.st.deposits, id)
	// ON DELETE CASCADE de deposit_liquidations
	for lid, l := range r.s.st.liquidations {
		if l.DepositID == id {
			delete(r.s.st.liquidations, lid)
		}
	}
	return nil
}

type liquidationRepo struct{ s *Store }

func (r *liquidationRepo) Create(_ context.Context, l *entity.DepositLiquidation) error {
	if err := r.s.fault("liquidations.create"); err != nil {
		return err
	}
	l.ID = r.s.st.next("liquidations")
	r.s.st.liquidations[l.ID] = copyLiquidation(l)
	return nil
}

func (r *liquidationRepo) GetForUpdate(_ context.Context, id int64) (*entity.DepositLiquidation, error) {
	if l, ok := r.s.st.liquidations[id]; ok {
		return copyLiquidation(l), nil
	}
	return nil, nil
}

func (r *liquidationRepo) ListByDeposit(_ context.Context, depositID int64) ([]*entity.DepositLiquidation, error) {
	var out []*entity.DepositLiquidation
	for _, l := range r.s.st.liquidations {
		if l.DepositID == depositID {
			out = append(out, copyLiquidation(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *liquidationRepo) UpdateState(_ context.Context, id int64, state string) error {
	if err := r.s.fault("liquidations.update"); err != nil {
		return err
	}
	l, ok := r.s.st.liquidations[id]
	if !ok {
		return fmt.Errorf("update liquidation: liquidación %d no existe", id)
	}
	l.State = state
	return nil
}
