package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/cafe-ledger-api/internal/domain/entity"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/repository"
)

var (
	_ repository.LoanRepository         = (*loanRepo)(nil)
	_ repository.LoanMovementRepository = (*loanMovementRepo)(nil)
)

type loanRepo struct{ s *Store }

func (r *loanRepo) Create(_ context.Context, l *entity.Loan) error {
	if err := r.s.fault("loans.create"); err != nil {
		return err
	}
	book, ok := r.s.st.loans[l.Kind]
	if !ok {
		return fmt.Errorf("create loan: libro %q desconocido", l.Kind)
	}
	l.ID = r.s.st.next("loans:" + l.Kind)
	book[l.ID] = copyLoan(l)
	return nil
}

func (r *loanRepo) GetByID(_ context.Context, kind string, id int64) (*entity.Loan, error) {
	if l, ok := r.s.st.loans[kind][id]; ok {
		return copyLoan(l), nil
	}
	return nil, nil
}

func (r *loanRepo) GetForUpdate(ctx context.Context, kind string, id int64) (*entity.Loan, error) {
	return r.GetByID(ctx, kind, id)
}

type loanMovementRepo struct{ s *Store }

func (r *loanMovementRepo) Create(_ context.Context, m *entity.LoanMovement) error {
	if err := r.s.fault("loan_movements.create"); err != nil {
		return err
	}
	book, ok := r.s.st.loanMovements[m.Kind]
	if !ok {
		return fmt.Errorf("create loan movement: libro %q desconocido", m.Kind)
	}
	m.ID = r.s.st.next("loan_movements:" + m.Kind)
	book[m.ID] = copyLoanMovement(m)
	return nil
}

func (r *loanMovementRepo) GetForUpdate(_ context.Context, kind string, id int64) (*entity.LoanMovement, error) {
	if m, ok := r.s.st.loanMovements[kind][id]; ok {
		return copyLoanMovement(m), nil
	}
	return nil, nil
}

func (r *loanMovementRepo) ListByLoan(_ context.Context, kind string, loanID int64) ([]*entity.LoanMovement, error) {
	var out []*entity.LoanMovement
	for _, m := range r.s.st.loanMovements[kind] {
		if m.LoanID == loanID {
			out = append(out, copyLoanMovement(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *loanMovementRepo) MarkVoided(_ context.Context, m *entity.LoanMovement) error {
	if err := r.s.fault("loan_movements.void"); err != nil {
		return err
	}
	cur, ok := r.s.st.loanMovements[m.Kind][m.ID]
	if !ok {
		return fmt.Errorf("void loan movement: movimiento %d no existe", m.ID)
	}
	cur.Type = m.Type
	cur.OriginalType = m.OriginalType
	return nil
}
