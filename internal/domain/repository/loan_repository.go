package repository

import (
	"context"

	"github.com/jhoicas/cafe-ledger-api/internal/domain/entity"
)

// LoanRepository puerto de préstamos y anticipos; kind selecciona el libro (entity.LedgerKind*).
type LoanRepository interface {
	Create(ctx context.Context, loan *entity.Loan) error
	GetByID(ctx context.Context, kind string, id int64) (*entity.Loan, error)
	GetForUpdate(ctx context.Context, kind string, id int64) (*entity.Loan, error)
}

// LoanMovementRepository puerto append-only de movimientos. Update solo se usa para anular.
type LoanMovementRepository interface {
	Create(ctx context.Context, movement *entity.LoanMovement) error
	GetForUpdate(ctx context.Context, kind string, id int64) (*entity.LoanMovement, error)
	ListByLoan(ctx context.Context, kind string, loanID int64) ([]*entity.LoanMovement, error)
	MarkVoided(ctx context.Context, movement *entity.LoanMovement) error
}
