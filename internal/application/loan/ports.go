package loan

import (
	"context"

	"github.com/jhoicas/cafe-ledger-api/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción sobre el libro de préstamos/anticipos.
type TxRunner interface {
	RunLoan(ctx context.Context, fn func(
		loans repository.LoanRepository,
		movements repository.LoanMovementRepository,
	) error) error
}
