package deposit

import (
	"context"

	"github.com/jhoicas/cafe-ledger-api/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción sobre depósitos y liquidaciones.
type TxRunner interface {
	RunDeposit(ctx context.Context, fn func(
		deposits repository.DepositRepository,
		liquidations repository.DepositLiquidationRepository,
	) error) error
}
