package repository

import (
	"context"

	"github.com/jhoicas/cafe-ledger-api/internal/domain/entity"
)

// DepositRepository puerto de depósitos.
type DepositRepository interface {
	Create(ctx context.Context, deposit *entity.Deposit) error
	GetByID(ctx context.Context, id int64) (*entity.Deposit, error)
	GetForUpdate(ctx context.Context, id int64) (*entity.Deposit, error)
	// ListByClientProductForUpdate depósitos del cliente y producto, id ascendente, bloqueados.
	ListByClientProductForUpdate(ctx context.Context, clientID int64, product string) ([]*entity.Deposit, error)
	Delete(ctx context.Context, id int64) error
}

// DepositLiquidationRepository puerto de liquidaciones de depósito.
type DepositLiquidationRepository interface {
	Create(ctx context.Context, liquidation *entity.DepositLiquidation) error
	GetForUpdate(ctx context.Context, id int64) (*entity.DepositLiquidation, error)
	ListByDeposit(ctx context.Context, depositID int64) ([]*entity.DepositLiquidation, error)
	UpdateState(ctx context.Context, id int64, state string) error
}
