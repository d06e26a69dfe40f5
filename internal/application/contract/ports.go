package contract

import (
	"context"

	"github.com/jhoicas/cafe-ledger-api/internal/domain/repository"
)

// TxRunner ejecuta fn en una sola transacción con los repositorios que toca una entrega:
// contrato, entregas, lotes y movimientos de inventario. Commit si fn devuelve nil, Rollback si no.
type TxRunner interface {
	RunContract(ctx context.Context, fn func(
		contracts repository.ContractRepository,
		deliveries repository.ContractDeliveryRepository,
		lots repository.InventoryLotRepository,
		movements repository.InventoryMovementRepository,
	) error) error
}
