package repository

import (
	"context"
	"time"

	"github.com/jhoicas/cafe-ledger-api/internal/domain/entity"
)

// ContractRepository puerto de persistencia de contratos. Los contratos se registran fuera del
// motor; aquí solo se leen, se bloquean y se actualiza su estado derivado.
// GetByID / GetForUpdate devuelven (nil, nil) si no existe.
type ContractRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Contract, error)
	// GetForUpdate bloquea la fila del contrato (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id int64) (*entity.Contract, error)
	UpdateStatus(ctx context.Context, id int64, status string, at time.Time) error
}

// ContractDeliveryRepository puerto de persistencia de entregas. No existe Delete: anular es Update de la etiqueta.
type ContractDeliveryRepository interface {
	Create(ctx context.Context, delivery *entity.ContractDelivery) error
	GetByID(ctx context.Context, id int64) (*entity.ContractDelivery, error)
	GetForUpdate(ctx context.Context, id int64) (*entity.ContractDelivery, error)
	Update(ctx context.Context, delivery *entity.ContractDelivery) error
	ListByContract(ctx context.Context, contractID int64) ([]*entity.ContractDelivery, error)
}
