package repository

import (
	"context"

	"github.com/jhoicas/cafe-ledger-api/internal/domain/entity"
)

// ClientRepository lectura de clientes para comprobantes.
type ClientRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Client, error)
}
