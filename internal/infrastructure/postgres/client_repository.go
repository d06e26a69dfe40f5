package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/entity"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo lectura de clientes para comprobantes.
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador.
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// GetByID devuelve (nil, nil) si el cliente no existe.
func (r *ClientRepo) GetByID(ctx context.Context, id int64) (*entity.Client, error) {
	var c entity.Client
	err := r.q.QueryRow(ctx,
		`SELECT id, name, tax_id, phone, created_at FROM clients WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.TaxID, &c.Phone, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &c, nil
}
