package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/cafe-ledger-api/internal/domain"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/entity"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/repository"
)

var (
	_ repository.ContractRepository         = (*ContractRepo)(nil)
	_ repository.ContractDeliveryRepository = (*ContractDeliveryRepo)(nil)
)

// ContractRepo implementación sobre PostgreSQL (usable con pool o tx).
type ContractRepo struct {
	q Querier
}

// NewContractRepository construye el adaptador. Pasar pool o tx (Querier).
func NewContractRepository(q Querier) *ContractRepo {
	return &ContractRepo{q: q}
}

const contractColumns = `id, client_id, product, target_quantity, status, created_at, updated_at`

func (r *ContractRepo) get(ctx context.Context, query string, id int64) (*entity.Contract, error) {
	var c entity.Contract
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.ClientID, &c.Product, &c.TargetQuantity, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// GetByID obtiene un contrato por ID.
func (r *ContractRepo) GetByID(ctx context.Context, id int64) (*entity.Contract, error) {
	c, err := r.get(ctx, `SELECT `+contractColumns+` FROM contracts WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get contract: %w", err)
	}
	return c, nil
}

// GetForUpdate obtiene el contrato y bloquea la fila (SELECT FOR UPDATE).
func (r *ContractRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Contract, error) {
	c, err := r.get(ctx, `SELECT `+contractColumns+` FROM contracts WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, fmt.Errorf("get contract for update: %w", err)
	}
	return c, nil
}

// UpdateStatus fija el estado derivado del contrato.
func (r *ContractRepo) UpdateStatus(ctx context.Context, id int64, status string, at time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE contracts SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, at)
	if err != nil {
		return fmt.Errorf("update contract status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update contract status %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ContractDeliveryRepo entregas de contrato sobre PostgreSQL.
type ContractDeliveryRepo struct {
	q Querier
}

// NewContractDeliveryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewContractDeliveryRepository(q Querier) *ContractDeliveryRepo {
	return &ContractDeliveryRepo{q: q}
}

const deliveryColumns = `id, contract_id, quantity, unit_price, tag, notes, date, updated_at, created_by`

func scanDelivery(row pgx.Row) (*entity.ContractDelivery, error) {
	var d entity.ContractDelivery
	var createdBy *string
	if err := row.Scan(
		&d.ID, &d.ContractID, &d.Quantity, &d.UnitPrice, &d.Tag, &d.Notes, &d.Date, &d.UpdatedAt, &createdBy,
	); err != nil {
		return nil, err
	}
	d.CreatedBy = derefString(createdBy)
	return &d, nil
}

// Create persiste la entrega y asigna su ID.
func (r *ContractDeliveryRepo) Create(ctx context.Context, d *entity.ContractDelivery) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO contract_deliveries (contract_id, quantity, unit_price, tag, notes, date, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		d.ContractID, d.Quantity, d.UnitPrice, d.Tag, d.Notes, d.Date, d.UpdatedAt, nullableString(d.CreatedBy),
	).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("create delivery: %w", err)
	}
	return nil
}

func (r *ContractDeliveryRepo) get(ctx context.Context, query string, id int64) (*entity.ContractDelivery, error) {
	d, err := scanDelivery(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return d, nil
}

// GetByID obtiene una entrega por ID.
func (r *ContractDeliveryRepo) GetByID(ctx context.Context, id int64) (*entity.ContractDelivery, error) {
	d, err := r.get(ctx, `SELECT `+deliveryColumns+` FROM contract_deliveries WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	return d, nil
}

// GetForUpdate obtiene la entrega y bloquea la fila.
func (r *ContractDeliveryRepo) GetForUpdate(ctx context.Context, id int64) (*entity.ContractDelivery, error) {
	d, err := r.get(ctx, `SELECT `+deliveryColumns+` FROM contract_deliveries WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, fmt.Errorf("get delivery for update: %w", err)
	}
	return d, nil
}

// Update guarda cantidad, notas, etiqueta y fecha de actualización.
func (r *ContractDeliveryRepo) Update(ctx context.Context, d *entity.ContractDelivery) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE contract_deliveries SET quantity = $2, notes = $3, tag = $4, updated_at = $5
		WHERE id = $1`,
		d.ID, d.Quantity, d.Notes, d.Tag, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update delivery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update delivery %d: %w", d.ID, domain.ErrNotFound)
	}
	return nil
}

// ListByContract todas las entregas del contrato (incluidas las anuladas) por id ascendente.
func (r *ContractDeliveryRepo) ListByContract(ctx context.Context, contractID int64) ([]*entity.ContractDelivery, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+deliveryColumns+` FROM contract_deliveries WHERE contract_id = $1 ORDER BY id`, contractID)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()
	var list []*entity.ContractDelivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
