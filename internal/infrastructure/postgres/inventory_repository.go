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
	"github.com/shopspring/decimal"
)

var (
	_ repository.InventoryLotRepository      = (*InventoryLotRepo)(nil)
	_ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)
)

// InventoryLotRepo lotes del pool sobre PostgreSQL.
type InventoryLotRepo struct {
	q Querier
}

// NewInventoryLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryLotRepository(q Querier) *InventoryLotRepo {
	return &InventoryLotRepo{q: q}
}

func (r *InventoryLotRepo) Create(ctx context.Context, lot *entity.InventoryLot) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO inventory_lots (reference, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		lot.Reference, lot.Quantity, lot.CreatedAt, lot.UpdatedAt,
	).Scan(&lot.ID)
	if err != nil {
		return fmt.Errorf("create lot: %w", err)
	}
	return nil
}

func (r *InventoryLotRepo) GetByID(ctx context.Context, id int64) (*entity.InventoryLot, error) {
	var l entity.InventoryLot
	err := r.q.QueryRow(ctx, `
		SELECT id, reference, quantity, created_at, updated_at
		FROM inventory_lots WHERE id = $1`, id,
	).Scan(&l.ID, &l.Reference, &l.Quantity, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return &l, nil
}

func (r *InventoryLotRepo) list(ctx context.Context, query string) ([]*entity.InventoryLot, error) {
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lots []*entity.InventoryLot
	for rows.Next() {
		var l entity.InventoryLot
		if err := rows.Scan(&l.ID, &l.Reference, &l.Quantity, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		lots = append(lots, &l)
	}
	return lots, rows.Err()
}

// ListForUpdate bloquea todos los lotes en orden de id; el pool es global, el alcance no filtra.
func (r *InventoryLotRepo) ListForUpdate(ctx context.Context, _ entity.LotScope) ([]*entity.InventoryLot, error) {
	lots, err := r.list(ctx, `
		SELECT id, reference, quantity, created_at, updated_at
		FROM inventory_lots ORDER BY id FOR UPDATE`)
	if err != nil {
		return nil, fmt.Errorf("list lots for update: %w", err)
	}
	return lots, nil
}

func (r *InventoryLotRepo) UpdateQuantity(ctx context.Context, id int64, quantity decimal.Decimal, at time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE inventory_lots SET quantity = $2, updated_at = $3 WHERE id = $1`, id, quantity, at)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("update lot %d: cantidad negativa: %w", id, domain.ErrInsufficientStock)
		}
		return fmt.Errorf("update lot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update lot %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *InventoryLotRepo) List(ctx context.Context) ([]*entity.InventoryLot, error) {
	lots, err := r.list(ctx, `
		SELECT id, reference, quantity, created_at, updated_at
		FROM inventory_lots ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	return lots, nil
}

// InventoryMovementRepo bitácora append-only de movimientos de inventario.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

const movementColumns = `id, transaction_id::text, lot_id, direction, reference_type, reference_id, quantity, note, created_at, created_by`

func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO inventory_movements
			(transaction_id, lot_id, direction, reference_type, reference_id, quantity, note, created_at, created_by)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		m.TransactionID, m.LotID, m.Direction, m.ReferenceType, m.ReferenceID, m.Quantity, m.Note,
		m.CreatedAt, nullableString(m.CreatedBy),
	).Scan(&m.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("create movement: lote %d: %w", m.LotID, domain.ErrNotFound)
		}
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

func (r *InventoryMovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.InventoryMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.InventoryMovement, error) {
		var m entity.InventoryMovement
		var createdBy *string
		err := row.Scan(&m.ID, &m.TransactionID, &m.LotID, &m.Direction, &m.ReferenceType, &m.ReferenceID,
			&m.Quantity, &m.Note, &m.CreatedAt, &createdBy)
		m.CreatedBy = derefString(createdBy)
		return &m, err
	})
}

func (r *InventoryMovementRepo) ListByReference(ctx context.Context, referenceType string, referenceID int64) ([]*entity.InventoryMovement, error) {
	list, err := r.list(ctx, `SELECT `+movementColumns+` FROM inventory_movements
		WHERE reference_type = $1 AND reference_id = $2 ORDER BY id`, referenceType, referenceID)
	if err != nil {
		return nil, fmt.Errorf("list movements by reference: %w", err)
	}
	return list, nil
}

func (r *InventoryMovementRepo) ListByLot(ctx context.Context, lotID int64) ([]*entity.InventoryMovement, error) {
	list, err := r.list(ctx, `SELECT `+movementColumns+` FROM inventory_movements
		WHERE lot_id = $1 ORDER BY id`, lotID)
	if err != nil {
		return nil, fmt.Errorf("list movements by lot: %w", err)
	}
	return list, nil
}
