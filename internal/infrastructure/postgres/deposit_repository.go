package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/cafe-ledger-api/internal/domain"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/entity"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/repository"
)

var (
	_ repository.DepositRepository            = (*DepositRepo)(nil)
	_ repository.DepositLiquidationRepository = (*DepositLiquidationRepo)(nil)
)

// DepositRepo depósitos sobre PostgreSQL.
type DepositRepo struct {
	q Querier
}

// NewDepositRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDepositRepository(q Querier) *DepositRepo {
	return &DepositRepo{q: q}
}

const depositColumns = `id, client_id, product, quantity, date, notes, created_at`

func scanDeposit(row pgx.Row) (*entity.Deposit, error) {
	var d entity.Deposit
	if err := row.Scan(&d.ID, &d.ClientID, &d.Product, &d.Quantity, &d.Date, &d.Notes, &d.CreatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DepositRepo) Create(ctx context.Context, d *entity.Deposit) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO deposits (client_id, product, quantity, date, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		d.ClientID, d.Product, d.Quantity, d.Date, d.Notes, d.CreatedAt,
	).Scan(&d.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("create deposit: cliente %d: %w", d.ClientID, domain.ErrNotFound)
		}
		return fmt.Errorf("create deposit: %w", err)
	}
	return nil
}

func (r *DepositRepo) get(ctx context.Context, query string, id int64) (*entity.Deposit, error) {
	d, err := scanDeposit(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get deposit: %w", err)
	}
	return d, nil
}

func (r *DepositRepo) GetByID(ctx context.Context, id int64) (*entity.Deposit, error) {
	return r.get(ctx, `SELECT `+depositColumns+` FROM deposits WHERE id = $1`, id)
}

func (r *DepositRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Deposit, error) {
	return r.get(ctx, `SELECT `+depositColumns+` FROM deposits WHERE id = $1 FOR UPDATE`, id)
}

func (r *DepositRepo) ListByClientProductForUpdate(ctx context.Context, clientID int64, product string) ([]*entity.Deposit, error) {
	rows, err := r.q.Query(ctx, `SELECT `+depositColumns+` FROM deposits
		WHERE client_id = $1 AND product = $2 ORDER BY id FOR UPDATE`, clientID, product)
	if err != nil {
		return nil, fmt.Errorf("list deposits: %w", err)
	}
	defer rows.Close()
	var list []*entity.Deposit
	for rows.Next() {
		d, err := scanDeposit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deposit: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// Delete borra el depósito; sus liquidaciones anuladas caen por ON DELETE CASCADE.
func (r *DepositRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM deposits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete deposit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete deposit %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// DepositLiquidationRepo liquidaciones de depósito sobre PostgreSQL.
type DepositLiquidationRepo struct {
	q Querier
}

// NewDepositLiquidationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDepositLiquidationRepository(q Querier) *DepositLiquidationRepo {
	return &DepositLiquidationRepo{q: q}
}

const liquidationColumns = `id, deposit_id, client_id, product, quantity, unit_price, state, notes, date, created_at, created_by`

func scanLiquidation(row pgx.Row) (*entity.DepositLiquidation, error) {
	var l entity.DepositLiquidation
	var createdBy *string
	if err := row.Scan(&l.ID, &l.DepositID, &l.ClientID, &l.Product, &l.Quantity, &l.UnitPrice,
		&l.State, &l.Notes, &l.Date, &l.CreatedAt, &createdBy); err != nil {
		return nil, err
	}
	l.CreatedBy = derefString(createdBy)
	return &l, nil
}

func (r *DepositLiquidationRepo) Create(ctx context.Context, l *entity.DepositLiquidation) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO deposit_liquidations
			(deposit_id, client_id, product, quantity, unit_price, state, notes, date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		l.DepositID, l.ClientID, l.Product, l.Quantity, l.UnitPrice, l.State, l.Notes, l.Date,
		l.CreatedAt, nullableString(l.CreatedBy),
	).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("create liquidation: %w", err)
	}
	return nil
}

func (r *DepositLiquidationRepo) GetForUpdate(ctx context.Context, id int64) (*entity.DepositLiquidation, error) {
	l, err := scanLiquidation(r.q.QueryRow(ctx,
		`SELECT `+liquidationColumns+` FROM deposit_liquidations WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get liquidation: %w", err)
	}
	return l, nil
}

func (r *DepositLiquidationRepo) ListByDeposit(ctx context.Context, depositID int64) ([]*entity.DepositLiquidation, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+liquidationColumns+` FROM deposit_liquidations WHERE deposit_id = $1 ORDER BY id`, depositID)
	if err != nil {
		return nil, fmt.Errorf("list liquidations: %w", err)
	}
	defer rows.Close()
	var list []*entity.DepositLiquidation
	for rows.Next() {
		l, err := scanLiquidation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan liquidation: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r *DepositLiquidationRepo) UpdateState(ctx context.Context, id int64, state string) error {
	tag, err := r.q.Exec(ctx, `UPDATE deposit_liquidations SET state = $2 WHERE id = $1`, id, state)
	if err != nil {
		return fmt.Errorf("update liquidation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update liquidation %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
