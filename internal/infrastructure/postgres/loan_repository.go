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
	_ repository.LoanRepository         = (*LoanRepo)(nil)
	_ repository.LoanMovementRepository = (*LoanMovementRepo)(nil)
)

// ledgerTables tabla de cabecera y de movimientos por tipo de libro.
var ledgerTables = map[string][2]string{
	entity.LedgerKindLoan:    {"loans", "loan_movements"},
	entity.LedgerKindAdvance: {"advances", "advance_movements"},
}

func tablesFor(kind string) (header, movements string, err error) {
	t, ok := ledgerTables[kind]
	if !ok {
		return "", "", fmt.Errorf("libro %q: %w", kind, domain.ErrInvalidInput)
	}
	return t[0], t[1], nil
}

// LoanRepo préstamos y anticipos sobre PostgreSQL.
type LoanRepo struct {
	q Querier
}

// NewLoanRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLoanRepository(q Querier) *LoanRepo {
	return &LoanRepo{q: q}
}

func (r *LoanRepo) Create(ctx context.Context, l *entity.Loan) error {
	table, _, err := tablesFor(l.Kind)
	if err != nil {
		return err
	}
	err = r.q.QueryRow(ctx, `
		INSERT INTO `+table+` (client_id, principal, monthly_rate, state, date, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		l.ClientID, l.Principal, l.MonthlyRate, l.State, l.Date, l.Notes, l.CreatedAt,
	).Scan(&l.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("create %s: cliente %d: %w", l.Kind, l.ClientID, domain.ErrNotFound)
		}
		return fmt.Errorf("create %s: %w", l.Kind, err)
	}
	return nil
}

func (r *LoanRepo) get(ctx context.Context, kind string, id int64, lock bool) (*entity.Loan, error) {
	table, _, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	query := `SELECT id, client_id, principal, monthly_rate, state, date, notes, created_at FROM ` + table + ` WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	l := entity.Loan{Kind: kind}
	err = r.q.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.ClientID, &l.Principal, &l.MonthlyRate, &l.State, &l.Date, &l.Notes, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", kind, err)
	}
	return &l, nil
}

func (r *LoanRepo) GetByID(ctx context.Context, kind string, id int64) (*entity.Loan, error) {
	return r.get(ctx, kind, id, false)
}

// GetForUpdate bloquea la cabecera; todos los movimientos del préstamo se serializan sobre ella.
func (r *LoanRepo) GetForUpdate(ctx context.Context, kind string, id int64) (*entity.Loan, error) {
	return r.get(ctx, kind, id, true)
}

// LoanMovementRepo movimientos append-only de préstamos y anticipos.
type LoanMovementRepo struct {
	q Querier
}

// NewLoanMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLoanMovementRepository(q Querier) *LoanMovementRepo {
	return &LoanMovementRepo{q: q}
}

const loanMovementColumns = `id, loan_id, type, original_type, amount, days, rate, date, description, created_at, created_by`

func scanLoanMovement(row pgx.Row, kind string) (*entity.LoanMovement, error) {
	m := entity.LoanMovement{Kind: kind}
	var originalType, createdBy *string
	if err := row.Scan(&m.ID, &m.LoanID, &m.Type, &originalType, &m.Amount, &m.Days, &m.Rate,
		&m.Date, &m.Description, &m.CreatedAt, &createdBy); err != nil {
		return nil, err
	}
	m.OriginalType = derefString(originalType)
	m.CreatedBy = derefString(createdBy)
	return &m, nil
}

func (r *LoanMovementRepo) Create(ctx context.Context, m *entity.LoanMovement) error {
	_, table, err := tablesFor(m.Kind)
	if err != nil {
		return err
	}
	err = r.q.QueryRow(ctx, `
		INSERT INTO `+table+` (loan_id, type, original_type, amount, days, rate, date, description, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		m.LoanID, m.Type, nullableString(m.OriginalType), m.Amount, m.Days, m.Rate, m.Date, m.Description,
		m.CreatedAt, nullableString(m.CreatedBy),
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("create %s movement: %w", m.Kind, err)
	}
	return nil
}

func (r *LoanMovementRepo) GetForUpdate(ctx context.Context, kind string, id int64) (*entity.LoanMovement, error) {
	_, table, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	m, err := scanLoanMovement(r.q.QueryRow(ctx,
		`SELECT `+loanMovementColumns+` FROM `+table+` WHERE id = $1 FOR UPDATE`, id), kind)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s movement: %w", kind, err)
	}
	return m, nil
}

func (r *LoanMovementRepo) ListByLoan(ctx context.Context, kind string, loanID int64) ([]*entity.LoanMovement, error) {
	_, table, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	rows, err := r.q.Query(ctx, `SELECT `+loanMovementColumns+` FROM `+table+` WHERE loan_id = $1 ORDER BY id`, loanID)
	if err != nil {
		return nil, fmt.Errorf("list %s movements: %w", kind, err)
	}
	defer rows.Close()
	var list []*entity.LoanMovement
	for rows.Next() {
		m, err := scanLoanMovement(rows, kind)
		if err != nil {
			return nil, fmt.Errorf("scan %s movement: %w", kind, err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// MarkVoided única mutación permitida sobre un movimiento: cambia el tipo y conserva el original.
func (r *LoanMovementRepo) MarkVoided(ctx context.Context, m *entity.LoanMovement) error {
	_, table, err := tablesFor(m.Kind)
	if err != nil {
		return err
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE `+table+` SET type = $2, original_type = $3 WHERE id = $1`,
		m.ID, m.Type, nullableString(m.OriginalType))
	if err != nil {
		return fmt.Errorf("void %s movement: %w", m.Kind, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("void %s movement %d: %w", m.Kind, m.ID, domain.ErrNotFound)
	}
	return nil
}
