package loan

import (
	"context"
	"time"

	"github.com/jhoicas/cafe-ledger-api/internal/domain"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/entity"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/ledger"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// LedgerUseCase libro append-only de préstamos y anticipos. El saldo se pliega en cada lectura.
type LedgerUseCase struct {
	txRunner TxRunner
	log      zerolog.Logger
	now      func() time.Time
}

// NewLedgerUseCase construye el libro.
func NewLedgerUseCase(txRunner TxRunner, log zerolog.Logger) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, log: log, now: time.Now}
}

// OpenInput alta de préstamo o anticipo.
type OpenInput struct {
	Kind        string
	ClientID    int64
	Principal   decimal.Decimal
	MonthlyRate decimal.Decimal
	Date        time.Time
	Notes       string
	UserID      string
}

// AppendInput movimiento manual (abono, pago de interés, cargo).
type AppendInput struct {
	Kind        string
	LoanID      int64
	Type        string
	Amount      decimal.Decimal
	Date        time.Time
	Rate        *decimal.Decimal
	Days        *int
	Description string
	UserID      string
}

// AccrueInput cálculo de interés entre dos fechas. Balance y MonthlyRate son opcionales:
// sin Balance se usa el saldo plegado, sin MonthlyRate la tasa del préstamo.
type AccrueInput struct {
	Kind        string
	LoanID      int64
	StartDate   time.Time
	CalcDate    time.Time
	Balance     *decimal.Decimal
	MonthlyRate *decimal.Decimal
	Description string
	UserID      string
}

// MovementResult movimiento escrito y saldo resultante.
type MovementResult struct {
	Loan     *entity.Loan
	Movement *entity.LoanMovement
	Balance  ledger.Balance
}

// InterestResult resultado de AccrueInterest.
type InterestResult struct {
	MovementResult
	Interest decimal.Decimal
	Days     int
	Rate     decimal.Decimal
	Base     decimal.Decimal // saldo sobre el que se calculó
}

// Statement préstamo con sus movimientos (incluidos los anulados) y el saldo plegado.
type Statement struct {
	Loan      *entity.Loan
	Movements []*entity.LoanMovement
	Balance   ledger.Balance
}

// Open crea el préstamo en estado ACTIVO junto con su movimiento INICIAL por el principal.
func (uc *LedgerUseCase) Open(ctx context.Context, in OpenInput) (*MovementResult, error) {
	if err := validKind(in.Kind); err != nil {
		return nil, err
	}
	if in.ClientID <= 0 {
		return nil, domain.Invalid("cliente_id", "requerido")
	}
	if !in.Principal.IsPositive() {
		return nil, domain.Invalid("monto", "debe ser mayor que cero")
	}
	if ledger.ExceedsPlaces(in.Principal, ledger.MoneyPlaces) {
		return nil, domain.Invalid("monto", "máximo 2 decimales")
	}
	if in.MonthlyRate.IsNegative() {
		return nil, domain.Invalid("tasa", "no puede ser negativa")
	}
	if ledger.ExceedsPlaces(in.MonthlyRate, ledger.RatePlaces) {
		return nil, domain.Invalid("tasa", "máximo 4 decimales")
	}
	now := uc.now()
	date := in.Date
	if date.IsZero() {
		date = now
	}

	var res *MovementResult
	err := uc.txRunner.RunLoan(ctx, func(loans repository.LoanRepository, movements repository.LoanMovementRepository) error {
		l := &entity.Loan{
			Kind:        in.Kind,
			ClientID:    in.ClientID,
			Principal:   in.Principal,
			MonthlyRate: in.MonthlyRate,
			State:       entity.LoanStateActive,
			Date:        date,
			Notes:       in.Notes,
			CreatedAt:   now,
		}
		if err := loans.Create(ctx, l); err != nil {
			return err
		}
		rate := in.MonthlyRate
		m := &entity.LoanMovement{
			LoanID:      l.ID,
			Kind:        in.Kind,
			Type:        entity.LoanMovementInitial,
			Amount:      in.Principal,
			Rate:        &rate,
			Date:        date,
			Description: in.Notes,
			CreatedAt:   now,
			CreatedBy:   in.UserID,
		}
		if err := movements.Create(ctx, m); err != nil {
			return err
		}
		res = &MovementResult{Loan: l, Movement: m, Balance: ledger.Fold([]*entity.LoanMovement{m})}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("kind", in.Kind).
		Int64("loan_id", res.Loan.ID).
		Str("principal", in.Principal.String()).
		Msg("préstamo abierto")
	return res, nil
}

// AppendMovement agrega un movimiento sin tocar los anteriores y devuelve el saldo nuevo.
func (uc *LedgerUseCase) AppendMovement(ctx context.Context, in AppendInput) (*MovementResult, error) {
	if err := validKind(in.Kind); err != nil {
		return nil, err
	}
	if in.LoanID <= 0 {
		return nil, domain.Invalid("prestamo_id", "requerido")
	}
	if !ledger.AllowedType(in.Kind, in.Type) {
		return nil, domain.Invalid("tipo", "tipo de movimiento no permitido: "+in.Type)
	}
	if !in.Amount.IsPositive() {
		return nil, domain.Invalid("monto", "debe ser mayor que cero")
	}
	if in.Rate != nil && in.Rate.IsNegative() {
		return nil, domain.Invalid("tasa", "no puede ser negativa")
	}
	if in.Rate != nil && ledger.ExceedsPlaces(*in.Rate, ledger.RatePlaces) {
		return nil, domain.Invalid("tasa", "máximo 4 decimales")
	}
	if in.Days != nil && *in.Days < 0 {
		return nil, domain.Invalid("dias", "no puede ser negativo")
	}
	now := uc.now()
	date := in.Date
	if date.IsZero() {
		date = now
	}

	var res *MovementResult
	err := uc.txRunner.RunLoan(ctx, func(loans repository.LoanRepository, movements repository.LoanMovementRepository) error {
		l, err := lockOpenLoan(ctx, loans, in.Kind, in.LoanID)
		if err != nil {
			return err
		}
		m := &entity.LoanMovement{
			LoanID:      l.ID,
			Kind:        in.Kind,
			Type:        in.Type,
			Amount:      in.Amount,
			Days:        in.Days,
			Rate:        in.Rate,
			Date:        date,
			Description: in.Description,
			CreatedAt:   now,
			CreatedBy:   in.UserID,
		}
		if err := movements.Create(ctx, m); err != nil {
			return err
		}
		bal, err := fold(ctx, movements, in.Kind, l.ID)
		if err != nil {
			return err
		}
		res = &MovementResult{Loan: l, Movement: m, Balance: bal}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("kind", in.Kind).Int64("loan_id", in.LoanID).Msg("movimiento rechazado")
		return nil, err
	}
	uc.log.Info().
		Str("kind", in.Kind).
		Int64("loan_id", in.LoanID).
		Int64("movement_id", res.Movement.ID).
		Str("type", in.Type).
		Str("amount", in.Amount.String()).
		Str("balance", res.Balance.Balance.String()).
		Msg("movimiento registrado")
	return res, nil
}

// AccrueInterest interés = saldo × tasa/100/30 × días, registrado como cargo de interés con los días
// y la tasa usados. Las fechas vienen del caller; nunca se usa la fecha actual en el cálculo.
func (uc *LedgerUseCase) AccrueInterest(ctx context.Context, in AccrueInput) (*InterestResult, error) {
	if err := validKind(in.Kind); err != nil {
		return nil, err
	}
	if in.LoanID <= 0 {
		return nil, domain.Invalid("prestamo_id", "requerido")
	}
	if in.StartDate.IsZero() {
		return nil, domain.Invalid("fecha_inicio", "requerida")
	}
	if in.CalcDate.IsZero() {
		return nil, domain.Invalid("fecha_calculo", "requerida")
	}
	if in.CalcDate.Before(in.StartDate) {
		return nil, domain.Invalid("fecha_calculo", "anterior a la fecha de inicio")
	}
	if in.MonthlyRate != nil && !in.MonthlyRate.IsPositive() {
		return nil, domain.Invalid("tasa", "debe ser mayor que cero")
	}
	if in.MonthlyRate != nil && ledger.ExceedsPlaces(*in.MonthlyRate, ledger.RatePlaces) {
		return nil, domain.Invalid("tasa", "máximo 4 decimales")
	}
	if in.Balance != nil && !in.Balance.IsPositive() {
		return nil, domain.Invalid("saldo", "debe ser mayor que cero")
	}
	days := ledger.DaysBetween(in.StartDate, in.CalcDate)
	if days == 0 {
		return nil, domain.Invalid("fecha_calculo", "no hay días transcurridos")
	}
	now := uc.now()

	var res *InterestResult
	err := uc.txRunner.RunLoan(ctx, func(loans repository.LoanRepository, movements repository.LoanMovementRepository) error {
		l, err := lockOpenLoan(ctx, loans, in.Kind, in.LoanID)
		if err != nil {
			return err
		}
		var base decimal.Decimal
		if in.Balance != nil {
			base = *in.Balance
		} else {
			bal, err := fold(ctx, movements, in.Kind, l.ID)
			if err != nil {
				return err
			}
			base = bal.Balance
		}
		rate := l.MonthlyRate
		if in.MonthlyRate != nil {
			rate = *in.MonthlyRate
		}
		interest := ledger.Interest(base, rate, days)
		if !interest.IsPositive() {
			return domain.Invalid("interes", "el interés calculado es cero")
		}

		d := days
		r := rate
		m := &entity.LoanMovement{
			LoanID:      l.ID,
			Kind:        in.Kind,
			Type:        ledger.InterestChargeType(in.Kind),
			Amount:      interest,
			Days:        &d,
			Rate:        &r,
			Date:        in.CalcDate,
			Description: in.Description,
			CreatedAt:   now,
			CreatedBy:   in.UserID,
		}
		if err := movements.Create(ctx, m); err != nil {
			return err
		}
		bal, err := fold(ctx, movements, in.Kind, l.ID)
		if err != nil {
			return err
		}
		res = &InterestResult{
			MovementResult: MovementResult{Loan: l, Movement: m, Balance: bal},
			Interest:       interest,
			Days:           days,
			Rate:           rate,
			Base:           base,
		}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("kind", in.Kind).Int64("loan_id", in.LoanID).Msg("interés rechazado")
		return nil, err
	}
	uc.log.Info().
		Str("kind", in.Kind).
		Int64("loan_id", in.LoanID).
		Int("days", days).
		Str("rate", res.Rate.String()).
		Str("interest", res.Interest.String()).
		Msg("interés causado")
	return res, nil
}

// VoidMovement cambia el tipo a ANULADO conservando el tipo original; la fila no se borra.
func (uc *LedgerUseCase) VoidMovement(ctx context.Context, kind string, movementID int64, userID string) (*MovementResult, error) {
	if err := validKind(kind); err != nil {
		return nil, err
	}
	if movementID <= 0 {
		return nil, domain.Invalid("movimiento_id", "requerido")
	}

	var res *MovementResult
	err := uc.txRunner.RunLoan(ctx, func(loans repository.LoanRepository, movements repository.LoanMovementRepository) error {
		m, err := movements.GetForUpdate(ctx, kind, movementID)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		l, err := lockOpenLoan(ctx, loans, kind, m.LoanID)
		if err != nil {
			return err
		}
		if m.Voided() {
			return domain.ErrMovementVoided
		}
		m.OriginalType = m.Type
		m.Type = entity.LoanMovementVoided
		if err := movements.MarkVoided(ctx, m); err != nil {
			return err
		}
		bal, err := fold(ctx, movements, kind, l.ID)
		if err != nil {
			return err
		}
		res = &MovementResult{Loan: l, Movement: m, Balance: bal}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("kind", kind).
		Int64("movement_id", movementID).
		Str("user_id", userID).
		Str("balance", res.Balance.Balance.String()).
		Msg("movimiento anulado")
	return res, nil
}

// Statement devuelve el préstamo, todos sus movimientos en orden y el saldo plegado.
func (uc *LedgerUseCase) Statement(ctx context.Context, kind string, loanID int64) (*Statement, error) {
	if err := validKind(kind); err != nil {
		return nil, err
	}
	var st *Statement
	err := uc.txRunner.RunLoan(ctx, func(loans repository.LoanRepository, movements repository.LoanMovementRepository) error {
		l, err := loans.GetByID(ctx, kind, loanID)
		if err != nil {
			return err
		}
		if l == nil {
			return domain.ErrNotFound
		}
		list, err := movements.ListByLoan(ctx, kind, loanID)
		if err != nil {
			return err
		}
		st = &Statement{Loan: l, Movements: list, Balance: ledger.Fold(list)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

func validKind(kind string) error {
	switch kind {
	case entity.LedgerKindLoan, entity.LedgerKindAdvance:
		return nil
	}
	return domain.Invalid("tipo_libro", "debe ser prestamo o anticipo")
}

func lockOpenLoan(ctx context.Context, loans repository.LoanRepository, kind string, id int64) (*entity.Loan, error) {
	l, err := loans.GetForUpdate(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.ErrNotFound
	}
	if l.Closed() {
		return nil, domain.ErrParentClosed
	}
	return l, nil
}

func fold(ctx context.Context, movements repository.LoanMovementRepository, kind string, loanID int64) (ledger.Balance, error) {
	list, err := movements.ListByLoan(ctx, kind, loanID)
	if err != nil {
		return ledger.Balance{}, err
	}
	return ledger.Fold(list), nil
}
