package loan_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/cafe-ledger-api/internal/application/loan"
	"github.com/jhoicas/cafe-ledger-api/internal/domain"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/entity"
	"github.com/jhoicas/cafe-ledger-api/internal/infrastructure/memory"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(y int, m time.Month, day int) time.Time { return time.Date(y, m, day, 10, 0, 0, 0, time.UTC) }

func open(t *testing.T, uc *loan.LedgerUseCase, kind, principal, rate string) *loan.MovementResult {
	t.Helper()
	res, err := uc.Open(context.Background(), loan.OpenInput{
		Kind:        kind,
		ClientID:    3,
		Principal:   d(principal),
		MonthlyRate: d(rate),
		Date:        date(2024, time.January, 1),
	})
	require.NoError(t, err)
	return res
}

func TestOpen_CreaPrestamoActivoConMovimientoInicial(t *testing.T) {
	uc := loan.NewLedgerUseCase(memory.NewStore(), zerolog.Nop())

	res := open(t, uc, entity.LedgerKindLoan, "1000", "3")

	assert.Equal(t, entity.LoanStateActive, res.Loan.State)
	assert.Equal(t, entity.LoanMovementInitial, res.Movement.Type)
	assert.True(t, res.Balance.Balance.Equal(d("1000")))
}

func TestOpen_Validaciones(t *testing.T) {
	uc := loan.NewLedgerUseCase(memory.NewStore(), zerolog.Nop())
	cases := []loan.OpenInput{
		{Kind: "hipoteca", ClientID: 1, Principal: d("1")},
		{Kind: entity.LedgerKindLoan, Principal: d("1")},
		{Kind: entity.LedgerKindLoan, ClientID: 1, Principal: d("0")},
		{Kind: entity.LedgerKindLoan, ClientID: 1, Principal: d("10"), MonthlyRate: d("-1")},
	}
	for _, in := range cases {
		_, err := uc.Open(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestAccrueInterest_MilAlTresPorCientoTreintaDias(t *testing.T) {
	uc := loan.NewLedgerUseCase(memory.NewStore(), zerolog.Nop())
	l := open(t, uc, entity.LedgerKindLoan, "1000", "3")

	res, err := uc.AccrueInterest(context.Background(), loan.AccrueInput{
		Kind:      entity.LedgerKindLoan,
		LoanID:    l.Loan.ID,
		StartDate: date(2024, time.March, 1),
		CalcDate:  date(2024, time.March, 31),
	})

	require.NoError(t, err)
	assert.Equal(t, 30, res.Days)
	assert.True(t, res.Interest.Equal(d("30")), res.Interest.String())
	assert.Equal(t, entity.LoanMovementInterestCharge, res.Movement.Type)
	require.NotNil(t, res.Movement.Days)
	assert.Equal(t, 30, *res.Movement.Days)
	require.NotNil(t, res.Movement.Rate)
	assert.True(t, res.Movement.Rate.Equal(d("3")))
	assert.True(t, res.Balance.Balance.Equal(d("1030")))
}

func TestAccrueInterest_AnticipoUsaCargoAnticipoYSaldoExplicito(t *testing.T) {
	uc := loan.NewLedgerUseCase(memory.NewStore(), zerolog.Nop())
	a := open(t, uc, entity.LedgerKindAdvance, "5000", "2")
	balance := d("2500")
	rate := d("1.5")

	res, err := uc.AccrueInterest(context.Background(), loan.AccrueInput{
		Kind:        entity.LedgerKindAdvance,
		LoanID:      a.Loan.ID,
		StartDate:   date(2024, time.January, 1),
		CalcDate:    date(2024, time.January, 11),
		Balance:     &balance,
		MonthlyRate: &rate,
	})

	require.NoError(t, err)
	assert.Equal(t, entity.LoanMovementAdvanceCharge, res.Movement.Type)
	// 2500 × 1.5 × 10 / 3000
	assert.True(t, res.Interest.Equal(d("12.5")), res.Interest.String())
	assert.True(t, res.Base.Equal(balance))
	assert.True(t, res.Balance.Balance.Equal(d("5012.5")))
}

func TestAccrueInterest_FechasInvalidas(t *testing.T) {
	uc := loan.NewLedgerUseCase(memory.NewStore(), zerolog.Nop())
	l := open(t, uc, entity.LedgerKindLoan, "1000", "3")
	zero := d("0")
	cases := []struct {
		name string
		in   loan.AccrueInput
	}{
		{"calculo antes que inicio", loan.AccrueInput{StartDate: date(2024, 5, 2), CalcDate: date(2024, 5, 1)}},
		{"sin fecha inicio", loan.AccrueInput{CalcDate: date(2024, 5, 1)}},
		{"mismo dia", loan.AccrueInput{StartDate: date(2024, 5, 1), CalcDate: date(2024, 5, 1).Add(3 * time.Hour)}},
		{"tasa cero", loan.AccrueInput{StartDate: date(2024, 5, 1), CalcDate: date(2024, 5, 9), MonthlyRate: &zero}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.in.Kind = entity.LedgerKindLoan
			tc.in.LoanID = l.Loan.ID
			_, err := uc.AccrueInterest(context.Background(), tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	st, err := uc.Statement(context.Background(), entity.LedgerKindLoan, l.Loan.ID)
	require.NoError(t, err)
	assert.Len(t, st.Movements, 1)
}

func TestAppendMovement_AbonoReduceSaldo(t *testing.T) {
	uc := loan.NewLedgerUseCase(memory.NewStore(), zerolog.Nop())
	l := open(t, uc, entity.LedgerKindLoan, "1000", "3")

	res, err := uc.AppendMovement(context.Background(), loan.AppendInput{
		Kind: entity.LedgerKindLoan, LoanID: l.Loan.ID, Type: entity.LoanMovementPayment, Amount: d("250.75"),
	})

	require.NoError(t, err)
	assert.True(t, res.Balance.Balance.Equal(d("749.25")))
	assert.True(t, res.Balance.Charges.Equal(d("1000")))
	assert.True(t, res.Balance.Credits.Equal(d("250.75")))
}

func TestAppendMovement_RechazaTipoDeOtroLibroYMontoNoPositivo(t *testing.T) {
	uc := loan.NewLedgerUseCase(memory.NewStore(), zerolog.Nop())
	l := open(t, uc, entity.LedgerKindLoan, "1000", "3")

	_, err := uc.AppendMovement(context.Background(), loan.AppendInput{
		Kind: entity.LedgerKindLoan, LoanID: l.Loan.ID, Type: entity.LoanMovementAdvanceCharge, Amount: d("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.AppendMovement(context.Background(), loan.AppendInput{
		Kind: entity.LedgerKindLoan, LoanID: l.Loan.ID, Type: entity.LoanMovementVoided, Amount: d("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.AppendMovement(context.Background(), loan.AppendInput{
		Kind: entity.LedgerKindLoan, LoanID: l.Loan.ID, Type: entity.LoanMovementPayment, Amount: d("-3"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAppendMovement_PadreInexistenteOCerrado(t *testing.T) {
	store := memory.NewStore()
	uc := loan.NewLedgerUseCase(store, zerolog.Nop())
	l := open(t, uc, entity.LedgerKindAdvance, "1000", "3")

	_, err := uc.AppendMovement(context.Background(), loan.AppendInput{
		Kind: entity.LedgerKindAdvance, LoanID: 77, Type: entity.LoanMovementPayment, Amount: d("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// el mismo id en el libro de préstamos no existe
	_, err = uc.AppendMovement(context.Background(), loan.AppendInput{
		Kind: entity.LedgerKindLoan, LoanID: l.Loan.ID, Type: entity.LoanMovementPayment, Amount: d("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	for _, state := range []string{entity.LoanStateAbsorbed, entity.LoanStateVoided} {
		store.SetLoanState(entity.LedgerKindAdvance, l.Loan.ID, state)
		_, err = uc.AppendMovement(context.Background(), loan.AppendInput{
			Kind: entity.LedgerKindAdvance, LoanID: l.Loan.ID, Type: entity.LoanMovementPayment, Amount: d("1"),
		})
		assert.ErrorIs(t, err, domain.ErrParentClosed, state)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	}
}

func TestVoidMovement_ExcluyeDelSaldoYConservaFila(t *testing.T) {
	uc := loan.NewLedgerUseCase(memory.NewStore(), zerolog.Nop())
	l := open(t, uc, entity.LedgerKindLoan, "1000", "3")
	pay, err := uc.AppendMovement(context.Background(), loan.AppendInput{
		Kind: entity.LedgerKindLoan, LoanID: l.Loan.ID, Type: entity.LoanMovementPayment, Amount: d("400"),
	})
	require.NoError(t, err)

	res, err := uc.VoidMovement(context.Background(), entity.LedgerKindLoan, pay.Movement.ID, "u-9")

	require.NoError(t, err)
	assert.True(t, res.Balance.Balance.Equal(d("1000")))
	st, err := uc.Statement(context.Background(), entity.LedgerKindLoan, l.Loan.ID)
	require.NoError(t, err)
	require.Len(t, st.Movements, 2)
	assert.Equal(t, entity.LoanMovementVoided, st.Movements[1].Type)
	assert.Equal(t, entity.LoanMovementPayment, st.Movements[1].OriginalType)
	assert.True(t, st.Movements[1].Amount.Equal(d("400")))

	_, err = uc.VoidMovement(context.Background(), entity.LedgerKindLoan, pay.Movement.ID, "u-9")
	assert.ErrorIs(t, err, domain.ErrMovementVoided)

	_, err = uc.VoidMovement(context.Background(), entity.LedgerKindLoan, 999, "u-9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFold_SaldoIgualCargosMenosAbonos(t *testing.T) {
	uc := loan.NewLedgerUseCase(memory.NewStore(), zerolog.Nop())
	l := open(t, uc, entity.LedgerKindLoan, "800", "2")
	steps := []struct {
		typ, amount string
	}{
		{entity.LoanMovementInterestCharge, "16"},
		{entity.LoanMovementPayment, "100"},
		{entity.LoanMovementInterestPayment, "16"},
		{entity.LoanMovementPayment, "50.5"},
	}
	var ids []int64
	for _, s := range steps {
		res, err := uc.AppendMovement(context.Background(), loan.AppendInput{
			Kind: entity.LedgerKindLoan, LoanID: l.Loan.ID, Type: s.typ, Amount: d(s.amount),
		})
		require.NoError(t, err)
		ids = append(ids, res.Movement.ID)
	}
	_, err := uc.VoidMovement(context.Background(), entity.LedgerKindLoan, ids[3], "")
	require.NoError(t, err)

	st, err := uc.Statement(context.Background(), entity.LedgerKindLoan, l.Loan.ID)

	require.NoError(t, err)
	assert.True(t, st.Balance.Charges.Equal(d("816")))
	assert.True(t, st.Balance.Credits.Equal(d("116")))
	assert.True(t, st.Balance.Balance.Equal(d("700")))
}

func TestAppendMovement_FallaDeEscrituraNoDejaRastro(t *testing.T) {
	store := memory.NewStore()
	uc := loan.NewLedgerUseCase(store, zerolog.Nop())
	l := open(t, uc, entity.LedgerKindLoan, "1000", "3")
	boom := errors.New("conexión perdida")
	store.FailOnce("loan_movements.void", boom)

	_, err := uc.VoidMovement(context.Background(), entity.LedgerKindLoan, l.Movement.ID, "")

	assert.ErrorIs(t, err, boom)
	st, err := uc.Statement(context.Background(), entity.LedgerKindLoan, l.Loan.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LoanMovementInitial, st.Movements[0].Type)
	assert.True(t, st.Balance.Balance.Equal(d("1000")))
}

func TestOpen_FallaDelMovimientoInicialRevierteElPrestamo(t *testing.T) {
	store := memory.NewStore()
	uc := loan.NewLedgerUseCase(store, zerolog.Nop())
	store.FailOnce("loan_movements.create", errors.New("x"))

	_, err := uc.Open(context.Background(), loan.OpenInput{
		Kind: entity.LedgerKindLoan, ClientID: 1, Principal: d("10"), MonthlyRate: d("1"),
	})
	require.Error(t, err)

	_, err = uc.Statement(context.Background(), entity.LedgerKindLoan, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTasasYMontos_RechazaMasDecimalesQueLasColumnas(t *testing.T) {
	uc := loan.NewLedgerUseCase(memory.NewStore(), zerolog.Nop())
	ctx := context.Background()

	_, err := uc.Open(ctx, loan.OpenInput{Kind: entity.LedgerKindLoan, ClientID: 3, Principal: d("1000.005"), MonthlyRate: d("3")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Open(ctx, loan.OpenInput{Kind: entity.LedgerKindLoan, ClientID: 3, Principal: d("1000"), MonthlyRate: d("2.55555")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	l := open(t, uc, entity.LedgerKindLoan, "1000.50", "2.5555")
	rate := d("2.55555")
	_, err = uc.AccrueInterest(ctx, loan.AccrueInput{
		Kind: entity.LedgerKindLoan, LoanID: l.Loan.ID,
		StartDate: date(2024, 1, 1), CalcDate: date(2024, 1, 31), MonthlyRate: &rate,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.AppendMovement(ctx, loan.AppendInput{
		Kind: entity.LedgerKindLoan, LoanID: l.Loan.ID, Type: entity.LoanMovementInterestCharge,
		Amount: d("10"), Rate: &rate,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// con 4 decimales el interés se reproduce desde la fila guardada
	res, err := uc.AccrueInterest(ctx, loan.AccrueInput{
		Kind: entity.LedgerKindLoan, LoanID: l.Loan.ID,
		StartDate: date(2024, 1, 1), CalcDate: date(2024, 1, 31),
	})
	require.NoError(t, err)
	require.NotNil(t, res.Movement.Rate)
	require.NotNil(t, res.Movement.Days)
	assert.True(t, res.Interest.Equal(d("1000.50").Mul(*res.Movement.Rate).Mul(decimal.NewFromInt(int64(*res.Movement.Days))).Div(d("3000"))))
}
