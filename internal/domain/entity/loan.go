package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de libro: préstamo o anticipo. Comparten estructura y reglas.
const (
	LedgerKindLoan    = "prestamo"
	LedgerKindAdvance = "anticipo"
)

// Estados de préstamo/anticipo.
const (
	LoanStateActive   = "ACTIVO"
	LoanStateVoided   = "ANULADO"
	LoanStateAbsorbed = "ABSORBIDO"
	LoanStatePaid     = "PAGADO"
)

// Loan préstamo o anticipo otorgado a un cliente. El saldo nunca se guarda: se pliega de sus movimientos.
type Loan struct {
	ID          int64
	Kind        string
	ClientID    int64
	Principal   decimal.Decimal
	MonthlyRate decimal.Decimal // % mensual
	State       string
	Date        time.Time
	Notes       string
	CreatedAt   time.Time
}

// Closed indica si el préstamo ya no admite movimientos.
func (l *Loan) Closed() bool {
	return l.State == LoanStateVoided || l.State == LoanStateAbsorbed
}
