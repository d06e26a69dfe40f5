package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de préstamo/anticipo.
const (
	LoanMovementInitial         = "INICIAL"
	LoanMovementInterestCharge  = "Int-Cargo"
	LoanMovementAdvanceCharge   = "CARGO_ANTICIPO"
	LoanMovementPayment         = "ABONO"
	LoanMovementInterestPayment = "PAGO_INTERES"
	LoanMovementAdvanceInterest = "INTERES_ANTICIPO"
	LoanMovementVoided          = "ANULADO"
)

// LoanMovement movimiento append-only de un préstamo o anticipo.
// Days y Rate se guardan en los cargos de interés para poder reproducir el cálculo.
type LoanMovement struct {
	ID           int64
	LoanID       int64
	Kind         string
	Type         string
	OriginalType string // tipo previo a la anulación
	Amount       decimal.Decimal
	Days         *int
	Rate         *decimal.Decimal
	Date         time.Time
	Description  string
	CreatedAt    time.Time
	CreatedBy    string
}

// Voided indica si el movimiento quedó fuera del saldo.
func (m *LoanMovement) Voided() bool {
	return m.Type == LoanMovementVoided
}
