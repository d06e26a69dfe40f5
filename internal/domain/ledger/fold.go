package ledger

import (
	"github.com/jhoicas/cafe-ledger-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Balance resultado de plegar los movimientos de un préstamo o anticipo.
type Balance struct {
	Charges decimal.Decimal `json:"cargos"`
	Credits decimal.Decimal `json:"abonos"`
	Balance decimal.Decimal `json:"saldo"`
}

// IsCharge indica si el tipo de movimiento aumenta la deuda.
func IsCharge(movementType string) bool {
	switch movementType {
	case entity.LoanMovementInitial, entity.LoanMovementInterestCharge, entity.LoanMovementAdvanceCharge:
		return true
	}
	return false
}

// IsCredit indica si el tipo de movimiento reduce la deuda.
func IsCredit(movementType string) bool {
	switch movementType {
	case entity.LoanMovementPayment, entity.LoanMovementInterestPayment, entity.LoanMovementAdvanceInterest:
		return true
	}
	return false
}

// InterestChargeType tipo de cargo de interés según el libro.
func InterestChargeType(kind string) string {
	if kind == entity.LedgerKindAdvance {
		return entity.LoanMovementAdvanceCharge
	}
	return entity.LoanMovementInterestCharge
}

// InterestCreditType tipo de abono a interés según el libro.
func InterestCreditType(kind string) string {
	if kind == entity.LedgerKindAdvance {
		return entity.LoanMovementAdvanceInterest
	}
	return entity.LoanMovementInterestPayment
}

// AllowedType indica si un tipo puede registrarse en el libro indicado.
// ANULADO nunca se registra directamente: solo se llega a él anulando.
func AllowedType(kind, movementType string) bool {
	switch movementType {
	case entity.LoanMovementInitial, entity.LoanMovementPayment:
		return true
	case InterestChargeType(kind), InterestCreditType(kind):
		return true
	}
	return false
}

// Fold saldo = Σ cargos − Σ abonos; los movimientos ANULADO no participan.
func Fold(movements []*entity.LoanMovement) Balance {
	b := Balance{Charges: decimal.Zero, Credits: decimal.Zero}
	for _, m := range movements {
		switch {
		case m.Voided():
			continue
		case IsCharge(m.Type):
			b.Charges = b.Charges.Add(m.Amount)
		case IsCredit(m.Type):
			b.Credits = b.Credits.Add(m.Amount)
		}
	}
	b.Balance = b.Charges.Sub(b.Credits)
	return b
}
