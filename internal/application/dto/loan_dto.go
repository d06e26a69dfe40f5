package dto

import (
	"time"

	"github.com/jhoicas/cafe-ledger-api/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// OpenLoanRequest body para POST /api/loans y /api/advances.
type OpenLoanRequest struct {
	ClientID    int64           `json:"cliente_id" validate:"required,gt=0"`
	Principal   decimal.Decimal `json:"monto" validate:"gt=0"`
	MonthlyRate decimal.Decimal `json:"tasa_mensual" validate:"gte=0"`
	Date        *Date           `json:"fecha,omitempty"`
	Notes       string          `json:"notas,omitempty" validate:"max=500"`
}

// AppendMovementRequest body para POST /api/loans/:id/movements.
type AppendMovementRequest struct {
	Type        string           `json:"tipo" validate:"required"`
	Amount      decimal.Decimal  `json:"monto" validate:"gt=0"`
	Date        *Date            `json:"fecha,omitempty"`
	Rate        *decimal.Decimal `json:"tasa,omitempty" validate:"omitempty,gte=0"`
	Days        *int             `json:"dias,omitempty" validate:"omitempty,gte=0"`
	Description string           `json:"descripcion,omitempty" validate:"max=500"`
}

// AccrueInterestRequest body para POST /api/loans/:id/interest.
// Saldo y tasa son opcionales: por defecto el saldo plegado y la tasa del préstamo.
type AccrueInterestRequest struct {
	StartDate   *Date            `json:"fecha_inicio" validate:"required"`
	CalcDate    *Date            `json:"fecha_calculo" validate:"required"`
	Balance     *decimal.Decimal `json:"saldo,omitempty" validate:"omitempty,gt=0"`
	MonthlyRate *decimal.Decimal `json:"tasa_mensual,omitempty" validate:"omitempty,gt=0"`
	Description string           `json:"descripcion,omitempty" validate:"max=500"`
}

// LoanDTO cabecera de préstamo o anticipo.
type LoanDTO struct {
	ID          int64           `json:"id"`
	Kind        string          `json:"tipo"`
	ClientID    int64           `json:"cliente_id"`
	Principal   decimal.Decimal `json:"monto"`
	MonthlyRate decimal.Decimal `json:"tasa_mensual"`
	State       string          `json:"estado"`
	Date        time.Time       `json:"fecha"`
}

// LoanMovementDTO movimiento del libro.
type LoanMovementDTO struct {
	ID           int64            `json:"id"`
	LoanID       int64            `json:"prestamo_id"`
	Type         string           `json:"tipo"`
	OriginalType string           `json:"tipo_original,omitempty"`
	Amount       decimal.Decimal  `json:"monto"`
	Days         *int             `json:"dias,omitempty"`
	Rate         *decimal.Decimal `json:"tasa,omitempty"`
	Date         time.Time        `json:"fecha"`
	Description  string           `json:"descripcion,omitempty"`
}

// LoanMovementResponse respuesta de abrir, agregar o anular un movimiento.
type LoanMovementResponse struct {
	Loan        LoanDTO         `json:"prestamo"`
	Movement    LoanMovementDTO `json:"movimiento"`
	Balance     ledger.Balance  `json:"saldo"`
	Comprobante *ComprobanteDTO `json:"comprobante,omitempty"`
}

// InterestResponse respuesta del cálculo de interés.
type InterestResponse struct {
	LoanMovementResponse
	Interest decimal.Decimal `json:"interes"`
	Days     int             `json:"dias"`
	Rate     decimal.Decimal `json:"tasa_mensual"`
	Base     decimal.Decimal `json:"saldo_base"`
}

// StatementResponse estado de cuenta: movimientos y saldo plegado.
type StatementResponse struct {
	Loan      LoanDTO           `json:"prestamo"`
	Movements []LoanMovementDTO `json:"movimientos"`
	Balance   ledger.Balance    `json:"saldo"`
}
