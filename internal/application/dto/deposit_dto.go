package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterDepositRequest body para POST /api/deposits.
type RegisterDepositRequest struct {
	ClientID int64           `json:"cliente_id" validate:"required,gt=0"`
	Product  string          `json:"producto" validate:"required,max=80"`
	Quantity decimal.Decimal `json:"cantidad" validate:"gt=0"`
	Date     *Date           `json:"fecha,omitempty"`
	Notes    string          `json:"notas,omitempty" validate:"max=500"`
}

// LiquidateDepositRequest body para POST /api/deposits/:id/liquidations.
type LiquidateDepositRequest struct {
	Quantity  decimal.Decimal `json:"cantidad" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"precio" validate:"gte=0"`
	Date      *Date           `json:"fecha,omitempty"`
	Notes     string          `json:"notas,omitempty" validate:"max=500"`
}

// LiquidateClientRequest body para POST /api/liquidations (por cliente y producto).
type LiquidateClientRequest struct {
	ClientID  int64           `json:"cliente_id" validate:"required,gt=0"`
	Product   string          `json:"producto" validate:"required,max=80"`
	Quantity  decimal.Decimal `json:"cantidad" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"precio" validate:"gte=0"`
	Date      *Date           `json:"fecha,omitempty"`
	Notes     string          `json:"notas,omitempty" validate:"max=500"`
}

// DepositDTO depósito registrado.
type DepositDTO struct {
	ID       int64           `json:"id"`
	ClientID int64           `json:"cliente_id"`
	Product  string          `json:"producto"`
	Quantity decimal.Decimal `json:"cantidad"`
	Date     time.Time       `json:"fecha"`
	Notes    string          `json:"notas,omitempty"`
}

// LiquidationDTO liquidación con monto calculado al leer.
type LiquidationDTO struct {
	ID        int64           `json:"id"`
	DepositID int64           `json:"deposito_id"`
	Quantity  decimal.Decimal `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio"`
	Total     decimal.Decimal `json:"total"`
	State     string          `json:"estado"`
	Date      time.Time       `json:"fecha"`
	Notes     string          `json:"notas,omitempty"`
}

// LiquidationResponse respuesta de una liquidación (uno o varios depósitos).
type LiquidationResponse struct {
	Liquidations []LiquidationDTO `json:"liquidaciones"`
	Remaining    decimal.Decimal  `json:"saldo_restante"`
	Comprobante  *ComprobanteDTO  `json:"comprobante,omitempty"`
}

// DepositBalanceResponse saldo del depósito con sus liquidaciones.
type DepositBalanceResponse struct {
	Deposit      DepositDTO       `json:"deposito"`
	Liquidated   decimal.Decimal  `json:"liquidado"`
	Remaining    decimal.Decimal  `json:"saldo_restante"`
	Amount       decimal.Decimal  `json:"monto"`
	Liquidations []LiquidationDTO `json:"liquidaciones"`
}
