package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una liquidación de depósito.
const (
	LiquidationStateActive = "Activo"
	LiquidationStateVoided = "Anulado"
)

// Deposit café depositado por un cliente, pendiente de liquidar.
type Deposit struct {
	ID        int64
	ClientID  int64
	Product   string
	Quantity  decimal.Decimal // QQ depositados
	Date      time.Time
	Notes     string
	CreatedAt time.Time
}

// DepositLiquidation consumo de un depósito a un precio pactado.
type DepositLiquidation struct {
	ID        int64
	DepositID int64
	ClientID  int64
	Product   string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	State     string
	Notes     string
	Date      time.Time
	CreatedAt time.Time
	CreatedBy string
}

// Active indica si la liquidación consume saldo del depósito.
func (l *DepositLiquidation) Active() bool {
	return l.State != LiquidationStateVoided
}
