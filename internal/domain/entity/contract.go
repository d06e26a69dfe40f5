package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de contrato. Pendiente ⇄ Liquidado lo decide el motor de cumplimiento;
// Anulado es terminal y se asigna fuera del motor.
const (
	ContractStatusPending = "Pendiente"
	ContractStatusSettled = "Liquidado"
	ContractStatusVoided  = "Anulado"
)

// Contract contrato de venta de café con cantidad comprometida en quintales (QQ).
type Contract struct {
	ID             int64
	ClientID       int64
	Product        string
	TargetQuantity decimal.Decimal // QQ comprometidos
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Voided indica si el contrato quedó excluido de toda mutación del motor.
func (c *Contract) Voided() bool {
	return c.Status == ContractStatusVoided
}
