package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dirección de un movimiento de inventario.
const (
	MovementDirectionIn  = "Entrada"
	MovementDirectionOut = "Salida"
)

// Tipos de referencia que originan movimientos de inventario.
const (
	ReferenceContractDelivery = "entrega_contrato"
	ReferenceLotIntake        = "ingreso_lote"
)

// InventoryMovement registro de auditoría append-only: un renglón por lote tocado en cada paso de conciliación.
type InventoryMovement struct {
	ID            int64
	TransactionID string // agrupa los renglones escritos en la misma operación
	LotID         int64
	Direction     string
	ReferenceType string
	ReferenceID   int64
	Quantity      decimal.Decimal // siempre positivo; el signo lo da Direction
	Note          string
	CreatedAt     time.Time
	CreatedBy     string
}

// Signed cantidad con signo (+ entrada, − salida).
func (m *InventoryMovement) Signed() decimal.Decimal {
	if m.Direction == MovementDirectionOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}
