package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Etiquetas de movimiento de una entrega. Las entregas nunca se borran: anular cambia la etiqueta.
const (
	DeliveryTagEntry  = "Entrada"
	DeliveryTagVoided = "Anulado"
)

// ContractDelivery entrega parcial contra un contrato.
type ContractDelivery struct {
	ID         int64
	ContractID int64
	Quantity   decimal.Decimal // QQ, truncado a 2 decimales
	UnitPrice  decimal.Decimal
	Tag        string
	Notes      string
	Date       time.Time
	UpdatedAt  time.Time
	CreatedBy  string
}

// Active indica si la entrega suma al cumplimiento del contrato.
func (d *ContractDelivery) Active() bool {
	return d.Tag != DeliveryTagVoided
}

// Total monto de la entrega (cantidad × precio), calculado al leer.
func (d *ContractDelivery) Total() decimal.Decimal {
	return d.Quantity.Mul(d.UnitPrice)
}
