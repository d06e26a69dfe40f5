package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateLotRequest body para POST /api/inventory/lots.
type CreateLotRequest struct {
	Reference string          `json:"referencia" validate:"required,max=120"`
	Quantity  decimal.Decimal `json:"cantidad" validate:"gt=0"`
	Note      string          `json:"nota,omitempty" validate:"max=500"`
}

// LotDTO lote del pool.
type LotDTO struct {
	ID        int64           `json:"id"`
	Reference string          `json:"referencia"`
	Quantity  decimal.Decimal `json:"cantidad"`
	CreatedAt time.Time       `json:"creado"`
	UpdatedAt time.Time       `json:"actualizado"`
}

// PoolResponse existencia del pool.
type PoolResponse struct {
	Total decimal.Decimal `json:"total"`
	Lots  []LotDTO        `json:"lotes"`
}

// InventoryMovementDTO renglón de auditoría de un lote tocado.
type InventoryMovementDTO struct {
	ID            int64           `json:"id"`
	TransactionID string          `json:"transaccion"`
	LotID         int64           `json:"lote_id"`
	Direction     string          `json:"direccion"`
	Quantity      decimal.Decimal `json:"cantidad"`
	ReferenceType string          `json:"referencia_tipo"`
	ReferenceID   int64           `json:"referencia_id"`
}

// LotHistoryResponse lote con su bitácora de inventario.
type LotHistoryResponse struct {
	Lot       LotDTO                 `json:"lote"`
	Net       decimal.Decimal        `json:"neto_movimientos"`
	Movements []InventoryMovementDTO `json:"movimientos"`
}
