package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryLot lote del pool de inventario compartido (QQ en existencia).
type InventoryLot struct {
	ID        int64
	Reference string // compra u origen del lote
	Quantity  decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LotScope delimita qué lotes participan en un movimiento del pool.
// El pool global ignora el alcance; existe para poder particionar por producto/cliente.
type LotScope struct {
	Product  string
	ClientID int64
}
