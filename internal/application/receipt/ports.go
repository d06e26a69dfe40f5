package receipt

import (
	"context"
	"time"

	"github.com/jhoicas/cafe-ledger-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Tipos de comprobante; forman parte de la URL /api/comprobantes/{tipo}/{id}.
const (
	KindDelivery    = "entrega"
	KindLiquidation = "liquidacion"
	KindLoan        = "prestamo"
	KindAdvance     = "anticipo"
)

// Line fila de detalle del comprobante.
type Line struct {
	Concept   string
	Quantity  *decimal.Decimal
	UnitPrice *decimal.Decimal
	Amount    decimal.Decimal
}

// Field par etiqueta/valor del resumen.
type Field struct {
	Label string
	Value string
}

// Document datos ya resueltos que el generador dibuja; no consulta nada por su cuenta.
type Document struct {
	Kind     string
	Number   int64
	Title    string
	Company  string
	IssuedAt time.Time
	Client   *entity.Client
	Lines    []Line
	Summary  []Field
	Notes    string
}

// Renderer genera el PDF de un comprobante.
type Renderer interface {
	Render(ctx context.Context, doc *Document) ([]byte, error)
}

// ClientDirectory resuelve el cliente para el encabezado. (nil, nil) si no existe.
type ClientDirectory interface {
	GetByID(ctx context.Context, id int64) (*entity.Client, error)
}
