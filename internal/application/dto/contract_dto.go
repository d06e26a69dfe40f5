package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateDeliveryRequest body para POST /api/contracts/:id/deliveries.
type CreateDeliveryRequest struct {
	Quantity  decimal.Decimal `json:"cantidad" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"precio" validate:"gte=0"`
	Notes     string          `json:"notas,omitempty" validate:"max=500"`
}

// EditDeliveryRequest body para PUT /api/deliveries/:id.
type EditDeliveryRequest struct {
	Quantity decimal.Decimal `json:"cantidad" validate:"gt=0"`
	Notes    string          `json:"notas,omitempty" validate:"max=500"`
}

// DeliveryDTO entrega con su monto calculado al leer.
type DeliveryDTO struct {
	ID         int64                  `json:"id"`
	ContractID int64                  `json:"contrato_id"`
	Quantity   decimal.Decimal        `json:"cantidad"`
	UnitPrice  decimal.Decimal        `json:"precio"`
	Total      decimal.Decimal        `json:"total"`
	Tag        string                 `json:"movimiento"`
	Notes      string                 `json:"notas,omitempty"`
	Date       time.Time              `json:"fecha"`
	Movements  []InventoryMovementDTO `json:"movimientos_inventario,omitempty"`
}

// ContractStateDTO estado del contrato tras la conciliación.
type ContractStateDTO struct {
	ID             int64           `json:"id"`
	ClientID       int64           `json:"cliente_id"`
	Product        string          `json:"producto"`
	TargetQuantity decimal.Decimal `json:"cantidad_contrato"`
	Delivered      decimal.Decimal `json:"entregado"`
	Remaining      decimal.Decimal `json:"pendiente"`
	Status         string          `json:"estado"`
}

// DeliveryResponse respuesta de crear, editar o anular una entrega.
type DeliveryResponse struct {
	Delivery    DeliveryDTO            `json:"entrega"`
	Contract    ContractStateDTO       `json:"contrato"`
	Movements   []InventoryMovementDTO `json:"movimientos_inventario"`
	Comprobante *ComprobanteDTO        `json:"comprobante,omitempty"`
}

// PositionResponse respuesta de GET /api/contracts/:id.
type PositionResponse struct {
	Contract   ContractStateDTO `json:"contrato"`
	Amount     decimal.Decimal  `json:"monto"`
	Deliveries []DeliveryDTO    `json:"entregas"`
}
