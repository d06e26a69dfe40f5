package dto

import "github.com/shopspring/decimal"

// ErrorResponse cuerpo de error HTTP. Los campos opcionales los llenan los errores de negocio
// para que el cliente pueda actuar (cuánto falta, cuánto queda, a dónde ir).
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	Shortfall *decimal.Decimal  `json:"shortfall,omitempty"`
	Available *decimal.Decimal  `json:"available,omitempty"`
	Remaining *decimal.Decimal  `json:"remaining,omitempty"`
	Redirect  string            `json:"redirect,omitempty"`
}

// ComprobanteDTO resultado de emitir el comprobante después del commit.
// Un fallo aquí nunca revierte el asiento ya confirmado.
type ComprobanteDTO struct {
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}
