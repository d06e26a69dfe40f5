package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio. Los errores de negocio detallados (structs) envuelven uno de estos
// sentinels para que la capa HTTP pueda clasificarlos con errors.Is.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("inventario insuficiente")

	ErrContractVoided    = fmt.Errorf("%w: contrato anulado", ErrForbidden)
	ErrParentClosed      = fmt.Errorf("%w: préstamo o anticipo anulado/absorbido", ErrForbidden)
	ErrDeliveryVoided    = fmt.Errorf("%w: entrega ya anulada", ErrConflict)
	ErrMovementVoided    = fmt.Errorf("%w: movimiento ya anulado", ErrConflict)
	ErrLiquidationVoided = fmt.Errorf("%w: liquidación ya anulada", ErrConflict)
	ErrExceedsRemaining  = errors.New("cantidad excede el saldo disponible del depósito")
	ErrDepositInUse      = errors.New("el depósito tiene liquidaciones asociadas")
)

// ValidationError describe un campo de entrada inválido. Se detecta antes de abrir transacción.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientInventoryError se devuelve cuando el pool no cubre la cantidad pedida.
type InsufficientInventoryError struct {
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("inventario insuficiente: solicitado %s QQ, disponible %s QQ, faltan %s QQ",
		e.Requested.StringFixed(2), e.Available.StringFixed(2), e.Shortfall().StringFixed(2))
}

func (e *InsufficientInventoryError) Unwrap() error { return ErrInsufficientStock }

// Shortfall cantidad faltante para cubrir la solicitud.
func (e *InsufficientInventoryError) Shortfall() decimal.Decimal {
	return e.Requested.Sub(e.Available)
}

// ExceedsRemainingError se devuelve cuando una liquidación supera el saldo del depósito.
type ExceedsRemainingError struct {
	Requested decimal.Decimal
	Remaining decimal.Decimal
}

func (e *ExceedsRemainingError) Error() string {
	return fmt.Sprintf("cantidad %s QQ excede el saldo disponible %s QQ",
		e.Requested.StringFixed(2), e.Remaining.StringFixed(2))
}

func (e *ExceedsRemainingError) Unwrap() error { return ErrExceedsRemaining }

// DepositInUseError bloquea la eliminación de un depósito con liquidaciones vigentes.
type DepositInUseError struct {
	DepositID    int64
	Liquidations int
}

func (e *DepositInUseError) Error() string {
	return fmt.Sprintf("el depósito %d tiene %d liquidaciones vigentes; anúlelas primero", e.DepositID, e.Liquidations)
}

func (e *DepositInUseError) Unwrap() error { return ErrDepositInUse }
