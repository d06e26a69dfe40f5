package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cafe-ledger-api/internal/application/dto"
	"github.com/jhoicas/cafe-ledger-api/internal/domain"
)

// writeError traduce los errores de los motores a la respuesta HTTP. Todo lo que no sea un error de
// dominio reconocido es INTERNAL: la transacción ya fue revertida por el TxRunner.
func writeError(c *fiber.Ctx, err error) error {
	var (
		validation   *domain.ValidationError
		insufficient *domain.InsufficientInventoryError
		exceeds      *domain.ExceedsRemainingError
		inUse        *domain.DepositInUseError
	)
	switch {
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: err.Error(),
			Fields:  map[string]string{validation.Field: validation.Reason},
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.As(err, &insufficient):
		shortfall, available := insufficient.Shortfall(), insufficient.Available
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:      "INSUFFICIENT_INVENTORY",
			Message:   err.Error(),
			Shortfall: &shortfall,
			Available: &available,
		})
	case errors.As(err, &exceeds):
		remaining := exceeds.Remaining
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:      "EXCEEDS_REMAINING",
			Message:   err.Error(),
			Remaining: &remaining,
		})
	case errors.As(err, &inUse):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:     "DEPOSIT_IN_USE",
			Message:  err.Error(),
			Redirect: fmt.Sprintf("/api/deposits/%d/liquidations", inUse.DepositID),
		})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno, la operación no se aplicó"})
	}
}

// paramID lee un id numérico positivo de la ruta.
func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, domain.Invalid(name, "debe ser un entero positivo")
	}
	return int64(id), nil
}
