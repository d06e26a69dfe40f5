package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cafe-ledger-api/internal/application/deposit"
	"github.com/jhoicas/cafe-ledger-api/internal/application/dto"
	"github.com/jhoicas/cafe-ledger-api/internal/application/receipt"
)

// DepositHandler depósitos y sus liquidaciones (protegido).
type DepositHandler struct {
	uc       *deposit.LiquidationUseCase
	receipts *receipt.Service
}

// NewDepositHandler construye el handler.
func NewDepositHandler(uc *deposit.LiquidationUseCase, receipts *receipt.Service) *DepositHandler {
	return &DepositHandler{uc: uc, receipts: receipts}
}

// Register godoc
// @Summary      Registrar depósito
// @Tags         deposits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterDepositRequest  true  "cliente, producto, cantidad"
// @Success      201   {object}  dto.DepositDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/deposits [post]
func (h *DepositHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterDepositRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	dep, err := h.uc.Register(c.UserContext(), deposit.RegisterInput{
		ClientID: in.ClientID,
		Product:  in.Product,
		Quantity: in.Quantity,
		Date:     in.Date.Value(),
		Notes:    in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toDepositDTO(dep))
}

// LiquidateDeposit godoc
// @Summary      Liquidar un depósito
// @Tags         deposits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                          true  "ID del depósito"
// @Param        body  body  dto.LiquidateDepositRequest  true  "cantidad, precio"
// @Success      201   {object}  dto.LiquidationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/deposits/{id}/liquidations [post]
func (h *DepositHandler) LiquidateDeposit(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.LiquidateDepositRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	return h.liquidate(c, deposit.LiquidateInput{
		DepositID: id,
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
		Date:      in.Date.Value(),
		Notes:     in.Notes,
		UserID:    GetUserID(c),
	})
}

// LiquidateClient godoc
// @Summary      Liquidar por cliente y producto
// @Description  Consume el saldo agregado de los depósitos del cliente en orden ascendente, un registro por depósito.
// @Tags         deposits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LiquidateClientRequest  true  "cliente, producto, cantidad, precio"
// @Success      201   {object}  dto.LiquidationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/liquidations [post]
func (h *DepositHandler) LiquidateClient(c *fiber.Ctx) error {
	var in dto.LiquidateClientRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	return h.liquidate(c, deposit.LiquidateInput{
		ClientID:  in.ClientID,
		Product:   in.Product,
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
		Date:      in.Date.Value(),
		Notes:     in.Notes,
		UserID:    GetUserID(c),
	})
}

func (h *DepositHandler) liquidate(c *fiber.Ctx, in deposit.LiquidateInput) error {
	res, err := h.uc.Liquidate(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.LiquidationResponse{
		Liquidations: toLiquidationDTOs(res.Liquidations),
		Remaining:    res.Remaining,
		Comprobante:  comprobante(h.receipts.IssueLiquidation(c.UserContext(), res)),
	})
}

// Balance godoc
// @Summary      Saldo del depósito y sus liquidaciones
// @Tags         deposits
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "ID del depósito"
// @Success      200  {object}  dto.DepositBalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deposits/{id}/liquidations [get]
func (h *DepositHandler) Balance(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	b, err := h.uc.Balance(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toDepositBalanceResponse(b))
}

// VoidLiquidation godoc
// @Summary      Anular liquidación
// @Tags         deposits
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "ID de la liquidación"
// @Success      200  {object}  dto.DepositBalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/liquidations/{id} [delete]
func (h *DepositHandler) VoidLiquidation(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	b, err := h.uc.VoidLiquidation(c.UserContext(), id, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toDepositBalanceResponse(b))
}

// Delete godoc
// @Summary      Eliminar depósito
// @Description  Bloqueado mientras tenga liquidaciones vigentes; la respuesta 409 indica a dónde ir.
// @Tags         deposits
// @Security     Bearer
// @Param        id   path  int  true  "ID del depósito"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/deposits/{id} [delete]
func (h *DepositHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.DeleteDeposit(c.UserContext(), id, GetUserID(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
