package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cafe-ledger-api/internal/application/contract"
	"github.com/jhoicas/cafe-ledger-api/internal/application/dto"
	"github.com/jhoicas/cafe-ledger-api/internal/application/receipt"
)

// ContractHandler entregas contra contratos (protegido).
type ContractHandler struct {
	uc       *contract.FulfillmentUseCase
	receipts *receipt.Service
}

// NewContractHandler construye el handler.
func NewContractHandler(uc *contract.FulfillmentUseCase, receipts *receipt.Service) *ContractHandler {
	return &ContractHandler{uc: uc, receipts: receipts}
}

// GetPosition godoc
// @Summary      Posición del contrato: entregado, pendiente y monto
// @Tags         contracts
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "ID del contrato"
// @Success      200  {object}  dto.PositionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/contracts/{id} [get]
func (h *ContractHandler) GetPosition(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	pos, err := h.uc.GetPosition(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toPositionResponse(pos))
}

// CreateDelivery godoc
// @Summary      Registrar entrega contra un contrato
// @Description  Descuenta la cantidad del pool por lotes en orden ascendente y recalcula el estado del contrato.
// @Tags         contracts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                        true  "ID del contrato"
// @Param        body  body  dto.CreateDeliveryRequest  true  "cantidad (QQ), precio, notas"
// @Success      201   {object}  dto.DeliveryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/contracts/{id}/deliveries [post]
func (h *ContractHandler) CreateDelivery(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.CreateDeliveryRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	res, err := h.uc.CreateDelivery(c.UserContext(), contract.CreateDeliveryInput{
		ContractID: id,
		Quantity:   in.Quantity,
		UnitPrice:  in.UnitPrice,
		Notes:      in.Notes,
		UserID:     GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.respond(c, res))
}

// EditDelivery godoc
// @Summary      Editar cantidad de una entrega
// @Description  Solo el delta toca el pool: positivo descuenta, negativo reintegra.
// @Tags         contracts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                      true  "ID de la entrega"
// @Param        body  body  dto.EditDeliveryRequest  true  "nueva cantidad, notas"
// @Success      200   {object}  dto.DeliveryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id} [put]
func (h *ContractHandler) EditDelivery(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.EditDeliveryRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	res, err := h.uc.EditDelivery(c.UserContext(), contract.EditDeliveryInput{
		DeliveryID: id,
		Quantity:   in.Quantity,
		Notes:      in.Notes,
		UserID:     GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.respond(c, res))
}

// VoidDelivery godoc
// @Summary      Anular entrega
// @Description  La entrega queda con etiqueta Anulado y su cantidad completa vuelve al pool.
// @Tags         contracts
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "ID de la entrega"
// @Success      200  {object}  dto.DeliveryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id} [delete]
func (h *ContractHandler) VoidDelivery(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.uc.VoidDelivery(c.UserContext(), id, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.respond(c, res))
}

func (h *ContractHandler) respond(c *fiber.Ctx, res *contract.DeliveryResult) dto.DeliveryResponse {
	out := toDeliveryResponse(res)
	out.Comprobante = comprobante(h.receipts.IssueDelivery(c.UserContext(), res))
	return out
}
