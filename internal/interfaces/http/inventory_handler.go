package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cafe-ledger-api/internal/application/dto"
	"github.com/jhoicas/cafe-ledger-api/internal/application/inventory"
)

// InventoryHandler ingresos de lotes y existencia del pool (protegido).
type InventoryHandler struct {
	uc *inventory.LotIntakeUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.LotIntakeUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// CreateLot godoc
// @Summary      Registrar ingreso de lote al pool
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLotRequest  true  "referencia de compra, cantidad en QQ"
// @Success      201   {object}  dto.LotDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/lots [post]
func (h *InventoryHandler) CreateLot(c *fiber.Ctx) error {
	var in dto.CreateLotRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	lot, err := h.uc.RegisterEntry(c.UserContext(), inventory.LotEntryInput{
		Reference: in.Reference,
		Quantity:  in.Quantity,
		Note:      in.Note,
		UserID:    GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toLotDTO(lot))
}

// ListLots godoc
// @Summary      Lotes del pool y total disponible
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PoolResponse
// @Router       /api/inventory/lots [get]
func (h *InventoryHandler) ListLots(c *fiber.Ctx) error {
	snap, err := h.uc.Snapshot(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	out := dto.PoolResponse{Total: snap.Total, Lots: make([]dto.LotDTO, 0, len(snap.Lots))}
	for _, l := range snap.Lots {
		out.Lots = append(out.Lots, toLotDTO(l))
	}
	return c.JSON(out)
}

// LotMovements godoc
// @Summary      Bitácora de movimientos de un lote
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "ID del lote"
// @Success      200  {object}  dto.LotHistoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/lots/{id}/movements [get]
func (h *InventoryHandler) LotMovements(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	hist, err := h.uc.History(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.LotHistoryResponse{
		Lot:       toLotDTO(hist.Lot),
		Net:       hist.Net,
		Movements: toInventoryMovementDTOs(hist.Movements),
	})
}
