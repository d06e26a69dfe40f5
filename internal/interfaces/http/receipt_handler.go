package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cafe-ledger-api/internal/application/receipt"
)

// ReceiptHandler descarga de comprobantes emitidos (protegido).
type ReceiptHandler struct {
	receipts *receipt.Service
}

// NewReceiptHandler construye el handler.
func NewReceiptHandler(receipts *receipt.Service) *ReceiptHandler {
	return &ReceiptHandler{receipts: receipts}
}

// Get godoc
// @Summary      Descargar comprobante PDF
// @Tags         comprobantes
// @Security     Bearer
// @Produce      application/pdf
// @Param        kind  path  string  true  "entrega | liquidacion | prestamo | anticipo"
// @Param        id    path  int     true  "número del comprobante"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/comprobantes/{kind}/{id} [get]
func (h *ReceiptHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	kind := c.Params("kind")
	pdf, err := h.receipts.Get(c.UserContext(), kind, id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s-%d.pdf"`, kind, id))
	return c.Send(pdf)
}
