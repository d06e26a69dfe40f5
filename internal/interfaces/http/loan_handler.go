package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cafe-ledger-api/internal/application/dto"
	"github.com/jhoicas/cafe-ledger-api/internal/application/loan"
	"github.com/jhoicas/cafe-ledger-api/internal/application/receipt"
)

// LoanHandler libro de préstamos o de anticipos; kind fija cuál (protegido).
type LoanHandler struct {
	uc       *loan.LedgerUseCase
	receipts *receipt.Service
	kind     string
}

// NewLoanHandler construye el handler para un libro (entity.LedgerKindLoan o entity.LedgerKindAdvance).
func NewLoanHandler(uc *loan.LedgerUseCase, receipts *receipt.Service, kind string) *LoanHandler {
	return &LoanHandler{uc: uc, receipts: receipts, kind: kind}
}

// Open godoc
// @Summary      Otorgar préstamo o anticipo
// @Description  Crea la cabecera en estado ACTIVO y su movimiento INICIAL en una sola transacción.
// @Tags         loans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenLoanRequest  true  "cliente, monto, tasa mensual"
// @Success      201   {object}  dto.LoanMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/loans [post]
// @Router       /api/advances [post]
func (h *LoanHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenLoanRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	res, err := h.uc.Open(c.UserContext(), loan.OpenInput{
		Kind:        h.kind,
		ClientID:    in.ClientID,
		Principal:   in.Principal,
		MonthlyRate: in.MonthlyRate,
		Date:        in.Date.Value(),
		Notes:       in.Notes,
		UserID:      GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.respond(c, res))
}

// Statement godoc
// @Summary      Estado de cuenta
// @Tags         loans
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "ID del préstamo o anticipo"
// @Success      200  {object}  dto.StatementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/loans/{id} [get]
// @Router       /api/advances/{id} [get]
func (h *LoanHandler) Statement(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	st, err := h.uc.Statement(c.UserContext(), h.kind, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toStatementResponse(st))
}

// AppendMovement godoc
// @Summary      Registrar movimiento (abono, cargo, pago de interés)
// @Tags         loans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                        true  "ID del préstamo o anticipo"
// @Param        body  body  dto.AppendMovementRequest  true  "tipo, monto, fecha"
// @Success      201   {object}  dto.LoanMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/loans/{id}/movements [post]
// @Router       /api/advances/{id}/movements [post]
func (h *LoanHandler) AppendMovement(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.AppendMovementRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	res, err := h.uc.AppendMovement(c.UserContext(), loan.AppendInput{
		Kind:        h.kind,
		LoanID:      id,
		Type:        in.Type,
		Amount:      in.Amount,
		Date:        in.Date.Value(),
		Rate:        in.Rate,
		Days:        in.Days,
		Description: in.Description,
		UserID:      GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.respond(c, res))
}

// AccrueInterest godoc
// @Summary      Calcular y registrar interés
// @Description  interés = saldo × tasa × días / 3000, con días = fecha_calculo − fecha_inicio. Sin redondeo.
// @Tags         loans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                        true  "ID del préstamo o anticipo"
// @Param        body  body  dto.AccrueInterestRequest  true  "fechas, saldo y tasa opcionales"
// @Success      201   {object}  dto.InterestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/loans/{id}/interest [post]
// @Router       /api/advances/{id}/interest [post]
func (h *LoanHandler) AccrueInterest(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.AccrueInterestRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	res, err := h.uc.AccrueInterest(c.UserContext(), loan.AccrueInput{
		Kind:        h.kind,
		LoanID:      id,
		StartDate:   in.StartDate.Value(),
		CalcDate:    in.CalcDate.Value(),
		Balance:     in.Balance,
		MonthlyRate: in.MonthlyRate,
		Description: in.Description,
		UserID:      GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.InterestResponse{
		LoanMovementResponse: h.respond(c, &res.MovementResult),
		Interest:             res.Interest,
		Days:                 res.Days,
		Rate:                 res.Rate,
		Base:                 res.Base,
	})
}

// VoidMovement godoc
// @Summary      Anular movimiento
// @Description  El movimiento conserva su tipo original y deja de contar en el saldo.
// @Tags         loans
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "ID del movimiento"
// @Success      200  {object}  dto.LoanMovementResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/loan-movements/{id} [delete]
// @Router       /api/advance-movements/{id} [delete]
func (h *LoanHandler) VoidMovement(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.uc.VoidMovement(c.UserContext(), h.kind, id, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.respond(c, res))
}

func (h *LoanHandler) respond(c *fiber.Ctx, res *loan.MovementResult) dto.LoanMovementResponse {
	out := toLoanMovementResponse(res)
	out.Comprobante = comprobante(h.receipts.IssueLoanMovement(c.UserContext(), res))
	return out
}
