package http

import (
	"github.com/jhoicas/cafe-ledger-api/internal/application/contract"
	"github.com/jhoicas/cafe-ledger-api/internal/application/deposit"
	"github.com/jhoicas/cafe-ledger-api/internal/application/dto"
	"github.com/jhoicas/cafe-ledger-api/internal/application/loan"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/entity"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

func toLotDTO(l *entity.InventoryLot) dto.LotDTO {
	return dto.LotDTO{ID: l.ID, Reference: l.Reference, Quantity: l.Quantity, CreatedAt: l.CreatedAt, UpdatedAt: l.UpdatedAt}
}

func toInventoryMovementDTOs(list []*entity.InventoryMovement) []dto.InventoryMovementDTO {
	out := make([]dto.InventoryMovementDTO, 0, len(list))
	for _, m := range list {
		out = append(out, dto.InventoryMovementDTO{
			ID:            m.ID,
			TransactionID: m.TransactionID,
			LotID:         m.LotID,
			Direction:     m.Direction,
			Quantity:      m.Quantity,
			ReferenceType: m.ReferenceType,
			ReferenceID:   m.ReferenceID,
		})
	}
	return out
}

func toDeliveryDTO(d *entity.ContractDelivery) dto.DeliveryDTO {
	return dto.DeliveryDTO{
		ID:         d.ID,
		ContractID: d.ContractID,
		Quantity:   d.Quantity,
		UnitPrice:  d.UnitPrice,
		Total:      ledger.Total(d.Quantity, d.UnitPrice),
		Tag:        d.Tag,
		Notes:      d.Notes,
		Date:       d.Date,
	}
}

func toContractStateDTO(c *entity.Contract, delivered, remaining decimal.Decimal) dto.ContractStateDTO {
	return dto.ContractStateDTO{
		ID:             c.ID,
		ClientID:       c.ClientID,
		Product:        c.Product,
		TargetQuantity: c.TargetQuantity,
		Delivered:      delivered,
		Remaining:      remaining,
		Status:         c.Status,
	}
}

func toDeliveryResponse(res *contract.DeliveryResult) dto.DeliveryResponse {
	return dto.DeliveryResponse{
		Delivery:  toDeliveryDTO(res.Delivery),
		Contract:  toContractStateDTO(res.Contract, res.Delivered, res.Remaining),
		Movements: toInventoryMovementDTOs(res.Movements),
	}
}

func toPositionResponse(p *contract.Position) dto.PositionResponse {
	out := dto.PositionResponse{
		Contract:   toContractStateDTO(p.Contract, p.Delivered, p.Remaining),
		Amount:     p.Amount,
		Deliveries: make([]dto.DeliveryDTO, 0, len(p.Deliveries)),
	}
	for _, d := range p.Deliveries {
		dd := toDeliveryDTO(d)
		dd.Movements = toInventoryMovementDTOs(p.Movements[d.ID])
		out.Deliveries = append(out.Deliveries, dd)
	}
	return out
}

func toLoanDTO(l *entity.Loan) dto.LoanDTO {
	return dto.LoanDTO{
		ID:          l.ID,
		Kind:        l.Kind,
		ClientID:    l.ClientID,
		Principal:   l.Principal,
		MonthlyRate: l.MonthlyRate,
		State:       l.State,
		Date:        l.Date,
	}
}

func toLoanMovementDTO(m *entity.LoanMovement) dto.LoanMovementDTO {
	return dto.LoanMovementDTO{
		ID:           m.ID,
		LoanID:       m.LoanID,
		Type:         m.Type,
		OriginalType: m.OriginalType,
		Amount:       m.Amount,
		Days:         m.Days,
		Rate:         m.Rate,
		Date:         m.Date,
		Description:  m.Description,
	}
}

func toLoanMovementResponse(res *loan.MovementResult) dto.LoanMovementResponse {
	return dto.LoanMovementResponse{
		Loan:     toLoanDTO(res.Loan),
		Movement: toLoanMovementDTO(res.Movement),
		Balance:  res.Balance,
	}
}

func toStatementResponse(st *loan.Statement) dto.StatementResponse {
	out := dto.StatementResponse{
		Loan:      toLoanDTO(st.Loan),
		Balance:   st.Balance,
		Movements: make([]dto.LoanMovementDTO, 0, len(st.Movements)),
	}
	for _, m := range st.Movements {
		out.Movements = append(out.Movements, toLoanMovementDTO(m))
	}
	return out
}

func toDepositDTO(d *entity.Deposit) dto.DepositDTO {
	return dto.DepositDTO{ID: d.ID, ClientID: d.ClientID, Product: d.Product, Quantity: d.Quantity, Date: d.Date, Notes: d.Notes}
}

func toLiquidationDTOs(list []*entity.DepositLiquidation) []dto.LiquidationDTO {
	out := make([]dto.LiquidationDTO, 0, len(list))
	for _, l := range list {
		out = append(out, dto.LiquidationDTO{
			ID:        l.ID,
			DepositID: l.DepositID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Total:     ledger.Total(l.Quantity, l.UnitPrice),
			State:     l.State,
			Date:      l.Date,
			Notes:     l.Notes,
		})
	}
	return out
}

func toDepositBalanceResponse(b *deposit.Balance) dto.DepositBalanceResponse {
	return dto.DepositBalanceResponse{
		Deposit:      toDepositDTO(b.Deposit),
		Liquidated:   b.Liquidated,
		Remaining:    b.Remaining,
		Amount:       b.Amount,
		Liquidations: toLiquidationDTOs(b.Liquidations),
	}
}

// comprobante resume el resultado de la emisión para la respuesta.
func comprobante(url string, err error) *dto.ComprobanteDTO {
	if err != nil {
		return &dto.ComprobanteDTO{Error: err.Error()}
	}
	return &dto.ComprobanteDTO{URL: url}
}
