package memory

import "github.com/jhoicas/cafe-ledger-api/internal/domain/entity"

func copyContract(c *entity.Contract) *entity.Contract {
	cp := *c
	return &cp
}

func copyDelivery(d *entity.ContractDelivery) *entity.ContractDelivery {
	cp := *d
	return &cp
}

func copyLot(l *entity.InventoryLot) *entity.InventoryLot {
	cp := *l
	return &cp
}

func copyMovement(m *entity.InventoryMovement) *entity.InventoryMovement {
	cp := *m
	return &cp
}

func copyLoan(l *entity.Loan) *entity.Loan {
	cp := *l
	return &cp
}

func copyLoanMovement(m *entity.LoanMovement) *entity.LoanMovement {
	cp := *m
	if m.Days != nil {
		days := *m.Days
		cp.Days = &days
	}
	if m.Rate != nil {
		rate := *m.Rate
		cp.Rate = &rate
	}
	return &cp
}

func copyDeposit(d *entity.Deposit) *entity.Deposit {
	cp := *d
	return &cp
}

func copyLiquidation(l *entity.DepositLiquidation) *entity.DepositLiquidation {
	cp := *l
	return &cp
}
