package deposit

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/cafe-ledger-api/internal/domain"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/entity"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/ledger"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// LiquidationUseCase libro de depósitos: registra depósitos, liquida contra su saldo y
// protege el borrado mientras existan liquidaciones vigentes.
type LiquidationUseCase struct {
	txRunner TxRunner
	log      zerolog.Logger
	now      func() time.Time
}

// NewLiquidationUseCase construye el libro de depósitos.
func NewLiquidationUseCase(txRunner TxRunner, log zerolog.Logger) *LiquidationUseCase {
	return &LiquidationUseCase{txRunner: txRunner, log: log, now: time.Now}
}

// RegisterInput alta de depósito.
type RegisterInput struct {
	ClientID int64
	Product  string
	Quantity decimal.Decimal
	Date     time.Time
	Notes    string
}

// LiquidateInput liquidación por depósito (DepositID) o por cliente y producto.
type LiquidateInput struct {
	DepositID int64
	ClientID  int64
	Product   string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Date      time.Time
	Notes     string
	UserID    string
}

// LiquidationResult liquidaciones escritas (una por depósito tocado) y saldo restante del alcance.
type LiquidationResult struct {
	Liquidations []*entity.DepositLiquidation
	Remaining    decimal.Decimal
}

// Balance estado de un depósito calculado al leer.
type Balance struct {
	Deposit      *entity.Deposit
	Liquidations []*entity.DepositLiquidation
	Liquidated   decimal.Decimal
	Remaining    decimal.Decimal
	Amount       decimal.Decimal // Σ cantidad × precio de las liquidaciones vigentes
}

// Register crea un depósito con la cantidad truncada.
func (uc *LiquidationUseCase) Register(ctx context.Context, in RegisterInput) (*entity.Deposit, error) {
	qty := ledger.Truncate2(in.Quantity)
	product := strings.TrimSpace(in.Product)
	if in.ClientID <= 0 {
		return nil, domain.Invalid("cliente_id", "requerido")
	}
	if product == "" {
		return nil, domain.Invalid("producto", "requerido")
	}
	if !qty.IsPositive() {
		return nil, domain.Invalid("cantidad", "debe ser mayor que cero")
	}
	now := uc.now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	dep := &entity.Deposit{
		ClientID:  in.ClientID,
		Product:   product,
		Quantity:  qty,
		Date:      date,
		Notes:     in.Notes,
		CreatedAt: now,
	}
	err := uc.txRunner.RunDeposit(ctx, func(deposits repository.DepositRepository, _ repository.DepositLiquidationRepository) error {
		return deposits.Create(ctx, dep)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("deposit_id", dep.ID).Int64("client_id", dep.ClientID).Str("qty", qty.String()).Msg("depósito registrado")
	return dep, nil
}

// Liquidate consume cantidad del saldo. Con DepositID liquida ese depósito; sin él, agrega el saldo de
// los depósitos del cliente y producto y los consume por id ascendente, una liquidación por depósito.
// Exige 0 < cantidad ≤ saldo; si no, *domain.ExceedsRemainingError y nada se escribe.
func (uc *LiquidationUseCase) Liquidate(ctx context.Context, in LiquidateInput) (*LiquidationResult, error) {
	qty := ledger.Truncate2(in.Quantity)
	product := strings.TrimSpace(in.Product)
	if in.DepositID <= 0 && (in.ClientID <= 0 || product == "") {
		return nil, domain.Invalid("deposito_id", "se requiere el depósito o el cliente y producto")
	}
	if !qty.IsPositive() {
		return nil, domain.Invalid("cantidad", "debe ser mayor que cero")
	}
	if in.UnitPrice.IsNegative() {
		return nil, domain.Invalid("precio", "no puede ser negativo")
	}
	now := uc.now()
	date := in.Date
	if date.IsZero() {
		date = now
	}

	var res *LiquidationResult
	err := uc.txRunner.RunDeposit(ctx, func(deposits repository.DepositRepository, liquidations repository.DepositLiquidationRepository) error {
		scope, err := uc.lockScope(ctx, deposits, in.DepositID, in.ClientID, product)
		if err != nil {
			return err
		}
		remaining := make([]decimal.Decimal, len(scope))
		available := decimal.Zero
		for i, dep := range scope {
			list, err := liquidations.ListByDeposit(ctx, dep.ID)
			if err != nil {
				return err
			}
			remaining[i] = ledger.DepositRemaining(dep, list)
			available = available.Add(remaining[i])
		}
		if qty.GreaterThan(available) {
			return &domain.ExceedsRemainingError{Requested: qty, Remaining: available}
		}

		res = &LiquidationResult{}
		pending := qty
		for i, dep := range scope {
			if !pending.IsPositive() {
				break
			}
			if !remaining[i].IsPositive() {
				continue
			}
			take := ledger.MinDecimal(pending, remaining[i])
			liq := &entity.DepositLiquidation{
				DepositID: dep.ID,
				ClientID:  dep.ClientID,
				Product:   dep.Product,
				Quantity:  take,
				UnitPrice: in.UnitPrice,
				State:     entity.LiquidationStateActive,
				Notes:     in.Notes,
				Date:      date,
				CreatedAt: now,
				CreatedBy: in.UserID,
			}
			if err := liquidations.Create(ctx, liq); err != nil {
				return err
			}
			res.Liquidations = append(res.Liquidations, liq)
			pending = pending.Sub(take)
		}
		res.Remaining = available.Sub(qty)
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Int64("deposit_id", in.DepositID).Int64("client_id", in.ClientID).Msg("liquidación rechazada")
		return nil, err
	}
	uc.log.Info().
		Int64("deposit_id", in.DepositID).
		Int64("client_id", in.ClientID).
		Int("records", len(res.Liquidations)).
		Str("qty", qty.String()).
		Str("remaining", res.Remaining.String()).
		Msg("depósito liquidado")
	return res, nil
}

// VoidLiquidation anula una liquidación; deja de consumir saldo y de bloquear el borrado del depósito.
func (uc *LiquidationUseCase) VoidLiquidation(ctx context.Context, liquidationID int64, userID string) (*Balance, error) {
	if liquidationID <= 0 {
		return nil, domain.Invalid("liquidacion_id", "requerido")
	}
	var bal *Balance
	err := uc.txRunner.RunDeposit(ctx, func(deposits repository.DepositRepository, liquidations repository.DepositLiquidationRepository) error {
		liq, err := liquidations.GetForUpdate(ctx, liquidationID)
		if err != nil {
			return err
		}
		if liq == nil {
			return domain.ErrNotFound
		}
		if !liq.Active() {
			return domain.ErrLiquidationVoided
		}
		dep, err := deposits.GetForUpdate(ctx, liq.DepositID)
		if err != nil {
			return err
		}
		if dep == nil {
			return domain.ErrNotFound
		}
		if err := liquidations.UpdateState(ctx, liq.ID, entity.LiquidationStateVoided); err != nil {
			return err
		}
		bal, err = balance(ctx, liquidations, dep)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Int64("liquidation_id", liquidationID).
		Int64("deposit_id", bal.Deposit.ID).
		Str("user_id", userID).
		Str("remaining", bal.Remaining.String()).
		Msg("liquidación anulada")
	return bal, nil
}

// DeleteDeposit borra el depósito solo si ninguna liquidación vigente lo referencia.
func (uc *LiquidationUseCase) DeleteDeposit(ctx context.Context, depositID int64, userID string) error {
	if depositID <= 0 {
		return domain.Invalid("deposito_id", "requerido")
	}
	err := uc.txRunner.RunDeposit(ctx, func(deposits repository.DepositRepository, liquidations repository.DepositLiquidationRepository) error {
		dep, err := deposits.GetForUpdate(ctx, depositID)
		if err != nil {
			return err
		}
		if dep == nil {
			return domain.ErrNotFound
		}
		list, err := liquidations.ListByDeposit(ctx, dep.ID)
		if err != nil {
			return err
		}
		active := 0
		for _, l := range list {
			if l.Active() {
				active++
			}
		}
		if active > 0 {
			return &domain.DepositInUseError{DepositID: dep.ID, Liquidations: active}
		}
		return deposits.Delete(ctx, dep.ID)
	})
	if err != nil {
		uc.log.Warn().Err(err).Int64("deposit_id", depositID).Msg("borrado de depósito rechazado")
		return err
	}
	uc.log.Info().Int64("deposit_id", depositID).Str("user_id", userID).Msg("depósito eliminado")
	return nil
}

// Balance saldo de un depósito con sus liquidaciones (incluidas las anuladas).
func (uc *LiquidationUseCase) Balance(ctx context.Context, depositID int64) (*Balance, error) {
	var bal *Balance
	err := uc.txRunner.RunDeposit(ctx, func(deposits repository.DepositRepository, liquidations repository.DepositLiquidationRepository) error {
		dep, err := deposits.GetByID(ctx, depositID)
		if err != nil {
			return err
		}
		if dep == nil {
			return domain.ErrNotFound
		}
		bal, err = balance(ctx, liquidations, dep)
		return err
	})
	if err != nil {
		return nil, err
	}
	return bal, nil
}

// lockScope bloquea el depósito indicado o todos los del cliente y producto.
func (uc *LiquidationUseCase) lockScope(
	ctx context.Context,
	deposits repository.DepositRepository,
	depositID, clientID int64,
	product string,
) ([]*entity.Deposit, error) {
	if depositID > 0 {
		dep, err := deposits.GetForUpdate(ctx, depositID)
		if err != nil {
			return nil, err
		}
		if dep == nil {
			return nil, domain.ErrNotFound
		}
		return []*entity.Deposit{dep}, nil
	}
	list, err := deposits.ListByClientProductForUpdate(ctx, clientID, product)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.ErrNotFound
	}
	return list, nil
}

func balance(ctx context.Context, liquidations repository.DepositLiquidationRepository, dep *entity.Deposit) (*Balance, error) {
	list, err := liquidations.ListByDeposit(ctx, dep.ID)
	if err != nil {
		return nil, err
	}
	amount := decimal.Zero
	for _, l := range list {
		if l.Active() {
			amount = amount.Add(ledger.Total(l.Quantity, l.UnitPrice))
		}
	}
	return &Balance{
		Deposit:      dep,
		Liquidations: list,
		Liquidated:   ledger.SumActiveLiquidations(list),
		Remaining:    ledger.DepositRemaining(dep, list),
		Amount:       amount,
	}, nil
}
