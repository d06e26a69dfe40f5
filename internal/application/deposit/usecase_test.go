package deposit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jhoicas/cafe-ledger-api/internal/application/deposit"
	"github.com/jhoicas/cafe-ledger-api/internal/domain"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/entity"
	"github.com/jhoicas/cafe-ledger-api/internal/infrastructure/memory"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup(t *testing.T, quantities ...string) (*deposit.LiquidationUseCase, *memory.Store, []*entity.Deposit) {
	t.Helper()
	store := memory.NewStore()
	uc := deposit.NewLiquidationUseCase(store, zerolog.Nop())
	var deps []*entity.Deposit
	for _, q := range quantities {
		dep, err := uc.Register(context.Background(), deposit.RegisterInput{ClientID: 5, Product: "pergamino", Quantity: d(q)})
		require.NoError(t, err)
		deps = append(deps, dep)
	}
	return uc, store, deps
}

func TestRegister_TruncaYValida(t *testing.T) {
	uc, _, deps := setup(t, "12.349")

	assert.True(t, deps[0].Quantity.Equal(d("12.34")))

	_, err := uc.Register(context.Background(), deposit.RegisterInput{ClientID: 5, Product: " ", Quantity: d("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Register(context.Background(), deposit.RegisterInput{ClientID: 5, Product: "oro", Quantity: d("0.001")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLiquidate_PorDepositoDescuentaSaldo(t *testing.T) {
	uc, _, deps := setup(t, "50")

	res, err := uc.Liquidate(context.Background(), deposit.LiquidateInput{
		DepositID: deps[0].ID, Quantity: d("20.555"), UnitPrice: d("1200"),
	})

	require.NoError(t, err)
	require.Len(t, res.Liquidations, 1)
	assert.True(t, res.Liquidations[0].Quantity.Equal(d("20.55")))
	assert.True(t, res.Remaining.Equal(d("29.45")))
}

func TestLiquidate_ExactamenteElSaldoSePermite(t *testing.T) {
	uc, _, deps := setup(t, "50")

	res, err := uc.Liquidate(context.Background(), deposit.LiquidateInput{DepositID: deps[0].ID, Quantity: d("50"), UnitPrice: d("1")})

	require.NoError(t, err)
	assert.True(t, res.Remaining.IsZero())
}

func TestLiquidate_MasQueElSaldoSeRechaza(t *testing.T) {
	uc, _, deps := setup(t, "50")
	_, err := uc.Liquidate(context.Background(), deposit.LiquidateInput{DepositID: deps[0].ID, Quantity: d("30"), UnitPrice: d("1")})
	require.NoError(t, err)

	_, err = uc.Liquidate(context.Background(), deposit.LiquidateInput{DepositID: deps[0].ID, Quantity: d("20.01"), UnitPrice: d("1")})

	var exceeds *domain.ExceedsRemainingError
	require.ErrorAs(t, err, &exceeds)
	assert.True(t, exceeds.Remaining.Equal(d("20")))
	bal, err := uc.Balance(context.Background(), deps[0].ID)
	require.NoError(t, err)
	assert.Len(t, bal.Liquidations, 1)
	assert.True(t, bal.Remaining.Equal(d("20")))
}

func TestLiquidate_DepositoInexistenteYValidaciones(t *testing.T) {
	uc, _, _ := setup(t, "50")

	_, err := uc.Liquidate(context.Background(), deposit.LiquidateInput{DepositID: 99, Quantity: d("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Liquidate(context.Background(), deposit.LiquidateInput{ClientID: 5, Product: "oro", Quantity: d("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Liquidate(context.Background(), deposit.LiquidateInput{Quantity: d("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Liquidate(context.Background(), deposit.LiquidateInput{DepositID: 1, Quantity: d("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLiquidate_PorClienteYProductoConsumePorIDAscendente(t *testing.T) {
	uc, _, deps := setup(t, "10", "25", "40")
	_, err := uc.Liquidate(context.Background(), deposit.LiquidateInput{DepositID: deps[0].ID, Quantity: d("4"), UnitPrice: d("1")})
	require.NoError(t, err)

	res, err := uc.Liquidate(context.Background(), deposit.LiquidateInput{
		ClientID: 5, Product: "pergamino", Quantity: d("20"), UnitPrice: d("1300"),
	})

	require.NoError(t, err)
	require.Len(t, res.Liquidations, 2)
	assert.Equal(t, deps[0].ID, res.Liquidations[0].DepositID)
	assert.True(t, res.Liquidations[0].Quantity.Equal(d("6")))
	assert.Equal(t, deps[1].ID, res.Liquidations[1].DepositID)
	assert.True(t, res.Liquidations[1].Quantity.Equal(d("14")))
	assert.True(t, res.Remaining.Equal(d("51")))

	_, err = uc.Liquidate(context.Background(), deposit.LiquidateInput{ClientID: 5, Product: "pergamino", Quantity: d("52")})
	var exceeds *domain.ExceedsRemainingError
	require.ErrorAs(t, err, &exceeds)
	assert.True(t, exceeds.Remaining.Equal(d("51")))
}

func TestVoidLiquidation_LiberaSaldo(t *testing.T) {
	uc, _, deps := setup(t, "50")
	res, err := uc.Liquidate(context.Background(), deposit.LiquidateInput{DepositID: deps[0].ID, Quantity: d("50"), UnitPrice: d("2")})
	require.NoError(t, err)

	bal, err := uc.VoidLiquidation(context.Background(), res.Liquidations[0].ID, "u-1")

	require.NoError(t, err)
	assert.True(t, bal.Remaining.Equal(d("50")))
	assert.True(t, bal.Amount.IsZero())
	require.Len(t, bal.Liquidations, 1)
	assert.Equal(t, entity.LiquidationStateVoided, bal.Liquidations[0].State)

	_, err = uc.VoidLiquidation(context.Background(), res.Liquidations[0].ID, "u-1")
	assert.ErrorIs(t, err, domain.ErrLiquidationVoided)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestDeleteDeposit_BloqueadoPorLiquidacionesVigentes(t *testing.T) {
	uc, _, deps := setup(t, "50")
	first, err := uc.Liquidate(context.Background(), deposit.LiquidateInput{DepositID: deps[0].ID, Quantity: d("5"), UnitPrice: d("1")})
	require.NoError(t, err)
	_, err = uc.Liquidate(context.Background(), deposit.LiquidateInput{DepositID: deps[0].ID, Quantity: d("5"), UnitPrice: d("1")})
	require.NoError(t, err)

	err = uc.DeleteDeposit(context.Background(), deps[0].ID, "u-1")

	var inUse *domain.DepositInUseError
	require.ErrorAs(t, err, &inUse)
	assert.Equal(t, deps[0].ID, inUse.DepositID)
	assert.Equal(t, 2, inUse.Liquidations)
	_, err = uc.Balance(context.Background(), deps[0].ID)
	require.NoError(t, err)

	_, err = uc.VoidLiquidation(context.Background(), first.Liquidations[0].ID, "u-1")
	require.NoError(t, err)
	err = uc.DeleteDeposit(context.Background(), deps[0].ID, "u-1")
	require.ErrorAs(t, err, &inUse)
	assert.Equal(t, 1, inUse.Liquidations)
}

func TestDeleteDeposit_SinLiquidacionesOConTodasAnuladas(t *testing.T) {
	uc, _, deps := setup(t, "50", "60")
	res, err := uc.Liquidate(context.Background(), deposit.LiquidateInput{DepositID: deps[1].ID, Quantity: d("5"), UnitPrice: d("1")})
	require.NoError(t, err)
	_, err = uc.VoidLiquidation(context.Background(), res.Liquidations[0].ID, "")
	require.NoError(t, err)

	require.NoError(t, uc.DeleteDeposit(context.Background(), deps[0].ID, ""))
	require.NoError(t, uc.DeleteDeposit(context.Background(), deps[1].ID, ""))

	_, err = uc.Balance(context.Background(), deps[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.DeleteDeposit(context.Background(), deps[0].ID, ""), domain.ErrNotFound)
}

func TestLiquidate_FallaDeEscrituraNoDejaLiquidaciones(t *testing.T) {
	uc, store, deps := setup(t, "10", "10")
	boom := errors.New("fallo")
	_, err := uc.Liquidate(context.Background(), deposit.LiquidateInput{DepositID: deps[0].ID, Quantity: d("1"), UnitPrice: d("1")})
	require.NoError(t, err)
	store.FailOnce("liquidations.create", boom)

	_, err = uc.Liquidate(context.Background(), deposit.LiquidateInput{ClientID: 5, Product: "pergamino", Quantity: d("15"), UnitPrice: d("1")})

	assert.ErrorIs(t, err, boom)
	for _, dep := range deps {
		bal, err := uc.Balance(context.Background(), dep.ID)
		require.NoError(t, err)
		assert.False(t, bal.Remaining.IsNegative())
	}
	bal, err := uc.Balance(context.Background(), deps[0].ID)
	require.NoError(t, err)
	assert.Len(t, bal.Liquidations, 1)
	assert.True(t, bal.Remaining.Equal(d("9")))
}

func TestDeleteDeposit_BorraSusLiquidacionesAnuladas(t *testing.T) {
	uc, _, deps := setup(t, "40")
	ctx := context.Background()
	res, err := uc.Liquidate(ctx, deposit.LiquidateInput{DepositID: deps[0].ID, Quantity: d("10"), UnitPrice: d("900")})
	require.NoError(t, err)
	liqID := res.Liquidations[0].ID
	_, err = uc.VoidLiquidation(ctx, liqID, "u-1")
	require.NoError(t, err)

	require.NoError(t, uc.DeleteDeposit(ctx, deps[0].ID, "u-1"))

	_, err = uc.VoidLiquidation(ctx, liqID, "u-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Balance(ctx, deps[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
