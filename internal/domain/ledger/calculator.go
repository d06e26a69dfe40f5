// Package ledger contiene las funciones puras de cálculo de saldos: truncamiento de
// cantidades, montos, interés por días y el pliegue de movimientos de préstamos/anticipos.
// Ninguna función lee la hora actual ni toca persistencia.
package ledger

import (
	"time"

	"github.com/jhoicas/cafe-ledger-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// QuantityPlaces decimales con los que se guardan y comparan las cantidades físicas (QQ).
const QuantityPlaces = 2

// Escalas de las columnas de préstamos: principal NUMERIC(18,2) y tasa NUMERIC(9,4).
const (
	MoneyPlaces = 2
	RatePlaces  = 4
)

// daysPerMonth base comercial para convertir tasa mensual en diaria.
const daysPerMonth = 30

// monthlyDivisor = 100 (porcentaje) × 30 (días por mes)
var monthlyDivisor = decimal.NewFromInt(100 * daysPerMonth)

// Truncate2 trunca hacia cero a 2 decimales, sin redondear (1.2399 → 1.23, −1.239 → −1.23).
func Truncate2(x decimal.Decimal) decimal.Decimal {
	return x.Truncate(QuantityPlaces)
}

// Total monto = cantidad truncada × precio. No se redondea: el formato a 2 decimales es de presentación.
func Total(quantity, price decimal.Decimal) decimal.Decimal {
	return Truncate2(quantity).Mul(price)
}

// ExceedsPlaces indica si x tiene más decimales significativos que places ("2.5000" no excede 2).
func ExceedsPlaces(x decimal.Decimal, places int32) bool {
	return !x.Truncate(places).Equal(x)
}

// MinDecimal devuelve el menor de a y b.
func MinDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// DaysBetween días calendario completos entre start y calc, nunca negativo.
// Cada fecha se reduce a su día calendario en su propia zona horaria.
func DaysBetween(start, calc time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	c := time.Date(calc.Year(), calc.Month(), calc.Day(), 0, 0, 0, 0, time.UTC)
	days := int(c.Sub(s).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// DailyRate tasa diaria (fracción) a partir de la tasa mensual en porcentaje: pct / 100 / 30.
func DailyRate(monthlyRatePercent decimal.Decimal) decimal.Decimal {
	return monthlyRatePercent.Div(monthlyDivisor)
}

// Interest interés simple = saldo × (tasa/100/30) × días.
// Se calcula con una única división para no arrastrar el redondeo de la tasa diaria.
func Interest(balance, monthlyRatePercent decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 || !balance.IsPositive() || !monthlyRatePercent.IsPositive() {
		return decimal.Zero
	}
	return balance.Mul(monthlyRatePercent).Mul(decimal.NewFromInt(int64(days))).Div(monthlyDivisor)
}

// FulfillmentStatus estado derivado de un contrato según lo entregado.
func FulfillmentStatus(delivered, target decimal.Decimal) string {
	if Truncate2(delivered).GreaterThanOrEqual(Truncate2(target)) {
		return entity.ContractStatusSettled
	}
	return entity.ContractStatusPending
}

// SumActiveDeliveries suma las cantidades de las entregas no anuladas.
func SumActiveDeliveries(deliveries []*entity.ContractDelivery) decimal.Decimal {
	sum := decimal.Zero
	for _, d := range deliveries {
		if d.Active() {
			sum = sum.Add(d.Quantity)
		}
	}
	return Truncate2(sum)
}

// SumActiveLiquidations suma las cantidades de las liquidaciones no anuladas.
func SumActiveLiquidations(liquidations []*entity.DepositLiquidation) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range liquidations {
		if l.Active() {
			sum = sum.Add(l.Quantity)
		}
	}
	return Truncate2(sum)
}

// DepositRemaining saldo de un depósito = cantidad depositada − Σ liquidaciones vigentes.
func DepositRemaining(deposit *entity.Deposit, liquidations []*entity.DepositLiquidation) decimal.Decimal {
	return Truncate2(deposit.Quantity).Sub(SumActiveLiquidations(liquidations))
}
