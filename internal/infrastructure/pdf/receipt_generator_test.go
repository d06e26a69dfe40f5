package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jhoicas/cafe-ledger-api/internal/application/receipt"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":         "0,00",
		"25000":     "25.000,00",
		"1234.5":    "1.234,50",
		"1000000.1": "1.000.000,10",
		"-3500":     "-3.500,00",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestRender_GeneraPDF(t *testing.T) {
	qty := decimal.RequireFromString("60")
	price := decimal.RequireFromString("1500")
	doc := &receipt.Document{
		Kind:     receipt.KindDelivery,
		Number:   12,
		Title:    "COMPROBANTE DE ENTREGA",
		Company:  "Café del Sur",
		IssuedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		Client:   &entity.Client{ID: 1, Name: "Finca La Esperanza", TaxID: "900123"},
		Lines:    []receipt.Line{{Concept: "Entrega contrato #1", Quantity: &qty, UnitPrice: &price, Amount: qty.Mul(price)}},
		Summary:  []receipt.Field{{Label: "Pendiente (QQ)", Value: "40.00"}, {Label: "Estado", Value: "Pendiente"}},
		Notes:    "primera entrega",
	}

	out, err := NewReceiptGenerator("https://cafe.example.com").Render(context.Background(), doc)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRender_SinClienteNiQR(t *testing.T) {
	doc := &receipt.Document{
		Kind:    receipt.KindLoan,
		Number:  3,
		Title:   "MOVIMIENTO DE PRÉSTAMO",
		Lines:   []receipt.Line{{Concept: "ABONO", Amount: decimal.RequireFromString("250")}},
		Summary: []receipt.Field{{Label: "Saldo", Value: "750.00"}},
	}

	out, err := NewReceiptGenerator("").Render(context.Background(), doc)

	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
