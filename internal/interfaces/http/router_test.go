package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafe-ledger-api/internal/application/contract"
	"github.com/jhoicas/cafe-ledger-api/internal/application/deposit"
	"github.com/jhoicas/cafe-ledger-api/internal/application/inventory"
	"github.com/jhoicas/cafe-ledger-api/internal/application/loan"
	"github.com/jhoicas/cafe-ledger-api/internal/application/receipt"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/entity"
	"github.com/jhoicas/cafe-ledger-api/internal/infrastructure/memory"
	"github.com/jhoicas/cafe-ledger-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/cafe-ledger-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/cafe-ledger-api/pkg/jwt"
)

type failingRenderer struct{}

func (failingRenderer) Render(context.Context, *receipt.Document) ([]byte, error) {
	return nil, errors.New("fuente no disponible")
}

type api struct {
	t     *testing.T
	app   *fiber.App
	store *memory.Store
}

func newAPI(t *testing.T, renderer receipt.Renderer) *api {
	t.Helper()
	store := memory.NewStore()
	store.AddClient(&entity.Client{ID: 7, Name: "Finca La Esperanza", TaxID: "0801-1990-00001"})
	log := zerolog.Nop()
	if renderer == nil {
		renderer = pdf.NewReceiptGenerator("")
	}
	receipts := receipt.NewService(renderer, memory.NewReceiptStore(), store.Clients(), "Beneficio de Café", time.Hour, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		LotIntake:      inventory.NewLotIntakeUseCase(store, log),
		Fulfillment:    contract.NewFulfillmentUseCase(store, inventory.NewGlobalPool(nil), log),
		Loans:          loan.NewLedgerUseCase(store, log),
		Deposits:       deposit.NewLiquidationUseCase(store, log),
		Receipts:       receipts,
		Idempotency:    memory.NewIdempotencyStore(),
		IdempotencyTTL: time.Hour,
		JWTSecret:      testJWTSecret,
		JWTIssuer:      testIssuer,
		ServiceName:    "cafe-ledger-test",
		Log:            log,
	})
	return &api{t: t, app: app, store: store}
}

type reply struct {
	status int
	header http.Header
	raw    []byte
}

func (r reply) json(t *testing.T) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(r.raw, &body), string(r.raw))
	return body
}

func (a *api) call(method, path, role string, body interface{}, headers ...string) reply {
	a.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(a.t, role))
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return reply{status: resp.StatusCode, header: resp.Header, raw: raw}
}

func dec(t *testing.T, v interface{}) decimal.Decimal {
	t.Helper()
	s, ok := v.(string)
	require.True(t, ok, "se esperaba decimal como string, llegó %v", v)
	return decimal.RequireFromString(s)
}

func (a *api) seedLot(qty string) {
	a.t.Helper()
	r := a.call(http.MethodPost, "/api/inventory/lots", pkgjwt.RoleOperator, map[string]string{"referencia": "compra", "cantidad": qty})
	require.Equal(a.t, http.StatusCreated, r.status, string(r.raw))
}

func (a *api) seedContract(target string) int64 {
	return a.store.AddContract(&entity.Contract{ClientID: 7, Product: "pergamino", TargetQuantity: decimal.RequireFromString(target)}).ID
}

// ──────────────────────────────────────────────────────────────────────────────

func TestHealth_RespondeOK(t *testing.T) {
	a := newAPI(t, nil)
	r := a.call(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "ok", r.json(t)["status"])
}

func TestAPI_SinToken_Retorna401(t *testing.T) {
	a := newAPI(t, nil)
	r := a.call(http.MethodGet, "/api/inventory/lots", "", nil)
	assert.Equal(t, http.StatusUnauthorized, r.status)
}

func TestCreateDelivery_HTTP_DescuentaPoolYEmiteComprobante(t *testing.T) {
	a := newAPI(t, nil)
	a.seedLot("200")
	id := a.seedContract("100")

	r := a.call(http.MethodPost, "/api/contracts/1/deliveries", pkgjwt.RoleOperator,
		map[string]string{"cantidad": "60", "precio": "1500"})
	require.Equal(t, http.StatusCreated, r.status, string(r.raw))
	require.Equal(t, int64(1), id)

	body := r.json(t)
	c := body["contrato"].(map[string]interface{})
	assert.Equal(t, entity.ContractStatusPending, c["estado"])
	assert.True(t, dec(t, c["pendiente"]).Equal(decimal.NewFromInt(40)))

	ent := body["entrega"].(map[string]interface{})
	assert.True(t, dec(t, ent["total"]).Equal(decimal.NewFromInt(90000)))

	comp := body["comprobante"].(map[string]interface{})
	url, _ := comp["url"].(string)
	require.NotEmpty(t, url)

	pool := a.call(http.MethodGet, "/api/inventory/lots", pkgjwt.RoleViewer, nil).json(t)
	assert.True(t, dec(t, pool["total"]).Equal(decimal.NewFromInt(140)))

	pdfResp := a.call(http.MethodGet, url, pkgjwt.RoleViewer, nil)
	assert.Equal(t, http.StatusOK, pdfResp.status)
	assert.Equal(t, "application/pdf", pdfResp.header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(pdfResp.raw, []byte("%PDF")))
}

func TestCreateDelivery_HTTP_InventarioInsuficienteInformaFaltante(t *testing.T) {
	a := newAPI(t, nil)
	a.seedLot("30")
	a.seedContract("100")

	r := a.call(http.MethodPost, "/api/contracts/1/deliveries", pkgjwt.RoleOperator,
		map[string]string{"cantidad": "50", "precio": "1500"})
	require.Equal(t, http.StatusBadRequest, r.status)

	body := r.json(t)
	assert.Equal(t, "INSUFFICIENT_INVENTORY", body["code"])
	assert.True(t, dec(t, body["shortfall"]).Equal(decimal.NewFromInt(20)))
	assert.True(t, dec(t, body["available"]).Equal(decimal.NewFromInt(30)))
	assert.True(t, a.store.Lots()[0].Quantity.Equal(decimal.NewFromInt(30)))
}

func TestCreateDelivery_HTTP_CantidadCeroEsValidacion(t *testing.T) {
	a := newAPI(t, nil)
	a.seedLot("100")
	a.seedContract("100")

	r := a.call(http.MethodPost, "/api/contracts/1/deliveries", pkgjwt.RoleOperator,
		map[string]string{"cantidad": "0", "precio": "1500"})
	require.Equal(t, http.StatusBadRequest, r.status)

	body := r.json(t)
	assert.Equal(t, "VALIDATION", body["code"])
	fields := body["fields"].(map[string]interface{})
	assert.Contains(t, fields, "cantidad")
}

func TestCreateDelivery_HTTP_ContratoAnuladoRetorna403(t *testing.T) {
	a := newAPI(t, nil)
	a.seedLot("100")
	id := a.seedContract("100")
	a.store.SetContractStatus(id, entity.ContractStatusVoided)

	r := a.call(http.MethodPost, "/api/contracts/1/deliveries", pkgjwt.RoleOperator,
		map[string]string{"cantidad": "10", "precio": "1500"})
	assert.Equal(t, http.StatusForbidden, r.status)
	assert.Equal(t, "FORBIDDEN", r.json(t)["code"])
}

func TestCreateDelivery_HTTP_ContratoInexistenteRetorna404(t *testing.T) {
	a := newAPI(t, nil)
	a.seedLot("100")

	r := a.call(http.MethodPost, "/api/contracts/99/deliveries", pkgjwt.RoleOperator,
		map[string]string{"cantidad": "10", "precio": "1500"})
	assert.Equal(t, http.StatusNotFound, r.status)
}

func TestCreateDelivery_HTTP_RolConsultaNoPuedeEscribir(t *testing.T) {
	a := newAPI(t, nil)
	a.seedLot("100")
	a.seedContract("100")

	r := a.call(http.MethodPost, "/api/contracts/1/deliveries", pkgjwt.RoleViewer,
		map[string]string{"cantidad": "10", "precio": "1500"})
	assert.Equal(t, http.StatusForbidden, r.status)
}

func TestCreateDelivery_HTTP_FalloDeComprobanteNoRevierteEntrega(t *testing.T) {
	a := newAPI(t, failingRenderer{})
	a.seedLot("100")
	a.seedContract("100")

	r := a.call(http.MethodPost, "/api/contracts/1/deliveries", pkgjwt.RoleOperator,
		map[string]string{"cantidad": "10", "precio": "1500"})
	require.Equal(t, http.StatusCreated, r.status)

	comp := r.json(t)["comprobante"].(map[string]interface{})
	assert.NotEmpty(t, comp["error"])
	assert.Nil(t, comp["url"])
	require.NotNil(t, a.store.Delivery(1))
	assert.True(t, a.store.Lots()[0].Quantity.Equal(decimal.NewFromInt(90)))
}

func TestVoidDelivery_HTTP_SoloAdminYReintegraAlPool(t *testing.T) {
	a := newAPI(t, nil)
	a.seedLot("100")
	a.seedContract("100")
	require.Equal(t, http.StatusCreated, a.call(http.MethodPost, "/api/contracts/1/deliveries", pkgjwt.RoleOperator,
		map[string]string{"cantidad": "40", "precio": "1500"}).status)

	r := a.call(http.MethodDelete, "/api/deliveries/1", pkgjwt.RoleOperator, nil)
	assert.Equal(t, http.StatusForbidden, r.status)

	r = a.call(http.MethodDelete, "/api/deliveries/1", pkgjwt.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, r.status, string(r.raw))
	assert.Equal(t, entity.DeliveryTagVoided, r.json(t)["entrega"].(map[string]interface{})["movimiento"])
	assert.True(t, a.store.Lots()[0].Quantity.Equal(decimal.NewFromInt(100)))

	r = a.call(http.MethodDelete, "/api/deliveries/1", pkgjwt.RoleAdmin, nil)
	assert.Equal(t, http.StatusConflict, r.status)
}

func TestEditDelivery_HTTP_DeltaNegativoReintegra(t *testing.T) {
	a := newAPI(t, nil)
	a.seedLot("100")
	a.seedContract("100")
	require.Equal(t, http.StatusCreated, a.call(http.MethodPost, "/api/contracts/1/deliveries", pkgjwt.RoleOperator,
		map[string]string{"cantidad": "50", "precio": "1500"}).status)

	r := a.call(http.MethodPut, "/api/deliveries/1", pkgjwt.RoleOperator, map[string]string{"cantidad": "30"})
	require.Equal(t, http.StatusOK, r.status, string(r.raw))
	assert.True(t, a.store.Lots()[0].Quantity.Equal(decimal.NewFromInt(70)))

	pos := a.call(http.MethodGet, "/api/contracts/1", pkgjwt.RoleViewer, nil).json(t)
	c := pos["contrato"].(map[string]interface{})
	assert.True(t, dec(t, c["entregado"]).Equal(decimal.NewFromInt(30)))
	assert.True(t, dec(t, pos["monto"]).Equal(decimal.NewFromInt(45000)))
}

func TestIdempotency_HTTP_ReenvioNoDuplicaEntrega(t *testing.T) {
	a := newAPI(t, nil)
	a.seedLot("200")
	a.seedContract("100")
	body := map[string]string{"cantidad": "60", "precio": "1500"}

	first := a.call(http.MethodPost, "/api/contracts/1/deliveries", pkgjwt.RoleOperator, body, "Idempotency-Key", "entrega-001")
	require.Equal(t, http.StatusCreated, first.status)

	second := a.call(http.MethodPost, "/api/contracts/1/deliveries", pkgjwt.RoleOperator, body, "Idempotency-Key", "entrega-001")
	assert.Equal(t, http.StatusCreated, second.status)
	assert.Equal(t, "true", second.header.Get(apphttp.HeaderIdempotentReplay))
	assert.JSONEq(t, string(first.raw), string(second.raw))
	assert.True(t, a.store.Lots()[0].Quantity.Equal(decimal.NewFromInt(140)), "el pool se descuenta una sola vez")

	other := a.call(http.MethodPost, "/api/contracts/1/deliveries", pkgjwt.RoleOperator,
		map[string]string{"cantidad": "10", "precio": "1500"}, "Idempotency-Key", "entrega-001")
	assert.Equal(t, http.StatusConflict, other.status)
	assert.Equal(t, "IDEMPOTENCY_MISMATCH", other.json(t)["code"])
}

func TestLoan_HTTP_AbrirYCalcularInteres(t *testing.T) {
	a := newAPI(t, nil)

	r := a.call(http.MethodPost, "/api/loans", pkgjwt.RoleOperator,
		map[string]interface{}{"cliente_id": 7, "monto": "1000", "tasa_mensual": "3", "fecha": "2024-01-01"})
	require.Equal(t, http.StatusCreated, r.status, string(r.raw))
	loanID := r.json(t)["prestamo"].(map[string]interface{})["id"]
	assert.EqualValues(t, 1, loanID)

	r = a.call(http.MethodPost, "/api/loans/1/interest", pkgjwt.RoleOperator,
		map[string]string{"fecha_inicio": "2024-01-01", "fecha_calculo": "2024-01-31"})
	require.Equal(t, http.StatusCreated, r.status, string(r.raw))
	body := r.json(t)
	assert.True(t, dec(t, body["interes"]).Equal(decimal.NewFromInt(30)))
	assert.EqualValues(t, 30, body["dias"])
	assert.Equal(t, entity.LoanMovementInterestCharge, body["movimiento"].(map[string]interface{})["tipo"])

	st := a.call(http.MethodGet, "/api/loans/1", pkgjwt.RoleViewer, nil).json(t)
	saldo := st["saldo"].(map[string]interface{})
	assert.True(t, dec(t, saldo["saldo"]).Equal(decimal.NewFromInt(1030)))

	// El anticipo 1 no existe aunque el préstamo 1 sí: libros separados.
	assert.Equal(t, http.StatusNotFound, a.call(http.MethodGet, "/api/advances/1", pkgjwt.RoleViewer, nil).status)
}

func TestLoan_HTTP_AnularMovimientoExcluyeDelSaldo(t *testing.T) {
	a := newAPI(t, nil)
	require.Equal(t, http.StatusCreated, a.call(http.MethodPost, "/api/advances", pkgjwt.RoleOperator,
		map[string]interface{}{"cliente_id": 7, "monto": "500", "tasa_mensual": "2"}).status)
	r := a.call(http.MethodPost, "/api/advances/1/movements", pkgjwt.RoleOperator,
		map[string]string{"tipo": entity.LoanMovementPayment, "monto": "200"})
	require.Equal(t, http.StatusCreated, r.status, string(r.raw))

	r = a.call(http.MethodDelete, "/api/advance-movements/2", pkgjwt.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, r.status, string(r.raw))
	body := r.json(t)
	mov := body["movimiento"].(map[string]interface{})
	assert.Equal(t, entity.LoanMovementVoided, mov["tipo"])
	assert.Equal(t, entity.LoanMovementPayment, mov["tipo_original"])
	assert.True(t, dec(t, body["saldo"].(map[string]interface{})["saldo"]).Equal(decimal.NewFromInt(500)))
}

func TestLoan_HTTP_FechaInvalidaEsCuerpoInvalido(t *testing.T) {
	a := newAPI(t, nil)
	r := a.call(http.MethodPost, "/api/loans", pkgjwt.RoleOperator,
		map[string]interface{}{"cliente_id": 7, "monto": "1000", "fecha": "31/01/2024"})
	assert.Equal(t, http.StatusBadRequest, r.status)
	assert.Equal(t, "INVALID_BODY", r.json(t)["code"])
}

func TestDeposit_HTTP_EliminarConLiquidacionesRedirige(t *testing.T) {
	a := newAPI(t, nil)
	r := a.call(http.MethodPost, "/api/deposits", pkgjwt.RoleOperator,
		map[string]interface{}{"cliente_id": 7, "producto": "pergamino", "cantidad": "100"})
	require.Equal(t, http.StatusCreated, r.status, string(r.raw))

	r = a.call(http.MethodPost, "/api/deposits/1/liquidations", pkgjwt.RoleOperator,
		map[string]string{"cantidad": "40", "precio": "1200"})
	require.Equal(t, http.StatusCreated, r.status, string(r.raw))
	assert.True(t, dec(t, r.json(t)["saldo_restante"]).Equal(decimal.NewFromInt(60)))

	r = a.call(http.MethodDelete, "/api/deposits/1", pkgjwt.RoleAdmin, nil)
	require.Equal(t, http.StatusConflict, r.status)
	body := r.json(t)
	assert.Equal(t, "DEPOSIT_IN_USE", body["code"])
	assert.Equal(t, "/api/deposits/1/liquidations", body["redirect"])

	require.Equal(t, http.StatusOK, a.call(http.MethodDelete, "/api/liquidations/1", pkgjwt.RoleAdmin, nil).status)
	assert.Equal(t, http.StatusNoContent, a.call(http.MethodDelete, "/api/deposits/1", pkgjwt.RoleAdmin, nil).status)
	assert.Equal(t, http.StatusNotFound, a.call(http.MethodGet, "/api/deposits/1/liquidations", pkgjwt.RoleViewer, nil).status)
}

func TestDeposit_HTTP_ExcedeSaldoInformaRestante(t *testing.T) {
	a := newAPI(t, nil)
	require.Equal(t, http.StatusCreated, a.call(http.MethodPost, "/api/deposits", pkgjwt.RoleOperator,
		map[string]interface{}{"cliente_id": 7, "producto": "pergamino", "cantidad": "50"}).status)

	r := a.call(http.MethodPost, "/api/deposits/1/liquidations", pkgjwt.RoleOperator,
		map[string]string{"cantidad": "60", "precio": "1200"})
	require.Equal(t, http.StatusBadRequest, r.status)
	body := r.json(t)
	assert.Equal(t, "EXCEEDS_REMAINING", body["code"])
	assert.True(t, dec(t, body["remaining"]).Equal(decimal.NewFromInt(50)))
}

func TestDeposit_HTTP_LiquidarPorClienteConsumeEnOrden(t *testing.T) {
	a := newAPI(t, nil)
	for _, q := range []string{"30", "50"} {
		require.Equal(t, http.StatusCreated, a.call(http.MethodPost, "/api/deposits", pkgjwt.RoleOperator,
			map[string]interface{}{"cliente_id": 7, "producto": "pergamino", "cantidad": q}).status)
	}

	r := a.call(http.MethodPost, "/api/liquidations", pkgjwt.RoleOperator,
		map[string]interface{}{"cliente_id": 7, "producto": "pergamino", "cantidad": "45", "precio": "1000"})
	require.Equal(t, http.StatusCreated, r.status, string(r.raw))

	body := r.json(t)
	liqs := body["liquidaciones"].([]interface{})
	require.Len(t, liqs, 2)
	first, second := liqs[0].(map[string]interface{}), liqs[1].(map[string]interface{})
	assert.EqualValues(t, 1, first["deposito_id"])
	assert.True(t, dec(t, first["cantidad"]).Equal(decimal.NewFromInt(30)))
	assert.EqualValues(t, 2, second["deposito_id"])
	assert.True(t, dec(t, second["cantidad"]).Equal(decimal.NewFromInt(15)))
	assert.True(t, dec(t, body["saldo_restante"]).Equal(decimal.NewFromInt(35)))
}

func TestReceipt_HTTP_TipoDesconocidoYNoEmitido(t *testing.T) {
	a := newAPI(t, nil)
	assert.Equal(t, http.StatusBadRequest, a.call(http.MethodGet, "/api/comprobantes/factura/1", pkgjwt.RoleViewer, nil).status)
	assert.Equal(t, http.StatusNotFound, a.call(http.MethodGet, "/api/comprobantes/entrega/1", pkgjwt.RoleViewer, nil).status)
}

func TestInventory_HTTP_BitacoraDelLoteCuadraConExistencia(t *testing.T) {
	a := newAPI(t, nil)
	a.seedLot("30")
	a.seedLot("50")
	a.seedContract("100")
	require.Equal(t, http.StatusCreated, a.call(http.MethodPost, "/api/contracts/1/deliveries", pkgjwt.RoleOperator,
		map[string]string{"cantidad": "45", "precio": "1000"}).status)
	require.Equal(t, http.StatusOK, a.call(http.MethodPut, "/api/deliveries/1", pkgjwt.RoleOperator,
		map[string]string{"cantidad": "40"}).status)

	r := a.call(http.MethodGet, "/api/inventory/lots/1/movements", pkgjwt.RoleViewer, nil)
	require.Equal(t, http.StatusOK, r.status, string(r.raw))
	body := r.json(t)
	lot := body["lote"].(map[string]interface{})
	// lote 1: entrada 30, salida 30, reintegro 5
	assert.True(t, dec(t, lot["cantidad"]).Equal(decimal.NewFromInt(5)))
	assert.True(t, dec(t, body["neto_movimientos"]).Equal(decimal.NewFromInt(5)))
	moves := body["movimientos"].([]interface{})
	require.Len(t, moves, 3)
	assert.Equal(t, entity.MovementDirectionIn, moves[0].(map[string]interface{})["direccion"])
	assert.Equal(t, entity.MovementDirectionOut, moves[1].(map[string]interface{})["direccion"])
	assert.Equal(t, entity.MovementDirectionIn, moves[2].(map[string]interface{})["direccion"])

	r = a.call(http.MethodGet, "/api/inventory/lots/99/movements", pkgjwt.RoleViewer, nil)
	assert.Equal(t, http.StatusNotFound, r.status)
}

func TestGetPosition_HTTP_IncluyeMovimientosDeCadaEntrega(t *testing.T) {
	a := newAPI(t, nil)
	a.seedLot("30")
	a.seedLot("50")
	a.seedContract("100")
	require.Equal(t, http.StatusCreated, a.call(http.MethodPost, "/api/contracts/1/deliveries", pkgjwt.RoleOperator,
		map[string]string{"cantidad": "45", "precio": "1000"}).status)

	pos := a.call(http.MethodGet, "/api/contracts/1", pkgjwt.RoleViewer, nil).json(t)

	entregas := pos["entregas"].([]interface{})
	require.Len(t, entregas, 1)
	moves := entregas[0].(map[string]interface{})["movimientos_inventario"].([]interface{})
	require.Len(t, moves, 2)
	first := moves[0].(map[string]interface{})
	second := moves[1].(map[string]interface{})
	assert.Equal(t, float64(1), first["lote_id"])
	assert.True(t, dec(t, first["cantidad"]).Equal(decimal.NewFromInt(30)))
	assert.Equal(t, float64(2), second["lote_id"])
	assert.True(t, dec(t, second["cantidad"]).Equal(decimal.NewFromInt(15)))
	assert.Equal(t, entity.ReferenceContractDelivery, first["referencia_tipo"])
	assert.Equal(t, first["transaccion"], second["transaccion"])
}
