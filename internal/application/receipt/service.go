package receipt

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/cafe-ledger-api/internal/application/contract"
	"github.com/jhoicas/cafe-ledger-api/internal/application/deposit"
	"github.com/jhoicas/cafe-ledger-api/internal/application/loan"
	"github.com/jhoicas/cafe-ledger-api/internal/application/ports"
	"github.com/jhoicas/cafe-ledger-api/internal/domain"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/entity"
	"github.com/jhoicas/cafe-ledger-api/internal/domain/ledger"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Service emite comprobantes después del commit. Un error aquí nunca deshace el movimiento:
// el handler lo reporta junto con la respuesta exitosa.
type Service struct {
	renderer Renderer
	store    ports.ReceiptStore
	clients  ClientDirectory
	company  string
	ttl      time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

// NewService construye el servicio.
func NewService(
	renderer Renderer,
	store ports.ReceiptStore,
	clients ClientDirectory,
	company string,
	ttl time.Duration,
	log zerolog.Logger,
) *Service {
	return &Service{
		renderer: renderer,
		store:    store,
		clients:  clients,
		company:  company,
		ttl:      ttl,
		log:      log,
		now:      time.Now,
	}
}

// URL ruta pública del comprobante.
func URL(kind string, id int64) string {
	return fmt.Sprintf("/api/comprobantes/%s/%d", kind, id)
}

func storeKey(kind string, id int64) string {
	return fmt.Sprintf("comprobante:%s:%d", kind, id)
}

// IssueDelivery comprobante de una entrega (alta, edición o anulación).
func (s *Service) IssueDelivery(ctx context.Context, res *contract.DeliveryResult) (string, error) {
	dl := res.Delivery
	title := "COMPROBANTE DE ENTREGA"
	if !dl.Active() {
		title = "ANULACIÓN DE ENTREGA"
	}
	qty, price := dl.Quantity, dl.UnitPrice
	doc := &Document{
		Kind:   KindDelivery,
		Number: dl.ID,
		Title:  title,
		Lines: []Line{{
			Concept:   fmt.Sprintf("Entrega contrato #%d (%s)", res.Contract.ID, res.Contract.Product),
			Quantity:  &qty,
			UnitPrice: &price,
			Amount:    ledger.Total(qty, price),
		}},
		Summary: []Field{
			{Label: "Contratado (QQ)", Value: res.Contract.TargetQuantity.StringFixed(2)},
			{Label: "Entregado (QQ)", Value: res.Delivered.StringFixed(2)},
			{Label: "Pendiente (QQ)", Value: res.Remaining.StringFixed(2)},
			{Label: "Estado", Value: res.Contract.Status},
		},
		Notes: dl.Notes,
	}
	return s.issue(ctx, doc, res.Contract.ClientID)
}

// IssueLiquidation un comprobante por liquidación, numerado con el primer registro escrito.
func (s *Service) IssueLiquidation(ctx context.Context, res *deposit.LiquidationResult) (string, error) {
	if len(res.Liquidations) == 0 {
		return "", fmt.Errorf("comprobante: liquidación sin registros")
	}
	first := res.Liquidations[0]
	doc := &Document{
		Kind:   KindLiquidation,
		Number: first.ID,
		Title:  "LIQUIDACIÓN DE DEPÓSITO",
		Notes:  first.Notes,
	}
	total := decimal.Zero
	for _, l := range res.Liquidations {
		qty, price := l.Quantity, l.UnitPrice
		amount := ledger.Total(qty, price)
		total = total.Add(amount)
		doc.Lines = append(doc.Lines, Line{
			Concept:   fmt.Sprintf("Depósito #%d (%s)", l.DepositID, l.Product),
			Quantity:  &qty,
			UnitPrice: &price,
			Amount:    amount,
		})
	}
	doc.Summary = []Field{
		{Label: "Total liquidado", Value: total.StringFixed(2)},
		{Label: "Saldo por liquidar (QQ)", Value: res.Remaining.StringFixed(2)},
	}
	return s.issue(ctx, doc, first.ClientID)
}

// IssueLoanMovement comprobante de un movimiento de préstamo o anticipo.
func (s *Service) IssueLoanMovement(ctx context.Context, res *loan.MovementResult) (string, error) {
	m := res.Movement
	kind := KindLoan
	title := "MOVIMIENTO DE PRÉSTAMO"
	if m.Kind == entity.LedgerKindAdvance {
		kind = KindAdvance
		title = "MOVIMIENTO DE ANTICIPO"
	}
	concept := m.Type
	if m.Voided() {
		concept = fmt.Sprintf("%s (anulado, era %s)", m.Type, m.OriginalType)
	}
	if m.Days != nil && m.Rate != nil {
		concept = fmt.Sprintf("%s: %d días al %s%% mensual", concept, *m.Days, m.Rate.String())
	}
	doc := &Document{
		Kind:   kind,
		Number: m.ID,
		Title:  title,
		Lines:  []Line{{Concept: concept, Amount: m.Amount}},
		Summary: []Field{
			{Label: "Cargos", Value: res.Balance.Charges.StringFixed(2)},
			{Label: "Abonos", Value: res.Balance.Credits.StringFixed(2)},
			{Label: "Saldo", Value: res.Balance.Balance.StringFixed(2)},
		},
		Notes: m.Description,
	}
	return s.issue(ctx, doc, res.Loan.ClientID)
}

// Get devuelve el PDF almacenado; domain.ErrNotFound si no existe o expiró.
func (s *Service) Get(ctx context.Context, kind string, id int64) ([]byte, error) {
	switch kind {
	case KindDelivery, KindLiquidation, KindLoan, KindAdvance:
	default:
		return nil, domain.Invalid("tipo", "tipo de comprobante desconocido")
	}
	pdf, err := s.store.Get(ctx, storeKey(kind, id))
	if err != nil {
		return nil, fmt.Errorf("comprobante: leer: %w", err)
	}
	if pdf == nil {
		return nil, domain.ErrNotFound
	}
	return pdf, nil
}

func (s *Service) issue(ctx context.Context, doc *Document, clientID int64) (string, error) {
	doc.Company = s.company
	doc.IssuedAt = s.now()
	if s.clients != nil && clientID > 0 {
		c, err := s.clients.GetByID(ctx, clientID)
		if err != nil {
			s.log.Warn().Err(err).Int64("client_id", clientID).Msg("comprobante sin datos de cliente")
		}
		doc.Client = c
	}
	pdf, err := s.renderer.Render(ctx, doc)
	if err != nil {
		s.log.Warn().Err(err).Str("kind", doc.Kind).Int64("id", doc.Number).Msg("no se pudo generar el comprobante")
		return "", fmt.Errorf("comprobante: generar: %w", err)
	}
	if err := s.store.Put(ctx, storeKey(doc.Kind, doc.Number), pdf, s.ttl); err != nil {
		s.log.Warn().Err(err).Str("kind", doc.Kind).Int64("id", doc.Number).Msg("no se pudo guardar el comprobante")
		return "", fmt.Errorf("comprobante: guardar: %w", err)
	}
	return URL(doc.Kind, doc.Number), nil
}
