// Package pdf dibuja los comprobantes del libro (entregas, liquidaciones, movimientos de préstamo).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa             │  Título + N° + Fecha         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + NIT/CC + Tel                              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Concepto | Cant. QQ | P.Unit | Monto                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: saldos / estado        │  QR con la URL            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-ledger-api/internal/application/receipt"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 92, Green: 58, Blue: 33}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ receipt.Renderer = (*ReceiptGenerator)(nil)

// ReceiptGenerator implementa receipt.Renderer usando Maroto v2.
type ReceiptGenerator struct {
	baseURL string
}

// NewReceiptGenerator construye el generador. baseURL se antepone a la ruta del comprobante en el QR;
// vacío omite el QR.
func NewReceiptGenerator(baseURL string) *ReceiptGenerator {
	return &ReceiptGenerator{baseURL: strings.TrimRight(baseURL, "/")}
}

// Render genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) Render(_ context.Context, doc *receipt.Document) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(doc.Title, true).
		WithAuthor(nonEmpty(doc.Company, "-"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(doc.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(doc, g.qrData(doc)))

	if doc.Notes != "" {
		m.AddRows(line.NewRow(3))
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Observaciones: "+doc.Notes, props.Text{Size: 8, Color: colorGray, Top: 2}),
		)))
	}

	pdf, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return pdf.GetBytes(), nil
}

func (g *ReceiptGenerator) qrData(doc *receipt.Document) string {
	if g.baseURL == "" {
		return ""
	}
	return g.baseURL + receipt.URL(doc.Kind, doc.Number)
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa (izq) y título + número + fecha (der).
func headerRow(doc *receipt.Document) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(doc.Company, "Comprobante"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New(doc.Title, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("N° %s-%06d", strings.ToUpper(doc.Kind[:3]), doc.Number), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+doc.IssuedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// clientRow: datos del cliente; si no se pudo resolver se deja constancia.
func clientRow(doc *receipt.Document) core.Row {
	name, detail := "Cliente no disponible", ""
	if c := doc.Client; c != nil {
		name = c.Name
		detail = fmt.Sprintf("NIT/CC: %s   |   Tel: %s", nonEmpty(c.TaxID, "-"), nonEmpty(c.Phone, "-"))
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(detail, props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de detalle.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Concepto", 6, align.Left),
		h("Cant. QQ", 2, align.Right),
		h("Precio Unit.", 2, align.Right),
		h("Monto", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableDetailRows: una fila por línea.
func tableDetailRows(lines []receipt.Line) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		qty, price := "", ""
		if l.Quantity != nil {
			qty = formatMoney(*l.Quantity)
		}
		if l.UnitPrice != nil {
			price = "$" + formatMoney(*l.UnitPrice)
		}
		result = append(result, row.New(7).Add(
			col.New(6).Add(text.New(l.Concept, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(qty, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(price, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New("$"+formatMoney(l.Amount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// summaryRow: pares etiqueta/valor a la izquierda y QR a la derecha.
func summaryRow(doc *receipt.Document, qr string) core.Row {
	labels := col.New(4)
	values := col.New(4)
	for i, f := range doc.Summary {
		top := float64(i*6 + 2)
		labels.Add(text.New(f.Label+":", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top}))
		values.Add(text.New(f.Value, props.Text{Size: 9, Align: align.Left, Left: 2, Top: top}))
	}
	height := float64(len(doc.Summary)*6 + 6)
	qrCol := col.New(4)
	if qr != "" {
		qrCol.Add(code.NewQr(qr, props.Rect{Percent: 90, Center: true}))
		if height < 40 {
			height = 40
		}
	}
	return row.New(height).Add(labels, values, qrCol)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney dos decimales con puntos de miles y coma decimal.
// Ej: 25000 → "25.000,00", 1234.5 → "1.234,50"
func formatMoney(v decimal.Decimal) string {
	s := v.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3+4)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	out := string(buf) + "," + frac
	if neg {
		return "-" + out
	}
	return out
}
