// Package pdf genera el comprovante de venda (representación gráfica de la venta) con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Farmacia + CNPJ      │  N° Venta + Fecha + Estado   │
//	│  FARMACIA: Dirección / Tel / Responsable técnico (CRF)       │
//	│  CLIENTE: Nombre + CPF (o "Consumidor final")               │
//	│  TABLA: Cant | Producto | Lote/Venc. | P.Unit | Desc | Total │
//	│  TOTALES: Subtotal / Descuentos / TOTAL                      │
//	│  FOOTER: Forma de pago + QR de verificación                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

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

	"github.com/jhoicas/crm-farmaceutico/internal/application/sales"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
	"github.com/jhoicas/crm-farmaceutico/pkg/currency"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 110, Blue: 80}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 180, Green: 30, Blue: 30}
)

var paymentLabels = map[entity.PaymentMethod]string{
	entity.PaymentCash:       "Dinheiro",
	entity.PaymentDebitCard:  "Cartão de débito",
	entity.PaymentCreditCard: "Cartão de crédito",
	entity.PaymentPix:        "PIX",
	entity.PaymentInsurance:  "Convênio",
}

var _ sales.ReceiptPDFGenerator = (*MarotoReceiptGenerator)(nil)

// MarotoReceiptGenerator implementa sales.ReceiptPDFGenerator usando Maroto v2.
type MarotoReceiptGenerator struct{}

// NewMarotoReceiptGenerator construye el generador.
func NewMarotoReceiptGenerator() *MarotoReceiptGenerator { return &MarotoReceiptGenerator{} }

// GenerateReceiptPDF genera el PDF y devuelve sus bytes.
func (g *MarotoReceiptGenerator) GenerateReceiptPDF(_ context.Context, data *sales.ReceiptData) ([]byte, error) {
	if data == nil || data.Sale == nil || data.Pharmacy == nil {
		return nil, fmt.Errorf("pdf: datos del comprobante incompletos")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprovante de Venda", true).
		WithAuthor(data.Pharmacy.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data.Sale, data.Pharmacy))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(pharmacyRow(data.Pharmacy))
	m.AddRows(customerRow(data.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(data.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(data.Sale))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRows(data.Sale)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(s *entity.Sale, p *entity.Pharmacy) core.Row {
	statusColor := colorPrimary
	if s.Status == entity.SaleStatusCanceled {
		statusColor = colorDanger
	}
	return row.New(20).Add(
		col.New(7).Add(
			text.New(nonEmpty(p.Name, "Farmácia"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("CNPJ: "+formatCNPJ(p.CNPJ), props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("COMPROVANTE DE VENDA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Nº "+shortID(s.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Data: "+saleDate(s).Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
			text.New(string(s.Status), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 17, Color: statusColor,
			}),
		),
	)
}

func pharmacyRow(p *entity.Pharmacy) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("FARMÁCIA", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("Endereço: %s   |   Tel: %s   |   Resp. técnico: %s (CRF %s)",
				nonEmpty(p.Address, "-"),
				nonEmpty(p.Phone, "-"),
				nonEmpty(p.TechnicalResponsible, "-"),
				nonEmpty(p.CRF, "-"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func customerRow(c *entity.Customer) core.Row {
	name, doc := "Consumidor final", "-"
	if c != nil {
		name = c.Name
		doc = formatCPF(c.CPF)
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New("CPF: "+doc, props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qtd.", 1, align.Center),
		h("Produto", 4, align.Left),
		h("Lote / Validade", 2, align.Left),
		h("Preço unit.", 2, align.Right),
		h("Desc.", 1, align.Right),
		h("Total", 2, align.Right),
	)
}

func tableRows(lines []sales.ReceiptLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		lot := l.Batch
		if !l.ExpiryDate.IsZero() {
			lot += " / " + l.ExpiryDate.Format("01/2006")
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(currency.FormatInt(l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(4).Add(text.New(l.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(nonEmpty(lot, "-"), props.Text{Size: 7, Top: 1, Left: 1, Color: colorGray})),
			col.New(2).Add(text.New(currency.FormatBRL(int64(l.UnitPrice)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(currency.FormatBRL(int64(l.Discount)), props.Text{Size: 7, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(currency.FormatBRL(int64(l.Gross()-l.Discount)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalsRow(s *entity.Sale) core.Row {
	label := func(v string, top float64) core.Component {
		return text.New(v, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(v string, top float64) core.Component {
		return text.New(v, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 1),
			label("Descontos:", 6),
			text.New("TOTAL:", props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: colorPrimary, Right: 2, Top: 12}),
		),
		col.New(3).Add(
			value(currency.FormatBRL(int64(s.Subtotal)), 1),
			value(currency.FormatBRL(int64(s.DiscountTotal)), 6),
			text.New(currency.FormatBRL(int64(s.Total)), props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: colorPrimary, Right: 1, Top: 12}),
		),
	)
}

// footerRows forma de pago, observaciones y QR con los datos de verificación de la venta.
func footerRows(s *entity.Sale) []core.Row {
	qr := fmt.Sprintf("venda:%s;total:%d;status:%s", s.ID, int64(s.Total), s.Status)
	info := "Forma de pagamento: " + nonEmpty(paymentLabels[s.PaymentMethod], string(s.PaymentMethod))
	rows := []core.Row{
		row.New(36).Add(
			col.New(3).Add(code.NewQr(qr, props.Rect{Percent: 95, Center: true})),
			col.New(9).Add(
				text.New(info, props.Text{Style: fontstyle.Bold, Size: 9, Top: 4, Left: 3}),
				text.New("Venda "+s.ID, props.Text{Size: 7, Top: 11, Left: 3, Color: colorGray}),
				text.New("Documento sem valor fiscal.", props.Text{Size: 7, Top: 16, Left: 3, Color: colorGray}),
			),
		),
	}
	for _, chunk := range splitEvery(s.Notes, 110) {
		rows = append(rows, row.New(4).Add(col.New(12).Add(
			text.New(chunk, props.Text{Size: 7, Color: colorGray, Left: 2}),
		)))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func saleDate(s *entity.Sale) time.Time {
	if s.FinalizedAt != nil {
		return *s.FinalizedAt
	}
	return s.CreatedAt
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatCNPJ 12345678000190 -> 12.345.678/0001-90
func formatCNPJ(s string) string {
	if len(s) != 14 {
		return s
	}
	return s[:2] + "." + s[2:5] + "." + s[5:8] + "/" + s[8:12] + "-" + s[12:]
}

// formatCPF 12345678901 -> 123.456.789-01
func formatCPF(s string) string {
	if len(s) != 11 {
		return nonEmpty(s, "-")
	}
	return s[:3] + "." + s[3:6] + "." + s[6:9] + "-" + s[9:]
}

// splitEvery divide s en trozos de max n caracteres.
func splitEvery(s string, n int) []string {
	var parts []string
	for len(s) > n {
		parts = append(parts, s[:n])
		s = s[n:]
	}
	if s != "" {
		parts = append(parts, s)
	}
	return parts
}
