// Package pdf renders quote documents with go-pdf/fpdf.
package pdf

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/crmlite/crm/internal/core/domain"
	"github.com/crmlite/crm/internal/core/ports"
)

const (
	contentType = "application/pdf"
	font        = "Helvetica"

	pageWidth = 210.0
	leftX     = 20.0
	rightX    = 190.0
	qtyX      = 130.0
	priceX    = 150.0
	totalX    = 180.0 // right edge of the amount columns
	summaryX  = 120.0

	validityNote = "Questo preventivo è valido per 30 giorni dalla data di emissione."
	paymentNote  = "Pagamento: 50% all'accettazione, 50% al completamento."
)

// QuoteRenderer draws the Italian "PREVENTIVO" layout on A4 pages.
type QuoteRenderer struct{}

func NewQuoteRenderer() *QuoteRenderer { return &QuoteRenderer{} }

func (r *QuoteRenderer) ContentType() string { return contentType }

func (r *QuoteRenderer) RenderQuote(w io.Writer, doc ports.QuoteDocument) error {
	pdf, err := r.build(doc)
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

type page struct {
	*fpdf.Fpdf
	tr func(string) string
}

func (p page) text(x, y float64, s string) { p.Text(x, y, p.tr(s)) }

func (p page) textRight(x, y float64, s string) {
	s = p.tr(s)
	p.Text(x-p.GetStringWidth(s), y, s)
}

func (p page) textCenter(y float64, s string) {
	s = p.tr(s)
	p.Text((pageWidth-p.GetStringWidth(s))/2, y, s)
}

func (p page) style(styleStr string, size float64) {
	p.SetFont(font, styleStr, size)
}

func (r *QuoteRenderer) build(doc ports.QuoteDocument) (*fpdf.Fpdf, error) {
	q := doc.Quote
	f := fpdf.New("P", "mm", "A4", "")
	f.SetAutoPageBreak(false, 0)
	f.SetTitle("Preventivo "+quoteNumber(q.ID), true)
	if !q.Timestamp.IsZero() {
		f.SetCreationDate(q.Timestamp)
	}
	p := page{Fpdf: f, tr: f.UnicodeTranslatorFromDescriptor("")}

	f.AddPage()
	p.drawHeader(q, doc)

	rows, totals := layout(len(q.Items))
	current := 1
	for i, item := range q.Items {
		pos := rows[i]
		if pos.Page > current {
			f.AddPage()
			current = pos.Page
			p.drawColumnHeader(pos.Y - 15)
		}
		p.drawRow(item, pos.Y)
	}

	if totals.Page > current {
		f.AddPage()
	}
	p.drawTotals(domain.Price(q.Items, doc.TaxRate), doc.TaxRate, totals.Y)

	if err := f.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return f, nil
}

func (p page) drawHeader(q domain.Quote, doc ports.QuoteDocument) {
	p.style("B", 20)
	p.textCenter(20, "PREVENTIVO")
	p.SetLineWidth(0.5)
	p.Line(leftX, 30, rightX, 30)

	p.style("", 12)
	p.text(leftX, 40, "Data: "+q.Timestamp.Format("02/01/2006"))
	p.text(leftX, 50, "Numero: "+quoteNumber(q.ID))

	p.style("B", 14)
	p.text(leftX, 70, "Cliente:")
	p.style("", 12)
	p.text(leftX, 80, doc.ClientName)
	p.text(leftX, 90, "Email: "+doc.ClientEmail)
	p.text(leftX, 100, "Telefono: "+doc.ClientPhone)

	p.style("B", 14)
	p.text(leftX, 120, "Dettaglio Servizi:")
	p.drawColumnHeader(135)
}

// drawColumnHeader writes the column titles at baseline y and the rule 5mm below.
func (p page) drawColumnHeader(y float64) {
	p.style("B", 10)
	p.text(leftX, y, "Descrizione")
	p.text(qtyX, y, "Qtà")
	p.text(priceX, y, "Prezzo Unitario")
	p.textRight(totalX, y, "Totale")
	p.SetLineWidth(0.3)
	p.Line(leftX, y+5, rightX, y+5)
}

func (p page) drawRow(item domain.QuoteItem, y float64) {
	p.style("", 10)
	p.text(leftX, y, item.Name)
	p.SetFontSize(8)
	p.text(leftX, y+4, item.Description)

	p.SetFontSize(10)
	p.text(qtyX, y, strconv.Itoa(item.EffectiveQuantity()))
	p.text(priceX, y, money(item.Price))
	p.textRight(totalX, y, money(item.LineTotal()))
}

func (p page) drawTotals(t domain.Totals, rate float64, y float64) {
	y += totalsRuleGap
	p.SetLineWidth(0.3)
	p.Line(summaryX, y, rightX, y)

	y += totalsLineStep
	p.style("", 10)
	p.text(qtyX, y, "Imponibile:")
	p.textRight(totalX, y, money(t.Subtotal))

	y += totalsLineStep
	p.text(qtyX, y, "IVA ("+domain.FormatPercent(rate)+"%):")
	p.textRight(totalX, y, money(t.Tax))

	y += totalsLineStep
	p.SetLineWidth(0.5)
	p.Line(summaryX, y, rightX, y)

	y += grandTotalStep
	p.style("B", 14)
	p.text(qtyX, y, "Totale:")
	p.textRight(totalX, y, money(t.GrandTotal))

	y += notesGap
	p.style("", 10)
	p.text(leftX, y, validityNote)
	p.text(leftX, y+noteLineStep, paymentNote)
}

func money(v float64) string { return "€ " + domain.FormatAmount(v) }

// quoteNumber is the printed quote number: the first eight id characters
// in upper case.
func quoteNumber(id string) string {
	r := []rune(id)
	if len(r) > 8 {
		r = r[:8]
	}
	return strings.ToUpper(string(r))
}
