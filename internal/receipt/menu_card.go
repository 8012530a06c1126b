package receipt

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"restaurante/models"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// MenuCard is the header of the printed menu.
type MenuCard struct {
	Title    string
	Subtitle string
	Footer   string
}

var DefaultMenuCard = MenuCard{
	Title:    "Carta del Restaurante",
	Subtitle: "Menú del día",
	Footer:   "Gracias por su preferencia.",
}

// MenuCardRenderer prints the catalog as a two column name/price table.
type MenuCardRenderer struct {
	card MenuCard
}

func NewMenuCardRenderer(card MenuCard) *MenuCardRenderer {
	return &MenuCardRenderer{card: card}
}

// wholePesos formats d rounded to whole units with dot thousands
// separators: 3500 -> $3.500.
func wholePesos(d decimal.Decimal) string {
	digits := d.Abs().Round(0).String()
	var b strings.Builder
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	sign := ""
	if d.Round(0).IsNegative() {
		sign = "-"
	}
	return sign + "$" + b.String()
}

func (m *MenuCardRenderer) RenderCard(ctx context.Context, items []models.MenuItem) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	const (
		margin    = 12.0
		nameWidth = 120.0
		priceW    = 50.0
		rowHeight = 10.0
	)

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(m.card.Title), true)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()

	pdf.SetFillColor(33, 150, 243)
	pdf.Rect(0, 0, 210, 30, "F")
	pdf.SetXY(margin, 8)
	pdf.SetFont("Arial", "B", 18)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(0, 10, tr(m.card.Title), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.SetX(margin)
	pdf.CellFormat(0, 8, tr(m.card.Subtitle), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(230, 236, 241)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(nameWidth, rowHeight, tr("Menú"), "", 0, "L", true, 0, "")
	pdf.CellFormat(priceW, rowHeight, "Precio", "", 1, "R", true, 0, "")
	pdf.SetDrawColor(220, 220, 220)
	y := pdf.GetY()
	pdf.Line(margin, y, margin+nameWidth+priceW, y)

	pdf.SetFont("Arial", "", 12)
	for i, item := range items {
		if i%2 == 0 {
			pdf.SetFillColor(245, 247, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.CellFormat(nameWidth, rowHeight, tr(item.Name()), "", 0, "L", true, 0, "")
		pdf.CellFormat(priceW, rowHeight, wholePesos(item.Price()), "", 1, "R", true, 0, "")
	}

	pdf.SetY(-18)
	pdf.SetFont("Arial", "I", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 8, tr(m.card.Footer), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render menu card: %w", err)
	}
	return buf.Bytes(), nil
}
