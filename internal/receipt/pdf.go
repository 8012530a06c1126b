// Package receipt renders boletas and the menu card, and stores the resulting
// documents.
package receipt

import (
	"bytes"
	"context"
	"fmt"

	"restaurante/internal/checkout"
	"restaurante/models"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// Renderer turns a receipt into a document.
type Renderer interface {
	Render(ctx context.Context, r checkout.Receipt) ([]byte, error)
	ContentType() string
}

// Business is the header printed on every receipt.
type Business struct {
	Name    string
	TaxID   string
	Address string
	Phone   string
}

var DefaultBusiness = Business{
	Name:    "Razón Social del Negocio",
	TaxID:   "12345678-9",
	Address: "Calle Falsa 123",
	Phone:   "+56 9 1234 5678",
}

// PDFRenderer lays out an A4 boleta with fpdf core fonts.
type PDFRenderer struct {
	business Business
}

func NewPDFRenderer(b Business) *PDFRenderer {
	return &PDFRenderer{business: b}
}

func (p *PDFRenderer) ContentType() string { return "application/pdf" }

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(models.PricePrecision)
}

func (p *PDFRenderer) Render(ctx context.Context, r checkout.Receipt) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("Boleta %d", r.OrderID), true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Boleta Restaurante", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	for _, line := range []string{
		p.business.Name,
		"RUT: " + p.business.TaxID,
		"Dirección: " + p.business.Address,
		"Teléfono: " + p.business.Phone,
	} {
		pdf.CellFormat(0, 10, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, "Datos del Cliente", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 8, tr("Cliente: "+r.CustomerName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, tr("Email: "+r.CustomerEmail), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, "Fecha: "+r.IssuedAt.Format("02/01/2006 15:04:05"), "", 1, "L", false, 0, "")
	pdf.Ln(10)

	widths := []float64{70, 20, 35, 30}
	pdf.SetFont("Arial", "B", 12)
	for i, h := range []string{"Nombre", "Cantidad", "Precio Unitario", "Subtotal"} {
		pdf.CellFormat(widths[i], 10, h, "1", 0, "", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 12)
	for _, l := range r.Lines {
		pdf.CellFormat(widths[0], 10, tr(l.Name), "1", 0, "", false, 0, "")
		pdf.CellFormat(widths[1], 10, fmt.Sprintf("%d", l.Quantity), "1", 0, "", false, 0, "")
		pdf.CellFormat(widths[2], 10, money(l.UnitPrice), "1", 0, "", false, 0, "")
		pdf.CellFormat(widths[3], 10, money(l.Subtotal), "1", 0, "", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", 12)
	rate := r.Rate.Mul(decimal.NewFromInt(100)).StringFixed(0)
	for _, row := range [][2]string{
		{"Subtotal:", money(r.Subtotal)},
		{"IVA (" + rate + "%):", money(r.Tax)},
		{"Total:", money(r.Total)},
	} {
		pdf.CellFormat(120, 10, row[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 10, row[1], "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "I", 10)
	pdf.CellFormat(0, 10, tr("Gracias por su compra. Para cualquier consulta, llámenos al "+p.business.Phone+"."), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 10, tr("Los productos adquiridos no tienen garantía."), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt %d: %w", r.OrderID, err)
	}
	return buf.Bytes(), nil
}
