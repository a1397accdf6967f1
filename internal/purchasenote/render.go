package purchasenote

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	colMaterial = 50.0
	colQuantity = 40.0
	colPrice    = 40.0
	colSubtotal = 40.0
	rowHeight   = 8.0
)

// Render writes the note as a one-page A4 PDF.
func Render(w io.Writer, note Note) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Purchase note "+note.Number, true)
	pdf.SetCreator("stockflow", true)
	pdf.SetCreationDate(note.IssuedAt)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr("Purchase Note "+note.Header.Company), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, rowHeight, "Date: "+note.IssuedAt.Format("02/01/2006"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, rowHeight, "Note No: "+note.Number, "", 1, "L", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, rowHeight, "Supplier:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, rowHeight, tr(note.Header.Supplier), "", 1, "L", false, 0, "")
	for _, line := range strings.Split(note.Header.SupplierAddress, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			pdf.CellFormat(0, rowHeight, tr(line), "", 1, "L", false, 0, "")
		}
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(colMaterial, rowHeight, "Material", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colQuantity, rowHeight, "Quantity", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colPrice, rowHeight, "Unit price", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colSubtotal, rowHeight, "Subtotal", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, l := range note.Lines {
		pdf.CellFormat(colMaterial, rowHeight, tr(capitalize(l.Material)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colQuantity, rowHeight, fmt.Sprintf("%.0f units", l.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colPrice, rowHeight, tr(euro(l.UnitPrice.StringFixed(2))), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colSubtotal, rowHeight, tr(euro(l.Subtotal.StringFixed(2))), "1", 1, "C", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(colMaterial+colQuantity+colPrice, rowHeight, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(colSubtotal, rowHeight, tr(euro(note.Total.StringFixed(2))), "1", 1, "C", false, 0, "")

	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 6, "Payment method: bank transfer", "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Terms: subject to confirmation and stock availability.", "", 1, "L", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render purchase note %s: %w", note.Number, err)
	}
	return nil
}

// RenderBytes is Render into memory.
func RenderBytes(note Note) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, note); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func euro(amount string) string {
	return "€" + amount
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
