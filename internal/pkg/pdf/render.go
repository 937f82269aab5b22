package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin  = 12.0
	rowHeight   = 7.0
	nameWidth   = 58.0
	amountWidth = 35.0
)

// Render draws the layout as a single A4 page. The output is byte-identical
// for identical layouts.
func Render(l Layout) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetCreationDate(l.CreatedAt)
	pdf.SetModificationDate(l.CreatedAt)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(l.Title, true)
	pdf.SetAuthor(l.CompanyName, true)
	pdf.SetCreator("payroll-backend-go", false)

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		if l.Footer == "" {
			return
		}
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(110, 110, 110)
		pdf.CellFormat(0, 5, tr(l.Footer), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - 2*pageMargin

	// Header
	textX := pageMargin
	if len(l.Logo) > 0 {
		opts := fpdf.ImageOptions{ImageType: l.LogoType, ReadDpi: false}
		pdf.RegisterImageOptionsReader("company-logo", opts, bytes.NewReader(l.Logo))
		pdf.ImageOptions("company-logo", pageMargin, pageMargin, 24, 0, false, opts, 0, "")
		textX = pageMargin + 28
	}
	pdf.SetXY(textX, pageMargin)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(20, 20, 20)
	pdf.CellFormat(contentWidth-(textX-pageMargin), 8, tr(l.CompanyName), "", 2, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	if l.Subtitle != "" {
		pdf.CellFormat(contentWidth-(textX-pageMargin), 5, tr(l.Subtitle), "", 2, "L", false, 0, "")
	}
	if l.Address != "" {
		pdf.SetFont("Helvetica", "", 8)
		pdf.MultiCell(contentWidth-(textX-pageMargin), 4, tr(l.Address), "", "L", false)
	}
	if y := pdf.GetY(); y < pageMargin+26 {
		pdf.SetY(pageMargin + 26)
	}
	pdf.SetX(pageMargin)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentWidth, 9, tr(l.Heading), "B", 1, "C", false, 0, "")
	pdf.Ln(3)

	// Employee and period block, two label/value pairs per line
	pdf.SetFont("Helvetica", "", 9)
	half := contentWidth / 2
	for i, f := range l.Details {
		ln := 0
		if i%2 == 1 || i == len(l.Details)-1 {
			ln = 1
		}
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(32, 6, tr(f.Label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(half-32, 6, tr(": "+f.Value), "", ln, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Earnings / deductions table
	pdf.SetFillColor(235, 238, 243)
	pdf.SetDrawColor(160, 160, 160)
	writeRow(pdf, tr, l.Header, "B", true)
	for _, r := range l.Rows {
		writeRow(pdf, tr, r, "", false)
	}
	writeRow(pdf, tr, l.Totals, "B", true)
	pdf.Ln(5)

	// Net pay
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentWidth, 8, tr(l.NetPay), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(contentWidth, 5, tr(l.NetPayWords), "", "L", false)

	if l.Attendance != "" {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentWidth, 5, tr(l.Attendance), "", 1, "L", false, 0, "")
	}
	if len(l.Notes) > 0 {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentWidth, 5, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, n := range l.Notes {
			pdf.MultiCell(contentWidth, 5, tr(n), "", "L", false)
		}
	}

	if pdf.Err() {
		return nil, fmt.Errorf("failed to lay out payslip: %w", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write payslip pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(pdf *fpdf.Fpdf, tr func(string) string, r Row, style string, fill bool) {
	pdf.SetFont("Helvetica", style, 9)
	pdf.CellFormat(nameWidth, rowHeight, tr(r.Earning), "1", 0, "L", fill, 0, "")
	pdf.CellFormat(amountWidth, rowHeight, r.EarningAmount, "1", 0, "R", fill, 0, "")
	pdf.CellFormat(nameWidth, rowHeight, tr(r.Deduction), "1", 0, "L", fill, 0, "")
	pdf.CellFormat(amountWidth, rowHeight, r.DeductionAmount, "1", 1, "R", fill, 0, "")
}
