package infra

// pdf.go: printable price comparison sheet using go-pdf/fpdf.
// One A4 page (or more) with:
//   - Title and generation timestamp
//   - Table: item, unit, store, price, date, category
//   - The cheapest store of each item printed in bold

import (
	"fmt"
	"io"
	"time"

	"grocerytracker/internal/dto"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// RenderComparisonPDF writes the comparison rows as a PDF document to w.
// rows are expected in comparison order (item name, then store name).
func RenderComparisonPDF(w io.Writer, rows []dto.ComparisonRow, generatedAt time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	cols := []struct {
		title string
		width float64
		align string
	}{
		{"Item", contentW * 0.26, "L"},
		{"Unit", contentW * 0.10, "L"},
		{"Store", contentW * 0.22, "L"},
		{"Price", contentW * 0.12, "R"},
		{"Date", contentW * 0.14, "C"},
		{"Category", contentW * 0.16, "L"},
	}

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for i, c := range cols {
			ln := 0
			if i == len(cols)-1 {
				ln = 1
			}
			pdf.CellFormat(c.width, 7, c.title, "1", ln, c.align, true, 0, "")
		}
	}
	pdf.SetHeaderFuncMode(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	}, true)

	pdf.AddPage()

	// ── Title ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Yellowknife Grocery Price Comparison", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Generated "+generatedAt.Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	header()

	if len(rows) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(contentW, 8, "No prices recorded yet.", "1", 1, "C", false, 0, "")
		return output(pdf, w)
	}

	cheapest := cheapestByItem(rows)
	for _, r := range rows {
		style := ""
		if low, ok := cheapest[r.ItemID]; ok && r.Price.Equal(low) {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 9)
		cells := []string{
			truncate(r.ItemName, 32),
			truncate(r.Unit, 12),
			truncate(r.StoreName, 28),
			"$" + r.Price.StringFixed(2),
			r.Date.String(),
			truncate(r.CategoryName, 20),
		}
		for i, c := range cols {
			ln := 0
			if i == len(cols)-1 {
				ln = 1
			}
			pdf.CellFormat(c.width, 6, tr(cells[i]), "1", ln, c.align, false, 0, "")
		}
	}

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, fmt.Sprintf("%d prices. Bold rows are the lowest current price for the item.", len(rows)), "", 1, "L", false, 0, "")

	return output(pdf, w)
}

func output(pdf *fpdf.Fpdf, w io.Writer) error {
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: write: %w", err)
	}
	return nil
}

func cheapestByItem(rows []dto.ComparisonRow) map[uint]decimal.Decimal {
	out := make(map[uint]decimal.Decimal)
	for _, r := range rows {
		if cur, ok := out[r.ItemID]; !ok || r.Price.LessThan(cur) {
			out[r.ItemID] = r.Price
		}
	}
	return out
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
