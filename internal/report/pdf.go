package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/goprice/internal/app"
)

// maxReceiptRows caps the candidate table so a receipt stays on one page.
const maxReceiptRows = 20

// WriteReceipt renders a one-page PDF for the outcome: the headline, a
// clickable link to the winning listing, and the table of every title that
// produced a price. Parent directories are created as needed.
func WriteReceipt(o app.Outcome, cfg app.Config, outPath string, now time.Time) error {
	if dir := filepath.Dir(outPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; translate so accented product names survive.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Lowest price: "+o.Product), false)
	pdf.SetCreator("goprice "+app.BuildVersion, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr("Lowest price search"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 5, now.UTC().Format(time.RFC3339)+"  run "+o.RunID, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 5, tr(Headline(o)), "", "L", false)
	pdf.Ln(2)

	if o.Found() {
		pdf.SetTextColor(21, 101, 192)
		pdf.WriteLinkString(5, tr("Click here to see the best price"), o.Link)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(7)
		kv := [][2]string{
			{"Listing", o.Title},
			{"Store", o.Store},
			{"Detected price", FormatPrice(o.Price)},
		}
		for _, row := range kv {
			if row[1] == "" {
				continue
			}
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(35, 6, tr(row[0]), "", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 6, tr(row[1]), "", "L", false)
		}
	}

	if o.Status != app.StatusInvalidInput {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(35, 6, tr("Search query"), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		q := o.Query
		if o.QueryFallback {
			q += " (fallback)"
		}
		pdf.MultiCell(0, 6, tr(q), "", "L", false)
	}

	if len(o.Candidates) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(30, 7, tr("Price"), "1", 0, "R", true, 0, "")
		pdf.CellFormat(0, 7, tr("Title"), "1", 1, "L", true, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for i, c := range o.Candidates {
			if i == maxReceiptRows {
				pdf.CellFormat(0, 6, tr(fmt.Sprintf("... %d more", len(o.Candidates)-maxReceiptRows)), "1", 1, "L", false, 0, "")
				break
			}
			title := c.Title
			if r := []rune(title); len(r) > 90 {
				title = string(r[:87]) + "..."
			}
			pdf.CellFormat(30, 6, FormatPrice(c.Price), "1", 0, "R", false, 0, "")
			pdf.CellFormat(0, 6, tr(title), "1", 1, "L", false, 0, c.Link)
		}
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.MultiCell(0, 4, tr(Disclaimer), "", "L", false)
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 4, tr(fmt.Sprintf("model=%s locale=%s-%s", cfg.LLMModel, cfg.Language, cfg.Country)), "", 1, "L", false, 0, "")

	return pdf.OutputFileAndClose(outPath)
}
