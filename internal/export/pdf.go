package export

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/StoneQuote/internal/model"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	rowHeight    = 6.0
)

// table is one titled grid of the cutting sheet.
type table struct {
	title   string
	widths  []float64
	headers []string
	rows    [][]string
}

// sheetWriter carries the running y position across pages.
type sheetWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
	y   float64
}

// ExportCuttingSheet writes the workshop cutting sheet: every stair part with
// its cuts and tools, the layer items, the manual reuse items, the pool of
// remaining stones and the contract totals.
func ExportCuttingSheet(path string, r Report) error {
	pdf, err := buildCuttingSheet(r)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

// WriteCuttingSheet renders the same document as ExportCuttingSheet to w.
func WriteCuttingSheet(w io.Writer, r Report) error {
	pdf, err := buildCuttingSheet(r)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

func buildCuttingSheet(r Report) (*fpdf.Fpdf, error) {
	if len(r.Contract.Products) == 0 {
		return nil, fmt.Errorf("no line items to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.AddPage()

	w := &sheetWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	w.header(r)

	for _, t := range r.tables() {
		w.table(t)
	}
	w.summary(r)
	w.footer()

	return pdf, pdf.Error()
}

func (r Report) tables() []table {
	var tables []table

	if parts := r.productsOf(model.ProductStairPart); len(parts) > 0 {
		t := table{
			title:   "Stair parts",
			widths:  []float64{10, 22, 48, 18, 18, 12, 18, 58, 26, 37},
			headers: []string{"#", "Part", "Stone", "L (m)", "W (cm)", "Qty", "m2", "Cutting", "Tools", "Total"},
		}
		for i, p := range parts {
			t.rows = append(t.rows, []string{
				fmt.Sprintf("%d", i+1),
				describe(p),
				p.StoneCode + " " + p.StoneName,
				FormatNumber(p.LengthM, 2),
				FormatNumber(p.WidthCm, 1),
				fmt.Sprintf("%d", p.Quantity),
				FormatNumber(p.SquareMeters, 2),
				cuttingSummary(p),
				FormatAmount(p.ToolsCost, ""),
				FormatAmount(p.TotalPrice, r.Currency),
			})
		}
		tables = append(tables, t)
	}

	if layers := r.productsOf(model.ProductLayer); len(layers) > 0 {
		t := table{
			title:   "Layers",
			widths:  []float64{10, 80, 40, 20, 25, 25, 30, 37},
			headers: []string{"#", "Layer", "Stone", "Layers", "Reused", "New", "m2 new", "Total"},
		}
		for i, p := range layers {
			var count, reused, fresh int
			var sqmNew float64
			if p.LayerInfo != nil {
				count, reused, fresh = p.LayerInfo.LayerCount, p.LayerInfo.LayersFromRemaining, p.LayerInfo.LayersFromNew
				sqmNew = p.LayerInfo.SquareMetersFromNew
			}
			t.rows = append(t.rows, []string{
				fmt.Sprintf("%d", i+1),
				describe(p),
				p.StoneCode,
				fmt.Sprintf("%d", count),
				fmt.Sprintf("%d", reused),
				fmt.Sprintf("%d", fresh),
				FormatNumber(sqmNew, 3),
				FormatAmount(p.TotalPrice, r.Currency),
			})
		}
		tables = append(tables, t)
	}

	if reuse := r.productsOf(model.ProductRemainingStone); len(reuse) > 0 {
		t := table{
			title:   "Products from remaining stones",
			widths:  []float64{10, 70, 25, 25, 20, 30, 87},
			headers: []string{"#", "Stone", "L (m)", "W (cm)", "Qty", "m2", "Total"},
		}
		for i, p := range reuse {
			t.rows = append(t.rows, []string{
				fmt.Sprintf("%d", i+1),
				p.StoneName,
				FormatNumber(p.LengthM, 2),
				FormatNumber(p.WidthCm, 1),
				fmt.Sprintf("%d", p.Quantity),
				FormatNumber(p.SquareMeters, 3),
				FormatAmount(p.TotalPrice, r.Currency),
			})
		}
		tables = append(tables, t)
	}

	var available []model.RemainingStone
	for _, s := range r.Contract.RemainingStones {
		if s.Usable() {
			available = append(available, s)
		}
	}
	if len(available) > 0 {
		model.SortRemainingByArea(available)
		t := table{
			title:   "Remaining stones",
			widths:  []float64{10, 90, 30, 30, 25, 40},
			headers: []string{"#", "Stone", "W (cm)", "L (m)", "Qty", "Area m2"},
		}
		for i, s := range available {
			t.rows = append(t.rows, []string{
				fmt.Sprintf("%d", i+1),
				s.StoneName,
				FormatNumber(s.Width, 1),
				FormatNumber(s.Length, 2),
				fmt.Sprintf("%d", s.Quantity),
				FormatNumber(s.TotalArea(), 3),
			})
		}
		tables = append(tables, t)
	}

	return tables
}

func (w *sheetWriter) header(r Report) {
	w.pdf.SetFont("Helvetica", "B", 14)
	w.pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Cutting sheet: %s", w.tr(r.Contract.Name))
	w.pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	w.pdf.SetFont("Helvetica", "", 9)
	w.pdf.SetXY(marginLeft, marginTop+headerHeight)
	w.pdf.CellFormat(pageWidth-marginLeft-marginRight, 5,
		fmt.Sprintf("Generated %s", time.Now().Format("2006-01-02 15:04")), "", 0, "L", false, 0, "")

	w.pdf.SetDrawColor(0, 0, 0)
	w.pdf.SetLineWidth(0.5)
	w.pdf.Line(marginLeft, marginTop+headerHeight+6, pageWidth-marginRight, marginTop+headerHeight+6)
	w.y = marginTop + headerHeight + 10
}

// ensure starts a new page when fewer than need mm are left.
func (w *sheetWriter) ensure(need float64) {
	if w.y+need > pageHeight-marginBottom {
		w.pdf.AddPage()
		w.y = marginTop
	}
}

func (w *sheetWriter) tableHeader(t table) {
	w.pdf.SetFont("Helvetica", "B", 9)
	w.pdf.SetFillColor(230, 230, 230)
	x := marginLeft
	for i, h := range t.headers {
		w.pdf.SetXY(x, w.y)
		w.pdf.CellFormat(t.widths[i], rowHeight, h, "1", 0, "C", true, 0, "")
		x += t.widths[i]
	}
	w.y += rowHeight
}

func (w *sheetWriter) table(t table) {
	w.ensure(7 + 2*rowHeight)
	w.pdf.SetFont("Helvetica", "B", 12)
	w.pdf.SetXY(marginLeft, w.y)
	w.pdf.CellFormat(100, 7, t.title, "", 0, "L", false, 0, "")
	w.y += 8

	w.tableHeader(t)
	for i, row := range t.rows {
		if w.y+rowHeight > pageHeight-marginBottom {
			w.pdf.AddPage()
			w.y = marginTop
			w.tableHeader(t)
		}

		if i%2 == 0 {
			w.pdf.SetFillColor(245, 245, 245)
		} else {
			w.pdf.SetFillColor(255, 255, 255)
		}
		w.pdf.SetFont("Helvetica", "", 8)
		x := marginLeft
		for j, cell := range row {
			w.pdf.SetXY(x, w.y)
			w.pdf.CellFormat(t.widths[j], rowHeight, w.tr(cell), "1", 0, "C", true, 0, "")
			x += t.widths[j]
		}
		w.y += rowHeight
	}
	w.y += 6
}

func (w *sheetWriter) summary(r Report) {
	t := r.Totals
	items := []struct {
		label string
		value string
	}{
		{"Line items", fmt.Sprintf("%d", t.Items)},
		{"Area (m2)", FormatNumber(t.SquareMeters, 2)},
		{"Billed area (m2)", FormatNumber(t.PricingSquareMeters, 2)},
		{"Material", FormatAmount(t.MaterialPrice, r.Currency)},
		{"Mandatory markup", FormatAmount(t.MandatoryAmount, r.Currency)},
		{"Tools", FormatAmount(t.ToolsCost, r.Currency)},
		{"Cutting", FormatAmount(t.CuttingCost, r.Currency)},
		{"Subtotal", FormatAmount(t.Subtotal, r.Currency)},
		{"Finishing", FormatAmount(t.FinishingCost, r.Currency)},
		{"Grand total", FormatAmount(t.GrandTotal, r.Currency)},
		{"Remaining stone area (m2)", FormatNumber(t.RemainingStoneArea, 2)},
	}

	w.ensure(9 + float64(len(items))*6)
	w.pdf.SetFont("Helvetica", "B", 12)
	w.pdf.SetXY(marginLeft, w.y)
	w.pdf.CellFormat(100, 7, "Summary", "", 0, "L", false, 0, "")
	w.y += 9

	for _, item := range items {
		w.pdf.SetXY(marginLeft+5, w.y)
		w.pdf.SetFont("Helvetica", "", 10)
		w.pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		w.pdf.SetFont("Helvetica", "B", 10)
		w.pdf.CellFormat(60, 6, item.value, "", 0, "R", false, 0, "")
		w.y += 6
	}
}

func (w *sheetWriter) footer() {
	w.pdf.SetFont("Helvetica", "I", 8)
	w.pdf.SetTextColor(120, 120, 120)
	w.pdf.SetXY(marginLeft, pageHeight-marginBottom)
	w.pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by StoneQuote", "", 0, "C", false, 0, "")
	w.pdf.SetTextColor(0, 0, 0)
}
