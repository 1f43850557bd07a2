package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	itemsSheet     = "Line items"
	remainingSheet = "Remaining stones"
)

var itemHeaders = []string{
	"ID", "Type", "Stair system", "Parent", "Part", "Stone code", "Stone", "Thickness (cm)",
	"Length (m)", "Width (cm)", "Qty", "m2", "Billed m2", "Price/m2", "Material",
	"Mandatory", "Tools", "Cutting", "Finishing", "Total",
}

var remainingHeaders = []string{"ID", "Stone", "Width (cm)", "Length (m)", "Qty", "Area (m2)", "Available", "Source"}

// BuildWorkbook renders the contract's line items and remaining stones into
// a two-sheet workbook with a totals row under the line items.
func BuildWorkbook(r Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", itemsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(remainingSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})
	moneyStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0

	writeHeader(f, itemsSheet, itemHeaders, boldStyle)
	row := 2
	for _, p := range r.Contract.Products {
		values := []interface{}{
			p.ID, string(p.Type), p.StairSystemID, p.ParentID, describe(p), p.StoneCode, p.StoneName,
			p.ThicknessCm, p.LengthM, p.WidthCm, p.Quantity, p.SquareMeters, p.PricingSquareMeters,
			p.PricePerSquareMeter.InexactFloat64(), p.MaterialPrice.InexactFloat64(),
			p.MandatoryAmount.InexactFloat64(), p.ToolsCost.InexactFloat64(),
			p.CuttingCost.InexactFloat64(), p.FinishingCost.InexactFloat64(), p.TotalPrice.InexactFloat64(),
		}
		if err := writeRow(f, itemsSheet, row, values); err != nil {
			f.Close()
			return nil, err
		}
		row++
	}

	t := r.Totals
	totals := map[string]interface{}{
		"A": "Total",
		"L": t.SquareMeters,
		"M": t.PricingSquareMeters,
		"O": t.MaterialPrice.InexactFloat64(),
		"P": t.MandatoryAmount.InexactFloat64(),
		"Q": t.ToolsCost.InexactFloat64(),
		"R": t.CuttingCost.InexactFloat64(),
		"S": t.FinishingCost.InexactFloat64(),
		"T": t.Subtotal.InexactFloat64(),
	}
	for col, v := range totals {
		f.SetCellValue(itemsSheet, fmt.Sprintf("%s%d", col, row), v)
	}
	f.SetCellValue(itemsSheet, fmt.Sprintf("A%d", row+1), "Grand total")
	f.SetCellValue(itemsSheet, fmt.Sprintf("T%d", row+1), t.GrandTotal.InexactFloat64())
	f.SetCellStyle(itemsSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("T%d", row+1), boldStyle)
	f.SetCellStyle(itemsSheet, "N2", fmt.Sprintf("T%d", row+1), moneyStyle)

	writeHeader(f, remainingSheet, remainingHeaders, boldStyle)
	for i, s := range r.Contract.RemainingStones {
		values := []interface{}{
			s.ID, s.StoneName, s.Width, s.Length, s.Quantity, s.TotalArea(), s.IsAvailable, s.SourceCutID,
		}
		if err := writeRow(f, remainingSheet, i+2, values); err != nil {
			f.Close()
			return nil, err
		}
	}

	for i := range itemHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(itemsSheet, col, col, 14)
	}
	return f, nil
}

// ExportXLSX writes the workbook built by BuildWorkbook to path.
func ExportXLSX(path string, r Report) error {
	if len(r.Contract.Products) == 0 {
		return fmt.Errorf("no line items to export")
	}
	f, err := BuildWorkbook(r)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) {
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s1", col)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("failed to address cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to write %s: %w", cell, err)
		}
	}
	return nil
}
