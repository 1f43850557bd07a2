// Package importer provides CSV and Excel import of the stone catalog and
// DXF import of stair outlines. CSV delimiters are detected automatically and
// columns are mapped from case-insensitive header aliases.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/StoneQuote/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of a catalog import.
type ImportResult struct {
	Stones   []model.StoneProduct
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Code         int
	Name         int
	Width        int
	Thickness    int
	Price        int
	Length       int
	ContractType int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"code":      {"code", "sku", "stone code", "product code", "id"},
	"name":      {"name", "name_persian", "stone", "stone name", "description", "desc", "نام"},
	"width":     {"width", "w", "width_value", "width cm", "عرض"},
	"thickness": {"thickness", "t", "thk", "thickness_value", "thickness cm", "ضخامت"},
	"price":     {"price", "base price", "base_price", "price per m2", "price/m2", "rate", "قیمت"},
	"length":    {"length", "len", "l", "length_value", "standard length", "طول"},
	"contract":  {"contract", "contract type", "contract_type", "type"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping (code, name, width, thickness, price, length, contract) and false.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{-1, -1, -1, -1, -1, -1, -1}
	slots := map[string]*int{
		"code":      &mapping.Code,
		"name":      &mapping.Name,
		"width":     &mapping.Width,
		"thickness": &mapping.Thickness,
		"price":     &mapping.Price,
		"length":    &mapping.Length,
		"contract":  &mapping.ContractType,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias && *slots[role] == -1 {
					*slots[role] = i
					isHeader = true
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{
			Code:         0,
			Name:         1,
			Width:        2,
			Thickness:    3,
			Price:        4,
			Length:       5,
			ContractType: 6,
		}, false
	}

	return mapping, true
}

// parseNumber parses a decimal number, tolerating thousands separators.
func parseNumber(s string) (float64, error) {
	s = strings.NewReplacer(",", "", "_", "", "٬", "").Replace(strings.TrimSpace(s))
	return strconv.ParseFloat(s, 64)
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts a StoneProduct from a row using the given column mapping.
// Returns the stone, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, count int) (model.StoneProduct, string, string) {
	code := getCell(row, mapping.Code)
	name := getCell(row, mapping.Name)
	if code == "" && name == "" {
		code = fmt.Sprintf("STONE-%d", count+1)
	}
	if name == "" {
		name = code
	}

	widthStr := getCell(row, mapping.Width)
	if widthStr == "" {
		return model.StoneProduct{}, fmt.Sprintf("%s: Missing width value", rowLabel), ""
	}
	width, err := parseNumber(widthStr)
	if err != nil {
		return model.StoneProduct{}, fmt.Sprintf("%s: Invalid width '%s'", rowLabel, widthStr), ""
	}

	priceStr := getCell(row, mapping.Price)
	if priceStr == "" {
		return model.StoneProduct{}, fmt.Sprintf("%s: Missing price value", rowLabel), ""
	}
	price, err := parseNumber(priceStr)
	if err != nil {
		return model.StoneProduct{}, fmt.Sprintf("%s: Invalid price '%s'", rowLabel, priceStr), ""
	}

	if width <= 0 || price < 0 {
		return model.StoneProduct{}, fmt.Sprintf("%s: Width must be positive and price non-negative", rowLabel), ""
	}

	var warning string
	thickness := 0.0
	if s := getCell(row, mapping.Thickness); s != "" {
		if v, err := parseNumber(s); err == nil && v >= 0 {
			thickness = v
		} else {
			warning = fmt.Sprintf("%s: Invalid thickness '%s', defaulting to 0", rowLabel, s)
		}
	}

	stone := model.NewStoneProduct(code, name, width, thickness, price)
	if s := getCell(row, mapping.Length); s != "" {
		if v, err := parseNumber(s); err == nil && v >= 0 {
			stone.LengthValue = v
		} else if warning == "" {
			warning = fmt.Sprintf("%s: Invalid length '%s', ignoring standard length", rowLabel, s)
		}
	}
	stone.ContractType = getCell(row, mapping.ContractType)

	return stone, "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports catalog stones from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports catalog stones from a CSV reader with a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports catalog stones from the first sheet of an .xlsx file.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// ImportFile dispatches on the file extension: .xlsx/.xlsm go to ImportExcel,
// everything else is read as CSV.
func ImportFile(path string) ImportResult {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xlsm") {
		return ImportExcel(path)
	}
	return ImportCSV(path)
}

// ApplyToInventory appends the imported stones to inv, skipping codes the
// inventory already carries. It returns the number of stones added.
func (r ImportResult) ApplyToInventory(inv *model.Inventory) int {
	added := 0
	for _, s := range r.Stones {
		if s.Code != "" && inv.FindStoneByCode(s.Code) != nil {
			continue
		}
		inv.Stones = append(inv.Stones, s)
		added++
	}
	return added
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Price == -1 {
			missing = append(missing, "Price")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		// An unrecognized header still has a non-numeric width cell.
		if _, err := parseNumber(rows[0][2]); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		stone, errMsg, warning := parseRow(row, mapping, rowLabel, len(result.Stones))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		result.Stones = append(result.Stones, stone)
	}

	return result
}
