package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/StoneQuote/internal/model"
	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "Code,Width,Price\nTRV,60,2800000\nGRN,50,4500000\n", ','},
		{"semicolon", "Code;Width;Price\nTRV;60;2800000\nGRN;50;4500000\n", ';'},
		{"tab", "Code\tWidth\tPrice\nTRV\t60\t2800000\nGRN\t50\t4500000\n", '\t'},
		{"pipe", "Code|Width|Price\nTRV|60|2800000\nGRN|50|4500000\n", '|'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCSVDelimiter([]byte(tt.data)); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	row := []string{"Code", "Name", "Width", "Thickness", "Price", "Length", "Contract Type"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	want := ColumnMapping{Code: 0, Name: 1, Width: 2, Thickness: 3, Price: 4, Length: 5, ContractType: 6}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_AliasesAndOrder(t *testing.T) {
	row := []string{"PRICE PER M2", "SKU", "W", "Stone Name"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Price != 0 || mapping.Code != 1 || mapping.Width != 2 || mapping.Name != 3 {
		t.Errorf("unexpected mapping %+v", mapping)
	}
	if mapping.Thickness != -1 || mapping.Length != -1 {
		t.Errorf("absent columns should be -1, got %+v", mapping)
	}
}

func TestDetectColumns_PersianHeaders(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"نام", "عرض", "قیمت"})
	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Name != 0 || mapping.Width != 1 || mapping.Price != 2 {
		t.Errorf("unexpected mapping %+v", mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"TRV-60", "Travertine", "60", "2", "2800000"})
	if isHeader {
		t.Error("expected no header")
	}
	if mapping.Code != 0 || mapping.Width != 2 || mapping.Price != 4 {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	data := "Code,Name,Width,Thickness,Price,Length,Contract\n" +
		"TRV-60,Travertine,60,2,2800000,120,retail\n" +
		"GRN-50,Granite,50,3,4500000,,\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Stones) != 2 {
		t.Fatalf("expected 2 stones, got %d", len(result.Stones))
	}
	s := result.Stones[0]
	if s.Code != "TRV-60" || s.NamePersian != "Travertine" {
		t.Errorf("unexpected identity %s/%s", s.Code, s.NamePersian)
	}
	if s.WidthValue != 60 || s.ThicknessValue != 2 || s.BasePrice != 2800000 {
		t.Errorf("unexpected dimensions %+v", s)
	}
	if s.LengthValue != 120 || s.ContractType != "retail" {
		t.Errorf("unexpected optional fields %+v", s)
	}
	if s.ID == "" {
		t.Error("expected a generated ID")
	}
	if result.Stones[1].LengthValue != 0 {
		t.Errorf("expected no standard length, got %f", result.Stones[1].LengthValue)
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	data := "TRV-60,Travertine,60,2,2800000\nGRN-50,Granite,50,2,4500000\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Stones) != 2 {
		t.Fatalf("expected 2 stones, got %d (errors: %v)", len(result.Stones), result.Errors)
	}
}

func TestImportCSVFromReader_UnknownHeaderSkipped(t *testing.T) {
	data := "foo;bar;baz;qux;quux\nTRV;Travertine;60;2;2800000\n"
	result := ImportCSVFromReader(strings.NewReader(data), ';')

	if len(result.Stones) != 1 {
		t.Fatalf("expected 1 stone, got %d (errors: %v)", len(result.Stones), result.Errors)
	}
}

func TestImportCSVFromReader_ThousandsSeparators(t *testing.T) {
	data := "Code,Width,Price\nTRV,60,\"2,800,000\"\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Stones) != 1 {
		t.Fatalf("expected 1 stone, got %d (errors: %v)", len(result.Stones), result.Errors)
	}
	if result.Stones[0].BasePrice != 2800000 {
		t.Errorf("expected price 2800000, got %f", result.Stones[0].BasePrice)
	}
}

func TestImportCSVFromReader_RowErrors(t *testing.T) {
	data := "Code,Width,Price\n" +
		"A,abc,100\n" +
		"B,60,\n" +
		"C,0,100\n" +
		"D,60,-5\n" +
		"E,60,100\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) != 4 {
		t.Errorf("expected 4 errors, got %d: %v", len(result.Errors), result.Errors)
	}
	if len(result.Stones) != 1 || result.Stones[0].Code != "E" {
		t.Errorf("expected only stone E, got %+v", result.Stones)
	}
	if !strings.Contains(result.Errors[0], "Line 2") {
		t.Errorf("expected line number in error, got %q", result.Errors[0])
	}
}

func TestImportCSVFromReader_MissingRequiredColumn(t *testing.T) {
	data := "Code,Name,Width\nTRV,Travertine,60\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Price") {
		t.Errorf("expected missing Price error, got %v", result.Errors)
	}
}

func TestImportCSVFromReader_InvalidThicknessWarns(t *testing.T) {
	data := "Code,Width,Thickness,Price\nTRV,60,thick,100\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Stones) != 1 {
		t.Fatalf("expected 1 stone, got %d", len(result.Stones))
	}
	if result.Stones[0].ThicknessValue != 0 {
		t.Errorf("expected thickness 0, got %f", result.Stones[0].ThicknessValue)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "thickness") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected thickness warning, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_EmptyAndBlankRows(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',')
	if len(result.Errors) == 0 {
		t.Error("expected error for empty input")
	}

	data := "Code,Width,Price\n\nTRV,60,100\n,,\n"
	result = ImportCSVFromReader(strings.NewReader(data), ',')
	if len(result.Stones) != 1 {
		t.Errorf("expected 1 stone, got %d (errors: %v)", len(result.Stones), result.Errors)
	}
}

func TestImportCSVFromReader_NameDefaultsToCode(t *testing.T) {
	data := "Code,Width,Price\nTRV,60,100\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')
	if len(result.Stones) != 1 || result.Stones[0].NamePersian != "TRV" {
		t.Errorf("expected name to default to code, got %+v", result.Stones)
	}
}

func TestImportCSV_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stones.csv")
	if err := os.WriteFile(path, []byte("Code;Width;Price\nTRV;60;100\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportFile(path)
	if len(result.Stones) != 1 {
		t.Fatalf("expected 1 stone, got %d (errors: %v)", len(result.Stones), result.Errors)
	}
	if len(result.Warnings) == 0 || !strings.Contains(result.Warnings[0], "semicolon") {
		t.Errorf("expected semicolon warning, got %v", result.Warnings)
	}
}

func TestImportCSV_FileErrors(t *testing.T) {
	if result := ImportCSV("/nonexistent/path/file.csv"); len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}

	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	if result := ImportCSV(path); len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

func TestApplyToInventory(t *testing.T) {
	inv := model.Inventory{Stones: []model.StoneProduct{model.NewStoneProduct("TRV-60", "Travertine", 60, 2, 100)}}
	result := ImportResult{Stones: []model.StoneProduct{
		model.NewStoneProduct("trv-60", "dup", 60, 2, 200),
		model.NewStoneProduct("GRN-50", "Granite", 50, 2, 300),
	}}

	if added := result.ApplyToInventory(&inv); added != 1 {
		t.Errorf("expected 1 added, got %d", added)
	}
	if len(inv.Stones) != 2 || inv.Stones[0].BasePrice != 100 {
		t.Errorf("existing stone should be kept, got %+v", inv.Stones)
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stones.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Code", "Name", "Width", "Thickness", "Price"},
		{"TRV-60", "Travertine", 60, 2, 2800000},
		{"GRN-50", "Granite", 50, 3, 4500000},
	})

	result := ImportFile(path)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Stones) != 2 {
		t.Fatalf("expected 2 stones, got %d", len(result.Stones))
	}
	if result.Stones[1].BasePrice != 4500000 || result.Stones[1].ThicknessValue != 3 {
		t.Errorf("unexpected stone %+v", result.Stones[1])
	}
}

func TestImportExcel_Errors(t *testing.T) {
	if result := ImportExcel("/nonexistent/file.xlsx"); len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}

	path := createTestExcel(t, [][]interface{}{
		{"Code", "Width", "Price"},
		{"TRV", "wide", 100},
	})
	if result := ImportExcel(path); len(result.Errors) == 0 {
		t.Error("expected error for invalid width")
	}
}
