package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/StoneQuote/internal/engine"
	"github.com/piwi3910/StoneQuote/internal/model"
	"github.com/piwi3910/StoneQuote/internal/session"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildTestContract(t *testing.T, withLayers bool) model.Contract {
	t.Helper()
	s := session.New(engine.CuttingRates{Longitudinal: 150000, Cross: 120000}, session.WithName("Villa"))

	stone := model.NewStoneProduct("TRV-60", "Travertine", 60, 2, 1000000)
	d := model.NewStairPartDraft("sys-1", model.PartTread, 20)
	d.Stone = &stone
	d.Length = model.Dimension{Value: 120, Unit: model.UnitCm}
	d.Width = model.Dimension{Value: 25, Unit: model.UnitCm}
	d.Quantity = 10
	if withLayers {
		d.Layers = model.LayerConfig{NumberOfLayersPerStair: 1, LayerWidthCm: 5, Edges: model.EdgeSet{Front: true}}
	}

	_, err := s.Materialize(d)
	require.NoError(t, err)
	return s.Contract()
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "4,860,000 IRR", FormatAmount(decimal.NewFromInt(4860000), "IRR"))
	assert.Equal(t, "1,235", FormatAmount(decimal.NewFromFloat(1234.6), ""))
	assert.Equal(t, "0", FormatAmount(decimal.Zero, ""))
	assert.Equal(t, "1,234.50", FormatNumber(1234.5, 2))
}

func TestCollectLabelInfos(t *testing.T) {
	usable := model.NewRemainingStone("cut-1", 10, 1.2, 3)
	usable.StoneName = "Travertine"
	used := model.NewRemainingStone("cut-1", 10, 1.2, 2)
	used.IsAvailable = false

	labels := CollectLabelInfos([]model.RemainingStone{usable, used})
	require.Len(t, labels, 3)
	for i, l := range labels {
		assert.Equal(t, usable.ID, l.StoneID)
		assert.Equal(t, i+1, l.Piece)
		assert.Equal(t, 3, l.Pieces)
		assert.Equal(t, "cut-1", l.SourceCutID)
	}
}

func TestExportLabels(t *testing.T) {
	c := buildTestContract(t, false)
	path := filepath.Join(t.TempDir(), "labels.pdf")

	require.NoError(t, ExportLabels(path, c.RemainingStones))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(500))
}

func TestExportLabels_ManyPages(t *testing.T) {
	stone := model.NewRemainingStone("cut-1", 10, 1.2, 45)
	var buf bytes.Buffer
	require.NoError(t, WriteLabels(&buf, []model.RemainingStone{stone}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestExportLabels_NoStones(t *testing.T) {
	err := ExportLabels(filepath.Join(t.TempDir(), "empty.pdf"), nil)
	assert.Error(t, err)
}

func TestExportCuttingSheet(t *testing.T) {
	for _, withLayers := range []bool{false, true} {
		r := NewReport(buildTestContract(t, withLayers), "IRR")
		path := filepath.Join(t.TempDir(), "cutting.pdf")

		require.NoError(t, ExportCuttingSheet(path, r))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(500))
	}
}

func TestWriteCuttingSheet_ManyRows(t *testing.T) {
	c := buildTestContract(t, true)
	part := c.Products[0]
	for i := 0; i < 60; i++ {
		c.Products = append(c.Products, part)
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCuttingSheet(&buf, NewReport(c, "")))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestExportCuttingSheet_Empty(t *testing.T) {
	err := ExportCuttingSheet(filepath.Join(t.TempDir(), "x.pdf"), NewReport(model.NewContract("x"), ""))
	assert.Error(t, err)
}

func TestNewReportTotals(t *testing.T) {
	r := NewReport(buildTestContract(t, false), "IRR")
	assert.Equal(t, 1, r.Totals.Parts)
	assert.True(t, r.Totals.GrandTotal.Equal(decimal.NewFromInt(4500000)), "got %s", r.Totals.GrandTotal)
	assert.InDelta(t, 0.6, r.Totals.RemainingStoneArea, 1e-9)
}

func TestBuildWorkbook(t *testing.T) {
	r := NewReport(buildTestContract(t, false), "IRR")

	f, err := BuildWorkbook(r)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{itemsSheet, remainingSheet}, f.GetSheetList())

	v, err := f.GetCellValue(itemsSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "ID", v)

	v, _ = f.GetCellValue(itemsSheet, "B2")
	assert.Equal(t, "stair_part", v)

	v, _ = f.GetCellValue(itemsSheet, "A4")
	assert.Equal(t, "Grand total", v)
	v, _ = f.GetCellValue(itemsSheet, "T4", excelize.Options{RawCellValue: true})
	assert.Equal(t, "4500000", v)

	rows, err := f.GetRows(remainingSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Travertine", rows[1][1])
}

func TestExportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quote.xlsx")
	require.NoError(t, ExportXLSX(path, NewReport(buildTestContract(t, true), "IRR")))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(itemsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 5) // header, part, layer, total, grand total

	assert.Error(t, ExportXLSX(path, NewReport(model.NewContract("x"), "")))
}
