package engine

import (
	"testing"

	"github.com/piwi3910/StoneQuote/internal/model"
	"github.com/stretchr/testify/assert"
)

var testRates = CuttingRates{Longitudinal: 150000, Cross: 120000}

func testDraft(kind model.PartKind) model.StairPartDraft {
	stone := model.NewStoneProduct("TRV-60", "Travertine", 60, 2, 1000000)
	d := model.NewStairPartDraft("sys-1", kind, 20)
	d.Stone = &stone
	d.Length = model.Dimension{Value: 120, Unit: model.UnitCm}
	d.Width = model.Dimension{Value: 25, Unit: model.UnitCm}
	d.Quantity = 10
	return d
}

func TestTotalsForDraft_Tread(t *testing.T) {
	res := TotalsForDraft(testDraft(model.PartTread), testRates)

	assert.Equal(t, 2, res.Usage.PiecesPerStone)
	assert.Equal(t, 5, res.Usage.BaseStoneQuantity)
	assert.InDelta(t, 3.0, res.SquareMeters, 1e-9)
	assert.InDelta(t, 3.6, res.PricingSquareMeters, 1e-9)
	assert.InDelta(t, 3600000.0, res.BasePrice, 1e-6)
	assert.Zero(t, res.MandatoryAmount, "treads start without markup")
	assert.InDelta(t, 900000.0, res.Cutting.BillableCuttingCost, 1e-6)
	assert.InDelta(t, 4500000.0, res.Total, 1e-6)
}

func TestTotalsForDraft_RiserMarkupAbsorbsCutting(t *testing.T) {
	res := TotalsForDraft(testDraft(model.PartRiser), testRates)

	assert.InDelta(t, 720000.0, res.MandatoryAmount, 1e-6)
	assert.InDelta(t, 4320000.0, res.MaterialPrice, 1e-6)
	assert.InDelta(t, 900000.0, res.Cutting.CuttingCost, 1e-6)
	assert.Zero(t, res.Cutting.BillableCuttingCost)
	assert.InDelta(t, 4320000.0, res.Total, 1e-6)
}

func TestTotalsForDraft_FinishingIsSeparate(t *testing.T) {
	d := testDraft(model.PartTread)
	d.Finishing = model.FinishingSelection{Enabled: true, Finishing: &model.StoneFinishing{ID: "f", PricePerSquareMeter: 400000}}
	res := TotalsForDraft(d, testRates)

	assert.InDelta(t, 1440000.0, res.FinishingCost, 1e-6)
	assert.InDelta(t, 4500000.0, res.Total, 1e-6)

	d.Finishing.Enabled = false
	assert.Zero(t, TotalsForDraft(d, testRates).FinishingCost)
}

func TestTotalsForDraft_StandardLengthPricing(t *testing.T) {
	d := testDraft(model.PartTread)
	d.Stone.LengthValue = 300
	res := TotalsForDraft(d, testRates)

	assert.InDelta(t, 3.0, res.SquareMeters, 1e-9)
	assert.InDelta(t, 9.0, res.PricingSquareMeters, 1e-9)
	assert.True(t, res.Cutting.NeedsLengthCut)
	assert.InDelta(t, 120000*0.25*5, res.Cutting.CuttingCostCross, 1e-6)
}

func TestTotalsForDraft_Tools(t *testing.T) {
	d := testDraft(model.PartTread)
	d.Tools = []model.PartTool{{Name: "Bullnose", PricePerMeter: 10000, Edges: model.EdgeSet{Front: true}}}
	res := TotalsForDraft(d, testRates)

	assert.InDelta(t, 120000.0, res.ToolsCost, 1e-6)
	assert.InDelta(t, 4620000.0, res.Total, 1e-6)
}

func TestCalculatePartTotals_UnknownOriginalWidth(t *testing.T) {
	res := CalculatePartTotals(PartTotalsInput{
		Kind:                model.PartTread,
		ActualLengthM:       1,
		PricingLengthM:      1,
		UserWidthCm:         30,
		Quantity:            4,
		PricePerSquareMeter: 1000,
	})
	assert.InDelta(t, 1.2, res.PricingSquareMeters, 1e-9)
	assert.InDelta(t, 1200.0, res.Total, 1e-9)
}

func TestCalculatePartTotals_InvalidInputIsZero(t *testing.T) {
	res := CalculatePartTotals(PartTotalsInput{Quantity: -3, ActualLengthM: -1})
	assert.Zero(t, res.SquareMeters)
	assert.Zero(t, res.PricingSquareMeters)
	assert.Zero(t, res.Total)
}

func TestCalculateLayerTotals(t *testing.T) {
	res := CalculateLayerTotals(0.5, 1000000, model.MandatoryPricing{Enabled: true, Percentage: 10})
	assert.InDelta(t, 500000.0, res.BasePrice, 1e-6)
	assert.InDelta(t, 50000.0, res.MandatoryAmount, 1e-6)
	assert.InDelta(t, 550000.0, res.Total, 1e-6)

	assert.Zero(t, CalculateLayerTotals(-1, 1000, model.MandatoryPricing{}).Total)
}
