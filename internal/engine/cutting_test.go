package engine

import (
	"testing"

	"github.com/piwi3910/StoneQuote/internal/model"
	"github.com/stretchr/testify/assert"
)

type fakeRates map[string]float64

func (f fakeRates) CuttingRate(code string) (float64, bool) {
	r, ok := f[code]
	return r, ok
}

func TestResolveCuttingRates(t *testing.T) {
	rates := ResolveCuttingRates(fakeRates{"LONG": 150000, "CROSS": 120000})
	assert.Equal(t, CuttingRates{Longitudinal: 150000, Cross: 120000}, rates)

	rates = ResolveCuttingRates(fakeRates{"LONG": 150000})
	assert.Equal(t, 150000.0, rates.Cross, "cross falls back to long")

	assert.Equal(t, CuttingRates{}, ResolveCuttingRates(fakeRates{}))
	assert.Equal(t, CuttingRates{}, ResolveCuttingRates(nil))

	inv := model.DefaultInventory()
	assert.Equal(t, 150000.0, ResolveCuttingRates(&inv).Longitudinal)
}

func TestCalculateCuttingCost_WidthAndLengthCuts(t *testing.T) {
	res := CalculateCuttingCost(CuttingInput{
		ActualLengthM:     1.2,
		PricingLengthM:    3.0,
		UserWidthCm:       25,
		OriginalWidthCm:   60,
		BaseStoneQuantity: 5,
		Rates:             CuttingRates{Longitudinal: 100, Cross: 50},
	})

	assert.True(t, res.NeedsWidthCut)
	assert.True(t, res.NeedsLengthCut)
	assert.InDelta(t, 600.0, res.CuttingCostLongitudinal, 1e-9) // 100 * 1.2 * 5
	assert.InDelta(t, 62.5, res.CuttingCostCross, 1e-9)         // 50 * 0.25 * 5
	assert.InDelta(t, res.CuttingCostLongitudinal+res.CuttingCostCross, res.CuttingCost, 1e-9)
	assert.True(t, res.ShouldChargeCuttingCost)
	assert.Equal(t, res.CuttingCost, res.BillableCuttingCost)
	assert.Equal(t, 100.0, res.RatePerMeter, "longitudinal rate is preferred")

	entries := res.Breakdown()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, model.CuttingLongitudinal, entries[0].Type)
		assert.Equal(t, model.CuttingCross, entries[1].Type)
	}
}

func TestCalculateCuttingCost_NoCutsNeeded(t *testing.T) {
	res := CalculateCuttingCost(CuttingInput{
		ActualLengthM:     1.2,
		PricingLengthM:    1.2,
		UserWidthCm:       60,
		OriginalWidthCm:   60,
		BaseStoneQuantity: 3,
		Rates:             CuttingRates{Longitudinal: 100, Cross: 50},
	})
	assert.False(t, res.NeedsWidthCut)
	assert.False(t, res.NeedsLengthCut)
	assert.Zero(t, res.CuttingCost)
	assert.Zero(t, res.RatePerMeter)
	assert.Empty(t, res.Breakdown())
	assert.Empty(t, res.ToolCharges())
}

func TestCalculateCuttingCost_LengthCutThreshold(t *testing.T) {
	in := CuttingInput{
		ActualLengthM:     1.0,
		PricingLengthM:    1.00005,
		UserWidthCm:       30,
		OriginalWidthCm:   30,
		BaseStoneQuantity: 1,
		Rates:             CuttingRates{Longitudinal: 100, Cross: 50},
	}
	assert.False(t, CalculateCuttingCost(in).NeedsLengthCut)

	in.PricingLengthM = 1.001
	res := CalculateCuttingCost(in)
	assert.True(t, res.NeedsLengthCut)
	assert.Equal(t, 50.0, res.RatePerMeter)
}

func TestCalculateCuttingCost_MandatoryMarkupSuppressesBilling(t *testing.T) {
	// Rate 100,000 over 1 m of one stone: gross cutting cost of 100,000.
	res := CalculateCuttingCost(CuttingInput{
		ActualLengthM:     1,
		PricingLengthM:    1,
		UserWidthCm:       30,
		OriginalWidthCm:   60,
		BaseStoneQuantity: 1,
		Rates:             CuttingRates{Longitudinal: 100000, Cross: 100000},
		Mandatory:         model.MandatoryPricing{Enabled: true, Percentage: 20},
	})

	assert.False(t, res.ShouldChargeCuttingCost)
	assert.InDelta(t, 100000.0, res.CuttingCost, 1e-9)
	assert.Zero(t, res.BillableCuttingCost)
	assert.Zero(t, res.BillableCuttingCostLongitudinal)
	assert.Zero(t, res.BillableCuttingCostCross)

	charges := res.ToolCharges()
	if assert.Len(t, charges, 1) {
		assert.True(t, charges[0].Cutting)
		assert.Zero(t, charges[0].Cost)
		assert.Equal(t, "Cutting: longitudinal", charges[0].Name)
	}
}

func TestShouldChargeCuttingCost(t *testing.T) {
	tests := []struct {
		name string
		m    model.MandatoryPricing
		want bool
	}{
		{"disabled", model.MandatoryPricing{Enabled: false, Percentage: 20}, true},
		{"enabled zero percent", model.MandatoryPricing{Enabled: true, Percentage: 0}, true},
		{"enabled", model.MandatoryPricing{Enabled: true, Percentage: 20}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldChargeCuttingCost(tt.m))
		})
	}
}

func TestCalculateCuttingCost_BillableIsGrossOrZero(t *testing.T) {
	for _, pct := range []float64{0, 10, 20} {
		for _, enabled := range []bool{false, true} {
			res := CalculateCuttingCost(CuttingInput{
				ActualLengthM:     2,
				PricingLengthM:    3,
				UserWidthCm:       20,
				OriginalWidthCm:   50,
				BaseStoneQuantity: 4,
				Rates:             CuttingRates{Longitudinal: 70, Cross: 30},
				Mandatory:         model.MandatoryPricing{Enabled: enabled, Percentage: pct},
			})
			if res.BillableCuttingCost != 0 {
				assert.Equal(t, res.CuttingCost, res.BillableCuttingCost)
			} else {
				assert.True(t, enabled && pct > 0)
			}
		}
	}
}

func TestCalculateCuttingCost_InvalidInput(t *testing.T) {
	res := CalculateCuttingCost(CuttingInput{UserWidthCm: 20, OriginalWidthCm: 60, ActualLengthM: 1})
	assert.Zero(t, res.CuttingCost)
	assert.False(t, res.NeedsWidthCut)

	res = CalculateCuttingCost(CuttingInput{UserWidthCm: 0, OriginalWidthCm: 60, ActualLengthM: 1, PricingLengthM: 2, BaseStoneQuantity: 1})
	assert.False(t, res.NeedsWidthCut)
	assert.False(t, res.NeedsLengthCut)
}
