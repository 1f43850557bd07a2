package engine

import (
	"github.com/piwi3910/StoneQuote/internal/model"
)

// lengthEpsilon is the smallest pricing/actual length difference that
// still requires a cross cut, in meters.
const lengthEpsilon = model.LengthTolerance

// CuttingRates holds the per-meter prices of the two cut directions.
type CuttingRates struct {
	Longitudinal float64 `json:"longitudinal"`
	Cross        float64 `json:"cross"`
}

// RateLookup resolves a cutting-type code to its per-meter price.
// *model.Inventory satisfies it.
type RateLookup interface {
	CuttingRate(code string) (float64, bool)
}

// ResolveCuttingRates looks up the LONG and CROSS rates. A missing CROSS
// rate falls back to the LONG rate.
func ResolveCuttingRates(lookup RateLookup) CuttingRates {
	var rates CuttingRates
	if lookup == nil {
		return rates
	}
	if r, ok := lookup.CuttingRate(model.CuttingCodeLong); ok {
		rates.Longitudinal = r
	}
	if r, ok := lookup.CuttingRate(model.CuttingCodeCross); ok {
		rates.Cross = r
	} else {
		rates.Cross = rates.Longitudinal
	}
	return rates
}

// CuttingInput describes the cuts needed to turn catalog stones into
// finished pieces.
type CuttingInput struct {
	ActualLengthM     float64
	PricingLengthM    float64
	UserWidthCm       float64
	OriginalWidthCm   float64
	BaseStoneQuantity int
	Rates             CuttingRates
	Mandatory         model.MandatoryPricing
}

// CuttingCost is the result of CalculateCuttingCost. The gross figures are
// always filled; the billable ones are zero while a mandatory markup is active.
type CuttingCost struct {
	NeedsWidthCut  bool `json:"needs_width_cut"`
	NeedsLengthCut bool `json:"needs_length_cut"`

	LongitudinalMeters float64 `json:"longitudinal_meters"`
	CrossMeters        float64 `json:"cross_meters"`

	CuttingCostLongitudinal float64 `json:"cutting_cost_longitudinal"`
	CuttingCostCross        float64 `json:"cutting_cost_cross"`
	CuttingCost             float64 `json:"cutting_cost"`

	ShouldChargeCuttingCost         bool    `json:"should_charge_cutting_cost"`
	BillableCuttingCostLongitudinal float64 `json:"billable_cutting_cost_longitudinal"`
	BillableCuttingCostCross        float64 `json:"billable_cutting_cost_cross"`
	BillableCuttingCost             float64 `json:"billable_cutting_cost"`

	LongitudinalRate float64 `json:"longitudinal_rate"`
	CrossRate        float64 `json:"cross_rate"`
	RatePerMeter     float64 `json:"rate_per_meter"` // Longitudinal when a width cut is needed, else cross
}

// ShouldChargeCuttingCost reports whether cutting is billed separately.
// An active mandatory markup absorbs the cutting cost.
//
// TODO: confirm with the pricing owner that an active markup absorbs cutting entirely.
func ShouldChargeCuttingCost(m model.MandatoryPricing) bool {
	return !m.Active()
}

// CalculateCuttingCost computes longitudinal and cross cutting costs.
// Invalid input yields a zero result.
func CalculateCuttingCost(in CuttingInput) CuttingCost {
	res := CuttingCost{
		ShouldChargeCuttingCost: ShouldChargeCuttingCost(in.Mandatory),
		LongitudinalRate:        in.Rates.Longitudinal,
		CrossRate:               in.Rates.Cross,
	}
	if in.BaseStoneQuantity <= 0 {
		return res
	}
	baseQty := float64(in.BaseStoneQuantity)

	res.NeedsWidthCut = in.UserWidthCm > 0 && in.UserWidthCm < in.OriginalWidthCm && in.ActualLengthM > 0
	res.NeedsLengthCut = in.PricingLengthM-in.ActualLengthM > lengthEpsilon && in.UserWidthCm > 0

	if res.NeedsWidthCut {
		res.LongitudinalMeters = in.ActualLengthM * baseQty
		res.CuttingCostLongitudinal = in.Rates.Longitudinal * res.LongitudinalMeters
	}
	if res.NeedsLengthCut {
		res.CrossMeters = model.CmToM(in.UserWidthCm) * baseQty
		res.CuttingCostCross = in.Rates.Cross * res.CrossMeters
	}
	res.CuttingCost = res.CuttingCostLongitudinal + res.CuttingCostCross

	if res.ShouldChargeCuttingCost {
		res.BillableCuttingCostLongitudinal = res.CuttingCostLongitudinal
		res.BillableCuttingCostCross = res.CuttingCostCross
		res.BillableCuttingCost = res.CuttingCost
	}

	switch {
	case res.NeedsWidthCut:
		res.RatePerMeter = in.Rates.Longitudinal
	case res.NeedsLengthCut:
		res.RatePerMeter = in.Rates.Cross
	}
	return res
}

// Breakdown returns one audit entry per cut direction that was needed.
func (c CuttingCost) Breakdown() []model.CuttingBreakdownEntry {
	var entries []model.CuttingBreakdownEntry
	if c.NeedsWidthCut {
		entries = append(entries, model.CuttingBreakdownEntry{
			Type:   model.CuttingLongitudinal,
			Meters: c.LongitudinalMeters,
			Rate:   c.LongitudinalRate,
			Cost:   c.CuttingCostLongitudinal,
		})
	}
	if c.NeedsLengthCut {
		entries = append(entries, model.CuttingBreakdownEntry{
			Type:   model.CuttingCross,
			Meters: c.CrossMeters,
			Rate:   c.CrossRate,
			Cost:   c.CuttingCostCross,
		})
	}
	return entries
}

// ToolCharges renders the cuts as tool entries so they show up next to the
// regular tools in a cost breakdown. Costs are the billable amounts.
func (c CuttingCost) ToolCharges() []model.ToolCharge {
	var charges []model.ToolCharge
	if c.NeedsWidthCut {
		charges = append(charges, model.ToolCharge{
			Name:          "Cutting: " + string(model.CuttingLongitudinal),
			Meters:        c.LongitudinalMeters,
			PricePerMeter: c.LongitudinalRate,
			Cost:          c.BillableCuttingCostLongitudinal,
			Cutting:       true,
		})
	}
	if c.NeedsLengthCut {
		charges = append(charges, model.ToolCharge{
			Name:          "Cutting: " + string(model.CuttingCross),
			Meters:        c.CrossMeters,
			PricePerMeter: c.CrossRate,
			Cost:          c.BillableCuttingCostCross,
			Cutting:       true,
		})
	}
	return charges
}
