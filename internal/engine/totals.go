package engine

import (
	"github.com/piwi3910/StoneQuote/internal/model"
)

// PartTotalsInput carries everything needed to price one stair part.
type PartTotalsInput struct {
	Kind                         model.PartKind
	ActualLengthM                float64
	PricingLengthM               float64
	UserWidthCm                  float64
	OriginalWidthCm              float64
	Quantity                     int
	PricePerSquareMeter          float64
	Mandatory                    model.MandatoryPricing
	Tools                        []model.PartTool
	Rates                        CuttingRates
	FinishingPricePerSquareMeter float64
}

// PartTotals is the priced breakdown of one stair part.
type PartTotals struct {
	Usage model.StonePieceUsage `json:"usage"`

	SquareMeters        float64 `json:"square_meters"`         // From the entered width
	PricingSquareMeters float64 `json:"pricing_square_meters"` // From the whole stones consumed

	BasePrice       float64 `json:"base_price"`
	MandatoryAmount float64 `json:"mandatory_amount"`
	MaterialPrice   float64 `json:"material_price"` // Base price plus markup

	Tools     []model.ToolCharge `json:"tools"`
	ToolsCost float64            `json:"tools_cost"`

	Cutting CuttingCost `json:"cutting"`

	FinishingCost float64 `json:"finishing_cost"`
	Total         float64 `json:"total"` // Excludes finishing
}

// CalculatePartTotals prices a stair part. Pricing area always reflects the
// whole catalog stones consumed, not just the visible cut area.
func CalculatePartTotals(in PartTotalsInput) PartTotals {
	qty := in.Quantity
	if qty < 0 {
		qty = 0
	}
	usage := model.CalculateStoneUsage(in.OriginalWidthCm, in.UserWidthCm, qty)
	res := PartTotals{Usage: usage}

	res.SquareMeters = positive(in.ActualLengthM) * model.CmToM(in.UserWidthCm) * float64(qty)

	pricingWidth := in.OriginalWidthCm
	pricingCount := usage.BaseStoneQuantity
	if pricingWidth <= 0 {
		pricingWidth = in.UserWidthCm
		pricingCount = qty
	}
	res.PricingSquareMeters = positive(in.PricingLengthM) * model.CmToM(pricingWidth) * float64(pricingCount)

	res.BasePrice = res.PricingSquareMeters * positive(in.PricePerSquareMeter)
	if in.Mandatory.Enabled {
		res.MandatoryAmount = res.BasePrice * positive(in.Mandatory.Percentage) / 100
	}
	res.MaterialPrice = res.BasePrice + res.MandatoryAmount

	res.Tools, res.ToolsCost = CalculateToolCosts(in.Kind, positive(in.ActualLengthM), model.CmToM(in.UserWidthCm), qty, in.Tools)

	res.Cutting = CalculateCuttingCost(CuttingInput{
		ActualLengthM:     in.ActualLengthM,
		PricingLengthM:    in.PricingLengthM,
		UserWidthCm:       in.UserWidthCm,
		OriginalWidthCm:   in.OriginalWidthCm,
		BaseStoneQuantity: usage.BaseStoneQuantity,
		Rates:             in.Rates,
		Mandatory:         in.Mandatory,
	})

	if in.FinishingPricePerSquareMeter > 0 {
		res.FinishingCost = res.PricingSquareMeters * in.FinishingPricePerSquareMeter
	}

	res.Total = res.MaterialPrice + res.ToolsCost + res.Cutting.BillableCuttingCost
	return res
}

// TotalsForDraft prices a draft with the given cutting rates.
func TotalsForDraft(d model.StairPartDraft, rates CuttingRates) PartTotals {
	var price float64
	if d.Stone != nil {
		price = d.Stone.BasePrice
	}
	return CalculatePartTotals(PartTotalsInput{
		Kind:                         d.Kind,
		ActualLengthM:                d.ActualLengthM(),
		PricingLengthM:               d.PricingLengthM(),
		UserWidthCm:                  d.WidthCm(),
		OriginalWidthCm:              d.OriginalWidthCm(),
		Quantity:                     d.Quantity,
		PricePerSquareMeter:          price,
		Mandatory:                    d.Mandatory,
		Tools:                        d.Tools,
		Rates:                        rates,
		FinishingPricePerSquareMeter: d.Finishing.PricePerSquareMeter(),
	})
}

// LayerTotals is the price of the layer strips that must be cut from new stone.
type LayerTotals struct {
	SquareMeters    float64 `json:"square_meters"`
	BasePrice       float64 `json:"base_price"`
	MandatoryAmount float64 `json:"mandatory_amount"`
	Total           float64 `json:"total"`
}

// CalculateLayerTotals prices layer strips. Strips reused from remaining
// stones are already paid for, so only the new-stone area is billed.
func CalculateLayerTotals(squareMetersFromNew, pricePerSquareMeter float64, mandatory model.MandatoryPricing) LayerTotals {
	res := LayerTotals{SquareMeters: positive(squareMetersFromNew)}
	res.BasePrice = res.SquareMeters * positive(pricePerSquareMeter)
	if mandatory.Enabled {
		res.MandatoryAmount = res.BasePrice * positive(mandatory.Percentage) / 100
	}
	res.Total = res.BasePrice + res.MandatoryAmount
	return res
}

func positive(v float64) float64 {
	if v > 0 {
		return v
	}
	return 0
}
