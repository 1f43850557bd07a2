package session

import (
	"github.com/piwi3910/StoneQuote/internal/model"
	"github.com/shopspring/decimal"
)

// Totals are the grand totals of a session.
type Totals struct {
	Items               int     `json:"items"`
	Parts               int     `json:"parts"`
	Layers              int     `json:"layers"`
	RemainingStoneItems int     `json:"remaining_stone_items"`
	SquareMeters        float64 `json:"square_meters"`
	PricingSquareMeters float64 `json:"pricing_square_meters"`

	MaterialPrice   decimal.Decimal `json:"material_price"`
	MandatoryAmount decimal.Decimal `json:"mandatory_amount"`
	ToolsCost       decimal.Decimal `json:"tools_cost"`
	CuttingCost     decimal.Decimal `json:"cutting_cost"`
	FinishingCost   decimal.Decimal `json:"finishing_cost"`
	Subtotal        decimal.Decimal `json:"subtotal"`    // Line item totals, finishing excluded
	GrandTotal      decimal.Decimal `json:"grand_total"` // Subtotal plus finishing

	RemainingStoneArea float64 `json:"remaining_stone_area"` // Available offcuts, m²
}

func sumTotals(products []model.ContractProduct, remaining []model.RemainingStone) Totals {
	t := Totals{
		MaterialPrice:   decimal.Zero,
		MandatoryAmount: decimal.Zero,
		ToolsCost:       decimal.Zero,
		CuttingCost:     decimal.Zero,
		FinishingCost:   decimal.Zero,
		Subtotal:        decimal.Zero,
	}
	for _, p := range products {
		t.Items++
		switch p.Type {
		case model.ProductStairPart:
			t.Parts++
		case model.ProductLayer:
			t.Layers++
		case model.ProductRemainingStone:
			t.RemainingStoneItems++
		}
		t.SquareMeters += p.SquareMeters
		t.PricingSquareMeters += p.PricingSquareMeters
		t.MaterialPrice = t.MaterialPrice.Add(p.MaterialPrice)
		t.MandatoryAmount = t.MandatoryAmount.Add(p.MandatoryAmount)
		t.ToolsCost = t.ToolsCost.Add(p.ToolsCost)
		t.CuttingCost = t.CuttingCost.Add(p.CuttingCost)
		t.FinishingCost = t.FinishingCost.Add(p.FinishingCost)
		t.Subtotal = t.Subtotal.Add(p.TotalPrice)
	}
	t.GrandTotal = t.Subtotal.Add(t.FinishingCost)
	t.RemainingStoneArea = model.TotalRemainingArea(remaining)
	return t
}

// ContractTotals sums the line items of a saved contract.
func ContractTotals(c model.Contract) Totals {
	return sumTotals(c.Products, c.RemainingStones)
}
