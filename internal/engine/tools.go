package engine

import (
	"github.com/piwi3910/StoneQuote/internal/model"
)

// ToolMeters returns the meters a tool runs along one piece. Front and back
// run along the length, left and right along the width. A landing turns
// that around, the same way its layer demands do, and its perimeter flag
// overrides the individual edges. A tool without any edge flag runs along
// the length.
func ToolMeters(kind model.PartKind, lengthM, widthM float64, edges model.EdgeSet) float64 {
	if lengthM < 0 {
		lengthM = 0
	}
	if widthM < 0 {
		widthM = 0
	}
	frontBack, sides := lengthM, widthM
	if kind == model.PartLanding {
		if edges.Perimeter {
			return 2 * (lengthM + widthM)
		}
		frontBack, sides = widthM, lengthM
	}

	var meters float64
	if edges.Front {
		meters += frontBack
	}
	if edges.Back {
		meters += frontBack
	}
	if edges.Left {
		meters += sides
	}
	if edges.Right {
		meters += sides
	}
	if !edges.Front && !edges.Back && !edges.Left && !edges.Right {
		meters = lengthM
	}
	return meters
}

// CalculateToolCosts prices every tool for quantity pieces and returns the
// per-tool charges with their sum.
func CalculateToolCosts(kind model.PartKind, lengthM, widthM float64, quantity int, tools []model.PartTool) ([]model.ToolCharge, float64) {
	if quantity <= 0 || len(tools) == 0 {
		return nil, 0
	}
	charges := make([]model.ToolCharge, 0, len(tools))
	var total float64
	for _, t := range tools {
		meters := ToolMeters(kind, lengthM, widthM, t.Edges) * float64(quantity)
		cost := meters * t.PricePerMeter
		charges = append(charges, model.ToolCharge{
			Name:          t.Name,
			Meters:        meters,
			PricePerMeter: t.PricePerMeter,
			Cost:          cost,
		})
		total += cost
	}
	return charges, total
}
