package model

// LayerEdgeDemand is the number of layer strips of one length needed along one edge.
type LayerEdgeDemand struct {
	Edge         Edge    `json:"edge"`
	LayersNeeded int     `json:"layers_needed"`
	LengthM      float64 `json:"length_m"`
}

// SquareMeters returns the strip area of the demand for a given layer width.
func (d LayerEdgeDemand) SquareMeters(layerWidthCm float64) float64 {
	return float64(d.LayersNeeded) * d.LengthM * CmToM(layerWidthCm)
}

// EdgePriority orders demands during layer allocation. Lower goes first.
var EdgePriority = map[Edge]int{
	EdgeFront:     0,
	EdgeBack:      1,
	EdgeLeft:      2,
	EdgeRight:     3,
	EdgePerimeter: 4,
}

// LayerDemandInput holds what the resolver needs from a stair part draft.
type LayerDemandInput struct {
	Kind           PartKind
	Edges          EdgeSet
	LayersPerStair int
	Quantity       int
	LayerWidthCm   float64
	LengthM        float64
	WidthM         float64
}

// LayerDemandInputFromDraft extracts resolver input from a draft.
func LayerDemandInputFromDraft(d StairPartDraft) LayerDemandInput {
	return LayerDemandInput{
		Kind:           d.Kind,
		Edges:          d.Layers.Edges,
		LayersPerStair: d.Layers.NumberOfLayersPerStair,
		Quantity:       d.Quantity,
		LayerWidthCm:   d.Layers.LayerWidthCm,
		LengthM:        d.ActualLengthM(),
		WidthM:         d.Width.Meters(),
	}
}

// ResolveLayerDemands translates selected layer edges into per-edge strip demands.
//
// Every selected edge needs Quantity x LayersPerStair strips. On a landing a
// selected perimeter replaces the individual edges with one strip run of
// 2 x (length + width). Otherwise an edge loses one layer width at each end
// that meets a selected perpendicular edge, so shared corners are not counted
// twice. Treads and risers only take front, left and right layers.
func ResolveLayerDemands(in LayerDemandInput) []LayerEdgeDemand {
	if !in.Edges.HasAny() || in.LayersPerStair <= 0 || in.Quantity <= 0 || in.LayerWidthCm <= 0 {
		return nil
	}
	layerWidthM := CmToM(in.LayerWidthCm)
	if in.LengthM <= 0 || in.WidthM <= 0 || layerWidthM <= 0 {
		return nil
	}

	layers := in.Quantity * in.LayersPerStair
	var demands []LayerEdgeDemand
	add := func(edge Edge, length float64) {
		if length <= 0 {
			return
		}
		demands = append(demands, LayerEdgeDemand{Edge: edge, LayersNeeded: layers, LengthM: roundLength(length)})
	}

	e := in.Edges
	if in.Kind == PartLanding {
		if e.Perimeter {
			add(EdgePerimeter, 2*(in.LengthM+in.WidthM))
			return demands
		}
		// Front and back run along the width of a landing; left and right along its length.
		frontBack := in.WidthM
		if e.Left || e.Right {
			frontBack -= layerWidthM
		}
		sides := in.LengthM
		if e.Front || e.Back {
			sides -= layerWidthM
		}
		if e.Front {
			add(EdgeFront, frontBack)
		}
		if e.Back {
			add(EdgeBack, frontBack)
		}
		if e.Left {
			add(EdgeLeft, sides)
		}
		if e.Right {
			add(EdgeRight, sides)
		}
		return demands
	}

	if e.Front {
		add(EdgeFront, in.LengthM)
	}
	sides := in.WidthM
	if e.Front {
		sides -= layerWidthM
	}
	if e.Left {
		add(EdgeLeft, sides)
	}
	if e.Right {
		add(EdgeRight, sides)
	}
	return demands
}

// TotalLayersNeeded sums LayersNeeded over demands.
func TotalLayersNeeded(demands []LayerEdgeDemand) int {
	total := 0
	for _, d := range demands {
		total += d.LayersNeeded
	}
	return total
}
