package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findDemand(demands []LayerEdgeDemand, edge Edge) *LayerEdgeDemand {
	for i := range demands {
		if demands[i].Edge == edge {
			return &demands[i]
		}
	}
	return nil
}

func TestResolveLayerDemands_LandingFrontLeftExample(t *testing.T) {
	demands := ResolveLayerDemands(LayerDemandInput{
		Kind:           PartLanding,
		Edges:          EdgeSet{Front: true, Left: true},
		LayersPerStair: 1,
		Quantity:       4,
		LayerWidthCm:   15,
		LengthM:        2,
		WidthM:         1.5,
	})
	require.Len(t, demands, 2)

	front := findDemand(demands, EdgeFront)
	require.NotNil(t, front)
	assert.InDelta(t, 1.35, front.LengthM, 1e-9)
	assert.Equal(t, 4, front.LayersNeeded)

	left := findDemand(demands, EdgeLeft)
	require.NotNil(t, left)
	assert.InDelta(t, 1.85, left.LengthM, 1e-9)
	assert.Equal(t, 4, left.LayersNeeded)
}

func TestResolveLayerDemands_LandingPerimeterIsExclusive(t *testing.T) {
	demands := ResolveLayerDemands(LayerDemandInput{
		Kind:           PartLanding,
		Edges:          EdgeSet{Perimeter: true, Front: true, Back: true, Left: true, Right: true},
		LayersPerStair: 2,
		Quantity:       1,
		LayerWidthCm:   10,
		LengthM:        2,
		WidthM:         1.5,
	})
	require.Len(t, demands, 1)
	assert.Equal(t, EdgePerimeter, demands[0].Edge)
	assert.InDelta(t, 7.0, demands[0].LengthM, 1e-9)
	assert.Equal(t, 2, demands[0].LayersNeeded)
}

func TestResolveLayerDemands_LandingWithoutPerpendicularEdges(t *testing.T) {
	demands := ResolveLayerDemands(LayerDemandInput{
		Kind:           PartLanding,
		Edges:          EdgeSet{Front: true, Back: true},
		LayersPerStair: 1,
		Quantity:       1,
		LayerWidthCm:   10,
		LengthM:        2,
		WidthM:         1.5,
	})
	require.Len(t, demands, 2)
	for _, d := range demands {
		assert.InDelta(t, 1.5, d.LengthM, 1e-9, "no corner deduction without left/right")
	}
}

func TestResolveLayerDemands_TreadFrontAndSides(t *testing.T) {
	demands := ResolveLayerDemands(LayerDemandInput{
		Kind:           PartTread,
		Edges:          EdgeSet{Front: true, Left: true, Right: true},
		LayersPerStair: 1,
		Quantity:       10,
		LayerWidthCm:   5,
		LengthM:        1.2,
		WidthM:         0.3,
	})
	require.Len(t, demands, 3)
	assert.InDelta(t, 1.2, findDemand(demands, EdgeFront).LengthM, 1e-9)
	assert.InDelta(t, 0.25, findDemand(demands, EdgeLeft).LengthM, 1e-9)
	assert.InDelta(t, 0.25, findDemand(demands, EdgeRight).LengthM, 1e-9)
	for _, d := range demands {
		assert.Equal(t, 10, d.LayersNeeded)
	}
}

func TestResolveLayerDemands_TreadSidesWithoutFront(t *testing.T) {
	demands := ResolveLayerDemands(LayerDemandInput{
		Kind:           PartRiser,
		Edges:          EdgeSet{Left: true},
		LayersPerStair: 2,
		Quantity:       3,
		LayerWidthCm:   5,
		LengthM:        1.2,
		WidthM:         0.18,
	})
	require.Len(t, demands, 1)
	assert.InDelta(t, 0.18, demands[0].LengthM, 1e-9)
	assert.Equal(t, 6, demands[0].LayersNeeded)
}

func TestResolveLayerDemands_TreadIgnoresBackAndPerimeter(t *testing.T) {
	demands := ResolveLayerDemands(LayerDemandInput{
		Kind:           PartTread,
		Edges:          EdgeSet{Back: true, Perimeter: true},
		LayersPerStair: 1,
		Quantity:       1,
		LayerWidthCm:   5,
		LengthM:        1.2,
		WidthM:         0.3,
	})
	assert.Empty(t, demands)
}

func TestResolveLayerDemands_InvalidInputIsEmpty(t *testing.T) {
	base := LayerDemandInput{
		Kind:           PartTread,
		Edges:          EdgeSet{Front: true},
		LayersPerStair: 1,
		Quantity:       1,
		LayerWidthCm:   5,
		LengthM:        1.2,
		WidthM:         0.3,
	}
	require.Len(t, ResolveLayerDemands(base), 1)

	mutations := []func(*LayerDemandInput){
		func(in *LayerDemandInput) { in.Edges = EdgeSet{} },
		func(in *LayerDemandInput) { in.LayersPerStair = 0 },
		func(in *LayerDemandInput) { in.Quantity = 0 },
		func(in *LayerDemandInput) { in.LayerWidthCm = 0 },
		func(in *LayerDemandInput) { in.LengthM = 0 },
		func(in *LayerDemandInput) { in.WidthM = -1 },
	}
	for i, mutate := range mutations {
		in := base
		mutate(&in)
		assert.Empty(t, ResolveLayerDemands(in), "mutation %d", i)
	}
}

func TestResolveLayerDemands_DropsNonPositiveLengths(t *testing.T) {
	// Side length 0.05 minus a 5cm front layer leaves nothing.
	demands := ResolveLayerDemands(LayerDemandInput{
		Kind:           PartTread,
		Edges:          EdgeSet{Front: true, Left: true},
		LayersPerStair: 1,
		Quantity:       1,
		LayerWidthCm:   5,
		LengthM:        1,
		WidthM:         0.05,
	})
	require.Len(t, demands, 1)
	assert.Equal(t, EdgeFront, demands[0].Edge)
}

func TestTotalLayersNeeded(t *testing.T) {
	demands := []LayerEdgeDemand{
		{Edge: EdgeFront, LayersNeeded: 4, LengthM: 1},
		{Edge: EdgeLeft, LayersNeeded: 3, LengthM: 1},
	}
	assert.Equal(t, 7, TotalLayersNeeded(demands))
	assert.InDelta(t, 0.4, demands[0].SquareMeters(10), 1e-9)
}

func TestLayerDemandInputFromDraft(t *testing.T) {
	stone := NewStoneProduct("S", "Stone", 60, 2, 1000)
	d := NewStairPartDraft("sys", PartLanding, 20)
	d.Stone = &stone
	d.Length = Dimension{Value: 200, Unit: UnitCm}
	d.Width = Dimension{Value: 1.5, Unit: UnitM}
	d.Quantity = 4
	d.Layers = LayerConfig{NumberOfLayersPerStair: 1, LayerWidthCm: 15, Edges: EdgeSet{Front: true, Left: true}}

	in := LayerDemandInputFromDraft(d)
	assert.Equal(t, PartLanding, in.Kind)
	assert.InDelta(t, 2.0, in.LengthM, 1e-12)
	assert.InDelta(t, 1.5, in.WidthM, 1e-12)
	assert.Len(t, ResolveLayerDemands(in), 2)
}
