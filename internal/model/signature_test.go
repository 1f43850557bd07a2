package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func layeredDraft() StairPartDraft {
	stone := NewStoneProduct("S", "Stone", 60, 2, 1000)
	d := NewStairPartDraft("sys-1", PartTread, 20)
	d.Stone = &stone
	d.Length = Dimension{Value: 120, Unit: UnitCm}
	d.Width = Dimension{Value: 30, Unit: UnitCm}
	d.Quantity = 10
	d.Layers = LayerConfig{NumberOfLayersPerStair: 1, LayerWidthCm: 5, Edges: EdgeSet{Front: true}}
	return d
}

func TestLayerSignature_SameDraftSameKey(t *testing.T) {
	a := NewLayerSignature(layeredDraft())
	b := NewLayerSignature(layeredDraft())
	assert.Equal(t, a.Key(), b.Key())
	assert.True(t, a.Equal(b))
}

func TestLayerSignature_QuantityIsNotPartOfIdentity(t *testing.T) {
	d := layeredDraft()
	other := layeredDraft()
	other.Quantity = 3
	assert.True(t, NewLayerSignature(d).Equal(NewLayerSignature(other)))
}

func TestLayerSignature_UnitsDoNotSplitIdentity(t *testing.T) {
	d := layeredDraft()
	other := layeredDraft()
	other.Length = Dimension{Value: 1.2, Unit: UnitM}
	assert.True(t, NewLayerSignature(d).Equal(NewLayerSignature(other)))
}

func TestLayerSignature_DifferencesSplitIdentity(t *testing.T) {
	base := NewLayerSignature(layeredDraft())
	alt := NewStoneProduct("A", "Alt", 40, 2, 2000)

	mutations := map[string]func(*StairPartDraft){
		"edges":        func(d *StairPartDraft) { d.Layers.Edges.Left = true },
		"layer width":  func(d *StairPartDraft) { d.Layers.LayerWidthCm = 6 },
		"length":       func(d *StairPartDraft) { d.Length.Value = 130 },
		"width":        func(d *StairPartDraft) { d.Width.Value = 32 },
		"layer type":   func(d *StairPartDraft) { d.Layers.Type = "double" },
		"alt stone":    func(d *StairPartDraft) { d.Layers.AltStone = &alt },
		"part kind":    func(d *StairPartDraft) { d.Kind = PartRiser },
		"stair system": func(d *StairPartDraft) { d.StairSystemID = "sys-2" },
	}
	for name, mutate := range mutations {
		d := layeredDraft()
		mutate(&d)
		assert.False(t, base.Equal(NewLayerSignature(d)), "changing %s should change the signature", name)
	}
}

func TestLayerSignature_EmptyTypeIsStandard(t *testing.T) {
	d := layeredDraft()
	other := layeredDraft()
	other.Layers.Type = "standard"
	assert.Equal(t, NewLayerSignature(d).Key(), NewLayerSignature(other).Key())
}
