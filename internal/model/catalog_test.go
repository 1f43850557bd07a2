package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubService_EffectivePricePerMeter(t *testing.T) {
	assert.Equal(t, 10.0, SubService{PricePerMeter: 10, Price: 20, CostPerMeter: 30}.EffectivePricePerMeter())
	assert.Equal(t, 20.0, SubService{Price: 20, CostPerMeter: 30}.EffectivePricePerMeter())
	assert.Equal(t, 30.0, SubService{CostPerMeter: 30}.EffectivePricePerMeter())
	assert.Equal(t, 0.0, SubService{}.EffectivePricePerMeter())
}

func TestSubService_ToPartTool(t *testing.T) {
	s := SubService{ID: "t1", Name: "Groove", NamePersian: "شیار", Price: 5000}
	tool := s.ToPartTool(EdgeSet{Left: true})
	assert.Equal(t, "t1", tool.ID)
	assert.Equal(t, "شیار", tool.Name)
	assert.Equal(t, 5000.0, tool.PricePerMeter)
	assert.True(t, tool.Edges.Left)

	s.NamePersian = ""
	assert.Equal(t, "Groove", s.DisplayName())
}

func TestInventory_Lookups(t *testing.T) {
	inv := DefaultInventory()

	rate, ok := inv.CuttingRate("long")
	require.True(t, ok)
	assert.Equal(t, 150000.0, rate)

	_, ok = inv.CuttingRate(CuttingCodeVertical)
	assert.False(t, ok)

	stone := inv.FindStoneByCode("trv-60")
	require.NotNil(t, stone)
	assert.Same(t, stone, inv.FindStoneByID(stone.ID))
	assert.Nil(t, inv.FindStoneByID("missing"))

	require.NotEmpty(t, inv.Tools)
	assert.NotNil(t, inv.FindToolByID(inv.Tools[0].ID))
	require.NotEmpty(t, inv.Finishings)
	assert.NotNil(t, inv.FindFinishingByID(inv.Finishings[0].ID))

	assert.Len(t, inv.StoneNames(), len(inv.Stones))
}
