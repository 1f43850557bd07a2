package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertLength(t *testing.T) {
	assert.Equal(t, 1.5, ConvertLength(150, UnitCm, UnitM))
	assert.Equal(t, 150.0, ConvertLength(1.5, UnitM, UnitCm))
	assert.Equal(t, 42.0, ConvertLength(42, UnitCm, UnitCm))
	assert.Equal(t, 0.0, ConvertLength(10, "in", UnitM), "unknown unit yields 0")
	assert.Equal(t, 0.0, ConvertLength(10, UnitM, "ft"), "unknown target unit yields 0")
	assert.Equal(t, 0.0, ConvertLength(math.NaN(), UnitM, UnitCm))
	assert.Equal(t, 0.0, ConvertLength(math.Inf(1), UnitM, UnitCm))
	assert.Equal(t, 0.0, ConvertLength(-3, UnitM, UnitCm))
}

func TestConvertLengthRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 0.01, 1, 12.5, 33.3333, 60, 275.7, 1e6} {
		assert.InDelta(t, v, MToCm(CmToM(v)), 1e-9, "cm->m->cm for %v", v)
		assert.InDelta(t, v, CmToM(MToCm(v)), 1e-9, "m->cm->m for %v", v)
	}
}

func TestDimensionDefaultsToCentimeters(t *testing.T) {
	d := Dimension{Value: 250}
	assert.Equal(t, 2.5, d.Meters())
	assert.Equal(t, 250.0, d.Centimeters())

	m := Dimension{Value: 2.5, Unit: UnitM}
	assert.Equal(t, 250.0, m.Centimeters())
}

func TestActualAndPricingLength(t *testing.T) {
	// Entered length wins over the standard one.
	assert.InDelta(t, 1.2, ActualLengthM(Dimension{Value: 120, Unit: UnitCm}, 300), 1e-12)
	// Falls back to standard, then zero.
	assert.InDelta(t, 3.0, ActualLengthM(Dimension{}, 300), 1e-12)
	assert.Equal(t, 0.0, ActualLengthM(Dimension{}, 0))

	assert.Equal(t, 3.0, PricingLengthM(1.2, 3.0), "standard length longer than actual is billed")
	assert.Equal(t, 1.2, PricingLengthM(1.2, 0), "no standard length bills actual")
	assert.Equal(t, 3.5, PricingLengthM(3.5, 3.0), "actual longer than standard bills actual")
}
