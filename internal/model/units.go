package model

import "math"

// Unit is a length unit tag.
type Unit string

const (
	UnitCm Unit = "cm"
	UnitM  Unit = "m"
)

// ConvertLength converts value between cm and m. Unknown units, non-finite
// or negative values yield 0.
func ConvertLength(value float64, from, to Unit) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0
	}
	var meters float64
	switch from {
	case UnitCm:
		meters = value / 100.0
	case UnitM:
		meters = value
	default:
		return 0
	}
	switch to {
	case UnitCm:
		return meters * 100.0
	case UnitM:
		return meters
	default:
		return 0
	}
}

// CmToM converts centimeters to meters.
func CmToM(cm float64) float64 {
	return ConvertLength(cm, UnitCm, UnitM)
}

// MToCm converts meters to centimeters.
func MToCm(m float64) float64 {
	return ConvertLength(m, UnitM, UnitCm)
}

// Dimension is a length value entered together with its unit.
type Dimension struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// Meters returns the dimension in meters. An empty unit is read as cm.
func (d Dimension) Meters() float64 {
	if d.Unit == "" {
		return ConvertLength(d.Value, UnitCm, UnitM)
	}
	return ConvertLength(d.Value, d.Unit, UnitM)
}

// Centimeters returns the dimension in centimeters. An empty unit is read as cm.
func (d Dimension) Centimeters() float64 {
	if d.Unit == "" {
		return ConvertLength(d.Value, UnitCm, UnitCm)
	}
	return ConvertLength(d.Value, d.Unit, UnitCm)
}

// StandardLengthM converts a catalog length in cm to meters (0 when unset).
func StandardLengthM(standardLengthCm float64) float64 {
	return CmToM(standardLengthCm)
}

// ActualLengthM returns the entered length in meters, falling back to the
// standard catalog length, then to 0.
func ActualLengthM(entered Dimension, standardLengthCm float64) float64 {
	if m := entered.Meters(); m > 0 {
		return m
	}
	return StandardLengthM(standardLengthCm)
}

// PricingLengthM returns the billed length: the standard length when it
// exceeds the actual one (a whole catalog stone is consumed), else actual.
func PricingLengthM(actualM, standardM float64) float64 {
	if standardM > actualM {
		return standardM
	}
	if actualM < 0 {
		return 0
	}
	return actualM
}
