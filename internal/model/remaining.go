package model

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

// RemainingStone is a reusable offcut left over after cutting.
// Width is in cm, Length in m.
type RemainingStone struct {
	ID           string  `json:"id"`
	StoneID      string  `json:"stone_id,omitempty"` // Catalog stone it was cut from
	StoneName    string  `json:"stone_name,omitempty"`
	ThicknessCm  float64 `json:"thickness_cm,omitempty"`
	Width        float64 `json:"width"`
	Length       float64 `json:"length"`
	SquareMeters float64 `json:"square_meters"` // Area of one piece
	IsAvailable  bool    `json:"is_available"`
	SourceCutID  string  `json:"source_cut_id"` // Line item or stone whose cut produced it
	Quantity     int     `json:"quantity"`      // Identical pieces

	// Retired stones no longer exist as offcuts but are kept while other
	// line items still record copies consumed from them.
	Retired bool `json:"retired,omitempty"`
}

// NewRemainingStone creates an available remaining stone with a fresh ID.
func NewRemainingStone(sourceCutID string, widthCm, lengthM float64, qty int) RemainingStone {
	return RemainingStone{
		ID:           uuid.New().String(),
		Width:        widthCm,
		Length:       lengthM,
		SquareMeters: CmToM(widthCm) * lengthM,
		IsAvailable:  qty > 0,
		SourceCutID:  sourceCutID,
		Quantity:     qty,
	}
}

// WithStone copies the catalog identity of stone onto the remaining piece.
func (r RemainingStone) WithStone(stone *StoneProduct, thicknessCm float64) RemainingStone {
	if stone != nil {
		r.StoneID = stone.ID
		r.StoneName = stone.NamePersian
	}
	r.ThicknessCm = thicknessCm
	return r
}

// TotalArea returns the area of all identical pieces in square meters.
func (r RemainingStone) TotalArea() float64 {
	return r.SquareMeters * float64(r.Quantity)
}

// Usable reports whether the stone can still be drawn from.
func (r RemainingStone) Usable() bool {
	return r.IsAvailable && !r.Retired && r.Quantity > 0 && r.Width > 0 && r.Length > 0
}

// LengthTolerance is the tolerance for comparing lengths in meters.
const LengthTolerance = 0.0001

// CutLeftoverInput describes one cut of a stair part out of catalog stones.
type CutLeftoverInput struct {
	SourceCutID    string
	Stone          *StoneProduct
	ThicknessCm    float64
	Usage          StonePieceUsage
	ActualLengthM  float64
	PricingLengthM float64
}

// CutLeftovers returns the remaining stones generated by a cut:
// the width strip left on every base stone, the unused full-width piece
// slots on the last base stone, and the length offcut of every finished
// piece when the stone is longer than requested.
func CutLeftovers(in CutLeftoverInput) []RemainingStone {
	var leftovers []RemainingStone
	if in.ActualLengthM <= 0 || in.Usage.Quantity <= 0 {
		return leftovers
	}

	if in.Usage.LeftoverWidthCm > floatEpsilon && in.Usage.BaseStoneQuantity > 0 {
		leftovers = append(leftovers,
			NewRemainingStone(in.SourceCutID, in.Usage.LeftoverWidthCm, in.ActualLengthM, in.Usage.BaseStoneQuantity).
				WithStone(in.Stone, in.ThicknessCm))
	}

	if unused := in.Usage.UnusedPieces(); unused > 0 && in.Usage.UserWidthCm > 0 {
		leftovers = append(leftovers,
			NewRemainingStone(in.SourceCutID, in.Usage.UserWidthCm, in.ActualLengthM, unused).
				WithStone(in.Stone, in.ThicknessCm))
	}

	if extra := in.PricingLengthM - in.ActualLengthM; extra > LengthTolerance && in.Usage.UserWidthCm > 0 {
		leftovers = append(leftovers,
			NewRemainingStone(in.SourceCutID, in.Usage.UserWidthCm, roundLength(extra), in.Usage.Quantity).
				WithStone(in.Stone, in.ThicknessCm))
	}

	return leftovers
}

// SortRemainingByArea orders stones by piece area, largest first.
func SortRemainingByArea(stones []RemainingStone) {
	sort.SliceStable(stones, func(i, j int) bool {
		return stones[i].SquareMeters > stones[j].SquareMeters
	})
}

// TotalRemainingArea returns the total available area of stones in square meters.
func TotalRemainingArea(stones []RemainingStone) float64 {
	var total float64
	for _, s := range stones {
		if s.Usable() {
			total += s.TotalArea()
		}
	}
	return total
}

// roundLength trims binary noise from a length in meters (0.1 mm precision).
func roundLength(m float64) float64 {
	return math.Round(m*10000) / 10000
}
