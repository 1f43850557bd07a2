package model

import "math"

// StonePieceUsage describes how finished pieces are split out of catalog stones.
type StonePieceUsage struct {
	OriginalWidthCm   float64 `json:"original_width_cm"`
	UserWidthCm       float64 `json:"user_width_cm"`
	Quantity          int     `json:"quantity"`
	PiecesPerStone    int     `json:"pieces_per_stone"`
	LeftoverWidthCm   float64 `json:"leftover_width_cm"` // Per base stone
	BaseStoneQuantity int     `json:"base_stone_quantity"`
}

// UnusedPieces returns how many full-width piece slots on the last base
// stone are not needed for the requested quantity.
func (u StonePieceUsage) UnusedPieces() int {
	n := u.BaseStoneQuantity*u.PiecesPerStone - u.Quantity
	if n < 0 {
		return 0
	}
	return n
}

// floatEpsilon absorbs binary rounding in divisions like 0.3 / 0.1.
const floatEpsilon = 1e-9

// CalculateStoneUsage computes pieces per stone, leftover width per stone and
// the number of base stones required for quantity finished pieces.
// When either width is not positive no splitting is assumed.
func CalculateStoneUsage(originalWidthCm, userWidthCm float64, quantity int) StonePieceUsage {
	if quantity < 0 {
		quantity = 0
	}
	usage := StonePieceUsage{
		OriginalWidthCm:   originalWidthCm,
		UserWidthCm:       userWidthCm,
		Quantity:          quantity,
		PiecesPerStone:    1,
		BaseStoneQuantity: quantity,
	}
	if originalWidthCm <= 0 || userWidthCm <= 0 {
		return usage
	}

	pieces := int(math.Floor(originalWidthCm/userWidthCm + floatEpsilon))
	if pieces < 1 {
		pieces = 1
	}
	usage.PiecesPerStone = pieces

	if originalWidthCm >= userWidthCm {
		leftover := originalWidthCm - float64(pieces)*userWidthCm
		if leftover < floatEpsilon {
			leftover = 0
		}
		usage.LeftoverWidthCm = leftover
	}

	usage.BaseStoneQuantity = int(math.Ceil(float64(quantity) / float64(pieces)))
	return usage
}
