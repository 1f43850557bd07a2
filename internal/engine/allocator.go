package engine

import (
	"math"
	"sort"

	"github.com/piwi3910/StoneQuote/internal/model"
)

// stripEpsilon absorbs binary rounding when counting strips per column.
const stripEpsilon = 1e-9

// LayerAllocationInput describes the layer strips needed and the remaining
// stones they may be cut from.
type LayerAllocationInput struct {
	// Demands per edge. When empty, TotalLayers is used as a single front demand.
	Demands     []model.LayerEdgeDemand
	TotalLayers int

	LayerWidthCm float64
	LayerLengthM float64 // Fallback strip length for TotalLayers

	Available []model.RemainingStone

	// Not charged; layer cutting is priced into the layer stone.
	CuttingCostPerMeter float64

	// SourceCutID is stamped on the leftover pieces the allocation produces.
	SourceCutID string
}

// RemainingStoneUsage records strips cut from one column of a remaining stone.
type RemainingStoneUsage struct {
	StoneID string     `json:"stone_id"`
	Copy    int        `json:"copy"`   // Which identical piece of the stone
	Column  int        `json:"column"` // Column index within the piece
	Edge    model.Edge `json:"edge"`
	Strips  int        `json:"strips"`
	LengthM float64    `json:"length_m"` // Length of each strip
}

// UnfulfilledDemand is a demand (or part of one) that must be cut from new stone.
type UnfulfilledDemand struct {
	Edge     model.Edge `json:"edge"`
	LengthM  float64    `json:"length_m"`
	Quantity int        `json:"quantity"`
}

// LayerAllocation is the outcome of AllocateLayers.
type LayerAllocation struct {
	TotalLayers               int                    `json:"total_layers"`
	LayersFromRemainingStones int                    `json:"layers_from_remaining_stones"`
	LayersFromNewStones       int                    `json:"layers_from_new_stones"`
	SquareMetersFromRemaining float64                `json:"square_meters_from_remaining"`
	SquareMetersFromNew       float64                `json:"square_meters_from_new"`
	NewRemainingStones        []model.RemainingStone `json:"new_remaining_stones"`
	UsedRemainingStones       []RemainingStoneUsage  `json:"used_remaining_stones"`
	ConsumedCopies            map[string]int         `json:"consumed_copies"` // Stone ID -> pieces cut into
	UnfulfilledDemands        []UnfulfilledDemand    `json:"unfulfilled_demands"`
	TotalLayerCuttingCost     float64                `json:"total_layer_cutting_cost"`
}

// piece is one copy of a remaining stone that layer strips were cut from.
// Its columns are layer-width strips carved lengthwise; only the columns
// drawn from so far are held, always a prefix, and the rest are still at
// full length. Copies nothing was drawn from are never materialized.
type piece struct {
	copy    int
	columns []float64 // Length left per opened column
}

// pool is the carved view of the available stones.
type pool struct {
	stones   []model.RemainingStone
	perStone []int     // Columns per copy
	strips   []float64 // Width left after carving, per stone
	pieces   [][]*piece
}

// canDrawFromRemaining reports whether an edge may be cut from leftover
// columns. Side layers need the stone's original uncut dimension.
func canDrawFromRemaining(e model.Edge) bool {
	return e == model.EdgeFront || e == model.EdgeBack || e == model.EdgePerimeter
}

// AllocateLayers assigns layer strips to columns of the available remaining
// stones, first fit in edge priority order, and reports what must come from
// new stone. The greedy order is deliberate: downstream totals depend on it.
func AllocateLayers(in LayerAllocationInput) LayerAllocation {
	res := LayerAllocation{ConsumedCopies: map[string]int{}}

	demands := buildDemands(in)
	for _, d := range demands {
		res.TotalLayers += d.LayersNeeded
	}

	layerWidthM := model.CmToM(in.LayerWidthCm)
	if in.LayerWidthCm <= 0 || math.IsNaN(in.LayerWidthCm) {
		res.LayersFromNewStones = res.TotalLayers
		for _, d := range demands {
			if d.LayersNeeded > 0 {
				res.UnfulfilledDemands = append(res.UnfulfilledDemands, UnfulfilledDemand{Edge: d.Edge, LengthM: d.LengthM, Quantity: d.LayersNeeded})
			}
		}
		return res
	}

	p := carve(in.Available, in.LayerWidthCm)

	sort.SliceStable(demands, func(i, j int) bool {
		return model.EdgePriority[demands[i].Edge] < model.EdgePriority[demands[j].Edge]
	})

	for _, d := range demands {
		needed := d.LayersNeeded
		if needed <= 0 {
			continue
		}
		if canDrawFromRemaining(d.Edge) && d.LengthM > 0 {
			needed = p.draw(d, needed, layerWidthM, &res)
		}
		if needed > 0 {
			res.LayersFromNewStones += needed
			res.SquareMetersFromNew += float64(needed) * d.LengthM * layerWidthM
			res.UnfulfilledDemands = append(res.UnfulfilledDemands, UnfulfilledDemand{Edge: d.Edge, LengthM: d.LengthM, Quantity: needed})
		}
	}

	res.NewRemainingStones = p.leftovers(in, res.ConsumedCopies)
	return res
}

// buildDemands returns the structured demands, or a single synthetic front
// demand for a flat layer count.
func buildDemands(in LayerAllocationInput) []model.LayerEdgeDemand {
	if len(in.Demands) > 0 {
		out := make([]model.LayerEdgeDemand, len(in.Demands))
		copy(out, in.Demands)
		return out
	}
	if in.TotalLayers <= 0 {
		return nil
	}
	length := in.LayerLengthM
	if length <= 0 {
		for _, s := range in.Available {
			if s.Usable() {
				length = s.Length
				break
			}
		}
	}
	return []model.LayerEdgeDemand{{Edge: model.EdgeFront, LayersNeeded: in.TotalLayers, LengthM: length}}
}

// carve sizes the columns of every usable stone without creating them.
func carve(stones []model.RemainingStone, layerWidthCm float64) *pool {
	p := &pool{
		stones:   stones,
		perStone: make([]int, len(stones)),
		strips:   make([]float64, len(stones)),
		pieces:   make([][]*piece, len(stones)),
	}
	for si, s := range stones {
		if !s.Usable() {
			continue
		}
		perStone := int(math.Floor(s.Width/layerWidthCm + stripEpsilon))
		p.perStone[si] = perStone
		if strip := s.Width - float64(perStone)*layerWidthCm; strip > stripEpsilon {
			p.strips[si] = strip
		}
	}
	return p
}

func stripsIn(lengthM, stripLengthM float64) int {
	return int(math.Floor(lengthM/stripLengthM + stripEpsilon))
}

// draw cuts up to needed strips of one demand, first fit over stones in
// order, their copies in order and the columns of each copy in order. It
// returns what is still needed. Copies and columns are opened only when a
// strip is cut from them, so the work follows the strips cut rather than
// the size of the pool.
func (p *pool) draw(d model.LayerEdgeDemand, needed int, layerWidthM float64, res *LayerAllocation) int {
	for si, s := range p.stones {
		if needed == 0 {
			break
		}
		perStone := p.perStone[si]
		if perStone <= 0 {
			continue
		}
		fresh := stripsIn(s.Length, d.LengthM) > 0
		for c := 0; c < s.Quantity && needed > 0; c++ {
			var pc *piece
			if c < len(p.pieces[si]) {
				pc = p.pieces[si][c]
			} else {
				// Untouched copies are identical: if one cannot hold a strip, none can.
				if !fresh {
					break
				}
				pc = &piece{copy: c}
				p.pieces[si] = append(p.pieces[si], pc)
			}
			for k := 0; k < perStone && needed > 0; k++ {
				if k == len(pc.columns) {
					if !fresh {
						break
					}
					pc.columns = append(pc.columns, s.Length)
				}
				possible := stripsIn(pc.columns[k], d.LengthM)
				if possible <= 0 {
					continue
				}
				used := possible
				if needed < used {
					used = needed
				}
				pc.columns[k] = math.Max(0, roundMeters(pc.columns[k]-float64(used)*d.LengthM))
				needed -= used

				res.LayersFromRemainingStones += used
				res.SquareMetersFromRemaining += float64(used) * d.LengthM * layerWidthM
				res.UsedRemainingStones = append(res.UsedRemainingStones, RemainingStoneUsage{
					StoneID: s.ID,
					Copy:    pc.copy,
					Column:  k,
					Edge:    d.Edge,
					Strips:  used,
					LengthM: d.LengthM,
				})
			}
		}
	}
	return needed
}

type pieceKey struct {
	stone   int
	widthCm float64
	lengthM float64
}

// leftovers turns every piece that was cut into new remaining stones: its
// columns with length left, its columns never drawn from and its width
// strip. Pieces nothing was cut from stay in the pool untouched. consumed
// is filled with the number of pieces cut per stone ID.
func (p *pool) leftovers(in LayerAllocationInput, consumed map[string]int) []model.RemainingStone {
	counts := map[pieceKey]int{}
	var order []pieceKey
	add := func(k pieceKey, n int) {
		if n <= 0 {
			return
		}
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k] += n
	}

	for si, pieces := range p.pieces {
		s := p.stones[si]
		for _, pc := range pieces {
			consumed[s.ID]++
			for _, rem := range pc.columns {
				if rem > lengthEpsilon {
					add(pieceKey{stone: si, widthCm: in.LayerWidthCm, lengthM: rem}, 1)
				}
			}
			if s.Length > lengthEpsilon {
				add(pieceKey{stone: si, widthCm: in.LayerWidthCm, lengthM: s.Length}, p.perStone[si]-len(pc.columns))
			}
			if p.strips[si] > 0 {
				add(pieceKey{stone: si, widthCm: p.strips[si], lengthM: s.Length}, 1)
			}
		}
	}
	if len(order) == 0 {
		return nil
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].stone != order[j].stone {
			return order[i].stone < order[j].stone
		}
		if order[i].widthCm != order[j].widthCm {
			return order[i].widthCm < order[j].widthCm
		}
		return order[i].lengthM > order[j].lengthM
	})

	leftovers := make([]model.RemainingStone, 0, len(order))
	for _, k := range order {
		src := p.stones[k.stone]
		r := model.NewRemainingStone(in.SourceCutID, k.widthCm, k.lengthM, counts[k])
		r.StoneID = src.StoneID
		r.StoneName = src.StoneName
		r.ThicknessCm = src.ThicknessCm
		leftovers = append(leftovers, r)
	}
	return leftovers
}

func roundMeters(m float64) float64 {
	return math.Round(m*10000) / 10000
}
