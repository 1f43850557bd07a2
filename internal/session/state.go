package session

import (
	"math"

	"github.com/piwi3910/StoneQuote/internal/engine"
	"github.com/piwi3910/StoneQuote/internal/model"
	"github.com/shopspring/decimal"
)

// state is the working copy one operation mutates before it is published.
type state struct {
	products  []model.ContractProduct
	remaining []model.RemainingStone
}

func (st *state) indexOf(productID string) int {
	for i := range st.products {
		if st.products[i].ID == productID {
			return i
		}
	}
	return -1
}

func (st *state) stoneIndex(stoneID string) int {
	for i := range st.remaining {
		if st.remaining[i].ID == stoneID {
			return i
		}
	}
	return -1
}

// pool returns the usable remaining stones cut from the given catalog stone.
func (st *state) pool(catalogStoneID string) []model.RemainingStone {
	var out []model.RemainingStone
	for _, r := range st.remaining {
		if r.Usable() && r.StoneID != "" && r.StoneID == catalogStoneID {
			out = append(out, r)
		}
	}
	return out
}

func (st *state) consume(copies map[string]int) {
	for id, n := range copies {
		idx := st.stoneIndex(id)
		if idx < 0 {
			continue
		}
		r := &st.remaining[idx]
		r.Quantity -= n
		if r.Quantity <= 0 {
			r.Quantity = 0
			r.IsAvailable = false
		}
	}
}

func (st *state) restore(copies map[string]int) {
	for id, n := range copies {
		idx := st.stoneIndex(id)
		if idx < 0 {
			continue
		}
		r := &st.remaining[idx]
		r.Quantity += n
		r.IsAvailable = r.Quantity > 0 && !r.Retired
	}
}

// dropStones removes the given stones unless they were used up since.
func (st *state) dropStones(ids []string) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := make([]model.RemainingStone, 0, len(st.remaining))
	for _, r := range st.remaining {
		if drop[r.ID] && r.IsAvailable {
			continue
		}
		kept = append(kept, r)
	}
	st.remaining = kept
}

// usedBy counts the copies of each remaining stone consumed by line items
// other than the stair part exclude: layer shares and remaining-stone items.
func (st *state) usedBy(exclude string) map[string]int {
	used := map[string]int{}
	for _, p := range st.products {
		switch {
		case p.Type == model.ProductLayer && p.LayerInfo != nil:
			for _, c := range p.LayerInfo.Contributions {
				if c.PartID == exclude {
					continue
				}
				for id, n := range c.ConsumedStones {
					used[id] += n
				}
			}
		case p.Type == model.ProductRemainingStone && p.SourceStoneID != "":
			used[p.SourceStoneID] += p.Quantity
		}
	}
	return used
}

// detachLeftovers takes the stones a line item's cut produced out of the
// pool. Stones nobody else drew from are dropped; the rest are handed to
// the returned relinker so the recut can carry their ids forward.
func (st *state) detachLeftovers(sourceCutID string) *relinker {
	rl := &relinker{used: st.usedBy(sourceCutID)}
	kept := make([]model.RemainingStone, 0, len(st.remaining))
	for _, r := range st.remaining {
		if r.SourceCutID != sourceCutID {
			kept = append(kept, r)
			continue
		}
		if rl.used[r.ID] > 0 {
			rl.detached = append(rl.detached, r)
		}
	}
	st.remaining = kept
	return rl
}

// pruneRetired drops retired or orphaned stones once no line item records
// copies consumed from them.
func (st *state) pruneRetired() {
	live := make(map[string]bool, len(st.products))
	for _, p := range st.products {
		live[p.ID] = true
	}
	used := st.usedBy("")
	kept := make([]model.RemainingStone, 0, len(st.remaining))
	for _, r := range st.remaining {
		orphan := r.Retired || (r.SourceCutID != "" && !live[r.SourceCutID])
		if orphan && used[r.ID] == 0 {
			continue
		}
		kept = append(kept, r)
	}
	st.remaining = kept
}

// relinker matches a recut's fresh leftovers to the detached stones of the
// previous cut. A matched leftover takes over the old id, less the copies
// other line items already consumed, so their records stay valid.
type relinker struct {
	detached []model.RemainingStone
	used     map[string]int
}

func (rl *relinker) link(fresh []model.RemainingStone) []model.RemainingStone {
	if rl == nil || len(rl.detached) == 0 {
		return fresh
	}
	out := make([]model.RemainingStone, len(fresh))
	for i, f := range fresh {
		if j := rl.match(f); j >= 0 {
			old := rl.detached[j]
			rl.detached = append(rl.detached[:j], rl.detached[j+1:]...)
			f.ID = old.ID
			f.Quantity -= rl.used[old.ID]
			if f.Quantity < 0 {
				f.Quantity = 0
			}
			f.IsAvailable = f.Quantity > 0
		}
		out[i] = f
	}
	return out
}

func (rl *relinker) match(f model.RemainingStone) int {
	for j, d := range rl.detached {
		if d.StoneID == f.StoneID &&
			math.Abs(d.Width-f.Width) <= model.LengthTolerance &&
			math.Abs(d.Length-f.Length) <= model.LengthTolerance {
			return j
		}
	}
	return -1
}

// rest returns the detached stones no fresh leftover took over, retired.
func (rl *relinker) rest() []model.RemainingStone {
	if rl == nil {
		return nil
	}
	out := make([]model.RemainingStone, 0, len(rl.detached))
	for _, r := range rl.detached {
		r.Quantity = 0
		r.IsAvailable = false
		r.Retired = true
		out = append(out, r)
	}
	rl.detached = nil
	return out
}

func (st *state) removeProduct(id string) {
	kept := make([]model.ContractProduct, 0, len(st.products))
	for _, p := range st.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	st.products = kept
}

// withdrawPart takes back everything a stair part contributed: its share of
// layer line items, the stones those layers consumed and the leftovers its
// cut produced. The part item itself is left in place. Leftovers that other
// line items drew from come back in the relinker.
func (st *state) withdrawPart(partID string) *relinker {
	kept := make([]model.ContractProduct, 0, len(st.products))
	for _, p := range st.products {
		if p.Type == model.ProductLayer && p.LayerInfo != nil {
			var contributions []model.LayerContribution
			changed := false
			for _, c := range p.LayerInfo.Contributions {
				if c.PartID == partID {
					st.restore(c.ConsumedStones)
					changed = true
					continue
				}
				contributions = append(contributions, c)
			}
			if changed {
				if len(contributions) == 0 {
					continue
				}
				p.LayerInfo.Contributions = contributions
				recomputeLayer(&p)
			}
		}
		kept = append(kept, p)
	}
	st.products = kept
	return st.detachLeftovers(partID)
}

// mergeLayer adds a part's layer share to the line item with the same
// signature, or creates that line item. It reports whether it merged.
func (st *state) mergeLayer(d model.StairPartDraft, part model.ContractProduct, c model.LayerContribution) (model.ContractProduct, bool) {
	sig := model.NewLayerSignature(d)
	key := sig.Key()
	for i := range st.products {
		p := &st.products[i]
		if p.Type != model.ProductLayer || p.LayerInfo == nil || p.LayerInfo.Signature.Key() != key {
			continue
		}
		p.LayerInfo.Contributions = append(p.LayerInfo.Contributions, c)
		recomputeLayer(p)
		return cloneProduct(*p), true
	}

	stone := d.LayerStone()
	p := model.NewContractProduct(model.ProductLayer)
	p.StairSystemID = d.StairSystemID
	p.PartType = d.Kind
	p.StoneID = stone.ID
	p.StoneCode = stone.Code
	p.StoneName = stone.NamePersian
	p.ThicknessCm = part.ThicknessCm
	if d.Layers.AltStone != nil && stone.ThicknessValue > 0 {
		p.ThicknessCm = stone.ThicknessValue
	}
	p.LengthM = d.ActualLengthM()
	p.WidthCm = d.Layers.LayerWidthCm
	p.PricePerSquareMeter = money(stone.BasePrice)
	p.LayerInfo = &model.LayerInfo{
		ParentPartType: d.Kind,
		Signature:      sig,
		Edges:          d.Layers.Edges,
		LayerWidthCm:   d.Layers.LayerWidthCm,
		Mandatory:      d.LayerMandatory(),
		Contributions:  []model.LayerContribution{c},
	}
	recomputeLayer(&p)
	st.products = append(st.products, p)
	return cloneProduct(p), false
}

// recomputeLayer derives a layer line item's counts and prices from its
// contributions. Only strips cut from new stone are billed.
func recomputeLayer(p *model.ContractProduct) {
	info := p.LayerInfo
	info.Sum()

	var area float64
	for _, c := range info.Contributions {
		area += c.SquareMeters
	}
	p.Quantity = info.LayerCount
	p.SquareMeters = area
	p.PricingSquareMeters = info.SquareMetersFromNew
	if len(info.Contributions) > 0 {
		p.ParentID = info.Contributions[0].PartID
	}

	lt := engine.CalculateLayerTotals(info.SquareMetersFromNew, p.PricePerSquareMeter.InexactFloat64(), info.Mandatory)
	p.MaterialPrice = money(lt.BasePrice)
	p.MandatoryAmount = money(lt.MandatoryAmount)
	p.ToolsCost = decimal.Zero
	p.CuttingCost = decimal.Zero
	p.CuttingCostGross = decimal.Zero
	p.FinishingCost = decimal.Zero
	p.TotalPrice = money(lt.Total)
}

// buildPart turns a priced draft into a stair part line item. When existing
// is set the item keeps its id and creation time.
func buildPart(d model.StairPartDraft, t engine.PartTotals, existing *model.ContractProduct) model.ContractProduct {
	p := model.NewContractProduct(model.ProductStairPart)
	if existing != nil {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	}
	p.StairSystemID = d.StairSystemID
	p.PartType = d.Kind

	var price float64
	if d.Stone != nil {
		p.StoneID = d.Stone.ID
		p.StoneCode = d.Stone.Code
		p.StoneName = d.Stone.NamePersian
		p.ThicknessCm = d.Stone.ThicknessValue
		price = d.Stone.BasePrice
	}
	if d.ThicknessCm > 0 {
		p.ThicknessCm = d.ThicknessCm
	}

	p.LengthM = d.ActualLengthM()
	p.WidthCm = d.WidthCm()
	p.Quantity = d.Quantity
	p.SquareMeters = t.SquareMeters
	p.PricingSquareMeters = t.PricingSquareMeters
	p.BaseStoneQuantity = t.Usage.BaseStoneQuantity

	p.PricePerSquareMeter = money(price)
	p.MaterialPrice = money(t.BasePrice)
	p.MandatoryAmount = money(t.MandatoryAmount)
	p.ToolsCost = money(t.ToolsCost)
	p.CuttingCost = money(t.Cutting.BillableCuttingCost)
	p.CuttingCostGross = money(t.Cutting.CuttingCost)
	p.FinishingCost = money(t.FinishingCost)
	p.TotalPrice = money(t.Total)

	p.Tools = append(append([]model.ToolCharge{}, t.Tools...), t.Cutting.ToolCharges()...)
	p.CuttingBreakdown = t.Cutting.Breakdown()
	return p
}

func cloneProducts(products []model.ContractProduct) []model.ContractProduct {
	if products == nil {
		return nil
	}
	out := make([]model.ContractProduct, len(products))
	for i, p := range products {
		out[i] = cloneProduct(p)
	}
	return out
}

// cloneProduct copies the slices and layer info a product shares by reference.
func cloneProduct(p model.ContractProduct) model.ContractProduct {
	if p.Tools != nil {
		p.Tools = append([]model.ToolCharge(nil), p.Tools...)
	}
	if p.CuttingBreakdown != nil {
		p.CuttingBreakdown = append([]model.CuttingBreakdownEntry(nil), p.CuttingBreakdown...)
	}
	if p.LayerInfo != nil {
		info := *p.LayerInfo
		info.Contributions = make([]model.LayerContribution, len(p.LayerInfo.Contributions))
		for i, c := range p.LayerInfo.Contributions {
			if c.ConsumedStones != nil {
				consumed := make(map[string]int, len(c.ConsumedStones))
				for k, v := range c.ConsumedStones {
					consumed[k] = v
				}
				c.ConsumedStones = consumed
			}
			c.ProducedStoneIDs = append([]string(nil), c.ProducedStoneIDs...)
			info.Contributions[i] = c
		}
		p.LayerInfo = &info
	}
	return p
}
