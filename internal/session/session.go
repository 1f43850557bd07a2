// Package session owns the line items and remaining-stone pool of one
// contract being quoted. The calculators in model and engine stay pure;
// every mutation of session state goes through a Session method.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/piwi3910/StoneQuote/internal/engine"
	"github.com/piwi3910/StoneQuote/internal/logging"
	"github.com/piwi3910/StoneQuote/internal/model"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when a product, stair system or stone id is unknown.
	ErrNotFound = errors.New("not found")

	// ErrStoneUnavailable is returned when a remaining stone cannot supply a request.
	ErrStoneUnavailable = errors.New("remaining stone unavailable")
)

// Session is the explicit controller of one quote. It is safe for
// concurrent use; each operation works on a snapshot and publishes the
// full replacement under the lock.
type Session struct {
	id    string
	rates engine.CuttingRates
	log   *zap.Logger

	mu        sync.Mutex
	name      string
	products  []model.ContractProduct
	remaining []model.RemainingStone
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for materialization traces.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithName sets the contract name.
func WithName(name string) Option {
	return func(s *Session) { s.name = name }
}

// New creates an empty session pricing cuts with rates.
func New(rates engine.CuttingRates, opts ...Option) *Session {
	s := &Session{
		id:        uuid.New().String(),
		rates:     rates,
		log:       logging.Named("session"),
		name:      "Untitled",
		products:  []model.ContractProduct{},
		remaining: []model.RemainingStone{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Name returns the contract name.
func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// Rates returns the cutting rates the session prices with.
func (s *Session) Rates() engine.CuttingRates { return s.rates }

// MaterializeResult describes what one Materialize call produced.
type MaterializeResult struct {
	Part       model.ContractProduct   `json:"part"`
	Layer      *model.ContractProduct  `json:"layer,omitempty"`
	Merged     bool                    `json:"merged"` // Layer joined an existing line item
	Totals     engine.PartTotals       `json:"totals"`
	Demands    []model.LayerEdgeDemand `json:"demands,omitempty"`
	Allocation *engine.LayerAllocation `json:"allocation,omitempty"`
	Leftovers  []model.RemainingStone  `json:"leftovers,omitempty"`
}

// Materialize turns a confirmed draft into line items. A draft carrying a
// ProductID replaces that stair part in place: its previous layer share and
// its still-available leftovers are withdrawn first.
func (s *Session) Materialize(d model.StairPartDraft) (MaterializeResult, error) {
	var res MaterializeResult
	if err := model.ValidateDraft(d); err != nil {
		return res, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.snapshot()

	var existing *model.ContractProduct
	var rl *relinker
	if d.ProductID != "" {
		idx := st.indexOf(d.ProductID)
		if idx < 0 || st.products[idx].Type != model.ProductStairPart {
			return res, fmt.Errorf("stair part %s: %w", d.ProductID, ErrNotFound)
		}
		prev := st.products[idx]
		existing = &prev
		rl = st.withdrawPart(d.ProductID)
	}

	res.Totals = engine.TotalsForDraft(d, s.rates)
	part := buildPart(d, res.Totals, existing)
	if existing != nil {
		st.products[st.indexOf(existing.ID)] = part
	} else {
		st.products = append(st.products, part)
	}

	res.Leftovers = rl.link(model.CutLeftovers(model.CutLeftoverInput{
		SourceCutID:    part.ID,
		Stone:          d.Stone,
		ThicknessCm:    part.ThicknessCm,
		Usage:          res.Totals.Usage,
		ActualLengthM:  d.ActualLengthM(),
		PricingLengthM: d.PricingLengthM(),
	}))
	st.remaining = append(st.remaining, res.Leftovers...)

	if d.Layers.Enabled() {
		res.Demands = model.ResolveLayerDemands(model.LayerDemandInputFromDraft(d))
	}
	if len(res.Demands) > 0 {
		layerStone := d.LayerStone()
		alloc := engine.AllocateLayers(engine.LayerAllocationInput{
			Demands:             res.Demands,
			LayerWidthCm:        d.Layers.LayerWidthCm,
			LayerLengthM:        d.ActualLengthM(),
			Available:           st.pool(layerStone.ID),
			CuttingCostPerMeter: s.rates.Longitudinal,
			SourceCutID:         part.ID,
		})
		alloc.NewRemainingStones = rl.link(alloc.NewRemainingStones)
		res.Allocation = &alloc

		st.consume(alloc.ConsumedCopies)
		st.remaining = append(st.remaining, alloc.NewRemainingStones...)

		contribution := model.LayerContribution{
			PartID:              part.ID,
			LayerCount:          alloc.TotalLayers,
			LayersFromRemaining: alloc.LayersFromRemainingStones,
			LayersFromNew:       alloc.LayersFromNewStones,
			SquareMeters:        alloc.SquareMetersFromRemaining + alloc.SquareMetersFromNew,
			SquareMetersFromNew: alloc.SquareMetersFromNew,
			SquareMetersReused:  alloc.SquareMetersFromRemaining,
			ConsumedStones:      alloc.ConsumedCopies,
		}
		for _, r := range alloc.NewRemainingStones {
			contribution.ProducedStoneIDs = append(contribution.ProducedStoneIDs, r.ID)
		}

		layer, merged := st.mergeLayer(d, part, contribution)
		res.Layer = &layer
		res.Merged = merged
	}
	if rl != nil {
		st.remaining = append(st.remaining, rl.rest()...)
		st.pruneRetired()
	}

	s.publish(st)
	res.Part = part

	s.log.Debug("materialized stair part",
		zap.String("session", s.id),
		zap.String("product_id", part.ID),
		zap.String("kind", string(part.PartType)),
		zap.Bool("edit", existing != nil),
		zap.Int("leftovers", len(res.Leftovers)),
		zap.Int("layer_demands", len(res.Demands)),
		zap.Bool("layer_merged", res.Merged),
	)
	return res, nil
}

// RemoveProduct deletes a line item. Removing a stair part also withdraws
// its layer share and leftovers; removing a layer item returns the stones
// it consumed to the pool.
func (s *Session) RemoveProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.snapshot()

	idx := st.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	p := st.products[idx]
	switch p.Type {
	case model.ProductStairPart:
		retired := st.withdrawPart(id).rest()
		st.remaining = append(st.remaining, retired...)
	case model.ProductLayer:
		if p.LayerInfo != nil {
			for _, c := range p.LayerInfo.Contributions {
				st.restore(c.ConsumedStones)
				st.dropStones(c.ProducedStoneIDs)
			}
		}
	case model.ProductRemainingStone:
		st.restore(map[string]int{p.SourceStoneID: p.Quantity})
		retired := st.detachLeftovers(id).rest()
		st.remaining = append(st.remaining, retired...)
	}
	st.removeProduct(id)
	st.pruneRetired()

	s.publish(st)
	s.log.Debug("removed product", zap.String("session", s.id), zap.String("product_id", id), zap.String("type", string(p.Type)))
	return nil
}

// RemoveStairSystem deletes every stair part of a stair system together
// with its layers and leftovers. It returns the number of parts removed.
func (s *Session) RemoveStairSystem(stairSystemID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.snapshot()

	var partIDs []string
	for _, p := range st.products {
		if p.StairSystemID == stairSystemID && p.Type == model.ProductStairPart {
			partIDs = append(partIDs, p.ID)
		}
	}
	if len(partIDs) == 0 {
		return 0, fmt.Errorf("stair system %s: %w", stairSystemID, ErrNotFound)
	}
	for _, id := range partIDs {
		retired := st.withdrawPart(id).rest()
		st.remaining = append(st.remaining, retired...)
		st.removeProduct(id)
	}
	kept := st.products[:0]
	for _, p := range st.products {
		if p.Type == model.ProductLayer && p.StairSystemID == stairSystemID {
			continue
		}
		kept = append(kept, p)
	}
	st.products = kept
	st.pruneRetired()

	s.publish(st)
	s.log.Debug("removed stair system", zap.String("session", s.id), zap.String("stair_system_id", stairSystemID), zap.Int("parts", len(partIDs)))
	return len(partIDs), nil
}

// CreateProductFromRemainingStone sells pieces cut from a remaining stone
// as their own line item. Each piece consumes one copy of the stone; what
// is left of those copies goes back to the pool.
func (s *Session) CreateProductFromRemainingStone(stoneID string, lengthM, widthCm float64, quantity int, pricePerSquareMeter float64) (model.ContractProduct, error) {
	errs := model.ValidationErrors{}
	if lengthM <= 0 {
		errs["length"] = "Length must be greater than zero"
	}
	if widthCm <= 0 {
		errs["width"] = "Width must be greater than zero"
	}
	if quantity <= 0 {
		errs["quantity"] = "Quantity must be at least 1"
	}
	if pricePerSquareMeter < 0 {
		errs["price"] = "Price cannot be negative"
	}
	if len(errs) > 0 {
		return model.ContractProduct{}, errs
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.snapshot()

	idx := st.stoneIndex(stoneID)
	if idx < 0 {
		return model.ContractProduct{}, fmt.Errorf("remaining stone %s: %w", stoneID, ErrNotFound)
	}
	stone := st.remaining[idx]
	switch {
	case !stone.Usable():
		return model.ContractProduct{}, fmt.Errorf("remaining stone %s is used up: %w", stoneID, ErrStoneUnavailable)
	case lengthM > stone.Length+model.LengthTolerance || widthCm > stone.Width+model.LengthTolerance:
		return model.ContractProduct{}, fmt.Errorf("%.2fm x %.1fcm does not fit %.2fm x %.1fcm: %w",
			lengthM, widthCm, stone.Length, stone.Width, ErrStoneUnavailable)
	case quantity > stone.Quantity:
		return model.ContractProduct{}, fmt.Errorf("requested %d pieces, %d available: %w", quantity, stone.Quantity, ErrStoneUnavailable)
	}

	p := model.NewContractProduct(model.ProductRemainingStone)
	p.StoneID = stone.StoneID
	p.StoneName = stone.StoneName
	p.ThicknessCm = stone.ThicknessCm
	p.LengthM = lengthM
	p.WidthCm = widthCm
	p.Quantity = quantity
	p.SquareMeters = lengthM * model.CmToM(widthCm) * float64(quantity)
	p.PricingSquareMeters = p.SquareMeters
	p.PricePerSquareMeter = money(pricePerSquareMeter)
	p.MaterialPrice = money(p.SquareMeters * pricePerSquareMeter)
	p.MandatoryAmount = decimal.Zero
	p.ToolsCost = decimal.Zero
	p.CuttingCost = decimal.Zero
	p.CuttingCostGross = decimal.Zero
	p.FinishingCost = decimal.Zero
	p.TotalPrice = p.MaterialPrice
	p.SourceStoneID = stone.ID

	st.consume(map[string]int{stone.ID: quantity})
	if strip := stone.Width - widthCm; strip > model.LengthTolerance {
		st.remaining = append(st.remaining, leftoverOf(stone, p.ID, strip, stone.Length, quantity))
	}
	if rest := stone.Length - lengthM; rest > model.LengthTolerance {
		st.remaining = append(st.remaining, leftoverOf(stone, p.ID, widthCm, rest, quantity))
	}
	st.products = append(st.products, p)

	s.publish(st)
	s.log.Debug("product from remaining stone", zap.String("session", s.id), zap.String("stone_id", stoneID), zap.Int("quantity", quantity))
	return p, nil
}

// Reset clears all line items and remaining stones.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = []model.ContractProduct{}
	s.remaining = []model.RemainingStone{}
	s.log.Debug("session reset", zap.String("session", s.id))
}

// Products returns a copy of the line items in order.
func (s *Session) Products() []model.ContractProduct {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProducts(s.products)
}

// Product returns one line item by id.
func (s *Session) Product(id string) (model.ContractProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			return cloneProduct(p), nil
		}
	}
	return model.ContractProduct{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
}

// RemainingStones returns every remaining stone, used up or not.
func (s *Session) RemainingStones() []model.RemainingStone {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.RemainingStone, len(s.remaining))
	copy(out, s.remaining)
	return out
}

// AvailableRemainingStones returns the stones that can still be cut.
func (s *Session) AvailableRemainingStones() []model.RemainingStone {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.RemainingStone
	for _, r := range s.remaining {
		if r.Usable() {
			out = append(out, r)
		}
	}
	return out
}

// Contract returns a snapshot suitable for saving.
func (s *Session) Contract() model.Contract {
	s.mu.Lock()
	defer s.mu.Unlock()
	remaining := make([]model.RemainingStone, len(s.remaining))
	copy(remaining, s.remaining)
	return model.Contract{
		ID:              s.id,
		Name:            s.name,
		Products:        cloneProducts(s.products),
		RemainingStones: remaining,
	}
}

// Load replaces the session state with a saved contract.
func (s *Session) Load(c model.Contract) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.Name != "" {
		s.name = c.Name
	}
	s.products = cloneProducts(c.Products)
	if s.products == nil {
		s.products = []model.ContractProduct{}
	}
	s.remaining = make([]model.RemainingStone, len(c.RemainingStones))
	copy(s.remaining, c.RemainingStones)
}

// Totals sums every line item.
func (s *Session) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sumTotals(s.products, s.remaining)
}

func (s *Session) snapshot() *state {
	st := &state{
		products:  cloneProducts(s.products),
		remaining: make([]model.RemainingStone, len(s.remaining)),
	}
	copy(st.remaining, s.remaining)
	return st
}

func (s *Session) publish(st *state) {
	s.products = st.products
	s.remaining = st.remaining
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(0)
}

func leftoverOf(stone model.RemainingStone, sourceCutID string, widthCm, lengthM float64, qty int) model.RemainingStone {
	r := model.NewRemainingStone(sourceCutID, widthCm, lengthM, qty)
	r.StoneID = stone.StoneID
	r.StoneName = stone.StoneName
	r.ThicknessCm = stone.ThicknessCm
	return r
}
