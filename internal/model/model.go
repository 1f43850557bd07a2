package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PartKind identifies which piece of a stair a draft or line item describes.
type PartKind string

const (
	PartTread   PartKind = "tread"   // Step surface
	PartRiser   PartKind = "riser"   // Vertical face between steps
	PartLanding PartKind = "landing" // Flat platform
)

func (k PartKind) String() string {
	return string(k)
}

// Valid reports whether k is one of the known stair part kinds.
func (k PartKind) Valid() bool {
	switch k {
	case PartTread, PartRiser, PartLanding:
		return true
	}
	return false
}

// Edge names one side of a stair part.
type Edge string

const (
	EdgeFront     Edge = "front"
	EdgeBack      Edge = "back"
	EdgeLeft      Edge = "left"
	EdgeRight     Edge = "right"
	EdgePerimeter Edge = "perimeter"
)

// EdgeSet holds per-edge selection flags, used both for tools and layers.
type EdgeSet struct {
	Front     bool `json:"front"`
	Back      bool `json:"back"`
	Left      bool `json:"left"`
	Right     bool `json:"right"`
	Perimeter bool `json:"perimeter"`
}

// HasAny returns true if at least one edge is selected.
func (e EdgeSet) HasAny() bool {
	return e.Front || e.Back || e.Left || e.Right || e.Perimeter
}

// Selected returns the selected edges in priority order.
func (e EdgeSet) Selected() []Edge {
	var edges []Edge
	if e.Front {
		edges = append(edges, EdgeFront)
	}
	if e.Back {
		edges = append(edges, EdgeBack)
	}
	if e.Left {
		edges = append(edges, EdgeLeft)
	}
	if e.Right {
		edges = append(edges, EdgeRight)
	}
	if e.Perimeter {
		edges = append(edges, EdgePerimeter)
	}
	return edges
}

// String returns a compact representation, e.g. "F+L+R" or "P".
func (e EdgeSet) String() string {
	var parts []string
	if e.Front {
		parts = append(parts, "F")
	}
	if e.Back {
		parts = append(parts, "B")
	}
	if e.Left {
		parts = append(parts, "L")
	}
	if e.Right {
		parts = append(parts, "R")
	}
	if e.Perimeter {
		parts = append(parts, "P")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// MandatoryPricing is a percentage markup applied to the base material price.
// While active with a non-zero percentage, cutting costs are not billed separately.
type MandatoryPricing struct {
	Enabled    bool    `json:"enabled"`
	Percentage float64 `json:"percentage"`
}

// Active reports whether the markup actually changes the price.
func (m MandatoryPricing) Active() bool {
	return m.Enabled && m.Percentage > 0
}

// DefaultMandatoryPricing returns the initial markup state for a part kind:
// enabled for risers and landings, disabled for treads.
func DefaultMandatoryPricing(kind PartKind, percentage float64) MandatoryPricing {
	return MandatoryPricing{
		Enabled:    kind == PartRiser || kind == PartLanding,
		Percentage: percentage,
	}
}

// PartTool is a named sub-operation (polishing, grooving, ...) billed per meter
// along the edges it is flagged for.
type PartTool struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	PricePerMeter float64 `json:"price_per_meter"`
	Edges         EdgeSet `json:"edges"`
}

// LayerConfig describes the extra edge strips applied to a stair part.
type LayerConfig struct {
	NumberOfLayersPerStair int     `json:"number_of_layers_per_stair"`
	LayerWidthCm           float64 `json:"layer_width_cm"`
	Edges                  EdgeSet `json:"edges"`
	Type                   string  `json:"type,omitempty"` // Free-form layer style, part of the merge signature

	// Optional alternate stone for the layer strips, with its own markup.
	AltStone     *StoneProduct    `json:"alt_stone,omitempty"`
	AltMandatory MandatoryPricing `json:"alt_mandatory"`
}

// Enabled reports whether the configuration asks for any layer strips.
func (l LayerConfig) Enabled() bool {
	return l.NumberOfLayersPerStair > 0 && l.LayerWidthCm > 0 && l.Edges.HasAny()
}

// FinishingSelection holds the optional surface finishing of a part.
type FinishingSelection struct {
	Enabled   bool            `json:"enabled"`
	Finishing *StoneFinishing `json:"finishing,omitempty"`
}

// PricePerSquareMeter returns the finishing price, or 0 when finishing is off.
func (f FinishingSelection) PricePerSquareMeter() float64 {
	if !f.Enabled || f.Finishing == nil {
		return 0
	}
	return f.Finishing.PricePerSquareMeter
}

// StairPartDraft is the in-progress configuration of one stair part.
type StairPartDraft struct {
	ProductID     string             `json:"product_id,omitempty"` // Set when editing an existing line item
	StairSystemID string             `json:"stair_system_id"`
	Kind          PartKind           `json:"kind"`
	Stone         *StoneProduct      `json:"stone,omitempty"`
	ThicknessCm   float64            `json:"thickness_cm"`
	Length        Dimension          `json:"length"`
	Width         Dimension          `json:"width"`
	Quantity      int                `json:"quantity"`
	Tools         []PartTool         `json:"tools,omitempty"`
	Layers        LayerConfig        `json:"layers"`
	Mandatory     MandatoryPricing   `json:"mandatory"`
	Finishing     FinishingSelection `json:"finishing"`
}

// NewStairPartDraft creates an empty draft with the default markup for kind.
func NewStairPartDraft(stairSystemID string, kind PartKind, mandatoryPercentage float64) StairPartDraft {
	return StairPartDraft{
		StairSystemID: stairSystemID,
		Kind:          kind,
		Length:        Dimension{Unit: UnitCm},
		Width:         Dimension{Unit: UnitCm},
		Mandatory:     DefaultMandatoryPricing(kind, mandatoryPercentage),
	}
}

// ActualLengthM returns the physically requested length in meters.
func (d StairPartDraft) ActualLengthM() float64 {
	return ActualLengthM(d.Length, d.standardLengthCm())
}

// PricingLengthM returns the length used for billing in meters.
func (d StairPartDraft) PricingLengthM() float64 {
	return PricingLengthM(d.ActualLengthM(), StandardLengthM(d.standardLengthCm()))
}

// WidthCm returns the requested width in centimeters.
func (d StairPartDraft) WidthCm() float64 {
	return d.Width.Centimeters()
}

// OriginalWidthCm returns the catalog width of the selected stone.
func (d StairPartDraft) OriginalWidthCm() float64 {
	if d.Stone == nil {
		return 0
	}
	return d.Stone.WidthValue
}

// LayerStone returns the stone the layer strips are cut from.
func (d StairPartDraft) LayerStone() *StoneProduct {
	if d.Layers.AltStone != nil {
		return d.Layers.AltStone
	}
	return d.Stone
}

// LayerMandatory returns the markup applied to layer strips.
func (d StairPartDraft) LayerMandatory() MandatoryPricing {
	if d.Layers.AltStone != nil {
		return d.Layers.AltMandatory
	}
	return d.Mandatory
}

func (d StairPartDraft) standardLengthCm() float64 {
	if d.Stone == nil {
		return 0
	}
	return d.Stone.LengthValue
}

// ProductType distinguishes the kinds of contract line items.
type ProductType string

const (
	ProductStairPart      ProductType = "stair_part"
	ProductLayer          ProductType = "layer"
	ProductRemainingStone ProductType = "remaining_stone"
)

// CuttingType names the direction of a cut.
type CuttingType string

const (
	CuttingLongitudinal CuttingType = "longitudinal" // Along the stone's length
	CuttingCross        CuttingType = "cross"        // Across the stone's width
)

// CuttingBreakdownEntry is one audited cutting charge on a line item.
type CuttingBreakdownEntry struct {
	Type   CuttingType `json:"type"`
	Meters float64     `json:"meters"`
	Rate   float64     `json:"rate"`
	Cost   float64     `json:"cost"`
}

// ToolCharge is one priced tool operation on a line item.
type ToolCharge struct {
	Name          string  `json:"name"`
	Meters        float64 `json:"meters"`
	PricePerMeter float64 `json:"price_per_meter"`
	Cost          float64 `json:"cost"`
	Cutting       bool    `json:"cutting,omitempty"` // Synthesized from a cutting operation
}

// LayerInfo links a layer line item to the part it trims.
type LayerInfo struct {
	ParentPartType      PartKind       `json:"parent_part_type"`
	Signature           LayerSignature `json:"signature"`
	Edges               EdgeSet        `json:"edges"`
	LayerWidthCm        float64        `json:"layer_width_cm"`
	LayerCount          int            `json:"layer_count"`
	LayersFromRemaining int            `json:"layers_from_remaining"`
	LayersFromNew       int            `json:"layers_from_new"`
	SquareMetersFromNew float64        `json:"square_meters_from_new"`
	SquareMetersReused  float64        `json:"square_meters_reused"`

	Mandatory     MandatoryPricing    `json:"mandatory"`
	Contributions []LayerContribution `json:"contributions"`
}

// LayerContribution is the share of a merged layer line item owed to one part.
// It remembers which remaining stones the part consumed and produced so the
// share can be withdrawn when the part is edited or removed.
type LayerContribution struct {
	PartID              string         `json:"part_id"`
	LayerCount          int            `json:"layer_count"`
	LayersFromRemaining int            `json:"layers_from_remaining"`
	LayersFromNew       int            `json:"layers_from_new"`
	SquareMeters        float64        `json:"square_meters"`
	SquareMetersFromNew float64        `json:"square_meters_from_new"`
	SquareMetersReused  float64        `json:"square_meters_reused"`
	ConsumedStones      map[string]int `json:"consumed_stones,omitempty"` // Remaining stone ID -> pieces
	ProducedStoneIDs    []string       `json:"produced_stone_ids,omitempty"`
}

// Sum recomputes the aggregate counts from the contributions.
func (l *LayerInfo) Sum() {
	l.LayerCount, l.LayersFromRemaining, l.LayersFromNew = 0, 0, 0
	l.SquareMetersFromNew, l.SquareMetersReused = 0, 0
	for _, c := range l.Contributions {
		l.LayerCount += c.LayerCount
		l.LayersFromRemaining += c.LayersFromRemaining
		l.LayersFromNew += c.LayersFromNew
		l.SquareMetersFromNew += c.SquareMetersFromNew
		l.SquareMetersReused += c.SquareMetersReused
	}
}

// ContractProduct is one persisted line item of a contract.
type ContractProduct struct {
	ID            string      `json:"id"`
	Type          ProductType `json:"type"`
	StairSystemID string      `json:"stair_system_id,omitempty"`
	ParentID      string      `json:"parent_id,omitempty"` // Layer items: ID of the part they trim
	PartType      PartKind    `json:"part_type,omitempty"`

	StoneID     string  `json:"stone_id"`
	StoneCode   string  `json:"stone_code"`
	StoneName   string  `json:"stone_name"`
	ThicknessCm float64 `json:"thickness_cm"`
	LengthM     float64 `json:"length_m"`
	WidthCm     float64 `json:"width_cm"`
	Quantity    int     `json:"quantity"`

	SquareMeters        float64 `json:"square_meters"`         // Visible area
	PricingSquareMeters float64 `json:"pricing_square_meters"` // Billed area
	BaseStoneQuantity   int     `json:"base_stone_quantity"`

	PricePerSquareMeter decimal.Decimal `json:"price_per_square_meter"`
	MaterialPrice       decimal.Decimal `json:"material_price"`
	MandatoryAmount     decimal.Decimal `json:"mandatory_amount"`
	ToolsCost           decimal.Decimal `json:"tools_cost"`
	CuttingCost         decimal.Decimal `json:"cutting_cost"`          // Billable cutting
	CuttingCostGross    decimal.Decimal `json:"cutting_cost_gross"`    // Before mandatory suppression
	FinishingCost       decimal.Decimal `json:"finishing_cost"`
	TotalPrice          decimal.Decimal `json:"total_price"` // Excludes finishing

	Tools            []ToolCharge            `json:"tools,omitempty"`
	CuttingBreakdown []CuttingBreakdownEntry `json:"cutting_breakdown,omitempty"`
	LayerInfo        *LayerInfo              `json:"layer_info,omitempty"`

	SourceStoneID string `json:"source_stone_id,omitempty"` // Remaining-stone items: consumed stone
	CreatedAt     string `json:"created_at"`
}

// NewContractProduct creates an empty line item with a fresh ID.
func NewContractProduct(t ProductType) ContractProduct {
	return ContractProduct{
		ID:        uuid.New().String(),
		Type:      t,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// Contract ties line items and the leftover stone pool together for save/load.
type Contract struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Products        []ContractProduct `json:"products"`
	RemainingStones []RemainingStone  `json:"remaining_stones"`
}

func NewContract(name string) Contract {
	if name == "" {
		name = "Untitled"
	}
	return Contract{
		ID:              uuid.New().String(),
		Name:            name,
		Products:        []ContractProduct{},
		RemainingStones: []RemainingStone{},
	}
}
