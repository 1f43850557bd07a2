package model

import (
	"strings"

	"github.com/google/uuid"
)

// Cutting type codes used by the cutting-type price catalog.
const (
	CuttingCodeLong     = "LONG"
	CuttingCodeCross    = "CROSS"
	CuttingCodeVertical = "VERTICAL"
)

// StoneProduct is a catalog stone. Dimensions are in cm, BasePrice per square meter.
type StoneProduct struct {
	ID             string  `json:"id"`
	Code           string  `json:"code"`
	NamePersian    string  `json:"name_persian"`
	WidthValue     float64 `json:"width_value"`
	ThicknessValue float64 `json:"thickness_value"`
	BasePrice      float64 `json:"base_price"`
	LengthValue    float64 `json:"length_value,omitempty"` // Standard length, 0 if none
	ContractType   string  `json:"contract_type,omitempty"`
}

// NewStoneProduct creates a new StoneProduct with a generated ID.
func NewStoneProduct(code, name string, widthCm, thicknessCm, basePrice float64) StoneProduct {
	return StoneProduct{
		ID:             uuid.New().String()[:8],
		Code:           code,
		NamePersian:    name,
		WidthValue:     widthCm,
		ThicknessValue: thicknessCm,
		BasePrice:      basePrice,
	}
}

// CuttingTypePrice is a per-meter cutting rate keyed by code.
type CuttingTypePrice struct {
	ID            string  `json:"id"`
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	PricePerMeter float64 `json:"price_per_meter"`
}

// SubService is a catalog tool/sub-service. Different catalog sources fill
// different price fields.
type SubService struct {
	ID            string  `json:"id"`
	NamePersian   string  `json:"name_persian,omitempty"`
	Name          string  `json:"name,omitempty"`
	PricePerMeter float64 `json:"price_per_meter,omitempty"`
	Price         float64 `json:"price,omitempty"`
	CostPerMeter  float64 `json:"cost_per_meter,omitempty"`
}

// DisplayName prefers the Persian name.
func (s SubService) DisplayName() string {
	if s.NamePersian != "" {
		return s.NamePersian
	}
	return s.Name
}

// EffectivePricePerMeter resolves pricePerMeter, then price, then costPerMeter.
func (s SubService) EffectivePricePerMeter() float64 {
	switch {
	case s.PricePerMeter > 0:
		return s.PricePerMeter
	case s.Price > 0:
		return s.Price
	default:
		return s.CostPerMeter
	}
}

// ToPartTool turns a catalog tool into a draft tool applied to edges.
func (s SubService) ToPartTool(edges EdgeSet) PartTool {
	return PartTool{
		ID:            s.ID,
		Name:          s.DisplayName(),
		PricePerMeter: s.EffectivePricePerMeter(),
		Edges:         edges,
	}
}

// StoneFinishing is a surface finishing priced per square meter.
type StoneFinishing struct {
	ID                  string  `json:"id"`
	NamePersian         string  `json:"name_persian"`
	PricePerSquareMeter float64 `json:"price_per_square_meter"`
}

// Inventory holds the catalog data the calculators draw prices from.
type Inventory struct {
	Stones       []StoneProduct     `json:"stones"`
	CuttingTypes []CuttingTypePrice `json:"cutting_types"`
	Tools        []SubService       `json:"tools"`
	Finishings   []StoneFinishing   `json:"finishings"`
}

// DefaultInventory returns an inventory populated with common defaults.
func DefaultInventory() Inventory {
	return Inventory{
		Stones: []StoneProduct{
			NewStoneProduct("TRV-60", "تراورتن سفید", 60, 2, 2800000),
			NewStoneProduct("GRN-50", "گرانیت مشکی", 50, 2, 4500000),
			NewStoneProduct("MRB-40", "مرمریت کرم", 40, 2, 2200000),
		},
		CuttingTypes: []CuttingTypePrice{
			{ID: uuid.New().String()[:8], Code: CuttingCodeLong, Name: "برش طولی", PricePerMeter: 150000},
			{ID: uuid.New().String()[:8], Code: CuttingCodeCross, Name: "برش عرضی", PricePerMeter: 120000},
		},
		Tools: []SubService{
			{ID: uuid.New().String()[:8], NamePersian: "ابزار لب گرد", PricePerMeter: 350000},
			{ID: uuid.New().String()[:8], NamePersian: "شیار ضد لغزش", PricePerMeter: 200000},
		},
		Finishings: []StoneFinishing{
			{ID: uuid.New().String()[:8], NamePersian: "صیقل", PricePerSquareMeter: 400000},
			{ID: uuid.New().String()[:8], NamePersian: "تیشه‌ای", PricePerSquareMeter: 550000},
		},
	}
}

// CuttingRate returns the per-meter rate for a cutting code.
func (inv *Inventory) CuttingRate(code string) (float64, bool) {
	for _, c := range inv.CuttingTypes {
		if strings.EqualFold(c.Code, code) {
			return c.PricePerMeter, true
		}
	}
	return 0, false
}

// FindStoneByID returns a pointer to the stone with the given ID, or nil.
func (inv *Inventory) FindStoneByID(id string) *StoneProduct {
	for i := range inv.Stones {
		if inv.Stones[i].ID == id {
			return &inv.Stones[i]
		}
	}
	return nil
}

// FindStoneByCode returns a pointer to the first stone with the given code, or nil.
func (inv *Inventory) FindStoneByCode(code string) *StoneProduct {
	for i := range inv.Stones {
		if strings.EqualFold(inv.Stones[i].Code, code) {
			return &inv.Stones[i]
		}
	}
	return nil
}

// FindToolByID returns a pointer to the tool with the given ID, or nil.
func (inv *Inventory) FindToolByID(id string) *SubService {
	for i := range inv.Tools {
		if inv.Tools[i].ID == id {
			return &inv.Tools[i]
		}
	}
	return nil
}

// FindFinishingByID returns a pointer to the finishing with the given ID, or nil.
func (inv *Inventory) FindFinishingByID(id string) *StoneFinishing {
	for i := range inv.Finishings {
		if inv.Finishings[i].ID == id {
			return &inv.Finishings[i]
		}
	}
	return nil
}

// StoneNames returns a list of stone names for pickers.
func (inv *Inventory) StoneNames() []string {
	names := make([]string, len(inv.Stones))
	for i, s := range inv.Stones {
		names[i] = s.NamePersian
	}
	return names
}
