// Package catalog provides the stone, tool, finishing and cutting-rate
// lookups the quote calculators draw prices from.
package catalog

import (
	"context"
	"fmt"

	"github.com/piwi3910/StoneQuote/internal/engine"
	"github.com/piwi3910/StoneQuote/internal/model"
)

// ProductCatalog searches catalog stones.
type ProductCatalog interface {
	SearchProducts(ctx context.Context, text, contractType string) ([]model.StoneProduct, error)
}

// CuttingTypeCatalog resolves a cutting-type code (LONG, CROSS, VERTICAL)
// to its per-meter price. ok is false when the code has no price.
type CuttingTypeCatalog interface {
	CuttingTypePricePerMeter(ctx context.Context, code string) (price float64, ok bool, err error)
}

// ToolCatalog searches tools and sub-services.
type ToolCatalog interface {
	SearchTools(ctx context.Context, text string) ([]model.SubService, error)
}

// FinishingCatalog lists stone finishings.
type FinishingCatalog interface {
	ListFinishings(ctx context.Context) ([]model.StoneFinishing, error)
}

// Catalog is the full set of lookups.
type Catalog interface {
	ProductCatalog
	CuttingTypeCatalog
	ToolCatalog
	FinishingCatalog
}

// ResolveRates reads the LONG and CROSS cutting rates through
// engine.ResolveCuttingRates, so a missing CROSS rate falls back to LONG.
func ResolveRates(ctx context.Context, c CuttingTypeCatalog) (engine.CuttingRates, error) {
	found := rateTable{}
	for _, code := range []string{model.CuttingCodeLong, model.CuttingCodeCross} {
		price, ok, err := c.CuttingTypePricePerMeter(ctx, code)
		if err != nil {
			return engine.CuttingRates{}, fmt.Errorf("failed to look up %s cutting rate: %w", code, err)
		}
		if ok {
			found[code] = price
		}
	}
	return engine.ResolveCuttingRates(found), nil
}

// rateTable adapts prices already read from a catalog to engine.RateLookup.
type rateTable map[string]float64

func (t rateTable) CuttingRate(code string) (float64, bool) {
	r, ok := t[code]
	return r, ok
}
