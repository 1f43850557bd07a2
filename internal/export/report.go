// Package export renders a contract to workshop and customer documents:
// QR-coded remaining-stone labels, a cutting sheet PDF and an Excel workbook.
package export

import (
	"strings"

	"github.com/piwi3910/StoneQuote/internal/model"
	"github.com/piwi3910/StoneQuote/internal/session"
)

// Report is a contract together with its totals, ready for rendering.
type Report struct {
	Contract model.Contract
	Totals   session.Totals
	Currency string
}

// NewReport computes the totals of c.
func NewReport(c model.Contract, currency string) Report {
	return Report{
		Contract: c,
		Totals:   session.ContractTotals(c),
		Currency: currency,
	}
}

// productsOf returns the line items of the given type in contract order.
func (r Report) productsOf(t model.ProductType) []model.ContractProduct {
	var out []model.ContractProduct
	for _, p := range r.Contract.Products {
		if p.Type == t {
			out = append(out, p)
		}
	}
	return out
}

// describe returns a short human label for a line item.
func describe(p model.ContractProduct) string {
	switch p.Type {
	case model.ProductLayer:
		if p.LayerInfo != nil {
			return p.LayerInfo.Signature.String()
		}
		return "layer"
	case model.ProductRemainingStone:
		return "from remaining stone"
	default:
		return string(p.PartType)
	}
}

// cuttingSummary renders the cutting breakdown as "longitudinal 2.40m, cross 0.60m".
func cuttingSummary(p model.ContractProduct) string {
	parts := make([]string, 0, len(p.CuttingBreakdown))
	for _, c := range p.CuttingBreakdown {
		parts = append(parts, string(c.Type)+" "+FormatNumber(c.Meters, 2)+"m")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}
