package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/piwi3910/StoneQuote/internal/model"
)

// Memory serves the catalog from an in-memory inventory.
type Memory struct {
	mu  sync.RWMutex
	inv model.Inventory
}

var _ Catalog = (*Memory)(nil)

// NewMemory creates a catalog over a copy of inv.
func NewMemory(inv model.Inventory) *Memory {
	m := &Memory{}
	m.Replace(inv)
	return m
}

// Replace swaps the inventory, e.g. after an import.
func (m *Memory) Replace(inv model.Inventory) {
	cp := model.Inventory{
		Stones:       append([]model.StoneProduct(nil), inv.Stones...),
		CuttingTypes: append([]model.CuttingTypePrice(nil), inv.CuttingTypes...),
		Tools:        append([]model.SubService(nil), inv.Tools...),
		Finishings:   append([]model.StoneFinishing(nil), inv.Finishings...),
	}
	m.mu.Lock()
	m.inv = cp
	m.mu.Unlock()
}

// Inventory returns a copy of the current inventory.
func (m *Memory) Inventory() model.Inventory {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return model.Inventory{
		Stones:       append([]model.StoneProduct(nil), m.inv.Stones...),
		CuttingTypes: append([]model.CuttingTypePrice(nil), m.inv.CuttingTypes...),
		Tools:        append([]model.SubService(nil), m.inv.Tools...),
		Finishings:   append([]model.StoneFinishing(nil), m.inv.Finishings...),
	}
}

// SearchProducts matches text against stone code and name, case-insensitively.
// Stones without a contract type match any contract type.
func (m *Memory) SearchProducts(ctx context.Context, text, contractType string) ([]model.StoneProduct, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.StoneProduct
	for _, s := range m.inv.Stones {
		if contractType != "" && s.ContractType != "" && !strings.EqualFold(s.ContractType, contractType) {
			continue
		}
		if !matches(text, s.Code, s.NamePersian) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// CuttingTypePricePerMeter looks up a cutting rate by code.
func (m *Memory) CuttingTypePricePerMeter(ctx context.Context, code string) (float64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	price, ok := m.inv.CuttingRate(code)
	return price, ok, nil
}

// SearchTools matches text against both tool names.
func (m *Memory) SearchTools(ctx context.Context, text string) ([]model.SubService, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.SubService
	for _, t := range m.inv.Tools {
		if matches(text, t.NamePersian, t.Name) {
			out = append(out, t)
		}
	}
	return out, nil
}

// ListFinishings returns every finishing.
func (m *Memory) ListFinishings(ctx context.Context) ([]model.StoneFinishing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.StoneFinishing(nil), m.inv.Finishings...), nil
}

func matches(text string, fields ...string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), text) {
			return true
		}
	}
	return false
}
