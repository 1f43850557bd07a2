package catalog

import (
	"context"

	"github.com/piwi3910/StoneQuote/internal/model"
	"golang.org/x/sync/singleflight"
)

// Coalesced wraps a catalog so identical concurrent searches reach it once.
type Coalesced struct {
	Catalog
	group singleflight.Group
}

var _ Catalog = (*Coalesced)(nil)

// NewCoalesced wraps c.
func NewCoalesced(c Catalog) *Coalesced {
	return &Coalesced{Catalog: c}
}

// SearchProducts shares one lookup between callers asking the same thing.
func (c *Coalesced) SearchProducts(ctx context.Context, text, contractType string) ([]model.StoneProduct, error) {
	v, err := c.do(ctx, "stones|"+contractType+"|"+text, func(shared context.Context) (interface{}, error) {
		return c.Catalog.SearchProducts(shared, text, contractType)
	})
	if err != nil {
		return nil, err
	}
	return append([]model.StoneProduct(nil), v.([]model.StoneProduct)...), nil
}

// SearchTools shares one lookup between callers asking the same thing.
func (c *Coalesced) SearchTools(ctx context.Context, text string) ([]model.SubService, error) {
	v, err := c.do(ctx, "tools|"+text, func(shared context.Context) (interface{}, error) {
		return c.Catalog.SearchTools(shared, text)
	})
	if err != nil {
		return nil, err
	}
	return append([]model.SubService(nil), v.([]model.SubService)...), nil
}

// do runs fn once per key. A caller whose context ends stops waiting; the
// shared lookup runs detached from that caller's cancellation and keeps
// going for the others.
func (c *Coalesced) do(ctx context.Context, key string, fn func(shared context.Context) (interface{}, error)) (interface{}, error) {
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		return fn(shared)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.Val, r.Err
	}
}
