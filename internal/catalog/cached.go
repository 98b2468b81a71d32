package catalog

import (
	"context"
	"log/slog"

	"github.com/skoov/coverhunter/internal/cache"
)

// Cached wraps an adapter with the SQLite lookup cache. Hits skip the
// network entirely; misses are stored with a shorter TTL so a catalog that
// later picks up a release gets another chance.
type Cached struct {
	Adapter Adapter
}

// WithCache wraps every adapter in the chain with the lookup cache.
func WithCache(adapters []Adapter) []Adapter {
	wrapped := make([]Adapter, len(adapters))
	for i, a := range adapters {
		wrapped[i] = &Cached{Adapter: a}
	}
	return wrapped
}

// ActiveChain returns the default adapter chain, cache-wrapped when the
// lookup cache is enabled for this run. Every command that resolves
// artwork goes through this so they share the same cache tables.
func ActiveChain() []Adapter {
	adapters := DefaultChain()
	if cache.Enabled() {
		adapters = WithCache(adapters)
	}
	return adapters
}

// Name implements Adapter.
func (c *Cached) Name() string { return c.Adapter.Name() }

// Search implements Adapter.
func (c *Cached) Search(ctx context.Context, term string) Result {
	result, _, err := cache.GetOrFetch(
		cache.TableFor(c.Adapter.Name()),
		term,
		func() (Result, error) {
			return c.Adapter.Search(ctx, term), nil
		},
		cache.SelectNegativeTTL(func(r Result) bool {
			return !r.Found()
		}),
	)
	if err != nil {
		// The fetch func never errors; this can only be cache plumbing.
		slog.Warn("Cached catalog lookup failed", "catalog", c.Adapter.Name(), "term", term, "error", err)
		return c.Adapter.Search(ctx, term)
	}
	return result
}
