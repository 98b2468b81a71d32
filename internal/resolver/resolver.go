// Package resolver orchestrates the catalog adapters: first adapter with
// artwork wins, nothing is merged across catalogs.
package resolver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/disintegration/imaging"

	"github.com/skoov/coverhunter/internal/catalog"
)

const imageFetchTimeout = 3 * time.Second

var (
	imageClient     *http.Client
	imageClientOnce sync.Once
)

func getImageClient() *http.Client {
	imageClientOnce.Do(func() {
		imageClient = &http.Client{Timeout: imageFetchTimeout}
	})
	return imageClient
}

// Resolver tries catalogs in a fixed priority order.
type Resolver struct {
	adapters []catalog.Adapter
}

// New creates a resolver over the given adapters, tried in slice order.
// With no adapters it uses the default chain.
func New(adapters ...catalog.Adapter) *Resolver {
	if len(adapters) == 0 {
		adapters = catalog.DefaultChain()
	}
	return &Resolver{adapters: adapters}
}

// Resolve returns the first adapter result carrying artwork, or the zero
// Result when every catalog misses. Adapters after the first hit are never
// queried.
func (r *Resolver) Resolve(ctx context.Context, term string) catalog.Result {
	for _, adapter := range r.adapters {
		result := adapter.Search(ctx, term)
		if result.Found() {
			slog.Debug("Artwork resolved", "term", term, "catalog", adapter.Name(), "source", result.Source)
			return result
		}
		slog.Debug("Catalog miss", "term", term, "catalog", adapter.Name())
	}
	return catalog.Result{}
}

// FetchImage downloads the artwork bytes over a short bounded timeout and
// verifies they decode as an image. Callers must treat any error as "no
// result" for the item: a collected item always carries valid bytes.
func (r *Resolver) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, imageFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create image request: %w", err)
	}

	resp, err := getImageClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d downloading image", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}

	// Catalogs occasionally serve an HTML error page with a 200 status.
	if _, err := imaging.Decode(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("downloaded data is not a decodable image: %w", err)
	}

	return data, nil
}
