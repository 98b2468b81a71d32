// Package catalog provides search adapters for the third-party music
// catalogs used to resolve album artwork.
//
// Adapters never return errors: a timeout, a non-200 status, a malformed
// body or an empty result set all collapse into the zero Result. "The
// catalog had no answer" is an expected outcome, not a failure.
package catalog

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Result is a single catalog answer. Any field may be empty; a non-empty
// ArtworkURL signals success.
type Result struct {
	ArtworkURL string `json:"artwork_url"`
	Source     string `json:"source"`
	Artist     string `json:"artist"`
}

// Found reports whether the catalog produced usable artwork.
func (r Result) Found() bool {
	return r.ArtworkURL != ""
}

// Adapter maps a normalized search term to at most one Result.
type Adapter interface {
	// Name returns a short stable identifier, also used as the cache
	// table prefix.
	Name() string
	// Search queries the catalog. It never returns an error; all failure
	// modes yield the zero Result.
	Search(ctx context.Context, term string) Result
}

// DefaultChain returns the adapters in resolution priority order. The order
// is a static policy choice: catalogs expose no comparable confidence
// score, so the empirically cleanest source goes first.
func DefaultChain() []Adapter {
	return []Adapter{
		&ITunes{},
		&Bandcamp{},
		&Amazon{},
		&Deezer{},
		&MusicBrainz{},
	}
}

const searchTimeout = 5 * time.Second

var (
	searchClient     *http.Client
	searchClientOnce sync.Once
)

// getSearchClient returns the singleton HTTP client shared by all adapters.
func getSearchClient() *http.Client {
	searchClientOnce.Do(func() {
		searchClient = &http.Client{Timeout: searchTimeout}
	})
	return searchClient
}

// browserUserAgent is sent to the storefronts that refuse requests without
// a plausible browser identity.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
