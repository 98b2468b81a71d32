// Package recommend expands resolved artists into Last.fm similar-artist
// suggestions, re-resolving artwork for each suggestion.
package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/skoov/coverhunter/internal/cache"
	"github.com/skoov/coverhunter/internal/collect"
	"github.com/skoov/coverhunter/internal/ratelimit"
	"github.com/skoov/coverhunter/internal/resolver"
)

var lastfmBaseURL = "https://ws.audioscrobbler.com/2.0/"

// PlaceholderImageURL is used for suggestions whose artwork could not be
// resolved through any catalog. Suggestions are never dropped for lack of
// an image.
const PlaceholderImageURL = "https://via.placeholder.com/300x300.png?text=No+Image"

// DefaultLimit is the number of suggestions requested per seed artist.
const DefaultLimit = 4

// MaxSeeds caps how many collected items seed recommendation sections.
const MaxSeeds = 5

const similarTimeout = 3 * time.Second

var (
	lastfmClient     *http.Client
	lastfmClientOnce sync.Once
)

func getLastfmClient() *http.Client {
	lastfmClientOnce.Do(func() {
		lastfmClient = &http.Client{Timeout: similarTimeout}
	})
	return lastfmClient
}

// Suggestion is one similar-artist recommendation.
type Suggestion struct {
	Name     string `yaml:"name"`
	ImageURL string `yaml:"image_url"`
}

type similarResponse struct {
	SimilarArtists struct {
		Artist []struct {
			Name string `json:"name"`
		} `json:"artist"`
	} `json:"similarartists"`
}

// Expand queries Last.fm for artists similar to the seed and resolves
// artwork for each through the given resolver.
//
// A missing API key is a configuration gate, not an error: it yields nil
// with no network call. Any failure during the similarity query itself
// also yields nil; recommendations are strictly best-effort.
func Expand(ctx context.Context, seedArtist, apiKey string, limit int, r *resolver.Resolver) []Suggestion {
	if apiKey == "" || seedArtist == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	seed := CleanSeed(seedArtist)
	names := similarNames(ctx, seed, apiKey, limit)

	var suggestions []Suggestion
	for _, name := range names {
		if len(suggestions) >= limit {
			break
		}
		imageURL := PlaceholderImageURL
		if result := r.Resolve(ctx, name); result.Found() {
			imageURL = result.ArtworkURL
		}
		suggestions = append(suggestions, Suggestion{Name: name, ImageURL: imageURL})
	}
	return suggestions
}

// similarNames returns the similar-artist names for a cleaned seed,
// consulting the lastfm cache table when caching is enabled.
func similarNames(ctx context.Context, seed, apiKey string, limit int) []string {
	fetch := func() ([]string, error) {
		return fetchSimilarNames(ctx, seed, apiKey, limit), nil
	}

	if !cache.Enabled() {
		names, _ := fetch()
		return names
	}

	key := fmt.Sprintf("%s|%d", seed, limit)
	names, _, err := cache.GetOrFetch(
		cache.TableFor("lastfm"),
		key,
		fetch,
		cache.SelectNegativeTTL(func(names []string) bool {
			return len(names) == 0
		}),
	)
	if err != nil {
		slog.Warn("Cached Last.fm lookup failed", "artist", seed, "error", err)
		names, _ = fetch()
	}
	return names
}

// fetchSimilarNames performs the actual similarity query. Every failure
// mode collapses to an empty list.
func fetchSimilarNames(ctx context.Context, seed, apiKey string, limit int) []string {
	if err := ratelimit.ForSource("Last.fm", 1).Wait(ctx); err != nil {
		slog.Debug("Last.fm rate limit wait failed", "artist", seed, "error", err)
		return nil
	}

	params := url.Values{}
	params.Set("method", "artist.getsimilar")
	params.Set("artist", seed)
	params.Set("api_key", apiKey)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lastfmBaseURL+"?"+params.Encode(), nil)
	if err != nil {
		slog.Debug("Last.fm request build failed", "artist", seed, "error", err)
		return nil
	}

	resp, err := getLastfmClient().Do(req)
	if err != nil {
		slog.Debug("Last.fm similar query failed", "artist", seed, "error", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("Last.fm similar query returned non-200", "artist", seed, "status", resp.StatusCode)
		return nil
	}

	var data similarResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		slog.Debug("Last.fm response decode failed", "artist", seed, "error", err)
		return nil
	}

	names := make([]string, 0, len(data.SimilarArtists.Artist))
	for _, artist := range data.SimilarArtists.Artist {
		names = append(names, artist.Name)
	}
	return names
}

// CleanSeed trims featuring credits and parenthetical suffixes from an
// artist name before it is used as a similarity query.
func CleanSeed(artist string) string {
	if idx := strings.Index(artist, " feat"); idx != -1 {
		artist = artist[:idx]
	}
	if idx := strings.Index(artist, " ("); idx != -1 {
		artist = artist[:idx]
	}
	return strings.TrimSpace(artist)
}

// SelectSeeds picks up to MaxSeeds collected items with distinct artists,
// preserving discovery order. Deduplicating on artist rather than release
// avoids repeated recommendation sections for an artist with several
// resolved releases.
func SelectSeeds(items []collect.Item) []collect.Item {
	var seeds []collect.Item
	seen := make(map[string]struct{})
	for _, item := range items {
		if _, ok := seen[item.Artist]; ok {
			continue
		}
		seen[item.Artist] = struct{}{}
		seeds = append(seeds, item)
		if len(seeds) >= MaxSeeds {
			break
		}
	}
	return seeds
}
