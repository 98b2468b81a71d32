// Package hunt implements the main pipeline: scan listing pages, normalize
// titles, resolve artwork through the catalog chain, collect covers into a
// zip, and optionally expand recommendations.
package hunt

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/skoov/coverhunter/internal/catalog"
	"github.com/skoov/coverhunter/internal/collect"
	"github.com/skoov/coverhunter/internal/normalize"
	"github.com/skoov/coverhunter/internal/recommend"
	"github.com/skoov/coverhunter/internal/resolver"
	"github.com/skoov/coverhunter/internal/scrape"
)

// Params configures one hunt run.
type Params struct {
	Site    string
	URL     string
	Pages   int
	Browser bool
}

// ErrSourceBlocked is returned when at least one listing page was fetched
// but not a single cover was collected. A block page serves fine and simply
// contains no release links, so an empty run over fetched pages almost
// always means the site is blocking us rather than every catalog failing
// at once.
var ErrSourceBlocked = errors.New("no albums resolved; the source site is likely blocking us or changed structure")

// Seams for tests.
var (
	newScraper   = defaultScraper
	buildChain   = catalog.ActiveChain
	pageInterval = 500 * time.Millisecond
)

func defaultScraper(site scrape.Site, browser bool) scrape.Scraper {
	if browser {
		return &scrape.BrowserScraper{Site: site, Headless: true}
	}
	return &scrape.StaticScraper{Site: site}
}

// Run executes the hunt and returns the finished session.
func Run(ctx context.Context, params Params) (*collect.Session, error) {
	site, err := scrape.SiteFor(params.Site)
	if err != nil {
		return nil, err
	}

	scraper := newScraper(site, params.Browser)
	res := resolver.New(buildChain()...)
	session := collect.NewSession()

	pageURLs := site.PageURLs(params.URL, params.Pages)
	scanned := 0
	for i, pageURL := range pageURLs {
		slog.Info("Scanning listing page", "site", site.Key, "page", i+1, "url", pageURL)

		listings, err := scraper.Listings(ctx, pageURL)
		if err != nil {
			// One unreachable page is not fatal; the next page may
			// still respond.
			slog.Warn("Listing page failed", "page", i+1, "error", err)
			continue
		}
		scanned++

		for _, listing := range listings {
			processListing(ctx, session, res, listing)
		}

		if i < len(pageURLs)-1 {
			time.Sleep(pageInterval)
		}
	}

	if scanned > 0 && session.Blocked() {
		return session, ErrSourceBlocked
	}

	slog.Info("Hunt finished",
		"attempted", session.Attempted(),
		"resolved", session.Resolved(),
	)
	return session, nil
}

// processListing runs one listing through normalize → dedup → resolve →
// image fetch. Resolution failure drops the listing; a partially populated
// item is never collected.
func processListing(ctx context.Context, session *collect.Session, res *resolver.Resolver, listing scrape.Listing) {
	term := normalize.Normalize(listing.Raw, listing.Kind)
	if !normalize.Valid(term) {
		slog.Debug("Skipping unusable listing", "raw", listing.Raw, "term", term)
		return
	}
	if !session.MarkAttempted(term) {
		slog.Debug("Skipping duplicate listing", "term", term)
		return
	}

	result := res.Resolve(ctx, term)
	if !result.Found() && listing.FallbackImageURL != "" {
		// The source page embedded its own cover; better than nothing.
		result = catalog.Result{ArtworkURL: listing.FallbackImageURL, Source: "Source page"}
	}
	if !result.Found() {
		slog.Debug("No artwork found", "term", term)
		return
	}

	image, err := res.FetchImage(ctx, result.ArtworkURL)
	if err != nil {
		slog.Warn("Artwork download failed, dropping item", "term", term, "url", result.ArtworkURL, "error", err)
		return
	}

	session.Add(collect.Item{
		Name:       term,
		Artist:     result.Artist,
		ArtworkURL: result.ArtworkURL,
		Source:     result.Source,
		Image:      image,
	})
	slog.Info("Cover collected", "name", term, "source", result.Source)
}

// Section groups the suggestions for one seed artist.
type Section struct {
	Seed        string                `yaml:"seed"`
	Suggestions []recommend.Suggestion `yaml:"suggestions"`
}

// ExpandRecommendations builds similar-artist sections for up to five
// distinct collected artists, in discovery order.
func ExpandRecommendations(ctx context.Context, session *collect.Session, apiKey string) []Section {
	if apiKey == "" {
		return nil
	}

	res := resolver.New(buildChain()...)
	var sections []Section
	for _, seed := range recommend.SelectSeeds(session.Items()) {
		suggestions := recommend.Expand(ctx, seed.Artist, apiKey, recommend.DefaultLimit, res)
		if len(suggestions) > 0 {
			sections = append(sections, Section{Seed: seed.Artist, Suggestions: suggestions})
		}
	}
	return sections
}
