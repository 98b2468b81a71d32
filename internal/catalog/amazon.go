package catalog

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"github.com/skoov/coverhunter/internal/ratelimit"
)

var amazonBaseURL = "https://www.amazon.com"

const amazonSourceLabel = "Amazon Music (HQ)"

// amazonResizeRe matches the embedded resize directive in Amazon image
// URLs, e.g. "._AC_UY218_."; removing it yields the full-size image.
var amazonResizeRe = regexp.MustCompile(`\._AC_.*?\.`)

// Amazon scrapes the digital-music-album search results page. Amazon never
// exposes a clean artist field in the markup we read, so results carry
// artwork only.
type Amazon struct{}

// Name implements Adapter.
func (a *Amazon) Name() string { return "amazon" }

// Search implements Adapter.
func (a *Amazon) Search(ctx context.Context, term string) Result {
	// Storefront scrape, throttled so a long hunt stays polite.
	if err := ratelimit.ForSource("Amazon", 1).Wait(ctx); err != nil {
		slog.Debug("Amazon rate limit wait failed", "term", term, "error", err)
		return Result{}
	}

	searchURL := amazonBaseURL + "/s?k=" + url.QueryEscape(term) + "&i=digital-music-album"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		slog.Debug("Amazon request build failed", "term", term, "error", err)
		return Result{}
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := getSearchClient().Do(req)
	if err != nil {
		slog.Debug("Amazon search failed", "term", term, "error", err)
		return Result{}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("Amazon search returned non-200", "term", term, "status", resp.StatusCode)
		return Result{}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		slog.Debug("Amazon response parse failed", "term", term, "error", err)
		return Result{}
	}

	src, ok := doc.Find("img.s-image").First().Attr("src")
	if !ok || src == "" {
		return Result{}
	}

	return Result{
		ArtworkURL: amazonResizeRe.ReplaceAllString(src, "."),
		Source:     amazonSourceLabel,
	}
}
