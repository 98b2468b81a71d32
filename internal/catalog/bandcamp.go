package catalog

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/skoov/coverhunter/internal/ratelimit"
)

var bandcampBaseURL = "https://bandcamp.com"

const bandcampSourceLabel = "Bandcamp (Original)"

// Bandcamp scrapes the Bandcamp album search page. Thumbnails use the `_7`
// suffix; swapping it for `_0` gives the original upload.
type Bandcamp struct{}

// Name implements Adapter.
func (a *Bandcamp) Name() string { return "bandcamp" }

// Search implements Adapter.
func (a *Bandcamp) Search(ctx context.Context, term string) Result {
	// Storefront scrape, throttled so a long hunt stays polite.
	if err := ratelimit.ForSource("Bandcamp", 1).Wait(ctx); err != nil {
		slog.Debug("Bandcamp rate limit wait failed", "term", term, "error", err)
		return Result{}
	}

	searchURL := bandcampBaseURL + "/search?q=" + url.QueryEscape(term) + "&item_type=a"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		slog.Debug("Bandcamp request build failed", "term", term, "error", err)
		return Result{}
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := getSearchClient().Do(req)
	if err != nil {
		slog.Debug("Bandcamp search failed", "term", term, "error", err)
		return Result{}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("Bandcamp search returned non-200", "term", term, "status", resp.StatusCode)
		return Result{}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		slog.Debug("Bandcamp response parse failed", "term", term, "error", err)
		return Result{}
	}

	item := doc.Find("li.searchresult").First()
	if item.Length() == 0 {
		return Result{}
	}

	src, ok := item.Find("div.art img").First().Attr("src")
	if !ok || src == "" {
		return Result{}
	}

	// The subhead reads "by <artist>" when Bandcamp knows the artist;
	// compilations and labels leave it out.
	artist := strings.TrimSpace(item.Find("div.subhead").First().Text())
	artist = strings.TrimPrefix(artist, "by ")

	return Result{
		ArtworkURL: strings.Replace(src, "_7.jpg", "_0.jpg", 1),
		Source:     bandcampSourceLabel,
		Artist:     artist,
	}
}
