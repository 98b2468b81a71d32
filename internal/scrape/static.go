package scrape

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const staticFetchTimeout = 15 * time.Second

// userAgents is a small pool of realistic browser identities; listing
// sites reject obvious bot user agents.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.3 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
}

var (
	staticClient     *http.Client
	staticClientOnce sync.Once
)

func getStaticClient() *http.Client {
	staticClientOnce.Do(func() {
		staticClient = &http.Client{Timeout: staticFetchTimeout}
	})
	return staticClient
}

// StaticScraper fetches listing pages with a plain HTTP client. Works for
// sites that serve their article list without a JavaScript challenge.
type StaticScraper struct {
	Site Site
}

// Listings implements Scraper.
func (s *StaticScraper) Listings(ctx context.Context, pageURL string) ([]Listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create listing request: %w", err)
	}
	req.Header.Set("User-Agent", userAgents[int(time.Now().UnixNano())%len(userAgents)])
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := getStaticClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing page: %w", err)
	}

	return extractListings(doc, s.Site), nil
}
