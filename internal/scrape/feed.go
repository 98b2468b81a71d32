package scrape

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"github.com/skoov/coverhunter/internal/normalize"
)

// FeedScraper reads release listings from a site's RSS feed. Feed items
// carry human-written titles rather than URL slugs, so listings are tagged
// FeedTitle for the normalizer.
type FeedScraper struct {
	Site Site
}

type rssFeed struct {
	Channel struct {
		Items []struct {
			Title     string `xml:"title"`
			Enclosure struct {
				URL string `xml:"url,attr"`
			} `xml:"enclosure"`
		} `xml:"item"`
	} `xml:"channel"`
}

// Listings implements Scraper. pageURL must point at the feed itself.
func (s *FeedScraper) Listings(ctx context.Context, pageURL string) ([]Listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create feed request: %w", err)
	}
	req.Header.Set("User-Agent", userAgents[int(time.Now().UnixNano())%len(userAgents)])

	resp, err := getStaticClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var feed rssFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("failed to decode feed: %w", err)
	}

	listings := make([]Listing, 0, len(feed.Channel.Items))
	for _, item := range feed.Channel.Items {
		if item.Title == "" {
			continue
		}
		listings = append(listings, Listing{
			Raw:              item.Title,
			Kind:             normalize.FeedTitle,
			FallbackImageURL: item.Enclosure.URL,
		})
	}
	return listings, nil
}
