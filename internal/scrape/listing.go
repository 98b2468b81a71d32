package scrape

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/skoov/coverhunter/internal/normalize"
)

// Listing is one discovered release entry.
type Listing struct {
	// Raw is the listing identifier: a URL slug, a feed title, or
	// scraped DOM text, depending on Kind.
	Raw string
	// Kind tells the normalizer how to pre-process Raw.
	Kind normalize.SourceKind
	// FallbackImageURL, when non-empty, is a cover embedded in the
	// source page itself; used only when every catalog misses.
	FallbackImageURL string
}

// Scraper yields the listings found on one page.
type Scraper interface {
	Listings(ctx context.Context, pageURL string) ([]Listing, error)
}

// listingHrefRe matches the numeric-id slug both source sites use for
// release pages: /12345-band-album.html.
var listingHrefRe = regexp.MustCompile(`/\d+-`)

// extractListings pulls release links out of a parsed listing page. Any
// anchor that looks like a release page (.html link with a numeric-id
// slug) and belongs to the site counts; both sites share this shape.
func extractListings(doc *goquery.Document, site Site) []Listing {
	var listings []Listing
	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		if !strings.Contains(href, ".html") || !listingHrefRe.MatchString(href) {
			return
		}

		switch {
		case strings.Contains(href, site.Host):
			// absolute link to the site
		case strings.HasPrefix(href, "/"):
			href = site.BaseURL + href
		default:
			return
		}

		listings = append(listings, Listing{Raw: href, Kind: normalize.SlugURL})
	})
	return listings
}
