package scrape

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
)

const defaultBrowserTimeout = 45 * time.Second

// Seams for tests; overriding these avoids launching Chrome.
var (
	chromedpExecAllocator = chromedp.NewExecAllocator
	chromedpContext       = chromedp.NewContext
	chromedpRunner        = chromedp.Run
)

// BrowserScraper fetches listing pages through a headless browser so that
// JavaScript bot challenges (Cloudflare and friends) resolve before the
// page is read.
type BrowserScraper struct {
	Site     Site
	Headless bool
	Timeout  time.Duration
}

// Listings implements Scraper.
func (s *BrowserScraper) Listings(ctx context.Context, pageURL string) ([]Listing, error) {
	timeout := s.Timeout
	if timeout == 0 {
		timeout = defaultBrowserTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	allocCtx, cancelAllocator := chromedpExecAllocator(ctx, buildExecAllocatorOptions(s.Headless)...)
	defer cancelAllocator()

	browserCtx, cancelBrowser := chromedpContext(allocCtx)
	defer cancelBrowser()

	var html string
	err := chromedpRunner(browserCtx,
		emulation.SetUserAgentOverride(userAgents[0]),
		chromedp.Navigate(pageURL),
		// Give a challenge page time to clear before reading the DOM.
		chromedp.Sleep(3*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render listing page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered page: %w", err)
	}

	return extractListings(doc, s.Site), nil
}

func buildExecAllocatorOptions(headless bool) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("no-default-browser-check", true),
	)
	return opts
}
