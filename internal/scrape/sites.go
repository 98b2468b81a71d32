// Package scrape discovers release listings on the supported source sites.
// It only produces raw listing identifiers; title cleanup and artwork
// resolution happen downstream.
package scrape

import (
	"fmt"
	"strings"
)

// Site describes one supported listing source.
type Site struct {
	// Key is the identifier used on the command line.
	Key string
	// BaseURL is the site root, without a trailing slash.
	BaseURL string
	// Host is used to filter listing links to the site itself.
	Host string
}

var sites = []Site{
	{Key: "coreradio", BaseURL: "https://coreradio.online", Host: "coreradio.online"},
	{Key: "deathgrind", BaseURL: "https://deathgrind.club", Host: "deathgrind.club"},
}

// Sites returns the supported sites.
func Sites() []Site {
	return sites
}

// SiteFor looks up a site by its command-line key.
func SiteFor(key string) (Site, error) {
	for _, s := range sites {
		if s.Key == key {
			return s, nil
		}
	}
	keys := make([]string, len(sites))
	for i, s := range sites {
		keys[i] = s.Key
	}
	return Site{}, fmt.Errorf("unknown source site %q; supported sites are: %s", key, strings.Join(keys, ", "))
}

// PageURLs builds the list of pages to scan. An explicit deep link (a long
// URL that is not a pagination URL) is scanned alone; otherwise the site's
// paginated front pages are used.
func (s Site) PageURLs(target string, pages int) []string {
	if pages < 1 {
		pages = 1
	}

	target = strings.TrimSpace(target)
	if target == "" {
		target = s.BaseURL
	}
	if !strings.HasPrefix(target, "http") {
		target = "https://" + target
	}

	if !strings.Contains(target, "page") && len(target) > 35 {
		return []string{target}
	}

	urls := make([]string, pages)
	for i := range urls {
		urls[i] = fmt.Sprintf("%s/page/%d/", s.BaseURL, i+1)
	}
	return urls
}
