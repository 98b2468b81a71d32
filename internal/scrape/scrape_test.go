package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skoov/coverhunter/internal/normalize"
)

func TestSiteFor(t *testing.T) {
	site, err := SiteFor("coreradio")
	require.NoError(t, err)
	assert.Equal(t, "https://coreradio.online", site.BaseURL)

	site, err = SiteFor("deathgrind")
	require.NoError(t, err)
	assert.Equal(t, "deathgrind.club", site.Host)

	_, err = SiteFor("myspace")
	assert.Error(t, err)
}

func TestPageURLs(t *testing.T) {
	site := Site{Key: "coreradio", BaseURL: "https://coreradio.online", Host: "coreradio.online"}

	testCases := []struct {
		name     string
		target   string
		pages    int
		expected []string
	}{
		{
			name:   "empty target paginates the front page",
			target: "",
			pages:  2,
			expected: []string{
				"https://coreradio.online/page/1/",
				"https://coreradio.online/page/2/",
			},
		},
		{
			name:     "explicit deep link is scanned alone",
			target:   "https://coreradio.online/genre/deathcore/list/",
			pages:    3,
			expected: []string{"https://coreradio.online/genre/deathcore/list/"},
		},
		{
			name:   "bare domain gets a scheme and paginates",
			target: "coreradio.online",
			pages:  1,
			expected: []string{
				"https://coreradio.online/page/1/",
			},
		},
		{
			name:   "zero pages clamps to one",
			target: "",
			pages:  0,
			expected: []string{
				"https://coreradio.online/page/1/",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, site.PageURLs(tc.target, tc.pages))
		})
	}
}

const listingPage = `<html><body>
<a href="https://%[1]s/12345-band-x-album-y-2024-flac.html">Band X</a>
<a href="/777-other-band-demo.html">Other Band</a>
<a href="https://%[1]s/about.html">About</a>
<a href="https://othersite.example/999-stolen-release.html">Stolen</a>
<a href="https://%[1]s/contact">Contact</a>
<a>No href</a>
</body></html>`

func TestStaticScraperListings(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		host := r.Host
		_, _ = fmt.Fprintf(w, listingPage, host)
	}))
	defer server.Close()

	host := server.Listener.Addr().String()
	site := Site{Key: "test", BaseURL: server.URL, Host: host}

	scraper := &StaticScraper{Site: site}
	listings, err := scraper.Listings(context.Background(), server.URL)
	require.NoError(t, err)

	require.Len(t, listings, 2, "only numeric-id .html links on the site count")
	assert.Equal(t, server.URL+"/12345-band-x-album-y-2024-flac.html", listings[0].Raw)
	assert.Equal(t, normalize.SlugURL, listings[0].Kind)
	assert.Equal(t, server.URL+"/777-other-band-demo.html", listings[1].Raw, "relative hrefs resolve against the site base")
	assert.Contains(t, gotUA, "Mozilla", "listing sites reject obvious bot user agents")
}

func TestStaticScraperErrorStatuses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	scraper := &StaticScraper{Site: Site{Key: "test", BaseURL: server.URL, Host: "x"}}
	_, err := scraper.Listings(context.Background(), server.URL)
	assert.Error(t, err)
}

const feedBody = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Releases</title>
  <item>
    <title>Gorguts - Obscura (2015) [Remastered]</title>
    <enclosure url="https://site.example/covers/obscura.jpg" type="image/jpeg"/>
  </item>
  <item>
    <title>Wormrot - Hiss</title>
  </item>
  <item>
    <title></title>
  </item>
</channel>
</rss>`

func TestFeedScraperListings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(feedBody))
	}))
	defer server.Close()

	scraper := &FeedScraper{Site: Site{Key: "test", BaseURL: server.URL, Host: "x"}}
	listings, err := scraper.Listings(context.Background(), server.URL+"/rss.xml")
	require.NoError(t, err)

	require.Len(t, listings, 2, "items without a title are skipped")
	assert.Equal(t, "Gorguts - Obscura (2015) [Remastered]", listings[0].Raw)
	assert.Equal(t, normalize.FeedTitle, listings[0].Kind)
	assert.Equal(t, "https://site.example/covers/obscura.jpg", listings[0].FallbackImageURL)
	assert.Empty(t, listings[1].FallbackImageURL)
}
