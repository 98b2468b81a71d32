package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/skoov/coverhunter/internal/ratelimit"
)

var (
	musicbrainzBaseURL = "https://musicbrainz.org"
	coverArtBaseURL    = "https://coverartarchive.org"
)

const (
	musicbrainzSourceLabel = "MusicBrainz (Archive)"
	// MusicBrainz requires an identifying User-Agent and throttles
	// anonymous clients to one request per second.
	musicbrainzUserAgent = "coverhunter/1.0 (+https://github.com/skoov/coverhunter)"
)

var (
	headClient     *http.Client
	headClientOnce sync.Once
)

// getHeadClient returns a client that does not follow redirects: the Cover
// Art Archive answers existence probes with 302/307 and those statuses must
// be observed, not chased.
func getHeadClient() *http.Client {
	headClientOnce.Do(func() {
		headClient = &http.Client{
			Timeout: searchTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	})
	return headClient
}

// MusicBrainz resolves artwork in two steps: a release search against the
// MusicBrainz web service, then a HEAD existence probe against the Cover
// Art Archive front-image URL for the matched release.
type MusicBrainz struct{}

// Name implements Adapter.
func (a *MusicBrainz) Name() string { return "musicbrainz" }

type musicbrainzResponse struct {
	Releases []struct {
		ID           string `json:"id"`
		ArtistCredit []struct {
			Name string `json:"name"`
		} `json:"artist-credit"`
	} `json:"releases"`
}

// Search implements Adapter.
func (a *MusicBrainz) Search(ctx context.Context, term string) Result {
	if err := ratelimit.ForSource("MusicBrainz", 1).Wait(ctx); err != nil {
		slog.Debug("MusicBrainz rate limit wait failed", "term", term, "error", err)
		return Result{}
	}

	params := url.Values{}
	params.Set("query", "release:"+term)
	params.Set("fmt", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, musicbrainzBaseURL+"/ws/2/release/?"+params.Encode(), nil)
	if err != nil {
		slog.Debug("MusicBrainz request build failed", "term", term, "error", err)
		return Result{}
	}
	req.Header.Set("User-Agent", musicbrainzUserAgent)

	resp, err := getSearchClient().Do(req)
	if err != nil {
		slog.Debug("MusicBrainz search failed", "term", term, "error", err)
		return Result{}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("MusicBrainz search returned non-200", "term", term, "status", resp.StatusCode)
		return Result{}
	}

	var data musicbrainzResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		slog.Debug("MusicBrainz response decode failed", "term", term, "error", err)
		return Result{}
	}

	if len(data.Releases) == 0 {
		return Result{}
	}

	release := data.Releases[0]
	coverURL := coverArtBaseURL + "/release/" + release.ID + "/front"
	if !a.coverExists(ctx, coverURL) {
		return Result{}
	}

	var artist string
	if len(release.ArtistCredit) > 0 {
		artist = release.ArtistCredit[0].Name
	}

	return Result{
		ArtworkURL: coverURL,
		Source:     musicbrainzSourceLabel,
		Artist:     artist,
	}
}

// coverExists probes the archive without downloading the image. The archive
// redirects to its storage backend on hit, so redirect statuses count as
// success.
func (a *MusicBrainz) coverExists(ctx context.Context, coverURL string) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodHead, coverURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", musicbrainzUserAgent)

	resp, err := getHeadClient().Do(req)
	if err != nil {
		slog.Debug("Cover Art Archive probe failed", "url", coverURL, "error", err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusFound, http.StatusTemporaryRedirect:
		return true
	default:
		return false
	}
}
