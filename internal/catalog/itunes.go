package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

var itunesBaseURL = "https://itunes.apple.com"

const itunesSourceLabel = "iTunes (4K)"

// ITunes searches the iTunes album catalog. Artwork URLs embed a 100x100
// size token that the CDN scales on demand, so requesting an absurdly large
// size yields the highest resolution available.
type ITunes struct{}

// Name implements Adapter.
func (a *ITunes) Name() string { return "itunes" }

type itunesResponse struct {
	ResultCount int `json:"resultCount"`
	Results     []struct {
		ArtworkURL100 string `json:"artworkUrl100"`
		ArtistName    string `json:"artistName"`
	} `json:"results"`
}

// Search implements Adapter.
func (a *ITunes) Search(ctx context.Context, term string) Result {
	params := url.Values{}
	params.Set("term", term)
	params.Set("media", "music")
	params.Set("entity", "album")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, itunesBaseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		slog.Debug("iTunes request build failed", "term", term, "error", err)
		return Result{}
	}

	resp, err := getSearchClient().Do(req)
	if err != nil {
		slog.Debug("iTunes search failed", "term", term, "error", err)
		return Result{}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("iTunes search returned non-200", "term", term, "status", resp.StatusCode)
		return Result{}
	}

	var data itunesResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		slog.Debug("iTunes response decode failed", "term", term, "error", err)
		return Result{}
	}

	if data.ResultCount == 0 || len(data.Results) == 0 {
		return Result{}
	}

	item := data.Results[0]
	if item.ArtworkURL100 == "" {
		return Result{}
	}

	return Result{
		ArtworkURL: strings.Replace(item.ArtworkURL100, "100x100bb", "10000x10000bb", 1),
		Source:     itunesSourceLabel,
		Artist:     item.ArtistName,
	}
}
