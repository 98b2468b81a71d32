package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

var deezerBaseURL = "https://api.deezer.com"

const deezerSourceLabel = "Deezer (HQ)"

// Deezer searches the Deezer catalog. Matches can be tracks or albums, so
// the XL cover lives either at the top level or nested under the album.
type Deezer struct{}

// Name implements Adapter.
func (a *Deezer) Name() string { return "deezer" }

type deezerResponse struct {
	Data []struct {
		CoverXL string `json:"cover_xl"`
		Artist  struct {
			Name string `json:"name"`
		} `json:"artist"`
		Album struct {
			CoverXL string `json:"cover_xl"`
		} `json:"album"`
	} `json:"data"`
}

// Search implements Adapter.
func (a *Deezer) Search(ctx context.Context, term string) Result {
	params := url.Values{}
	params.Set("q", term)
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, deezerBaseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		slog.Debug("Deezer request build failed", "term", term, "error", err)
		return Result{}
	}

	resp, err := getSearchClient().Do(req)
	if err != nil {
		slog.Debug("Deezer search failed", "term", term, "error", err)
		return Result{}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("Deezer search returned non-200", "term", term, "status", resp.StatusCode)
		return Result{}
	}

	var data deezerResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		slog.Debug("Deezer response decode failed", "term", term, "error", err)
		return Result{}
	}

	if len(data.Data) == 0 {
		return Result{}
	}

	item := data.Data[0]
	cover := item.CoverXL
	if cover == "" {
		cover = item.Album.CoverXL
	}
	if cover == "" {
		return Result{}
	}

	return Result{
		ArtworkURL: strings.Replace(cover, "1000x1000", "1400x1400", 1),
		Source:     deezerSourceLabel,
		Artist:     item.Artist.Name,
	}
}
