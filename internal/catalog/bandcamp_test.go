package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

const bandcampResultPage = `
<html><body>
<ul>
  <li class="searchresult">
    <div class="art"><img src="https://f4.bcbits.com/img/a123_7.jpg"></div>
    <div class="heading"><a>Obscura</a></div>
    <div class="subhead">
      by Gorguts
    </div>
  </li>
  <li class="searchresult">
    <div class="art"><img src="https://f4.bcbits.com/img/a999_7.jpg"></div>
  </li>
</ul>
</body></html>`

const bandcampNoArtistPage = `
<html><body>
<li class="searchresult">
  <div class="art"><img src="https://f4.bcbits.com/img/a123_7.jpg"></div>
</li>
</body></html>`

func TestBandcampSearch(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		expected Result
	}{
		{
			name: "first result with artist subhead",
			body: bandcampResultPage,
			expected: Result{
				ArtworkURL: "https://f4.bcbits.com/img/a123_0.jpg",
				Source:     "Bandcamp (Original)",
				Artist:     "Gorguts",
			},
		},
		{
			name: "result without artist",
			body: bandcampNoArtistPage,
			expected: Result{
				ArtworkURL: "https://f4.bcbits.com/img/a123_0.jpg",
				Source:     "Bandcamp (Original)",
			},
		},
		{
			name:     "no search results",
			body:     `<html><body><p>No results</p></body></html>`,
			expected: Result{},
		},
		{
			name:     "result without image",
			body:     `<html><body><li class="searchresult"><div class="art"></div></li></body></html>`,
			expected: Result{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "a", r.URL.Query().Get("item_type"))
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			orig := bandcampBaseURL
			bandcampBaseURL = server.URL
			t.Cleanup(func() { bandcampBaseURL = orig })

			adapter := &Bandcamp{}
			result := adapter.Search(context.Background(), "gorguts obscura")
			assert.Equal(t, tc.expected, result)
		})
	}
}
