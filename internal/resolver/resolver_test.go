package resolver

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skoov/coverhunter/internal/catalog"
)

// stubAdapter counts calls and returns a fixed result.
type stubAdapter struct {
	name   string
	result catalog.Result
	calls  int
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) Search(_ context.Context, _ string) catalog.Result {
	s.calls++
	return s.result
}

func TestResolveShortCircuits(t *testing.T) {
	first := &stubAdapter{name: "a", result: catalog.Result{ArtworkURL: "http://img/a.jpg", Source: "A", Artist: "Artist A"}}
	second := &stubAdapter{name: "b", result: catalog.Result{ArtworkURL: "http://img/b.jpg", Source: "B"}}
	third := &stubAdapter{name: "c"}

	r := New(first, second, third)
	result := r.Resolve(context.Background(), "some album")

	assert.Equal(t, "http://img/a.jpg", result.ArtworkURL)
	assert.Equal(t, "A", result.Source)
	assert.Equal(t, "Artist A", result.Artist)

	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls, "lower-priority adapters must not be queried after a hit")
	assert.Equal(t, 0, third.calls)
}

func TestResolveFallsThroughToLaterAdapter(t *testing.T) {
	a := &stubAdapter{name: "a"}
	b := &stubAdapter{name: "b"}
	c := &stubAdapter{name: "c"}
	d := &stubAdapter{name: "d", result: catalog.Result{ArtworkURL: "http://img/d.jpg", Source: "D", Artist: "Artist D"}}
	e := &stubAdapter{name: "e", result: catalog.Result{ArtworkURL: "http://img/e.jpg", Source: "E"}}

	r := New(a, b, c, d, e)
	result := r.Resolve(context.Background(), "some album")

	assert.Equal(t, "http://img/d.jpg", result.ArtworkURL)
	assert.Equal(t, "D", result.Source)
	assert.Equal(t, "Artist D", result.Artist)

	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
	assert.Equal(t, 1, c.calls)
	assert.Equal(t, 1, d.calls)
	assert.Equal(t, 0, e.calls)
}

func TestResolveAllMiss(t *testing.T) {
	a := &stubAdapter{name: "a"}
	b := &stubAdapter{name: "b"}

	r := New(a, b)
	result := r.Resolve(context.Background(), "nothing anywhere")

	assert.False(t, result.Found())
	assert.Equal(t, catalog.Result{}, result, "a total miss must not fabricate a placeholder")
}

// pngBytes returns a valid 1x1 PNG.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFetchImage(t *testing.T) {
	valid := pngBytes(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cover.png":
			_, _ = w.Write(valid)
		case "/error-page":
			// 200 with an HTML body, the classic catalog failure mode
			_, _ = w.Write([]byte("<html>not found</html>"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	r := New(&stubAdapter{name: "a"})

	t.Run("valid image", func(t *testing.T) {
		data, err := r.FetchImage(context.Background(), server.URL+"/cover.png")
		require.NoError(t, err)
		assert.Equal(t, valid, data)
	})

	t.Run("non-image body", func(t *testing.T) {
		_, err := r.FetchImage(context.Background(), server.URL+"/error-page")
		assert.Error(t, err)
	})

	t.Run("missing image", func(t *testing.T) {
		_, err := r.FetchImage(context.Background(), server.URL+"/gone.png")
		assert.Error(t, err)
	})
}

func TestNewDefaultsToFullChain(t *testing.T) {
	r := New()
	assert.Len(t, r.adapters, 5)
}
