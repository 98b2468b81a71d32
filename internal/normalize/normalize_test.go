package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSlugURL(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "id prefix and year stripped",
			input:    "91890-inverecund-doctrine-of-damnation-2026-ep",
			expected: "inverecund doctrine of damnation",
		},
		{
			name:     "full listing url",
			input:    "https://coreradio.online/12345-band-x-album-y-2024-flac.html",
			expected: "band x album y",
		},
		{
			name:     "underscores treated as separators",
			input:    "777-some_band-some_album.html",
			expected: "some band some album",
		},
		{
			name:     "quality markers removed",
			input:    "100-obituary-cause-of-death-320-kbps-mp3.html",
			expected: "obituary cause of death",
		},
		{
			name:     "id only",
			input:    "12345-.html",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Normalize(tc.input, SlugURL))
		})
	}
}

func TestNormalizeFeedAndDom(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		kind     SourceKind
		expected string
	}{
		{
			name:     "bracketed spans removed",
			input:    "Gorguts - Obscura [Remastered] (2015)",
			kind:     FeedTitle,
			expected: "Gorguts - Obscura",
		},
		{
			name:     "container words removed",
			input:    "Converge Deluxe Edition Full Album Download",
			kind:     DomText,
			expected: "Converge",
		},
		{
			name:     "whitespace collapsed",
			input:    "  Neurosis   Times of  Grace ",
			kind:     DomText,
			expected: "Neurosis Times of Grace",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Normalize(tc.input, tc.kind))
		})
	}
}

// Denylist entries must only match whole words: "webster" keeps its "web",
// while a standalone "web" token is removed.
func TestNormalizeWholeWordsOnly(t *testing.T) {
	assert.Equal(t, "demo", Normalize("web demo", DomText))
	assert.Equal(t, "webster", Normalize("webster", DomText))
	assert.Equal(t, "deathspell omega", Normalize("deathspell omega", DomText))
	assert.Equal(t, "zippers", Normalize("zippers", DomText))
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"91890-inverecund-doctrine-of-damnation-2026-ep",
		"https://deathgrind.club/555-wormrot-hiss-2022-flac.html",
		"Gorguts - Obscura [Remastered] (2015)",
		"web demo",
	}
	for _, in := range inputs {
		once := Normalize(in, SlugURL)
		assert.Equal(t, once, Normalize(once, DomText), "input %q", in)
	}
}

func TestValid(t *testing.T) {
	assert.False(t, Valid(""))
	assert.False(t, Valid("ab"))
	assert.True(t, Valid("abc"))
	assert.True(t, Valid("band x album y"))
}
