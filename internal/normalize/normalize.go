// Package normalize turns raw listing identifiers scraped from source sites
// into clean search terms suitable for catalog queries.
package normalize

import (
	"regexp"
	"strings"
)

// SourceKind identifies where a raw listing identifier came from, which
// determines how much pre-processing it needs before token cleanup.
type SourceKind int

const (
	// SlugURL is a listing URL like "https://site/12345-band-album-2025.html".
	SlugURL SourceKind = iota
	// FeedTitle is an item title from an RSS/Atom feed.
	FeedTitle
	// DomText is text scraped from a rendered article element.
	DomText
)

// MinTermLength is the shortest search term worth sending to a catalog.
// Anything shorter is almost certainly a cleanup artifact.
const MinTermLength = 3

// denylist contains whole words stripped from titles: release-quality
// markers, container words and archive words that pollute catalog queries.
// Multi-word entries must come before their component words so "full album"
// is removed as a unit.
var denylist = []string{
	"deluxe edition",
	"full album",
	"remastered",
	"320kbps",
	"24bit",
	"hi-res",
	"flac",
	"kbps",
	"320",
	"mp3",
	"web",
	"ep",
	"single",
	"rar",
	"zip",
	"download",
}

var (
	idPrefixRe   = regexp.MustCompile(`^\d+-`)
	bracketsRe   = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)`)
	yearTokenRe  = regexp.MustCompile(`(?i)\b20\d{2}\b`)
	multiSpaceRe = regexp.MustCompile(` +`)
	denylistRe   *regexp.Regexp
)

func init() {
	quoted := make([]string, len(denylist))
	for i, w := range denylist {
		quoted[i] = regexp.QuoteMeta(w)
	}
	denylistRe = regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
}

// Normalize derives a search term from a raw listing identifier.
// The result is idempotent: normalizing an already-normalized term is a
// no-op. Use Valid to decide whether the result is worth resolving.
func Normalize(raw string, kind SourceKind) string {
	s := raw

	if kind == SlugURL {
		s = slugToTitle(s)
	}

	s = bracketsRe.ReplaceAllString(s, " ")
	s = denylistRe.ReplaceAllString(s, " ")
	s = yearTokenRe.ReplaceAllString(s, " ")
	s = strings.NewReplacer("\t", " ", "\n", " ").Replace(s)
	s = multiSpaceRe.ReplaceAllString(s, " ")

	return strings.TrimSpace(s)
}

// Valid reports whether a normalized term is usable as a catalog query.
func Valid(term string) bool {
	return len(term) >= MinTermLength
}

// slugToTitle extracts the readable part of a listing URL. Source sites use
// the pattern "domain.tld/12345-band-album-name.html".
func slugToTitle(rawURL string) string {
	slug := rawURL
	if idx := strings.LastIndex(slug, "/"); idx != -1 {
		slug = slug[idx+1:]
	}
	for _, ext := range []string{".html", ".htm", ".php"} {
		slug = strings.TrimSuffix(slug, ext)
	}
	slug = idPrefixRe.ReplaceAllString(slug, "")
	slug = strings.ReplaceAll(slug, "-", " ")
	slug = strings.ReplaceAll(slug, "_", " ")
	return slug
}
