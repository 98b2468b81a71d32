// Package collect accumulates resolved artwork across a hunt run,
// deduplicating by normalized name and preserving discovery order.
package collect

import (
	"archive/zip"
	"bytes"
	"fmt"

	"github.com/skoov/coverhunter/internal/fileutil"
)

// Item is one resolved release with its downloaded artwork.
type Item struct {
	// Name is the normalized search term the item was resolved from.
	Name string `yaml:"name"`
	// Artist is the canonical artist reported by the winning catalog,
	// falling back to Name when the catalog had none.
	Artist string `yaml:"artist"`
	// ArtworkURL is the resolved cover URL.
	ArtworkURL string `yaml:"artwork_url"`
	// Source labels the catalog that supplied the artwork.
	Source string `yaml:"source"`
	// Image holds the downloaded cover bytes. Always non-empty for a
	// collected item.
	Image []byte `yaml:"-"`
}

// Session owns the mutable state of one run. A new run gets a new Session;
// there is no ambient process-wide state to reset.
type Session struct {
	seen      map[string]struct{}
	items     []Item
	attempted int
}

// NewSession starts an empty run.
func NewSession() *Session {
	return &Session{seen: make(map[string]struct{})}
}

// Seen reports whether the term was already attempted this run.
func (s *Session) Seen(term string) bool {
	_, ok := s.seen[term]
	return ok
}

// MarkAttempted records that resolution was started for a new term.
// Returns false if the term was seen before; callers must then skip it
// without re-querying catalogs.
func (s *Session) MarkAttempted(term string) bool {
	if s.Seen(term) {
		return false
	}
	s.seen[term] = struct{}{}
	s.attempted++
	return true
}

// Add appends a resolved item. An empty Artist falls back to the item
// name, preserving the collector's "artist is never empty" guarantee for
// recommendation seeding.
func (s *Session) Add(item Item) {
	if item.Artist == "" {
		item.Artist = item.Name
	}
	s.items = append(s.items, item)
}

// Items returns the collected items in discovery order.
func (s *Session) Items() []Item {
	return s.items
}

// Attempted returns the number of distinct terms tried this run.
func (s *Session) Attempted() int {
	return s.attempted
}

// Resolved returns the number of terms that produced a collected item.
func (s *Session) Resolved() int {
	return len(s.items)
}

// Blocked reports the total-failure condition: nothing was collected.
// A block page typically yields no listings at all, so callers that know
// at least one listing page was fetched should treat this as the source
// blocking us rather than every catalog missing at once.
func (s *Session) Blocked() bool {
	return len(s.items) == 0
}

// Archive builds the in-memory zip of all collected covers: one flat
// `<name>.jpg` entry per item, no directories, no manifest.
func (s *Session) Archive() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, item := range s.items {
		w, err := zw.Create(fileutil.SanitizeFilename(item.Name) + ".jpg")
		if err != nil {
			return nil, fmt.Errorf("failed to create zip entry for %q: %w", item.Name, err)
		}
		if _, err := w.Write(item.Image); err != nil {
			return nil, fmt.Errorf("failed to write zip entry for %q: %w", item.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize zip archive: %w", err)
	}
	return buf.Bytes(), nil
}
