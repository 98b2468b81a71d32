package cache

import "fmt"

// Every catalog gets its own table with the same shape: cache_key is the
// normalized search term (or cleaned artist for Last.fm), data is a JSON
// blob of the adapter result.

// CatalogSources lists every external source with a cache table.
var CatalogSources = []string{
	"itunes",
	"bandcamp",
	"amazon",
	"deezer",
	"musicbrainz",
	"lastfm",
}

const sourceSchemaTemplate = `
CREATE TABLE IF NOT EXISTS %[1]s_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_%[1]s_cached_at ON %[1]s_cache(cached_at);
`

// AllSchemas contains the CREATE statements for every cache table.
var AllSchemas []string

// ValidTableNames is the whitelist used when interpolating table names
// into SQL.
var ValidTableNames = map[string]bool{}

func init() {
	for _, source := range CatalogSources {
		AllSchemas = append(AllSchemas, fmt.Sprintf(sourceSchemaTemplate, source))
		ValidTableNames[source+"_cache"] = true
	}
}

// TableFor returns the cache table name for a catalog source.
func TableFor(source string) string {
	return source + "_cache"
}
