package cache

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// InvalidateCmd represents the cache invalidate subcommand.
type InvalidateCmd struct {
	Source string `arg:"" help:"Cache source to invalidate: itunes, bandcamp, amazon, deezer, musicbrainz, lastfm, or all" required:""`
}

// Run clears the cache table(s) for the requested source.
func (i *InvalidateCmd) Run() error {
	slog.Info("Invalidating cache", "source", i.Source, "database", viper.GetString("cache.dbfile"))

	var sources []string
	if i.Source == "all" {
		sources = CatalogSources
	} else {
		valid := false
		for _, s := range CatalogSources {
			if s == i.Source {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid cache source %q; valid sources are: %s, all",
				i.Source, strings.Join(CatalogSources, ", "))
		}
		sources = []string{i.Source}
	}

	db, err := Global()
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}

	var total int64
	for _, source := range sources {
		rowsDeleted, err := db.InvalidateSource(TableFor(source))
		if err != nil {
			return fmt.Errorf("failed to invalidate %s cache: %w", source, err)
		}
		total += rowsDeleted
	}

	slog.Info("Cache invalidated", "source", i.Source, "rows_deleted", total)
	return nil
}
