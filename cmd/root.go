// Package cmd wires the coverhunter CLI together.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/skoov/coverhunter/cmd/hunt"
	"github.com/skoov/coverhunter/internal/cache"
	"github.com/skoov/coverhunter/internal/catalog"
	"github.com/skoov/coverhunter/internal/config"
	"github.com/skoov/coverhunter/internal/recommend"
	"github.com/skoov/coverhunter/internal/resolver"
)

// CLI represents the complete command structure for coverhunter.
type CLI struct {
	// Global flags
	Overwrite bool `help:"Overwrite existing output files (zip, report)"`

	// Cache flags
	CacheDBFile string `help:"Path to cache SQLite database file" default:"./cache.db"`
	CacheTTL    string `help:"Cache time-to-live duration (e.g., 720h for 30 days)" default:"720h"`
	NoCache     bool   `help:"Bypass the catalog lookup cache entirely"`

	Hunt      HuntCmd      `cmd:"" help:"Scan a source site and collect album covers"`
	Recommend RecommendCmd `cmd:"" help:"Show similar-artist recommendations for one artist"`
	Cache     CacheCmd     `cmd:"" help:"Manage the catalog lookup cache"`
}

// HuntCmd represents the hunt command.
type HuntCmd struct {
	Site      string `short:"s" help:"Source site: coreradio or deathgrind" default:"coreradio"`
	URL       string `help:"Explicit listing page URL (defaults to the site front page)"`
	Pages     int    `short:"p" help:"Number of front pages to scan" default:"1"`
	Zip       string `short:"z" help:"Path for the cover zip archive" default:"./covers.zip"`
	Report    string `help:"Write a YAML report of the run to this path"`
	Browser   bool   `help:"Fetch listing pages through a headless browser (for bot-walled sites)"`
	LastfmKey string `help:"Last.fm API key for recommendations"`
	Recommend bool   `help:"Expand similar-artist recommendations after the hunt"`
}

// RecommendCmd represents the recommend command.
type RecommendCmd struct {
	Artist    string `short:"a" help:"Seed artist name" required:""`
	LastfmKey string `help:"Last.fm API key"`
	Limit     int    `short:"l" help:"Maximum number of suggestions" default:"4"`
}

// CacheCmd groups the cache management subcommands.
type CacheCmd struct {
	Invalidate cache.InvalidateCmd `cmd:"" help:"Clear cached lookups for a catalog source"`
}

// execute is swapped in tests.
var execute = func() {
	initLogging()
	initConfig()

	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("coverhunter"),
		kong.Description("Discover album releases on music blogs and collect the best available cover artwork."),
		kong.UsageOnError(),
	)

	updateGlobalConfig(&cli)

	if err := ctx.Run(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

// Execute runs the Kong-based CLI.
func Execute() {
	execute()
}

func initConfig() {
	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("cache.ttl", "720h") // 30 days
	viper.SetDefault("cache.enabled", true)

	viper.AutomaticEnv()
	if err := viper.BindEnv("lastfm.api_key", "LASTFM_API_KEY"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			slog.Info("Config file not found, writing default config file...")
			if err := viper.SafeWriteConfig(); err != nil {
				slog.Error("Error writing config file", "error", err)
			}
			os.Exit(0)
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	config.SetOverwriteFiles(cli.Overwrite)

	viper.Set("cache.dbfile", cli.CacheDBFile)
	viper.Set("cache.ttl", cli.CacheTTL)
	viper.Set("cache.enabled", !cli.NoCache)
}

// lastfmKey resolves the Last.fm API key: an explicit flag wins, otherwise
// the key loaded from config/env.
func lastfmKey(flag string) string {
	if flag != "" {
		return flag
	}
	return config.LastfmAPIKey
}

// Run methods for each command

func (h *HuntCmd) Run() error {
	apiKey := lastfmKey(h.LastfmKey)

	ctx := context.Background()
	session, err := hunt.Run(ctx, hunt.Params{
		Site:    h.Site,
		URL:     h.URL,
		Pages:   h.Pages,
		Browser: h.Browser,
	})
	if err != nil {
		return err
	}

	fmt.Print(hunt.RenderSummary(session))

	if _, err := hunt.WriteArchive(session, h.Zip, config.OverwriteFiles); err != nil {
		return err
	}

	var sections []hunt.Section
	if h.Recommend {
		if apiKey == "" {
			slog.Warn("Recommendations requested but no Last.fm API key configured")
		} else {
			sections = hunt.ExpandRecommendations(ctx, session, apiKey)
			fmt.Print(hunt.RenderRecommendations(sections))
		}
	}

	if h.Report != "" {
		if err := hunt.WriteReport(session, sections, h.Report, config.OverwriteFiles); err != nil {
			return err
		}
	}

	return nil
}

func (r *RecommendCmd) Run() error {
	apiKey := lastfmKey(r.LastfmKey)
	if apiKey == "" {
		return errors.New("a Last.fm API key is required (flag --lastfm-key or LASTFM_API_KEY)")
	}

	ctx := context.Background()
	res := resolver.New(catalog.ActiveChain()...)
	suggestions := recommend.Expand(ctx, r.Artist, apiKey, r.Limit, res)
	if len(suggestions) == 0 {
		slog.Info("No similar artists found", "artist", r.Artist)
		return nil
	}

	fmt.Print(hunt.RenderRecommendations([]hunt.Section{
		{Seed: recommend.CleanSeed(r.Artist), Suggestions: suggestions},
	}))
	return nil
}

func initLogging() {
	// Create a human-readable handler for logging
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: slog.LevelInfo,
	})

	slog.SetDefault(slog.New(handler))
}
