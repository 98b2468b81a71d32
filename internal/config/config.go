// Package config holds the small amount of run-wide configuration shared
// between commands.
package config

import (
	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// OverwriteFiles controls whether existing output files (zip,
	// report) are overwritten.
	OverwriteFiles bool
	// LastfmAPIKey gates the recommendation expander; empty disables it.
	LastfmAPIKey string
)

// InitConfig initializes the global configuration from viper.
func InitConfig() {
	viper.SetDefault("hunt.pages", 1)
	viper.SetDefault("hunt.zipfile", "./covers.zip")
	viper.SetDefault("OverwriteFiles", false)

	OverwriteFiles = viper.GetBool("OverwriteFiles")
	LastfmAPIKey = viper.GetString("lastfm.api_key")
}

// SetOverwriteFiles sets the OverwriteFiles flag.
func SetOverwriteFiles(overwrite bool) {
	OverwriteFiles = overwrite
}
