// Package config provides configuration management for khi-dl.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - KHI_DL_* environment overrides, optionally read from a .env file
//   - Conversion to PathConfig and client options for other packages
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Downloads to ./downloads/{album}
//	// At most 100 albums resolving and 100 tracks downloading at once
//	// No tagging, cover art or playlists
//
// # Loading
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    return err
//	}
//	if err := settings.LoadEnv(); err != nil { // reads .env if present
//	    return err
//	}
//
// Precedence, lowest first: defaults, JSON file, environment, CLI flags.
package config
