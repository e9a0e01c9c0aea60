package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/handiism/khi-dl/internal/http"
	"github.com/handiism/khi-dl/internal/model"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "KHI_DL_"

// DefaultMaxConcurrent bounds album resolutions and track downloads in
// flight. Each download holds one socket and one open file.
const DefaultMaxConcurrent = 100

// Settings holds all configuration options.
type Settings struct {
	// Input and output
	DownloadsPath string `json:"downloads_path"`
	SourcesFile   string `json:"sources_file"`

	// Download settings
	MaxConcurrentAlbums   int    `json:"max_concurrent_albums"` // 0 = unbounded
	MaxConcurrentTracks   int    `json:"max_concurrent_tracks"` // 0 = unbounded
	ChunkSize             int    `json:"chunk_size"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds"` // 0 = no timeout
	UserAgent             string `json:"user_agent"`

	// File naming
	SanitizeFileNames bool   `json:"sanitize_file_names"`
	CoverArtFileName  string `json:"cover_art_file_name"`

	// Cover art settings
	SaveCoverArtInFolder bool `json:"save_cover_art_in_folder"`
	SaveCoverArtInTags   bool `json:"save_cover_art_in_tags"`
	CoverArtMaxSize      int  `json:"cover_art_max_size"` // 0 = keep original size
	ConvertCoverArtToJPG bool `json:"convert_cover_art_to_jpg"`

	// Playlist settings
	CreatePlaylist bool   `json:"create_playlist"`
	PlaylistFormat string `json:"playlist_format"` // m3u, pls, wpl, zpl
	M3UExtended    bool   `json:"m3u_extended"`

	// Tag settings
	ModifyTags bool `json:"modify_tags"`
}

// DefaultSettings returns settings with default values.
//
// The defaults download every track as served: no tagging, no cover art,
// no playlist and names taken verbatim from the album page.
func DefaultSettings() *Settings {
	return &Settings{
		DownloadsPath: "downloads",
		SourcesFile:   "sources.txt",

		MaxConcurrentAlbums:   DefaultMaxConcurrent,
		MaxConcurrentTracks:   DefaultMaxConcurrent,
		ChunkSize:             http.DefaultChunkSize,
		RequestTimeoutSeconds: 0,
		UserAgent:             http.DefaultUserAgent,

		SanitizeFileNames: false,
		CoverArtFileName:  "cover",

		SaveCoverArtInFolder: false,
		SaveCoverArtInTags:   false,
		CoverArtMaxSize:      1000,
		ConvertCoverArtToJPG: true,

		CreatePlaylist: false,
		PlaylistFormat: "m3u",
		M3UExtended:    true,

		ModifyTags: false,
	}
}

// Load reads settings from a JSON file. Missing fields keep their defaults
// and a missing file yields DefaultSettings.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// LoadEnv loads the given .env files (".env" when none are given) into the
// process environment and applies KHI_DL_* overrides to s.
//
// Missing .env files are ignored. Variables already set in the environment
// win over .env values.
func (s *Settings) LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return s.ApplyEnv()
}

// ApplyEnv overrides settings from KHI_DL_* environment variables.
func (s *Settings) ApplyEnv() error {
	strs := map[string]*string{
		"DOWNLOADS_PATH":     &s.DownloadsPath,
		"SOURCES_FILE":       &s.SourcesFile,
		"USER_AGENT":         &s.UserAgent,
		"PLAYLIST_FORMAT":    &s.PlaylistFormat,
		"COVER_ART_FILENAME": &s.CoverArtFileName,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"MAX_CONCURRENT_ALBUMS":   &s.MaxConcurrentAlbums,
		"MAX_CONCURRENT_TRACKS":   &s.MaxConcurrentTracks,
		"CHUNK_SIZE":              &s.ChunkSize,
		"REQUEST_TIMEOUT_SECONDS": &s.RequestTimeoutSeconds,
		"COVER_ART_MAX_SIZE":      &s.CoverArtMaxSize,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(EnvPrefix + key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = n
	}

	bools := map[string]*bool{
		"SANITIZE_FILE_NAMES":      &s.SanitizeFileNames,
		"SAVE_COVER_ART_IN_FOLDER": &s.SaveCoverArtInFolder,
		"SAVE_COVER_ART_IN_TAGS":   &s.SaveCoverArtInTags,
		"CONVERT_COVER_ART_TO_JPG": &s.ConvertCoverArtToJPG,
		"CREATE_PLAYLIST":          &s.CreatePlaylist,
		"M3U_EXTENDED":             &s.M3UExtended,
		"MODIFY_TAGS":              &s.ModifyTags,
	}
	for key, dst := range bools {
		v, ok := os.LookupEnv(EnvPrefix + key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = b
	}

	return nil
}

// Validate rejects values the downloader cannot work with.
func (s *Settings) Validate() error {
	if s.DownloadsPath == "" {
		return fmt.Errorf("downloads_path cannot be empty")
	}
	if s.MaxConcurrentAlbums < 0 || s.MaxConcurrentTracks < 0 {
		return fmt.Errorf("concurrency limits cannot be negative")
	}
	if s.ChunkSize < 0 {
		return fmt.Errorf("chunk_size cannot be negative, got %d", s.ChunkSize)
	}
	if s.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("request_timeout_seconds cannot be negative, got %d", s.RequestTimeoutSeconds)
	}
	switch s.PlaylistFormat {
	case "m3u", "pls", "wpl", "zpl":
	default:
		return fmt.Errorf("invalid playlist_format: %s. Valid formats are: m3u, pls, wpl, zpl", s.PlaylistFormat)
	}
	return nil
}

// ToPathConfig converts settings to PathConfig.
func (s *Settings) ToPathConfig() *model.PathConfig {
	return &model.PathConfig{
		DownloadsPath:     s.DownloadsPath,
		SanitizeFileNames: s.SanitizeFileNames,
		CoverArtFileName:  s.CoverArtFileName,
		PlaylistFormat:    model.ParsePlaylistFormat(s.PlaylistFormat),
	}
}

// ToHTTPOptions converts settings to client options.
func (s *Settings) ToHTTPOptions() http.Options {
	return http.Options{
		Timeout:   time.Duration(s.RequestTimeoutSeconds) * time.Second,
		UserAgent: s.UserAgent,
		ChunkSize: s.ChunkSize,
	}
}
