package model

import (
	"net/url"
	"path"
	"path/filepath"

	ioutils "github.com/handiism/khi-dl/internal/io"
)

// Album represents one listing page and its tracks.
//
// Tracks are kept in the order they appear in the page's track table.
//
// Example:
//
//	cfg := &PathConfig{DownloadsPath: "/music", CoverArtFileName: "cover", PlaylistFormat: PlaylistFormatM3U}
//	album := NewAlbum("Chrono Trigger", "https://example.com/album/chrono", "", tracks)
//	album.FolderPath(cfg) // "/music/Chrono Trigger"
type Album struct {
	// Name is the heading text of the listing page.
	Name string

	// URL is the listing page address the album was resolved from.
	URL string

	// ArtworkURL is the album cover link. Empty when the page has none.
	ArtworkURL string

	// Tracks contains the album's tracks in document order.
	Tracks []*Track
}

// NewAlbum creates a new Album.
func NewAlbum(name, pageURL, artworkURL string, tracks []*Track) *Album {
	return &Album{
		Name:       name,
		URL:        pageURL,
		ArtworkURL: artworkURL,
		Tracks:     tracks,
	}
}

// HasArtwork returns true if the album has cover art available for download.
func (a *Album) HasArtwork() bool {
	return a.ArtworkURL != ""
}

// PathConfig holds path settings for albums and tracks.
type PathConfig struct {
	// DownloadsPath is the destination root. Album folders are created directly
	// under it.
	DownloadsPath string

	// SanitizeFileNames replaces characters that are invalid in file names.
	// Off by default so names match the page text exactly.
	SanitizeFileNames bool

	// CoverArtFileName is the cover art file name without extension.
	CoverArtFileName string

	// PlaylistFormat determines the playlist file type and extension.
	PlaylistFormat PlaylistFormat
}

// PlaylistFormat represents supported playlist file formats.
type PlaylistFormat int

const (
	// PlaylistFormatM3U creates .m3u playlist files (most widely supported).
	PlaylistFormatM3U PlaylistFormat = iota

	// PlaylistFormatPLS creates .pls playlist files (used by Winamp).
	PlaylistFormatPLS

	// PlaylistFormatWPL creates .wpl playlist files (Windows Media Player).
	PlaylistFormatWPL

	// PlaylistFormatZPL creates .zpl playlist files (Zune Media Player).
	PlaylistFormatZPL
)

// ParsePlaylistFormat maps a settings value ("m3u", "pls", "wpl", "zpl") to a
// PlaylistFormat. Unknown values fall back to M3U.
func ParsePlaylistFormat(s string) PlaylistFormat {
	switch s {
	case "pls":
		return PlaylistFormatPLS
	case "wpl":
		return PlaylistFormatWPL
	case "zpl":
		return PlaylistFormatZPL
	default:
		return PlaylistFormatM3U
	}
}

// Extension returns the file extension for the playlist format, including the dot.
func (pf PlaylistFormat) Extension() string {
	switch pf {
	case PlaylistFormatPLS:
		return ".pls"
	case PlaylistFormatWPL:
		return ".wpl"
	case PlaylistFormatZPL:
		return ".zpl"
	default:
		return ".m3u"
	}
}

// FolderPath computes the album folder: the album name directly under the
// destination root.
func (a *Album) FolderPath(cfg *PathConfig) string {
	return filepath.Join(cfg.DownloadsPath, a.folderName(cfg))
}

// PlaylistPath computes the playlist file path inside the album folder.
func (a *Album) PlaylistPath(cfg *PathConfig) string {
	return filepath.Join(a.FolderPath(cfg), a.folderName(cfg)+cfg.PlaylistFormat.Extension())
}

// ArtworkPath computes the cover art file path, keeping the extension of the
// artwork URL. Returns an empty string if the album has no artwork.
func (a *Album) ArtworkPath(cfg *PathConfig, jpeg bool) string {
	if !a.HasArtwork() {
		return ""
	}

	ext := ".jpg"
	if !jpeg {
		if u, err := url.Parse(a.ArtworkURL); err == nil && path.Ext(u.Path) != "" {
			ext = path.Ext(u.Path)
		}
	}

	name := cfg.CoverArtFileName
	if name == "" {
		name = "cover"
	}
	return filepath.Join(a.FolderPath(cfg), name+ext)
}

func (a *Album) folderName(cfg *PathConfig) string {
	if cfg.SanitizeFileNames {
		return ioutils.SanitizeFileName(a.Name)
	}
	return a.Name
}
