package model

import (
	"fmt"
	"path/filepath"

	ioutils "github.com/handiism/khi-dl/internal/io"
)

// Track represents a single track listed on an album page.
//
// A Track is built once while parsing the album's track table and is not
// modified afterwards. The real audio URL is not stored; it is resolved from
// PageURL when the track is downloaded.
//
// Example:
//
//	disc := 1
//	track := NewTrack("https://example.com/album/x/01.mp3", "Opening", 1, &disc)
//	track.Filename() // "1-01 Opening.mp3"
type Track struct {
	// PageURL is the absolute address of the track detail page.
	PageURL string

	// Name is the anchor text from the track table, kept verbatim.
	Name string

	// Number is the 1-based position within the disc.
	Number int

	// Disc is the disc number, nil when the listing has no disc column.
	Disc *int
}

// NewTrack creates a Track. disc may be nil.
func NewTrack(pageURL, name string, number int, disc *int) *Track {
	return &Track{
		PageURL: pageURL,
		Name:    name,
		Number:  number,
		Disc:    disc,
	}
}

// HasDisc reports whether the track carries a non-zero disc number.
//
// A disc numbered 0 is treated as no disc at all.
func (t *Track) HasDisc() bool {
	return t.Disc != nil && *t.Disc != 0
}

// DiscNumber returns the disc number, or 0 when there is none.
func (t *Track) DiscNumber() int {
	if t.Disc == nil {
		return 0
	}
	return *t.Disc
}

// Filename returns the track's file name within its album folder.
//
// The format is "{disc}-{number:02d} {name}.mp3" for tracks with a disc and
// "{number:02d} {name}.mp3" otherwise. The name is not sanitized.
func (t *Track) Filename() string {
	if t.HasDisc() {
		return fmt.Sprintf("%d-%02d %s.mp3", *t.Disc, t.Number, t.Name)
	}
	return fmt.Sprintf("%02d %s.mp3", t.Number, t.Name)
}

// FilePath computes where the track is saved inside albumDir.
func (t *Track) FilePath(albumDir string, cfg *PathConfig) string {
	name := t.Filename()
	if cfg != nil && cfg.SanitizeFileNames {
		name = ioutils.SanitizeFileName(name)
	}
	return filepath.Join(albumDir, name)
}
