package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
)

func intPtr(i int) *int { return &i }

func TestTrack_Filename(t *testing.T) {
	tests := []struct {
		name   string
		number int
		disc   *int
		title  string
		want   string
	}{
		{"disc one", 2, intPtr(1), "Track 1", "1-02 Track 1.mp3"},
		{"disc three", 4, intPtr(3), "Track 2", "3-04 Track 2.mp3"},
		{"no disc", 1, nil, "Track 1", "01 Track 1.mp3"},
		{"disc zero renders as no disc", 7, intPtr(0), "Intro", "07 Intro.mp3"},
		{"wide number not truncated", 123, nil, "Long", "123 Long.mp3"},
		{"name kept verbatim", 5, nil, "What? / Why:", "05 What? / Why:.mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track := NewTrack("http://example.com/t", tt.title, tt.number, tt.disc)
			if got := track.Filename(); got != tt.want {
				t.Errorf("Filename() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTrack_FilenameDistinct(t *testing.T) {
	seen := make(map[string]string)
	for disc := 1; disc <= 3; disc++ {
		for number := 1; number <= 12; number++ {
			track := NewTrack("", "Same", number, intPtr(disc))
			key := fmt.Sprintf("%d/%d", disc, number)
			if prev, ok := seen[track.Filename()]; ok {
				t.Fatalf("%s and %s both map to %q", prev, key, track.Filename())
			}
			seen[track.Filename()] = key
		}
	}
}

func TestTrack_FilePath(t *testing.T) {
	track := NewTrack("", "A:B", 1, nil)

	plain := track.FilePath("/music/Album", &PathConfig{})
	if want := filepath.Join("/music/Album", "01 A:B.mp3"); plain != want {
		t.Errorf("FilePath() = %q, want %q", plain, want)
	}

	sanitized := track.FilePath("/music/Album", &PathConfig{SanitizeFileNames: true})
	if want := filepath.Join("/music/Album", "01 A_B.mp3"); sanitized != want {
		t.Errorf("FilePath() sanitized = %q, want %q", sanitized, want)
	}
}

func TestAlbum_PathComputation(t *testing.T) {
	cfg := &PathConfig{
		DownloadsPath:    "/music",
		CoverArtFileName: "cover",
		PlaylistFormat:   PlaylistFormatPLS,
	}

	album := NewAlbum("Test Album", "http://example.com/album", "http://example.com/img/front.png", nil)

	if got, want := album.FolderPath(cfg), filepath.Join("/music", "Test Album"); got != want {
		t.Errorf("FolderPath() = %q, want %q", got, want)
	}
	if got, want := album.PlaylistPath(cfg), filepath.Join("/music", "Test Album", "Test Album.pls"); got != want {
		t.Errorf("PlaylistPath() = %q, want %q", got, want)
	}
	if got, want := album.ArtworkPath(cfg, false), filepath.Join("/music", "Test Album", "cover.png"); got != want {
		t.Errorf("ArtworkPath() = %q, want %q", got, want)
	}
	if got, want := album.ArtworkPath(cfg, true), filepath.Join("/music", "Test Album", "cover.jpg"); got != want {
		t.Errorf("ArtworkPath(jpeg) = %q, want %q", got, want)
	}
}

func TestAlbum_NoArtwork(t *testing.T) {
	album := NewAlbum("Test Album", "", "", nil)

	if album.HasArtwork() {
		t.Error("HasArtwork() should return false when ArtworkURL is empty")
	}
	if got := album.ArtworkPath(&PathConfig{DownloadsPath: "/music"}, true); got != "" {
		t.Errorf("ArtworkPath should be empty, got %q", got)
	}
}

func TestPlaylistFormat_Extension(t *testing.T) {
	tests := []struct {
		setting string
		want    string
	}{
		{"m3u", ".m3u"},
		{"pls", ".pls"},
		{"wpl", ".wpl"},
		{"zpl", ".zpl"},
		{"bogus", ".m3u"},
	}

	for _, tt := range tests {
		t.Run(tt.setting, func(t *testing.T) {
			if got := ParsePlaylistFormat(tt.setting).Extension(); got != tt.want {
				t.Errorf("Extension() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Kind(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("resolving album: %w", NewParseError("http://example.com/a", cause))

	if !IsKind(err, KindParse) {
		t.Error("expected parse error kind")
	}
	if IsKind(err, KindFetch) {
		t.Error("did not expect fetch error kind")
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to be reachable via errors.Is")
	}
	if got, want := NewFetchError("http://x", nil).Error(), "fetch error: http://x"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
