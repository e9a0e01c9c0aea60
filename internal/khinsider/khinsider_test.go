package khinsider

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/handiism/khi-dl/internal/model"
)

const sampleTrackPage = `
<html>
<body>
    <div id="audio" src="http://example.com/audio.mp3"></div>
</body>
</html>
`

const sampleAlbumPage = `
<html>
<body>
    <div class="albumImage"><a href="/img/front.jpg"><img src="/thumbs/front.jpg"></a></div>
    <h2>Sample Album</h2>
    <table id="songlist">
        <tr>
            <th>CD</th>
            <th>#</th>
            <th>Song Name</th>
        </tr>
        <tr>
            <td>1.</td>
            <td>2</td>
            <td><a href="/track1">Track 1</a></td>
        </tr>
        <tr>
            <td>3</td>
            <td>4.</td>
            <td><a href="/track2">Track 2</a></td>
        </tr>
        <tr id="songlist_footer">
            <th></th>
            <th></th>
            <th></th>
        </tr>
    </table>
</body>
</html>
`

// albumPage builds a listing page with the given header cells and data rows.
func albumPage(header []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString(`<html><body><h2>Generated</h2><table id="songlist"><tr>`)
	for _, h := range header {
		fmt.Fprintf(&b, "<th>%s</th>", h)
	}
	b.WriteString("</tr>")
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(&b, "<td>%s</td>", cell)
		}
		b.WriteString("</tr>")
	}
	b.WriteString(`<tr id="songlist_footer"><th></th></tr></table></body></html>`)
	return b.String()
}

func intPtr(i int) *int { return &i }

type fakeFetcher map[string]string

func (f fakeFetcher) GetString(_ context.Context, url string) (string, error) {
	body, ok := f[url]
	if !ok {
		return "", model.NewFetchError(url, errors.New("HTTP 404: 404 Not Found"))
	}
	return body, nil
}

func TestExtractAlbumTracks(t *testing.T) {
	name, tracks, err := ExtractAlbumTracks(sampleAlbumPage, "http://example.com/album1")
	if err != nil {
		t.Fatalf("ExtractAlbumTracks failed: %v", err)
	}

	if name != "Sample Album" {
		t.Errorf("name = %q, want %q", name, "Sample Album")
	}

	want := []TrackDescriptor{
		{PageURL: "http://example.com/track1", Name: "Track 1", Number: 2, Disc: intPtr(1)},
		{PageURL: "http://example.com/track2", Name: "Track 2", Number: 4, Disc: intPtr(3)},
	}
	if !reflect.DeepEqual(tracks, want) {
		t.Errorf("tracks = %+v, want %+v", tracks, want)
	}
}

func TestExtractAlbumTracks_Idempotent(t *testing.T) {
	name1, tracks1, err1 := ExtractAlbumTracks(sampleAlbumPage, "http://example.com/album1")
	name2, tracks2, err2 := ExtractAlbumTracks(sampleAlbumPage, "http://example.com/album1")
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	}
	if name1 != name2 || !reflect.DeepEqual(tracks1, tracks2) {
		t.Error("parsing the same markup twice gave different results")
	}
}

func TestExtractAlbumTracks_Rows(t *testing.T) {
	tests := []struct {
		name      string
		header    []string
		rows      [][]string
		wantNames []string
		wantDisc  bool
	}{
		{
			name:      "no disc column",
			header:    []string{"#", "Song Name"},
			rows:      [][]string{{"1.", `<a href="/a">A</a>`}, {"2.", `<a href="/b">B</a>`}},
			wantNames: []string{"A", "B"},
			wantDisc:  false,
		},
		{
			name:      "zero data rows",
			header:    []string{"#", "Song Name"},
			rows:      nil,
			wantNames: []string{},
		},
		{
			name:   "extra columns and document order",
			header: []string{"&nbsp;", "CD", "#", "Song Name", "MP3"},
			rows: [][]string{
				{"", "1", "1.", `<a href="/x/1">Third In Number</a>`, "3 MB"},
				{"", "1", "3.", `<a href="/x/3">First</a>`, "3 MB"},
				{"", "2", "2.", `<a href="/x/2">Second</a>`, "3 MB"},
			},
			wantNames: []string{"Third In Number", "First", "Second"},
			wantDisc:  true,
		},
		{
			name:      "padded header text",
			header:    []string{" # ", "\n Song Name \n"},
			rows:      [][]string{{" 7. ", `<a href="/a">Seven</a>`}},
			wantNames: []string{"Seven"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, tracks, err := ExtractAlbumTracks(albumPage(tt.header, tt.rows), "https://example.com/album/x")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(tracks) != len(tt.rows) {
				t.Fatalf("got %d tracks, want %d", len(tracks), len(tt.rows))
			}

			names := make([]string, len(tracks))
			for i, track := range tracks {
				names[i] = track.Name
				if (track.Disc != nil) != tt.wantDisc {
					t.Errorf("track %d disc = %v, want set=%v", i, track.Disc, tt.wantDisc)
				}
			}
			if !reflect.DeepEqual(names, tt.wantNames) {
				t.Errorf("names = %v, want %v", names, tt.wantNames)
			}
		})
	}
}

func TestExtractAlbumTracks_LinkResolution(t *testing.T) {
	page := albumPage([]string{"#", "Song Name"}, [][]string{
		{"1", `<a href="/game-soundtracks/album/x/01.mp3">One</a>`},
		{"2", `<a href="https://cdn.example.org/02.mp3">Two</a>`},
	})

	_, tracks, err := ExtractAlbumTracks(page, "https://example.com/game-soundtracks/album/x?page=2")
	if err != nil {
		t.Fatal(err)
	}

	if got, want := tracks[0].PageURL, "https://example.com/game-soundtracks/album/x/01.mp3"; got != want {
		t.Errorf("relative link = %q, want %q", got, want)
	}
	if got, want := tracks[1].PageURL, "https://cdn.example.org/02.mp3"; got != want {
		t.Errorf("absolute link = %q, want %q", got, want)
	}
}

func TestExtractAlbumTracks_Errors(t *testing.T) {
	tests := []struct {
		name    string
		markup  string
		wantMsg string
	}{
		{
			name:    "missing heading",
			markup:  `<html><body><table id="songlist"><tr><th>#</th><th>Song Name</th></tr></table></body></html>`,
			wantMsg: "heading",
		},
		{
			name:    "missing table",
			markup:  `<html><body><h2>X</h2></body></html>`,
			wantMsg: "track table not found",
		},
		{
			name:    "missing number column",
			markup:  albumPage([]string{"Song Name"}, nil),
			wantMsg: `"#"`,
		},
		{
			name:    "missing name column",
			markup:  albumPage([]string{"#"}, nil),
			wantMsg: `"Song Name"`,
		},
		{
			name:    "non-numeric number",
			markup:  albumPage([]string{"#", "Song Name"}, [][]string{{"one", `<a href="/a">A</a>`}}),
			wantMsg: "track number",
		},
		{
			name:    "non-numeric disc",
			markup:  albumPage([]string{"CD", "#", "Song Name"}, [][]string{{"A", "1", `<a href="/a">A</a>`}}),
			wantMsg: "disc number",
		},
		{
			name:    "missing link",
			markup:  albumPage([]string{"#", "Song Name"}, [][]string{{"1", "plain text"}}),
			wantMsg: "no track link",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ExtractAlbumTracks(tt.markup, "http://example.com/broken")
			if err == nil {
				t.Fatal("expected error but got none")
			}
			if !model.IsKind(err, model.KindParse) {
				t.Errorf("expected parse error, got %v", err)
			}
			if !strings.Contains(err.Error(), "http://example.com/broken") {
				t.Errorf("error should name the page: %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestExtractAudioSource(t *testing.T) {
	tests := []struct {
		name    string
		markup  string
		want    string
		wantErr bool
	}{
		{
			name:   "absolute src",
			markup: sampleTrackPage,
			want:   "http://example.com/audio.mp3",
		},
		{
			name:   "relative src",
			markup: `<audio id="audio" src="/files/a.mp3"></audio>`,
			want:   "http://example.com/files/a.mp3",
		},
		{
			name:    "missing element",
			markup:  `<html><body><audio src="/a.mp3"></audio></body></html>`,
			wantErr: true,
		},
		{
			name:    "missing src",
			markup:  `<html><body><audio id="audio"></audio></body></html>`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractAudioSource(tt.markup, "http://example.com/album/x/track1")
			if tt.wantErr {
				if !model.IsKind(err, model.KindParse) {
					t.Errorf("expected parse error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("source = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractArtworkURL(t *testing.T) {
	if got, want := ExtractArtworkURL(sampleAlbumPage, "http://example.com/album1"), "http://example.com/img/front.jpg"; got != want {
		t.Errorf("ExtractArtworkURL() = %q, want %q", got, want)
	}
	if got := ExtractArtworkURL(albumPage([]string{"#"}, nil), "http://example.com/album1"); got != "" {
		t.Errorf("ExtractArtworkURL() = %q, want empty", got)
	}
}

func TestResolveAlbum(t *testing.T) {
	fetcher := fakeFetcher{"http://example.com/album1": sampleAlbumPage}

	album, err := ResolveAlbum(context.Background(), fetcher, "http://example.com/album1")
	if err != nil {
		t.Fatalf("ResolveAlbum failed: %v", err)
	}

	if album.Name != "Sample Album" {
		t.Errorf("Name = %q, want %q", album.Name, "Sample Album")
	}
	if len(album.Tracks) != 2 {
		t.Fatalf("Track count = %d, want 2", len(album.Tracks))
	}
	if album.Tracks[0].DiscNumber() != 1 || album.Tracks[0].Number != 2 || album.Tracks[0].Name != "Track 1" {
		t.Errorf("Tracks[0] = %+v", album.Tracks[0])
	}
	if album.Tracks[1].DiscNumber() != 3 || album.Tracks[1].Number != 4 || album.Tracks[1].Name != "Track 2" {
		t.Errorf("Tracks[1] = %+v", album.Tracks[1])
	}
	if !album.HasArtwork() {
		t.Error("expected artwork URL")
	}
}

func TestResolveAlbum_FetchError(t *testing.T) {
	_, err := ResolveAlbum(context.Background(), fakeFetcher{}, "http://example.com/missing")
	if !model.IsKind(err, model.KindFetch) {
		t.Errorf("expected fetch error, got %v", err)
	}
}

func TestResolveAudioSource(t *testing.T) {
	fetcher := fakeFetcher{"http://example.com/track1": sampleTrackPage}
	track := model.NewTrack("http://example.com/track1", "Track 1", 1, intPtr(1))

	source, err := ResolveAudioSource(context.Background(), fetcher, track)
	if err != nil {
		t.Fatalf("ResolveAudioSource failed: %v", err)
	}
	if source.String() != "http://example.com/audio.mp3" {
		t.Errorf("source = %q", source)
	}
}
