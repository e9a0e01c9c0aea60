package audio

import (
	"fmt"
	"strings"

	"github.com/handiism/khi-dl/internal/model"
)

// PlaylistCreator generates album playlists.
//
// Entries are the tracks' file names in album order, so the playlist is
// written next to the tracks.
//
// Example:
//
//	creator := NewPlaylistCreator(model.PlaylistFormatM3U, true)
//	content := creator.CreatePlaylist(album)
//	os.WriteFile(album.PlaylistPath(cfg), []byte(content), 0644)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:-1,Song Title
//	// 01 Song Title.mp3
type PlaylistCreator struct {
	format   model.PlaylistFormat
	extended bool // For M3U: include EXTINF lines
	fileName func(*model.Track) string
}

// NewPlaylistCreator creates a new PlaylistCreator.
//
// extended only applies to M3U.
func NewPlaylistCreator(format model.PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
		fileName: (*model.Track).Filename,
	}
}

// WithFileNames overrides how entries are named, for example to match
// sanitized file names on disk.
func (p *PlaylistCreator) WithFileNames(fn func(*model.Track) string) *PlaylistCreator {
	p.fileName = fn
	return p
}

// CreatePlaylist generates playlist content for an album.
func (p *PlaylistCreator) CreatePlaylist(album *model.Album) string {
	switch p.format {
	case model.PlaylistFormatPLS:
		return p.createPLS(album)
	case model.PlaylistFormatWPL:
		return p.createSMIL(album, `<?wpl version="1.0"?>`, false)
	case model.PlaylistFormatZPL:
		return p.createSMIL(album, `<?zpl version="2.0"?>`, true)
	default:
		return p.createM3U(album)
	}
}

// createM3U generates an M3U playlist. Track lengths are unknown, so
// extended entries use -1.
func (p *PlaylistCreator) createM3U(album *model.Album) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, track := range album.Tracks {
		if p.extended {
			fmt.Fprintf(&sb, "#EXTINF:-1,%s\n", track.Name)
		}
		sb.WriteString(p.fileName(track) + "\n")
	}

	return sb.String()
}

// createPLS generates a PLS playlist.
func (p *PlaylistCreator) createPLS(album *model.Album) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, track := range album.Tracks {
		idx := i + 1
		fmt.Fprintf(&sb, "File%d=%s\n", idx, p.fileName(track))
		fmt.Fprintf(&sb, "Title%d=%s\n", idx, track.Name)
		fmt.Fprintf(&sb, "Length%d=-1\n", idx)
	}

	fmt.Fprintf(&sb, "NumberOfEntries=%d\n", len(album.Tracks))
	sb.WriteString("Version=2\n")

	return sb.String()
}

// createSMIL generates the XML playlists used by Windows Media Player (WPL)
// and Zune (ZPL). ZPL adds album and track metadata to each entry.
func (p *PlaylistCreator) createSMIL(album *model.Album, declaration string, zune bool) string {
	var sb strings.Builder

	sb.WriteString(declaration + "\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", escapeXML(album.Name))
	if zune {
		sb.WriteString("    <meta name=\"Generator\" content=\"khi-dl\"/>\n")
		fmt.Fprintf(&sb, "    <meta name=\"ItemCount\" content=\"%d\"/>\n", len(album.Tracks))
	}
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, track := range album.Tracks {
		if zune {
			fmt.Fprintf(&sb, "      <media src=\"%s\" albumTitle=\"%s\" trackTitle=\"%s\"/>\n",
				escapeXML(p.fileName(track)),
				escapeXML(album.Name),
				escapeXML(track.Name))
			continue
		}
		fmt.Fprintf(&sb, "      <media src=\"%s\"/>\n", escapeXML(p.fileName(track)))
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
