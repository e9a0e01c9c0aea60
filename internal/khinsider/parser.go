package khinsider

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/handiism/khi-dl/internal/model"
)

// Structural identifiers of the catalog's pages.
const (
	audioElementID = "audio"
	trackTableID   = "songlist"
	albumHeading   = "h2"
	albumImageCls  = "albumImage"

	columnDisc   = "CD"
	columnNumber = "#"
	columnName   = "Song Name"
)

// TrackDescriptor is one data row of an album's track table.
type TrackDescriptor struct {
	// PageURL is the absolute track detail page address.
	PageURL string

	// Name is the anchor text of the song name cell.
	Name string

	// Number is the parsed track number.
	Number int

	// Disc is the parsed disc number, nil without a disc column.
	Disc *int
}

// ToTrack converts the descriptor to a model.Track.
func (d TrackDescriptor) ToTrack() *model.Track {
	return model.NewTrack(d.PageURL, d.Name, d.Number, d.Disc)
}

// ExtractAudioSource returns the audio URL embedded in a track detail page.
//
// The source is the src attribute of the element with id "audio". Relative
// sources are resolved against pageURL.
//
// Returns a parse error naming pageURL if the element or its src attribute
// is missing.
func ExtractAudioSource(markup, pageURL string) (*url.URL, error) {
	root, err := ParseHTML(markup)
	if err != nil {
		return nil, model.NewParseError(pageURL, err)
	}

	audio, ok := root.FindByID(audioElementID)
	if !ok {
		return nil, model.NewParseError(pageURL, errors.New("audio element not found"))
	}
	src, ok := audio.Attr("src")
	if !ok || strings.TrimSpace(src) == "" {
		return nil, model.NewParseError(pageURL, errors.New("audio element has no src attribute"))
	}

	source, err := url.Parse(strings.TrimSpace(src))
	if err != nil {
		return nil, model.NewParseError(pageURL, fmt.Errorf("invalid audio src %q: %w", src, err))
	}
	if base, err := url.Parse(pageURL); err == nil {
		source = base.ResolveReference(source)
	}
	return source, nil
}

// ExtractAlbumTracks returns the album name and track rows of a listing page.
//
// The album name is the text of the first h2 heading. Tracks are read from
// the table with id "songlist": its first row is the header, its last row is
// a footer, and every row in between is a track. The header must name a "#"
// and a "Song Name" column; a "CD" column is optional.
//
// Track links are resolved against the scheme and host of baseURL; its path
// is ignored.
//
// Every failure is a parse error naming baseURL.
func ExtractAlbumTracks(markup, baseURL string) (string, []TrackDescriptor, error) {
	root, err := ParseHTML(markup)
	if err != nil {
		return "", nil, model.NewParseError(baseURL, err)
	}

	host, err := hostRoot(baseURL)
	if err != nil {
		return "", nil, model.NewParseError(baseURL, err)
	}

	headings := root.FindByTag(albumHeading)
	if len(headings) == 0 {
		return "", nil, model.NewParseError(baseURL, errors.New("album heading not found"))
	}
	name := headings[0].Text()

	table, ok := root.FindByID(trackTableID)
	if !ok {
		return "", nil, model.NewParseError(baseURL, errors.New("track table not found"))
	}

	rows := table.FindByTag("tr")
	if len(rows) == 0 {
		return "", nil, model.NewParseError(baseURL, errors.New("track table has no header row"))
	}

	columns := columnIndex(rows[0])
	numberCol, ok := columns[columnNumber]
	if !ok {
		return "", nil, model.NewParseError(baseURL, fmt.Errorf("track table has no %q column", columnNumber))
	}
	nameCol, ok := columns[columnName]
	if !ok {
		return "", nil, model.NewParseError(baseURL, fmt.Errorf("track table has no %q column", columnName))
	}
	discCol, hasDisc := columns[columnDisc]

	var dataRows []Node
	if len(rows) > 2 {
		dataRows = rows[1 : len(rows)-1]
	}

	tracks := make([]TrackDescriptor, 0, len(dataRows))
	for i, row := range dataRows {
		cells := row.FindByTag("td")
		cell := func(col int) (Node, error) {
			if col >= len(cells) {
				return nil, fmt.Errorf("row %d has %d cells, need column %d", i+1, len(cells), col+1)
			}
			return cells[col], nil
		}

		nameCell, err := cell(nameCol)
		if err != nil {
			return "", nil, model.NewParseError(baseURL, err)
		}
		anchors := nameCell.FindByTag("a")
		if len(anchors) == 0 {
			return "", nil, model.NewParseError(baseURL, fmt.Errorf("row %d has no track link", i+1))
		}
		href, ok := anchors[0].Attr("href")
		if !ok {
			return "", nil, model.NewParseError(baseURL, fmt.Errorf("row %d track link has no href", i+1))
		}
		pageURL, err := resolveLink(host, href)
		if err != nil {
			return "", nil, model.NewParseError(baseURL, fmt.Errorf("row %d: %w", i+1, err))
		}

		numberCell, err := cell(numberCol)
		if err != nil {
			return "", nil, model.NewParseError(baseURL, err)
		}
		number, err := parseNumber(numberCell.Text())
		if err != nil {
			return "", nil, model.NewParseError(baseURL, fmt.Errorf("row %d track number: %w", i+1, err))
		}

		var disc *int
		if hasDisc {
			discCell, err := cell(discCol)
			if err != nil {
				return "", nil, model.NewParseError(baseURL, err)
			}
			d, err := parseNumber(discCell.Text())
			if err != nil {
				return "", nil, model.NewParseError(baseURL, fmt.Errorf("row %d disc number: %w", i+1, err))
			}
			disc = &d
		}

		tracks = append(tracks, TrackDescriptor{
			PageURL: pageURL,
			Name:    anchors[0].Text(),
			Number:  number,
			Disc:    disc,
		})
	}

	return name, tracks, nil
}

// ExtractArtworkURL returns the first album image link, or an empty string
// when the page has none.
func ExtractArtworkURL(markup, baseURL string) string {
	root, err := ParseHTML(markup)
	if err != nil {
		return ""
	}

	for _, container := range root.FindByClass(albumImageCls) {
		for _, a := range container.FindByTag("a") {
			href, ok := a.Attr("href")
			if !ok || href == "" {
				continue
			}
			base, err := url.Parse(baseURL)
			if err != nil {
				return ""
			}
			ref, err := url.Parse(href)
			if err != nil {
				continue
			}
			return base.ResolveReference(ref).String()
		}
	}
	return ""
}

// columnIndex maps header cell text to column position.
func columnIndex(header Node) map[string]int {
	columns := make(map[string]int)
	for i, th := range header.FindByTag("th") {
		name := strings.TrimSpace(th.Text())
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}
	return columns
}

// parseNumber parses a numeric cell such as "3" or "3.".
func parseNumber(text string) (int, error) {
	s := strings.TrimRight(strings.TrimSpace(text), ".")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", text)
	}
	return n, nil
}

// hostRoot returns scheme://host of raw.
func hostRoot(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL %q is not absolute", raw)
	}
	return &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}, nil
}

func resolveLink(host *url.URL, href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("invalid track link %q: %w", href, err)
	}
	return host.ResolveReference(ref).String(), nil
}
