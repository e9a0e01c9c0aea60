package khinsider

import (
	"context"
	"net/url"

	"github.com/handiism/khi-dl/internal/model"
)

// PageFetcher fetches HTML pages. *http.Client satisfies it.
type PageFetcher interface {
	GetString(ctx context.Context, url string) (string, error)
}

// ResolveAlbum fetches a listing page and builds its Album.
//
// Track page URLs are placed on albumURL's host. The album's artwork URL is
// filled in when the page has an album image.
//
// Returns the fetch error or the extractor's parse error unchanged.
//
// Example:
//
//	album, err := ResolveAlbum(ctx, client, "https://example.com/game-soundtracks/album/name")
//	if err != nil {
//	    return fmt.Errorf("failed to resolve album: %w", err)
//	}
func ResolveAlbum(ctx context.Context, fetcher PageFetcher, albumURL string) (*model.Album, error) {
	html, err := fetcher.GetString(ctx, albumURL)
	if err != nil {
		return nil, err
	}

	name, descriptors, err := ExtractAlbumTracks(html, albumURL)
	if err != nil {
		return nil, err
	}

	tracks := make([]*model.Track, len(descriptors))
	for i, d := range descriptors {
		tracks[i] = d.ToTrack()
	}

	return model.NewAlbum(name, albumURL, ExtractArtworkURL(html, albumURL), tracks), nil
}

// ResolveAudioSource fetches a track's detail page and returns the absolute
// URL of its audio resource.
func ResolveAudioSource(ctx context.Context, fetcher PageFetcher, track *model.Track) (*url.URL, error) {
	html, err := fetcher.GetString(ctx, track.PageURL)
	if err != nil {
		return nil, err
	}
	return ExtractAudioSource(html, track.PageURL)
}
