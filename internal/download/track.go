package download

import (
	"context"
	"iter"
	"os"

	"github.com/handiism/khi-dl/internal/khinsider"
	"github.com/handiism/khi-dl/internal/model"
)

// Fetcher is the HTTP surface the downloader needs. *http.Client satisfies it.
type Fetcher interface {
	khinsider.PageFetcher

	// Stream yields the body of url in fixed-size chunks.
	Stream(ctx context.Context, url string) iter.Seq2[[]byte, error]

	// GetBytes reads a small resource fully into memory.
	GetBytes(ctx context.Context, url string) ([]byte, error)
}

// StreamAudio returns the track's audio as a lazy sequence of chunks.
//
// Nothing is requested until the sequence is ranged over. Each range first
// resolves the audio source from the track page and then streams it, so
// ranging twice issues both requests twice. Concatenating the chunks in
// order reproduces the served bytes.
func StreamAudio(ctx context.Context, fetcher Fetcher, track *model.Track) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		source, err := khinsider.ResolveAudioSource(ctx, fetcher, track)
		if err != nil {
			yield(nil, err)
			return
		}

		for chunk, err := range fetcher.Stream(ctx, source.String()) {
			if !yield(chunk, err) || err != nil {
				return
			}
		}
	}
}

// SaveTrack streams the track's audio into a new file at path.
//
// The file is created exclusively and fails if path already exists. It is
// closed on every return path. If the stream fails partway, the partial file
// is left on disk. onChunk, when non-nil, is called with the size of each
// chunk written.
func SaveTrack(ctx context.Context, fetcher Fetcher, track *model.Track, path string, onChunk func(n int)) (err error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return model.NewFileSystemError(path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = model.NewFileSystemError(path, closeErr)
		}
	}()

	for chunk, streamErr := range StreamAudio(ctx, fetcher, track) {
		if streamErr != nil {
			return streamErr
		}
		if _, err := file.Write(chunk); err != nil {
			return model.NewFileSystemError(path, err)
		}
		if onChunk != nil {
			onChunk(len(chunk))
		}
	}

	return nil
}
