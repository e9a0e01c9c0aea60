// Package http provides the HTTP client shared by every request of a run.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Connection handling (no keep-alive, one connection per request)
//   - Optional per-request timeout
//   - Chunked streaming of audio responses
//
// # Basic Usage
//
//	client := http.NewClient(http.Options{})
//
//	// Fetch HTML page
//	html, err := client.GetString(ctx, "https://example.com/game-soundtracks/album/name")
//
//	// Stream audio in 1024-byte chunks
//	for chunk, err := range client.Stream(ctx, mp3URL) {
//	    ...
//	}
//
// Failures are returned as *model.Error values of kind model.KindFetch.
package http
