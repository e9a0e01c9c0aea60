// Package download streams album tracks to disk.
//
// # Manager
//
// The Manager coordinates the whole run:
//
//  1. Resolve every album page into its track list
//  2. Create the destination and album folders
//  3. Skip tracks whose file already exists
//  4. Download cover art (optional)
//  5. Download tracks concurrently
//  6. Tag MP3 files with ID3 metadata (optional)
//  7. Generate playlists (optional)
//
// # Basic Usage
//
//	manager := download.NewManager(settings, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	if err := manager.Run(ctx, []string{"https://downloads.khinsider.com/game-soundtracks/album/name"}); err != nil {
//	    log.Fatal(err)
//	}
//
// # Concurrency
//
// Album resolution is all-or-nothing: the first failure cancels the rest and
// no album is kept. Track downloads are independent: every failure is
// collected and reported once all downloads have finished.
// Settings.MaxConcurrentAlbums and Settings.MaxConcurrentTracks bound each
// phase; zero means unbounded.
//
// # Single Tracks
//
// StreamAudio and SaveTrack work on one track without a Manager:
//
//	for chunk, err := range download.StreamAudio(ctx, client, track) {
//	    ...
//	}
package download
