// Package model defines the core data structures used throughout khi-dl.
//
// # Album
//
// Album is one resolved listing page: its heading text and its tracks in
// table order.
//
//	album := model.NewAlbum("Album Name", albumURL, artworkURL, tracks)
//	fmt.Println(album.FolderPath(pathConfig))
//
// # Track
//
// Track is one row of the listing's track table:
//
//	track := model.NewTrack(pageURL, "Song Title", 2, &disc)
//	fmt.Println(track.Filename()) // "1-02 Song Title.mp3"
//
// # Errors
//
// Error carries the kind of failure (fetch, parse, filesystem) and the URL
// or path that caused it.
package model
