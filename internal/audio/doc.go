// Package audio provides post-download services: ID3 tag writing and
// playlist generation.
//
// # ID3 Tagging
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	err := tagger.SaveTags(path, track, album, true, artworkBytes)
//
// The tagger writes album, title, track number and disc number, and can
// embed cover art.
//
// # Playlist Generation
//
//	creator := audio.NewPlaylistCreator(model.PlaylistFormatM3U, true)
//	content := creator.CreatePlaylist(album)
//
// Supported formats: M3U (optionally extended), PLS, WPL and ZPL.
package audio
