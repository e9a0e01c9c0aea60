// Package ioutils provides file system and image processing utilities.
//
// # Source List
//
//	urls, err := ioutils.ReadSourceList("sources.txt") // one URL per line
//
// # Directories
//
// EnsureDir creates exactly one directory and accepts one that already
// exists, so sibling album folders can be created concurrently:
//
//	err := ioutils.EnsureDir("/music/Album")
//
// # Filename Sanitization
//
//	safe := ioutils.SanitizeFileName("Song: Part 1/2") // Returns "Song_ Part 1_2"
//
// # Image Processing
//
// The ImageService handles cover art manipulation:
//
//	svc := ioutils.NewImageService()
//	jpeg, _ := svc.Prepare(ctx, pngData, 500, true)
package ioutils
