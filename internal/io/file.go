package ioutils

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strings"
)

var (
	invalidChars  = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots  = regexp.MustCompile(`\.+$`)
	repeatedSpace = regexp.MustCompile(`\s+`)
)

// ReadSourceList reads album URLs from a plain text file, one per line.
//
// Blank lines and lines starting with "#" are skipped. Surrounding
// whitespace is trimmed.
//
// Example:
//
//	urls, err := ReadSourceList("sources.txt")
func ReadSourceList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseSourceList(f)
}

// ParseSourceList reads URLs from r with the same rules as ReadSourceList.
func ParseSourceList(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}

// SplitURLs splits free-form input (newline, comma or space separated) into
// http(s) URLs. Anything else is dropped.
func SplitURLs(input string) []string {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ',' || r == ' ' || r == '\t'
	})

	var urls []string
	for _, field := range fields {
		if strings.HasPrefix(field, "http://") || strings.HasPrefix(field, "https://") {
			urls = append(urls, field)
		}
	}
	return urls
}

// WriteFile writes data to a file, creating or truncating it with mode 0644.
//
// Example:
//
//	playlistContent := []byte("#EXTM3U\n...")
//	err := WriteFile("/music/Album/Album.m3u", playlistContent)
func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

// FileExists reports whether anything exists at path.
func FileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// SanitizeFileName removes or replaces characters that are invalid in file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Trailing dots → removed (Windows doesn't allow them)
//   - Multiple whitespace → single space
//   - Trailing whitespace → removed
//
// Example:
//
//	SanitizeFileName("Song: Part 1/2")     // Returns "Song_ Part 1_2"
//	SanitizeFileName("Track...")           // Returns "Track"
//	SanitizeFileName("Name   with  spaces") // Returns "Name with spaces"
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = repeatedSpace.ReplaceAllString(name, " ")
	return strings.TrimRight(name, " ")
}

// ErrNotDirectory is returned by EnsureDir when path exists but is not a directory.
var ErrNotDirectory = errors.New("path exists and is not a directory")

// EnsureDir creates a single directory with mode 0755.
//
// Parent directories are not created. An existing directory at path is not
// an error, which makes concurrent calls for the same path safe. An existing
// file or other non-directory node at path returns ErrNotDirectory.
//
// Example:
//
//	err := EnsureDir("/music/Album") // "/music" must already exist
func EnsureDir(path string) error {
	err := os.Mkdir(path, 0755)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrExist) {
		return err
	}

	info, statErr := os.Stat(path)
	if statErr != nil {
		return statErr
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", path, ErrNotDirectory)
	}
	return nil
}
