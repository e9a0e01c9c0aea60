package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures along the fetch-parse-download pipeline.
type ErrorKind int

const (
	// KindFetch covers transport failures and non-success HTTP statuses.
	KindFetch ErrorKind = iota

	// KindParse covers missing page structure, attributes or columns, and
	// non-numeric content in numeric columns.
	KindParse

	// KindFileSystem covers directory creation and destination file failures.
	KindFileSystem
)

// String returns the name used in error messages.
func (k ErrorKind) String() string {
	switch k {
	case KindFetch:
		return "fetch error"
	case KindParse:
		return "parse error"
	case KindFileSystem:
		return "filesystem error"
	default:
		return "unknown error"
	}
}

// Error is a pipeline failure tied to the URL or path that caused it.
//
// Use errors.As or IsKind to inspect it:
//
//	if model.IsKind(err, model.KindParse) {
//	    // the page layout did not match
//	}
type Error struct {
	Kind ErrorKind

	// Target is the page URL, audio URL or file path involved.
	Target string

	// Err is the underlying cause. May be nil.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Target, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Target)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewFetchError wraps a network or HTTP status failure for url.
func NewFetchError(url string, err error) *Error {
	return &Error{Kind: KindFetch, Target: url, Err: err}
}

// NewParseError wraps a markup failure on the page at url.
func NewParseError(url string, err error) *Error {
	return &Error{Kind: KindParse, Target: url, Err: err}
}

// NewFileSystemError wraps a failure to create or write path.
func NewFileSystemError(path string, err error) *Error {
	return &Error{Kind: KindFileSystem, Target: path, Err: err}
}

// IsKind reports whether any error in err's chain is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
