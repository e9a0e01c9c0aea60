package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"time"

	"github.com/handiism/khi-dl/internal/model"
)

const (
	// DefaultChunkSize is the number of bytes per chunk yielded by Stream.
	DefaultChunkSize = 1024

	// DefaultUserAgent is sent with every request unless overridden.
	DefaultUserAgent = "khi-dl"
)

// Options configures a Client.
type Options struct {
	// Timeout bounds each request including reading the body. Zero means no timeout.
	Timeout time.Duration

	// UserAgent overrides DefaultUserAgent when non-empty.
	UserAgent string

	// ChunkSize overrides DefaultChunkSize when positive.
	ChunkSize int
}

// Client wraps HTTP operations shared by every page and audio request of a run.
//
// The underlying transport closes each connection after use. Catalog hosts
// are often slow and drop idle connections, so connections are never reused.
// A Client is safe for concurrent use and is not modified after NewClient.
//
// Example usage:
//
//	client := NewClient(Options{})
//
//	html, err := client.GetString(ctx, "https://example.com/game-soundtracks/album/name")
//
//	for chunk, err := range client.Stream(ctx, audioURL) {
//	    if err != nil {
//	        return err
//	    }
//	    file.Write(chunk)
//	}
type Client struct {
	httpClient *http.Client
	userAgent  string
	chunkSize  int
}

// NewClient creates a new HTTP client with keep-alives disabled.
func NewClient(opts Options) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DisableKeepAlives = true

	c := &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		userAgent: DefaultUserAgent,
		chunkSize: DefaultChunkSize,
	}
	if opts.UserAgent != "" {
		c.userAgent = opts.UserAgent
	}
	if opts.ChunkSize > 0 {
		c.chunkSize = opts.ChunkSize
	}
	return c
}

// ChunkSize returns the chunk size used by Stream.
func (c *Client) ChunkSize() int {
	return c.chunkSize
}

// open performs a GET request and returns the response when the status is 200 OK.
// The caller must close the body.
func (c *Client) open(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, model.NewFetchError(url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, model.NewFetchError(url, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, model.NewFetchError(url, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status))
	}
	return resp, nil
}

// get performs a GET request and returns the response body as bytes.
//
// Returns a fetch error if:
//   - The request fails
//   - The response status is not 200 OK
//   - Reading the body fails
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.open(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, model.NewFetchError(url, err)
	}
	return body, nil
}

// GetString performs a GET request and returns the response body as a string.
//
// Used for album listing pages and track detail pages.
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetBytes downloads a small resource such as cover art into memory.
//
// For audio use Stream so memory stays bounded.
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	return c.get(ctx, url)
}

// Stream issues a GET request and yields the body in chunks of ChunkSize bytes.
//
// The request is sent lazily when the sequence is first ranged over, and the
// body is closed when the range loop ends for any reason. Every chunk except
// the last is exactly ChunkSize bytes; each yielded slice is freshly
// allocated and may be retained. Ranging over the same sequence again issues
// a new request.
//
// A failure is yielded once as (nil, err) and ends the sequence.
func (c *Client) Stream(ctx context.Context, url string) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		resp, err := c.open(ctx, url)
		if err != nil {
			yield(nil, err)
			return
		}
		defer resp.Body.Close()

		for {
			buf := make([]byte, c.chunkSize)
			n, err := io.ReadFull(resp.Body, buf)
			if n > 0 {
				if !yield(buf[:n], nil) {
					return
				}
			}
			switch {
			case err == nil:
				continue
			case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
				return
			default:
				yield(nil, model.NewFetchError(url, err))
				return
			}
		}
	}
}
