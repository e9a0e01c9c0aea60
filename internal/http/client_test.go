package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/handiism/khi-dl/internal/model"
)

func TestClient_GetString(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	client := NewClient(Options{UserAgent: "test-agent"})
	body, err := client.GetString(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("GetString failed: %v", err)
	}
	if body != "<html>ok</html>" {
		t.Errorf("body = %q", body)
	}
	if gotUA != "test-agent" {
		t.Errorf("User-Agent = %q, want %q", gotUA, "test-agent")
	}
}

func TestClient_GetBytes(t *testing.T) {
	cover := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cover.jpg" {
			http.NotFound(w, r)
			return
		}
		w.Write(cover)
	}))
	defer srv.Close()

	client := NewClient(Options{})
	got, err := client.GetBytes(context.Background(), srv.URL+"/cover.jpg")
	if err != nil {
		t.Fatalf("GetBytes failed: %v", err)
	}
	if !bytes.Equal(got, cover) {
		t.Errorf("GetBytes = %v, want %v", got, cover)
	}

	if _, err := client.GetBytes(context.Background(), srv.URL+"/missing.jpg"); !model.IsKind(err, model.KindFetch) {
		t.Errorf("expected fetch error, got %v", err)
	}
}

func TestClient_GetStatusError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	client := NewClient(Options{})
	_, err := client.GetString(context.Background(), srv.URL+"/missing")
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if !model.IsKind(err, model.KindFetch) {
		t.Errorf("expected fetch error, got %v", err)
	}
	if !strings.Contains(err.Error(), "/missing") {
		t.Errorf("error should name the URL: %v", err)
	}
}

func TestClient_ClosesConnections(t *testing.T) {
	var closeRequested atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Close {
			closeRequested.Add(1)
		}
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	client := NewClient(Options{})
	for i := 0; i < 3; i++ {
		if _, err := client.GetString(context.Background(), srv.URL); err != nil {
			t.Fatal(err)
		}
	}
	if got := closeRequested.Load(); got != 3 {
		t.Errorf("requests asking to close connection = %d, want 3", got)
	}
}

func TestClient_Stream(t *testing.T) {
	tests := []struct {
		name      string
		body      []byte
		chunkSize int
		wantSizes []int
	}{
		{"under chunk size", []byte("1234567890"), 0, []int{10}},
		{"exact multiple", bytes.Repeat([]byte("a"), 8), 4, []int{4, 4}},
		{"trailing partial", bytes.Repeat([]byte("b"), 10), 4, []int{4, 4, 2}},
		{"empty body", nil, 4, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write(tt.body)
			}))
			defer srv.Close()

			client := NewClient(Options{ChunkSize: tt.chunkSize})

			var got []byte
			var sizes []int
			for chunk, err := range client.Stream(context.Background(), srv.URL) {
				if err != nil {
					t.Fatalf("stream error: %v", err)
				}
				got = append(got, chunk...)
				sizes = append(sizes, len(chunk))
			}

			if !bytes.Equal(got, tt.body) {
				t.Errorf("streamed %q, want %q", got, tt.body)
			}
			if len(sizes) != len(tt.wantSizes) {
				t.Fatalf("chunk sizes = %v, want %v", sizes, tt.wantSizes)
			}
			for i := range sizes {
				if sizes[i] != tt.wantSizes[i] {
					t.Errorf("chunk sizes = %v, want %v", sizes, tt.wantSizes)
					break
				}
			}
		})
	}
}

func TestClient_StreamIsLazyAndRepeatable(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte("abc"))
	}))
	defer srv.Close()

	client := NewClient(Options{})
	seq := client.Stream(context.Background(), srv.URL)
	if got := requests.Load(); got != 0 {
		t.Fatalf("requests before ranging = %d, want 0", got)
	}

	for range 2 {
		for _, err := range seq {
			if err != nil {
				t.Fatal(err)
			}
		}
	}
	if got := requests.Load(); got != 2 {
		t.Errorf("requests after ranging twice = %d, want 2", got)
	}
}

func TestClient_StreamStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(Options{})
	var errs int
	for chunk, err := range client.Stream(context.Background(), srv.URL) {
		if chunk != nil {
			t.Errorf("unexpected chunk %q", chunk)
		}
		if !model.IsKind(err, model.KindFetch) {
			t.Errorf("expected fetch error, got %v", err)
		}
		errs++
	}
	if errs != 1 {
		t.Errorf("errors yielded = %d, want 1", errs)
	}
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	client := NewClient(Options{Timeout: 50 * time.Millisecond})
	if _, err := client.GetString(context.Background(), srv.URL); !model.IsKind(err, model.KindFetch) {
		t.Errorf("expected fetch error on timeout, got %v", err)
	}
}
