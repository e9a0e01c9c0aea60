package download

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/handiism/khi-dl/internal/audio"
	"github.com/handiism/khi-dl/internal/config"
	"github.com/handiism/khi-dl/internal/http"
	ioutils "github.com/handiism/khi-dl/internal/io"
	"github.com/handiism/khi-dl/internal/khinsider"
	"github.com/handiism/khi-dl/internal/model"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Progress is a snapshot of the download counters.
type Progress struct {
	ReceivedBytes int64
	Saved         int32
	Skipped       int32
	Failed        int32
	Total         int32
}

// Done returns the number of tracks that need no further work.
func (p Progress) Done() int32 {
	return p.Saved + p.Skipped + p.Failed
}

// job is one track to download and the file it is saved to.
type job struct {
	album *model.Album
	track *model.Track
	path  string
}

// Manager coordinates album resolution and track downloads.
//
// Initialize resolves every album concurrently and fails as a whole if any
// album fails. StartDownloads then downloads every missing track
// concurrently; a failed track does not stop the others.
//
// onProgress is called from multiple goroutines and must be safe for
// concurrent use.
type Manager struct {
	settings     *config.Settings
	pathConfig   *model.PathConfig
	fetcher      Fetcher
	tagger       *audio.Tagger
	playlist     *audio.PlaylistCreator
	imageService *ioutils.ImageService

	albums []*model.Album

	receivedBytes int64
	totalFiles    int32
	savedFiles    int32
	skippedFiles  int32
	failedFiles   int32

	onProgress func(ProgressEvent)
	mu         sync.RWMutex
}

// NewManager creates a new Manager with one shared HTTP client built from
// settings.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	return NewManagerWithFetcher(settings, http.NewClient(settings.ToHTTPOptions()), onProgress)
}

// NewManagerWithFetcher creates a Manager that issues all requests through fetcher.
func NewManagerWithFetcher(settings *config.Settings, fetcher Fetcher, onProgress func(ProgressEvent)) *Manager {
	pathCfg := settings.ToPathConfig()

	playlist := audio.NewPlaylistCreator(pathCfg.PlaylistFormat, settings.M3UExtended)
	if pathCfg.SanitizeFileNames {
		playlist.WithFileNames(func(t *model.Track) string {
			return ioutils.SanitizeFileName(t.Filename())
		})
	}

	return &Manager{
		settings:     settings,
		pathConfig:   pathCfg,
		fetcher:      fetcher,
		tagger:       audio.NewTagger(audio.DefaultTagConfig()),
		playlist:     playlist,
		imageService: ioutils.NewImageService(),
		onProgress:   onProgress,
	}
}

// Run resolves albumURLs and downloads all of their tracks.
func (m *Manager) Run(ctx context.Context, albumURLs []string) error {
	if err := m.Initialize(ctx, albumURLs); err != nil {
		return err
	}
	return m.StartDownloads(ctx)
}

// Initialize resolves every album URL concurrently.
//
// The first failure cancels the resolutions still in flight and is
// returned; in that case no album is kept.
func (m *Manager) Initialize(ctx context.Context, albumURLs []string) error {
	albums := make([]*model.Album, len(albumURLs))

	g, gctx := errgroup.WithContext(ctx)
	if m.settings.MaxConcurrentAlbums > 0 {
		g.SetLimit(m.settings.MaxConcurrentAlbums)
	}

	for i, albumURL := range albumURLs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m.progress(ProgressEvent{Message: fmt.Sprintf("Fetching album info: %s", albumURL), Level: LevelVerbose})

			album, err := khinsider.ResolveAlbum(gctx, m.fetcher, albumURL)
			if err != nil {
				return err
			}
			albums[i] = album
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error resolving albums: %v", err), Level: LevelError})
		return err
	}

	m.mu.Lock()
	m.albums = albums
	m.mu.Unlock()

	for _, album := range albums {
		m.progress(ProgressEvent{Message: fmt.Sprintf("resolved album: %s, %d tracks", album.Name, len(album.Tracks)), Level: LevelInfo})
	}
	return nil
}

// StartDownloads downloads every track of the resolved albums that is not
// already on disk.
//
// The destination root and album folders are created first. Existing track
// files are skipped with a warning. Downloads run concurrently and a failed
// download does not cancel the others; all failures are joined into the
// returned error once every download has finished.
func (m *Manager) StartDownloads(ctx context.Context) error {
	albums := m.Albums()

	root := m.pathConfig.DownloadsPath
	if err := ioutils.EnsureDir(root); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating directory: %v", err), Level: LevelError})
		return model.NewFileSystemError(root, err)
	}

	var (
		failMu   sync.Mutex
		failures []error
	)
	fail := func(err error) {
		failMu.Lock()
		failures = append(failures, err)
		failMu.Unlock()
	}

	jobs, albumsWithJobs := m.planJobs(albums, fail)
	artwork := m.prepareArtwork(ctx, albums, albumsWithJobs)

	var g errgroup.Group
	if m.settings.MaxConcurrentTracks > 0 {
		g.SetLimit(m.settings.MaxConcurrentTracks)
	}

	for _, j := range jobs {
		g.Go(func() error {
			if err := m.downloadTrack(ctx, j, artwork[j.album]); err != nil {
				atomic.AddInt32(&m.failedFiles, 1)
				m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading %s: %v", j.track.Name, err), Level: LevelError})
				fail(err)
			}
			return nil // siblings keep going
		})
	}
	_ = g.Wait()

	if m.settings.CreatePlaylist {
		m.writePlaylists(albums)
	}

	if len(failures) > 0 {
		return fmt.Errorf("%d download(s) failed: %w", len(failures), errors.Join(failures...))
	}
	return nil
}

// Albums returns the albums resolved by Initialize.
func (m *Manager) Albums() []*model.Album {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.albums
}

// GetProgress returns current download progress.
func (m *Manager) GetProgress() Progress {
	return Progress{
		ReceivedBytes: atomic.LoadInt64(&m.receivedBytes),
		Saved:         atomic.LoadInt32(&m.savedFiles),
		Skipped:       atomic.LoadInt32(&m.skippedFiles),
		Failed:        atomic.LoadInt32(&m.failedFiles),
		Total:         atomic.LoadInt32(&m.totalFiles),
	}
}

// GetAlbumNames returns display names of all resolved albums.
func (m *Manager) GetAlbumNames() []string {
	albums := m.Albums()
	names := make([]string, len(albums))
	for i, album := range albums {
		names[i] = fmt.Sprintf("%s (%d tracks)", album.Name, len(album.Tracks))
	}
	return names
}

// planJobs creates album folders and lists the tracks still to download.
// Folder failures are reported through fail and that album is left out.
func (m *Manager) planJobs(albums []*model.Album, fail func(error)) ([]job, map[*model.Album]bool) {
	var jobs []job
	withJobs := make(map[*model.Album]bool)
	planned := make(map[string]bool)

	for _, album := range albums {
		dir := album.FolderPath(m.pathConfig)
		if err := ioutils.EnsureDir(dir); err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating directory: %v", err), Level: LevelError})
			fail(model.NewFileSystemError(dir, err))
			continue
		}

		for _, track := range album.Tracks {
			atomic.AddInt32(&m.totalFiles, 1)
			path := track.FilePath(dir, m.pathConfig)

			switch {
			case planned[path]:
				atomic.AddInt32(&m.skippedFiles, 1)
				m.progress(ProgressEvent{Message: fmt.Sprintf("duplicate track file in this run, skipping: %s", path), Level: LevelWarning})
				continue
			case ioutils.FileExists(path):
				atomic.AddInt32(&m.skippedFiles, 1)
				m.progress(ProgressEvent{Message: fmt.Sprintf("file already exists, skipping: %s", path), Level: LevelWarning})
				continue
			}

			planned[path] = true
			withJobs[album] = true
			jobs = append(jobs, job{album: album, track: track, path: path})
		}
	}

	return jobs, withJobs
}

func (m *Manager) downloadTrack(ctx context.Context, j job, artwork []byte) error {
	err := SaveTrack(ctx, m.fetcher, j.track, j.path, func(n int) {
		atomic.AddInt64(&m.receivedBytes, int64(n))
	})
	if err != nil {
		return err
	}

	atomic.AddInt32(&m.savedFiles, 1)
	m.progress(ProgressEvent{Message: fmt.Sprintf("saved: %s", j.path), Level: LevelSuccess})

	if m.settings.ModifyTags || artwork != nil {
		if err := m.tagger.SaveTags(j.path, j.track, j.album, m.settings.ModifyTags, artwork); err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error tagging %s: %v", j.path, err), Level: LevelWarning})
		}
	}
	return nil
}

// prepareArtwork downloads cover art where settings ask for it, saves it to
// album folders and returns the JPEG to embed in tags, keyed by album.
// Failures are warnings.
func (m *Manager) prepareArtwork(ctx context.Context, albums []*model.Album, withJobs map[*model.Album]bool) map[*model.Album][]byte {
	forTags := make(map[*model.Album][]byte)
	if !m.settings.SaveCoverArtInFolder && !m.settings.SaveCoverArtInTags {
		return forTags
	}

	convert := m.settings.ConvertCoverArtToJPG
	maxSize := m.settings.CoverArtMaxSize

	for _, album := range albums {
		if !album.HasArtwork() {
			continue
		}

		folderPath := album.ArtworkPath(m.pathConfig, convert || maxSize > 0)
		needFolder := m.settings.SaveCoverArtInFolder && !ioutils.FileExists(folderPath)
		needTags := m.settings.SaveCoverArtInTags && withJobs[album]
		if !needFolder && !needTags {
			continue
		}

		data, err := m.fetcher.GetBytes(ctx, album.ArtworkURL)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading artwork for %s: %v", album.Name, err), Level: LevelWarning})
			continue
		}

		if needFolder {
			cover, err := m.imageService.Prepare(ctx, data, maxSize, convert)
			if err == nil {
				err = ioutils.WriteFile(folderPath, cover)
			}
			if err != nil {
				m.progress(ProgressEvent{Message: fmt.Sprintf("Error saving artwork: %v", err), Level: LevelWarning})
			}
		}

		if needTags {
			// APIC frames are written as image/jpeg
			cover, err := m.imageService.Prepare(ctx, data, maxSize, true)
			if err != nil {
				m.progress(ProgressEvent{Message: fmt.Sprintf("Error preparing artwork for %s: %v", album.Name, err), Level: LevelWarning})
				continue
			}
			forTags[album] = cover
		}

		m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded artwork for %s", album.Name), Level: LevelVerbose})
	}

	return forTags
}

func (m *Manager) writePlaylists(albums []*model.Album) {
	for _, album := range albums {
		path := album.PlaylistPath(m.pathConfig)
		content := m.playlist.CreatePlaylist(album)
		if err := ioutils.WriteFile(path, []byte(content)); err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating playlist: %v", err), Level: LevelWarning})
			continue
		}
		m.progress(ProgressEvent{Message: fmt.Sprintf("Created playlist for %s", album.Name), Level: LevelVerbose})
	}
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
