package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/handiism/khi-dl/internal/config"
	"github.com/handiism/khi-dl/internal/download"
	ioutils "github.com/handiism/khi-dl/internal/io"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code: 0 on success, 1 on failure and 130
// when interrupted.
func run() int {
	var (
		configFlag   = pflag.String("config", "", "Path to JSON config file")
		envFileFlag  = pflag.String("env-file", ".env", "Path to .env file with KHI_DL_* overrides")
		outputFlag   = pflag.StringP("output", "o", "", "Output directory (overrides config)")
		sourcesFlag  = pflag.StringP("sources", "s", "", "File with one album URL per line (used when no URL is given)")
		playlistFlag = pflag.Bool("playlist", false, "Create playlist file")
		tagFlag      = pflag.Bool("tag", false, "Write ID3 tags to downloaded tracks")
		sanitizeFlag = pflag.Bool("sanitize", false, "Sanitize file and folder names")
		tracksFlag   = pflag.Int("max-tracks", config.DefaultMaxConcurrent, "Maximum concurrent track downloads (0 = unbounded)")
		verboseFlag  = pflag.BoolP("verbose", "v", false, "Show verbose output")
		dryRunFlag   = pflag.Bool("dry-run", false, "Resolve albums without downloading")
	)

	pflag.Usage = func() {
		fmt.Fprintln(os.Stderr, "khi-dl - Download soundtracks from KHInsider")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  khi-dl [options] <album URL> [album URL...]")
		fmt.Fprintln(os.Stderr, "  khi-dl [options] --sources sources.txt")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "For interactive mode, use: khi-dl-tui")
		fmt.Fprintln(os.Stderr)
		pflag.PrintDefaults()
	}
	pflag.Parse()

	logger, err := newLogger(*verboseFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		return 1
	}
	defer logger.Sync()
	log := logger.Sugar()

	settings, err := loadSettings(*configFlag, *envFileFlag)
	if err != nil {
		log.Errorf("Error loading config: %v", err)
		return 1
	}

	if *outputFlag != "" {
		settings.DownloadsPath = *outputFlag
	}
	if *sourcesFlag != "" {
		settings.SourcesFile = *sourcesFlag
	}
	if *playlistFlag {
		settings.CreatePlaylist = true
	}
	if *tagFlag {
		settings.ModifyTags = true
	}
	if *sanitizeFlag {
		settings.SanitizeFileNames = true
	}
	if pflag.CommandLine.Changed("max-tracks") {
		settings.MaxConcurrentTracks = *tracksFlag
	}
	if err := settings.Validate(); err != nil {
		log.Errorf("Invalid settings: %v", err)
		return 1
	}

	urls := pflag.Args()
	if len(urls) == 0 {
		urls, err = ioutils.ReadSourceList(settings.SourcesFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Errorf("Error reading %s: %v", settings.SourcesFile, err)
			return 1
		}
	}
	if len(urls) == 0 {
		pflag.Usage()
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager := download.NewManager(settings, func(event download.ProgressEvent) {
		logEvent(log, event)
	})

	log.Infof("Resolving %d album(s) into %s", len(urls), settings.DownloadsPath)
	if err := manager.Initialize(ctx, urls); err != nil {
		return failure(ctx, log, "Error resolving albums", err)
	}

	if *dryRunFlag {
		for _, name := range manager.GetAlbumNames() {
			log.Infof("would download: %s", name)
		}
		return 0
	}

	err = manager.StartDownloads(ctx)
	p := manager.GetProgress()
	log.Infow("Finished",
		"saved", p.Saved,
		"skipped", p.Skipped,
		"failed", p.Failed,
		"total", p.Total,
		"mb", fmt.Sprintf("%.2f", float64(p.ReceivedBytes)/1024/1024),
	)
	if err != nil {
		return failure(ctx, log, "Error during download", err)
	}
	return 0
}

// loadSettings reads the config file when given, then applies .env and
// environment overrides.
func loadSettings(configPath, envFile string) (*config.Settings, error) {
	settings := config.DefaultSettings()
	if configPath != "" {
		var err error
		if settings, err = config.Load(configPath); err != nil {
			return nil, err
		}
	}
	if err := settings.LoadEnv(envFile); err != nil {
		return nil, err
	}
	return settings, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

func logEvent(log *zap.SugaredLogger, event download.ProgressEvent) {
	switch event.Level {
	case download.LevelVerbose:
		log.Debug(event.Message)
	case download.LevelWarning:
		log.Warn(event.Message)
	case download.LevelError:
		log.Error(event.Message)
	default:
		log.Info(event.Message)
	}
}

// failure logs err and returns 130 when the run was interrupted and 1 otherwise.
func failure(ctx context.Context, log *zap.SugaredLogger, msg string, err error) int {
	if ctx.Err() != nil {
		log.Warn("Download cancelled.")
		return 130
	}
	log.Errorf("%s: %v", msg, err)
	return 1
}
