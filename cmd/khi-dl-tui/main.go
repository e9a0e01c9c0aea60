package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/handiism/khi-dl/internal/config"
	"github.com/handiism/khi-dl/internal/tui"
)

func main() {
	configFlag := pflag.String("config", "", "Path to JSON config file")
	envFileFlag := pflag.String("env-file", ".env", "Path to .env file with KHI_DL_* overrides")
	outputFlag := pflag.StringP("output", "o", "", "Output directory (overrides config)")
	pflag.Parse()

	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		if settings, err = config.Load(*configFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if err := settings.LoadEnv(*envFileFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading env: %v\n", err)
		os.Exit(1)
	}
	if *outputFlag != "" {
		settings.DownloadsPath = *outputFlag
	}
	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid settings: %v\n", err)
		os.Exit(1)
	}

	if err := tui.Run(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
