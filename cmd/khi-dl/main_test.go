package main

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/handiism/khi-dl/internal/download"
)

func TestFailure_ExitCodes(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name     string
		ctx      context.Context
		wantCode int
		wantLog  string
	}{
		{"failed run", context.Background(), 1, "Error during download: boom"},
		{"interrupted run", canceled, 130, "Download cancelled."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.DebugLevel)
			log := zap.New(core).Sugar()

			if got := failure(tt.ctx, log, "Error during download", errors.New("boom")); got != tt.wantCode {
				t.Errorf("exit code = %d, want %d", got, tt.wantCode)
			}
			if logs.FilterMessage(tt.wantLog).Len() != 1 {
				t.Errorf("missing log %q, got %v", tt.wantLog, logs.All())
			}
		})
	}
}

func TestLogEvent_Levels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := zap.New(core).Sugar()

	logEvent(log, download.ProgressEvent{Message: "skip", Level: download.LevelWarning})
	logEvent(log, download.ProgressEvent{Message: "detail", Level: download.LevelVerbose})
	logEvent(log, download.ProgressEvent{Message: "saved", Level: download.LevelSuccess})

	want := map[string]zapcore.Level{
		"skip":   zap.WarnLevel,
		"detail": zap.DebugLevel,
		"saved":  zap.InfoLevel,
	}
	for _, entry := range logs.All() {
		if level, ok := want[entry.Message]; !ok || entry.Level != level {
			t.Errorf("%q logged at %v", entry.Message, entry.Level)
		}
	}
	if logs.Len() != len(want) {
		t.Errorf("logged %d entries, want %d", logs.Len(), len(want))
	}
}
