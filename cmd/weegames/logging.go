package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const (
	logFileName = "weegames.log"
	maxLogSize  = 10 * 1024 * 1024
)

// setupLogging writes structured logs to dir when debug is set and discards them otherwise
// The terminal owns stdout and stderr while the game runs, so neither is ever a log target
func setupLogging(debug bool, dir string) (*os.File, *slog.Logger) {
	if !debug {
		log.SetOutput(io.Discard)
		return nil, slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.SetOutput(io.Discard)
		return nil, slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	path := filepath.Join(dir, logFileName)
	if info, err := os.Stat(path); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(dir, fmt.Sprintf("weegames-%s.log", time.Now().Format("20060102-150405")))
		_ = os.Rename(path, rotated)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil, slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return f, logger
}
