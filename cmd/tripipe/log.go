package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger returns a JSON logger writing to a rotating file in dir. The
// terminal belongs to the viewer, so nothing is logged to stderr. An empty
// dir selects the user config directory.
func newLogger(level, dir string) (*slog.Logger, io.Closer, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}

	if dir == "" {
		cfg, err := os.UserConfigDir()
		if err != nil {
			cfg = "."
		}
		dir = filepath.Join(cfg, "tripipe")
	}

	w := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "tripipe.slog"),
		MaxSize:    16, // MB
		MaxBackups: 1,
	}
	if lvl <= slog.LevelDebug {
		w.MaxSize = 128
	}

	l := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
	l.Info("starting tripipe",
		slog.String("os", runtime.GOOS),
		slog.String("arch", runtime.GOARCH),
		slog.Int("cpus", runtime.NumCPU()),
		slog.String("log", w.Filename))
	return l, w, nil
}
