// Package logger configures the process-wide zerolog logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// Config holds the configuration for the logger.
type Config struct {
	Level  string
	Output string // "stdout", "stderr" (default), or a file path
	Pretty bool   // console writer for development
}

// New builds a logger from cfg without installing it. Unknown levels fall
// back to info.
func New(cfg Config) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	output, err := openOutput(cfg.Output)
	if err != nil {
		return zerolog.Nop(), err
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: "2006-01-02 15:04:05"}
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger(), nil
}

func openOutput(name string) (io.Writer, error) {
	switch name {
	case "", "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	}
	if dir := filepath.Dir(name); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// Init builds the logger from cfg and installs it as the process logger.
func Init(cfg Config) error {
	l, err := New(cfg)
	if err != nil {
		return err
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano
	Set(l)
	return nil
}

// Set installs l as the process logger.
func Set(l zerolog.Logger) {
	mu.Lock()
	logger = l
	zerolog.DefaultContextLogger = &logger
	mu.Unlock()
}

// Get returns the process logger.
func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}
