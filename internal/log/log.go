package log

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	logger *slog.Logger
	once   sync.Once
	mu     sync.Mutex
)

// handlerOptions honors the SCHOOLCAL_DEBUG gate wherever the handler is
// built, including after SetOutput swaps the destination.
func handlerOptions() *slog.HandlerOptions {
	level := slog.LevelInfo
	if os.Getenv("SCHOOLCAL_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}

// initLogger sets up the default logger writing structured lines to stderr.
// The TUI owns stdout; diagnostics go to stderr only.
func initLogger() {
	once.Do(func() {
		if logger == nil {
			logger = slog.New(slog.NewTextHandler(os.Stderr, handlerOptions()))
		}
	})
}

// SetOutput redirects log output, mainly so tests can capture or silence it.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = slog.New(slog.NewTextHandler(w, handlerOptions()))
	once.Do(func() {})
}

func Debug(msg string, kv ...any) {
	initLogger()
	logger.Debug(msg, kv...)
}

func Info(msg string, kv ...any) {
	initLogger()
	logger.Info(msg, kv...)
}

func Warn(msg string, kv ...any) {
	initLogger()
	logger.Warn(msg, kv...)
}

func Error(msg string, err error, kv ...any) {
	initLogger()
	logger.Error(msg, append([]any{"err", err}, kv...)...)
}
