// ABOUTME: Structured logging configuration using log/slog.
// ABOUTME: Init writes to stderr for commands; InitFile rotates a debug log for the TUI.

package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// DebugLogName is the rotated log file written while the TUI owns the terminal
const DebugLogName = "debug.log"

// Init configures the default slog logger to write to stderr.
// level: debug, info, warn, error (default: warn)
// format: text, json (default: text)
func Init(level, format string) {
	slog.SetDefault(New(os.Stderr, level, format))
}

// InitFile routes the default logger to a size-rotated file under dir and
// returns a closer for it. An empty dir discards all logs.
func InitFile(dir, level, format string) io.Closer {
	if dir == "" {
		slog.SetDefault(New(io.Discard, level, format))
		return io.NopCloser(nil)
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(dir, DebugLogName),
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	slog.SetDefault(New(rotator, level, format))
	return rotator
}

// New builds a logger writing to w
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
