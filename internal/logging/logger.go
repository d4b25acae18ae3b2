// Package logging provides a structured logging wrapper around log/slog with
// rotating file output. The terminal belongs to the UI, so logs only ever go
// to a file; with no file configured every call is a no-op.
package logging

import (
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Format is the output format for log records.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config holds logger settings.
type Config struct {
	// FilePath is the log file; empty disables logging.
	FilePath   string
	Level      slog.Level
	Format     Format
	MaxSizeMB  int
	MaxBackups int
}

const (
	defaultMaxSizeMB  = 10
	defaultMaxBackups = 3
)

// Logger wraps slog.Logger and remembers whether it writes anywhere.
type Logger struct {
	*slog.Logger
	closer  io.Closer
	enabled bool
}

var (
	noop   = &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	global atomic.Pointer[Logger]
)

// New builds a Logger from cfg.
func New(cfg Config) *Logger {
	if strings.TrimSpace(cfg.FilePath) == "" {
		return noop
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = defaultMaxSizeMB
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = defaultMaxBackups
	}

	writer := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   true,
	}

	opts := &slog.HandlerOptions{Level: cfg.Level}
	var handler slog.Handler
	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(writer, opts)
	default:
		handler = slog.NewTextHandler(writer, opts)
	}
	return &Logger{Logger: slog.New(handler), closer: writer, enabled: true}
}

// Init installs a logger built from cfg as the package default.
func Init(cfg Config) *Logger {
	l := New(cfg)
	global.Store(l)
	return l
}

// Get returns the package default logger, or a no-op logger before Init.
func Get() *Logger {
	if l := global.Load(); l != nil {
		return l
	}
	return noop
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return noop
}

// With returns a child logger carrying args on every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), closer: l.closer, enabled: l.enabled}
}

// IsEnabled reports whether records are written anywhere.
func (l *Logger) IsEnabled() bool {
	return l != nil && l.enabled
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// ParseLevel converts a level name to slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseFormat converts a format name to Format, defaulting to text.
func ParseFormat(format string) Format {
	if strings.ToLower(strings.TrimSpace(format)) == "json" {
		return FormatJSON
	}
	return FormatText
}
