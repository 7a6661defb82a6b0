// Package logger provides structured logging for LedgerMesh.
//
// It wraps the standard library log/slog. A logger writes to a console
// sink and, optionally, a logfile sink; each sink has its own level
// (level_console / level_logfile in the configuration tree).
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
)

// LevelCritical is one step above error.
const LevelCritical = slog.Level(12)

// Logger is the application logger interface.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	WithContext(ctx context.Context) Logger
}

// Config holds logger configuration.
type Config struct {
	// Level is the minimum console level (debug, info, warn, error, critical).
	Level string
	// FileLevel is the minimum logfile level. Empty means Level.
	FileLevel string
	// File is the logfile path. Empty disables the logfile sink.
	File string
	// Format is the console format (json, text). The logfile is always JSON.
	Format string
	// Output is the console writer (defaults to os.Stderr).
	Output io.Writer
	// AddSource adds source file information to log entries.
	AddSource bool
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "text",
		Output: os.Stderr,
	}
}

// slogLogger wraps slog.Logger with additional functionality.
type slogLogger struct {
	logger *slog.Logger
	ctx    context.Context
	file   *os.File
}

// Per-sink levels, adjustable at runtime.
var (
	consoleLevel = new(slog.LevelVar)
	fileLevel    = new(slog.LevelVar)
)

// New creates a new logger with the given configuration.
func New(cfg Config) (Logger, error) {
	if err := SetLevels(cfg.Level, cfg.FileLevel); err != nil {
		return nil, err
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	consoleOpts := handlerOptions(consoleLevel, cfg.AddSource)
	var console slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		console = slog.NewJSONHandler(output, consoleOpts)
	default: // text
		console = slog.NewTextHandler(output, consoleOpts)
	}

	l := &slogLogger{ctx: context.Background()}
	handler := console

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0750); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
		if err != nil {
			return nil, fmt.Errorf("open logfile: %w", err)
		}
		l.file = f
		handler = newTeeHandler(console, slog.NewJSONHandler(f, handlerOptions(fileLevel, cfg.AddSource)))
	}

	l.logger = slog.New(handler)
	return l, nil
}

func handlerOptions(level slog.Leveler, addSource bool) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey && len(groups) == 0 {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl >= LevelCritical {
					return slog.String(slog.LevelKey, "CRITICAL")
				}
			}
			return redactSensitive(a)
		},
	}
}

// SetLevels changes the console and logfile levels of every logger built
// by New. An empty file level follows the console level. Neither sink
// changes if either name is unknown.
func SetLevels(console, file string) error {
	clevel, err := ParseLevel(console)
	if err != nil {
		return err
	}
	flevel := clevel
	if file != "" {
		if flevel, err = ParseLevel(file); err != nil {
			return err
		}
	}
	consoleLevel.Set(clevel)
	fileLevel.Set(flevel)
	return nil
}

// Levels returns the current console and logfile level names.
func Levels() (console, file string) {
	return LevelName(consoleLevel.Level()), LevelName(fileLevel.Level())
}

func (l *slogLogger) Debug(msg string, args ...any) {
	l.logger.DebugContext(l.ctx, msg, args...)
}

func (l *slogLogger) Info(msg string, args ...any) {
	l.logger.InfoContext(l.ctx, msg, args...)
}

func (l *slogLogger) Warn(msg string, args ...any) {
	l.logger.WarnContext(l.ctx, msg, args...)
}

func (l *slogLogger) Error(msg string, args ...any) {
	l.logger.ErrorContext(l.ctx, msg, args...)
}

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{
		logger: l.logger.With(args...),
		ctx:    l.ctx,
	}
}

func (l *slogLogger) WithContext(ctx context.Context) Logger {
	return &slogLogger{
		logger: l.logger,
		ctx:    ctx,
	}
}

// Close releases the logfile, if any. Children created by With share the
// file but never close it.
func (l *slogLogger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// ParseLevel converts a level name to slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "critical", "fatal":
		return LevelCritical, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// LevelName returns the canonical name for a level.
func LevelName(level slog.Level) string {
	switch {
	case level >= LevelCritical:
		return "critical"
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warn"
	case level >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}

// Global logger instance for convenience methods.
var defaultLogger atomic.Pointer[slogLogger]

func init() {
	l, _ := New(DefaultConfig())
	defaultLogger.Store(l.(*slogLogger))
}

// SetDefault sets the default global logger.
func SetDefault(l Logger) {
	if sl, ok := l.(*slogLogger); ok {
		defaultLogger.Store(sl)
	}
}

// Default returns the default global logger.
func Default() Logger {
	return defaultLogger.Load()
}

// Debug logs at debug level using the default logger.
func Debug(msg string, args ...any) {
	defaultLogger.Load().Debug(msg, args...)
}

// Info logs at info level using the default logger.
func Info(msg string, args ...any) {
	defaultLogger.Load().Info(msg, args...)
}

// Warn logs at warn level using the default logger.
func Warn(msg string, args ...any) {
	defaultLogger.Load().Warn(msg, args...)
}

// Error logs at error level using the default logger.
func Error(msg string, args ...any) {
	defaultLogger.Load().Error(msg, args...)
}
