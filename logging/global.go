// Package logging wires log/slog for the dosage service: console output, a
// weekly rotating JSON file, package-level helpers and an HTTP middleware.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/giygas/antimalarial-dosage/config"
)

type LoggingService struct {
	Logger   *slog.Logger
	rotating *RotatingLogger
}

var DefaultLoggingService *LoggingService

// Options configures InitLoggerWithOptions
type Options struct {
	LogDir         string
	Env            config.Environment
	Level          string
	Verbose        bool
	RetentionWeeks int
	MaxFileSize    int64
	// Console defaults to os.Stdout
	Console io.Writer
}

// InitLogger initializes the global logger with development defaults.
// An empty logDir logs to the console only.
func InitLogger(logDir string) {
	InitLoggerWithOptions(Options{
		LogDir:         logDir,
		Env:            config.EnvDevelopment,
		RetentionWeeks: 4,
		MaxFileSize:    defaultMaxFileSize,
	})
}

// InitLoggerWithOptions initializes the global logger and sets it as slog's default
func InitLoggerWithOptions(opts Options) {
	console := opts.Console
	if console == nil {
		console = os.Stdout
	}
	consoleHandler := slog.NewTextHandler(console, &slog.HandlerOptions{
		Level: GetConsoleLogLevel(opts.Env, opts.Level, opts.Verbose),
	})

	service := &LoggingService{}

	handlers := []slog.Handler{consoleHandler}
	if opts.LogDir != "" {
		rotating, err := NewRotatingLoggerWithSizeLimit(opts.LogDir, opts.RetentionWeeks, opts.MaxFileSize)
		if err != nil {
			slog.New(consoleHandler).Error("Failed to initialize rotating logger, logging to console only", "error", err)
		} else {
			service.rotating = rotating
			handlers = append(handlers, slog.NewJSONHandler(rotating, &slog.HandlerOptions{
				Level: GetFileLogLevel(),
			}))
		}
	}

	if len(handlers) == 1 {
		service.Logger = slog.New(consoleHandler)
	} else {
		service.Logger = slog.New(&multiHandler{handlers: handlers})
	}

	if DefaultLoggingService != nil {
		_ = DefaultLoggingService.Close()
	}
	DefaultLoggingService = service
	slog.SetDefault(service.Logger)
}

// Close releases the rotating file, if any
func (s *LoggingService) Close() error {
	if s == nil || s.rotating == nil {
		return nil
	}
	return s.rotating.Close()
}

// Close shuts down the global logging service
func Close() error {
	return DefaultLoggingService.Close()
}

func current() *slog.Logger {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return DefaultLoggingService.Logger
}

// Package-level functions for direct access

func Info(msg string, args ...any) {
	current().Info(msg, args...)
}

func Error(msg string, args ...any) {
	current().Error(msg, args...)
}

func Warn(msg string, args ...any) {
	current().Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	current().Debug(msg, args...)
}
