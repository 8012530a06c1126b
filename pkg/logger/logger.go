// Package logger is a thin slog wrapper shared by every layer of the service.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

type Config struct {
	Level        LogLevel
	Format       string // "json" or "text"
	Output       string // "stdout", "stderr" or a file path
	EnableCaller bool   // add file:line to Error records
	Component    string
	Environment  string
}

func DefaultConfig() Config {
	return Config{
		Level:        LevelInfo,
		Format:       "json",
		Output:       "stdout",
		EnableCaller: true,
		Environment:  "development",
	}
}

type Logger struct {
	*slog.Logger
	caller bool
	out    io.Writer
}

func (l LogLevel) slogLevel() slog.Level {
	switch LogLevel(strings.ToLower(string(l))) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a logger from cfg. An unwritable output file falls back to stdout.
func New(cfg Config) *Logger {
	return NewWithWriter(cfg, openOutput(cfg.Output))
}

func openOutput(target string) io.Writer {
	switch target {
	case "", "stdout":
		return os.Stdout
	case "stderr":
		return os.Stderr
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: cannot open %s, using stdout: %v\n", target, err)
		return os.Stdout
	}
	return f
}

func NewWithWriter(cfg Config, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level.slogLevel()}

	var h slog.Handler = slog.NewJSONHandler(w, opts)
	if cfg.Format == "text" {
		h = slog.NewTextHandler(w, opts)
	}

	base := slog.New(h)
	if cfg.Environment != "" {
		base = base.With("environment", cfg.Environment)
	}
	if cfg.Component != "" {
		base = base.With("component", cfg.Component)
	}
	return &Logger{Logger: base, caller: cfg.EnableCaller, out: w}
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	return NewWithWriter(Config{Level: LevelError, Format: "text"}, io.Discard)
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), caller: l.caller, out: l.out}
}

func (l *Logger) WithComponent(component string) *Logger {
	return l.With("component", component)
}

func (l *Logger) Error(msg string, args ...any) {
	if l.caller {
		if _, file, line, ok := runtime.Caller(1); ok {
			args = append(args, "caller", fmt.Sprintf("%s:%d", filepath.Base(file), line))
		}
	}
	l.Logger.Error(msg, args...)
}

// Fatal logs at error level and exits with status 1.
func (l *Logger) Fatal(msg string, args ...any) {
	l.Error(msg, args...)
	time.Sleep(100 * time.Millisecond)
	os.Exit(1)
}

// Close releases the output file, if any.
func (l *Logger) Close() error {
	if l.out == os.Stdout || l.out == os.Stderr {
		return nil
	}
	if c, ok := l.out.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
