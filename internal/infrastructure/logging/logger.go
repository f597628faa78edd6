package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/casalab/casahub/internal/infrastructure/config"
)

// Logger is the application-wide structured logger. It embeds
// *slog.Logger so call sites use the slog API directly; every record
// carries the service name and build version as default attributes.
//
// A Logger backed by a file owns the handle; callers that pass a file
// path in the config must Close the Logger on shutdown.
type Logger struct {
	*slog.Logger

	file *os.File
}

// New builds a Logger from the logging section of the config.
//
// Output selects the destination: "stdout", "stderr", or any other
// value is treated as a file path and opened in append mode. Format
// picks text or JSON encoding (JSON when unset), and Level sets the
// minimum severity (info when unrecognised).
func New(cfg config.LoggingConfig, version string) (*Logger, error) {
	var (
		out  io.Writer
		file *os.File
	)
	switch strings.ToLower(cfg.Output) {
	case "stdout", "":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		out = f
		file = f
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(out, opts)
	default:
		handler = slog.NewJSONHandler(out, opts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", "casahub"),
		slog.String("version", version),
	})

	return &Logger{Logger: slog.New(handler), file: file}, nil
}

// parseLevel maps a config level string to a slog.Level. Unknown or
// empty values fall back to info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// With returns a child Logger carrying extra default attributes, e.g.
// log.With("component", "mqtt"). The child shares the parent's output.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), file: l.file}
}

// Close releases the log file when the Logger writes to one. It is a
// no-op for stdout and stderr destinations.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Default returns a stdout JSON logger at info level for use before
// the configuration has been loaded.
func Default() *Logger {
	l, _ := New(config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"}, "dev")
	return l
}
