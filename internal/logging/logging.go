package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger provides structured logging on top of zerolog
type Logger struct {
	zlog  zerolog.Logger
	quiet bool
}

// Options controls logger verbosity and destination
type Options struct {
	Quiet   bool
	Verbose bool
	Out     io.Writer // defaults to os.Stderr
	NoColor bool
}

// NewLogger creates a new logger writing human readable lines
func NewLogger(opts Options) *Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	level := zerolog.InfoLevel
	switch {
	case opts.Quiet:
		level = zerolog.WarnLevel
	case opts.Verbose:
		level = zerolog.DebugLevel
	}

	zlog := zerolog.New(zerolog.ConsoleWriter{
		Out:        zerolog.SyncWriter(out),
		TimeFormat: "15:04:05",
		NoColor:    opts.NoColor,
	}).Level(level).With().Timestamp().Logger()

	return &Logger{zlog: zlog, quiet: opts.Quiet}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop(), quiet: true}
}

// Zerolog exposes the underlying logger for components that log with fields
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zlog
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.zlog.Info().Msgf(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.zlog.Warn().Msgf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.zlog.Error().Msgf(format, args...)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.zlog.Debug().Msgf(format, args...)
}

// Uploaded logs a successful object upload
func (l *Logger) Uploaded(key, contentType string, size int64) {
	l.zlog.Info().
		Str("key", key).
		Str("content_type", contentType).
		Str("size", formatBytes(size)).
		Msg("uploaded")
}

// UploadFailed logs a failed object upload
func (l *Logger) UploadFailed(key string, err error) {
	l.zlog.Error().Str("key", key).Err(err).Msg("upload failed")
}

// Summary is the run total printed at the end of a deployment
type Summary struct {
	Uploaded      int64
	Failed        int64
	ListErrors    int64
	Skipped       int64
	BytesUploaded int64
	Duration      time.Duration
	DryRun        bool
}

// PrintSummary prints a summary of the upload run
func (l *Logger) PrintSummary(s Summary) {
	errors := s.Failed + s.ListErrors
	if l.quiet && errors == 0 {
		return
	}

	ev := l.zlog.Info()
	if errors > 0 {
		// Raised to warn so the line survives --quiet
		ev = l.zlog.Warn()
	}

	ev.Int64("uploaded", s.Uploaded).
		Str("bytes", formatBytes(s.BytesUploaded)).
		Int64("skipped", s.Skipped).
		Int64("failed", s.Failed).
		Int64("list_errors", s.ListErrors).
		Bool("dryrun", s.DryRun).
		Dur("duration", s.Duration.Round(time.Millisecond)).
		Msg("=== Summary ===")
}

// formatBytes formats bytes in human readable format
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
