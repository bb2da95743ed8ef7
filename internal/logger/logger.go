// Package logger provides process-wide logging for cinepick.
// Messages are written through zerolog, either as console lines for the
// CLI or as JSON for the server. Warnings and errors are always written;
// debug and info messages only appear when verbose mode is enabled via the
// --verbose flag.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu      sync.RWMutex
	verbose bool
	jsonOut bool
	output  io.Writer = os.Stderr
	log               = build(os.Stderr, false, false)
)

// build creates the zerolog logger for the current settings.
// Must be called with mu held for writing (or during package init).
func build(w io.Writer, verboseMode, asJSON bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verboseMode {
		level = zerolog.DebugLevel
	}

	if asJSON {
		return zerolog.New(w).Level(level).With().Timestamp().Logger()
	}

	console := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      true,
		TimeFormat:   time.TimeOnly,
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	return zerolog.New(console).Level(level)
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	log = build(output, verbose, jsonOut)
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	log = build(output, verbose, jsonOut)
}

// SetJSON switches between JSON lines (server) and console output (CLI).
func SetJSON(v bool) {
	mu.Lock()
	defer mu.Unlock()
	jsonOut = v
	log = build(output, verbose, jsonOut)
}

// Logger returns the underlying zerolog logger for structured fields.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Debug logs a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Debug().Msgf(format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	if jsonOut {
		log.Debug().Str("section", name).Send()
		return
	}
	fmt.Fprintf(output, "\n=== %s ===\n", name)
}

// Info logs an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Info().Msgf(format, args...)
}

// Warn logs a warning.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Warn().Msgf(format, args...)
}

// Error logs an error.
func Error(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Error().Msgf(format, args...)
}

// Critical logs a contract violation that aborts the current request.
// It is written at error level and tagged critical=true.
func Critical(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Error().Bool("critical", true).Msgf(format, args...)
}
