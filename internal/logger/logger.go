// Package logger configures zerolog for the server and the CLI client.
// The server writes JSON lines to stdout; the client writes a human-readable
// console format to stderr so it does not mix with command output.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup initializes the global zerolog logger with JSON output and caller information.
func Setup(level zerolog.Level) {
	SetupWriter(os.Stdout, level)
}

// SetupConsole initializes the global logger with colored console output on stderr.
func SetupConsole(level zerolog.Level) {
	SetupWriter(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}, level)
}

// SetupWriter initializes the global logger writing to w.
func SetupWriter(w io.Writer, level zerolog.Level) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(w).With().Timestamp().Caller().Logger()
}

// Get returns a child of the global logger tagged with a component name.
func Get(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}

// ParseLevel converts a string log level to zerolog.Level.
// Valid values: "debug", "info", "warn", "error", "silent".
// Unrecognized values default to info level.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "silent":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
