package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds the service logger. DEV gets human readable console output,
// every other environment gets JSON. The global zerolog logger is replaced
// so packages logging through zerolog/log share the same sink.
func New(env, level, appName string) zerolog.Logger {
	return NewWithWriter(os.Stdout, env, level, appName)
}

func NewWithWriter(w io.Writer, env, level, appName string) zerolog.Logger {
	if strings.EqualFold(env, "DEV") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	logger := zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("app", appName).
		Logger()

	log.Logger = logger
	return logger
}

// ParseLevel falls back to info for unknown or empty levels
func ParseLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}
