package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger returns a timestamped logger writing to stderr. The level comes
// from LOG_LEVEL (debug, info, warn, error) and defaults to info.
func NewLogger(prefix string) *log.Logger {
	return NewLoggerTo(os.Stderr, prefix)
}

// NewLoggerTo is NewLogger with an explicit writer.
func NewLoggerTo(w io.Writer, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           LogLevel(),
	})
}

// LogLevel reads LOG_LEVEL. Unknown values fall back to info.
func LogLevel() log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(GetEnv("LOG_LEVEL", "info")))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
