package fundpush

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a human readable logger writing to w at the given level
// ("debug", "info", "warn" or "error", defaults to info).
func NewLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(lvl).With().Timestamp().Logger()
}
