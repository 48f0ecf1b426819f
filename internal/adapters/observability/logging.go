package observability

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog Logger tagged with the service name.
// APP_ENV=dev (or development) uses a human-friendly console writer at debug level.
func NewLogger(env, service string) zerolog.Logger {
	l := zerolog.New(os.Stdout).With().Timestamp().Str("service", service).Logger().Level(zerolog.InfoLevel)
	if env == "dev" || env == "development" {
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().Timestamp().Str("service", service).Logger().Level(zerolog.DebugLevel)
	}
	return l
}
