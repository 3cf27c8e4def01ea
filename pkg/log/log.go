package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

type Logger = zerolog.Logger

// New builds the process logger. Local runs get a human console writer,
// everything else emits JSON lines.
func New(appEnv string) Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	if appEnv == "local" || appEnv == "test" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
