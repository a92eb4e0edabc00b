package logging

import (
	gnarkLogger "github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"
	"os"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()

func Logger() *zerolog.Logger {
	return &log
}

// Component returns a child logger tagged with the given subsystem name.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// SetJSONOutput switches to machine-readable logs on stdout and routes the
// proof backend's internal logging through the same sink.
func SetJSONOutput() {
	log = zerolog.New(os.Stdout).With().Timestamp().Logger()
	gnarkLogger.Set(log)
}
