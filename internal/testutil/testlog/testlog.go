package testlog

import (
	"testing"

	"github.com/danmuck/stormlang/internal/logging"
	"github.com/rs/zerolog"
)

// Start configures test logging and returns a logger tagged with the test name.
// Output goes through t.Log so it only shows for failing or verbose runs.
func Start(t *testing.T) zerolog.Logger {
	t.Helper()
	logging.ConfigureTests()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: zerolog.TestWriter{T: t}, NoColor: true}).
		Level(logging.Current().Level).
		With().
		Str("test", t.Name()).
		Logger()
	logger.Info().Msg("start")
	return logger
}
