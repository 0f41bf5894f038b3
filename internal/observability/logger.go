package observability

import (
	"os"
	"time"

	"github.com/danmuck/stormlang/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger builds the process logger on stderr. Stdout carries protocol
// frames and must never see log output.
func InitLogger(app string) zerolog.Logger {
	settings := logging.Current()
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		NoColor:    settings.NoColor,
		TimeFormat: time.RFC3339,
	}
	ctx := zerolog.New(output).Level(settings.Level).With().Str("app", app)
	if settings.Timestamp {
		ctx = ctx.Timestamp()
	}
	logger := ctx.Logger()
	log.Logger = logger
	return logger
}
