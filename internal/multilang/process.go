package multilang

import (
	"context"
	"errors"

	"github.com/danmuck/stormlang/internal/config"
	"github.com/danmuck/stormlang/internal/logging"
	"github.com/danmuck/stormlang/internal/observability"
	"github.com/danmuck/stormlang/internal/protocol/channel"
	"github.com/rs/zerolog"
)

// Main wires logging, the stdio channel and the optional admin listener
// around run and returns the process exit code.
func Main(cfg config.WorkerConfig, run func(*Worker) error) int {
	logging.ConfigureRuntime()
	logging.SetLevel(cfg.LogLevel)
	logger := observability.InitLogger(cfg.Name)

	ch := channel.NewStdio(logger, channel.Limits{MaxFrameBytes: cfg.MaxFrameBytes})
	w := NewWorker(ch, logger, Config{
		AutoAck:     cfg.AutoAck,
		ForwardLogs: cfg.ForwardLogs,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.MetricsAddr != "" {
		router := observability.NewAdminRouter(cfg.Name, logger)
		go func() {
			if err := observability.ServeAdmin(ctx, cfg.MetricsAddr, router, logger); err != nil {
				logger.Error().Err(err).Msg("admin listener stopped")
			}
		}()
	}
	return ExitCode(run(w), logger)
}

// ExitCode maps a run loop result to a process exit code. Stream closure is
// the host shutting the worker down and counts as success.
func ExitCode(err error, logger zerolog.Logger) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, channel.ErrStreamClosed):
		logger.Info().Msg("host stream closed, exiting")
		return 0
	default:
		logger.Error().Err(err).Msg("worker stopped")
		return 1
	}
}
