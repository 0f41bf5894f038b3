package multilang

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/danmuck/stormlang/internal/logging"
	"github.com/danmuck/stormlang/internal/protocol/channel"
	"github.com/danmuck/stormlang/internal/protocol/message"
	"github.com/rs/zerolog"
)

var ErrHandshakeFailed = errors.New("multilang: handshake failed")

// Config selects runtime behavior shared by spouts and bolts.
type Config struct {
	// AutoAck acks each bolt tuple after Process returns nil and fails it
	// otherwise. Emits during Process are anchored to the input tuple.
	AutoAck bool
	// ForwardLogs routes the component logger through the host.
	ForwardLogs bool
}

// Worker is one multilang process bound to a host channel.
type Worker struct {
	ch     *channel.Channel
	cfg    Config
	logger zerolog.Logger
	pid    int
}

func NewWorker(ch *channel.Channel, logger zerolog.Logger, cfg Config) *Worker {
	return &Worker{
		ch:     ch,
		cfg:    cfg,
		logger: logger.With().Str("component", "worker").Logger(),
		pid:    os.Getpid(),
	}
}

// Handshake consumes the setup frame, drops a pid file into the host's
// pid directory and replies with the pid.
func (w *Worker) Handshake() (message.Handshake, error) {
	in, err := channel.Receive[message.Handshake](w.ch)
	if err != nil {
		return message.Handshake{}, err
	}
	if in.Kind != channel.KindMessage {
		return message.Handshake{}, fmt.Errorf("%w: got %s frame", ErrHandshakeFailed, in.Kind)
	}
	hs := in.Message

	pidPath := filepath.Join(hs.PidDir, strconv.Itoa(w.pid))
	if err := os.WriteFile(pidPath, nil, 0o644); err != nil {
		return message.Handshake{}, fmt.Errorf("%w: pid file: %v", ErrHandshakeFailed, err)
	}
	if err := w.ch.Send(message.PidReply{Pid: w.pid}); err != nil {
		return message.Handshake{}, err
	}
	w.logger.Info().
		Int("pid", w.pid).
		Int("task_id", hs.Context.TaskID).
		Str("component_id", hs.Context.ComponentID).
		Msg("handshake complete")
	return hs, nil
}

func (w *Worker) componentLogger(name string) zerolog.Logger {
	if w.cfg.ForwardLogs {
		return logging.NewHostLogger(w.ch, name).Level(zerolog.GlobalLevel())
	}
	return w.logger.With().Str("component", name).Logger()
}

func (w *Worker) sync() error {
	return w.ch.Send(message.NewSync())
}
