package multilang

import (
	"fmt"

	"github.com/danmuck/stormlang/internal/protocol/message"
)

// Spout is a tuple source driven by host commands.
type Spout interface {
	Open(hs message.Handshake, out *Collector) error
	NextTuple(out *Collector) error
	Ack(id message.MessageID) error
	Fail(id message.MessageID) error
}

// Activator is implemented by spouts that care about topology activation.
type Activator interface {
	Activate() error
	Deactivate() error
}

// RunSpout handshakes and then serves host commands until the input stream
// closes. Every command is answered with a sync frame.
func (w *Worker) RunSpout(s Spout) error {
	hs, err := w.Handshake()
	if err != nil {
		return err
	}
	in := newInbox[message.Command](w.ch, w.logger)
	out := &Collector{
		ch:     w.ch,
		ids:    in,
		spout:  true,
		logger: w.componentLogger(componentName(hs, "spout")),
	}
	if err := s.Open(hs, out); err != nil {
		_ = out.ReportError(err)
		return fmt.Errorf("spout open: %w", err)
	}

	for {
		cmd, err := in.next()
		if err != nil {
			return err
		}
		if err := w.dispatchCommand(s, out, cmd); err != nil {
			_ = out.ReportError(err)
			return fmt.Errorf("spout %s: %w", cmd.Command, err)
		}
		if err := w.sync(); err != nil {
			return err
		}
	}
}

func (w *Worker) dispatchCommand(s Spout, out *Collector, cmd message.Command) error {
	switch cmd.Command {
	case message.CommandNext:
		return s.NextTuple(out)
	case message.CommandAck:
		return s.Ack(cmd.ID)
	case message.CommandFail:
		return s.Fail(cmd.ID)
	case message.CommandActivate:
		if a, ok := s.(Activator); ok {
			return a.Activate()
		}
	case message.CommandDeactivate:
		if a, ok := s.(Activator); ok {
			return a.Deactivate()
		}
	default:
		w.logger.Warn().Str("command", cmd.Command).Msg("unknown spout command")
	}
	return nil
}

func componentName(hs message.Handshake, fallback string) string {
	if hs.Context.ComponentID != "" {
		return hs.Context.ComponentID
	}
	return fallback
}
