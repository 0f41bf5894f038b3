package multilang

import (
	"fmt"

	"github.com/danmuck/stormlang/internal/protocol/message"
)

// Bolt processes tuples delivered by the host.
type Bolt interface {
	Prepare(hs message.Handshake, out *Collector) error
	Process(t message.Tuple, out *Collector) error
}

// RunBolt handshakes and then processes tuples until the input stream
// closes. Heartbeat tuples are answered with a sync and never reach the bolt.
func (w *Worker) RunBolt(b Bolt) error {
	hs, err := w.Handshake()
	if err != nil {
		return err
	}
	in := newInbox[message.Tuple](w.ch, w.logger)
	out := &Collector{
		ch:     w.ch,
		ids:    in,
		logger: w.componentLogger(componentName(hs, "bolt")),
	}
	if err := b.Prepare(hs, out); err != nil {
		_ = out.ReportError(err)
		return fmt.Errorf("bolt prepare: %w", err)
	}

	for {
		tup, err := in.next()
		if err != nil {
			return err
		}
		if tup.IsHeartbeat() {
			if err := w.sync(); err != nil {
				return err
			}
			continue
		}
		if err := w.process(b, out, tup); err != nil {
			return err
		}
	}
}

// process runs one tuple. With AutoAck a processing error fails the tuple
// and the loop continues; without it the error ends the loop.
func (w *Worker) process(b Bolt, out *Collector, tup message.Tuple) error {
	if !w.cfg.AutoAck {
		if err := b.Process(tup, out); err != nil {
			_ = out.ReportError(err)
			return fmt.Errorf("bolt process %s: %w", tup.ID, err)
		}
		return nil
	}

	out.anchor = &tup
	perr := b.Process(tup, out)
	out.anchor = nil
	if perr != nil {
		w.logger.Error().Err(perr).Str("tuple_id", tup.ID.String()).Msg("tuple failed")
		if err := out.ReportError(perr); err != nil {
			return err
		}
		return out.Fail(tup.ID)
	}
	return out.Ack(tup.ID)
}
