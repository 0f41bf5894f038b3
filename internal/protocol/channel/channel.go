// Package channel implements the sentinel-delimited JSON framing used between
// a multilang worker and its host over a pair of byte streams.
//
// Wire shape, both directions:
//
//	<json-text>
//	end
//
// Inbound frames may span several lines and may contain blank lines, which
// are dropped. The channel is blocking and host-paced: there are no timeouts,
// and Receive returns only on a sentinel or stream closure.
package channel

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/danmuck/stormlang/internal/observability"
	"github.com/rs/zerolog"
)

// Channel owns both directions of one host conversation. Receive calls and
// Send calls are serialized independently.
type Channel struct {
	readMu sync.Mutex
	r      *bufio.Reader

	writeMu sync.Mutex
	w       *bufio.Writer

	limits Limits
	logger zerolog.Logger
}

func New(r io.Reader, w io.Writer, logger zerolog.Logger, limits Limits) *Channel {
	return &Channel{
		r:      bufio.NewReader(r),
		w:      bufio.NewWriter(w),
		limits: limits,
		logger: logger.With().Str("component", "channel").Logger(),
	}
}

// NewStdio binds a channel to the process's standard streams.
func NewStdio(logger zerolog.Logger, limits Limits) *Channel {
	return New(os.Stdin, os.Stdout, logger, limits)
}

// Send writes msg as one compact JSON line followed by the sentinel line.
// Nothing is read back.
func (c *Channel) Send(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("channel: encode %T: %w", msg, err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := c.w.Write(payload); err != nil {
		return fmt.Errorf("channel: write failed: %w", err)
	}
	if _, err := c.w.WriteString("\n" + Sentinel + "\n"); err != nil {
		return fmt.Errorf("channel: write failed: %w", err)
	}
	if err := c.w.Flush(); err != nil {
		return fmt.Errorf("channel: flush failed: %w", err)
	}
	observability.RecordFrameSent()
	return nil
}

// Receive reads one frame and decodes it. Array payloads always come back as
// KindTaskIDs; everything else is decoded into T.
//
// A frame that fails to decode (or to validate, when T implements Validator)
// is logged and dropped: the result has KindNone and a nil error.
// ErrStreamClosed is returned when the input ends before a sentinel.
func Receive[T any](c *Channel) (Inbound[T], error) {
	c.readMu.Lock()
	defer c.readMu.Unlock()

	payload, err := readFrame(c.r, c.limits)
	if err != nil {
		if errors.Is(err, ErrStreamClosed) {
			c.logger.Debug().Err(err).Msg("host stream closed")
			observability.RecordStreamClosed()
			return Inbound[T]{}, err
		}
		if errors.Is(err, ErrFrameTooLarge) {
			c.logger.Error().Err(err).Msg("message dropped")
			observability.RecordFrameDropped(observability.DropOversize)
			return Inbound[T]{}, nil
		}
		return Inbound[T]{}, err
	}

	in, err := decode[T](payload)
	if err != nil {
		if !recoverable(err) {
			return Inbound[T]{}, fmt.Errorf("channel: decode %T: %w", in.Message, err)
		}
		c.logger.Error().
			Err(err).
			Str("payload", payload).
			Str("expected", fmt.Sprintf("%T", in.Message)).
			Msg("message parsing error")
		observability.RecordFrameDropped(observability.DropDecode)
		return Inbound[T]{}, nil
	}
	observability.RecordFrameReceived(in.Kind.String())
	return in, nil
}
