package multilang

import (
	"fmt"
	"strings"

	"github.com/danmuck/stormlang/internal/protocol/channel"
	"github.com/danmuck/stormlang/internal/protocol/message"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type taskIDReader interface {
	readTaskIDs() (channel.TaskIDs, error)
}

// EmitOptions shapes one emit. The zero value emits on the default stream
// and waits for the host's task ids.
type EmitOptions struct {
	Stream  string
	Anchors []message.MessageID

	// ID is the spout message id. Spouts with Reliable set and no ID get a
	// generated one.
	ID          message.MessageID
	Reliable    bool
	SkipTaskIDs bool
}

// Collector is the outbound surface handed to spouts and bolts.
type Collector struct {
	ch     *channel.Channel
	ids    taskIDReader
	spout  bool
	anchor *message.Tuple
	logger zerolog.Logger
}

// Logger returns the component logger; records may be forwarded to the host.
func (c *Collector) Logger() *zerolog.Logger {
	return &c.logger
}

// Emit sends a tuple and, unless SkipTaskIDs is set, returns the tasks it
// was routed to. Emits made while a bolt auto-acks are anchored to the
// current input tuple when no anchors are given.
func (c *Collector) Emit(tuple []any, opts EmitOptions) (channel.TaskIDs, error) {
	emit := c.buildEmit(tuple, opts)
	if !opts.SkipTaskIDs {
		return c.send(emit)
	}
	no := false
	emit.NeedTaskIDs = &no
	return c.send(emit)
}

// EmitDirect sends a tuple to one task. The host does not answer direct
// emits with task ids.
func (c *Collector) EmitDirect(task int, tuple []any, opts EmitOptions) error {
	emit := c.buildEmit(tuple, opts)
	emit.Task = &task
	_, err := c.send(emit)
	return err
}

// NewMessageID returns a fresh spout message id. Spouts that replay failed
// tuples set it on EmitOptions.ID so they can match later acks and fails.
func NewMessageID() message.MessageID {
	return message.MessageID(uuid.NewString())
}

func (c *Collector) buildEmit(tuple []any, opts EmitOptions) message.Emit {
	if tuple == nil {
		tuple = []any{}
	}
	emit := message.Emit{
		Command: message.CommandEmit,
		Stream:  strings.TrimSpace(opts.Stream),
		Tuple:   tuple,
	}
	if c.spout {
		emit.ID = opts.ID
		if emit.ID == "" && opts.Reliable {
			emit.ID = NewMessageID()
		}
		return emit
	}
	emit.Anchors = opts.Anchors
	if len(emit.Anchors) == 0 && c.anchor != nil {
		emit.Anchors = []message.MessageID{c.anchor.ID}
	}
	return emit
}

func (c *Collector) send(emit message.Emit) (channel.TaskIDs, error) {
	if err := emit.Validate(); err != nil {
		return nil, err
	}
	if err := c.ch.Send(emit); err != nil {
		return nil, err
	}
	if !emit.WantsTaskIDs() {
		return nil, nil
	}
	return c.ids.readTaskIDs()
}

func (c *Collector) Ack(id message.MessageID) error {
	return c.ch.Send(message.NewAck(id))
}

func (c *Collector) Fail(id message.MessageID) error {
	return c.ch.Send(message.NewFail(id))
}

// Log writes msg to the host's worker log at level.
func (c *Collector) Log(level message.LogLevel, msg string) error {
	return c.ch.Send(message.NewLog(level, msg))
}

// ReportError surfaces err in the host's component error list.
func (c *Collector) ReportError(err error) error {
	return c.ch.Send(message.NewError(fmt.Sprintf("%v", err)))
}

// Metrics updates a host-registered metric by name.
func (c *Collector) Metrics(name string, params any) error {
	return c.ch.Send(message.NewMetrics(name, params))
}
