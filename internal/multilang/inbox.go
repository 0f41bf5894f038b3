package multilang

import (
	"github.com/danmuck/stormlang/internal/protocol/channel"
	"github.com/rs/zerolog"
)

// inbox reads T messages from the host. Messages that arrive while an emit
// is waiting for its task ids are queued and handed out first.
type inbox[T any] struct {
	ch      *channel.Channel
	pending []T
	logger  zerolog.Logger
}

func newInbox[T any](ch *channel.Channel, logger zerolog.Logger) *inbox[T] {
	return &inbox[T]{ch: ch, logger: logger}
}

func (b *inbox[T]) next() (T, error) {
	if len(b.pending) > 0 {
		msg := b.pending[0]
		b.pending = b.pending[1:]
		return msg, nil
	}
	for {
		in, err := channel.Receive[T](b.ch)
		if err != nil {
			var zero T
			return zero, err
		}
		switch in.Kind {
		case channel.KindMessage:
			return in.Message, nil
		case channel.KindTaskIDs:
			b.logger.Warn().Strs("task_ids", in.TaskIDs).Msg("unsolicited task ids dropped")
		}
	}
}

func (b *inbox[T]) readTaskIDs() (channel.TaskIDs, error) {
	for {
		in, err := channel.Receive[T](b.ch)
		if err != nil {
			return nil, err
		}
		switch in.Kind {
		case channel.KindTaskIDs:
			return in.TaskIDs, nil
		case channel.KindMessage:
			b.pending = append(b.pending, in.Message)
		}
	}
}
