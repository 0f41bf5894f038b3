package channel

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// Kind tags which variant of Inbound is populated.
type Kind int

const (
	// KindNone is the result of a dropped frame.
	KindNone Kind = iota
	KindTaskIDs
	KindMessage
)

func (k Kind) String() string {
	switch k {
	case KindTaskIDs:
		return "task_ids"
	case KindMessage:
		return "message"
	default:
		return "none"
	}
}

// TaskIDs is the array-rooted inbound shape: the routing targets of an emit.
// Hosts send numeric ids; string ids are accepted verbatim.
type TaskIDs []string

func (ids *TaskIDs) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(TaskIDs, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
			continue
		}
		var n json.Number
		if err := json.Unmarshal(item, &n); err != nil {
			return err
		}
		out = append(out, n.String())
	}
	*ids = out
	return nil
}

// Inbound is one received frame, classified by shape.
type Inbound[T any] struct {
	Kind    Kind
	TaskIDs TaskIDs
	Message T
}

// Validator is implemented by message types that check their own schema
// after decoding.
type Validator interface {
	Validate() error
}

// decode classifies payload by its first meaningful character. An array is
// always a TaskIDs list whatever T is; anything else decodes into T.
func decode[T any](payload string) (Inbound[T], error) {
	body := strings.TrimLeftFunc(payload, unicode.IsSpace)
	if strings.HasPrefix(body, "[") {
		var ids TaskIDs
		if err := json.Unmarshal([]byte(body), &ids); err != nil {
			return Inbound[T]{}, err
		}
		return Inbound[T]{Kind: KindTaskIDs, TaskIDs: ids}, nil
	}

	var msg T
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		return Inbound[T]{}, err
	}
	if v, ok := any(&msg).(Validator); ok {
		if err := v.Validate(); err != nil {
			return Inbound[T]{}, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
		}
	}
	return Inbound[T]{Kind: KindMessage, Message: msg}, nil
}
