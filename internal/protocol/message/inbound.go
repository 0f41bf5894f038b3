package message

import (
	"fmt"
	"strings"
)

// TopologyContext is the subset of the host's topology context a worker uses.
type TopologyContext struct {
	TaskID          int               `json:"taskid"`
	ComponentID     string            `json:"componentid"`
	TaskToComponent map[string]string `json:"task->component,omitempty"`
}

// Handshake is the first frame a host sends to a new worker.
type Handshake struct {
	Conf    map[string]any  `json:"conf"`
	Context TopologyContext `json:"context"`
	PidDir  string          `json:"pidDir"`
}

func (h Handshake) Validate() error {
	if strings.TrimSpace(h.PidDir) == "" {
		return fmt.Errorf("handshake missing pidDir")
	}
	return nil
}

// Command is a host directive to a spout.
type Command struct {
	Command string    `json:"command"`
	ID      MessageID `json:"id,omitempty"`
}

func (c Command) Validate() error {
	switch c.Command {
	case "":
		return fmt.Errorf("command missing command")
	case CommandAck, CommandFail:
		if !validID(c.ID) {
			return fmt.Errorf("%s command missing id", c.Command)
		}
	}
	return nil
}

// Tuple is one input tuple delivered to a bolt.
type Tuple struct {
	ID     MessageID `json:"id"`
	Comp   string    `json:"comp"`
	Stream string    `json:"stream"`
	Task   int       `json:"task"`
	Values []any     `json:"tuple"`
}

func (t Tuple) Validate() error {
	if !validID(t.ID) {
		return fmt.Errorf("tuple missing id")
	}
	if strings.TrimSpace(t.Stream) == "" {
		return fmt.Errorf("tuple missing stream")
	}
	return nil
}

// IsHeartbeat reports whether t is the host's liveness probe.
func (t Tuple) IsHeartbeat() bool {
	return t.Task == HeartbeatTask && t.Stream == HeartbeatStream
}
