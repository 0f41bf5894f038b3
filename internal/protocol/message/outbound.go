package message

import "fmt"

// PidReply answers the handshake.
type PidReply struct {
	Pid int `json:"pid"`
}

// Emit sends a tuple downstream. NeedTaskIDs is only written when false;
// the host assumes true when the field is absent.
type Emit struct {
	Command     string      `json:"command"`
	ID          MessageID   `json:"id,omitempty"`
	Stream      string      `json:"stream,omitempty"`
	Task        *int        `json:"task,omitempty"`
	Anchors     []MessageID `json:"anchors,omitempty"`
	Tuple       []any       `json:"tuple"`
	NeedTaskIDs *bool       `json:"need_task_ids,omitempty"`
}

func (e Emit) Validate() error {
	if e.Command != CommandEmit {
		return fmt.Errorf("emit has command %q", e.Command)
	}
	if e.Tuple == nil {
		return fmt.Errorf("emit missing tuple")
	}
	return nil
}

// WantsTaskIDs reports whether the host will answer this emit with a task id list.
func (e Emit) WantsTaskIDs() bool {
	if e.Task != nil {
		return false
	}
	return e.NeedTaskIDs == nil || *e.NeedTaskIDs
}

type Ack struct {
	Command string    `json:"command"`
	ID      MessageID `json:"id"`
}

func NewAck(id MessageID) Ack {
	return Ack{Command: CommandAck, ID: id}
}

type Fail struct {
	Command string    `json:"command"`
	ID      MessageID `json:"id"`
}

func NewFail(id MessageID) Fail {
	return Fail{Command: CommandFail, ID: id}
}

type Log struct {
	Command string   `json:"command"`
	Msg     string   `json:"msg"`
	Level   LogLevel `json:"level"`
}

func NewLog(level LogLevel, msg string) Log {
	return Log{Command: CommandLog, Msg: msg, Level: level}
}

type Error struct {
	Command string `json:"command"`
	Msg     string `json:"msg"`
}

func NewError(msg string) Error {
	return Error{Command: CommandError, Msg: msg}
}

type Sync struct {
	Command string `json:"command"`
}

func NewSync() Sync {
	return Sync{Command: CommandSync}
}

type Metrics struct {
	Command string `json:"command"`
	Name    string `json:"name"`
	Params  any    `json:"params"`
}

func NewMetrics(name string, params any) Metrics {
	return Metrics{Command: CommandMetrics, Name: name, Params: params}
}
