package message

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	CommandNext       = "next"
	CommandAck        = "ack"
	CommandFail       = "fail"
	CommandActivate   = "activate"
	CommandDeactivate = "deactivate"
	CommandEmit       = "emit"
	CommandSync       = "sync"
	CommandLog        = "log"
	CommandError      = "error"
	CommandMetrics    = "metrics"

	HeartbeatStream = "__heartbeat"
	HeartbeatTask   = -1
)

// MessageID is a tuple or spout message id. Hosts send either JSON strings
// or numbers; both decode to the same textual id.
type MessageID string

func (id *MessageID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = MessageID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = MessageID(n.String())
	return nil
}

func (id MessageID) String() string {
	return string(id)
}

// LogLevel is the host-side log severity carried by Log.
type LogLevel int

const (
	LogTrace LogLevel = iota
	LogDebug
	LogInfo
	LogWarn
	LogError
)

func (l LogLevel) String() string {
	switch l {
	case LogTrace:
		return "trace"
	case LogDebug:
		return "debug"
	case LogInfo:
		return "info"
	case LogWarn:
		return "warn"
	case LogError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

func validID(id MessageID) bool {
	return strings.TrimSpace(string(id)) != ""
}
