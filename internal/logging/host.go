package logging

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/danmuck/stormlang/internal/protocol/message"
	"github.com/rs/zerolog"
)

// Sender is the outbound half of a host channel.
type Sender interface {
	Send(msg any) error
}

// HostWriter forwards zerolog records to the host as log commands, so they
// land in the host's worker log rather than on the worker's stderr.
type HostWriter struct {
	out Sender
}

var _ zerolog.LevelWriter = HostWriter{}

func NewHostWriter(out Sender) HostWriter {
	return HostWriter{out: out}
}

// NewHostLogger returns a JSON zerolog logger that writes through the host.
func NewHostLogger(out Sender, component string) zerolog.Logger {
	return zerolog.New(NewHostWriter(out)).With().Str("component", component).Logger()
}

func (w HostWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.NoLevel, p)
}

func (w HostWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if err := w.out.Send(message.NewLog(HostLevel(level), renderRecord(p))); err != nil {
		return 0, err
	}
	return len(p), nil
}

// HostLevel maps a zerolog level onto the host's five log levels.
func HostLevel(level zerolog.Level) message.LogLevel {
	switch {
	case level == zerolog.TraceLevel:
		return message.LogTrace
	case level == zerolog.DebugLevel:
		return message.LogDebug
	case level == zerolog.WarnLevel:
		return message.LogWarn
	case level >= zerolog.ErrorLevel && level <= zerolog.PanicLevel:
		return message.LogError
	default:
		return message.LogInfo
	}
}

// renderRecord flattens one JSON record into "message key=value ...".
func renderRecord(p []byte) string {
	var fields map[string]any
	if err := json.Unmarshal(p, &fields); err != nil {
		return strings.TrimRight(string(p), "\n")
	}
	msg, _ := fields[zerolog.MessageFieldName].(string)
	delete(fields, zerolog.MessageFieldName)
	delete(fields, zerolog.LevelFieldName)
	delete(fields, zerolog.TimestampFieldName)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(msg)
	for _, k := range keys {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%v", k, fields[k])
	}
	return b.String()
}
