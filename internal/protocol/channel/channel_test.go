package channel

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/danmuck/stormlang/internal/testutil/testlog"
	"github.com/rs/zerolog"
)

type command struct {
	Command string `json:"command"`
	ID      string `json:"id,omitempty"`
}

type strictCommand struct {
	Command string `json:"command"`
}

func (c strictCommand) Validate() error {
	if c.Command == "" {
		return errors.New("missing command")
	}
	return nil
}

var errBroken = errors.New("broken decoder")

type brokenMessage struct{}

func (*brokenMessage) UnmarshalJSON([]byte) error {
	return errBroken
}

func newTestChannel(t *testing.T, input string) (*Channel, *bytes.Buffer) {
	t.Helper()
	logger := testlog.Start(t)
	var out bytes.Buffer
	return New(strings.NewReader(input), &out, logger, DefaultLimits()), &out
}

func TestReadFrameDropsBlankLinesAndSentinel(t *testing.T) {
	testlog.Start(t)
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "single line", input: "{\"a\":1}\nend\n", want: "{\"a\":1}\n"},
		{name: "multi line", input: "{\n\"a\": 1\n}\nend\n", want: "{\n\"a\": 1\n}\n"},
		{name: "interleaved blanks", input: "\n{\n\n   \n\"a\": 1\n\t\n}\nend\n", want: "{\n\"a\": 1\n}\n"},
		{name: "crlf", input: "{\"a\":1}\r\n\r\nend\r\n", want: "{\"a\":1}\n"},
		{name: "empty frame", input: "end\n", want: ""},
		{name: "blank only frame", input: "\n  \nend\n", want: ""},
		{name: "padded sentinel is payload", input: " end\nend\n", want: " end\n"},
		{name: "unterminated sentinel", input: "[1]\nend", want: "[1]\n"},
	}
	for _, tt := range tests {
		got, err := readFrame(bufio.NewReader(strings.NewReader(tt.input)), DefaultLimits())
		if err != nil {
			t.Fatalf("%s: read frame: %v", tt.name, err)
		}
		if got != tt.want {
			t.Fatalf("%s: got=%q want=%q", tt.name, got, tt.want)
		}
	}
}

func TestReadFrameStreamClosed(t *testing.T) {
	testlog.Start(t)
	for _, input := range []string{"", "{\"a\":1}\n", "{\"a\":1}\n\n", "{\"a\":1}"} {
		_, err := readFrame(bufio.NewReader(strings.NewReader(input)), DefaultLimits())
		if !errors.Is(err, ErrStreamClosed) {
			t.Fatalf("input %q: expected ErrStreamClosed, got %v", input, err)
		}
	}
}

func TestReadFrameOversizeConsumesToSentinel(t *testing.T) {
	testlog.Start(t)
	r := bufio.NewReader(strings.NewReader("0123456789\n0123456789\nend\n[\"1\"]\nend\n"))
	_, err := readFrame(r, Limits{MaxFrameBytes: 16})
	if !errors.Is(err, ErrFrameTooLarge) {
		t.Fatalf("expected ErrFrameTooLarge, got %v", err)
	}
	next, err := readFrame(r, Limits{MaxFrameBytes: 16})
	if err != nil {
		t.Fatalf("read next frame: %v", err)
	}
	if next != "[\"1\"]\n" {
		t.Fatalf("expected next frame intact, got %q", next)
	}
}

func TestReceiveTaskIDs(t *testing.T) {
	ch, _ := newTestChannel(t, "[\"1\",\"2\",\"3\"]\nend\n")
	in, err := Receive[command](ch)
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if in.Kind != KindTaskIDs {
		t.Fatalf("expected task ids, got %s", in.Kind)
	}
	want := TaskIDs{"1", "2", "3"}
	if len(in.TaskIDs) != len(want) {
		t.Fatalf("unexpected ids: %v", in.TaskIDs)
	}
	for i := range want {
		if in.TaskIDs[i] != want[i] {
			t.Fatalf("ids[%d]=%q want=%q", i, in.TaskIDs[i], want[i])
		}
	}
}

func TestReceiveArrayWinsOverExpectedType(t *testing.T) {
	ch, _ := newTestChannel(t, "  \n  [4, 7]\nend\n")
	in, err := Receive[strictCommand](ch)
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if in.Kind != KindTaskIDs {
		t.Fatalf("expected task ids, got %s", in.Kind)
	}
	if len(in.TaskIDs) != 2 || in.TaskIDs[0] != "4" || in.TaskIDs[1] != "7" {
		t.Fatalf("unexpected numeric ids: %v", in.TaskIDs)
	}
	if in.Message != (strictCommand{}) {
		t.Fatalf("message should be empty: %+v", in.Message)
	}
}

func TestReceiveTypedMessage(t *testing.T) {
	ch, _ := newTestChannel(t, "{\"command\":\"next\"}\nend\n")
	in, err := Receive[command](ch)
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if in.Kind != KindMessage {
		t.Fatalf("expected message, got %s", in.Kind)
	}
	if in.Message.Command != "next" {
		t.Fatalf("unexpected command: %+v", in.Message)
	}
}

func TestReceiveSwallowsDecodeFailures(t *testing.T) {
	testlog.Start(t)
	tests := []struct {
		name  string
		input string
	}{
		{name: "not json", input: "not json\nend\n"},
		{name: "truncated object", input: "{\"command\":\nend\n"},
		{name: "type mismatch", input: "{\"command\":5}\nend\n"},
		{name: "schema mismatch", input: "{\"other\":\"x\"}\nend\n"},
		{name: "bad task id", input: "[{\"x\":1}]\nend\n"},
		{name: "empty frame", input: "end\n"},
	}
	for _, tt := range tests {
		var logs bytes.Buffer
		ch := New(strings.NewReader(tt.input), io.Discard, zerolog.New(&logs), DefaultLimits())
		in, err := Receive[strictCommand](ch)
		if err != nil {
			t.Fatalf("%s: expected swallowed error, got %v", tt.name, err)
		}
		if in.Kind != KindNone {
			t.Fatalf("%s: expected empty result, got %s", tt.name, in.Kind)
		}
		if !strings.Contains(logs.String(), `"level":"error"`) || !strings.Contains(logs.String(), "message parsing error") {
			t.Fatalf("%s: expected error log, got %s", tt.name, logs.String())
		}
	}
}

func TestReceiveContinuesAfterDroppedFrame(t *testing.T) {
	ch, _ := newTestChannel(t, "not json\nend\n{\"command\":\"next\"}\nend\n")
	first, err := Receive[command](ch)
	if err != nil || first.Kind != KindNone {
		t.Fatalf("first frame: kind=%s err=%v", first.Kind, err)
	}
	second, err := Receive[command](ch)
	if err != nil || second.Kind != KindMessage || second.Message.Command != "next" {
		t.Fatalf("second frame: %+v err=%v", second, err)
	}
}

func TestReceiveOversizeIsRecoverable(t *testing.T) {
	logger := testlog.Start(t)
	input := "{\"command\":\"" + strings.Repeat("x", 64) + "\"}\nend\n{\"command\":\"ack\"}\nend\n"
	ch := New(strings.NewReader(input), io.Discard, logger, Limits{MaxFrameBytes: 32})
	in, err := Receive[command](ch)
	if err != nil || in.Kind != KindNone {
		t.Fatalf("oversize frame: kind=%s err=%v", in.Kind, err)
	}
	in, err = Receive[command](ch)
	if err != nil || in.Message.Command != "ack" {
		t.Fatalf("next frame: %+v err=%v", in, err)
	}
}

func TestReceiveStreamClosedIsFatal(t *testing.T) {
	testlog.Start(t)
	for _, input := range []string{"", "{\"command\":\"next\"}\n"} {
		var logs bytes.Buffer
		ch := New(strings.NewReader(input), io.Discard, zerolog.New(&logs), DefaultLimits())
		_, err := Receive[command](ch)
		if !errors.Is(err, ErrStreamClosed) {
			t.Fatalf("input %q: expected ErrStreamClosed, got %v", input, err)
		}
		if !strings.Contains(logs.String(), `"level":"debug"`) {
			t.Fatalf("input %q: expected debug log, got %s", input, logs.String())
		}
	}
}

func TestReceiveClosedPipeIsFatal(t *testing.T) {
	logger := testlog.Start(t)
	pr, pw := io.Pipe()
	ch := New(pr, io.Discard, logger, DefaultLimits())
	go func() {
		_, _ = pw.Write([]byte("{\"command\":"))
		_ = pw.Close()
	}()
	if _, err := Receive[command](ch); !errors.Is(err, ErrStreamClosed) {
		t.Fatalf("expected ErrStreamClosed, got %v", err)
	}
}

func TestReceivePropagatesUnexpectedDecoderErrors(t *testing.T) {
	ch, _ := newTestChannel(t, "{\"any\":1}\nend\n")
	_, err := Receive[brokenMessage](ch)
	if !errors.Is(err, errBroken) {
		t.Fatalf("expected decoder error to propagate, got %v", err)
	}
	if errors.Is(err, ErrStreamClosed) {
		t.Fatalf("decoder error must not look like stream closure")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("device gone")
}

func TestReceivePropagatesReadErrors(t *testing.T) {
	logger := testlog.Start(t)
	ch := New(failingReader{}, io.Discard, logger, DefaultLimits())
	_, err := Receive[command](ch)
	if err == nil || errors.Is(err, ErrStreamClosed) {
		t.Fatalf("expected non-closure read error, got %v", err)
	}
}

func TestSendWritesFramedJSON(t *testing.T) {
	ch, out := newTestChannel(t, "")
	if err := ch.Send(command{Command: "sync"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got := out.String(); got != "{\"command\":\"sync\"}\nend\n" {
		t.Fatalf("unexpected wire bytes: %q", got)
	}
}

func TestSendRejectsUnencodableMessage(t *testing.T) {
	ch, out := newTestChannel(t, "")
	if err := ch.Send(map[string]any{"bad": make(chan int)}); err == nil {
		t.Fatalf("expected encode error")
	}
	if out.Len() != 0 {
		t.Fatalf("nothing should be written on encode failure, got %q", out.String())
	}
}

func TestSendReceiveRoundTrip(t *testing.T) {
	logger := testlog.Start(t)
	var wire bytes.Buffer
	sender := New(strings.NewReader(""), &wire, logger, DefaultLimits())
	msgs := []command{
		{Command: "ack", ID: "abc"},
		{Command: "emit", ID: "multi\nline\nend\n"},
		{Command: "next"},
	}
	for _, msg := range msgs {
		if err := sender.Send(msg); err != nil {
			t.Fatalf("send %+v: %v", msg, err)
		}
	}

	receiver := New(&wire, io.Discard, logger, DefaultLimits())
	for _, want := range msgs {
		in, err := Receive[command](receiver)
		if err != nil {
			t.Fatalf("receive: %v", err)
		}
		if in.Kind != KindMessage || in.Message != want {
			t.Fatalf("round trip mismatch: got=%+v want=%+v", in.Message, want)
		}
	}
	if _, err := Receive[command](receiver); !errors.Is(err, ErrStreamClosed) {
		t.Fatalf("expected closure after last frame, got %v", err)
	}
}

func TestConcurrentSendsKeepFramesIntact(t *testing.T) {
	logger := testlog.Start(t)
	var wire bytes.Buffer
	ch := New(strings.NewReader(""), &wire, logger, DefaultLimits())

	const senders = 16
	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := ch.Send(command{Command: "log", ID: fmt.Sprintf("s%d", i)}); err != nil {
				t.Errorf("send %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	receiver := New(&wire, io.Discard, logger, DefaultLimits())
	seen := make(map[string]bool)
	for i := 0; i < senders; i++ {
		in, err := Receive[command](receiver)
		if err != nil || in.Kind != KindMessage {
			t.Fatalf("frame %d: kind=%s err=%v", i, in.Kind, err)
		}
		seen[in.Message.ID] = true
	}
	if len(seen) != senders {
		t.Fatalf("expected %d distinct frames, got %d", senders, len(seen))
	}
}
