package channel

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Sentinel terminates every frame in both directions.
const Sentinel = "end"

// Limits constrains frame accumulation memory use.
type Limits struct {
	MaxFrameBytes int
}

func DefaultLimits() Limits {
	return Limits{
		MaxFrameBytes: 8 * 1024 * 1024,
	}
}

// readFrame accumulates one payload: every non-blank line up to the sentinel,
// each followed by a line break. The sentinel itself is not part of it.
//
// An oversized frame is still consumed up to its sentinel so the next call
// starts on a frame boundary; the caller gets ErrFrameTooLarge.
func readFrame(r *bufio.Reader, limits Limits) (string, error) {
	var payload strings.Builder
	oversized := false
	for {
		line, err := readLine(r)
		if err != nil {
			return "", err
		}
		if line == Sentinel {
			break
		}
		if strings.TrimSpace(line) == "" || oversized {
			continue
		}
		if limits.MaxFrameBytes > 0 && payload.Len()+len(line)+1 > limits.MaxFrameBytes {
			oversized = true
			payload.Reset()
			continue
		}
		payload.WriteString(line)
		payload.WriteByte('\n')
	}
	if oversized {
		return "", fmt.Errorf("%w: limit %d bytes", ErrFrameTooLarge, limits.MaxFrameBytes)
	}
	return payload.String(), nil
}

// readLine returns one line without its terminator. A final unterminated
// line is returned as is; closure is reported on the following call.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if !closedStream(err) {
			return "", fmt.Errorf("channel: read failed: %w", err)
		}
		if line == "" {
			return "", ErrStreamClosed
		}
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

func closedStream(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, os.ErrClosed)
}
