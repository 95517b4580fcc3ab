// Package sender streams a finished program to the plotter.
//
// The rembot controller acknowledges every line with "ok" before it
// accepts the next one, so the sender writes one line, waits for the
// ack, and reports progress as it goes.
package sender

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"rembot-host/pkg/gcode"
	"rembot-host/pkg/log"
	"rembot-host/pkg/serial"
)

// Progress describes delivery state after each acknowledged line.
type Progress struct {
	Sent  int
	Total int
	Line  string
}

// Options configures a Sender.
type Options struct {
	// AckTimeout bounds the wait for each line's acknowledgement
	// (default 30 seconds; the plotter may take that long to finish
	// a long stroke before acking).
	AckTimeout time.Duration

	// OnProgress, when set, is called after every acknowledged line.
	OnProgress func(Progress)
}

// DeviceError reports a fault response from the controller.
type DeviceError struct {
	Line     string // the line that was being sent
	Response string // the controller's fault response
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("sender: device rejected %q: %s", e.Line, e.Response)
}

// Sender delivers program lines over an open device link.
type Sender struct {
	dev    io.ReadWriter
	opts   Options
	logger *log.Logger

	// partial response data carried between reads
	pending []byte
}

// New creates a sender over the given device link (normally a
// *serial.Port, anything read/writable in tests).
func New(dev io.ReadWriter, opts Options) *Sender {
	if opts.AckTimeout == 0 {
		opts.AckTimeout = 30 * time.Second
	}
	return &Sender{
		dev:    dev,
		opts:   opts,
		logger: log.GetLogger("sender"),
	}
}

// Send streams all lines in order, waiting for the controller's "ok"
// after each. It stops at the first fault response or when ctx is
// cancelled.
func (s *Sender) Send(ctx context.Context, lines []string) error {
	total := len(lines)
	for i, line := range lines {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if _, err := io.WriteString(s.dev, line+gcode.LineTerminator); err != nil {
			return fmt.Errorf("sender: write line %d: %w", i+1, err)
		}
		if err := s.waitAck(ctx, line); err != nil {
			return err
		}
		if s.opts.OnProgress != nil {
			s.opts.OnProgress(Progress{Sent: i + 1, Total: total, Line: line})
		}
	}
	return nil
}

// waitAck reads controller responses until an "ok" arrives. Fault
// responses abort; anything else is status chatter and is only logged.
func (s *Sender) waitAck(ctx context.Context, sent string) error {
	deadline := time.Now().Add(s.opts.AckTimeout)
	buf := make([]byte, 256)

	for {
		for {
			resp, ok := s.nextResponse()
			if !ok {
				break
			}
			switch {
			case resp == "ok" || strings.HasPrefix(resp, "ok "):
				return nil
			case strings.HasPrefix(resp, "error") || strings.HasPrefix(resp, "!!"):
				return &DeviceError{Line: sent, Response: resp}
			default:
				s.logger.Debug("device: %s", resp)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("sender: no ack for %q within %s", sent, s.opts.AckTimeout)
		}

		n, err := s.dev.Read(buf)
		if err != nil {
			if errors.Is(err, serial.ErrTimeout) {
				continue
			}
			return fmt.Errorf("sender: read ack: %w", err)
		}
		s.pending = append(s.pending, buf[:n]...)
	}
}

// nextResponse pops one complete newline-terminated response from the
// pending buffer.
func (s *Sender) nextResponse() (string, bool) {
	for {
		i := bytes.IndexByte(s.pending, '\n')
		if i < 0 {
			return "", false
		}
		resp := strings.TrimSpace(string(s.pending[:i]))
		s.pending = s.pending[i+1:]
		if resp != "" {
			return resp, true
		}
	}
}
