package gcode

import (
	"io"
	"strings"
)

// Sink receives the emitted program one line at a time, without the
// line terminator. Writing to a sink cannot fail: the emitter only
// appends to in-memory sequences, and delivery to files or devices
// happens after generation completes.
type Sink interface {
	WriteLine(line string)
}

// Buffer is the standard in-memory sink. It records lines in order and
// renders the finished program with the protocol line terminator.
type Buffer struct {
	lines []string
}

// WriteLine appends one line.
func (b *Buffer) WriteLine(line string) {
	b.lines = append(b.lines, line)
}

// Lines returns a copy of the recorded lines.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Len returns the number of recorded lines.
func (b *Buffer) Len() int {
	return len(b.lines)
}

// String renders the program with every line terminated by CRLF.
func (b *Buffer) String() string {
	var sb strings.Builder
	for _, line := range b.lines {
		sb.WriteString(line)
		sb.WriteString(LineTerminator)
	}
	return sb.String()
}

// WriteTo writes the terminated program to w.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(line string)

// WriteLine calls f(line).
func (f SinkFunc) WriteLine(line string) {
	f(line)
}
