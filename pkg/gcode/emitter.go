// Package gcode serializes absolute motion targets into the plotter's
// line-oriented G-code dialect.
//
// The emitter is stateful: it remembers the last value written for
// each axis and only re-emits fields that changed, so an unchanged
// target produces no output at all. One emitter serves exactly one
// program; it is not safe to share across concurrent generations, but
// independent emitters have no shared state.
package gcode

import (
	"fmt"
	"strings"
)

// Protocol constants. Downstream consumers match these exactly.
const (
	// MnemonicRapid is a positioning move with the tool disengaged.
	MnemonicRapid = "G0"

	// MnemonicDraw is a linear move with the tool engaged.
	MnemonicDraw = "G1"

	// originReset is written once after the pre-script to zero the
	// machine's absolute origin.
	originReset = "M90 X0.0000 Y0.0000"

	// programStop terminates the program before the post-script.
	programStop = "M100"

	// LineTerminator is appended to every line on the wire.
	LineTerminator = "\r\n"
)

// Target is one requested absolute position. A nil field means "keep
// the previous value" and is substituted from the emitter's state.
type Target struct {
	X *float64
	Y *float64
	Z *float64 // tool height
	F *float64 // feed rate
}

// Value is a convenience for building Targets from literals.
func Value(v float64) *float64 {
	return &v
}

// Options configures an Emitter.
type Options struct {
	// SafetyHeight is the tool-up height used by SafetyRetract.
	SafetyHeight float64

	// PreScript and PostScript are opaque text blocks written
	// verbatim as the first and last line of the program.
	PreScript  string
	PostScript string
}

const (
	phaseUnstarted = iota
	phaseActive
	phaseFinished
)

func phaseName(p int) string {
	switch p {
	case phaseUnstarted:
		return "unstarted"
	case phaseActive:
		return "active"
	case phaseFinished:
		return "finished"
	}
	return "unknown"
}

// axisState tracks the last emitted value per axis. A value only
// becomes comparable once it has been written at least once.
type axisState struct {
	x, y, z, f             float64
	hasX, hasY, hasZ, hasF bool
}

// Emitter turns motion targets into the program line sequence. Create
// one with NewEmitter, call Begin exactly once, then any number of
// MoveRapid/MoveDraw/SafetyRetract calls, then End exactly once.
type Emitter struct {
	sink         Sink
	opts         Options
	phase        int
	last         axisState
	lastMnemonic string
}

// NewEmitter creates an emitter writing to sink.
func NewEmitter(sink Sink, opts Options) *Emitter {
	return &Emitter{sink: sink, opts: opts}
}

// Begin writes the pre-script followed by the absolute origin reset.
func (e *Emitter) Begin() error {
	if e.phase != phaseUnstarted {
		return &SequenceError{Op: "Begin", State: phaseName(e.phase)}
	}
	e.phase = phaseActive
	e.sink.WriteLine(e.opts.PreScript)
	e.sink.WriteLine(originReset)
	return nil
}

// End writes the program stop followed by the post-script. No further
// calls are accepted afterwards.
func (e *Emitter) End() error {
	if e.phase != phaseActive {
		return &SequenceError{Op: "End", State: phaseName(e.phase)}
	}
	e.phase = phaseFinished
	e.sink.WriteLine(programStop)
	e.sink.WriteLine(e.opts.PostScript)
	return nil
}

// MoveRapid emits a non-drawing positioning instruction for the
// target. Fields unchanged since the last emission are suppressed; a
// fully unchanged target emits nothing.
func (e *Emitter) MoveRapid(t Target) error {
	return e.move(MnemonicRapid, t)
}

// MoveDraw emits a drawing positioning instruction for the target,
// with the same per-field suppression as MoveRapid.
func (e *Emitter) MoveDraw(t Target) error {
	return e.move(MnemonicDraw, t)
}

// SafetyRetract lifts the tool to the configured safety height. It is
// a policy helper for callers that travel between strokes; the
// vectorizer does not invoke it on its own.
func (e *Emitter) SafetyRetract() error {
	return e.MoveRapid(Target{Z: Value(e.opts.SafetyHeight)})
}

// LastMnemonic returns the mnemonic of the most recent instruction, or
// the empty string if none has been emitted yet.
func (e *Emitter) LastMnemonic() string {
	return e.lastMnemonic
}

// move applies the dedup rule and writes at most one line. Per field:
// a nil target value keeps the last emitted value and is never
// re-emitted; a set value is emitted only when it differs from the
// last emitted one (exact comparison, no tolerance). State always ends
// up reflecting the requested absolute position.
func (e *Emitter) move(mnemonic string, t Target) error {
	if e.phase != phaseActive {
		op := "MoveRapid"
		if mnemonic == MnemonicDraw {
			op = "MoveDraw"
		}
		return &SequenceError{Op: op, State: phaseName(e.phase)}
	}

	var b strings.Builder
	if t.X != nil && (!e.last.hasX || *t.X != e.last.x) {
		fmt.Fprintf(&b, " X%.4f", *t.X)
	}
	if t.Y != nil && (!e.last.hasY || *t.Y != e.last.y) {
		fmt.Fprintf(&b, " Y%.4f", *t.Y)
	}
	if t.Z != nil && (!e.last.hasZ || *t.Z != e.last.z) {
		fmt.Fprintf(&b, " Z%.4f", *t.Z)
	}
	if t.F != nil && (!e.last.hasF || *t.F != e.last.f) {
		fmt.Fprintf(&b, " F%.4f", *t.F)
	}

	if t.X != nil {
		e.last.x, e.last.hasX = *t.X, true
	}
	if t.Y != nil {
		e.last.y, e.last.hasY = *t.Y, true
	}
	if t.Z != nil {
		e.last.z, e.last.hasZ = *t.Z, true
	}
	if t.F != nil {
		e.last.f, e.last.hasF = *t.F, true
	}

	if b.Len() == 0 {
		// Nothing changed. A silent no-op, not an error.
		return nil
	}

	e.lastMnemonic = mnemonic
	e.sink.WriteLine(mnemonic + b.String())
	return nil
}
