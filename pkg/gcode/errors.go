package gcode

import "fmt"

// SequenceError reports emitter methods invoked out of the required
// Begin -> moves -> End order. It is a programming-contract violation
// and carries no transient failure mode.
type SequenceError struct {
	Op    string // the offending call
	State string // emitter state at the time of the call
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("gcode: %s called while emitter is %s", e.Op, e.State)
}
