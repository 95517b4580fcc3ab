package raster

import "fmt"

// MalformedInputError reports a raster that violates the rectangular
// precondition: ragged rows or zero dimensions. It is returned before
// any scanning begins.
type MalformedInputError struct {
	Reason string
	Row    int // offending row for ragged input, 0 otherwise
}

func (e *MalformedInputError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("raster: malformed input at row %d: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("raster: malformed input: %s", e.Reason)
}
