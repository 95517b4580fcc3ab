// Package scan extracts horizontal strokes from a binary raster.
//
// The scanner walks the raster row-major and reports every maximal
// contiguous sequence of on pixels as a Run. Interior pixels of a run
// are never reported: the straight-line move between the run's start
// and end covers them, so an N-pixel run always costs two motion
// targets regardless of N.
package scan

import "rembot-host/pkg/raster"

// Run is one maximal horizontal sequence of on pixels within a single
// row. End is the column of the last on pixel; a single-pixel run has
// Start == End. Runs never span rows.
type Run struct {
	Row   int
	Start int
	End   int
}

// Len returns the run length in pixels.
func (r Run) Len() int {
	return r.End - r.Start + 1
}

// Scanner walks a raster and yields runs one at a time, in row-major
// order. It follows the bufio.Scanner idiom:
//
//	sc := scan.NewScanner(r)
//	for sc.Next() {
//		run := sc.Run()
//		...
//	}
//
// The sequence is lazy and non-restartable. A caller cancels simply by
// not calling Next again; the scanner holds no resources.
type Scanner struct {
	r   *raster.Raster
	row int
	col int
	run Run
}

// NewScanner creates a scanner over the given raster. The raster is
// already validated rectangular by package raster, so scanning cannot
// fail.
func NewScanner(r *raster.Raster) *Scanner {
	return &Scanner{r: r}
}

// Next advances to the next run. It returns false when the raster is
// exhausted.
func (s *Scanner) Next() bool {
	rows, cols := s.r.Rows(), s.r.Cols()
	for s.row < rows {
		for s.col < cols {
			if !s.r.On(s.row, s.col) {
				s.col++
				continue
			}
			start := s.col
			// Advance to the last on pixel. The lookahead uses
			// On(), which reports off past the end of the row, so
			// a run touching the last column closes cleanly.
			for s.r.On(s.row, s.col+1) {
				s.col++
			}
			s.run = Run{Row: s.row, Start: start, End: s.col}
			s.col++
			return true
		}
		s.row++
		s.col = 0
	}
	return false
}

// Run returns the run found by the last successful call to Next.
func (s *Scanner) Run() Run {
	return s.run
}

// Runs collects every run in the raster. It is a convenience for
// callers that do not need lazy iteration.
func Runs(r *raster.Raster) []Run {
	var runs []Run
	sc := NewScanner(r)
	for sc.Next() {
		runs = append(runs, sc.Run())
	}
	return runs
}
