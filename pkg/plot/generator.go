// Package plot turns a binary raster into a complete plotter program.
//
// It is the orchestrator between the scanline vectorizer (pkg/scan)
// and the motion emitter (pkg/gcode): every detected run becomes one
// touch-down target at its first pixel and one draw target at its
// last pixel.
package plot

import (
	"rembot-host/pkg/gcode"
	"rembot-host/pkg/log"
	"rembot-host/pkg/raster"
	"rembot-host/pkg/scan"
)

// Options configures program generation. Heights are in the machine's
// native units; raster coordinates are written as-is (pixel columns
// and rows), matching the device's existing calibration.
type Options struct {
	// SafetyHeight is the tool-up height used for retraction.
	SafetyHeight float64

	// TouchDownHeight is the tool height written at the start of
	// every stroke.
	TouchDownHeight float64

	// DrawHeight is the tool height written at the end of every
	// stroke. Note the shipped device profile uses 0 for touch-down
	// and 1 for both draw and safety; the heights are kept as three
	// independent settings rather than normalized.
	DrawHeight float64

	// FeedRate, when positive, is attached to the touch-down target
	// of each stroke. Field dedup collapses it to a single F word in
	// the program.
	FeedRate float64

	// PreScript and PostScript are written verbatim around the
	// program.
	PreScript  string
	PostScript string

	// Accepted for compatibility with existing device profiles.
	// They are stored but never applied to emitted coordinates.
	PixelSize float64
	PixelStep float64
	SplitStep float64
	XOffset   float64
	YOffset   float64
}

// DefaultOptions returns the shipped device profile.
func DefaultOptions() Options {
	return Options{
		SafetyHeight:    1,
		TouchDownHeight: 0,
		DrawHeight:      1,
	}
}

// Result is a finished program.
type Result struct {
	// Lines is the ordered program, one instruction per entry,
	// without line terminators.
	Lines []string

	// Runs is the number of strokes extracted from the raster.
	Runs int
}

// Program renders the result with the protocol line terminator.
func (r *Result) Program() string {
	var b gcode.Buffer
	for _, line := range r.Lines {
		b.WriteLine(line)
	}
	return b.String()
}

// Generator produces the program for one raster. A generator is
// single-use and single-threaded; independent generators may run in
// parallel, one per image.
type Generator struct {
	r      *raster.Raster
	opts   Options
	logger *log.Logger
}

// NewGenerator creates a generator for the given raster.
func NewGenerator(r *raster.Raster, opts Options) *Generator {
	return &Generator{
		r:      r,
		opts:   opts,
		logger: log.GetLogger("plot"),
	}
}

// Generate runs the vectorizer over the raster and emits the full
// program. The work is bounded by rows x cols and performs no I/O.
func (g *Generator) Generate() (*Result, error) {
	var buf gcode.Buffer
	em := gcode.NewEmitter(&buf, gcode.Options{
		SafetyHeight: g.opts.SafetyHeight,
		PreScript:    g.opts.PreScript,
		PostScript:   g.opts.PostScript,
	})

	if err := em.Begin(); err != nil {
		return nil, err
	}

	runs := 0
	sc := scan.NewScanner(g.r)
	for sc.Next() {
		run := sc.Run()
		start, end := g.targets(run)
		if err := em.MoveDraw(start); err != nil {
			return nil, err
		}
		if err := em.MoveDraw(end); err != nil {
			return nil, err
		}
		runs++
	}

	if err := em.End(); err != nil {
		return nil, err
	}

	res := &Result{Lines: buf.Lines(), Runs: runs}
	g.logger.Debug("generated program: %d runs, %d lines (%dx%d raster)",
		runs, len(res.Lines), g.r.Rows(), g.r.Cols())
	return res, nil
}

// targets converts one run into its touch-down and draw targets.
func (g *Generator) targets(run scan.Run) (start, end gcode.Target) {
	start = gcode.Target{
		X: gcode.Value(float64(run.Start)),
		Y: gcode.Value(float64(run.Row)),
		Z: gcode.Value(g.opts.TouchDownHeight),
	}
	if g.opts.FeedRate > 0 {
		start.F = gcode.Value(g.opts.FeedRate)
	}
	end = gcode.Target{
		X: gcode.Value(float64(run.End)),
		Y: gcode.Value(float64(run.Row)),
		Z: gcode.Value(g.opts.DrawHeight),
	}
	return start, end
}
