// Metrics collection for the rembot host.
//
// Counters and gauges rendered in Prometheus text format, exposed by
// the monitor server's /metrics endpoint.
//
// Copyright (C) 2026  Rembot Host Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package metrics

import (
	"fmt"
	"math"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// Counter is a monotonically increasing value.
type Counter struct {
	name string
	help string
	val  atomic.Uint64 // float64 bits
}

// Inc increments the counter by 1.
func (c *Counter) Inc() {
	c.Add(1)
}

// Add increments the counter by v (v must be non-negative).
func (c *Counter) Add(v float64) {
	if v < 0 {
		return
	}
	for {
		old := c.val.Load()
		newV := math.Float64bits(math.Float64frombits(old) + v)
		if c.val.CompareAndSwap(old, newV) {
			return
		}
	}
}

// Value returns the current count.
func (c *Counter) Value() float64 {
	return math.Float64frombits(c.val.Load())
}

// Gauge is a value that can go up and down.
type Gauge struct {
	name string
	help string
	val  atomic.Uint64 // float64 bits
}

// Set sets the gauge.
func (g *Gauge) Set(v float64) {
	g.val.Store(math.Float64bits(v))
}

// Value returns the current value.
func (g *Gauge) Value() float64 {
	return math.Float64frombits(g.val.Load())
}

// Registry holds the process's metrics.
type Registry struct {
	mu       sync.Mutex
	counters map[string]*Counter
	gauges   map[string]*Gauge
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		counters: make(map[string]*Counter),
		gauges:   make(map[string]*Gauge),
	}
}

// Counter returns the named counter, creating it on first use.
func (r *Registry) Counter(name, help string) *Counter {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.counters[name]; ok {
		return c
	}
	c := &Counter{name: name, help: help}
	r.counters[name] = c
	return c
}

// Gauge returns the named gauge, creating it on first use.
func (r *Registry) Gauge(name, help string) *Gauge {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.gauges[name]; ok {
		return g
	}
	g := &Gauge{name: name, help: help}
	r.gauges[name] = g
	return g
}

// Render writes all metrics in Prometheus text format.
func (r *Registry) Render() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sb strings.Builder
	names := make([]string, 0, len(r.counters))
	for name := range r.counters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := r.counters[name]
		fmt.Fprintf(&sb, "# HELP %s %s\n", name, c.help)
		fmt.Fprintf(&sb, "# TYPE %s counter\n", name)
		fmt.Fprintf(&sb, "%s %v\n", name, c.Value())
	}

	names = names[:0]
	for name := range r.gauges {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		g := r.gauges[name]
		fmt.Fprintf(&sb, "# HELP %s %s\n", name, g.help)
		fmt.Fprintf(&sb, "# TYPE %s gauge\n", name)
		fmt.Fprintf(&sb, "%s %v\n", name, g.Value())
	}
	return sb.String()
}

// Handler returns an http.Handler serving the registry.
func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		fmt.Fprint(w, r.Render())
	})
}

// Default is the process-wide registry.
var Default = NewRegistry()
