// Package followup is the post-layer rewriter (R in spec.md section
// 4.5). Its geometric details (space-filling curve generation for
// solid infill above an arc patch) are explicitly outside the hard
// core of the specification; this package fixes the interface P/X
// hand a Rewriter so a concrete implementation can be plugged in
// later without touching the planner or emitter.
package followup

import "github.com/arcoverhang/arcoverhang/pkg/geometry"

// Directive describes one region of influence an arc patch leaves
// behind for the layers printed above it.
type Directive struct {
	ZRange      [2]float64
	Footprint   geometry.Polygon
	Fan         float64
	SpeedFactor float64
}

// Rewriter consumes the directives P/X produce and rewrites the
// solid-infill segments of any layer whose Z falls within a
// directive's ZRange and whose footprint overlaps Footprint.
type Rewriter interface {
	Apply(directives []Directive) error
}

// NoopRewriter is the default Rewriter: it records the directives it
// would have acted on without mutating anything, so the rest of the
// pipeline can run end to end before a real space-filling-curve
// rewriter exists.
type NoopRewriter struct {
	Applied []Directive
}

func (r *NoopRewriter) Apply(directives []Directive) error {
	r.Applied = append(r.Applied, directives...)
	return nil
}
