// Package planner implements the arc planner (P in spec.md section 2):
// given a bridge region's footprint and anchor boundary, it grows
// concentric arcs outward from the anchor until the region is covered
// or growth hits its configured limits (spec.md section 4.3).
package planner

import (
	"context"
	"math"
	"sort"

	"github.com/arcoverhang/arcoverhang/pkg/geometry"
	"github.com/arcoverhang/arcoverhang/pkg/region"
)

// Config holds the tunables the planner and emitter share, named after
// the original's parameter dictionary (arc_width, r_min, r_max, and so
// on) but expressed as Go struct fields.
type Config struct {
	ArcWidth                 float64
	RMin                     float64
	RMax                     float64
	ArcCenterOffset          float64
	ExtendArcsIntoPerimeter  float64
	MaxDistanceFromPerimeter float64
	MinBridgeArea            float64
	MinBridgeLength          float64
	UseLeastCenterPoints     bool
	AngularStep              float64
	ArcFeedrate              float64
	ArcTemperature           float64
	ArcFan                   float64
	FollowupFan              float64
	FollowupSpeedFactor      float64
}

// KinematicProfile carries the feedrate/fan/temperature overrides the
// emitter brackets the patch with (spec.md section 4.4).
type KinematicProfile struct {
	Feedrate    float64
	Fan         float64
	Temperature float64 // 0 means no override
}

// ArcPlan is the planner's output: an ordered list of arcs in print
// order (breadth-first across frontiers, radius-ascending within a
// center, per spec.md section 4.3.4), plus the point X should travel
// to before the first arc.
type ArcPlan struct {
	Arcs       []geometry.Arc
	StartPoint geometry.Point
	Profile    KinematicProfile
}

// RegionRejectedError reports a region that cannot be planned at all
// (bad config or degenerate anchor), distinct from a region that is
// merely left partially uncovered.
type RegionRejectedError struct{ Reason string }

func (e *RegionRejectedError) Error() string { return "region rejected: " + e.Reason }

// GeometryDegenerateError reports a geometric operation collapsing
// into something unusable (e.g. a self-intersecting offset).
type GeometryDegenerateError struct{ Reason string }

func (e *GeometryDegenerateError) Error() string { return "degenerate geometry: " + e.Reason }

// TimeoutError reports the per-region wall-clock budget being
// exceeded (spec.md section 5).
type TimeoutError struct{}

func (e *TimeoutError) Error() string { return "planning timed out" }

// Plan grows concentric arcs across reg's footprint starting from its
// anchor, following the frontier procedure of spec.md section 4.3.
func Plan(ctx context.Context, reg region.BridgeRegion, cfg Config) (ArcPlan, error) {
	if cfg.RMin > cfg.RMax {
		return ArcPlan{}, &RegionRejectedError{Reason: "r_min greater than r_max"}
	}
	if reg.Anchor.IsEmpty() || reg.Anchor.Length() < geometry.Epsilon {
		return ArcPlan{}, &RegionRejectedError{Reason: "anchor has zero length"}
	}

	q := reg.Polygon
	if q.IsEmpty() {
		return ArcPlan{}, &RegionRejectedError{Reason: "empty region polygon"}
	}

	angularStep := cfg.AngularStep
	if angularStep <= 0 {
		angularStep = math.Pi / 180
	}

	covered := geometry.Polygon{}
	frontier := []geometry.LineString{reg.Anchor}
	var arcs []geometry.Arc
	startPoint := reg.Anchor[0]

	var lastCenter geometry.Point
	var lastRadius float64
	haveLastCenter := false

	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return ArcPlan{}, &TimeoutError{}
		}

		f := frontier[0]
		frontier = frontier[1:]

		remaining := subtract(q, covered)
		if remaining.IsEmpty() || isNearPerimeter(remaining, q, cfg.MaxDistanceFromPerimeter) {
			continue
		}

		center := selectCenter(f, reg.Anchor, q, cfg.ArcCenterOffset)
		startRadius := cfg.RMin
		if cfg.UseLeastCenterPoints && haveLastCenter && lastRadius+cfg.ArcWidth <= cfg.RMax {
			center = lastCenter
			startRadius = lastRadius + cfg.ArcWidth
		}

		bestRadius := -1.0
		for r := startRadius; r <= cfg.RMax; r += cfg.ArcWidth {
			ring := geometry.FullCircle(center, r, angularStep)
			if circleLeavesRegion(ring, q) {
				break
			}
			if fullyCovered(ring, covered) {
				continue
			}
			bestRadius = r
		}
		if bestRadius < 0 {
			continue
		}

		newArcs := clipCircleToUncovered(center, bestRadius, q, covered, angularStep)
		if len(newArcs) == 0 {
			continue
		}

		lastCenter = center
		lastRadius = bestRadius
		haveLastCenter = true

		var patchPolys []geometry.Polygon
		if !covered.IsEmpty() {
			patchPolys = append(patchPolys, covered)
		}
		for _, arc := range newArcs {
			arcs = append(arcs, arc)
			path := geometry.PointsOnArc(arc, angularStep)
			patchPolys = append(patchPolys, geometry.BufferLineString(path, cfg.ArcWidth/2))
			frontier = append(frontier, path)
		}
		merged := geometry.Union(patchPolys...)
		covered = largestOf(merged)
	}

	return ArcPlan{
		Arcs:       arcs,
		StartPoint: startPoint,
		Profile: KinematicProfile{
			Feedrate:    cfg.ArcFeedrate,
			Fan:         cfg.ArcFan,
			Temperature: cfg.ArcTemperature,
		},
	}, nil
}

func subtract(q, covered geometry.Polygon) geometry.Polygon {
	if covered.IsEmpty() {
		return q
	}
	diff := geometry.Difference(q, covered)
	return largestOf(diff)
}

func largestOf(polys []geometry.Polygon) geometry.Polygon {
	if len(polys) == 0 {
		return geometry.Polygon{}
	}
	best := polys[0]
	for _, p := range polys[1:] {
		if p.Area() > best.Area() {
			best = p
		}
	}
	return best
}

// isNearPerimeter holds when every point of remaining already lies
// within max_distance_from_perimeter of Q's boundary, the global
// termination condition of spec.md section 4.3.3. Every vertex of
// remaining's own ring sits on boundary(Q) or on the interior boundary
// it shares with covered, so sampling just those vertices would always
// read as "near the perimeter" on the very first pass; the check must
// instead sample remaining's interior, where the true residual
// distance from boundary(Q) is largest.
func isNearPerimeter(remaining, q geometry.Polygon, maxDist float64) bool {
	if remaining.IsEmpty() {
		return true
	}
	if maxDist <= 0 {
		return remaining.Area() < geometry.Epsilon
	}

	step := maxDist / 2
	bb := remaining.Bounds()
	sampled := false
	for x := bb.Min.X; x <= bb.Max.X+step; x += step {
		for y := bb.Min.Y; y <= bb.Max.Y+step; y += step {
			pt := geometry.NewPoint(x, y)
			if !geometry.Contains(remaining, pt) {
				continue
			}
			sampled = true
			if geometry.DistancePointToBoundary(pt, q) > maxDist {
				return false
			}
		}
	}
	if sampled {
		return true
	}

	// remaining is thinner than the sampling grid (a sliver smaller
	// than step in every direction); its vertices bound the true
	// interior distance from above, so they are a safe fallback.
	for _, pt := range remaining.Outer {
		if geometry.DistancePointToBoundary(pt, q) > maxDist {
			return false
		}
	}
	return true
}

// selectCenter picks the point of f farthest from boundary(Q) \ anchor
// (spec.md section 4.3.1/4.3.2 step 1, tie-broken by
// geometry.FarthestPointExcluding) and biases it outward along the
// approximate inward normal by offset. Excluding the anchor matters
// because the anchor is itself part of boundary(Q): without excluding
// it, every point on the seeding frontier would score ~0 and "farthest"
// would degenerate into the bare tie-break.
func selectCenter(f, anchor geometry.LineString, q geometry.Polygon, offset float64) geometry.Point {
	p, _ := geometry.FarthestPointExcluding(f, q, anchor)
	if offset == 0 {
		return p
	}
	centroid := centroidOf(q.Outer)
	dir := centroid.Sub(p)
	normalized := dir.Normalized()
	return geometry.NewPoint(p.X+normalized.X*offset, p.Y+normalized.Y*offset)
}

func centroidOf(r geometry.Ring) geometry.Point {
	if len(r) == 0 {
		return geometry.Point{}
	}
	var sx, sy float64
	for _, pt := range r {
		sx += pt.X
		sy += pt.Y
	}
	n := float64(len(r))
	return geometry.NewPoint(sx/n, sy/n)
}

// circleLeavesRegion holds once a candidate radius's full circle no
// longer touches Q at all, the true "the arc would exit the region"
// stop condition of spec.md section 4.3.2 step 2. A center seeded from
// the anchor sits on boundary(Q) by construction, so its circle is
// partly outside Q at every radius; that alone must not stop growth —
// clipCircleToUncovered below keeps only the spans that do lie in
// Q \ C. Growth only truly needs to stop once the whole circle has
// moved past the region's far edge.
func circleLeavesRegion(ring geometry.Ring, q geometry.Polygon) bool {
	for _, pt := range ring {
		if geometry.Contains(q, pt) {
			return false
		}
	}
	return true
}

func fullyCovered(ring geometry.Ring, covered geometry.Polygon) bool {
	if covered.IsEmpty() {
		return false
	}
	for _, pt := range ring {
		if !geometry.Contains(covered, pt) {
			return false
		}
	}
	return true
}

// clipCircleToUncovered samples the full circle at (center, radius)
// and splits it into the contiguous angular spans that lie in Q but
// not in covered, emitting one Arc per span in increasing start-angle
// order (spec.md section 4.3.3 and 4.3.5).
func clipCircleToUncovered(center geometry.Point, radius float64, q, covered geometry.Polygon, angularStep float64) []geometry.Arc {
	n := int(math.Ceil(2 * math.Pi / angularStep))
	if n < 16 {
		n = 16
	}
	angles := make([]float64, n)
	inside := make([]bool, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		angles[i] = theta
		pt := geometry.Point{X: center.X + radius*math.Cos(theta), Y: center.Y + radius*math.Sin(theta)}
		inside[i] = geometry.Contains(q, pt) && !(!covered.IsEmpty() && geometry.Contains(covered, pt))
	}

	spans := contiguousSpans(inside)
	var arcs []geometry.Arc
	for _, sp := range spans {
		if sp.length < 2 {
			continue
		}
		start := angles[sp.start]
		end := angles[(sp.start+sp.length-1)%n]
		if sp.length == n {
			start, end = 0, 2*math.Pi
		}
		arcs = append(arcs, geometry.Arc{
			Center:     center,
			Radius:     radius,
			StartAngle: start,
			EndAngle:   end,
			Clockwise:  false,
		})
	}
	sort.Slice(arcs, func(i, j int) bool { return arcs[i].StartAngle < arcs[j].StartAngle })
	return arcs
}

type span struct{ start, length int }

// contiguousSpans finds runs of true values in a circular boolean
// array, merging a run that wraps from the end back to the start.
func contiguousSpans(inside []bool) []span {
	n := len(inside)
	visited := make([]bool, n)
	var spans []span
	for i := 0; i < n; i++ {
		if !inside[i] || visited[i] {
			continue
		}
		start := i
		length := 0
		j := i
		for inside[j] && !visited[j] {
			visited[j] = true
			length++
			j = (j + 1) % n
			if j == i {
				break
			}
		}
		spans = append(spans, span{start: start, length: length})
	}
	if len(spans) > 1 && inside[0] && inside[n-1] {
		first := spans[0]
		last := spans[len(spans)-1]
		if first.start == 0 {
			merged := span{start: last.start, length: last.length + first.length}
			spans = append(spans[1:len(spans)-1], merged)
		}
	}
	return spans
}
