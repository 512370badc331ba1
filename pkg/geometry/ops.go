package geometry

import (
	"math"
	"sort"
)

// DistancePointToLineString returns the shortest distance from pt to
// any segment of ls, or +Inf for an empty linestring.
func DistancePointToLineString(pt Point, ls LineString) float64 {
	return distancePointLineString(pt, ls)
}

// DistancePointToRing returns the shortest distance from pt to the
// ring's boundary (treated as a closed curve).
func DistancePointToRing(pt Point, r Ring) float64 {
	if len(r) == 0 {
		return math.Inf(1)
	}
	closed := append(append(LineString{}, r...), r[0])
	return distancePointLineString(pt, closed)
}

// DistancePointToBoundary returns the shortest distance from pt to any
// ring of the polygon's boundary (outer ring or holes).
func DistancePointToBoundary(pt Point, p Polygon) float64 {
	best := DistancePointToRing(pt, p.Outer)
	for _, h := range p.Holes {
		if d := DistancePointToRing(pt, h); d < best {
			best = d
		}
	}
	return best
}

// NearestPoint returns the point on curve closest to pt.
func NearestPoint(curve LineString, pt Point) Point {
	if len(curve) == 0 {
		return pt
	}
	if len(curve) == 1 {
		return curve[0]
	}
	best := curve[0]
	bestDist := math.Inf(1)
	for i := 1; i < len(curve); i++ {
		cand := nearestPointOnSegment(pt, curve[i-1], curve[i])
		if d := Distance(pt, cand); d < bestDist {
			bestDist = d
			best = cand
		}
	}
	return best
}

// FarthestPoint finds the point on curve farthest from the boundary of
// refPoly (spec.md section 4.3.1: "the point of f maximizing distance
// to boundary(Q) \ anchor"). When several vertices of curve tie within
// Epsilon of the maximum distance, the deterministic tie-break of
// spec.md section 4.3.5 applies: smaller X, then smaller Y.
func FarthestPoint(curve LineString, refPoly Polygon) (Point, float64) {
	return farthestPointBy(curve, func(p Point) float64 { return DistancePointToBoundary(p, refPoly) })
}

// FarthestPointExcluding is FarthestPoint, but distance is measured
// against boundary(refPoly) with the exclude sub-curve removed first,
// implementing spec.md section 4.3.1's "boundary(Q) \ anchor" literally
// rather than against the whole boundary (which would score every
// anchor point ~0 and make "farthest" meaningless on the seeding
// frontier). If exclude covers the entire boundary, as for an
// island-bridge anchor (spec.md section 8, "Anchor that is a full
// circle"), falls back to the unfiltered boundary since there is
// nothing left to measure against.
func FarthestPointExcluding(curve LineString, refPoly Polygon, exclude LineString) (Point, float64) {
	if exclude.IsEmpty() {
		return FarthestPoint(curve, refPoly)
	}
	return farthestPointBy(curve, func(p Point) float64 { return DistanceToBoundaryExcluding(p, refPoly, exclude) })
}

// DistanceToBoundaryExcluding returns the shortest distance from pt to
// any edge of refPoly's boundary that is not part of exclude, the same
// endpoint-proximity filtering region.Extract's sharedBoundarySegment
// uses to isolate an anchor from the rest of a boundary. Falls back to
// the unfiltered boundary distance when exclude swallows every edge.
func DistanceToBoundaryExcluding(pt Point, refPoly Polygon, exclude LineString) float64 {
	best := math.Inf(1)
	any := false
	for _, ring := range Boundary(refPoly) {
		for i := 1; i < len(ring); i++ {
			a, b := ring[i-1], ring[i]
			if pointNearCurve(a, exclude) && pointNearCurve(b, exclude) {
				continue
			}
			any = true
			if d := distancePointSegment(pt, a, b); d < best {
				best = d
			}
		}
	}
	if !any {
		return DistancePointToBoundary(pt, refPoly)
	}
	return best
}

func pointNearCurve(p Point, curve LineString) bool {
	for _, c := range curve {
		if Distance(p, c) <= Epsilon*10 {
			return true
		}
	}
	return false
}

func farthestPointBy(curve LineString, distTo func(Point) float64) (Point, float64) {
	if len(curve) == 0 {
		return Point{}, 0
	}
	type candidate struct {
		pt   Point
		dist float64
	}
	cands := make([]candidate, len(curve))
	for i, p := range curve {
		cands[i] = candidate{pt: p, dist: distTo(p)}
	}
	sort.Slice(cands, func(i, j int) bool {
		if math.Abs(cands[i].dist-cands[j].dist) > Epsilon {
			return cands[i].dist > cands[j].dist
		}
		if cands[i].pt.X != cands[j].pt.X {
			return cands[i].pt.X < cands[j].pt.X
		}
		return cands[i].pt.Y < cands[j].pt.Y
	})
	best := cands[0]
	// Re-apply the tie-break explicitly among everything within Epsilon
	// of the winning distance, in case sort's pivoting picked a
	// non-deterministic ordering among equal distances.
	tied := []candidate{best}
	for _, c := range cands[1:] {
		if math.Abs(c.dist-best.dist) <= Epsilon {
			tied = append(tied, c)
		}
	}
	sort.Slice(tied, func(i, j int) bool {
		if tied[i].pt.X != tied[j].pt.X {
			return tied[i].pt.X < tied[j].pt.X
		}
		return tied[i].pt.Y < tied[j].pt.Y
	})
	return tied[0].pt, tied[0].dist
}

// MoveToward returns the point obtained by moving start by dist toward
// target, matching the original's move_toward_point helper used to
// nudge a candidate center by arc_center_offset.
func MoveToward(start, target Point, dist float64) Point {
	dir := target.Sub(start)
	length := dir.Length()
	if length < Epsilon {
		return start
	}
	return start.Add(dir.Mul(dist / length))
}
