package geometry

import "math"

// Arc is a circular arc: center, radius, and the angular interval it
// sweeps (radians, measured counter-clockwise from +X unless Clockwise
// is set). Invariant (spec.md section 3): Radius is expected to already
// lie within the planner's configured [r_min, r_max] bounds by the time
// an Arc is emitted; this package does not enforce that itself since it
// has no notion of planner configuration.
type Arc struct {
	Center     Point
	Radius     float64
	StartAngle float64
	EndAngle   float64
	Clockwise  bool
}

// SweptAngle returns the positive angular distance traveled from
// StartAngle to EndAngle in the arc's direction.
func (a Arc) SweptAngle() float64 {
	d := a.EndAngle - a.StartAngle
	if a.Clockwise {
		d = -d
	}
	for d < 0 {
		d += 2 * math.Pi
	}
	for d > 2*math.Pi+Epsilon {
		d -= 2 * math.Pi
	}
	return d
}

// PointAt returns the point on the arc's full circle at angle theta
// (radians, standard orientation, independent of Clockwise/direction).
func (a Arc) PointAt(theta float64) Point {
	return Point{
		X: a.Center.X + a.Radius*math.Cos(theta),
		Y: a.Center.Y + a.Radius*math.Sin(theta),
	}
}

// PointsOnArc discretizes an arc into a polyline at the given angular
// step (radians), per spec.md section 4.4's "fixed angular resolution".
// The first and last points always coincide with StartAngle/EndAngle.
func PointsOnArc(a Arc, angularStep float64) LineString {
	if angularStep <= 0 {
		angularStep = math.Pi / 180
	}
	swept := a.SweptAngle()
	n := int(math.Ceil(swept / angularStep))
	if n < 1 {
		n = 1
	}
	pts := make(LineString, 0, n+1)
	dir := 1.0
	if a.Clockwise {
		dir = -1.0
	}
	for i := 0; i <= n; i++ {
		theta := a.StartAngle + dir*swept*float64(i)/float64(n)
		pts = append(pts, a.PointAt(theta))
	}
	return pts
}

// FullCircle returns the closed ring approximating a complete circle
// of the given radius centered at center, at the given angular step.
func FullCircle(center Point, radius, angularStep float64) Ring {
	if angularStep <= 0 {
		angularStep = math.Pi / 180
	}
	n := int(math.Ceil(2 * math.Pi / angularStep))
	if n < 8 {
		n = 8
	}
	ring := make(Ring, 0, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		ring = append(ring, Point{
			X: center.X + radius*math.Cos(theta),
			Y: center.Y + radius*math.Sin(theta),
		})
	}
	return ring
}

// AngleOf returns the angle (radians, standard orientation) of pt as
// seen from center.
func AngleOf(center, pt Point) float64 {
	d := pt.Sub(center)
	return math.Atan2(d.Y, d.X)
}
