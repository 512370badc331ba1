// Package geometry provides the 2D geometry kernel the arc planner is
// built on: points, polygons, linestrings, arcs, and the boolean,
// buffering, and distance operations the rest of the pipeline needs.
package geometry

import "math"

// Epsilon is the numerical tolerance used throughout the kernel for
// "touching" comparisons (coincident points, boundary contact).
const Epsilon = 1e-6

// Point is a 2D coordinate in millimeters.
type Point struct {
	X, Y float64
}

// NewPoint creates a new 2D point.
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points treated as vectors.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference between two points treated as vectors.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Mul scales the point by a scalar.
func (p Point) Mul(scalar float64) Point {
	return Point{X: p.X * scalar, Y: p.Y * scalar}
}

// Dot returns the dot product of two points treated as vectors.
func (p Point) Dot(other Point) float64 {
	return p.X*other.X + p.Y*other.Y
}

// Length returns the magnitude of the point treated as a vector.
func (p Point) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// Normalized returns a unit vector in the same direction, or the zero
// vector if p has zero length.
func (p Point) Normalized() Point {
	l := p.Length()
	if l < Epsilon {
		return Point{}
	}
	return Point{X: p.X / l, Y: p.Y / l}
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return a.Sub(b).Length()
}

// Equal reports whether two points are within Epsilon of each other.
func Equal(a, b Point) bool {
	return Distance(a, b) < Epsilon
}

// Rotate90CW rotates the vector 90 degrees clockwise (in the standard
// math convention: +X right, +Y up).
func (p Point) Rotate90CW() Point {
	return Point{X: p.Y, Y: -p.X}
}

// Rotate90CCW rotates the vector 90 degrees counter-clockwise.
func (p Point) Rotate90CCW() Point {
	return Point{X: -p.Y, Y: p.X}
}

// Lerp linearly interpolates between a and b at parameter t in [0,1].
func Lerp(a, b Point, t float64) Point {
	return Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}
