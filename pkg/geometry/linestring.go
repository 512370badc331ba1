package geometry

import "math"

// LineString is an ordered, not necessarily closed, sequence of points.
type LineString []Point

// Length returns the total length of the polyline.
func (ls LineString) Length() float64 {
	total := 0.0
	for i := 1; i < len(ls); i++ {
		total += Distance(ls[i-1], ls[i])
	}
	return total
}

// IsEmpty reports whether the linestring has no usable geometry.
func (ls LineString) IsEmpty() bool {
	return len(ls) < 2
}

// Reversed returns the linestring with point order reversed.
func (ls LineString) Reversed() LineString {
	out := make(LineString, len(ls))
	for i, p := range ls {
		out[len(ls)-1-i] = p
	}
	return out
}

// Ring is a closed LineString: the last point is implicitly connected
// back to the first. Points are not duplicated at the seam.
type Ring []Point

// Length returns the closed perimeter length of the ring.
func (r Ring) Length() float64 {
	if len(r) < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i < len(r); i++ {
		total += Distance(r[i], r[(i+1)%len(r)])
	}
	return total
}

// SignedArea returns the signed area of the ring (shoelace formula).
// Positive for counter-clockwise winding, negative for clockwise.
func (r Ring) SignedArea() float64 {
	if len(r) < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < len(r); i++ {
		j := (i + 1) % len(r)
		area += r[i].X*r[j].Y - r[j].X*r[i].Y
	}
	return area / 2
}

// Area returns the unsigned area enclosed by the ring.
func (r Ring) Area() float64 {
	return math.Abs(r.SignedArea())
}

// IsCCW reports whether the ring winds counter-clockwise.
func (r Ring) IsCCW() bool {
	return r.SignedArea() > 0
}

// Reversed returns the ring with point order (and hence winding) reversed.
func (r Ring) Reversed() Ring {
	out := make(Ring, len(r))
	for i, p := range r {
		out[len(r)-1-i] = p
	}
	return out
}

// EnsureCCW returns a ring guaranteed to wind counter-clockwise.
func EnsureCCW(r Ring) Ring {
	if r.IsCCW() {
		return r
	}
	return r.Reversed()
}

// EnsureCW returns a ring guaranteed to wind clockwise.
func EnsureCW(r Ring) Ring {
	if !r.IsCCW() {
		return r
	}
	return r.Reversed()
}

// BoundingBox computes the axis-aligned bounding box of a set of points.
type BoundingBox struct {
	Min, Max Point
}

// Bounds computes the bounding box of a ring. Empty rings return a
// degenerate (zero) box.
func (r Ring) Bounds() BoundingBox {
	return boundsOf(r)
}

// Bounds computes the bounding box of a linestring.
func (ls LineString) Bounds() BoundingBox {
	return boundsOf(ls)
}

func boundsOf(pts []Point) BoundingBox {
	if len(pts) == 0 {
		return BoundingBox{}
	}
	bb := BoundingBox{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		if p.X < bb.Min.X {
			bb.Min.X = p.X
		}
		if p.Y < bb.Min.Y {
			bb.Min.Y = p.Y
		}
		if p.X > bb.Max.X {
			bb.Max.X = p.X
		}
		if p.Y > bb.Max.Y {
			bb.Max.Y = p.Y
		}
	}
	return bb
}

// Overlaps reports whether two bounding boxes intersect, inflated by
// Epsilon so touching boxes count as overlapping.
func (bb BoundingBox) Overlaps(other BoundingBox) bool {
	return bb.Min.X-Epsilon <= other.Max.X && bb.Max.X+Epsilon >= other.Min.X &&
		bb.Min.Y-Epsilon <= other.Max.Y && bb.Max.Y+Epsilon >= other.Min.Y
}
