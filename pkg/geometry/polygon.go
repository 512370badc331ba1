package geometry

// Polygon is a simple or multi-part planar region: one outer boundary
// and zero or more holes. The outer ring winds counter-clockwise and
// holes wind clockwise, matching zappem.net/pub/math/polygon's
// convention (Shape.Hole) so the two representations convert cleanly.
type Polygon struct {
	Outer Ring
	Holes []Ring
}

// NewPolygon builds a Polygon, normalizing winding direction.
func NewPolygon(outer Ring, holes ...Ring) Polygon {
	p := Polygon{Outer: EnsureCCW(outer)}
	for _, h := range holes {
		p.Holes = append(p.Holes, EnsureCW(h))
	}
	return p
}

// IsEmpty reports whether the polygon encloses no area.
func (p Polygon) IsEmpty() bool {
	return len(p.Outer) < 3
}

// Area returns the polygon's area (outer minus holes).
func (p Polygon) Area() float64 {
	if p.IsEmpty() {
		return 0
	}
	area := p.Outer.Area()
	for _, h := range p.Holes {
		area -= h.Area()
	}
	if area < 0 {
		return 0
	}
	return area
}

// Boundary returns every ring that bounds the polygon: the outer ring
// followed by each hole ring, each as a closed LineString (first point
// repeated at the end) so callers can treat it uniformly with other
// curves.
func Boundary(p Polygon) []LineString {
	rings := append([]Ring{p.Outer}, p.Holes...)
	out := make([]LineString, 0, len(rings))
	for _, r := range rings {
		if len(r) == 0 {
			continue
		}
		closed := make(LineString, 0, len(r)+1)
		closed = append(closed, r...)
		closed = append(closed, r[0])
		out = append(out, closed)
	}
	return out
}

// Bounds returns the polygon's axis-aligned bounding box.
func (p Polygon) Bounds() BoundingBox {
	return p.Outer.Bounds()
}

// Contains reports whether pt lies inside the polygon (outer ring,
// excluding holes), using the standard even-odd ray-casting rule.
func Contains(p Polygon, pt Point) bool {
	if !ringContains(p.Outer, pt) {
		return false
	}
	for _, h := range p.Holes {
		if ringContains(h, pt) {
			return false
		}
	}
	return true
}

// ringContains implements even-odd ray casting against a single ring,
// treating points within Epsilon of an edge as contained.
func ringContains(r Ring, pt Point) bool {
	if len(r) < 3 {
		return false
	}
	inside := false
	n := len(r)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := r[i], r[j]
		if distancePointSegment(pt, a, b) < Epsilon {
			return true
		}
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			xIntersect := (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y) + a.X
			if pt.X < xIntersect {
				inside = !inside
			}
		}
	}
	return inside
}

// IsSimple reports whether the polygon's outer ring is free of
// self-intersections. Used to detect the GeometryDegenerate condition
// described in spec.md section 9 (extend_arcs_into_perimeter colliding
// with a thin perimeter can fold a ring back on itself).
func IsSimple(p Polygon) bool {
	return ringIsSimple(p.Outer)
}

func ringIsSimple(r Ring) bool {
	n := len(r)
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		a1, a2 := r[i], r[(i+1)%n]
		for j := i + 1; j < n; j++ {
			if j == i {
				continue
			}
			// Adjacent edges share an endpoint by construction; skip them.
			if j == (i+1)%n || (i == 0 && j == n-1) {
				continue
			}
			b1, b2 := r[j], r[(j+1)%n]
			if hit, _ := segmentIntersection(a1, a2, b1, b2); hit {
				return false
			}
		}
	}
	return true
}
