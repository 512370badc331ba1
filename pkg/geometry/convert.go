package geometry

import tpoly "zappem.net/pub/math/polygon"

// toShapes converts our polygons into zappem.net/pub/math/polygon's
// Shapes representation so Union() can be reused for same-winding
// merges (see boolean.go).
func toShapes(polys []Polygon) *tpoly.Shapes {
	var shapes *tpoly.Shapes
	for _, p := range polys {
		shapes = shapes.Builder(toTPoints(p.Outer)...)
		for _, h := range p.Holes {
			shapes = shapes.Builder(toTPoints(h)...)
		}
	}
	return shapes
}

func toTPoints(r Ring) []tpoly.Point {
	pts := make([]tpoly.Point, len(r))
	for i, p := range r {
		pts[i] = tpoly.Point{X: p.X, Y: p.Y}
	}
	return pts
}

// fromShapes converts the result of Shapes.Union() back into our
// Polygon type, attaching each hole shape to the first outer shape
// whose outer ring contains it.
func fromShapes(shapes *tpoly.Shapes) []Polygon {
	if shapes == nil {
		return nil
	}
	var outers []int
	for i, s := range shapes.P {
		if !s.Hole {
			outers = append(outers, i)
		}
	}
	polys := make([]Polygon, len(outers))
	for pi, si := range outers {
		polys[pi] = NewPolygon(fromTPoints(shapes.P[si].PS))
	}
	for i, s := range shapes.P {
		if !s.Hole {
			continue
		}
		hole := fromTPoints(s.PS)
		for pi, si := range outers {
			if ringContains(fromTPoints(shapes.P[si].PS), hole[0]) {
				polys[pi].Holes = append(polys[pi].Holes, EnsureCW(hole))
				break
			}
		}
		_ = i
	}
	return polys
}

func fromTPoints(pts []tpoly.Point) Ring {
	r := make(Ring, len(pts))
	for i, p := range pts {
		r[i] = Point{X: p.X, Y: p.Y}
	}
	return r
}
