package geometry

import "github.com/dhconnelly/rtreego"

// PolygonIndex provides fast bounding-box candidate queries over a set
// of polygons, the Go equivalent of the original's shapely.strtree.STRtree
// indexing of a layer's external-perimeter and valid polygons
// (Layer.indexValidPolys / indexOldPolys in the Python source).
type PolygonIndex struct {
	tree *rtreego.Rtree
}

// indexedPolygon adapts a Polygon to rtreego.Spatial.
type indexedPolygon struct {
	poly Polygon
	id   int
}

func (ip *indexedPolygon) Bounds() *rtreego.Rect {
	bb := ip.poly.Bounds()
	w := bb.Max.X - bb.Min.X
	h := bb.Max.Y - bb.Min.Y
	if w <= 0 {
		w = Epsilon
	}
	if h <= 0 {
		h = Epsilon
	}
	rect, err := rtreego.NewRect(rtreego.Point{bb.Min.X, bb.Min.Y}, []float64{w, h})
	if err != nil {
		// A degenerate polygon (zero-area) still needs a valid rect;
		// pad it out rather than let indexing fail.
		rect, _ = rtreego.NewRect(rtreego.Point{bb.Min.X, bb.Min.Y}, []float64{Epsilon, Epsilon})
	}
	return rect
}

// NewPolygonIndex builds a spatial index over polys. IDs are the
// polygons' position in the input slice.
func NewPolygonIndex(polys []Polygon) *PolygonIndex {
	tree := rtreego.NewTree(2, 4, 16)
	for i, p := range polys {
		if p.IsEmpty() {
			continue
		}
		tree.Insert(&indexedPolygon{poly: p, id: i})
	}
	return &PolygonIndex{tree: tree}
}

// QueryBounds returns the IDs (input-slice indices) of every indexed
// polygon whose bounding box overlaps bb.
func (idx *PolygonIndex) QueryBounds(bb BoundingBox) []int {
	if idx == nil || idx.tree == nil {
		return nil
	}
	w := bb.Max.X - bb.Min.X
	h := bb.Max.Y - bb.Min.Y
	if w <= 0 {
		w = Epsilon
	}
	if h <= 0 {
		h = Epsilon
	}
	rect, err := rtreego.NewRect(rtreego.Point{bb.Min.X, bb.Min.Y}, []float64{w, h})
	if err != nil {
		return nil
	}
	results := idx.tree.SearchIntersect(rect)
	ids := make([]int, 0, len(results))
	for _, r := range results {
		if ip, ok := r.(*indexedPolygon); ok {
			ids = append(ids, ip.id)
		}
	}
	return ids
}
