// Package region extracts bridge-infill regions from a parsed motion
// program layer, thickens them into a footprint polygon, filters out
// regions too small or too short to be worth arc-filling, and derives
// the anchor boundary the planner seeds its first arc from (spec.md
// section 4.2, the E stage).
package region

import (
	"sort"

	"github.com/arcoverhang/arcoverhang/pkg/gcode"
	"github.com/arcoverhang/arcoverhang/pkg/geometry"
)

// BridgeRegion is the thickened footprint of one connected bridge-infill
// component, the anchor it seeds arcs from, and the source range in the
// owning layer's segment list that it replaces.
type BridgeRegion struct {
	Polygon     geometry.Polygon
	Anchor      geometry.LineString
	SourceRange gcode.SegmentRange
}

// Diagnostics records why candidate regions were rejected or how
// ambiguous anchors were resolved, surfaced to the CLI's inspect
// command and the driver's per-region logging.
type Diagnostics struct {
	Rejected         []Rejection
	DiscardedAnchors []geometry.LineString
}

// Rejection names one candidate that failed the candidacy filter.
type Rejection struct {
	LayerIndex int
	Reason     string
	Area       float64
}

// Config holds the candidacy thresholds and geometric parameters E
// needs (spec.md section 4.2 plus ArcWidth/ExtendArcsIntoPerimeter
// from the shared Config per section 3).
type Config struct {
	ArcWidth                 float64
	ExtendArcsIntoPerimeter  float64
	MinBridgeArea            float64
	MinBridgeLength          float64
}

// Extract groups a layer's bridge-infill segments into connected
// components, builds each component's region polygon, and returns the
// regions that survive the candidacy filter, along with diagnostics
// for the ones that don't. islands, when given, are the previous
// layer's external-perimeter loops kept separate (one plate can hold
// several disjoint objects); each candidate region is verified against
// whichever island is spatially nearest it rather than against a single
// polygon merged across the whole plate, mirroring the original's
// per-region STRtree.query_nearest lookup over extPerimeterPolys.
// Callers with only the single merged perimeter can omit islands.
func Extract(layer *gcode.Layer, prevExternalPerimeter geometry.Polygon, cfg Config, islands ...geometry.Polygon) ([]BridgeRegion, Diagnostics) {
	var diag Diagnostics

	groups := groupBridgeSegments(layer)
	if len(groups) == 0 {
		return nil, diag
	}

	islandIndex := geometry.NewPolygonIndex(islands)

	var regions []BridgeRegion
	for _, g := range groups {
		poly := footprintOf(layer, g, cfg.ArcWidth)
		if poly.IsEmpty() {
			diag.Rejected = append(diag.Rejected, Rejection{LayerIndex: layer.Index, Reason: "degenerate footprint"})
			continue
		}

		if cfg.ExtendArcsIntoPerimeter > 0 {
			poly = extendInward(poly, cfg.ExtendArcsIntoPerimeter)
			if poly.IsEmpty() {
				diag.Rejected = append(diag.Rejected, Rejection{LayerIndex: layer.Index, Reason: "degenerate footprint after extend_arcs_into_perimeter"})
				continue
			}
		}

		if poly.Area() < cfg.MinBridgeArea {
			diag.Rejected = append(diag.Rejected, Rejection{LayerIndex: layer.Index, Reason: "below min_bridge_area", Area: poly.Area()})
			continue
		}

		pp := prevExternalPerimeter
		if nearest, ok := nearestIsland(poly, islands, islandIndex); ok {
			pp = nearest
		}

		if !sharesOverhangBoundary(poly, pp) {
			diag.Rejected = append(diag.Rejected, Rejection{LayerIndex: layer.Index, Reason: "no overhang boundary", Area: poly.Area()})
			continue
		}

		if maxInscribedExtent(poly) < cfg.MinBridgeLength {
			diag.Rejected = append(diag.Rejected, Rejection{LayerIndex: layer.Index, Reason: "below min_bridge_length", Area: poly.Area()})
			continue
		}

		anchor, discarded, ok := deriveAnchor(poly, pp)
		if !ok {
			diag.Rejected = append(diag.Rejected, Rejection{LayerIndex: layer.Index, Reason: "empty anchor", Area: poly.Area()})
			continue
		}
		diag.DiscardedAnchors = append(diag.DiscardedAnchors, discarded...)

		regions = append(regions, BridgeRegion{
			Polygon:     poly,
			Anchor:      anchor,
			SourceRange: gcode.SegmentRange{LayerIndex: layer.Index, Start: g.start, End: g.end},
		})
	}

	return regions, diag
}

// nearestIsland picks whichever of islands lies closest to poly,
// using islandIndex's bounding-box query to shortlist candidates
// before measuring exact boundary distance. Returns ok=false when no
// islands were supplied.
func nearestIsland(poly geometry.Polygon, islands []geometry.Polygon, islandIndex *geometry.PolygonIndex) (geometry.Polygon, bool) {
	if len(islands) == 0 {
		return geometry.Polygon{}, false
	}
	if len(islands) == 1 {
		return islands[0], true
	}

	candidates := islandIndex.QueryBounds(poly.Bounds())
	if len(candidates) == 0 {
		// the footprint's bounding box doesn't overlap any island's;
		// fall back to scanning all of them rather than reporting
		// no perimeter at all.
		for i := range islands {
			candidates = append(candidates, i)
		}
	}

	centroid := centroidOf(poly.Outer)
	best := -1
	bestDist := 0.0
	for _, i := range candidates {
		d := geometry.DistancePointToBoundary(centroid, islands[i])
		if best == -1 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	if best == -1 {
		return geometry.Polygon{}, false
	}
	return islands[best], true
}

type segmentGroup struct {
	start, end int // [start, end) indices into layer.Segments
	indices    []int
}

// groupBridgeSegments clusters bridge-infill segments by endpoint
// proximity within geometry.Epsilon, the union-find analogue of the
// original's spotFeaturePoints grouping, adapted to operate on already
// parsed segments instead of re-scanning raw lines.
func groupBridgeSegments(layer *gcode.Layer) []segmentGroup {
	var idxs []int
	for i, seg := range layer.Segments {
		if seg.Kind == gcode.KindBridgeInfill && len(seg.Path) >= 2 {
			idxs = append(idxs, i)
		}
	}
	if len(idxs) == 0 {
		return nil
	}

	parent := make([]int, len(idxs))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	endpoints := func(i int) (geometry.Point, geometry.Point) {
		path := layer.Segments[idxs[i]].Path
		return path[0], path[len(path)-1]
	}

	for i := 0; i < len(idxs); i++ {
		ai, bi := endpoints(i)
		for j := i + 1; j < len(idxs); j++ {
			aj, bj := endpoints(j)
			if near(ai, aj) || near(ai, bj) || near(bi, aj) || near(bi, bj) {
				union(i, j)
			}
		}
	}

	clusters := map[int][]int{}
	for i := range idxs {
		root := find(i)
		clusters[root] = append(clusters[root], idxs[i])
	}

	var groups []segmentGroup
	for _, members := range clusters {
		sort.Ints(members)
		groups = append(groups, segmentGroup{
			start:   members[0],
			end:     members[len(members)-1] + 1,
			indices: members,
		})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].start < groups[j].start })
	return groups
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

func near(a, b geometry.Point) bool {
	return geometry.Distance(a, b) <= geometry.Epsilon
}

// footprintOf thickens every segment path in the group by arc_width/2
// and unions the results into a single region polygon, matching
// spec.md section 4.2 step 2.
func footprintOf(layer *gcode.Layer, g segmentGroup, arcWidth float64) geometry.Polygon {
	halfWidth := arcWidth / 2
	if halfWidth <= 0 {
		halfWidth = geometry.Epsilon
	}
	var polys []geometry.Polygon
	for _, idx := range g.indices {
		path := layer.Segments[idx].Path
		if path.IsEmpty() {
			continue
		}
		polys = append(polys, geometry.BufferLineString(path, halfWidth))
	}
	if len(polys) == 0 {
		return geometry.Polygon{}
	}
	merged := geometry.Union(polys...)
	if len(merged) == 0 {
		return geometry.Polygon{}
	}
	best := merged[0]
	for _, p := range merged[1:] {
		if p.Area() > best.Area() {
			best = p
		}
	}
	return best
}

// extendInward grows the region polygon toward the perimeter by
// buffering it outward by dist; spec.md section 4.2 step 3 phrases
// this as a negative buffer of the complement, which is equivalent to
// a direct outward buffer of Q itself for a simply-connected region.
// Returns an empty polygon when the offset ring is not simple.
func extendInward(poly geometry.Polygon, dist float64) geometry.Polygon {
	grown := geometry.BufferRing(poly.Outer, dist)
	if grown.IsEmpty() {
		return geometry.Polygon{}
	}
	return geometry.Polygon{Outer: grown.Outer, Holes: poly.Holes}
}

// sharesOverhangBoundary holds when part of Q's boundary lies outside
// the previous layer's perimeter, meaning the region is genuinely
// unsupported rather than fully backed by existing plastic below.
func sharesOverhangBoundary(q, pp geometry.Polygon) bool {
	if pp.IsEmpty() {
		return true
	}
	for _, ring := range geometry.Boundary(q) {
		for _, pt := range ring {
			if !geometry.Contains(pp, pt) {
				return true
			}
		}
	}
	return false
}

// maxInscribedExtent approximates the region's maximum linear extent
// by the diagonal of its bounding box, a cheap stand-in for true
// inscribed-diameter computation that is exact for convex, roughly
// rectangular bridge footprints and conservative otherwise.
func maxInscribedExtent(poly geometry.Polygon) float64 {
	bb := poly.Bounds()
	return geometry.Distance(bb.Min, bb.Max)
}

// deriveAnchor intersects Q with the previous layer's external
// perimeter and returns the shared boundary between the intersection
// and Q (spec.md section 4.2 step 5). When multiple disjoint anchor
// components exist, the longest is returned and the rest are reported
// as discarded, mirroring the original's getStartPtOnLS handling of a
// MultiLineString result.
func deriveAnchor(q, pp geometry.Polygon) (geometry.LineString, []geometry.LineString, bool) {
	if pp.IsEmpty() {
		return fullBoundaryAsAnchor(q), nil, true
	}

	inter := geometry.Intersection(q, pp)
	if len(inter) == 0 {
		return nil, nil, false
	}

	var candidates []geometry.LineString
	for _, a := range inter {
		for _, ring := range geometry.Boundary(a) {
			shared := sharedBoundarySegment(geometry.LineString(ring), q)
			if !shared.IsEmpty() {
				candidates = append(candidates, shared)
			}
		}
	}
	if len(candidates) == 0 {
		return nil, nil, false
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Length() > candidates[j].Length() })
	return candidates[0], candidates[1:], true
}

func fullBoundaryAsAnchor(q geometry.Polygon) geometry.LineString {
	return geometry.LineString(q.Outer)
}

// sharedBoundarySegment keeps only the points of ls that lie on Q's
// boundary within ε, approximating boundary(A) ∩ boundary(Q) by
// filtering rather than a full segment-intersection reclip.
func sharedBoundarySegment(ls geometry.LineString, q geometry.Polygon) geometry.LineString {
	var kept geometry.LineString
	for _, pt := range ls {
		if geometry.DistancePointToBoundary(pt, q) <= geometry.Epsilon*10 {
			kept = append(kept, pt)
		}
	}
	return kept
}
