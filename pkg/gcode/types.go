// Package gcode models the motion program (M in spec.md section 2): an
// ordered sequence of layers, each an ordered sequence of typed motion
// segments, parsed from and re-emitted as a line-oriented G-code file.
package gcode

import "github.com/arcoverhang/arcoverhang/pkg/geometry"

// SegmentKind classifies a motion segment the way the slicer's
// ";TYPE:" comments do (spec.md section 3).
type SegmentKind int

const (
	KindOther SegmentKind = iota
	KindTravel
	KindOuterPerimeter
	KindPerimeter
	KindBridgeInfill
	KindSolidInfill
)

// Segment is one contiguous run of motion commands of a single kind,
// plus the raw source lines so untouched segments can be re-emitted
// byte-identical (spec.md section 8, invariant 5).
type Segment struct {
	Kind            SegmentKind
	Path            geometry.LineString
	ExtrusionPerMM  float64
	Feedrate        float64
	Tags            []string
	Raw             []string
}

// Layer is one Z height's worth of motion, plus the polygons E needs:
// its own surrounding perimeter and the previous layer's external
// perimeter to anchor against (spec.md section 3).
type Layer struct {
	Index                 int
	Z                     float64
	Segments              []Segment
	SurroundingPerimeter  geometry.Polygon
	PrevExternalPerimeter geometry.Polygon
	// PrevExternalPerimeterIslands holds each of the previous layer's
	// external-perimeter loops separately (not unioned into one
	// polygon), for prints with more than one disjoint object or
	// island on the plate. See pkg/region's use of geometry.PolygonIndex
	// to pick the nearest island per candidate bridge region.
	PrevExternalPerimeterIslands []geometry.Polygon
	HeaderLines                  []string // lines before the first recognized segment, e.g. ";LAYER_CHANGE"/";Z:"
}

// Program is the full parsed motion file.
type Program struct {
	Layers   []*Layer
	Settings map[string]string
	Trailer  []string // lines written after the last layer; ParseReader leaves it empty and keeps end-of-file lines in the last layer
}

// SegmentRange identifies a contiguous run of segments within a layer
// by index, the unit E and X splice against (spec.md section 3,
// BridgeRegion.source_segments_range).
type SegmentRange struct {
	LayerIndex int
	Start, End int // [Start, End), indices into Layer.Segments
}
