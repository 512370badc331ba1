package region

import (
	"testing"

	"github.com/arcoverhang/arcoverhang/pkg/gcode"
	"github.com/arcoverhang/arcoverhang/pkg/geometry"
)

func rect(x0, y0, x1, y1 float64) geometry.Ring {
	return geometry.Ring{
		geometry.NewPoint(x0, y0),
		geometry.NewPoint(x1, y0),
		geometry.NewPoint(x1, y1),
		geometry.NewPoint(x0, y1),
	}
}

func bridgeLayer() *gcode.Layer {
	return &gcode.Layer{
		Index: 3,
		Segments: []gcode.Segment{
			{
				Kind: gcode.KindBridgeInfill,
				Path: geometry.LineString{geometry.NewPoint(1, 1), geometry.NewPoint(9, 1)},
			},
			{
				Kind: gcode.KindBridgeInfill,
				Path: geometry.LineString{geometry.NewPoint(9, 1), geometry.NewPoint(9, 9)},
			},
		},
	}
}

func TestExtractAcceptsAboveThresholdRegion(t *testing.T) {
	layer := bridgeLayer()
	// pp supports only the left part of the bridge, so the rest of the
	// footprint's boundary overhangs.
	pp := geometry.NewPolygon(rect(0, 0, 5, 10))
	cfg := Config{ArcWidth: 0.4, MinBridgeArea: 0.1, MinBridgeLength: 1}

	regions, diag := Extract(layer, pp, cfg)
	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d (rejections: %v)", len(regions), diag.Rejected)
	}
	if regions[0].Polygon.IsEmpty() {
		t.Error("expected non-empty region polygon")
	}
}

func TestExtractRejectsBelowMinArea(t *testing.T) {
	layer := bridgeLayer()
	pp := geometry.NewPolygon(rect(0, 0, 10, 10))
	cfg := Config{ArcWidth: 0.4, MinBridgeArea: 1000, MinBridgeLength: 1}

	regions, diag := Extract(layer, pp, cfg)
	if len(regions) != 0 {
		t.Fatalf("expected 0 regions, got %d", len(regions))
	}
	if len(diag.Rejected) == 0 {
		t.Error("expected a rejection diagnostic")
	}
}

func TestExtractNoopOnNoBridgeSegments(t *testing.T) {
	layer := &gcode.Layer{Index: 0}
	regions, diag := Extract(layer, geometry.Polygon{}, Config{ArcWidth: 0.4})
	if regions != nil || diag.Rejected != nil {
		t.Error("expected no regions and no diagnostics for a layer with no bridge segments")
	}
}

func TestGroupBridgeSegmentsMergesTouchingPaths(t *testing.T) {
	layer := bridgeLayer()
	groups := groupBridgeSegments(layer)
	if len(groups) != 1 {
		t.Fatalf("expected segments sharing an endpoint to merge into 1 group, got %d", len(groups))
	}
}
