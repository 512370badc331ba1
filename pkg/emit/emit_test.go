package emit

import (
	"math"
	"strings"
	"testing"

	"github.com/arcoverhang/arcoverhang/pkg/gcode"
	"github.com/arcoverhang/arcoverhang/pkg/geometry"
	"github.com/arcoverhang/arcoverhang/pkg/planner"
)

func TestPatchEmitsTravelThenExtrudingMoves(t *testing.T) {
	plan := planner.ArcPlan{
		Arcs: []geometry.Arc{
			{Center: geometry.NewPoint(0, 0), Radius: 5, StartAngle: 0, EndAngle: math.Pi / 2},
		},
		StartPoint: geometry.NewPoint(5, 0),
		Profile:    planner.KinematicProfile{Feedrate: 1200, Fan: 255},
	}
	lines := Patch(plan, Params{
		ArcWidth:            0.4,
		LayerHeight:         0.2,
		ExtrusionMultiplier: 1,
		FilamentArea:        math.Pi * 0.875 * 0.875,
		AngularStep:         math.Pi / 36,
		PriorFeedrate:       900,
		PriorFan:            0,
	})
	if len(lines) < 3 {
		t.Fatalf("expected several emitted lines, got %d", len(lines))
	}
	var extrudeCount int
	for _, l := range lines {
		if strings.HasPrefix(l, "G1") && strings.Contains(l, "E") {
			extrudeCount++
		}
	}
	if extrudeCount == 0 {
		t.Error("expected at least one extruding G1 move")
	}
	if !strings.Contains(lines[len(lines)-1], "F900") {
		t.Errorf("expected feedrate restore as last line, got %q", lines[len(lines)-1])
	}
}

func TestExtrusionForZeroFilamentAreaIsZero(t *testing.T) {
	got := extrusionFor(10, Params{ArcWidth: 0.4, LayerHeight: 0.2, FilamentArea: 0})
	if got != 0 {
		t.Errorf("expected 0 extrusion with zero filament area, got %v", got)
	}
}

func TestSpliceReplacesRangeInPlace(t *testing.T) {
	layer := &gcode.Layer{
		Segments: []gcode.Segment{
			{Raw: []string{"before"}},
			{Raw: []string{"bridge1"}},
			{Raw: []string{"bridge2"}},
			{Raw: []string{"after"}},
		},
	}
	err := Splice(layer, gcode.SegmentRange{Start: 1, End: 3}, []string{"arc1", "arc2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(layer.Segments) != 3 {
		t.Fatalf("expected 3 segments after splice, got %d", len(layer.Segments))
	}
	if layer.Segments[0].Raw[0] != "before" || layer.Segments[2].Raw[0] != "after" {
		t.Error("expected segments outside the range to remain untouched")
	}
	if layer.Segments[1].Raw[0] != "arc1" || layer.Segments[1].Raw[1] != "arc2" {
		t.Error("expected replacement raw lines spliced in")
	}
}

func TestSpliceRejectsInvalidRange(t *testing.T) {
	layer := &gcode.Layer{Segments: []gcode.Segment{{}}}
	if err := Splice(layer, gcode.SegmentRange{Start: 0, End: 5}, nil); err == nil {
		t.Error("expected an error for an out-of-bounds range")
	}
}
