// Package emit is the motion emitter (X in spec.md section 2): it
// discretizes an ArcPlan into G-code motion lines, brackets the patch
// with feedrate/fan/temperature overrides, and splices the result into
// a layer's segment list in place of the bridge-infill segments it
// replaces (spec.md section 4.4).
package emit

import (
	"fmt"
	"strconv"

	"github.com/arcoverhang/arcoverhang/pkg/gcode"
	"github.com/arcoverhang/arcoverhang/pkg/geometry"
	"github.com/arcoverhang/arcoverhang/pkg/planner"
)

// Params are the per-patch constants the extrusion formula and
// restore bracket need, pulled from the layer and slicer settings
// rather than the plan itself.
type Params struct {
	ArcWidth            float64
	LayerHeight         float64
	ExtrusionMultiplier float64
	FilamentArea        float64
	AngularStep         float64
	PriorFeedrate       float64
	PriorFan            float64
	PriorTemperature    float64 // 0 means "no restore line"
}

// Patch renders an ArcPlan into raw G-code lines: the override
// bracket, a travel to the start point, one G1 per polyline segment with
// extrusion computed per spec.md section 4.4, travel moves between
// arcs, and the restore bracket.
func Patch(plan planner.ArcPlan, p Params) []string {
	var lines []string

	lines = append(lines, fmt.Sprintf("G1 F%s", fnum(plan.Profile.Feedrate)))
	if p.PriorFan != plan.Profile.Fan {
		lines = append(lines, fmt.Sprintf("M106 S%s", fnum(plan.Profile.Fan)))
	}
	if plan.Profile.Temperature > 0 {
		lines = append(lines, fmt.Sprintf("M104 S%s", fnum(plan.Profile.Temperature)))
	}

	pos := plan.StartPoint
	lines = append(lines, fmt.Sprintf("G0 X%s Y%s", fnum(pos.X), fnum(pos.Y)))

	angularStep := p.AngularStep
	if angularStep <= 0 {
		angularStep = 0.017453292519943295 // pi/180
	}

	for i, arc := range plan.Arcs {
		path := geometry.PointsOnArc(arc, angularStep)
		if path.IsEmpty() {
			continue
		}

		if i > 0 && geometry.Distance(pos, path[0]) > geometry.Epsilon {
			lines = append(lines, fmt.Sprintf("G0 X%s Y%s", fnum(path[0].X), fnum(path[0].Y)))
		}

		for j := 1; j < len(path); j++ {
			a, b := path[j-1], path[j]
			length := geometry.Distance(a, b)
			extrusion := extrusionFor(length, p)
			lines = append(lines, fmt.Sprintf("G1 X%s Y%s E%s", fnum(b.X), fnum(b.Y), fnum(extrusion)))
		}
		pos = path[len(path)-1]
	}

	if plan.Profile.Temperature > 0 && p.PriorTemperature > 0 {
		lines = append(lines, fmt.Sprintf("M104 S%s", fnum(p.PriorTemperature)))
	}
	if p.PriorFan != plan.Profile.Fan {
		lines = append(lines, fmt.Sprintf("M106 S%s", fnum(p.PriorFan)))
	}
	if p.PriorFeedrate > 0 {
		lines = append(lines, fmt.Sprintf("G1 F%s", fnum(p.PriorFeedrate)))
	}

	return lines
}

// extrusionFor implements the extrusion formula of spec.md section
// 4.4: length times bead cross-section (arc_width * layer_height *
// extrusion_multiplier), converted from a volume to a filament length
// by dividing by the filament's cross-sectional area.
func extrusionFor(length float64, p Params) float64 {
	if p.FilamentArea <= 0 {
		return 0
	}
	multiplier := p.ExtrusionMultiplier
	if multiplier <= 0 {
		multiplier = 1
	}
	return length * p.ArcWidth * p.LayerHeight * multiplier / p.FilamentArea
}

func fnum(v float64) string {
	return strconv.FormatFloat(v, 'f', 5, 64)
}

// Splice replaces layer.Segments[rng.Start:rng.End] with a single
// segment carrying raw, leaving everything before and after the range
// untouched (spec.md section 4.4, splice contract).
func Splice(layer *gcode.Layer, rng gcode.SegmentRange, raw []string) error {
	if rng.Start < 0 || rng.End > len(layer.Segments) || rng.Start > rng.End {
		return fmt.Errorf("invalid splice range [%d,%d) in layer of %d segments", rng.Start, rng.End, len(layer.Segments))
	}
	replacement := gcode.Segment{Kind: gcode.KindOther, Raw: raw}
	tail := append([]gcode.Segment{}, layer.Segments[rng.End:]...)
	layer.Segments = append(layer.Segments[:rng.Start], append([]gcode.Segment{replacement}, tail...)...)
	return nil
}
