package main

import (
	"context"
	"math"
	"time"

	"github.com/arcoverhang/arcoverhang/pkg/emit"
	"github.com/arcoverhang/arcoverhang/pkg/planner"
	"github.com/arcoverhang/arcoverhang/pkg/region"
	"github.com/arcoverhang/arcoverhang/internal/rewrite"
	"github.com/arcoverhang/arcoverhang/pkg/gcode"
	"github.com/spf13/cobra"
)

// buildConfig resolves a rewrite.Config from CLI flags. For the
// arc-width, layer-height, arc-fan and filament-area flags, a value the
// user never set explicitly falls back to the motion program's embedded
// slicer settings block (spec.md section 6.1) and finally to the flag's
// own default; every other flag is taken as given. Flags the user sets
// always win.
func buildConfig(cmd *cobra.Command, settings map[string]string) rewrite.Config {
	changed := cmd.Flags().Changed

	arcWidth := flagArcWidth
	if !changed("arc-width") {
		arcWidth = gcode.Float(settings, "extrusion_width", arcWidth)
	}
	layerHeight := flagLayerHeight
	if !changed("layer-height") {
		layerHeight = gcode.Float(settings, "layer_height", layerHeight)
	}
	arcFan := flagArcFan
	if !changed("arc-fan") {
		arcFan = gcode.Float(settings, "fan_always_on_pct", arcFan)
	}

	filamentArea := flagFilamentArea
	if !changed("filament-area") {
		if diameter := gcode.Float(settings, "filament_diameter", 0); diameter > 0 {
			filamentArea = math.Pi * (diameter / 2) * (diameter / 2)
		}
	}

	regionCfg := region.Config{
		ArcWidth:                arcWidth,
		ExtendArcsIntoPerimeter: flagExtendArcsIntoPerimeter,
		MinBridgeArea:           flagMinBridgeArea,
		MinBridgeLength:         flagMinBridgeLength,
	}

	plannerCfg := planner.Config{
		ArcWidth:                 arcWidth,
		RMin:                     flagRMin,
		RMax:                     flagRMax,
		ArcCenterOffset:          flagArcCenterOffset,
		ExtendArcsIntoPerimeter:  flagExtendArcsIntoPerimeter,
		MaxDistanceFromPerimeter: flagMaxDistanceFromPerimeter,
		MinBridgeArea:            flagMinBridgeArea,
		MinBridgeLength:          flagMinBridgeLength,
		UseLeastCenterPoints:     flagUseLeastCenterPoints,
		AngularStep:              flagAngularStep,
		ArcFeedrate:              flagArcFeedrate,
		ArcTemperature:           flagArcTemperature,
		ArcFan:                   arcFan,
		FollowupFan:              flagFollowupFan,
		FollowupSpeedFactor:      flagFollowupSpeedFactor,
	}

	emitCfg := emit.Params{
		ArcWidth:            arcWidth,
		LayerHeight:         layerHeight,
		ExtrusionMultiplier: flagExtrusionMultiplier,
		FilamentArea:        filamentArea,
		AngularStep:         flagAngularStep,
		PriorFeedrate:       gcode.Float(settings, "default_feedrate", flagArcFeedrate),
		PriorFan:            gcode.Float(settings, "fan_always_on_pct", 0),
		PriorTemperature:    gcode.Float(settings, "temperature", 0),
	}

	return rewrite.Config{
		Region:           regionCfg,
		Planner:          plannerCfg,
		Emit:             emitCfg,
		Workers:          flagWorkers,
		PerRegionTimeout: regionTimeoutFunc(flagRegionTimeout),
	}
}

// regionTimeoutFunc builds the func() context.Context rewrite.Config
// expects for spec.md section 5's per-region wall-clock budget. A zero
// timeout disables the budget (nil falls back to context.Background()
// in internal/rewrite). The cancel func is deliberately discarded: each
// context is scoped to a single planner.Plan call that always runs to
// completion or returns on ctx.Err(), so there is nothing left to
// cancel once Plan returns.
func regionTimeoutFunc(d time.Duration) func() context.Context {
	if d <= 0 {
		return nil
	}
	return func() context.Context {
		ctx, _ := context.WithTimeout(context.Background(), d)
		return ctx
	}
}

// peekSettings best-effort parses filename to read its embedded slicer
// settings block. A failure here is not fatal: the caller still invokes
// rewrite.Run, which will surface the real parse error with the right
// exit code.
func peekSettings(filename string) map[string]string {
	prog, err := gcode.Parse(filename)
	if err != nil {
		return nil
	}
	return prog.Settings
}
