package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/arcoverhang/arcoverhang/pkg/geometry"
	"github.com/arcoverhang/arcoverhang/pkg/region"
)

func square(side float64) geometry.Ring {
	return geometry.Ring{
		geometry.NewPoint(0, 0),
		geometry.NewPoint(side, 0),
		geometry.NewPoint(side, side),
		geometry.NewPoint(0, side),
	}
}

func baseConfig() Config {
	return Config{
		ArcWidth:                 0.4,
		RMin:                     1,
		RMax:                     8,
		ArcCenterOffset:          0,
		MaxDistanceFromPerimeter: 1,
		AngularStep:              0.1,
		ArcFeedrate:              1000,
		ArcFan:                   255,
	}
}

func TestPlanRejectsInvertedRadiusBounds(t *testing.T) {
	reg := region.BridgeRegion{
		Polygon: geometry.NewPolygon(square(20)),
		Anchor:  geometry.LineString{geometry.NewPoint(0, 0), geometry.NewPoint(20, 0)},
	}
	cfg := baseConfig()
	cfg.RMin, cfg.RMax = 8, 1

	_, err := Plan(context.Background(), reg, cfg)
	var rejected *RegionRejectedError
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.As(err, &rejected) {
		t.Errorf("expected RegionRejectedError, got %T: %v", err, err)
	}
}

func TestPlanRejectsZeroLengthAnchor(t *testing.T) {
	reg := region.BridgeRegion{
		Polygon: geometry.NewPolygon(square(20)),
		Anchor:  geometry.LineString{geometry.NewPoint(0, 0)},
	}
	_, err := Plan(context.Background(), reg, baseConfig())
	if err == nil {
		t.Fatal("expected an error for a degenerate anchor")
	}
}

func TestPlanProducesArcsForSquareRegion(t *testing.T) {
	reg := region.BridgeRegion{
		Polygon: geometry.NewPolygon(square(20)),
		Anchor:  geometry.LineString{geometry.NewPoint(0, 0), geometry.NewPoint(20, 0)},
	}
	plan, err := Plan(context.Background(), reg, baseConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Arcs) == 0 {
		t.Error("expected at least one arc for a region well within r_max")
	}
	if plan.Profile.Feedrate != 1000 {
		t.Errorf("expected feedrate override to carry through, got %v", plan.Profile.Feedrate)
	}
}

func TestPlanHonorsContextCancellation(t *testing.T) {
	reg := region.BridgeRegion{
		Polygon: geometry.NewPolygon(square(20)),
		Anchor:  geometry.LineString{geometry.NewPoint(0, 0), geometry.NewPoint(20, 0)},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Plan(ctx, reg, baseConfig())
	var timeout *TimeoutError
	if !errors.As(err, &timeout) {
		t.Errorf("expected TimeoutError on a pre-cancelled context, got %T: %v", err, err)
	}
}
