package geometry

import (
	"math"
	"testing"
)

func TestFarthestPointTieBreak(t *testing.T) {
	// Three points all 1mm from refPoly's boundary; tie-break must
	// pick smaller X, then smaller Y (spec.md section 4.3.5).
	ref := NewPolygon(square(0, 0, 100))
	curve := LineString{NewPoint(50, 1), NewPoint(10, 99), NewPoint(10, 1)}
	pt, _ := FarthestPoint(curve, ref)
	if pt != NewPoint(10, 1) {
		t.Errorf("expected tie-break to select smaller X then smaller Y (10,1), got %v", pt)
	}
}

func TestFarthestPointPicksMaxDistance(t *testing.T) {
	ref := NewPolygon(square(0, 0, 100))
	curve := LineString{NewPoint(50, 1), NewPoint(50, 50)}
	pt, dist := FarthestPoint(curve, ref)
	if Distance(pt, NewPoint(50, 50)) > 1e-9 {
		t.Errorf("expected farthest point (50,50), got %v", pt)
	}
	if math.Abs(dist-50) > 1e-9 {
		t.Errorf("expected distance 50, got %v", dist)
	}
}

func TestMoveToward(t *testing.T) {
	start := NewPoint(0, 0)
	target := NewPoint(10, 0)
	got := MoveToward(start, target, 3)
	want := NewPoint(3, 0)
	if Distance(got, want) > 1e-9 {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestMoveTowardSamePoint(t *testing.T) {
	start := NewPoint(5, 5)
	got := MoveToward(start, start, 3)
	if got != start {
		t.Errorf("expected no movement when start equals target, got %v", got)
	}
}

func TestNearestPointOnSegmentEnds(t *testing.T) {
	curve := LineString{NewPoint(0, 0), NewPoint(10, 0)}
	got := NearestPoint(curve, NewPoint(-5, 5))
	if got != NewPoint(0, 0) {
		t.Errorf("expected nearest point clamped to segment start, got %v", got)
	}
}
