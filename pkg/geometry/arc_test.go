package geometry

import (
	"math"
	"testing"
)

func TestSweptAngleCounterClockwise(t *testing.T) {
	a := Arc{Center: Point{}, Radius: 5, StartAngle: 0, EndAngle: math.Pi / 2}
	if got := a.SweptAngle(); math.Abs(got-math.Pi/2) > 1e-9 {
		t.Errorf("expected swept angle pi/2, got %v", got)
	}
}

func TestSweptAngleClockwiseWraps(t *testing.T) {
	a := Arc{Center: Point{}, Radius: 5, StartAngle: 0, EndAngle: math.Pi / 2, Clockwise: true}
	got := a.SweptAngle()
	want := 2*math.Pi - math.Pi/2
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected swept angle %v, got %v", want, got)
	}
}

func TestPointsOnArcEndpoints(t *testing.T) {
	a := Arc{Center: Point{}, Radius: 10, StartAngle: 0, EndAngle: math.Pi}
	pts := PointsOnArc(a, math.Pi/180)
	if len(pts) < 2 {
		t.Fatal("expected at least two points")
	}
	if Distance(pts[0], NewPoint(10, 0)) > 1e-6 {
		t.Errorf("expected first point at (10,0), got %v", pts[0])
	}
	if Distance(pts[len(pts)-1], NewPoint(-10, 0)) > 1e-6 {
		t.Errorf("expected last point at (-10,0), got %v", pts[len(pts)-1])
	}
}

func TestFullCircleStaysOnRadius(t *testing.T) {
	c := NewPoint(3, 4)
	ring := FullCircle(c, 5, math.Pi/90)
	for _, p := range ring {
		if math.Abs(Distance(p, c)-5) > 1e-6 {
			t.Errorf("point %v not on circle of radius 5 around %v", p, c)
		}
	}
}
