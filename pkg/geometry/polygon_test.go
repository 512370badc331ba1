package geometry

import (
	"math"
	"testing"
)

func square(x0, y0, side float64) Ring {
	return Ring{
		NewPoint(x0, y0),
		NewPoint(x0+side, y0),
		NewPoint(x0+side, y0+side),
		NewPoint(x0, y0+side),
	}
}

func TestRingArea(t *testing.T) {
	r := square(0, 0, 10)
	if got := r.Area(); math.Abs(got-100) > 1e-9 {
		t.Errorf("Area failed: expected 100, got %v", got)
	}
}

func TestRingWinding(t *testing.T) {
	ccw := square(0, 0, 10)
	if !ccw.IsCCW() {
		t.Errorf("expected square built counter-clockwise to report CCW")
	}
	cw := ccw.Reversed()
	if cw.IsCCW() {
		t.Errorf("expected reversed square to report clockwise")
	}
}

func TestPolygonContains(t *testing.T) {
	p := NewPolygon(square(0, 0, 10))
	if !Contains(p, NewPoint(5, 5)) {
		t.Errorf("expected center point to be contained")
	}
	if Contains(p, NewPoint(15, 5)) {
		t.Errorf("expected point outside bounds to not be contained")
	}
}

func TestPolygonContainsWithHole(t *testing.T) {
	outer := square(0, 0, 10)
	hole := square(4, 4, 2)
	p := NewPolygon(outer, hole)
	if Contains(p, NewPoint(5, 5)) {
		t.Errorf("expected point inside hole to not be contained")
	}
	if !Contains(p, NewPoint(1, 1)) {
		t.Errorf("expected point outside hole but inside outer ring to be contained")
	}
}

func TestPolygonAreaSubtractsHoles(t *testing.T) {
	outer := square(0, 0, 10)
	hole := square(4, 4, 2)
	p := NewPolygon(outer, hole)
	if got := p.Area(); math.Abs(got-96) > 1e-9 {
		t.Errorf("Area with hole failed: expected 96, got %v", got)
	}
}

func TestIsSimpleRejectsBowtie(t *testing.T) {
	bowtie := Ring{
		NewPoint(0, 0),
		NewPoint(10, 10),
		NewPoint(10, 0),
		NewPoint(0, 10),
	}
	p := NewPolygon(bowtie)
	if IsSimple(p) {
		t.Errorf("expected bowtie ring to be reported as self-intersecting")
	}
}
