package geometry

import (
	"math"
	"testing"
)

func TestBufferLineStringProducesWidthAtMidpoint(t *testing.T) {
	ls := LineString{NewPoint(0, 0), NewPoint(10, 0)}
	poly := BufferLineString(ls, 0.25)
	if poly.IsEmpty() {
		t.Fatal("expected a non-empty buffer polygon")
	}
	if !Contains(poly, NewPoint(5, 0.2)) {
		t.Errorf("expected point within half-width of the stroke to be contained")
	}
	if Contains(poly, NewPoint(5, 1)) {
		t.Errorf("expected point well outside the stroke to not be contained")
	}
}

func TestBufferRingOutward(t *testing.T) {
	r := square(0, 0, 10)
	grown := BufferRing(r, 1)
	if grown.IsEmpty() {
		t.Fatal("expected a non-empty outward buffer")
	}
	if grown.Area() <= r.Area() {
		t.Errorf("expected outward buffer to increase area, got %v vs %v", grown.Area(), r.Area())
	}
}

func TestBufferRingInward(t *testing.T) {
	r := square(0, 0, 10)
	shrunk := BufferRing(r, -1)
	if shrunk.IsEmpty() {
		t.Fatal("expected a non-empty inward buffer for a modest shrink")
	}
	if math.Abs(shrunk.Area()-64) > 2 {
		t.Errorf("expected inward buffer by 1mm on a 10x10 square to be close to 8x8=64, got %v", shrunk.Area())
	}
}
