package followup

import "testing"

func TestNoopRewriterRecordsDirectives(t *testing.T) {
	var r NoopRewriter
	d := Directive{ZRange: [2]float64{1, 3}, Fan: 128, SpeedFactor: 0.8}
	if err := r.Apply([]Directive{d}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Applied) != 1 || r.Applied[0].Fan != d.Fan || r.Applied[0].SpeedFactor != d.SpeedFactor || r.Applied[0].ZRange != d.ZRange {
		t.Errorf("expected directive recorded unchanged, got %v", r.Applied)
	}
}
