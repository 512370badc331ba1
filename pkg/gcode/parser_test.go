package gcode

import (
	"strings"
	"testing"
)

const sampleLayer = `;LAYER_CHANGE
;Z:0.2
;TYPE:External perimeter
G1 X0 Y0 F1200
G1 X10 Y0 E0.5
G1 X10 Y10 E0.5
G1 X0 Y10 E0.5
G1 X0 Y0 E0.5
;TYPE:Bridge infill
G1 X1 Y1 F1800
G1 X9 Y1 E0.3
G1 X9 Y9 E0.3
`

func TestParseReaderSplitsLayersAndSegments(t *testing.T) {
	prog, err := ParseReader(strings.NewReader(sampleLayer))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Layers) != 1 {
		t.Fatalf("expected 1 layer, got %d", len(prog.Layers))
	}
	layer := prog.Layers[0]
	if layer.Z != 0.2 {
		t.Errorf("expected Z 0.2, got %v", layer.Z)
	}

	var bridgeCount int
	for _, seg := range layer.Segments {
		if seg.Kind == KindBridgeInfill {
			bridgeCount++
			if len(seg.Path) < 2 {
				t.Errorf("expected bridge segment to have a path, got %v", seg.Path)
			}
		}
	}
	if bridgeCount == 0 {
		t.Error("expected at least one bridge infill segment")
	}
}

func TestParseReaderPreservesRawLines(t *testing.T) {
	prog, err := ParseReader(strings.NewReader(sampleLayer))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var rawCount int
	for _, layer := range prog.Layers {
		for _, seg := range layer.Segments {
			rawCount += len(seg.Raw)
		}
		rawCount += len(layer.HeaderLines)
	}
	wantLines := len(strings.Split(strings.TrimRight(sampleLayer, "\n"), "\n"))
	if rawCount != wantLines {
		t.Errorf("expected all %d source lines preserved, accounted for %d", wantLines, rawCount)
	}
}

func TestParseMotionLineExtractsCoordinates(t *testing.T) {
	cmd, hasMove, hasExtrude, x, y, extrude, _, ok := parseMotionLine("G1 X12.5 Y-3.2 E0.04")
	if !ok || cmd != "G1" {
		t.Fatalf("expected parsed G1, got cmd=%s ok=%v", cmd, ok)
	}
	if !hasMove || !hasExtrude {
		t.Errorf("expected move and extrude flags set")
	}
	if x != 12.5 || y != -3.2 {
		t.Errorf("expected (12.5, -3.2), got (%v, %v)", x, y)
	}
	if extrude != 0.04 {
		t.Errorf("expected extrude amount 0.04, got %v", extrude)
	}
}

func TestParseMotionLineKeepsFeedrateSeparateFromExtrusion(t *testing.T) {
	_, _, hasExtrude, _, _, extrude, feed, ok := parseMotionLine("G1 X1 Y1 E0.5")
	if !ok || !hasExtrude {
		t.Fatalf("expected a parsed extruding move")
	}
	if extrude != 0.5 {
		t.Errorf("expected extrude 0.5, got %v", extrude)
	}
	if feed != 0 {
		t.Errorf("expected no feedrate override when F is absent, got %v", feed)
	}
}

func TestParseMotionLineIgnoresComment(t *testing.T) {
	_, hasMove, _, _, _, _, _, ok := parseMotionLine("; just a comment")
	if ok || hasMove {
		t.Errorf("expected comment-only line to not parse as motion")
	}
}

func TestParseMotionLineDetectsTravel(t *testing.T) {
	cmd, hasMove, hasExtrude, _, _, _, _, ok := parseMotionLine("G0 X5 Y5")
	if !ok || cmd != "G0" || !hasMove || hasExtrude {
		t.Errorf("expected travel move without extrusion, got cmd=%s hasMove=%v hasExtrude=%v", cmd, hasMove, hasExtrude)
	}
}
