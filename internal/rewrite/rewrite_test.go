package rewrite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arcoverhang/arcoverhang/pkg/emit"
	"github.com/arcoverhang/arcoverhang/pkg/planner"
	"github.com/arcoverhang/arcoverhang/pkg/region"
)

func writeTempProgram(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.gcode")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func defaultConfig() Config {
	return Config{
		Region: region.Config{
			ArcWidth:        0.5,
			MinBridgeArea:   1,
			MinBridgeLength: 1,
		},
		Planner: planner.Config{
			ArcWidth:                 0.5,
			RMin:                     0.5,
			RMax:                     8,
			MaxDistanceFromPerimeter: 1,
			AngularStep:              0.1,
			ArcFeedrate:              1200,
			ArcFan:                   255,
		},
		Emit: emit.Params{
			ArcWidth:            0.5,
			LayerHeight:         0.2,
			ExtrusionMultiplier: 1,
			FilamentArea:        2.4,
			AngularStep:         0.1,
			PriorFeedrate:       1200,
		},
		Workers: 1,
	}
}

const noBridgeProgram = `;LAYER_CHANGE
;Z:0.2
;TYPE:External perimeter
G1 X0 Y0 F1200
G1 X10 Y0 E0.5
G1 X10 Y10 E0.5
G1 X0 Y10 E0.5
G1 X0 Y0 E0.5
;TYPE:Solid infill
G1 X2 Y2 E0.1
G1 X8 Y2 E0.3
`

func TestRunReturnsNoBridgesExitCode(t *testing.T) {
	path := writeTempProgram(t, noBridgeProgram)
	before, _ := os.ReadFile(path)

	result, err := Run(path, defaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Code != ExitNoBridges {
		t.Errorf("expected ExitNoBridges, got %v", result.Code)
	}
	after, _ := os.ReadFile(path)
	if string(before) != string(after) {
		t.Error("expected file left unchanged when no bridges are present")
	}
}

func TestRunReturnsFileNotFound(t *testing.T) {
	result, err := Run(filepath.Join(t.TempDir(), "missing.gcode"), defaultConfig())
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if result.Code != ExitFileNotFound {
		t.Errorf("expected ExitFileNotFound, got %v", result.Code)
	}
}

const subThresholdProgram = `;LAYER_CHANGE
;Z:0.2
;TYPE:External perimeter
G1 X0 Y0 F1200
G1 X50 Y0 E2
G1 X50 Y50 E2
G1 X0 Y50 E2
G1 X0 Y0 E2
;TYPE:Bridge infill
G1 X20 Y20 F1800
G1 X25 Y20 E0.1
`

func TestRunRejectsSubThresholdBridge(t *testing.T) {
	path := writeTempProgram(t, subThresholdProgram)
	before, _ := os.ReadFile(path)

	cfg := defaultConfig()
	cfg.Region.MinBridgeArea = 20

	result, err := Run(path, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Code != ExitAllRejected {
		t.Errorf("expected ExitAllRejected, got %v", result.Code)
	}
	after, _ := os.ReadFile(path)
	if string(before) != string(after) {
		t.Error("expected file left unchanged when all regions are rejected")
	}
}

func TestRunRejectsInvertedRadiusConfig(t *testing.T) {
	path := writeTempProgram(t, subThresholdProgram)
	cfg := defaultConfig()
	cfg.Region.MinBridgeArea = 0.01
	cfg.Region.MinBridgeLength = 0.01
	cfg.Planner.RMin, cfg.Planner.RMax = 8, 0.5

	result, err := Run(path, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Code != ExitAllRejected {
		t.Errorf("expected all regions rejected when r_min > r_max, got %v", result.Code)
	}
}

func TestBuildPatchLinesWrapsArcOverhangMarkers(t *testing.T) {
	lines := buildPatchLines(planner.ArcPlan{}, emit.Params{})
	if lines[0] != ";TYPE:Arc overhang" {
		t.Errorf("expected opening marker, got %q", lines[0])
	}
	if lines[len(lines)-1] != ";TYPE:End arc overhang" {
		t.Errorf("expected closing marker, got %q", lines[len(lines)-1])
	}
}

// bridgeFillProgram rasters a solid ~15x9mm bridge-infill block as one
// continuous serpentine path (no travel moves between rows, so the
// whole raster parses as a single segment) thick enough that its
// interior clears MaxDistanceFromPerimeter and wide enough to clear
// the default candidacy thresholds, followed by an unrelated solid
// infill line the splice must leave untouched.
const bridgeFillProgram = `;LAYER_CHANGE
;Z:0.2
;TYPE:External perimeter
G1 X-5 Y-5 F1200
G1 X20 Y-5 E2
G1 X20 Y15 E2
G1 X-5 Y15 E2
G1 X-5 Y-5 E2
;TYPE:Bridge infill
G1 X0 Y0 F1800
G1 X15 Y0 E1
G1 X15 Y0.8 E0.1
G1 X0 Y0.8 E1
G1 X0 Y1.6 E0.1
G1 X15 Y1.6 E1
G1 X15 Y2.4 E0.1
G1 X0 Y2.4 E1
G1 X0 Y3.2 E0.1
G1 X15 Y3.2 E1
G1 X15 Y4.0 E0.1
G1 X0 Y4.0 E1
G1 X0 Y4.8 E0.1
G1 X15 Y4.8 E1
G1 X15 Y5.6 E0.1
G1 X0 Y5.6 E1
G1 X0 Y6.4 E0.1
G1 X15 Y6.4 E1
G1 X15 Y7.2 E0.1
G1 X0 Y7.2 E1
G1 X0 Y8.0 E0.1
G1 X15 Y8.0 E1
G1 X15 Y8.8 E0.1
G1 X0 Y8.8 E1
;TYPE:Solid infill
G1 X1 Y1 E0.1
`

func TestRunSplicesArcsOnSuccessfulPlan(t *testing.T) {
	path := writeTempProgram(t, bridgeFillProgram)
	before, _ := os.ReadFile(path)

	cfg := defaultConfig()
	cfg.Region.ArcWidth = 1
	cfg.Planner.ArcWidth = 1
	cfg.Emit.ArcWidth = 1

	result, err := Run(path, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Code != ExitSuccess {
		t.Fatalf("expected ExitSuccess, got %v (diagnostics: %v)", result.Code, result.Diagnostics)
	}
	if result.RegionsPlanned == 0 {
		t.Fatal("expected at least one region to be planned")
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read rewritten file: %v", err)
	}
	out := string(after)

	if !strings.Contains(out, ";TYPE:Arc overhang") || !strings.Contains(out, ";TYPE:End arc overhang") {
		t.Error("expected the rewritten file to contain spliced arc markers")
	}
	if strings.Contains(out, "G1 X15 Y0.8 E0.1") {
		t.Error("expected the original bridge-infill raster to have been replaced")
	}

	beforeStr := string(before)
	prefix := beforeStr[:strings.Index(beforeStr, ";TYPE:Bridge infill")]
	if !strings.HasPrefix(out, prefix) {
		t.Error("expected bytes before the bridge region to be preserved unchanged (invariant 5)")
	}
	if !strings.Contains(out, ";TYPE:Solid infill\nG1 X1 Y1 E0.1\n") {
		t.Error("expected bytes after the bridge region to be preserved unchanged (invariant 5)")
	}
}

func TestRunLeavesFileUntouchedOnParseOfGarbage(t *testing.T) {
	path := writeTempProgram(t, strings.Repeat("not gcode at all\n", 3))
	before, _ := os.ReadFile(path)
	result, err := Run(path, defaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Code != ExitNoBridges {
		t.Errorf("expected a file with no recognizable motion to report no bridges, got %v", result.Code)
	}
	after, _ := os.ReadFile(path)
	if string(before) != string(after) {
		t.Error("expected file left unchanged when it holds no recognizable motion")
	}
}
