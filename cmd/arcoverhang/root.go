package main

import (
	"time"

	"github.com/arcoverhang/arcoverhang/version"
	"github.com/spf13/cobra"
)

// rootCmd rewrites the given file in place by default, the same way
// the teacher's own root command (cmd/root.go) takes its file argument
// directly rather than requiring a subcommand; spec.md section 6.3's
// CLI contract is "<program> <path-to-motion-file>", not
// "<program> plan <path-to-motion-file>". The plan subcommand below
// exists as an explicit alias for scripts that prefer to name the verb.
var rootCmd = &cobra.Command{
	Use:   "arcoverhang <file>",
	Short: "Rewrite bridge-infill regions of a G-code file into concentric arc toolpaths",
	Long: `arcoverhang post-processes slicer-generated G-code, finding bridge-infill
regions and replacing them with concentric arc toolpaths that let unsupported
90-degree overhangs print without support material.`,
	Version: version.GetFullVersion(),
	Args:    cobra.ExactArgs(1),
	Run:     runPlan,
}

func init() {
	registerTunableFlags(rootCmd)
}

// tunable flags shared by plan and inspect, following the same
// package-level-var-plus-init-registration shape as the teacher's
// measureCmd flags.
var (
	flagArcWidth                 float64
	flagRMin                     float64
	flagRMax                     float64
	flagArcCenterOffset          float64
	flagExtendArcsIntoPerimeter  float64
	flagMaxDistanceFromPerimeter float64
	flagMinBridgeArea            float64
	flagMinBridgeLength          float64
	flagUseLeastCenterPoints     bool
	flagAngularStep              float64
	flagArcFeedrate              float64
	flagArcTemperature           float64
	flagArcFan                   float64
	flagFollowupFan              float64
	flagFollowupSpeedFactor      float64
	flagLayerHeight              float64
	flagExtrusionMultiplier      float64
	flagFilamentArea             float64
	flagWorkers                  int
	flagRegionTimeout            time.Duration
)

func registerTunableFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&flagArcWidth, "arc-width", 0.4, "nominal arc extrusion width (mm)")
	cmd.Flags().Float64Var(&flagRMin, "r-min", 0.4, "minimum arc radius (mm)")
	cmd.Flags().Float64Var(&flagRMax, "r-max", 8, "maximum arc radius (mm)")
	cmd.Flags().Float64Var(&flagArcCenterOffset, "arc-center-offset", 0, "inward bias applied to a new center (mm)")
	cmd.Flags().Float64Var(&flagExtendArcsIntoPerimeter, "extend-arcs-into-perimeter", 0, "inward expansion of the region before planning (mm)")
	cmd.Flags().Float64Var(&flagMaxDistanceFromPerimeter, "max-distance-from-perimeter", 2, "residual-coverage termination distance (mm)")
	cmd.Flags().Float64Var(&flagMinBridgeArea, "min-bridge-area", 10, "regions smaller than this are rejected (mm^2)")
	cmd.Flags().Float64Var(&flagMinBridgeLength, "min-bridge-length", 4, "regions shorter than this are rejected (mm)")
	cmd.Flags().BoolVar(&flagUseLeastCenterPoints, "use-least-center-points", false, "reuse a center until r-max before spawning a new one")
	cmd.Flags().Float64Var(&flagAngularStep, "angular-step", 0.0175, "arc discretization step (radians)")
	cmd.Flags().Float64Var(&flagArcFeedrate, "arc-feedrate", 1200, "feedrate override for arc moves (mm/min)")
	cmd.Flags().Float64Var(&flagArcTemperature, "arc-temperature", 0, "temperature override for arc moves, 0 disables")
	cmd.Flags().Float64Var(&flagArcFan, "arc-fan", 255, "fan speed override for arc moves (0-255)")
	cmd.Flags().Float64Var(&flagFollowupFan, "followup-fan", 0, "fan speed hint handed to the follow-up rewriter")
	cmd.Flags().Float64Var(&flagFollowupSpeedFactor, "followup-speed-factor", 1, "speed factor hint handed to the follow-up rewriter")
	cmd.Flags().Float64Var(&flagLayerHeight, "layer-height", 0.2, "layer height (mm), used for extrusion volume")
	cmd.Flags().Float64Var(&flagExtrusionMultiplier, "extrusion-multiplier", 1, "extrusion multiplier applied to arc moves")
	cmd.Flags().Float64Var(&flagFilamentArea, "filament-area", 0, "filament cross-section area (mm^2); 0 disables extrusion")
	cmd.Flags().IntVar(&flagWorkers, "workers", 0, "number of layers to plan concurrently, 0 means GOMAXPROCS")
	cmd.Flags().DurationVar(&flagRegionTimeout, "region-timeout", 5*time.Second, "per-region wall-clock planning budget, 0 disables")
}
