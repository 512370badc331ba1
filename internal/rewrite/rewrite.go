// Package rewrite drives the full M -> E -> P -> X -> M' pipeline: it
// parses a motion program, extracts bridge regions layer by layer,
// plans arcs for each, splices the result back in, and writes the
// file out atomically (spec.md sections 5, 6, 7).
package rewrite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"

	"github.com/arcoverhang/arcoverhang/pkg/emit"
	"github.com/arcoverhang/arcoverhang/pkg/gcode"
	"github.com/arcoverhang/arcoverhang/pkg/planner"
	"github.com/arcoverhang/arcoverhang/pkg/region"
)

// ExitCode mirrors spec.md section 6.3's CLI exit codes.
type ExitCode int

const (
	ExitSuccess        ExitCode = 0
	ExitFileNotFound   ExitCode = 2
	ExitParseFailure   ExitCode = 3
	ExitNoBridges      ExitCode = 4
	ExitAllRejected    ExitCode = 5
)

// Config bundles the region-candidacy and planner/emitter tunables the
// driver threads through every layer.
type Config struct {
	Region  region.Config
	Planner planner.Config
	Emit    emit.Params

	PerRegionTimeout func() context.Context // returns a fresh context per region; nil means context.Background()
	Workers          int                    // 0 means runtime.GOMAXPROCS(0)
}

// Result summarizes what happened to a file, enough for the CLI to
// choose an exit code and print a report.
type Result struct {
	Code             ExitCode
	RegionsFound     int
	RegionsPlanned   int
	RegionsRejected  int
	Diagnostics      []string
}

// Run executes the pipeline against filename, rewriting it in place on
// success. It never writes the file on a fatal error.
func Run(filename string, cfg Config) (Result, error) {
	if _, err := os.Stat(filename); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{Code: ExitFileNotFound}, fmt.Errorf("file not found: %w", err)
		}
		return Result{Code: ExitFileNotFound}, fmt.Errorf("cannot access file: %w", err)
	}

	prog, err := gcode.Parse(filename)
	if err != nil {
		return Result{Code: ExitParseFailure}, fmt.Errorf("parse failure: %w", err)
	}

	sidecar, sidecarErr := gcode.LoadSidecar(filename + ".arcoverhang.conf")
	if sidecarErr == nil {
		prog.Settings = gcode.Merge(prog.Settings, sidecar)
	}

	result, changed, err := process(prog, cfg)
	if err != nil {
		return result, err
	}

	if result.RegionsFound == 0 {
		return Result{Code: ExitNoBridges}, nil
	}
	if result.RegionsPlanned == 0 {
		return Result{Code: ExitAllRejected, RegionsFound: result.RegionsFound, RegionsRejected: result.RegionsRejected, Diagnostics: result.Diagnostics}, nil
	}

	if changed {
		if err := gcode.Write(filename, prog); err != nil {
			return result, fmt.Errorf("failed to write rewritten motion program: %w", err)
		}
	}

	result.Code = ExitSuccess
	return result, nil
}

type layerJob struct {
	layerIndex int
	regions    []region.BridgeRegion
}

type layerOutcome struct {
	layerIndex int
	patches    []patchResult
	diag       region.Diagnostics
}

type patchResult struct {
	region region.BridgeRegion
	plan   planner.ArcPlan
	err    error
}

// process runs region extraction and planning for every layer,
// optionally fanning work out across a bounded worker pool, then
// serializes all splices against the single Program.
func process(prog *gcode.Program, cfg Config) (Result, bool, error) {
	var regionsFound, regionsPlanned, regionsRejected int
	var diagnostics []string

	jobs := make([]layerJob, 0, len(prog.Layers))
	for _, layer := range prog.Layers {
		regions, diag := region.Extract(layer, layer.PrevExternalPerimeter, cfg.Region, layer.PrevExternalPerimeterIslands...)
		for _, r := range diag.Rejected {
			diagnostics = append(diagnostics, fmt.Sprintf("layer %d: region rejected (%s)", r.LayerIndex, r.Reason))
		}
		regionsFound += len(regions) + len(diag.Rejected)
		regionsRejected += len(diag.Rejected)
		if len(regions) == 0 {
			continue
		}
		sort.Slice(regions, func(i, j int) bool { return centroidLess(regions[i], regions[j]) })
		jobs = append(jobs, layerJob{layerIndex: layer.Index, regions: regions})
	}

	if regionsFound == 0 {
		return Result{RegionsFound: 0, Diagnostics: diagnostics}, false, nil
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	outcomes := make([]layerOutcome, len(jobs))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, job layerJob) {
			defer wg.Done()
			defer func() { <-sem }()
			outcomes[i] = planLayer(job, cfg)
		}(i, job)
	}
	wg.Wait()

	changed := false
	for _, outcome := range outcomes {
		layer := prog.Layers[outcome.layerIndex]

		var toSplice []patchResult
		for _, patch := range outcome.patches {
			if patch.err != nil {
				diagnostics = append(diagnostics, fmt.Sprintf("layer %d: %v", outcome.layerIndex, patch.err))
				continue
			}
			if len(patch.plan.Arcs) == 0 {
				diagnostics = append(diagnostics, fmt.Sprintf("layer %d: plan failure, no arcs fit, bridge left in place", outcome.layerIndex))
				continue
			}
			toSplice = append(toSplice, patch)
		}

		// Splice highest-index regions first: outcome.patches is in the
		// centroid dispatch order spec.md section 5 mandates, but two
		// disjoint regions in the same layer (section 5, "disjoint
		// regions within one layer") still share one Segments slice, and
		// the first splice changes its length. Splicing back to front
		// keeps every still-pending SourceRange valid without needing to
		// track a cumulative offset.
		sort.Slice(toSplice, func(i, j int) bool {
			return toSplice[i].region.SourceRange.Start > toSplice[j].region.SourceRange.Start
		})

		for _, patch := range toSplice {
			raw := buildPatchLines(patch.plan, cfg.Emit)
			if err := emit.Splice(layer, patch.region.SourceRange, raw); err != nil {
				return Result{Code: ExitParseFailure}, false, fmt.Errorf("splice failure: %w", err)
			}
			changed = true
			regionsPlanned++
		}
	}

	return Result{
		RegionsFound:    regionsFound,
		RegionsPlanned:  regionsPlanned,
		RegionsRejected: regionsRejected,
		Diagnostics:     diagnostics,
	}, changed, nil
}

func planLayer(job layerJob, cfg Config) layerOutcome {
	outcome := layerOutcome{layerIndex: job.layerIndex}
	for _, r := range job.regions {
		ctx := context.Background()
		if cfg.PerRegionTimeout != nil {
			ctx = cfg.PerRegionTimeout()
		}
		plan, err := planner.Plan(ctx, r, cfg.Planner)
		outcome.patches = append(outcome.patches, patchResult{region: r, plan: plan, err: err})
	}
	return outcome
}

func buildPatchLines(plan planner.ArcPlan, p emit.Params) []string {
	lines := []string{";TYPE:Arc overhang"}
	lines = append(lines, emit.Patch(plan, p)...)
	lines = append(lines, ";TYPE:End arc overhang")
	return lines
}

func centroidLess(a, b region.BridgeRegion) bool {
	ca := centroidOf(a)
	cb := centroidOf(b)
	if ca.X != cb.X {
		return ca.X < cb.X
	}
	return ca.Y < cb.Y
}

func centroidOf(r region.BridgeRegion) struct{ X, Y float64 } {
	outer := r.Polygon.Outer
	if len(outer) == 0 {
		return struct{ X, Y float64 }{}
	}
	var sx, sy float64
	for _, pt := range outer {
		sx += pt.X
		sy += pt.Y
	}
	n := float64(len(outer))
	return struct{ X, Y float64 }{sx / n, sy / n}
}
