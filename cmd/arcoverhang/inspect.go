package main

import (
	"context"
	"fmt"
	"os"

	"github.com/arcoverhang/arcoverhang/pkg/gcode"
	"github.com/arcoverhang/arcoverhang/pkg/planner"
	"github.com/arcoverhang/arcoverhang/pkg/region"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Report detected bridge regions without rewriting the file",
	Long: `Parses the motion program and runs region extraction and candidacy
filtering without invoking the planner's splice step: a read-only report of
which bridge regions were found, why any were rejected, and how many arcs
the planner would produce for each accepted region.`,
	Args: cobra.ExactArgs(1),
	Run:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	registerTunableFlags(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) {
	filename := args[0]

	prog, err := gcode.Parse(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing motion program: %v\n", err)
		os.Exit(3)
	}

	cfg := buildConfig(cmd, prog.Settings)

	fmt.Println("Bridge Region Report")
	fmt.Println("====================")
	fmt.Printf("File: %s\n\n", filename)

	var found, accepted int
	for _, layer := range prog.Layers {
		regions, diag := region.Extract(layer, layer.PrevExternalPerimeter, cfg.Region, layer.PrevExternalPerimeterIslands...)
		for _, rej := range diag.Rejected {
			found++
			fmt.Printf("layer %d: rejected (%s), area=%.3f\n", rej.LayerIndex, rej.Reason, rej.Area)
		}
		for _, reg := range regions {
			found++
			accepted++
			plan, err := planner.Plan(context.Background(), reg, cfg.Planner)
			if err != nil {
				fmt.Printf("layer %d: accepted, planning failed: %v\n", layer.Index, err)
				continue
			}
			fmt.Printf("layer %d: accepted, %d arc(s) planned\n", layer.Index, len(plan.Arcs))
		}
	}

	fmt.Printf("\n%d region(s) found, %d accepted, %d rejected\n", found, accepted, found-accepted)
}
