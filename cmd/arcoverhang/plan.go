package main

import (
	"fmt"
	"os"

	"github.com/arcoverhang/arcoverhang/internal/rewrite"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan <file>",
	Short: "Rewrite bridge-infill regions into arc toolpaths in place",
	Long: `Parses the motion program, extracts bridge-infill regions, plans
concentric arcs for each, and atomically rewrites the file in place.
Exit codes follow spec section 6.3: 0 success, 2 file not found, 3 parse
failure, 4 no bridge regions found, 5 all regions rejected.`,
	Args: cobra.ExactArgs(1),
	Run:  runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
	registerTunableFlags(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) {
	filename := args[0]
	cfg := buildConfig(cmd, peekSettings(filename))

	result, err := rewrite.Run(filename, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "arcoverhang: %v\n", err)
		os.Exit(int(result.Code))
	}

	fmt.Printf("regions found: %d, planned: %d, rejected: %d\n",
		result.RegionsFound, result.RegionsPlanned, result.RegionsRejected)
	for _, d := range result.Diagnostics {
		fmt.Fprintln(os.Stderr, d)
	}
	os.Exit(int(result.Code))
}
