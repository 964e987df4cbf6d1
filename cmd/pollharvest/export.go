// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pollharvest/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a stored run to JSON or YAML",
	Long: `Export writes one stored run (the newest unless --run is given) with
its chart summaries, tables, and failures in the same shape extract
produces.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := store.Open(pipelineConfig().Store)
	if err != nil {
		return err
	}
	defer st.Close()

	id, _ := cmd.Flags().GetInt64("run")
	if id == 0 {
		if id, err = st.LatestRun(ctx); err != nil {
			return err
		}
	}

	var w io.Writer = os.Stdout
	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer f.Close()
		w = f
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json", "":
		return st.ExportJSON(ctx, id, w)
	case "yaml":
		return st.ExportYAML(ctx, id, w)
	default:
		return fmt.Errorf("unsupported format %q: use json or yaml", format)
	}
}

func init() {
	exportCmd.Flags().Int64("run", 0, "run ID to export (0 = newest)")
	exportCmd.Flags().String("format", "json", "export format: json or yaml")
	exportCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
}
