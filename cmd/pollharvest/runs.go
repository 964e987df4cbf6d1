// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pollharvest/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored extraction runs",
	Long: `Runs lists the extractions saved with extract --save, newest first,
with their source and the number of summaries, tables, and failures.`,
	RunE: runRuns,
}

func runRuns(cmd *cobra.Command, args []string) error {
	st, err := store.Open(pipelineConfig().Store)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.Runs(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs stored.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-5s  %-20s  %-11s  %-8s  %-6s  %-8s  %s\n",
		"ID", "Extracted", "Mode", "Charts", "Tables", "Failed", "Source")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-5d  %-20s  %-11s  %-8d  %-6d  %-8d  %s\n",
			r.ID, r.ExtractedAt.Local().Format(time.DateTime), r.Mode,
			r.Summaries, r.Tables, r.Failures, truncate(r.Source, 40))
	}
	fmt.Fprintf(os.Stdout, "\n%d runs\n", len(runs))
	return nil
}

// truncate shortens s to at most max runes, marking the cut with "...".
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func init() {
	runsCmd.Flags().Bool("json", false, "output runs as JSON")

	rootCmd.AddCommand(runsCmd)
}
