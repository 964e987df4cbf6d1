// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pollharvest/internal/extract"
	"github.com/pdiddy/pollharvest/internal/fetch"
	"github.com/pdiddy/pollharvest/internal/fragment"
	"github.com/pdiddy/pollharvest/internal/store"
	"github.com/pdiddy/pollharvest/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract chart summaries and tables from the survey page",
	Long: `Extract fetches the survey page (or reads a saved copy with --file),
parses every chart caption and data table, and writes the records as JSON
or YAML. Chart summaries come first, then tables, each in page order.

In fail-fast mode the first bad chart or table stops the run. In
best-effort mode bad fragments are skipped and listed under failures.`,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := pipelineConfig()

	page, source, err := loadPage(cmd, cfg.Fetch)
	if err != nil {
		return err
	}

	doc, err := fragment.Parse(bytes.NewReader(page))
	if err != nil {
		return err
	}

	ex, err := extract.New(cfg.Extraction, os.Stderr)
	if err != nil {
		return err
	}
	res, err := ex.ExtractPage(doc)
	if err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		st, err := store.Open(cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		id, err := st.Save(ctx, source, cfg.Extraction.Mode, res, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "saved run %d\n", id)
	}

	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("output")
	if err := writeOutput(outPath, format, res); err != nil {
		return err
	}

	if res.HasFailures() {
		return fmt.Errorf("%d fragment(s) failed extraction", len(res.Failures))
	}
	return nil
}

// loadPage reads --file when given, otherwise fetches the configured URL
// and writes a snapshot if a snapshot directory is configured.
func loadPage(cmd *cobra.Command, cfg types.FetchConfig) ([]byte, string, error) {
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, "", fmt.Errorf("reading %s: %w", file, err)
		}
		return data, file, nil
	}

	source := cfg.URL
	if source == "" {
		source = types.DefaultSourceURL
	}
	fmt.Fprintf(os.Stderr, "fetching: %s\n", source)

	page, err := fetch.Page(cmd.Context(), fetch.NewClient(cfg), cfg)
	if err != nil {
		return nil, "", err
	}

	if cfg.SnapshotDir != "" {
		path, err := fetch.Snapshot(cfg.SnapshotDir, page, time.Now())
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: snapshot failed: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "snapshot: %s\n", path)
		}
	}
	return page, source, nil
}

func init() {
	extractCmd.Flags().String("url", "", "page to fetch (default: the Gallup environment page)")
	extractCmd.Flags().String("file", "", "read the page from a local HTML file instead of fetching")
	extractCmd.Flags().String("snapshot-dir", "", "directory to keep a copy of each fetched page")
	extractCmd.Flags().String("mode", "fail-fast", "batch mode: fail-fast or best-effort")
	extractCmd.Flags().Int("workers", 1, "fragments extracted concurrently")
	extractCmd.Flags().String("group-slicing", "per-row", "grouped table cell slicing: per-row or legacy")
	extractCmd.Flags().String("duplicate-columns", "overwrite", "repeated column labels: overwrite or strict")
	extractCmd.Flags().String("format", "json", "output format: json or yaml")
	extractCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	extractCmd.Flags().Bool("save", false, "store the run in the database")

	viper.BindPFlag("fetch.url", extractCmd.Flags().Lookup("url"))
	viper.BindPFlag("fetch.snapshot_dir", extractCmd.Flags().Lookup("snapshot-dir"))
	viper.BindPFlag("extraction.mode", extractCmd.Flags().Lookup("mode"))
	viper.BindPFlag("extraction.workers", extractCmd.Flags().Lookup("workers"))
	viper.BindPFlag("extraction.group_slicing", extractCmd.Flags().Lookup("group-slicing"))
	viper.BindPFlag("extraction.duplicate_columns", extractCmd.Flags().Lookup("duplicate-columns"))

	rootCmd.AddCommand(extractCmd)
}
