package main

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/pollharvest/pkg/types"
)

// envKeys maps config keys such as extraction.group_slicing to
// POLLHARVEST_EXTRACTION_GROUP_SLICING.
var envKeys = strings.NewReplacer(".", "_", "-", "_")

// pipelineConfig assembles the typed configuration from viper, which has
// already merged defaults, the config file, environment, and bound flags.
func pipelineConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("fetch.timeout"),
				UserAgent: viper.GetString("fetch.user_agent"),
			},
			URL:         viper.GetString("fetch.url"),
			MaxRetries:  viper.GetInt("fetch.max_retries"),
			SnapshotDir: viper.GetString("fetch.snapshot_dir"),
		},
		Extraction: types.ExtractionConfig{
			Mode:             types.BatchMode(viper.GetString("extraction.mode")),
			Workers:          viper.GetInt("extraction.workers"),
			GroupSlicing:     types.GroupSlicing(viper.GetString("extraction.group_slicing")),
			DuplicateColumns: types.DuplicatePolicy(viper.GetString("extraction.duplicate_columns")),
		},
		Store: types.StoreConfig{
			Path: viper.GetString("store.path"),
		},
	}
}
