// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pollharvest CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the pollharvest CLI.
var rootCmd = &cobra.Command{
	Use:   "pollharvest",
	Short: "Extract survey charts and tables from the Gallup environment page",
	Long: `pollharvest turns the charts and data tables of the Gallup environment
topic page into nested records. Chart captions become series summaries;
flat and grouped tables become row and column mappings with units.

Use extract to fetch (or read) the page and emit JSON or YAML, runs to list
stored extractions, and export to write a stored run back out.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pollharvest.yaml or ~/.config/pollharvest/pollharvest.yaml)")
	rootCmd.PersistentFlags().String("db", "", "SQLite database for stored runs (default: data/pollharvest.db)")
	viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("db"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pollharvest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pollharvest"))
		}
	}

	viper.SetEnvPrefix("POLLHARVEST")
	viper.SetEnvKeyReplacer(envKeys)
	viper.AutomaticEnv()

	viper.SetDefault("fetch.url", "")
	viper.SetDefault("fetch.user_agent", "pollharvest/"+version)
	viper.SetDefault("fetch.timeout", "30s")
	viper.SetDefault("fetch.max_retries", 5)
	viper.SetDefault("extraction.mode", "fail-fast")
	viper.SetDefault("extraction.workers", 1)
	viper.SetDefault("extraction.group_slicing", "per-row")
	viper.SetDefault("extraction.duplicate_columns", "overwrite")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
