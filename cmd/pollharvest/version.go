package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of pollharvest",
	Run: func(cmd *cobra.Command, args []string) {
		info, _ := debug.ReadBuildInfo()
		fmt.Fprintln(cmd.OutOrStdout(), versionLine(version, info))
	},
}

// versionLine formats the version with the Go runtime and, when the
// binary was built from a checkout, the short VCS revision.
func versionLine(v string, info *debug.BuildInfo) string {
	line := fmt.Sprintf("pollharvest %s (%s %s/%s", v, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if info != nil {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				line += ", " + s.Value[:7]
			}
		}
	}
	return line + ")"
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
