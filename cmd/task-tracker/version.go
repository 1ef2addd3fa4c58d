// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"runtime"

	"github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of task-tracker and its SQLite library",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		writeVersion(cmd.OutOrStdout(), verbose)
	},
}

// writeVersion prints the build version and, when verbose, the linked
// SQLite library and Go runtime.
func writeVersion(w io.Writer, verbose bool) {
	fmt.Fprintf(w, "task-tracker %s\n", version)
	if !verbose {
		return
	}
	libVersion, _, sourceID := sqlite3.Version()
	fmt.Fprintf(w, "  sqlite  %s (%s)\n", libVersion, sourceID)
	fmt.Fprintf(w, "  go      %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func init() {
	versionCmd.Flags().BoolP("verbose", "v", false, "also print the SQLite and Go versions")
	rootCmd.AddCommand(versionCmd)
}
