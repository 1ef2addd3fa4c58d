// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tasks to YAML or JSON",
	Long: `Export writes tasks, optionally filtered by project, status, or
priority, as a YAML or JSON document with per-status counts. Output goes to
stdout unless --out names a file.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("out")

	if format != "yaml" && format != "json" {
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	f, err := taskFilterFromFlags(cmd.Context(), cmd, args, st)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if outPath != "" {
		file, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer file.Close()
		w = file
	}

	switch format {
	case "json":
		err = st.ExportJSON(cmd.Context(), w, f)
	default:
		err = st.ExportYAML(cmd.Context(), w, f)
	}
	if err != nil {
		return err
	}

	if outPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", outPath)
	}
	return nil
}

func init() {
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	exportCmd.Flags().String("out", "", "write to this file instead of stdout")
	exportCmd.Flags().String("project", "", "export one project (name or id)")
	exportCmd.Flags().String("status", "", "filter by status")
	exportCmd.Flags().String("priority", "", "filter by priority")
	exportCmd.Flags().String("query", "", "match text in title or description")

	rootCmd.AddCommand(exportCmd)
}
