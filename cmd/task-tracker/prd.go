// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/task-tracker/internal/display"
	"github.com/pdiddy/task-tracker/internal/prd"
	"github.com/pdiddy/task-tracker/internal/review"
	"github.com/pdiddy/task-tracker/internal/store"
	"github.com/pdiddy/task-tracker/pkg/types"
)

var prdCmd = &cobra.Command{
	Use:   "prd",
	Short: "Extract tasks from a PRD and import them into a project",
	Long: `PRD reads a product requirements document as plain text and extracts
task candidates. Task blocks start with a header line such as

  # Task: Write spec
  - TODO: Clean up
  2. Feature: Export
  Task 3: Ship it

and may carry "priority: high|medium|low" and "role: ..." lines; other
lines become the description. A "---" line closes a block. When no header
is found, every paragraph of 11 to 199 characters becomes a task, and
paragraphs whose first line mentions "urgent" get high priority.`,
}

// --- parse subcommand ---

var prdParseCmd = &cobra.Command{
	Use:   "parse [FILE|-]",
	Short: "Show the tasks a PRD would produce",
	Long: `Parse extracts task candidates from FILE (or stdin, or --text) and
prints them. With --out, the candidates are written to a YAML review file
that can be edited and passed to "prd import --review".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetString("text")
		out, _ := cmd.Flags().GetString("out")
		if save, _ := cmd.Flags().GetBool("save"); save && out == "" {
			out = cfg.Import.ReviewFile
		}
		jsonOutput, _ := cmd.Flags().GetBool("json")

		res, source, err := loadPRD(cmd.Context(), cmd.InOrStdin(), text, args)
		if err != nil {
			return err
		}
		return reportCandidates(res, source, out, jsonOutput, cmd.OutOrStdout())
	},
}

// loadPRD reads the PRD from --text, a file argument, or stdin ("-" or no
// argument) and extracts candidates. It returns the result and a label for
// the source.
func loadPRD(ctx context.Context, stdin io.Reader, text string, args []string) (prd.Result, string, error) {
	var (
		res    prd.Result
		source string
		err    error
	)

	switch {
	case text != "":
		source = "--text"
		res, err = prd.ParseContext(ctx, text)
	case len(args) == 0 || args[0] == "-":
		source = "-"
		data, readErr := io.ReadAll(stdin)
		if readErr != nil {
			return res, source, fmt.Errorf("reading stdin: %w", readErr)
		}
		res, err = prd.ParseContext(ctx, string(data))
	default:
		source = args[0]
		res, err = prd.ParseFile(ctx, source)
	}

	if err != nil {
		if errors.Is(err, prd.ErrUnreadable) {
			return res, source, fmt.Errorf("PRD %s could not be read as text: %w", source, err)
		}
		return res, source, err
	}

	logger.Debug("prd parsed", "source", source, "strategy", res.Strategy, "tasks", len(res.Tasks))
	return res, source, nil
}

func reportCandidates(res prd.Result, source, out string, jsonOutput bool, w io.Writer) error {
	if out != "" {
		if err := review.Write(out, source, res); err != nil {
			return err
		}
		fmt.Fprintf(w, "Wrote %d task candidates to %s\n", len(res.Tasks), out)
		return nil
	}

	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	display.New(w).Candidates(res.Tasks)
	if !res.Empty() {
		fmt.Fprintf(w, "strategy: %s\n", res.Strategy)
	}
	return nil
}

// --- import subcommand ---

var prdImportCmd = &cobra.Command{
	Use:   "import [FILE|-]",
	Short: "Extract tasks from a PRD and add them to a project",
	Long: `Import extracts task candidates from FILE (or stdin, or --text) and
adds them to --project in one transaction. With --review, candidates are
read from an edited review file written by "prd parse --out" instead.

When nothing is found, import reports that there is nothing to import and
succeeds without touching the database.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPRDImport,
}

// importOptions holds the resolved inputs of one import.
type importOptions struct {
	ProjectRef    string
	CreateProject bool
	DryRun        bool
	Tasks         []types.Task
}

func runPRDImport(cmd *cobra.Command, args []string) error {
	projectRef, _ := cmd.Flags().GetString("project")
	text, _ := cmd.Flags().GetString("text")
	reviewPath, _ := cmd.Flags().GetString("review")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	createProject := cfg.Import.CreateProject
	if cmd.Flags().Changed("create-project") {
		createProject, _ = cmd.Flags().GetBool("create-project")
	}

	var tasks []types.Task
	if reviewPath != "" {
		f, err := review.Read(reviewPath)
		if err != nil {
			return err
		}
		if tasks, err = f.Candidates(); err != nil {
			return err
		}
	} else {
		res, _, err := loadPRD(cmd.Context(), cmd.InOrStdin(), text, args)
		if err != nil {
			return err
		}
		tasks = res.Tasks
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	return importCandidates(cmd.Context(), st, importOptions{
		ProjectRef:    projectRef,
		CreateProject: createProject,
		DryRun:        dryRun,
		Tasks:         tasks,
	}, cmd.OutOrStdout())
}

// importCandidates forwards extracted tasks to the store.
func importCandidates(ctx context.Context, st *store.Store, opts importOptions, w io.Writer) error {
	if len(opts.Tasks) == 0 {
		fmt.Fprintln(w, "Nothing to import: no tasks found.")
		return nil
	}

	project, err := st.ResolveProject(ctx, opts.ProjectRef)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound) && opts.CreateProject && opts.DryRun:
		display.New(w).Candidates(opts.Tasks)
		fmt.Fprintf(w, "dry run: would create project %q and import %d tasks\n", opts.ProjectRef, len(opts.Tasks))
		return nil
	case errors.Is(err, store.ErrNotFound) && opts.CreateProject:
		if project, err = st.CreateProject(ctx, opts.ProjectRef, ""); err != nil {
			return err
		}
		fmt.Fprintf(w, "Created project %q (id %d)\n", project.Name, project.ID)
	default:
		return err
	}

	if opts.DryRun {
		display.New(w).Candidates(opts.Tasks)
		fmt.Fprintf(w, "dry run: would import %d tasks into %q\n", len(opts.Tasks), project.Name)
		return nil
	}

	summary, err := st.ImportTasks(ctx, project.ID, opts.Tasks)
	if err != nil {
		return fmt.Errorf("importing into %q: %w", project.Name, err)
	}
	fmt.Fprintf(w, "Imported %d tasks into %q\n", summary.Imported, project.Name)
	return nil
}

func init() {
	prdParseCmd.Flags().String("text", "", "PRD text to parse instead of a file")
	prdParseCmd.Flags().String("out", "", "write candidates to a YAML review file")
	prdParseCmd.Flags().Bool("save", false, "write candidates to the configured review file (import.review_file)")
	prdParseCmd.Flags().Bool("json", false, "output candidates as JSON")

	prdImportCmd.Flags().String("project", "", "target project name or id (required)")
	prdImportCmd.Flags().String("text", "", "PRD text to import instead of a file")
	prdImportCmd.Flags().String("review", "", "import candidates from an edited review file")
	prdImportCmd.Flags().Bool("create-project", false, "create the project if it does not exist")
	prdImportCmd.Flags().Bool("dry-run", false, "show what would be imported without writing")
	_ = prdImportCmd.MarkFlagRequired("project")

	prdCmd.AddCommand(prdParseCmd)
	prdCmd.AddCommand(prdImportCmd)

	rootCmd.AddCommand(prdCmd)
}
