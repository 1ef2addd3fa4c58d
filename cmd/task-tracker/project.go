// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/task-tracker/internal/display"
	"github.com/pdiddy/task-tracker/internal/store"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Create, list, show, and delete projects",
}

// --- create subcommand ---

var projectCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		p, err := st.CreateProject(cmd.Context(), args[0], description)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created project %q (id %d)\n", p.Name, p.ID)
		return nil
	},
}

// --- list subcommand ---

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects with task counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		return listProjects(cmd.Context(), st, cmd.OutOrStdout())
	},
}

func listProjects(ctx context.Context, st *store.Store, w io.Writer) error {
	projects, err := st.ListProjects(ctx)
	if err != nil {
		return err
	}

	summaries := make([]display.ProjectSummary, 0, len(projects))
	for _, p := range projects {
		counts, err := st.Stats(ctx, p.ID)
		if err != nil {
			return err
		}
		summaries = append(summaries, display.ProjectSummary{Project: p, Counts: counts})
	}

	display.New(w).Projects(summaries)
	return nil
}

// --- show subcommand ---

var projectShowCmd = &cobra.Command{
	Use:   "show PROJECT",
	Short: "Show a project's details and tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		return showProject(cmd.Context(), st, args[0], cmd.OutOrStdout())
	},
}

func showProject(ctx context.Context, st *store.Store, ref string, w io.Writer) error {
	p, err := st.ResolveProject(ctx, ref)
	if err != nil {
		return err
	}
	counts, err := st.Stats(ctx, p.ID)
	if err != nil {
		return err
	}
	tasks, err := st.ListTasks(ctx, store.TaskFilter{ProjectID: p.ID, Limit: -1})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s (id %d)\n", p.Name, p.ID)
	if p.Description != "" {
		fmt.Fprintln(w, p.Description)
	}
	fmt.Fprintf(w, "created %s; todo: %d, in progress: %d, completed: %d\n\n",
		p.CreatedAt.Format("2006-01-02"), counts.Todo, counts.InProgress, counts.Completed)

	display.New(w).Tasks(tasks)
	return nil
}

// --- delete subcommand ---

var projectDeleteCmd = &cobra.Command{
	Use:   "delete PROJECT",
	Short: "Delete a project and all of its tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		p, err := st.ResolveProject(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		counts, err := st.Stats(cmd.Context(), p.ID)
		if err != nil {
			return err
		}
		if counts.Total() > 0 && !force {
			return fmt.Errorf("project %q has %d task(s); rerun with --force to delete them", p.Name, counts.Total())
		}

		if err := st.DeleteProject(cmd.Context(), p.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %q (%d tasks)\n", p.Name, counts.Total())
		return nil
	},
}

func init() {
	projectCreateCmd.Flags().String("description", "", "project description")
	projectDeleteCmd.Flags().Bool("force", false, "delete even when the project still has tasks")

	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectDeleteCmd)

	rootCmd.AddCommand(projectCmd)
}
