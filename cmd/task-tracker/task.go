// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pdiddy/task-tracker/internal/display"
	"github.com/pdiddy/task-tracker/internal/store"
	"github.com/pdiddy/task-tracker/pkg/types"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Add, list, and move tasks through the workflow",
	Long: `Task manages individual tasks. Each task belongs to a project and moves
through the workflow todo -> in_progress -> completed.`,
}

// --- add subcommand ---

var taskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a task to a project",
	Args:  cobra.NoArgs,
	RunE:  runTaskAdd,
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	projectRef, _ := cmd.Flags().GetString("project")
	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")
	priorityFlag, _ := cmd.Flags().GetString("priority")
	role, _ := cmd.Flags().GetString("role")
	statusFlag, _ := cmd.Flags().GetString("status")

	priority := cfg.Task.DefaultPriority
	if priorityFlag != "" {
		p, err := types.ParsePriority(priorityFlag)
		if err != nil {
			return err
		}
		priority = p
	}
	if !priority.Valid() {
		priority = types.PriorityMedium
	}

	status, err := types.ParseStatus(statusFlag)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := st.ResolveProject(cmd.Context(), projectRef)
	if err != nil {
		return err
	}

	t, err := st.AddTask(cmd.Context(), p.ID, types.Task{
		Title:       title,
		Description: description,
		Priority:    priority,
		Status:      status,
		Role:        types.RolePtr(role),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added task %d to %q: %s\n", t.ID, p.Name, t.Title)
	return nil
}

// --- list subcommand ---

var taskListCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List tasks with optional filters",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		f, err := taskFilterFromFlags(cmd.Context(), cmd, args, st)
		if err != nil {
			return err
		}
		jsonOutput, _ := cmd.Flags().GetBool("json")
		return listTasks(cmd.Context(), st, f, jsonOutput, cmd.OutOrStdout())
	},
}

func listTasks(ctx context.Context, st *store.Store, f store.TaskFilter, jsonOutput bool, w io.Writer) error {
	tasks, err := st.ListTasks(ctx, f)
	if err != nil {
		return err
	}

	if jsonOutput {
		if tasks == nil {
			tasks = []types.StoredTask{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	}

	display.New(w).Tasks(tasks)
	return nil
}

// --- show subcommand ---

var taskShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one task with its full description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		t, err := st.GetTask(cmd.Context(), id)
		if err != nil {
			return err
		}
		display.New(cmd.OutOrStdout()).Task(t)
		return nil
	},
}

// --- board subcommand ---

var taskBoardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show a project's tasks in workflow columns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		f, err := taskFilterFromFlags(cmd.Context(), cmd, args, st)
		if err != nil {
			return err
		}
		f.Limit = -1
		tasks, err := st.ListTasks(cmd.Context(), f)
		if err != nil {
			return err
		}
		display.New(cmd.OutOrStdout()).Board(tasks)
		return nil
	},
}

// --- workflow subcommands ---

// statusCommand returns a command that moves a task to a fixed status.
func statusCommand(use, short string, status types.Status) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTask(cmd, args[0], func(ctx context.Context, st *store.Store, id int64) (types.StoredTask, error) {
				return st.UpdateTaskStatus(ctx, id, status)
			})
		},
	}
}

var taskAdvanceCmd = &cobra.Command{
	Use:   "advance ID",
	Short: "Move a task to the next workflow step",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTask(cmd, args[0], func(ctx context.Context, st *store.Store, id int64) (types.StoredTask, error) {
			return st.AdvanceTask(ctx, id)
		})
	},
}

var taskStatusCmd = &cobra.Command{
	Use:   "status ID STATUS",
	Short: "Set a task's status (todo, in_progress, completed)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := types.ParseStatus(args[1])
		if err != nil {
			return err
		}
		return withTask(cmd, args[0], func(ctx context.Context, st *store.Store, id int64) (types.StoredTask, error) {
			return st.UpdateTaskStatus(ctx, id, status)
		})
	},
}

// withTask opens the store, applies fn to the task with the given ID, and
// reports the resulting status.
func withTask(cmd *cobra.Command, idArg string, fn func(context.Context, *store.Store, int64) (types.StoredTask, error)) error {
	id, err := parseTaskID(idArg)
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	t, err := fn(cmd.Context(), st, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Task %d is now %s: %s\n", t.ID, t.Status.Label(), t.Title)
	return nil
}

// --- edit subcommand ---

var taskEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit a task's title, description, priority, or role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTask(cmd, args[0], func(ctx context.Context, st *store.Store, id int64) (types.StoredTask, error) {
			current, err := st.GetTask(ctx, id)
			if err != nil {
				return types.StoredTask{}, err
			}
			edited, err := applyTaskEdits(cmd, current.Task)
			if err != nil {
				return types.StoredTask{}, err
			}
			return st.UpdateTask(ctx, id, edited)
		})
	},
}

// applyTaskEdits overlays the flags the user set on t.
func applyTaskEdits(cmd *cobra.Command, t types.Task) (types.Task, error) {
	flags := cmd.Flags()
	if flags.Changed("title") {
		t.Title, _ = flags.GetString("title")
	}
	if flags.Changed("description") {
		t.Description, _ = flags.GetString("description")
	}
	if flags.Changed("priority") {
		v, _ := flags.GetString("priority")
		p, err := types.ParsePriority(v)
		if err != nil {
			return t, err
		}
		t.Priority = p
	}
	if flags.Changed("role") {
		v, _ := flags.GetString("role")
		t.Role = types.RolePtr(v)
	}
	return t, nil
}

// --- delete subcommand ---

var taskDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeleteTask(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d\n", id)
		return nil
	},
}

// --- shared helpers ---

func parseTaskID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}

// taskFilterFromFlags builds a TaskFilter from the list/board/export flags.
// Flags a command does not define are ignored.
func taskFilterFromFlags(ctx context.Context, cmd *cobra.Command, args []string, st *store.Store) (store.TaskFilter, error) {
	var f store.TaskFilter
	flags := cmd.Flags()

	if projectRef, _ := flags.GetString("project"); projectRef != "" {
		p, err := st.ResolveProject(ctx, projectRef)
		if err != nil {
			return f, err
		}
		f.ProjectID = p.ID
	}
	if v, _ := flags.GetString("status"); v != "" {
		status, err := types.ParseStatus(v)
		if err != nil {
			return f, err
		}
		f.Status = status
	}
	if v, _ := flags.GetString("priority"); v != "" {
		priority, err := types.ParsePriority(v)
		if err != nil {
			return f, err
		}
		f.Priority = priority
	}

	f.Query, _ = flags.GetString("query")
	if f.Query == "" && len(args) > 0 {
		f.Query = args[0]
	}
	f.Limit, _ = flags.GetInt("limit")
	return f, nil
}

func init() {
	taskAddCmd.Flags().String("project", "", "project name or id (required)")
	taskAddCmd.Flags().String("title", "", "task title (required)")
	taskAddCmd.Flags().String("description", "", "task description")
	taskAddCmd.Flags().String("priority", "", "priority: low, medium, high (default from config)")
	taskAddCmd.Flags().String("role", "", "responsible role")
	taskAddCmd.Flags().String("status", string(types.StatusTodo), "initial status: todo, in_progress, completed")
	_ = taskAddCmd.MarkFlagRequired("project")
	_ = taskAddCmd.MarkFlagRequired("title")

	taskListCmd.Flags().String("project", "", "filter by project name or id")
	taskListCmd.Flags().String("status", "", "filter by status: todo, in_progress, completed")
	taskListCmd.Flags().String("priority", "", "filter by priority: low, medium, high")
	taskListCmd.Flags().String("query", "", "match text in title or description")
	taskListCmd.Flags().Int("limit", 0, "maximum results (0 = use config default)")
	taskListCmd.Flags().Bool("json", false, "output tasks as JSON")

	taskBoardCmd.Flags().String("project", "", "project name or id (required)")
	taskBoardCmd.Flags().String("priority", "", "filter by priority: low, medium, high")
	_ = taskBoardCmd.MarkFlagRequired("project")

	taskEditCmd.Flags().String("title", "", "new title")
	taskEditCmd.Flags().String("description", "", "new description")
	taskEditCmd.Flags().String("priority", "", "new priority: low, medium, high")
	taskEditCmd.Flags().String("role", "", "new role (empty clears it)")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskBoardCmd)
	taskCmd.AddCommand(statusCommand("start", "Move a task to in_progress", types.StatusInProgress))
	taskCmd.AddCommand(statusCommand("complete", "Move a task to completed", types.StatusCompleted))
	taskCmd.AddCommand(taskAdvanceCmd)
	taskCmd.AddCommand(taskStatusCmd)
	taskCmd.AddCommand(taskEditCmd)
	taskCmd.AddCommand(taskDeleteCmd)

	rootCmd.AddCommand(taskCmd)
}
