// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package display

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/task-tracker/internal/store"
	"github.com/pdiddy/task-tracker/pkg/types"
)

func storedTasks() []types.StoredTask {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return []types.StoredTask{
		{ID: 1, ProjectID: 1, CreatedAt: at, UpdatedAt: at, Task: types.Task{
			Title: "Write spec", Description: "line one\nline two", Priority: types.PriorityHigh,
			Status: types.StatusTodo, Role: types.RolePtr("Writer"),
		}},
		{ID: 2, ProjectID: 1, CreatedAt: at, UpdatedAt: at, Task: types.Task{
			Title: "Review spec", Priority: types.PriorityMedium, Status: types.StatusInProgress,
		}},
		{ID: 3, ProjectID: 1, CreatedAt: at, UpdatedAt: at, Task: types.Task{
			Title: "Ship", Priority: types.PriorityLow, Status: types.StatusCompleted,
		}},
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is far too long", 10, "this is..."},
		{"multi\nline", 20, "multi line"},
		{"anything", 3, "..."},
		{"anything", 2, ".."},
		{"anything", 0, ""},
		{"ab", 3, "ab"},
		{"", 2, ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.maxLen))
		})
	}
}

func TestCandidates(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Candidates([]types.Task{
		{Title: "Write spec", Description: "This is the body.", Priority: types.PriorityHigh, Status: types.StatusTodo, Role: types.RolePtr("Writer")},
		{Title: "Review spec", Priority: types.PriorityMedium, Status: types.StatusTodo},
	})

	out := buf.String()
	for _, want := range []string{"Title", "Write spec", "high", "Writer", "This is the body.", "Review spec", "2 tasks"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "\x1b[", "plain output expected for non-terminal writers")
}

func TestCandidatesEmpty(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Candidates(nil)
	assert.Equal(t, "No tasks found.\n", buf.String())
}

func TestTasks(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Tasks(storedTasks())

	out := buf.String()
	for _, want := range []string{"Write spec", "in progress", "completed", "Writer", "3 tasks"} {
		assert.Contains(t, out, want)
	}
}

func TestTask(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Task(storedTasks()[0])

	out := buf.String()
	assert.Contains(t, out, "#1 Write spec")
	assert.Contains(t, out, "role:     Writer")
	assert.Contains(t, out, "  line one\n  line two\n")
}

func TestBoard(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Board(storedTasks())

	out := buf.String()
	for _, want := range []string{"TODO (1)", "IN PROGRESS (1)", "COMPLETED (1)", "#1 Write spec", "@Writer", "#3 Ship"} {
		assert.Contains(t, out, want)
	}
	// Columns sit side by side, so the header row carries all three.
	header := strings.SplitN(out, "\n", 3)[1]
	assert.Contains(t, header, "TODO")
	assert.Contains(t, header, "COMPLETED")
}

func TestProjects(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Projects([]ProjectSummary{
		{Project: types.Project{ID: 7, Name: "Launch", Description: "Website"}, Counts: store.StatusCounts{Todo: 2, InProgress: 1}},
	})

	out := buf.String()
	for _, want := range []string{"Launch", "Website", "1 projects"} {
		assert.Contains(t, out, want)
	}
}
