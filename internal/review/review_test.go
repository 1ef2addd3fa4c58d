// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/task-tracker/internal/prd"
	"github.com/pdiddy/task-tracker/pkg/types"
)

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "review.yaml")

	res, err := prd.Parse("# Task: Write spec\npriority: high\nrole: Writer\nThis is the body.\n---\n# Task: Review spec")
	require.NoError(t, err)
	require.NoError(t, Write(path, "prd.txt", res))

	f, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "prd.txt", f.Source)
	assert.Equal(t, prd.StrategyMarkers, f.Strategy)
	assert.False(t, f.Generated.IsZero())

	got, err := f.Candidates()
	require.NoError(t, err)
	assert.Equal(t, res.Tasks, got)
}

func TestWriteEmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "review.yaml")
	require.NoError(t, Write(path, "", prd.Result{Strategy: prd.StrategyNone}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tasks: []")
}

func TestCandidatesNormalisesEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "review.yaml")
	edited := `source: prd.txt
strategy: markers
tasks:
  - title: "  Keep me  "
    description: "  trimmed body  "
    priority: HIGH
    status: completed
    role: "  "
  - title: ""
    description: removed by the reviewer
  - title: Defaulted
    role: QA
`
	require.NoError(t, os.WriteFile(path, []byte(edited), 0o644))

	f, err := Read(path)
	require.NoError(t, err)

	got, err := f.Candidates()
	require.NoError(t, err)
	assert.Equal(t, []types.Task{
		{Title: "Keep me", Description: "trimmed body", Priority: types.PriorityHigh, Status: types.StatusTodo},
		{Title: "Defaulted", Priority: types.PriorityMedium, Status: types.StatusTodo, Role: types.RolePtr("QA")},
	}, got)
}

func TestCandidatesRejectsUnknownPriority(t *testing.T) {
	f := &File{Tasks: []types.Task{{Title: "Bad", Priority: "urgent"}}}
	_, err := f.Candidates()
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidPriority)
	assert.Contains(t, err.Error(), "review entry 1")
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Read(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("tasks: [unclosed"), 0o644))
	_, err = Read(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing review file")
}
