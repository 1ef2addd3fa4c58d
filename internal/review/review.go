// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package review saves PRD task candidates to a YAML file that a person can
// edit before import, and loads the edited file back.
package review

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/task-tracker/internal/prd"
	"github.com/pdiddy/task-tracker/pkg/types"
)

// File is the on-disk review document.
type File struct {
	// Source is the PRD path the candidates came from ("-" for stdin).
	Source string `yaml:"source,omitempty"`

	// Strategy records how the extractor found the candidates.
	Strategy prd.Strategy `yaml:"strategy"`

	// Generated is when the file was written.
	Generated time.Time `yaml:"generated"`

	// Tasks are the candidates, in document order.
	Tasks []types.Task `yaml:"tasks"`
}

// Write saves the candidates in res to path.
func Write(path, source string, res prd.Result) error {
	f := File{
		Source:    source,
		Strategy:  res.Strategy,
		Generated: time.Now().UTC(),
		Tasks:     res.Tasks,
	}
	if f.Tasks == nil {
		f.Tasks = []types.Task{}
	}

	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshaling review file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Read loads a review file from disk.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading review file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing review file: %w", err)
	}
	return &f, nil
}

// Candidates returns the edited tasks ready for import. Entries whose title
// was cleared are dropped. A missing priority becomes medium, blank roles
// become nil, and every status is reset to todo. An unknown priority is an
// error naming the entry.
func (f *File) Candidates() ([]types.Task, error) {
	tasks := make([]types.Task, 0, len(f.Tasks))
	for i, t := range f.Tasks {
		t.Title = strings.TrimSpace(t.Title)
		if t.Title == "" {
			continue
		}

		if t.Priority == "" {
			t.Priority = types.PriorityMedium
		} else {
			p, err := types.ParsePriority(string(t.Priority))
			if err != nil {
				return nil, fmt.Errorf("review entry %d (%q): %w", i+1, t.Title, err)
			}
			t.Priority = p
		}

		t.Description = strings.TrimSpace(t.Description)
		t.Role = types.RolePtr(t.RoleName())
		t.Status = types.StatusTodo
		tasks = append(tasks, t)
	}
	return tasks, nil
}
