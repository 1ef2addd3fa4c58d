// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/task-tracker/pkg/types"
)

// Export is the document written by ExportYAML and ExportJSON.
type Export struct {
	Project  *types.Project     `json:"project,omitempty" yaml:"project,omitempty"`
	Exported time.Time          `json:"exported" yaml:"exported"`
	Counts   StatusCounts       `json:"counts" yaml:"counts"`
	Tasks    []types.StoredTask `json:"tasks" yaml:"tasks"`
}

// ExportYAML writes the tasks matching f to w as YAML.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer, f TaskFilter) error {
	doc, err := s.exportDocument(ctx, f)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes the tasks matching f to w as indented JSON.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer, f TaskFilter) error {
	doc, err := s.exportDocument(ctx, f)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

func (s *Store) exportDocument(ctx context.Context, f TaskFilter) (*Export, error) {
	doc := &Export{Exported: s.now()}

	if f.ProjectID != 0 {
		p, err := s.GetProject(ctx, f.ProjectID)
		if err != nil {
			return nil, err
		}
		doc.Project = &p
	}

	f.Limit = -1
	tasks, err := s.ListTasks(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if tasks == nil {
		tasks = []types.StoredTask{}
	}
	doc.Tasks = tasks

	for _, t := range tasks {
		switch t.Status {
		case types.StatusTodo:
			doc.Counts.Todo++
		case types.StatusInProgress:
			doc.Counts.InProgress++
		case types.StatusCompleted:
			doc.Counts.Completed++
		}
	}
	return doc, nil
}
