// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/task-tracker/pkg/types"
)

const projectColumns = `id, name, description, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (types.Project, error) {
	var (
		p       types.Project
		created string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &created); err != nil {
		return types.Project{}, err
	}
	p.CreatedAt = parseTime(created)
	return p, nil
}

// CreateProject inserts a new project. Names must be non-empty and unique.
func (s *Store) CreateProject(ctx context.Context, name, description string) (types.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Project{}, errors.New("project name is empty")
	}

	created := s.now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (name, description, created_at) VALUES (?, ?, ?)`,
		name, description, formatTime(created),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return types.Project{}, fmt.Errorf("%w: %q", ErrDuplicateProject, name)
		}
		return types.Project{}, fmt.Errorf("inserting project: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return types.Project{}, fmt.Errorf("reading project id: %w", err)
	}

	s.log.Debug("project created", "id", id, "name", name)
	return types.Project{ID: id, Name: name, Description: description, CreatedAt: created}, nil
}

// ListProjects returns all projects, newest first.
func (s *Store) ListProjects(ctx context.Context) ([]types.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	defer rows.Close()

	var projects []types.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetProject returns the project with the given ID.
func (s *Store) GetProject(ctx context.Context, id int64) (types.Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Project{}, fmt.Errorf("project %d: %w", id, ErrNotFound)
		}
		return types.Project{}, fmt.Errorf("looking up project: %w", err)
	}
	return p, nil
}

// FindProject returns the project with the given name.
func (s *Store) FindProject(ctx context.Context, name string) (types.Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE name = ?`, strings.TrimSpace(name)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Project{}, fmt.Errorf("project %q: %w", name, ErrNotFound)
		}
		return types.Project{}, fmt.Errorf("looking up project: %w", err)
	}
	return p, nil
}

// ResolveProject looks a project up by name, falling back to a numeric ID.
func (s *Store) ResolveProject(ctx context.Context, ref string) (types.Project, error) {
	p, err := s.FindProject(ctx, ref)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return p, err
	}
	id, convErr := strconv.ParseInt(strings.TrimSpace(ref), 10, 64)
	if convErr != nil {
		return types.Project{}, err
	}
	return s.GetProject(ctx, id)
}

// DeleteProject removes a project and all of its tasks.
func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	s.log.Debug("project deleted", "id", id)
	return nil
}
