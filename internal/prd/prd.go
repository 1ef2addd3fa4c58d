// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prd turns free-text product requirement documents into task
// candidates. It recognises a narrow family of semi-structured task-list
// conventions; it does not try to understand arbitrary prose.
//
// Two strategies run in order. The marker scan looks for header lines such
// as "# Task: ..." or "Task 3: ..." and accumulates priority, role, and
// description lines beneath them. Only when it finds nothing does the
// paragraph fallback treat each short paragraph as one task.
package prd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/task-tracker/pkg/types"
)

// ErrUnreadable is returned by Parse when scanning the input fails.
var ErrUnreadable = errors.New("unreadable PRD text")

// Strategy names the method that produced a Result.
type Strategy string

const (
	StrategyNone       Strategy = "none"
	StrategyMarkers    Strategy = "markers"
	StrategyParagraphs Strategy = "paragraphs"
)

// Result holds the candidates found in one document and the strategy that
// found them. An empty Result with StrategyNone means the text was readable
// but held no tasks.
type Result struct {
	Tasks    []types.Task `json:"tasks" yaml:"tasks"`
	Strategy Strategy     `json:"strategy" yaml:"strategy"`
}

// Empty reports whether no candidates were found.
func (r Result) Empty() bool {
	return len(r.Tasks) == 0
}

// Parse extracts task candidates from text in document order. The marker
// scan runs first; the paragraph fallback runs only if it found nothing.
// Invalid UTF-8 sequences are read as U+FFFD. A non-nil error wraps
// ErrUnreadable and comes with an empty Result.
func Parse(text string) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = emptyResult()
			err = fmt.Errorf("%w: %v", ErrUnreadable, r)
		}
	}()

	text = strings.ToValidUTF8(text, "\uFFFD")

	if tasks := scanMarkers(text); len(tasks) > 0 {
		return Result{Tasks: tasks, Strategy: StrategyMarkers}, nil
	}
	if tasks := scanParagraphs(text); len(tasks) > 0 {
		return Result{Tasks: tasks, Strategy: StrategyParagraphs}, nil
	}
	return emptyResult(), nil
}

// ParseContext is Parse for callers that thread a context through every
// collaborator. The scan itself does not block; ctx is checked once.
func ParseContext(ctx context.Context, text string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return emptyResult(), err
	}
	return Parse(text)
}

// ParseFile reads a plain-text PRD from path and parses it.
func ParseFile(ctx context.Context, path string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return emptyResult(), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return emptyResult(), fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(string(data))
}

// Extract is the fail-soft form of Parse: it never reports an error and
// returns an empty slice when the text is unreadable or holds no tasks.
func Extract(text string) []types.Task {
	res, err := Parse(text)
	if err != nil {
		return []types.Task{}
	}
	return res.Tasks
}

func emptyResult() Result {
	return Result{Tasks: []types.Task{}, Strategy: StrategyNone}
}
