// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prd

import (
	"regexp"
	"strings"

	"github.com/pdiddy/task-tracker/pkg/types"
)

var (
	// markedHeader matches a single marker, whitespace, and a label:
	// "# Task:", "* TODO:", "- Feature:", "2. Task:". Case-insensitive.
	markedHeader = regexp.MustCompile(`(?i)^(?:#|\*|-|\d+\.)\s+(?:Task|TODO|Feature):\s*`)

	// numberedHeader matches "Task 3:" at the start of the line.
	numberedHeader = regexp.MustCompile(`(?i)^Task\s+\d+:\s*`)

	priorityPattern = regexp.MustCompile(`(?i)priority:\s*(high|medium|low)`)
	rolePattern     = regexp.MustCompile(`(?i)role:\s*([^,;]+)`)
)

// isHeader reports whether line starts a new task block.
func isHeader(line string) bool {
	return markedHeader.MatchString(line) || numberedHeader.MatchString(line)
}

// headerTitle strips the marked prefix and then the numbered prefix, so
// "# Task: Task 2: Ship" yields "Ship".
func headerTitle(line string) string {
	title := markedHeader.ReplaceAllString(line, "")
	title = numberedHeader.ReplaceAllString(title, "")
	return strings.TrimSpace(title)
}

// isBlockEnd reports whether line closes the current task block.
func isBlockEnd(line string) bool {
	return line == "---" || strings.HasPrefix(line, "===")
}

// taskBuilder accumulates the fields of one task block.
type taskBuilder struct {
	title       string
	description string
	priority    types.Priority
	role        *string
}

func newTaskBuilder(title string) *taskBuilder {
	return &taskBuilder{title: title, priority: types.PriorityMedium}
}

func (b *taskBuilder) appendDescription(line string) {
	if b.description != "" {
		b.description += "\n" + line
		return
	}
	b.description = line
}

// build returns the finished candidate, or false when the block never had
// a title.
func (b *taskBuilder) build() (types.Task, bool) {
	if strings.TrimSpace(b.title) == "" {
		return types.Task{}, false
	}
	priority := b.priority
	if !priority.Valid() {
		priority = types.PriorityMedium
	}
	return types.Task{
		Title:       b.title,
		Description: b.description,
		Priority:    priority,
		Status:      types.StatusTodo,
		Role:        b.role,
	}, true
}

// lineRule classifies one body line of a task block. Rules are tried in
// order and the first match wins.
type lineRule struct {
	name  string
	match func(line string) ([]string, bool)
	apply func(b *taskBuilder, groups []string)
}

func regexpMatch(re *regexp.Regexp) func(string) ([]string, bool) {
	return func(line string) ([]string, bool) {
		m := re.FindStringSubmatch(line)
		return m, m != nil
	}
}

var bodyRules = []lineRule{
	{
		name:  "priority",
		match: regexpMatch(priorityPattern),
		apply: func(b *taskBuilder, groups []string) {
			p := types.Priority(strings.ToLower(groups[1]))
			if p == "" {
				p = types.PriorityMedium
			}
			b.priority = p
		},
	},
	{
		name:  "role",
		match: regexpMatch(rolePattern),
		apply: func(b *taskBuilder, groups []string) {
			if role := strings.TrimSpace(groups[1]); role != "" {
				b.role = &role
			}
		},
	},
	{
		name: "description",
		match: func(line string) ([]string, bool) {
			if line == "" || strings.HasPrefix(line, "---") {
				return nil, false
			}
			return []string{line}, true
		},
		apply: func(b *taskBuilder, groups []string) {
			b.appendDescription(groups[0])
		},
	},
}

// classify returns the first rule matching line, or nil.
func classify(line string) (*lineRule, []string) {
	for i := range bodyRules {
		if groups, ok := bodyRules[i].match(line); ok {
			return &bodyRules[i], groups
		}
	}
	return nil, nil
}

// scanState tracks where the marker scan is relative to a task block.
type scanState int

const (
	// stateIdle: no task has been started yet.
	stateIdle scanState = iota
	// stateAccumulating: body lines feed the current task.
	stateAccumulating
	// stateHolding: the block was closed by a rule line; the task waits to
	// be emitted at the next header or end of input.
	stateHolding
)

// scanMarkers is the marker scan. It returns candidates in document order.
func scanMarkers(text string) []types.Task {
	var (
		tasks   []types.Task
		current *taskBuilder
		state   = stateIdle
	)

	flush := func() {
		if current == nil {
			return
		}
		if t, ok := current.build(); ok {
			tasks = append(tasks, t)
		}
		current = nil
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)

		if isHeader(line) {
			flush()
			current = newTaskBuilder(headerTitle(line))
			state = stateAccumulating
			continue
		}

		if state != stateAccumulating || current == nil {
			continue
		}

		if rule, groups := classify(line); rule != nil {
			rule.apply(current, groups)
		}
		if isBlockEnd(line) {
			state = stateHolding
		}
	}

	flush()
	return tasks
}
