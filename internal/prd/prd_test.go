// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/task-tracker/pkg/types"
)

func task(title, desc string, p types.Priority, role string) types.Task {
	return types.Task{
		Title:       title,
		Description: desc,
		Priority:    p,
		Status:      types.StatusTodo,
		Role:        types.RolePtr(role),
	}
}

func TestParseMarkers(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []types.Task
	}{
		{
			name: "two tasks separated by rule",
			text: "# Task: Write spec\npriority: high\nrole: Writer\nThis is the body.\n---\n# Task: Review spec\nThis is another body.",
			want: []types.Task{
				task("Write spec", "This is the body.", types.PriorityHigh, "Writer"),
				task("Review spec", "This is another body.", types.PriorityMedium, ""),
			},
		},
		{
			name: "lonely header",
			text: "# Task: Lonely",
			want: []types.Task{task("Lonely", "", types.PriorityMedium, "")},
		},
		{
			name: "all marker and label forms",
			text: "# Feature: Login page\n* TODO: Clean up\n- Task: Write tests\n3. Feature: Export\nTask 5: Ship it\nTASK 6: Announce",
			want: []types.Task{
				task("Login page", "", types.PriorityMedium, ""),
				task("Clean up", "", types.PriorityMedium, ""),
				task("Write tests", "", types.PriorityMedium, ""),
				task("Export", "", types.PriorityMedium, ""),
				task("Ship it", "", types.PriorityMedium, ""),
				task("Announce", "", types.PriorityMedium, ""),
			},
		},
		{
			name: "header words are case-insensitive",
			text: "# task: lowercase header\nbody\n- todo: quiet\n2. FEATURE: loud",
			want: []types.Task{
				task("lowercase header", "body", types.PriorityMedium, ""),
				task("quiet", "", types.PriorityMedium, ""),
				task("loud", "", types.PriorityMedium, ""),
			},
		},
		{
			name: "numbered label after marked label is stripped too",
			text: "# Task: Task 2: nested",
			want: []types.Task{task("nested", "", types.PriorityMedium, "")},
		},
		{
			name: "multi-line description",
			text: "# Task: Build API\nFirst line.\n\n  Second line.  \nThird line.",
			want: []types.Task{task("Build API", "First line.\nSecond line.\nThird line.", types.PriorityMedium, "")},
		},
		{
			name: "unrecognised priority is description",
			text: "# Task: Triage\npriority: urgent",
			want: []types.Task{task("Triage", "priority: urgent", types.PriorityMedium, "")},
		},
		{
			name: "unrecognised priority keeps earlier value",
			text: "# Task: Triage\npriority: low\npriority: urgent",
			want: []types.Task{task("Triage", "priority: urgent", types.PriorityLow, "")},
		},
		{
			name: "priority and role are case-insensitive",
			text: "# Task: Deploy\nPRIORITY: HIGH\nRole:   Ops Engineer  ",
			want: []types.Task{task("Deploy", "", types.PriorityHigh, "Ops Engineer")},
		},
		{
			name: "role stops at comma or semicolon",
			text: "# Task: Pair\nrole: Backend, Frontend\n# Task: Solo\nrole: QA; later",
			want: []types.Task{
				task("Pair", "", types.PriorityMedium, "Backend"),
				task("Solo", "", types.PriorityMedium, "QA"),
			},
		},
		{
			name: "blank role capture leaves role unset",
			text: "# Task: Nobody\nrole: ;",
			want: []types.Task{task("Nobody", "", types.PriorityMedium, "")},
		},
		{
			name: "priority rule wins over role on the same line",
			text: "# Task: Both\npriority: low role: Dev",
			want: []types.Task{task("Both", "", types.PriorityLow, "")},
		},
		{
			name: "lines after rule are ignored until next header",
			text: "# Task: First\nbody\n---\npriority: high\nrole: Ghost\nignored text\n# Task: Second",
			want: []types.Task{
				task("First", "body", types.PriorityMedium, ""),
				task("Second", "", types.PriorityMedium, ""),
			},
		},
		{
			name: "equals rule is kept then closes block",
			text: "# Task: Heading\nbody\n=====\nafter",
			want: []types.Task{task("Heading", "body\n=====", types.PriorityMedium, "")},
		},
		{
			name: "longer dash rule is not description and does not close",
			text: "# Task: Dashes\n-----\nstill body",
			want: []types.Task{task("Dashes", "still body", types.PriorityMedium, "")},
		},
		{
			name: "text before first header is ignored",
			text: "Intro paragraph about the product.\n\n# Task: Only one\ndetails",
			want: []types.Task{task("Only one", "details", types.PriorityMedium, "")},
		},
		{
			name: "empty header title is dropped",
			text: "# Task:\nsome body\n# Task: Kept",
			want: []types.Task{task("Kept", "", types.PriorityMedium, "")},
		},
		{
			name: "windows line endings",
			text: "# Task: CRLF\r\npriority: low\r\nbody\r\n",
			want: []types.Task{task("CRLF", "body", types.PriorityLow, "")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse(tt.text)
			require.NoError(t, err)
			assert.Equal(t, StrategyMarkers, res.Strategy)
			assert.Equal(t, tt.want, res.Tasks)
		})
	}
}

func TestParseParagraphs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []types.Task
	}{
		{
			name: "urgent sets high priority",
			text: "Fix the urgent login bug\nUsers cannot log in.\n\nUpdate documentation\nAdd new examples.",
			want: []types.Task{
				task("Fix the urgent login bug", "Users cannot log in.", types.PriorityHigh, ""),
				task("Update documentation", "Add new examples.", types.PriorityMedium, ""),
			},
		},
		{
			name: "several blank lines between paragraphs",
			text: "URGENT: rotate keys\n\n\n   \nRefresh the dashboard",
			want: []types.Task{
				task("URGENT: rotate keys", "", types.PriorityHigh, ""),
				task("Refresh the dashboard", "", types.PriorityMedium, ""),
			},
		},
		{
			name: "markup titles are skipped",
			text: "# Overview heading\n\n* bullet item here\n\n- dash item here\n\n=== banner ===\n\nReal task title",
			want: []types.Task{task("Real task title", "", types.PriorityMedium, "")},
		},
		{
			name: "trailing newline counts toward length",
			text: "Fix a bugs\n",
			want: []types.Task{task("Fix a bugs", "", types.PriorityMedium, "")},
		},
		{
			name: "length counts UTF-16 code units",
			text: strings.Repeat("\U0001F600", 6),
			want: []types.Task{task(strings.Repeat("\U0001F600", 6), "", types.PriorityMedium, "")},
		},
		{
			name: "crlf paragraphs",
			text: "Update the docs\r\nAdd examples.\r\nFix links.\r\n\r\nShip release notes",
			want: []types.Task{
				task("Update the docs", "Add examples.\nFix links.", types.PriorityMedium, ""),
				task("Ship release notes", "", types.PriorityMedium, ""),
			},
		},
		{
			name: "length bounds are exclusive",
			text: "abcdefghij\n\nabcdefghijk\n\n" + strings.Repeat("x", 200) + "\n\n" + strings.Repeat("y", 199),
			want: []types.Task{
				task("abcdefghijk", "", types.PriorityMedium, ""),
				task(strings.Repeat("y", 199), "", types.PriorityMedium, ""),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse(tt.text)
			require.NoError(t, err)
			assert.Equal(t, StrategyParagraphs, res.Strategy)
			assert.Equal(t, tt.want, res.Tasks)
		})
	}
}

func TestParseFallbackOnlyWhenMarkersEmpty(t *testing.T) {
	text := "Some introduction text\nwith two lines.\n\n# Task: Marked\nbody"
	res, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, StrategyMarkers, res.Strategy)
	require.Len(t, res.Tasks, 1)
	assert.Equal(t, "Marked", res.Tasks[0].Title)
}

func TestParseEmpty(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty string", ""},
		{"whitespace", "  \n\n\t\n"},
		{"short paragraphs", "too short\n\nalso tiny"},
		{"empty header only", "# Task:"},
		{"empty header with body", "# Task:\nsome body"},
		{"markup only", "# Heading one here\n\n- a bullet point"},
		{"leading newline leaves an empty title", "\nFix the login bug\nmore"},
		{"ten characters with no newline", "Fix a bug!"},
		{"doubled marker", "## Task: not a header here"},
		{"marker without space", "#Task: not a header here"},
		{"marker before numbered label", "# Task 3: marker plus number"},
		{"space before colon", "# Task : spaced colon here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse(tt.text)
			require.NoError(t, err)
			assert.True(t, res.Empty())
			assert.Equal(t, StrategyNone, res.Strategy)
			assert.NotNil(t, res.Tasks)
		})
	}
}

func TestParseInvalidUTF8(t *testing.T) {
	text := "# Task: Broken \xff\xfe\nbody \xc3"

	res, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, StrategyMarkers, res.Strategy)
	assert.Equal(t, []types.Task{task("Broken \uFFFD", "body \uFFFD", types.PriorityMedium, "")}, res.Tasks)
	assert.Equal(t, res.Tasks, Extract(text))
}

func TestExtractIdempotent(t *testing.T) {
	text := "# Task: A\npriority: low\nrole: Dev\nbody\n---\nTask 2: B\nmore"
	first := Extract(text)
	second := Extract(text)
	assert.Equal(t, first, second)
	require.Len(t, first, 2)

	// Results do not share role pointers between calls.
	first[0].Role = types.RolePtr("changed")
	assert.Equal(t, "Dev", *Extract(text)[0].Role)
}

func TestParseContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := ParseContext(ctx, "# Task: Never")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res.Tasks)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prd.txt")
	require.NoError(t, os.WriteFile(path, []byte("# Task: From file\npriority: high"), 0o644))

	res, err := ParseFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []types.Task{task("From file", "", types.PriorityHigh, "")}, res.Tasks)

	_, err = ParseFile(context.Background(), filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnreadable))
}

func TestHeaderMatching(t *testing.T) {
	tests := []struct {
		line      string
		isHeader  bool
		wantTitle string
	}{
		{"# Task: Write spec", true, "Write spec"},
		{"* Feature: Search", true, "Search"},
		{"- Task:no space after colon", true, "no space after colon"},
		{"12. Task: Numbered", true, "Numbered"},
		{"Task 7: Bare numbered", true, "Bare numbered"},
		{"task 8:lower numbered", true, "lower numbered"},
		{"# task: lowercase", true, "lowercase"},
		{"* Todo: mixed case", true, "mixed case"},
		{"- Feature: Task 4: both prefixes", true, "both prefixes"},
		{"# Task:", true, ""},
		{"### TODO: deep heading", false, ""},
		{"#Task: no space after marker", false, ""},
		{"# Task 6: marker and number", false, ""},
		{"# Task : space before colon", false, ""},
		{"Task 7 : space before colon", false, ""},
		{"Task: bare label", false, ""},
		{"# Tasks: plural", false, ""},
		{"Feature 2: unnumbered label form", false, ""},
		{"plain text", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.isHeader, isHeader(tt.line))
			if tt.isHeader {
				assert.Equal(t, tt.wantTitle, headerTitle(tt.line))
			}
		})
	}
}

func TestClassifyPrecedence(t *testing.T) {
	tests := []struct {
		line     string
		wantRule string
	}{
		{"priority: high", "priority"},
		{"Priority:low", "priority"},
		{"role: Designer", "role"},
		{"priority: urgent", "description"},
		{"plain body text", "description"},
		{"---", ""},
		{"--- trailing", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			rule, _ := classify(tt.line)
			if tt.wantRule == "" {
				assert.Nil(t, rule)
				return
			}
			require.NotNil(t, rule)
			assert.Equal(t, tt.wantRule, rule.name)
		})
	}
}

func TestIsBlockEnd(t *testing.T) {
	assert.True(t, isBlockEnd("---"))
	assert.True(t, isBlockEnd("==="))
	assert.True(t, isBlockEnd("=== Section ==="))
	assert.False(t, isBlockEnd("----"))
	assert.False(t, isBlockEnd("body"))
}
