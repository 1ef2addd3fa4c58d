// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prd

import (
	"regexp"
	"strings"
	"unicode/utf16"

	"github.com/pdiddy/task-tracker/pkg/types"
)

const (
	minParagraphLen = 10
	maxParagraphLen = 200
)

var blankLines = regexp.MustCompile(`\n\s*\n`)

// splitParagraphs splits text on runs of blank lines.
func splitParagraphs(text string) []string {
	return blankLines.Split(text, -1)
}

// textLen counts s in UTF-16 code units.
func textLen(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// skipTitle reports whether a paragraph's first line looks like markup
// rather than a task title.
func skipTitle(title string) bool {
	if title == "" {
		return true
	}
	switch title[0] {
	case '#', '*', '-', '=':
		return true
	}
	return false
}

// scanParagraphs is the paragraph fallback: every paragraph strictly
// between minParagraphLen and maxParagraphLen characters becomes a task
// whose first line is the title and remainder the description. Length is
// taken on the untrimmed paragraph.
func scanParagraphs(text string) []types.Task {
	var tasks []types.Task

	for _, para := range splitParagraphs(text) {
		n := textLen(para)
		if n <= minParagraphLen || n >= maxParagraphLen {
			continue
		}

		lines := strings.Split(para, "\n")
		title := strings.TrimSpace(lines[0])
		if skipTitle(title) {
			continue
		}

		priority := types.PriorityMedium
		if strings.Contains(strings.ToLower(title), "urgent") {
			priority = types.PriorityHigh
		}

		tasks = append(tasks, types.Task{
			Title:       title,
			Description: paragraphBody(lines[1:]),
			Priority:    priority,
			Status:      types.StatusTodo,
		})
	}

	return tasks
}

// paragraphBody joins the lines after the title, dropping carriage returns
// left by CRLF line endings.
func paragraphBody(lines []string) string {
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
