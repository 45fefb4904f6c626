// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskman/internal/service"
)

// FormatTask formats a task line for the list.
// Format: "{ID:>4}  [x] {TITLE}\n" (4-wide right-aligned id, two spaces, check box, title)
func FormatTask(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", task.IDValue(), checkBox(task.Completed), normalizeTitle(task.Title))
}

// FormatTaskDetail formats a single task as "key: value" lines.
func FormatTaskDetail(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "id:        %d\n", task.IDValue())
	fmt.Fprintf(w, "title:     %s\n", normalizeTitle(task.Title))
	fmt.Fprintf(w, "completed: %t\n", task.Completed)
	if task.UserID != nil {
		fmt.Fprintf(w, "user:      %d\n", *task.UserID)
	}
}

func checkBox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	// Replace newlines with spaces
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	// Trim and check for empty
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
