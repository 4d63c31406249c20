package formatter

import (
	"fmt"
	"strings"

	"siteline/internal/contract"
	"siteline/internal/dates"
	"siteline/internal/domain"
)

// FormatTaskList renders tasks as a table. Group rows are bolded; child
// titles are indented under their parents by the caller-provided depth map
// (nil means flat).
func FormatTaskList(tasks []*domain.Task, depths map[string]int) string {
	headers := []string{"ID", "Task", "Plan", "Actual", "Progress", "Status"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		title := t.Title
		if depths != nil {
			title = strings.Repeat("  ", depths[t.ID]) + title
		}
		if t.IsGroup() {
			title = Bold(title)
		}

		actual := Dim("-")
		if t.ActualStart != nil {
			end := "…"
			if t.ActualEnd != nil {
				end = dates.FormatShort(*t.ActualEnd)
			}
			actual = fmt.Sprintf("%s..%s", dates.FormatShort(*t.ActualStart), end)
		}

		rows = append(rows, []string{
			StyleBlue.Render(shortID(t.ID)),
			title,
			fmt.Sprintf("%s..%s", dates.FormatShort(t.PlanStart), dates.FormatShort(t.PlanEnd)),
			actual,
			RenderProgress(t.Progress, 10),
			StatusIndicator(t.Status),
		})
	}
	return RenderTable(headers, rows)
}

// FormatCommitResult summarizes a schedule edit for the terminal.
func FormatCommitResult(result contract.CommitResult) string {
	if result.IsNoop() {
		return Dim("No change.")
	}

	var parts []string
	direction := "later"
	shift := result.DayShift
	if shift < 0 {
		direction = "earlier"
		shift = -shift
	}
	parts = append(parts, fmt.Sprintf("Moved %d day(s) %s.", shift, direction))
	if result.CascadedDescendants > 0 {
		parts = append(parts, fmt.Sprintf("%d subtask(s) moved with it.", result.CascadedDescendants))
	}
	if result.CascadedSuccessors > 0 {
		parts = append(parts, StyleYellow.Render(
			fmt.Sprintf("%d dependent task(s) rescheduled.", result.CascadedSuccessors)))
	}
	return strings.Join(parts, " ")
}

// FormatImportResult summarizes a completed schedule import.
func FormatImportResult(projectName string, taskCount, depCount int) string {
	return fmt.Sprintf("%s %s (%d tasks, %d dependencies)",
		StyleGreen.Render("Imported"), Bold(projectName), taskCount, depCount)
}

func shortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
