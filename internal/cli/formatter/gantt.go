package formatter

import (
	"fmt"
	"strings"

	"siteline/internal/dates"
	"siteline/internal/service"
)

const (
	planBlock   = "▒"
	actualBlock = "█"
	laneEmpty   = " "
)

// FormatTimeline renders a schedule view as a text gantt chart. Each row
// shows the task title indented by depth, its status, and a lane where the
// plan bar is drawn hollow and the actual bar is drawn solid on top.
func FormatTimeline(view *service.TimelineView, laneWidth int) string {
	if view == nil || len(view.Rows) == 0 {
		return Dim("No tasks scheduled.")
	}
	if laneWidth < 10 {
		laneWidth = 10
	}

	titleWidth := 0
	for _, row := range view.Rows {
		if w := len(rowTitle(row)); w > titleWidth {
			titleWidth = w
		}
	}

	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("%s  %s .. %s",
		view.Project.Name,
		dates.FormatISO(view.Window.Start),
		dates.FormatISO(view.Window.End))))
	b.WriteString("\n")

	weekends := weekendColumns(view, laneWidth)
	for _, row := range view.Rows {
		title := rowTitle(row)
		pad := strings.Repeat(" ", titleWidth-len(title))

		lane := renderLane(row, view.Width, laneWidth, weekends)
		styledTitle := StyleFg.Render(title)
		if row.Task.IsGroup() {
			styledTitle = Bold(title)
		}
		b.WriteString(fmt.Sprintf("%s%s  %s\n", styledTitle, pad, lane))
	}
	return strings.TrimRight(b.String(), "\n")
}

func rowTitle(row service.TimelineRow) string {
	return strings.Repeat("  ", row.Depth) + row.Task.Title
}

// weekendColumns marks lane columns that fall on a Saturday or Sunday. The
// mask is nil when a column spans more than one day, where shading would be
// misleading.
func weekendColumns(view *service.TimelineView, laneWidth int) []bool {
	totalDays := dates.DurationDays(view.Window.Start, view.Window.End)
	if totalDays <= 0 || totalDays > laneWidth {
		return nil
	}
	mask := make([]bool, laneWidth)
	for i := range mask {
		dayOffset := int(float64(i) / float64(laneWidth) * float64(totalDays))
		mask[i] = dates.IsWeekend(dates.AddDays(view.Window.Start, dayOffset))
	}
	return mask
}

// renderLane paints plan and actual boxes into a fixed-width rune lane,
// scaling chart pixels down to terminal columns. Empty weekend columns are
// dotted so schedule gaps read against the calendar.
func renderLane(row service.TimelineRow, chartWidth float64, laneWidth int, weekends []bool) string {
	cells := make([]rune, laneWidth)
	for i := range cells {
		cells[i] = ' '
	}

	paint := func(left, width float64, block rune) {
		if chartWidth <= 0 {
			return
		}
		start := int(left / chartWidth * float64(laneWidth))
		span := int(width / chartWidth * float64(laneWidth))
		if span < 1 {
			span = 1
		}
		for i := start; i < start+span && i < laneWidth; i++ {
			if i >= 0 {
				cells[i] = block
			}
		}
	}

	planRune := []rune(planBlock)[0]
	actualRune := []rune(actualBlock)[0]

	// Plan first so the actual bar overlays it.
	if row.PlanVisible {
		paint(row.Plan.Left, row.Plan.Width, planRune)
	}
	if row.ActualVisible {
		paint(row.Actual.Left, row.Actual.Width, actualRune)
	}

	// Style the painted segments: plan blue, actual by status.
	var b strings.Builder
	for i, c := range cells {
		switch {
		case c == planRune:
			b.WriteString(StyleBlue.Render(string(c)))
		case c == actualRune:
			b.WriteString(StatusColor(row.Task.Status).Render(string(c)))
		case weekends != nil && weekends[i]:
			b.WriteString(Dim("·"))
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}
