package formatter

import (
	"fmt"
	"strings"

	"siteline/internal/dates"
	"siteline/internal/domain"
	"siteline/internal/scurve"
)

// FormatCurve renders a progress curve as an aligned table of cumulative
// percentages plus a summary line. The actual column stops printing past the
// last recorded day so a half-finished project reads as such.
func FormatCurve(result scurve.Result, window domain.TimeRange, mode domain.WeightMode) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("Progress curve (%s)", mode)))
	b.WriteString("\n")

	headers := []string{"Date", "Plan", "Actual", ""}
	var rows [][]string
	for _, pt := range result.Points {
		actual := fmt.Sprintf("%6.2f%%", pt.Actual)
		if result.MaxActualDate != nil {
			switch {
			case pt.Date.After(*result.MaxActualDate):
				actual = Dim("-")
			case dates.SameDay(pt.Date, *result.MaxActualDate):
				actual += " ◀"
			}
		}
		rows = append(rows, []string{
			dates.FormatISO(pt.Date),
			fmt.Sprintf("%6.2f%%", pt.Plan),
			actual,
			RenderProgress(pt.Plan, 20),
		})
	}
	b.WriteString(RenderTable(headers, rows))
	b.WriteString("\n\n")

	last := result.Points[len(result.Points)-1]
	b.WriteString(fmt.Sprintf("%s planned by %s",
		Bold(fmt.Sprintf("%.1f%%", last.Plan)), dates.FormatISO(window.End)))
	if result.MaxActualDate != nil {
		b.WriteString(fmt.Sprintf(", %s recorded through %s",
			Bold(fmt.Sprintf("%.1f%%", latestActual(result))),
			dates.FormatISO(*result.MaxActualDate)))
	}
	return b.String()
}

// latestActual returns the cumulative actual value at the last charted day
// that has recorded work.
func latestActual(result scurve.Result) float64 {
	if result.MaxActualDate == nil {
		return 0
	}
	v := 0.0
	for _, pt := range result.Points {
		if !pt.Date.After(*result.MaxActualDate) {
			v = pt.Actual
		}
	}
	return v
}
