package formatter

import (
	"fmt"
	"strings"

	"siteline/internal/dates"
	"siteline/internal/domain"
)

// FormatProjectList renders projects as a table keyed by short display ID.
func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"ID", "Name", "Contractor", "Start"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		start := "-"
		if p.StartDate != nil {
			start = dates.FormatISO(*p.StartDate)
		}
		contractor := p.Contractor
		if contractor == "" {
			contractor = Dim("-")
		}
		rows = append(rows, []string{
			StyleBlue.Render(p.DisplayID()),
			p.Name,
			contractor,
			start,
		})
	}
	return RenderTable(headers, rows)
}

// FormatProjectDetail renders one project with its task count summary.
func FormatProjectDetail(p *domain.Project, tasks []*domain.Task) string {
	var b strings.Builder
	b.WriteString(Header(p.Name))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("ID:"), p.ID))
	if p.Contractor != "" {
		b.WriteString(fmt.Sprintf("%s %s\n", Dim("Contractor:"), p.Contractor))
	}
	if p.StartDate != nil {
		b.WriteString(fmt.Sprintf("%s %s (%s)\n",
			Dim("Start:"), dates.FormatISO(*p.StartDate), dates.FormatThai(*p.StartDate)))
	}

	groups, leaves := 0, 0
	for _, t := range tasks {
		if t.IsGroup() {
			groups++
		} else {
			leaves++
		}
	}
	b.WriteString(fmt.Sprintf("%s %d tasks (%d groups)\n", Dim("Schedule:"), leaves, groups))
	return strings.TrimRight(b.String(), "\n")
}
