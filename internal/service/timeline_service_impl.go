package service

import (
	"context"
	"fmt"

	"siteline/internal/domain"
	"siteline/internal/graph"
	"siteline/internal/repository"
	"siteline/internal/timeline"
)

// windowPadDays is the breathing room added around the schedule extents
// when deriving the visible window.
const windowPadDays = 3

type timelineService struct {
	projects repository.ProjectRepo
	tasks    repository.TaskRepo
}

func NewTimelineService(projects repository.ProjectRepo, tasks repository.TaskRepo) TimelineService {
	return &timelineService{projects: projects, tasks: tasks}
}

func (s *timelineService) Timeline(ctx context.Context, projectID string, g timeline.Granularity, cellWidth float64) (*TimelineView, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("unknown granularity %q", g)
	}
	if cellWidth <= 0 {
		return nil, fmt.Errorf("cell width must be positive")
	}

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	window, ok := timeline.WindowFor(tasks, windowPadDays)
	if !ok {
		return &TimelineView{Project: project}, nil
	}

	view := &TimelineView{
		Window:  window,
		Width:   timeline.WindowWidth(window, g, cellWidth),
		Project: project,
	}

	idx := graph.NewIndex(tasks)
	for _, t := range orderForDisplay(idx) {
		row := TimelineRow{Task: t, Depth: depthOf(idx, t)}

		planStart, planEnd := t.PlanStart, t.PlanEnd
		actualStart, actualEnd := t.ActualStart, t.ActualEnd
		if t.IsGroup() {
			if rollup, ok := idx.GroupRollup(t.ID); ok {
				planStart, planEnd = rollup.PlanStart, rollup.PlanEnd
				actualStart, actualEnd = rollup.ActualStart, rollup.ActualEnd
			}
		}

		row.Plan, row.PlanVisible = timeline.BarGeometry(planStart, planEnd, g, cellWidth, window)
		if actualStart != nil {
			end := actualEnd
			if end == nil {
				end = actualStart
			}
			row.Actual, row.ActualVisible = timeline.BarGeometry(*actualStart, *end, g, cellWidth, window)
		}
		view.Rows = append(view.Rows, row)
	}
	return view, nil
}

// orderForDisplay walks the forest depth first so children render under
// their group, respecting the stored order within each level.
func orderForDisplay(idx *graph.Index) []*domain.Task {
	var out []*domain.Task
	var walk func(tasks []*domain.Task)
	walk = func(tasks []*domain.Task) {
		for _, t := range tasks {
			out = append(out, t)
			walk(idx.Children(t.ID))
		}
	}
	var roots []*domain.Task
	for _, t := range idx.Tasks() {
		if t.ParentTaskID == nil {
			roots = append(roots, t)
		}
	}
	walk(roots)
	return out
}

func depthOf(idx *graph.Index, t *domain.Task) int {
	depth := 0
	cur := t
	for cur.ParentTaskID != nil {
		parent, ok := idx.Task(*cur.ParentTaskID)
		if !ok {
			break
		}
		depth++
		if depth > len(idx.Tasks()) {
			break
		}
		cur = parent
	}
	return depth
}
