package importer

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"siteline/internal/dates"
	"siteline/internal/domain"
)

// ImportedSchedule is the converted output of an import file: a project plus
// its tasks and dependency edges, all carrying real IDs.
type ImportedSchedule struct {
	Project      *domain.Project
	Tasks        []*domain.Task
	Dependencies []DependencyLink
}

// DependencyLink is a resolved finish-to-start edge between two task IDs.
type DependencyLink struct {
	PredecessorID string
	SuccessorID   string
}

// Convert transforms a validated ImportSchema into domain objects ready for
// persistence. Call ValidateImportSchema first; Convert assumes the schema
// is valid.
func Convert(schema *ImportSchema) (*ImportedSchedule, error) {
	now := time.Now().UTC()

	project := &domain.Project{
		ID:         uuid.New().String(),
		Name:       schema.Project.Name,
		Contractor: schema.Project.Contractor,
		StartDate:  parseOptionalDate(schema.Project.StartDate),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	refMap := make(map[string]string) // ref -> UUID
	for _, t := range schema.Tasks {
		refMap[t.Ref] = uuid.New().String()
	}

	tasks := make([]*domain.Task, 0, len(schema.Tasks))
	for _, t := range schema.Tasks {
		planStart, ok := dates.Parse(t.PlanStart)
		if !ok {
			return nil, fmt.Errorf("task %q: unrecognized plan_start %q", t.Ref, t.PlanStart)
		}
		planEnd, ok := dates.Parse(t.PlanEnd)
		if !ok {
			return nil, fmt.Errorf("task %q: unrecognized plan_end %q", t.Ref, t.PlanEnd)
		}

		var parentID *string
		if t.ParentRef != nil && *t.ParentRef != "" {
			pid, ok := refMap[*t.ParentRef]
			if !ok {
				return nil, fmt.Errorf("parent_ref %q not found for task %q", *t.ParentRef, t.Ref)
			}
			parentID = &pid
		}

		typ := t.Type
		if typ == "" {
			typ = string(domain.TypeTask)
		}
		status := t.Status
		if status == "" {
			status = string(domain.StatusPlanned)
		}

		progress := 0.0
		if t.Progress != nil {
			progress = *t.Progress
		}

		// A row with actual dates but no status was recorded mid-work.
		actualStart := parseOptionalDate(t.ActualStart)
		if t.Status == "" && actualStart != nil {
			if progress >= 100 {
				status = string(domain.StatusCompleted)
			} else {
				status = string(domain.StatusInProgress)
			}
		}

		tasks = append(tasks, &domain.Task{
			ID:           refMap[t.Ref],
			ProjectID:    project.ID,
			ParentTaskID: parentID,
			Title:        t.Title,
			Type:         domain.TaskType(typ),
			Status:       domain.TaskStatus(status),
			OrderIndex:   t.Order,
			PlanStart:    planStart,
			PlanEnd:      planEnd,
			ActualStart:  actualStart,
			ActualEnd:    parseOptionalDate(t.ActualEnd),
			Progress:     progress,
			Cost:         t.Cost,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	byID := make(map[string]*domain.Task, len(tasks))
	for _, task := range tasks {
		byID[task.ID] = task
	}

	var links []DependencyLink
	for _, d := range schema.Dependencies {
		predID, ok := refMap[d.PredecessorRef]
		if !ok {
			return nil, fmt.Errorf("predecessor_ref %q not found", d.PredecessorRef)
		}
		succID, ok := refMap[d.SuccessorRef]
		if !ok {
			return nil, fmt.Errorf("successor_ref %q not found", d.SuccessorRef)
		}
		links = append(links, DependencyLink{PredecessorID: predID, SuccessorID: succID})
		if succ := byID[succID]; succ != nil {
			succ.Predecessors = append(succ.Predecessors, predID)
		}
	}

	return &ImportedSchedule{
		Project:      project,
		Tasks:        tasks,
		Dependencies: links,
	}, nil
}

func parseOptionalDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, ok := dates.Parse(*s)
	if !ok {
		return nil
	}
	return &t
}
