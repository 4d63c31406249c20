package importer

import (
	"fmt"
	"time"

	"siteline/internal/dates"
	"siteline/internal/domain"
)

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	errs = append(errs, validateProject(&schema.Project)...)

	taskRefs := make(map[string]bool)
	errs = append(errs, validateTasks(schema.Tasks, taskRefs)...)
	errs = append(errs, validateParentLinks(schema.Tasks)...)
	errs = append(errs, validateDependencies(schema.Dependencies, taskRefs)...)

	return errs
}

func validateProject(p *ProjectImport) []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, fmt.Errorf("project.name is required"))
	}
	if p.StartDate != nil && *p.StartDate != "" {
		if _, ok := dates.Parse(*p.StartDate); !ok {
			errs = append(errs, fmt.Errorf("project.start_date: unrecognized date %q", *p.StartDate))
		}
	}

	return errs
}

func validateTasks(tasks []TaskImport, taskRefs map[string]bool) []error {
	var errs []error

	for i, task := range tasks {
		prefix := fmt.Sprintf("tasks[%d]", i)

		if task.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if taskRefs[task.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, task.Ref))
		} else {
			taskRefs[task.Ref] = true
		}

		if task.Title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		if task.Type != "" && !domain.ValidTaskTypes[task.Type] {
			errs = append(errs, fmt.Errorf("%s.type: invalid value %q", prefix, task.Type))
		}
		if task.Status != "" && !domain.ValidTaskStatuses[task.Status] {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, task.Status))
		}

		planStart, startOK := requireDate(prefix+".plan_start", task.PlanStart, &errs)
		planEnd, endOK := requireDate(prefix+".plan_end", task.PlanEnd, &errs)
		if startOK && endOK && planEnd.Before(planStart) {
			errs = append(errs, fmt.Errorf("%s: plan_end %q is before plan_start %q", prefix, task.PlanEnd, task.PlanStart))
		}

		errs = append(errs, validateOptionalDate(prefix+".actual_start", task.ActualStart)...)
		errs = append(errs, validateOptionalDate(prefix+".actual_end", task.ActualEnd)...)

		if task.Progress != nil && (*task.Progress < 0 || *task.Progress > 100) {
			errs = append(errs, fmt.Errorf("%s.progress: %v is outside 0..100", prefix, *task.Progress))
		}
		if task.Cost != nil && *task.Cost < 0 {
			errs = append(errs, fmt.Errorf("%s.cost: must not be negative", prefix))
		}
	}

	return errs
}

// validateParentLinks checks that every parent_ref resolves to a task in the
// file and that following parents never loops back on itself.
func validateParentLinks(tasks []TaskImport) []error {
	var errs []error

	parents := make(map[string]string)
	known := make(map[string]bool)
	for _, task := range tasks {
		if task.Ref != "" {
			known[task.Ref] = true
		}
	}
	for i, task := range tasks {
		if task.ParentRef == nil || *task.ParentRef == "" {
			continue
		}
		if !known[*task.ParentRef] {
			errs = append(errs, fmt.Errorf("tasks[%d].parent_ref: ref %q not found", i, *task.ParentRef))
			continue
		}
		if *task.ParentRef == task.Ref {
			errs = append(errs, fmt.Errorf("tasks[%d].parent_ref: task %q cannot be its own parent", i, task.Ref))
			continue
		}
		parents[task.Ref] = *task.ParentRef
	}

	reported := make(map[string]bool)
	for ref := range parents {
		seen := map[string]bool{ref: true}
		cur := ref
		for {
			next, ok := parents[cur]
			if !ok {
				break
			}
			if seen[next] {
				if !reported[next] {
					errs = append(errs, fmt.Errorf("circular parent chain detected involving %q", next))
					reported[next] = true
				}
				break
			}
			seen[next] = true
			cur = next
		}
	}

	return errs
}

func validateDependencies(deps []DependencyImport, taskRefs map[string]bool) []error {
	var errs []error

	for i, d := range deps {
		prefix := fmt.Sprintf("dependencies[%d]", i)

		if d.PredecessorRef == "" {
			errs = append(errs, fmt.Errorf("%s.predecessor_ref is required", prefix))
		} else if !taskRefs[d.PredecessorRef] {
			errs = append(errs, fmt.Errorf("%s.predecessor_ref: ref %q not found in tasks", prefix, d.PredecessorRef))
		}

		if d.SuccessorRef == "" {
			errs = append(errs, fmt.Errorf("%s.successor_ref is required", prefix))
		} else if !taskRefs[d.SuccessorRef] {
			errs = append(errs, fmt.Errorf("%s.successor_ref: ref %q not found in tasks", prefix, d.SuccessorRef))
		}

		if d.PredecessorRef != "" && d.SuccessorRef != "" && d.PredecessorRef == d.SuccessorRef {
			errs = append(errs, fmt.Errorf("%s: self-dependency (predecessor_ref == successor_ref == %q)", prefix, d.PredecessorRef))
		}
	}

	if len(deps) > 1 {
		errs = append(errs, detectCycles(deps)...)
	}

	return errs
}

func detectCycles(deps []DependencyImport) []error {
	graph := make(map[string][]string)
	nodes := make(map[string]bool)
	for _, d := range deps {
		if d.PredecessorRef != "" && d.SuccessorRef != "" && d.PredecessorRef != d.SuccessorRef {
			graph[d.PredecessorRef] = append(graph[d.PredecessorRef], d.SuccessorRef)
			nodes[d.PredecessorRef] = true
			nodes[d.SuccessorRef] = true
		}
	}

	const (
		white = 0 // unvisited
		gray  = 1 // in current path
		black = 2 // fully processed
	)

	color := make(map[string]int)
	var errs []error

	var visit func(node string) bool
	visit = func(node string) bool {
		color[node] = gray
		for _, neighbor := range graph[node] {
			if color[neighbor] == gray {
				errs = append(errs, fmt.Errorf("circular dependency detected involving %q and %q", node, neighbor))
				return true
			}
			if color[neighbor] == white {
				if visit(neighbor) {
					return true
				}
			}
		}
		color[node] = black
		return false
	}

	for node := range nodes {
		if color[node] == white {
			visit(node)
		}
	}

	return errs
}

func requireDate(field, raw string, errs *[]error) (time.Time, bool) {
	if raw == "" {
		*errs = append(*errs, fmt.Errorf("%s is required", field))
		return time.Time{}, false
	}
	parsed, ok := dates.Parse(raw)
	if !ok {
		*errs = append(*errs, fmt.Errorf("%s: unrecognized date %q", field, raw))
		return time.Time{}, false
	}
	return parsed, true
}

func validateOptionalDate(field string, dateStr *string) []error {
	if dateStr == nil || *dateStr == "" {
		return nil
	}
	if _, ok := dates.Parse(*dateStr); !ok {
		return []error{fmt.Errorf("%s: unrecognized date %q", field, *dateStr)}
	}
	return nil
}
