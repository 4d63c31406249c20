package drag

import (
	"math"
	"sort"

	"siteline/internal/contract"
	"siteline/internal/dates"
	"siteline/internal/domain"
	"siteline/internal/graph"
)

// Commit consumes the session and produces the merged update batch. The
// session is released on every path, including the no-op one.
//
// A plan move cascades twice: descendants (captured at Start) shift by the
// same delta as the group, then a breadth-first walk of the successor graph
// shifts every transitively dependent task by the originating delta. The
// delta never compounds across hops, and a visited set makes predecessor
// cycles terminate. When both cascades touch the same task id the
// dependency value wins because it is computed second; that ordering
// matches the observed dashboard behavior and is not a deliberate
// precedence rule.
func (s *Session) Commit(idx *graph.Index) (contract.CommitResult, error) {
	if !s.active {
		return contract.CommitResult{}, ErrNotDragging
	}
	defer s.release()

	// No-op guard: an untouched range must not produce writes.
	if s.currentStart.Equal(s.originalStart) && s.currentEnd.Equal(s.originalEnd) {
		return contract.CommitResult{}, nil
	}

	if s.bar == BarActual {
		return s.commitActual(), nil
	}
	return s.commitPlan(idx), nil
}

// commitActual emits one update for the dragged task: the new actual range
// plus a recomputed progress when the plan duration allows one.
func (s *Session) commitActual() contract.CommitResult {
	start := s.currentStart
	end := s.currentEnd
	update := contract.TaskUpdate{
		TaskID:      s.task.ID,
		ActualStart: &start,
		ActualEnd:   &end,
	}

	planDays := dates.DurationDays(s.task.PlanStart, s.task.PlanEnd)
	if planDays > 0 {
		actualDays := dates.DurationDays(start, end)
		progress := math.Round(100 * float64(actualDays) / float64(planDays))
		if progress < 0 {
			progress = 0
		}
		if progress > 100 {
			progress = 100
		}
		update.Progress = &progress
	}

	return contract.CommitResult{
		Updates:  contract.UpdateBatch{update},
		DayShift: dates.DaysBetween(s.originalStart, s.currentStart),
	}
}

func (s *Session) commitPlan(idx *graph.Index) contract.CommitResult {
	updates := make(map[string]contract.TaskUpdate)

	start := s.currentStart
	end := s.currentEnd
	updates[s.task.ID] = contract.TaskUpdate{
		TaskID:    s.task.ID,
		PlanStart: &start,
		PlanEnd:   &end,
	}

	startShift := dates.DaysBetween(s.originalStart, s.currentStart)
	endShift := dates.DaysBetween(s.originalEnd, s.currentEnd)

	// Hierarchy cascade: descendants of a moved group travel with it.
	cascadedDescendants := 0
	if s.typ == TypeMove && startShift != 0 {
		for _, id := range s.descendantIDs {
			desc, ok := idx.Task(id)
			if !ok {
				continue
			}
			updates[id] = shiftedPlan(desc, startShift)
			cascadedDescendants++
		}
	}

	// Dependency cascade: every transitive successor shifts by the
	// originating delta. Computed after the hierarchy cascade; on id
	// collisions this value overwrites.
	effectiveShift := 0
	switch s.typ {
	case TypeMove:
		effectiveShift = startShift
	case TypeResizeRight:
		effectiveShift = endShift
	case TypeResizeLeft:
		// Resizing the start leaves successors where they are.
	}

	cascadedSuccessors := 0
	if effectiveShift != 0 {
		visited := map[string]bool{s.task.ID: true}
		queue := append([]*domain.Task(nil), idx.Successors(s.task.ID)...)
		for len(queue) > 0 {
			succ := queue[0]
			queue = queue[1:]
			if visited[succ.ID] {
				continue
			}
			visited[succ.ID] = true
			updates[succ.ID] = shiftedPlan(succ, effectiveShift)
			cascadedSuccessors++
			queue = append(queue, idx.Successors(succ.ID)...)
		}
	}

	return contract.CommitResult{
		Updates:             orderBatch(updates, s.task.ID),
		DayShift:            startShift,
		CascadedDescendants: cascadedDescendants,
		CascadedSuccessors:  cascadedSuccessors,
		PauseForCascade:     cascadedSuccessors > 0,
	}
}

func shiftedPlan(t *domain.Task, days int) contract.TaskUpdate {
	ns := dates.AddDays(t.PlanStart, days)
	ne := dates.AddDays(t.PlanEnd, days)
	return contract.TaskUpdate{TaskID: t.ID, PlanStart: &ns, PlanEnd: &ne}
}

// orderBatch flattens the merged map deterministically: dragged task first,
// remaining ids sorted.
func orderBatch(updates map[string]contract.TaskUpdate, draggedID string) contract.UpdateBatch {
	batch := make(contract.UpdateBatch, 0, len(updates))
	if u, ok := updates[draggedID]; ok {
		batch = append(batch, u)
	}
	rest := make([]string, 0, len(updates))
	for id := range updates {
		if id != draggedID {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	for _, id := range rest {
		batch = append(batch, updates[id])
	}
	return batch
}
