// Package graph provides an in-memory adjacency view over a flat task
// collection: parent/child hierarchy via ParentTaskID and the dependency
// graph via predecessor lists. The index is built once per computation pass
// and is read-only afterwards. Every traversal is bounded by a visited set,
// so a malformed parent or predecessor chain yields a partial result
// instead of unbounded recursion.
package graph

import (
	"time"

	"siteline/internal/dates"
	"siteline/internal/domain"
)

// Index holds id, children and successor lookups for one task collection.
type Index struct {
	byID       map[string]*domain.Task
	children   map[string][]*domain.Task
	successors map[string][]*domain.Task
	tasks      []*domain.Task
}

// NewIndex builds the adjacency index. Input order is preserved in all
// enumerations, so callers that store tasks ordered (e.g. by order_index)
// get deterministic traversals.
func NewIndex(tasks []*domain.Task) *Index {
	idx := &Index{
		byID:       make(map[string]*domain.Task, len(tasks)),
		children:   make(map[string][]*domain.Task),
		successors: make(map[string][]*domain.Task),
		tasks:      tasks,
	}
	for _, t := range tasks {
		idx.byID[t.ID] = t
	}
	for _, t := range tasks {
		if t.ParentTaskID != nil {
			idx.children[*t.ParentTaskID] = append(idx.children[*t.ParentTaskID], t)
		}
		for _, pred := range t.Predecessors {
			idx.successors[pred] = append(idx.successors[pred], t)
		}
	}
	return idx
}

// Task returns the task with the given id.
func (idx *Index) Task(id string) (*domain.Task, bool) {
	t, ok := idx.byID[id]
	return t, ok
}

// Tasks returns the full collection in input order.
func (idx *Index) Tasks() []*domain.Task {
	return idx.tasks
}

// Children returns the direct children of id.
func (idx *Index) Children(id string) []*domain.Task {
	return idx.children[id]
}

// LeafDescendants expands the subtree under groupID down to leaf tasks:
// child groups are expanded, not included. Progress rollups consume this.
func (idx *Index) LeafDescendants(groupID string) []*domain.Task {
	var leaves []*domain.Task
	visited := map[string]bool{groupID: true}

	var walk func(id string)
	walk = func(id string) {
		for _, child := range idx.children[id] {
			if visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			if len(idx.children[child.ID]) > 0 {
				walk(child.ID)
				continue
			}
			leaves = append(leaves, child)
		}
	}
	walk(groupID)
	return leaves
}

// DescendantIDs returns every direct and indirect descendant id of id,
// groups included. The cascade engine precomputes this set at drag start.
func (idx *Index) DescendantIDs(id string) []string {
	var ids []string
	visited := map[string]bool{id: true}

	var walk func(id string)
	walk = func(id string) {
		for _, child := range idx.children[id] {
			if visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			ids = append(ids, child.ID)
			walk(child.ID)
		}
	}
	walk(id)
	return ids
}

// Successors returns all tasks whose predecessor list contains taskID.
func (idx *Index) Successors(taskID string) []*domain.Task {
	return idx.successors[taskID]
}

// IsDescendant walks the parent chain upward from candidateID and reports
// whether it reaches ancestorID. A cycle in the chain fails closed: the
// walk stops at the first repeated id and reports false.
func (idx *Index) IsDescendant(candidateID, ancestorID string) bool {
	if candidateID == ancestorID {
		return false
	}
	visited := make(map[string]bool)
	cur, ok := idx.byID[candidateID]
	for ok {
		if visited[cur.ID] {
			return false
		}
		visited[cur.ID] = true
		if cur.ParentTaskID == nil {
			return false
		}
		if *cur.ParentTaskID == ancestorID {
			return true
		}
		cur, ok = idx.byID[*cur.ParentTaskID]
	}
	return false
}

// Leaves returns every task with no children in the collection, in input
// order. A group with no descendants counts as a leaf.
func (idx *Index) Leaves() []*domain.Task {
	var leaves []*domain.Task
	for _, t := range idx.tasks {
		if len(idx.children[t.ID]) == 0 {
			leaves = append(leaves, t)
		}
	}
	return leaves
}

// Rollup is a group's derived range and progress.
type Rollup struct {
	PlanStart time.Time
	PlanEnd   time.Time
	// ActualStart and ActualEnd span the leaves' recorded work; both are
	// nil when no leaf has started.
	ActualStart *time.Time
	ActualEnd   *time.Time
	// Progress is the duration-weighted mean of leaf progress, 0 to 100.
	Progress float64
}

// GroupRollup derives a group's date range (min start, max end across leaf
// descendants) and duration-weighted progress. Groups are never authored
// directly; this recomputation on read is the only source of group values.
// ok is false when the group has no leaf descendants.
func (idx *Index) GroupRollup(groupID string) (Rollup, bool) {
	leaves := idx.LeafDescendants(groupID)
	if len(leaves) == 0 {
		return Rollup{}, false
	}

	r := Rollup{PlanStart: leaves[0].PlanStart, PlanEnd: leaves[0].PlanEnd}
	var weighted, totalDays float64
	for _, leaf := range leaves {
		if leaf.PlanStart.Before(r.PlanStart) {
			r.PlanStart = leaf.PlanStart
		}
		if leaf.PlanEnd.After(r.PlanEnd) {
			r.PlanEnd = leaf.PlanEnd
		}
		if leaf.ActualStart != nil && (r.ActualStart == nil || leaf.ActualStart.Before(*r.ActualStart)) {
			r.ActualStart = leaf.ActualStart
		}
		if leaf.ActualEnd != nil && (r.ActualEnd == nil || leaf.ActualEnd.After(*r.ActualEnd)) {
			r.ActualEnd = leaf.ActualEnd
		}
		days := float64(dates.DurationDays(leaf.PlanStart, leaf.PlanEnd))
		weighted += leaf.Progress * days
		totalDays += days
	}
	if totalDays > 0 {
		r.Progress = weighted / totalDays
	}
	return r, true
}
