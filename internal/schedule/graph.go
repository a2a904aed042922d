// Package schedule holds the dependency graph and the forward date
// propagation that keeps successor tasks consistent with their
// predecessors after an edit.
package schedule

import "github.com/Fred49680/operaflow-gantt/internal/model"

// Graph is a read-only adjacency view over one project's tasks and
// dependencies. It is rebuilt from the in-memory task list on every
// propagation pass; propagation never mutates topology, only dates.
type Graph struct {
	tasks map[string]model.Task
	preds map[string][]model.Dependency // keyed by successor id
	succs map[string][]string           // predecessor id → successor ids
}

// NewGraph builds the adjacency view. Edges referencing unknown tasks
// are kept (the walk skips them when dates are missing).
func NewGraph(tasks []model.Task, deps []model.Dependency) *Graph {
	g := &Graph{
		tasks: make(map[string]model.Task, len(tasks)),
		preds: make(map[string][]model.Dependency),
		succs: make(map[string][]string),
	}
	for _, t := range tasks {
		g.tasks[t.ID] = t
	}
	for _, d := range deps {
		g.preds[d.SuccessorID] = append(g.preds[d.SuccessorID], d)
		g.succs[d.PredecessorID] = append(g.succs[d.PredecessorID], d.SuccessorID)
	}
	return g
}

// Task returns the task record by id.
func (g *Graph) Task(id string) (model.Task, bool) {
	t, ok := g.tasks[id]
	return t, ok
}

// PredecessorsOf returns the incoming dependency edges of a task.
func (g *Graph) PredecessorsOf(id string) []model.Dependency {
	return g.preds[id]
}

// SuccessorsOf returns the direct dependents of a task, in edge order,
// deduplicated (two edges between the same pair yield one successor).
func (g *Graph) SuccessorsOf(id string) []model.Task {
	ids := g.succs[id]
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(ids))
	out := make([]model.Task, 0, len(ids))
	for _, sid := range ids {
		if seen[sid] {
			continue
		}
		seen[sid] = true
		if t, ok := g.tasks[sid]; ok {
			out = append(out, t)
		}
	}
	return out
}
