package schedule

import (
	"time"

	"github.com/Fred49680/operaflow-gantt/internal/calendar"
	"github.com/Fred49680/operaflow-gantt/internal/model"
)

// DateChange is a recomputed (start, end) pair for one record.
type DateChange struct {
	Start time.Time
	End   time.Time
}

// Result is the full closure of date changes produced by one accepted
// gesture: the tasks the propagation moved plus the milestones whose
// envelope moved with them.
type Result struct {
	Tasks      map[string]DateChange
	Milestones map[string]DateChange
}

// Empty reports whether the result carries no changes.
func (r Result) Empty() bool {
	return len(r.Tasks) == 0 && len(r.Milestones) == 0
}

// CalendarResolver maps a calendar id to its definition. A nil resolver
// (or an unknown id) means the weekday default applies.
type CalendarResolver func(id string) *model.Calendar

// Propagate computes the dates of every task transitively dependent on
// the mutated task, given its new bounds. The walk is depth-first and
// memoized; a visiting guard freezes a task at its pre-propagation dates
// when a cycle is met, so the pass terminates on any graph. The returned
// map contains only tasks whose dates actually changed; the mutated task
// itself is never included.
func Propagate(g *Graph, eng calendar.Engine, calendars CalendarResolver, taskID string, newStart, newEnd time.Time) map[string]DateChange {
	resolved := map[string]DateChange{
		taskID: {Start: calendar.Midnight(newStart), End: calendar.Midnight(newEnd)},
	}
	visiting := make(map[string]bool)

	calFor := func(t model.Task) *model.Calendar {
		if calendars == nil || t.CalendarID == "" {
			return nil
		}
		return calendars(t.CalendarID)
	}

	currentDates := func(id string) DateChange {
		t, ok := g.Task(id)
		if !ok {
			return DateChange{}
		}
		var dc DateChange
		if !t.Start.IsZero() {
			dc.Start = calendar.Midnight(t.Start)
		}
		if !t.End.IsZero() {
			dc.End = calendar.Midnight(t.End)
		}
		return dc
	}

	var resolve func(id string) DateChange
	recompute := func(t model.Task) (DateChange, bool) {
		// A task without resolved dates has nothing to shift; it is
		// skipped, not scheduled.
		if !t.HasDates() {
			return DateChange{}, false
		}
		var startBound, endBound time.Time
		for _, dep := range g.PredecessorsOf(t.ID) {
			p := resolve(dep.PredecessorID)
			switch dep.Type {
			case model.FinishToStart:
				if p.End.IsZero() {
					continue
				}
				// Dates are inclusive at both ends: the successor
				// starts the day after the predecessor finishes.
				b := p.End.AddDate(0, 0, dep.LagDays+1)
				if b.After(startBound) {
					startBound = b
				}
			case model.StartToStart:
				if p.Start.IsZero() {
					continue
				}
				b := p.Start.AddDate(0, 0, dep.LagDays)
				if b.After(startBound) {
					startBound = b
				}
			case model.FinishToFinish:
				if p.End.IsZero() {
					continue
				}
				b := p.End.AddDate(0, 0, dep.LagDays)
				if b.After(endBound) {
					endBound = b
				}
			case model.StartToFinish:
				if p.Start.IsZero() {
					continue
				}
				b := p.Start.AddDate(0, 0, dep.LagDays)
				if b.After(endBound) {
					endBound = b
				}
			}
		}
		if startBound.IsZero() && endBound.IsZero() {
			return DateChange{}, false
		}
		cal := calFor(t)
		dur := t.DurationUnits
		if dur <= 0 {
			dur = eng.CountWorkingDuration(t.Start, t.End, t.Mode, cal)
		}
		var dc DateChange
		switch {
		case !startBound.IsZero() && !endBound.IsZero():
			dc = DateChange{Start: startBound, End: endBound}
		case !startBound.IsZero():
			dc.Start = startBound
			dc.End = eng.AddWorkingDuration(startBound, dur, t.Mode, cal)
		default:
			dc.End = endBound
			dc.Start = eng.SubWorkingDuration(endBound, dur, t.Mode, cal)
		}
		if dc.End.Before(dc.Start) {
			dc.End = dc.Start
		}
		return dc, true
	}

	resolve = func(id string) DateChange {
		if dc, ok := resolved[id]; ok {
			return dc
		}
		cur := currentDates(id)
		if visiting[id] {
			// Cycle guard: freeze at pre-propagation dates.
			return cur
		}
		t, ok := g.Task(id)
		if !ok {
			return cur
		}
		visiting[id] = true
		dc, changed := recompute(t)
		if !changed {
			dc = cur
		}
		delete(visiting, id)
		resolved[id] = dc
		return dc
	}

	walked := make(map[string]bool)
	var walk func(id string)
	walk = func(id string) {
		if walked[id] {
			return
		}
		walked[id] = true
		for _, succ := range g.SuccessorsOf(id) {
			resolve(succ.ID)
			walk(succ.ID)
		}
	}
	walk(taskID)

	changes := make(map[string]DateChange)
	for id, dc := range resolved {
		if id == taskID {
			continue
		}
		if cur := currentDates(id); dc != cur {
			changes[id] = dc
		}
	}
	return changes
}
