package schedule

import "github.com/Fred49680/operaflow-gantt/internal/model"

// MilestoneEnvelope recomputes a milestone's bounds as the envelope of
// its linked tasks: min start, max end over tasks that have both dates.
// It returns false when no linked task has resolved dates, in which case
// the milestone's externally set dates are left untouched.
func MilestoneEnvelope(tasks []model.Task) (DateChange, bool) {
	var env DateChange
	found := false
	for _, t := range tasks {
		if !t.HasDates() {
			continue
		}
		if !found {
			env = DateChange{Start: t.Start, End: t.End}
			found = true
			continue
		}
		if t.Start.Before(env.Start) {
			env.Start = t.Start
		}
		if t.End.After(env.End) {
			env.End = t.End
		}
	}
	return env, found
}
