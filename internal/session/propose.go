package session

import (
	"fmt"
	"time"

	"github.com/Fred49680/operaflow-gantt/internal/calendar"
	"github.com/Fred49680/operaflow-gantt/internal/events"
	"github.com/Fred49680/operaflow-gantt/internal/model"
	"github.com/Fred49680/operaflow-gantt/internal/schedule"
	"github.com/Fred49680/operaflow-gantt/internal/store"
)

// Edge identifies which bound of the bar a resize moves.
type Edge string

const (
	EdgeStart Edge = "start"
	EdgeEnd   Edge = "end"
)

// RejectedError reports a gesture refused by the task's status. It is
// the user-facing notice; no state was mutated.
type RejectedError struct {
	TaskID  string
	Status  model.Status
	Gesture model.Gesture
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("edit rejected: task %s has status %q, %s is not allowed", e.TaskID, e.Status, e.Gesture)
}

// Proposal is a candidate (start, end) for one task, produced by a
// drag or resize. Propose may be called repeatedly while the cursor
// moves; nothing is applied until Commit.
type Proposal struct {
	TaskID        string
	Gesture       model.Gesture
	Start         time.Time
	End           time.Time
	DurationUnits float64      // redisplayed working units
	NewStatus     model.Status // empty = unchanged
}

// ProposeDrag moves both bounds, preserving the task's span. Both
// bounds snap to midnight of the nearest day.
func (s *Session) ProposeDrag(taskID string, newStart time.Time) (Proposal, error) {
	t, ok := s.tasks[taskID]
	if !ok {
		return Proposal{}, fmt.Errorf("unknown task %q", taskID)
	}
	if model.GestureBlocked(t.Status, model.GestureDrag) {
		return Proposal{}, s.reject(t, model.GestureDrag)
	}
	if !t.HasDates() {
		return Proposal{}, fmt.Errorf("task %q has no dates to drag", taskID)
	}

	ns := calendar.SnapToDay(newStart)
	delta := calendar.DaysBetween(t.Start, ns)
	ne := calendar.Midnight(t.End).AddDate(0, 0, delta)

	dur := t.DurationUnits
	if dur <= 0 {
		dur = calendar.Round2(s.eng.CountWorkingDuration(ns, ne, t.Mode, s.calendarFor(t)))
	}
	return Proposal{
		TaskID:        taskID,
		Gesture:       model.GestureDrag,
		Start:         ns,
		End:           ne,
		DurationUnits: dur,
	}, nil
}

// ProposeResize moves one bound; the other is held fixed. The moved
// edge snaps to the nearest day once the cursor has crossed the
// half-day threshold. A launched task may only be extended: pushing
// its end past the old end transitions it to extended on commit.
func (s *Session) ProposeResize(taskID string, edge Edge, newDate time.Time) (Proposal, error) {
	t, ok := s.tasks[taskID]
	if !ok {
		return Proposal{}, fmt.Errorf("unknown task %q", taskID)
	}
	gesture := model.GestureResizeStart
	if edge == EdgeEnd {
		gesture = model.GestureResizeEnd
	}
	if model.GestureBlocked(t.Status, gesture) {
		return Proposal{}, s.reject(t, gesture)
	}
	if !t.HasDates() {
		return Proposal{}, fmt.Errorf("task %q has no dates to resize", taskID)
	}

	snapped := calendar.SnapToDay(newDate)
	ns, ne := calendar.Midnight(t.Start), calendar.Midnight(t.End)
	if edge == EdgeStart {
		ns = snapped
		if ns.After(ne) {
			ns = ne
		}
	} else {
		ne = snapped
		if ne.Before(ns) {
			ne = ns
		}
	}

	p := Proposal{
		TaskID:        taskID,
		Gesture:       gesture,
		Start:         ns,
		End:           ne,
		DurationUnits: calendar.Round2(s.eng.CountWorkingDuration(ns, ne, t.Mode, s.calendarFor(t))),
	}
	if t.Status == model.StatusLaunched && edge == EdgeEnd && ne.After(calendar.Midnight(t.End)) {
		p.NewStatus = model.StatusExtended
	}
	return p, nil
}

// Commit applies an accepted proposal: propagation over the dependency
// graph, milestone aggregation, optimistic update of the working copy,
// and enqueueing of the whole closure into the batcher. The returned
// result is the closure of changes produced by the gesture.
func (s *Session) Commit(p Proposal) (schedule.Result, error) {
	t, ok := s.tasks[p.TaskID]
	if !ok {
		return schedule.Result{}, fmt.Errorf("unknown task %q", p.TaskID)
	}
	// Status may have moved since the proposal was computed.
	if model.GestureBlocked(t.Status, p.Gesture) {
		return schedule.Result{}, s.reject(t, p.Gesture)
	}

	g := schedule.NewGraph(s.taskList(), s.deps)
	changed := schedule.Propagate(g, s.eng, s.calendars, p.TaskID, p.Start, p.End)

	res := schedule.Result{
		Tasks:      make(map[string]schedule.DateChange, len(changed)+1),
		Milestones: make(map[string]schedule.DateChange),
	}
	res.Tasks[p.TaskID] = schedule.DateChange{Start: p.Start, End: p.End}
	for id, dc := range changed {
		res.Tasks[id] = dc
	}

	// Optimistic update of the working copy.
	for id, dc := range res.Tasks {
		wt := s.tasks[id]
		wt.Start, wt.End = dc.Start, dc.End
		if id == p.TaskID {
			if p.DurationUnits > 0 {
				wt.DurationUnits = p.DurationUnits
			}
			if p.NewStatus != "" {
				wt.Status = p.NewStatus
			}
		}
		s.tasks[id] = wt
		if s.bus != nil {
			s.bus.Publish(events.EventTaskRescheduled, map[string]interface{}{
				"task_id": id,
				"start":   dc.Start.Format(model.DateLayout),
				"end":     dc.End.Format(model.DateLayout),
			})
		}
	}

	// Recompute the envelope of every milestone owning a task in the
	// result, including the mutated task's own milestone.
	seen := make(map[string]bool)
	for id := range res.Tasks {
		mid := s.tasks[id].MilestoneID
		if mid == "" || seen[mid] {
			continue
		}
		seen[mid] = true
		env, ok := schedule.MilestoneEnvelope(s.tasksOfMilestone(mid))
		if !ok {
			continue
		}
		m, found := s.milestones[mid]
		if found && env.Start.Equal(m.Start) && env.End.Equal(m.End) {
			continue
		}
		m.ID = mid
		m.ProjectID = s.projectID
		m.Start, m.End = env.Start, env.End
		s.milestones[mid] = m
		res.Milestones[mid] = env
		if s.bus != nil {
			s.bus.Publish(events.EventMilestoneRecomputed, map[string]interface{}{
				"milestone_id": mid,
				"start":        env.Start.Format(model.DateLayout),
				"end":          env.End.Format(model.DateLayout),
			})
		}
	}

	if s.batcher != nil {
		for id, dc := range res.Tasks {
			patch := store.TaskPatch{Start: &dc.Start, End: &dc.End}
			if id == p.TaskID {
				if p.DurationUnits > 0 {
					patch.DurationUnits = &p.DurationUnits
				}
				if p.NewStatus != "" {
					patch.Status = &p.NewStatus
				}
			}
			s.batcher.EnqueueTask(id, patch)
		}
		for id, dc := range res.Milestones {
			s.batcher.EnqueueMilestone(id, store.MilestonePatch{Start: &dc.Start, End: &dc.End})
		}
	}

	s.log(LogLevelInfo, "commit gesture=%s task=%s tasks_moved=%d milestones_moved=%d",
		p.Gesture, p.TaskID, len(res.Tasks), len(res.Milestones))
	return res, nil
}

func (s *Session) reject(t model.Task, gesture model.Gesture) error {
	err := &RejectedError{TaskID: t.ID, Status: t.Status, Gesture: gesture}
	s.log(LogLevelWarn, "reject task=%s status=%s gesture=%s", t.ID, t.Status, gesture)
	if s.bus != nil {
		s.bus.Publish(events.EventEditRejected, map[string]interface{}{
			"task_id": t.ID,
			"status":  string(t.Status),
			"gesture": string(gesture),
			"notice":  err.Error(),
		})
	}
	return err
}
