// Package model defines the data structures for the scheduling core:
// tasks, dependencies, milestones, calendars, and configuration.
package model

import "time"

// DateLayout is the on-disk representation of a schedule date.
// The engine operates at day granularity; clock time is never persisted.
const DateLayout = "2006-01-02"

// Task is a schedulable unit of work belonging to a project.
// Start and End are day-granular (midnight); a zero value means unset.
type Task struct {
	ID            string
	ProjectID     string
	MilestoneID   string // empty = not linked to a milestone
	ParentID      string // hierarchy only, ignored by scheduling
	Label         string
	Start         time.Time
	End           time.Time
	DurationUnits float64 // working units; derived from Start/End when 0
	Mode          WorkMode
	CalendarID    string // empty = weekday default (Mon–Fri)
	Status        Status
	Progress      int // 0–100, informational
}

// HasDates reports whether both bounds are set.
func (t Task) HasDates() bool {
	return !t.Start.IsZero() && !t.End.IsZero()
}

// DependencyType is the precedence relation between two tasks.
type DependencyType string

const (
	FinishToStart  DependencyType = "FS"
	StartToStart   DependencyType = "SS"
	FinishToFinish DependencyType = "FF"
	StartToFinish  DependencyType = "SF"
)

// Valid reports whether the type is a known relation.
func (d DependencyType) Valid() bool {
	switch d {
	case FinishToStart, StartToStart, FinishToFinish, StartToFinish:
		return true
	default:
		return false
	}
}

// Dependency is a directed, lagged precedence edge predecessor → successor.
type Dependency struct {
	SuccessorID   string
	PredecessorID string
	Type          DependencyType
	LagDays       int // negative = lead
}

// Milestone groups tasks under a contractual waypoint. Start and End are
// derived from the linked tasks while at least one task has dates.
type Milestone struct {
	ID        string
	ProjectID string
	Label     string
	Start     time.Time
	End       time.Time
	OnGantt   bool
}
