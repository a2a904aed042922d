// Package store defines the boundary contracts to the external record
// store and ships a YAML-file reference implementation.
package store

import (
	"context"
	"time"

	"github.com/Fred49680/operaflow-gantt/internal/model"
)

// TaskPatch is a partial update of a task's schedule fields. Nil fields
// are left untouched.
type TaskPatch struct {
	Start         *time.Time
	End           *time.Time
	DurationUnits *float64
	Status        *model.Status
}

// MilestonePatch is a partial update of a milestone's derived dates.
type MilestonePatch struct {
	Start *time.Time
	End   *time.Time
}

// TaskStore serves one project's tasks and dependency edges. PatchTask
// returns the authoritative updated record.
type TaskStore interface {
	ListTasks(ctx context.Context, projectID string) ([]model.Task, error)
	ListDependencies(ctx context.Context, projectID string) ([]model.Dependency, error)
	PatchTask(ctx context.Context, id string, patch TaskPatch) (model.Task, error)
}

// MilestoneStore serves one project's milestones.
type MilestoneStore interface {
	ListMilestones(ctx context.Context, projectID string) ([]model.Milestone, error)
	PatchMilestone(ctx context.Context, id string, patch MilestonePatch) (model.Milestone, error)
}

// CalendarStore serves work calendars, authored elsewhere and read-only
// here. siteID empty lists global calendars only.
type CalendarStore interface {
	GetCalendar(ctx context.Context, id string) (*model.Calendar, error)
	ListActiveCalendars(ctx context.Context, siteID string) ([]model.Calendar, error)
}
