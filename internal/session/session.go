// Package session implements the interactive edit contract: it
// validates drag/resize gestures against a task's status, computes the
// proposed dates, and on commit runs propagation, milestone
// aggregation, and batching as one semantic unit.
package session

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/Fred49680/operaflow-gantt/internal/batch"
	"github.com/Fred49680/operaflow-gantt/internal/calendar"
	"github.com/Fred49680/operaflow-gantt/internal/events"
	"github.com/Fred49680/operaflow-gantt/internal/model"
	"github.com/Fred49680/operaflow-gantt/internal/schedule"
	"github.com/Fred49680/operaflow-gantt/internal/store"
)

type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func parseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LogLevelDebug
	case "info":
		return LogLevelInfo
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// Session is one project view's editing state: an in-memory working
// copy of the tasks, dependencies and milestones, optimistically
// updated on each committed gesture. All state is discarded when the
// view closes; pending writes are flushed, not dropped.
type Session struct {
	projectID  string
	eng        calendar.Engine
	tasks      map[string]model.Task
	deps       []model.Dependency
	milestones map[string]model.Milestone
	calendars  schedule.CalendarResolver
	batcher    *batch.Batcher
	bus        *events.Bus
	logger     *log.Logger
	logLevel   LogLevel
}

// New builds a session over an already-loaded project. The engine
// carries the configured walk cap (calendar.NewWithLimit).
func New(projectID string, eng calendar.Engine, tasks []model.Task, deps []model.Dependency, milestones []model.Milestone, calendars schedule.CalendarResolver, batcher *batch.Batcher, logger *log.Logger, logLevel string) *Session {
	if logger == nil {
		logger = log.Default()
	}
	s := &Session{
		projectID:  projectID,
		eng:        eng,
		tasks:      make(map[string]model.Task, len(tasks)),
		deps:       deps,
		milestones: make(map[string]model.Milestone, len(milestones)),
		calendars:  calendars,
		batcher:    batcher,
		logger:     logger,
		logLevel:   parseLogLevel(logLevel),
	}
	for _, t := range tasks {
		s.tasks[t.ID] = t
	}
	for _, m := range milestones {
		s.milestones[m.ID] = m
	}
	return s
}

// Open loads a project from the boundary stores and builds a session
// over it. Calendar lookups are served through the store; a failed
// lookup falls back to the weekday default with a warning.
func Open(ctx context.Context, ts store.TaskStore, ms store.MilestoneStore, cs store.CalendarStore, projectID string, eng calendar.Engine, batcher *batch.Batcher, logger *log.Logger, logLevel string) (*Session, error) {
	tasks, err := ts.ListTasks(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	deps, err := ts.ListDependencies(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list dependencies: %w", err)
	}
	milestones, err := ms.ListMilestones(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}

	s := New(projectID, eng, tasks, deps, milestones, nil, batcher, logger, logLevel)
	s.calendars = func(id string) *model.Calendar {
		cal, err := cs.GetCalendar(context.Background(), id)
		if err != nil {
			s.log(LogLevelWarn, "calendar lookup id=%s error=%v", id, err)
			return nil
		}
		return cal
	}
	return s, nil
}

// SetBus wires an event bus for gesture notifications.
func (s *Session) SetBus(bus *events.Bus) {
	s.bus = bus
}

// Task returns the working copy of a task.
func (s *Session) Task(id string) (model.Task, bool) {
	t, ok := s.tasks[id]
	return t, ok
}

// Tasks returns the working copy, ordered by start date then id.
func (s *Session) Tasks() []model.Task {
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Milestone returns the working copy of a milestone.
func (s *Session) Milestone(id string) (model.Milestone, bool) {
	m, ok := s.milestones[id]
	return m, ok
}

// PendingCount reports queued, not-yet-flushed record writes.
func (s *Session) PendingCount() int {
	if s.batcher == nil {
		return 0
	}
	return s.batcher.PendingCount()
}

// Close flushes pending changes immediately. Closing the view before
// the debounce timer fires must not lose edits.
func (s *Session) Close(ctx context.Context) error {
	if s.batcher == nil {
		return nil
	}
	return s.batcher.Close(ctx)
}

func (s *Session) taskList() []model.Task {
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	return out
}

func (s *Session) tasksOfMilestone(milestoneID string) []model.Task {
	var out []model.Task
	for _, t := range s.tasks {
		if t.MilestoneID == milestoneID {
			out = append(out, t)
		}
	}
	return out
}

func (s *Session) calendarFor(t model.Task) *model.Calendar {
	if s.calendars == nil || t.CalendarID == "" {
		return nil
	}
	return s.calendars(t.CalendarID)
}

func (s *Session) log(level LogLevel, format string, args ...interface{}) {
	if level < s.logLevel {
		return
	}
	s.logger.Printf("session project=%s "+format, append([]interface{}{s.projectID}, args...)...)
}
