package store

import (
	"time"

	"github.com/Fred49680/operaflow-gantt/internal/model"
)

const currentSchemaVersion = 1

// projectFile is the on-disk shape of one project's plan. Dates are
// stored as "YYYY-MM-DD" strings and parsed at the boundary.
type projectFile struct {
	SchemaVersion int               `yaml:"schema_version"`
	FileType      string            `yaml:"file_type"`
	Project       projectRecord     `yaml:"project"`
	Tasks         []taskRecord      `yaml:"tasks"`
	Dependencies  []depRecord       `yaml:"dependencies,omitempty"`
	Milestones    []milestoneRecord `yaml:"milestones,omitempty"`
	Calendars     []model.Calendar  `yaml:"calendars,omitempty"`
}

type projectRecord struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type taskRecord struct {
	ID            string  `yaml:"id"`
	MilestoneID   string  `yaml:"milestone_id,omitempty"`
	ParentID      string  `yaml:"parent_id,omitempty"`
	Label         string  `yaml:"label"`
	Start         string  `yaml:"start,omitempty"`
	End           string  `yaml:"end,omitempty"`
	DurationUnits float64 `yaml:"duration_units,omitempty"`
	Mode          string  `yaml:"mode,omitempty"`
	CalendarID    string  `yaml:"calendar_id,omitempty"`
	Status        string  `yaml:"status"`
	Progress      int     `yaml:"progress,omitempty"`
}

type depRecord struct {
	Successor   string `yaml:"successor"`
	Predecessor string `yaml:"predecessor"`
	Type        string `yaml:"type"`
	LagDays     int    `yaml:"lag_days,omitempty"`
}

type milestoneRecord struct {
	ID      string `yaml:"id"`
	Label   string `yaml:"label"`
	Start   string `yaml:"start,omitempty"`
	End     string `yaml:"end,omitempty"`
	OnGantt bool   `yaml:"on_gantt"`
}

// parseDate is lenient: a missing or malformed date yields the zero
// value, never an error.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(model.DateLayout)
}

func (r taskRecord) toModel(projectID string) model.Task {
	mode := model.WorkMode(r.Mode)
	if r.Mode == "" {
		mode = model.ModeStandard
	}
	status := model.Status(r.Status)
	if r.Status == "" {
		status = model.StatusPlanned
	}
	return model.Task{
		ID:            r.ID,
		ProjectID:     projectID,
		MilestoneID:   r.MilestoneID,
		ParentID:      r.ParentID,
		Label:         r.Label,
		Start:         parseDate(r.Start),
		End:           parseDate(r.End),
		DurationUnits: r.DurationUnits,
		Mode:          mode,
		CalendarID:    r.CalendarID,
		Status:        status,
		Progress:      r.Progress,
	}
}

func taskToRecord(t model.Task) taskRecord {
	return taskRecord{
		ID:            t.ID,
		MilestoneID:   t.MilestoneID,
		ParentID:      t.ParentID,
		Label:         t.Label,
		Start:         formatDate(t.Start),
		End:           formatDate(t.End),
		DurationUnits: t.DurationUnits,
		Mode:          string(t.Mode),
		CalendarID:    t.CalendarID,
		Status:        string(t.Status),
		Progress:      t.Progress,
	}
}

func (r depRecord) toModel() model.Dependency {
	typ := model.DependencyType(r.Type)
	if !typ.Valid() {
		typ = model.FinishToStart
	}
	return model.Dependency{
		SuccessorID:   r.Successor,
		PredecessorID: r.Predecessor,
		Type:          typ,
		LagDays:       r.LagDays,
	}
}

func (r milestoneRecord) toModel(projectID string) model.Milestone {
	return model.Milestone{
		ID:        r.ID,
		ProjectID: projectID,
		Label:     r.Label,
		Start:     parseDate(r.Start),
		End:       parseDate(r.End),
		OnGantt:   r.OnGantt,
	}
}
