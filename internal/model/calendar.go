package model

import "time"

// DayType marks a weekday in the weekly template.
type DayType string

const (
	DayWorked    DayType = "worked"
	DayNonWorked DayType = "non_worked"
)

// OverrideType classifies a date-specific exception day.
type OverrideType string

const (
	OverrideWorked        OverrideType = "worked"
	OverridePublicHoliday OverrideType = "public_holiday"
	OverrideNonWorked     OverrideType = "non_worked"
	OverrideReducedHours  OverrideType = "reduced_hours"
	OverrideExceptional   OverrideType = "exceptional"
)

// Worked reports whether the exception day counts as a worked day.
func (o OverrideType) Worked() bool {
	switch o {
	case OverrideWorked, OverrideReducedHours, OverrideExceptional:
		return true
	default:
		return false
	}
}

// DaySchedule is one weekday's template: whether it is worked and, if so,
// the worked span. Times are "HH:MM".
type DaySchedule struct {
	Type       DayType `yaml:"type"`
	Start      string  `yaml:"start,omitempty"`
	LunchStart string  `yaml:"lunch_start,omitempty"`
	LunchEnd   string  `yaml:"lunch_end,omitempty"`
	End        string  `yaml:"end,omitempty"`
}

// DateOverride is a date-specific exception that wins over the weekly
// template. Date uses DateLayout.
type DateOverride struct {
	Date       string       `yaml:"date"`
	Type       OverrideType `yaml:"type"`
	Start      string       `yaml:"start,omitempty"`
	LunchStart string       `yaml:"lunch_start,omitempty"`
	LunchEnd   string       `yaml:"lunch_end,omitempty"`
	End        string       `yaml:"end,omitempty"`
}

// Calendar is a named work schedule: a weekly template (index 0=Sunday)
// plus exception days. Read-only to the scheduling core.
type Calendar struct {
	ID        string         `yaml:"id"`
	Label     string         `yaml:"label"`
	SiteID    string         `yaml:"site_id,omitempty"` // empty = global
	Active    bool           `yaml:"active"`
	Week      [7]DaySchedule `yaml:"week"`
	Overrides []DateOverride `yaml:"overrides,omitempty"`
}

// OverrideFor returns the exception entry for the date, if any.
func (c *Calendar) OverrideFor(date time.Time) *DateOverride {
	key := date.Format(DateLayout)
	for i := range c.Overrides {
		if c.Overrides[i].Date == key {
			return &c.Overrides[i]
		}
	}
	return nil
}
