package calendar

import (
	"math"
	"time"

	"github.com/Fred49680/operaflow-gantt/internal/model"
)

// DefaultMaxWalkDays caps the day walk (≈20 years). A calendar that marks
// no day as worked would otherwise make the walk diverge.
const DefaultMaxWalkDays = 7300

// Engine performs working-time conversions. The zero value is not usable;
// construct with New.
type Engine struct {
	maxWalkDays int
}

func New() Engine {
	return Engine{maxWalkDays: DefaultMaxWalkDays}
}

// NewWithLimit builds an engine with an explicit walk cap.
func NewWithLimit(maxWalkDays int) Engine {
	if maxWalkDays <= 0 {
		maxWalkDays = DefaultMaxWalkDays
	}
	return Engine{maxWalkDays: maxWalkDays}
}

// AddWorkingDuration walks forward from start until units working days
// have been counted, inclusive of the start day: a one-day task starts
// and ends on the same date. Continuous modes count every calendar day.
// Fractional units are rounded up to whole days at the final step.
// units <= 0 degenerates to end = start.
func (e Engine) AddWorkingDuration(start time.Time, units float64, mode model.WorkMode, cal *model.Calendar) time.Time {
	day := Midnight(start)
	need := int(math.Ceil(units))
	if need <= 0 {
		return day
	}
	if mode.CountsEveryDay() {
		return day.AddDate(0, 0, need-1)
	}
	counted := 0
	for i := 0; i < e.maxWalkDays; i++ {
		if dayWorked(day, cal) {
			counted++
			if counted == need {
				return day
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	// Walk cap hit: no worked day in range. Return the capped date
	// rather than failing.
	return day
}

// SubWorkingDuration is the backward counterpart: it walks back from end
// until units working days have been counted (end day inclusive) and
// returns the start date. Used for end-anchored duration-preserving
// shifts.
func (e Engine) SubWorkingDuration(end time.Time, units float64, mode model.WorkMode, cal *model.Calendar) time.Time {
	day := Midnight(end)
	need := int(math.Ceil(units))
	if need <= 0 {
		return day
	}
	if mode.CountsEveryDay() {
		return day.AddDate(0, 0, -(need - 1))
	}
	counted := 0
	for i := 0; i < e.maxWalkDays; i++ {
		if dayWorked(day, cal) {
			counted++
			if counted == need {
				return day
			}
		}
		day = day.AddDate(0, 0, -1)
	}
	return day
}

// CountWorkingDuration counts the working days in the closed interval
// [start, end] under the task's mode and calendar. end before start
// yields 0, not an error.
func (e Engine) CountWorkingDuration(start, end time.Time, mode model.WorkMode, cal *model.Calendar) float64 {
	a, b := Midnight(start), Midnight(end)
	if b.Before(a) {
		return 0
	}
	if mode.CountsEveryDay() {
		return float64(DaysBetween(a, b) + 1)
	}
	counted := 0
	for day := a; !day.After(b); day = day.AddDate(0, 0, 1) {
		if dayWorked(day, cal) {
			counted++
		}
	}
	return float64(counted)
}
