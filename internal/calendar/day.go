// Package calendar implements working-time arithmetic: converting a start
// date plus a duration in working units into an end date (and back), and
// summing worked hours, under an optional work calendar.
package calendar

import (
	"math"
	"time"

	"github.com/Fred49680/operaflow-gantt/internal/model"
)

// Midnight truncates an instant to its date, UTC. All engine math is
// day-granular; clock time is never propagated.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SnapToDay rounds an instant to the nearest midnight. The half-day
// threshold is what keeps an interactive resize from jittering between
// two days while the cursor hovers mid-cell.
func SnapToDay(t time.Time) time.Time {
	day := Midnight(t)
	if t.Sub(day) >= 12*time.Hour {
		return day.AddDate(0, 0, 1)
	}
	return day
}

// DaysBetween returns the whole calendar days from a to b (b - a).
func DaysBetween(a, b time.Time) int {
	return int(Midnight(b).Sub(Midnight(a)) / (24 * time.Hour))
}

// Round2 rounds half away from zero at 2-decimal precision, the rounding
// used for displayed durations.
func Round2(f float64) float64 {
	if f < 0 {
		return -math.Floor(-f*100+0.5) / 100
	}
	return math.Floor(f*100+0.5) / 100
}

// dayWorked reports whether a date counts as worked. With no calendar the
// default is Monday–Friday; otherwise a date override wins over the
// weekly template.
func dayWorked(date time.Time, cal *model.Calendar) bool {
	if cal == nil {
		wd := date.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	}
	if ov := cal.OverrideFor(date); ov != nil {
		return ov.Type.Worked()
	}
	return cal.Week[int(date.Weekday())].Type == model.DayWorked
}
