package calendar

import (
	"time"

	"github.com/Fred49680/operaflow-gantt/internal/model"
)

// WorkedHours sums the worked span (end − start − lunch break) of every
// date in the closed interval [start, end]. A date override supplies its
// own hours; otherwise the weekly template applies. Days with no worked
// entry contribute 0, and a nil calendar yields 0.
func (e Engine) WorkedHours(start, end time.Time, cal *model.Calendar) float64 {
	if cal == nil {
		return 0
	}
	a, b := Midnight(start), Midnight(end)
	if b.Before(a) {
		return 0
	}
	var minutes int
	for day := a; !day.After(b); day = day.AddDate(0, 0, 1) {
		if ov := cal.OverrideFor(day); ov != nil {
			if ov.Type.Worked() {
				minutes += spanMinutes(ov.Start, ov.LunchStart, ov.LunchEnd, ov.End)
			}
			continue
		}
		tpl := cal.Week[int(day.Weekday())]
		if tpl.Type == model.DayWorked {
			minutes += spanMinutes(tpl.Start, tpl.LunchStart, tpl.LunchEnd, tpl.End)
		}
	}
	return Round2(float64(minutes) / 60)
}

// spanMinutes computes end − start − (lunchEnd − lunchStart) in minutes.
// Missing or malformed clock fields contribute nothing.
func spanMinutes(start, lunchStart, lunchEnd, end string) int {
	s, okS := parseClock(start)
	e, okE := parseClock(end)
	if !okS || !okE || e <= s {
		return 0
	}
	span := e - s
	ls, okLS := parseClock(lunchStart)
	le, okLE := parseClock(lunchEnd)
	if okLS && okLE && le > ls {
		span -= le - ls
	}
	if span < 0 {
		return 0
	}
	return span
}

// parseClock parses "HH:MM" into minutes since midnight.
func parseClock(s string) (int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, false
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' ||
		s[3] < '0' || s[3] > '9' || s[4] < '0' || s[4] > '9' {
		return 0, false
	}
	if h > 23 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
