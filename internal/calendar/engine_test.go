package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fred49680/operaflow-gantt/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// weekdayCalendar is Mon–Fri 08:00–17:00 with a one-hour lunch.
func weekdayCalendar() *model.Calendar {
	cal := &model.Calendar{ID: "std", Label: "Standard", Active: true}
	worked := model.DaySchedule{
		Type:       model.DayWorked,
		Start:      "08:00",
		LunchStart: "12:00",
		LunchEnd:   "13:00",
		End:        "17:00",
	}
	for wd := time.Monday; wd <= time.Friday; wd++ {
		cal.Week[int(wd)] = worked
	}
	cal.Week[int(time.Saturday)] = model.DaySchedule{Type: model.DayNonWorked}
	cal.Week[int(time.Sunday)] = model.DaySchedule{Type: model.DayNonWorked}
	return cal
}

func TestAddWorkingDurationWeekdayDefault(t *testing.T) {
	eng := New()

	// Monday 2026-03-02 + 5 working days = Friday 2026-03-06, start day
	// inclusive.
	monday := date(2026, time.March, 2)
	require.Equal(t, time.Monday, monday.Weekday())
	assert.Equal(t, date(2026, time.March, 6), eng.AddWorkingDuration(monday, 5, model.ModeStandard, nil))

	// A one-day task starts and ends on the same date.
	assert.Equal(t, monday, eng.AddWorkingDuration(monday, 1, model.ModeStandard, nil))

	// Friday + 2 working days skips the weekend and lands on Monday.
	friday := date(2026, time.March, 6)
	assert.Equal(t, date(2026, time.March, 9), eng.AddWorkingDuration(friday, 2, model.ModeStandard, nil))

	// Starting on a Saturday, the first counted day is Monday.
	saturday := date(2026, time.March, 7)
	assert.Equal(t, date(2026, time.March, 9), eng.AddWorkingDuration(saturday, 1, model.ModeStandard, nil))
}

func TestAddWorkingDurationContinuous(t *testing.T) {
	eng := New()
	friday := date(2026, time.March, 6)

	// Continuous modes count every calendar day, weekend included.
	assert.Equal(t, date(2026, time.March, 8), eng.AddWorkingDuration(friday, 3, model.ModeContinuous, nil))
	assert.Equal(t, date(2026, time.March, 8), eng.AddWorkingDuration(friday, 3, model.ModeAccelerated, nil))
	assert.Equal(t, friday, eng.AddWorkingDuration(friday, 1, model.ModeContinuous, nil))
}

func TestAddWorkingDurationFractional(t *testing.T) {
	eng := New()
	monday := date(2026, time.March, 2)

	// Half units round up to a whole day at the final step.
	assert.Equal(t, date(2026, time.March, 4), eng.AddWorkingDuration(monday, 2.5, model.ModeStandard, nil))
}

func TestAddWorkingDurationDegenerate(t *testing.T) {
	eng := New()
	monday := date(2026, time.March, 2)

	assert.Equal(t, monday, eng.AddWorkingDuration(monday, 0, model.ModeStandard, nil))
	assert.Equal(t, monday, eng.AddWorkingDuration(monday, -3, model.ModeStandard, nil))
}

func TestAddWorkingDurationWithCalendar(t *testing.T) {
	eng := New()
	cal := weekdayCalendar()

	// Wednesday 2026-03-04 is a public holiday override.
	cal.Overrides = append(cal.Overrides, model.DateOverride{
		Date: "2026-03-04",
		Type: model.OverridePublicHoliday,
	})

	monday := date(2026, time.March, 2)
	// Mon, Tue, (Wed skipped), Thu = 3 worked days.
	assert.Equal(t, date(2026, time.March, 5), eng.AddWorkingDuration(monday, 3, model.ModeStandard, cal))

	// A worked-Saturday override extends the week.
	cal.Overrides = append(cal.Overrides, model.DateOverride{
		Date:  "2026-03-07",
		Type:  model.OverrideWorked,
		Start: "08:00",
		End:   "12:00",
	})
	// Mon..Sat with Wed off = Mon,Tue,Thu,Fri,Sat = 5 worked days.
	assert.Equal(t, date(2026, time.March, 7), eng.AddWorkingDuration(monday, 5, model.ModeStandard, cal))
}

func TestSubWorkingDuration(t *testing.T) {
	eng := New()

	// Friday back 5 working days = Monday of the same week.
	friday := date(2026, time.March, 6)
	assert.Equal(t, date(2026, time.March, 2), eng.SubWorkingDuration(friday, 5, model.ModeStandard, nil))

	// Monday back 2 working days skips the weekend to Friday.
	monday := date(2026, time.March, 9)
	assert.Equal(t, date(2026, time.March, 6), eng.SubWorkingDuration(monday, 2, model.ModeStandard, nil))

	assert.Equal(t, date(2026, time.March, 4), eng.SubWorkingDuration(date(2026, time.March, 6), 3, model.ModeContinuous, nil))
}

func TestCountWorkingDuration(t *testing.T) {
	eng := New()
	monday := date(2026, time.March, 2)
	friday := date(2026, time.March, 6)
	sunday := date(2026, time.March, 8)

	assert.Equal(t, 5.0, eng.CountWorkingDuration(monday, friday, model.ModeStandard, nil))
	assert.Equal(t, 5.0, eng.CountWorkingDuration(monday, sunday, model.ModeStandard, nil))
	assert.Equal(t, 7.0, eng.CountWorkingDuration(monday, sunday, model.ModeContinuous, nil))
	assert.Equal(t, 1.0, eng.CountWorkingDuration(monday, monday, model.ModeStandard, nil))

	// end before start is tolerated, not an error.
	assert.Equal(t, 0.0, eng.CountWorkingDuration(friday, monday, model.ModeStandard, nil))
}

func TestDurationDateInverseLaw(t *testing.T) {
	eng := New()
	cal := weekdayCalendar()
	cal.Overrides = append(cal.Overrides, model.DateOverride{
		Date: "2026-03-10",
		Type: model.OverrideNonWorked,
	})

	starts := []time.Time{
		date(2026, time.March, 2), // Monday
		date(2026, time.March, 6), // Friday
		date(2026, time.March, 7), // Saturday
	}
	modes := []model.WorkMode{model.ModeStandard, model.ModeContinuous}
	cals := []*model.Calendar{nil, cal}

	for _, start := range starts {
		for _, mode := range modes {
			for _, c := range cals {
				for d := 1; d <= 15; d++ {
					end := eng.AddWorkingDuration(start, float64(d), mode, c)
					got := eng.CountWorkingDuration(start, end, mode, c)
					require.Equal(t, float64(d), got,
						"start=%s d=%d mode=%s cal=%v", start.Format("2006-01-02"), d, mode, c != nil)
				}
			}
		}
	}
}

func TestWalkCapOnDeadCalendar(t *testing.T) {
	// Every day non-worked: the walk must terminate, not hang.
	cal := &model.Calendar{ID: "dead"}
	for i := 0; i < 7; i++ {
		cal.Week[i] = model.DaySchedule{Type: model.DayNonWorked}
	}
	eng := NewWithLimit(30)
	end := eng.AddWorkingDuration(date(2026, time.March, 2), 5, model.ModeStandard, cal)
	assert.Equal(t, date(2026, time.April, 1), end)
}

func TestSnapToDay(t *testing.T) {
	day := date(2026, time.March, 2)

	assert.Equal(t, day, SnapToDay(day))
	assert.Equal(t, day, SnapToDay(day.Add(11*time.Hour+59*time.Minute)))
	assert.Equal(t, day.AddDate(0, 0, 1), SnapToDay(day.Add(12*time.Hour)))
	assert.Equal(t, day.AddDate(0, 0, 1), SnapToDay(day.Add(18*time.Hour)))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.67, Round2(1.666))
	assert.Equal(t, 1.66, Round2(1.664))
	assert.Equal(t, -1.67, Round2(-1.666))
	assert.Equal(t, 2.0, Round2(2.0))
	assert.Equal(t, 0.5, Round2(0.5))
}
