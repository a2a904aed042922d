package model

import "fmt"

type Status string

const (
	StatusPlanned   Status = "planned"
	StatusLaunched  Status = "launched"
	StatusExtended  Status = "extended"
	StatusSuspended Status = "suspended"
	StatusPostponed Status = "postponed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// WorkMode governs which calendar days count toward a task's duration.
type WorkMode string

const (
	ModeStandard    WorkMode = "standard"
	ModeNight       WorkMode = "night"
	ModeWeekend     WorkMode = "weekend"
	ModeHoliday     WorkMode = "holiday"
	ModeContinuous  WorkMode = "continuous"
	ModeAccelerated WorkMode = "accelerated"
)

// CountsEveryDay reports whether the mode counts every calendar day
// (shift patterns that ignore the work calendar).
func (m WorkMode) CountsEveryDay() bool {
	return m == ModeContinuous || m == ModeAccelerated
}

// Gesture is an interactive edit kind on a task bar.
type Gesture string

const (
	GestureDrag        Gesture = "drag"
	GestureResizeStart Gesture = "resize_start"
	GestureResizeEnd   Gesture = "resize_end"
)

var terminalStatuses = map[Status]bool{
	StatusCompleted: true,
	StatusCancelled: true,
}

// Edit restrictions per status: an absent entry means the gesture is
// allowed (planned, postponed and cancelled are fully editable).
var blockedGestures = map[Status]map[Gesture]bool{
	StatusLaunched: {
		GestureDrag:        true,
		GestureResizeStart: true,
	},
	StatusExtended: {
		GestureDrag:        true,
		GestureResizeStart: true,
	},
	StatusSuspended: {
		GestureDrag:        true,
		GestureResizeStart: true,
		GestureResizeEnd:   true,
	},
	StatusCompleted: {
		GestureDrag:        true,
		GestureResizeStart: true,
		GestureResizeEnd:   true,
	},
}

var validStatusTransitions = map[Status]map[Status]bool{
	StatusPlanned: {
		StatusLaunched:  true,
		StatusPostponed: true,
		StatusCancelled: true,
	},
	StatusLaunched: {
		StatusExtended:  true,
		StatusSuspended: true,
		StatusCompleted: true,
		StatusCancelled: true,
	},
	StatusExtended: {
		StatusSuspended: true,
		StatusCompleted: true,
		StatusCancelled: true,
	},
	StatusSuspended: {
		StatusLaunched:  true,
		StatusExtended:  true,
		StatusCancelled: true,
	},
	StatusPostponed: {
		StatusPlanned:   true,
		StatusLaunched:  true,
		StatusCancelled: true,
	},
}

func IsTerminal(s Status) bool {
	return terminalStatuses[s]
}

// GestureBlocked reports whether the status forbids the gesture.
func GestureBlocked(s Status, g Gesture) bool {
	return blockedGestures[s][g]
}

func ValidateStatusTransition(from, to Status) error {
	if IsTerminal(from) {
		return fmt.Errorf("cannot transition from terminal status %q", from)
	}
	allowed, ok := validStatusTransitions[from]
	if !ok {
		return fmt.Errorf("unknown status %q", from)
	}
	if !allowed[to] {
		return fmt.Errorf("invalid status transition: %q → %q", from, to)
	}
	return nil
}
