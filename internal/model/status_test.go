package model

import "testing"

func TestIsTerminal(t *testing.T) {
	tests := []struct {
		status   Status
		terminal bool
	}{
		{StatusPlanned, false},
		{StatusLaunched, false},
		{StatusExtended, false},
		{StatusSuspended, false},
		{StatusPostponed, false},
		{StatusCompleted, true},
		{StatusCancelled, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := IsTerminal(tt.status); got != tt.terminal {
				t.Errorf("IsTerminal(%q) = %v, want %v", tt.status, got, tt.terminal)
			}
		})
	}
}

func TestGestureBlocked(t *testing.T) {
	tests := []struct {
		status  Status
		gesture Gesture
		blocked bool
	}{
		{StatusPlanned, GestureDrag, false},
		{StatusPlanned, GestureResizeStart, false},
		{StatusPlanned, GestureResizeEnd, false},
		{StatusLaunched, GestureDrag, true},
		{StatusLaunched, GestureResizeStart, true},
		{StatusLaunched, GestureResizeEnd, false},
		{StatusExtended, GestureDrag, true},
		{StatusExtended, GestureResizeStart, true},
		{StatusExtended, GestureResizeEnd, false},
		{StatusSuspended, GestureDrag, true},
		{StatusSuspended, GestureResizeStart, true},
		{StatusSuspended, GestureResizeEnd, true},
		{StatusCompleted, GestureDrag, true},
		{StatusCompleted, GestureResizeStart, true},
		{StatusCompleted, GestureResizeEnd, true},
		{StatusPostponed, GestureDrag, false},
		{StatusCancelled, GestureDrag, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status)+"/"+string(tt.gesture), func(t *testing.T) {
			if got := GestureBlocked(tt.status, tt.gesture); got != tt.blocked {
				t.Errorf("GestureBlocked(%q, %q) = %v, want %v", tt.status, tt.gesture, got, tt.blocked)
			}
		})
	}
}

func TestValidateStatusTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		wantErr  bool
	}{
		{StatusPlanned, StatusLaunched, false},
		{StatusLaunched, StatusExtended, false},
		{StatusLaunched, StatusCompleted, false},
		{StatusSuspended, StatusLaunched, false},
		{StatusPostponed, StatusPlanned, false},
		{StatusPlanned, StatusExtended, true},
		{StatusCompleted, StatusPlanned, true},
		{StatusCancelled, StatusLaunched, true},
		{StatusExtended, StatusPlanned, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"→"+string(tt.to), func(t *testing.T) {
			err := ValidateStatusTransition(tt.from, tt.to)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStatusTransition(%q, %q) error = %v, wantErr %v", tt.from, tt.to, err, tt.wantErr)
			}
		})
	}
}

func TestWorkModeCountsEveryDay(t *testing.T) {
	tests := []struct {
		mode WorkMode
		want bool
	}{
		{ModeStandard, false},
		{ModeNight, false},
		{ModeWeekend, false},
		{ModeHoliday, false},
		{ModeContinuous, true},
		{ModeAccelerated, true},
	}
	for _, tt := range tests {
		if got := tt.mode.CountsEveryDay(); got != tt.want {
			t.Errorf("%q.CountsEveryDay() = %v, want %v", tt.mode, got, tt.want)
		}
	}
}
