package shifts

import "testing"

func TestTransitionAllowed(t *testing.T) {
	allowed := [][2]string{
		{StatusPlanned, StatusConfirmed},
		{StatusPlanned, StatusChanged},
		{StatusConfirmed, StatusChanged},
		{StatusConfirmed, StatusSubmitted},
		{StatusChanged, StatusSubmitted},
		{StatusSubmitted, StatusCompleted},
		{StatusSubmitted, StatusConfirmed},
	}
	for _, pair := range allowed {
		if !TransitionAllowed(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s to be allowed", pair[0], pair[1])
		}
	}

	denied := [][2]string{
		{StatusPlanned, StatusSubmitted},
		{StatusPlanned, StatusCompleted},
		{StatusCompleted, StatusConfirmed},
		{StatusCompleted, StatusSubmitted},
		{StatusConfirmed, StatusPlanned},
	}
	for _, pair := range denied {
		if TransitionAllowed(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s to be denied", pair[0], pair[1])
		}
	}
}

func TestWorkedMinutes(t *testing.T) {
	sh := Shift{ActualStart: "08:00", ActualEnd: "16:00", BreakMinutes: 30}
	minutes, err := WorkedMinutes(sh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 450 {
		t.Fatalf("expected 450, got %v", minutes)
	}
}

func TestWorkedMinutesFallsBackToPlan(t *testing.T) {
	sh := Shift{PlannedStart: "22:00", PlannedEnd: "06:00"}
	minutes, err := WorkedMinutes(sh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 480 {
		t.Fatalf("expected 480, got %v", minutes)
	}
}

func TestWorkedMinutesAbsenceKeepsBreak(t *testing.T) {
	sh := Shift{ActualStart: "08:00", ActualEnd: "16:00", BreakMinutes: 30, AbsenceKind: AbsenceSick}
	minutes, err := WorkedMinutes(sh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 480 {
		t.Fatalf("expected absence duration 480, got %v", minutes)
	}
}

func TestWorkedMinutesNoTimes(t *testing.T) {
	minutes, err := WorkedMinutes(Shift{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 0 {
		t.Fatalf("expected 0, got %v", minutes)
	}
}
