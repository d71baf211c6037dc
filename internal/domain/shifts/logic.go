package shifts

import "dienstplan/internal/domain/timeclock"

// TransitionAllowed encodes the shift state machine. The reverse edge
// SUBMITTED -> CONFIRMED exists only for signature withdrawal.
func TransitionAllowed(from, to string) bool {
	switch from {
	case StatusPlanned:
		return to == StatusConfirmed || to == StatusChanged
	case StatusConfirmed:
		return to == StatusChanged || to == StatusSubmitted
	case StatusChanged:
		return to == StatusSubmitted
	case StatusSubmitted:
		return to == StatusCompleted || to == StatusConfirmed
	default:
		return false
	}
}

// ValidAbsence reports whether the given absence kind is known.
func ValidAbsence(kind string) bool {
	return kind == AbsenceNone || kind == AbsenceSick || kind == AbsenceVacation
}

// EffectiveTimes returns the start/end pair payroll and display use:
// actuals once the worker confirmed or changed, otherwise the plan.
func EffectiveTimes(sh Shift) (string, string) {
	if sh.ActualStart != "" && sh.ActualEnd != "" {
		return sh.ActualStart, sh.ActualEnd
	}
	return sh.PlannedStart, sh.PlannedEnd
}

// WorkedMinutes computes the shift's payable minutes: elapsed time of the
// effective interval minus the break. Absence shifts report the absence
// duration unchanged; shifts without usable times report zero.
func WorkedMinutes(sh Shift) (int, error) {
	start, end := EffectiveTimes(sh)
	if start == "" || end == "" {
		return 0, nil
	}
	minutes, err := timeclock.Duration(start, end)
	if err != nil {
		return 0, err
	}
	if sh.AbsenceKind != AbsenceNone {
		return minutes, nil
	}
	minutes -= sh.BreakMinutes
	if minutes < 0 {
		minutes = 0
	}
	return minutes, nil
}
