package shifts

import (
	"errors"
	"fmt"
)

var (
	ErrShiftNotFound     = errors.New("shift not found")
	ErrNotShiftOwner     = errors.New("shift belongs to another worker")
	ErrInvalidTransition = errors.New("shift status does not allow this transition")
	ErrInvalidAbsence    = errors.New("unknown absence kind")
	ErrNegativeBreak     = errors.New("break minutes must not be negative")
)

// PlannedRemainingError rejects a monthly submit while shifts with a
// planned start are still unconfirmed.
type PlannedRemainingError struct {
	Count int
}

func (e *PlannedRemainingError) Error() string {
	return fmt.Sprintf("%d planned shifts still unprocessed", e.Count)
}
