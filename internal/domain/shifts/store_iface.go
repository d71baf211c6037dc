package shifts

import "context"

// StoreAPI is the record-store surface of the shift lifecycle. Status
// transitions are conditional updates paired with their audit entry in
// one transaction; a false return means the status precondition did not
// hold at write time.
type StoreAPI interface {
	Get(ctx context.Context, shiftID string) (*Shift, error)
	ListMonth(ctx context.Context, workerID string, month, year int) ([]Shift, error)
	ListSheetMonth(ctx context.Context, sheetKey string, month, year int) ([]Shift, error)
	Create(ctx context.Context, sh Shift, actorID string) (string, error)
	UpdatePlan(ctx context.Context, sh Shift, actorID string) (bool, error)
	Delete(ctx context.Context, shiftID, actorID string) (bool, error)
	ConfirmShift(ctx context.Context, shiftID, actorID string) (bool, error)
	ChangeShift(ctx context.Context, shiftID string, req ChangeRequest, actorID string) (bool, error)
	PlannedRemaining(ctx context.Context, workerID string, month, year int) (int, error)
	SubmitMonth(ctx context.Context, workerID, actorID string, month, year int) (int, error)
}
