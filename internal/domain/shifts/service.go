package shifts

import (
	"context"
	"fmt"
	"time"

	"dienstplan/internal/domain/timeclock"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) Get(ctx context.Context, shiftID string) (*Shift, error) {
	return s.store.Get(ctx, shiftID)
}

func (s *Service) ListMonth(ctx context.Context, workerID string, month, year int) ([]Shift, error) {
	return s.store.ListMonth(ctx, workerID, month, year)
}

func (s *Service) ListSheetMonth(ctx context.Context, sheetKey string, month, year int) ([]Shift, error) {
	return s.store.ListSheetMonth(ctx, sheetKey, month, year)
}

// Confirm accepts a planned shift as-is. Only the assigned worker may
// confirm; the PLANNED precondition is enforced by the store's
// conditional update so concurrent transitions cannot double-apply.
func (s *Service) Confirm(ctx context.Context, workerID, shiftID string) error {
	sh, err := s.store.Get(ctx, shiftID)
	if err != nil {
		return err
	}
	if sh.WorkerID != workerID {
		return ErrNotShiftOwner
	}

	ok, err := s.store.ConfirmShift(ctx, shiftID, workerID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidTransition
	}
	return nil
}

// Change records actuals that differ from the plan, or an absence.
func (s *Service) Change(ctx context.Context, workerID, shiftID string, req ChangeRequest) error {
	sh, err := s.store.Get(ctx, shiftID)
	if err != nil {
		return err
	}
	if sh.WorkerID != workerID {
		return ErrNotShiftOwner
	}
	if err := validateChange(req); err != nil {
		return err
	}

	ok, err := s.store.ChangeShift(ctx, shiftID, req, workerID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidTransition
	}
	return nil
}

// SubmitMonth bundles the worker's month for signing. Every shift with a
// planned start must already be confirmed or changed.
func (s *Service) SubmitMonth(ctx context.Context, workerID, actorID string, month, year int) (int, error) {
	if err := validateMonth(month, year); err != nil {
		return 0, err
	}
	return s.store.SubmitMonth(ctx, workerID, actorID, month, year)
}

func (s *Service) Create(ctx context.Context, req PlanRequest, sheetKey, actorID string) (string, error) {
	sh, err := planToShift(req, sheetKey)
	if err != nil {
		return "", err
	}
	return s.store.Create(ctx, sh, actorID)
}

// UpdatePlan rewrites the plan fields of an existing shift and returns
// the owning worker's ID. The owner comes from the stored shift, never
// from the request.
func (s *Service) UpdatePlan(ctx context.Context, shiftID string, req PlanRequest, actorID string) (string, error) {
	existing, err := s.store.Get(ctx, shiftID)
	if err != nil {
		return "", err
	}

	sh, err := planToShift(req, existing.SheetKey)
	if err != nil {
		return "", err
	}
	sh.ID = shiftID
	sh.WorkerID = existing.WorkerID

	ok, err := s.store.UpdatePlan(ctx, sh, actorID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrShiftNotFound
	}
	return existing.WorkerID, nil
}

func (s *Service) Delete(ctx context.Context, shiftID, actorID string) error {
	ok, err := s.store.Delete(ctx, shiftID, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrShiftNotFound
	}
	return nil
}

func planToShift(req PlanRequest, sheetKey string) (Shift, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return Shift{}, fmt.Errorf("invalid date: %w", err)
	}
	if req.PlannedStart != "" || req.PlannedEnd != "" {
		if _, err := timeclock.Duration(req.PlannedStart, req.PlannedEnd); err != nil {
			return Shift{}, err
		}
	}
	if req.BreakMinutes < 0 {
		return Shift{}, ErrNegativeBreak
	}

	return Shift{
		WorkerID:       req.WorkerID,
		Date:           date,
		Month:          int(date.Month()),
		Year:           date.Year(),
		PlannedStart:   req.PlannedStart,
		PlannedEnd:     req.PlannedEnd,
		BreakMinutes:   req.BreakMinutes,
		Note:           req.Note,
		SheetKey:       sheetKey,
		BackupWorkerID: req.BackupWorkerID,
	}, nil
}

func validateChange(req ChangeRequest) error {
	if !ValidAbsence(req.AbsenceKind) {
		return ErrInvalidAbsence
	}
	if req.BreakMinutes < 0 {
		return ErrNegativeBreak
	}
	if req.ActualStart != "" || req.ActualEnd != "" {
		if _, err := timeclock.Duration(req.ActualStart, req.ActualEnd); err != nil {
			return err
		}
	}
	return nil
}

func validateMonth(month, year int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("invalid month %d", month)
	}
	if year < 2000 || year > 2100 {
		return fmt.Errorf("invalid year %d", year)
	}
	return nil
}
