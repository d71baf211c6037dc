package shifts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dienstplan/internal/domain/audit"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const shiftColumns = `
    id, worker_id, date, month, year,
    COALESCE(planned_start, ''), COALESCE(planned_end, ''),
    COALESCE(actual_start, ''), COALESCE(actual_end, ''),
    break_minutes, COALESCE(absence_kind, ''), status, COALESCE(note, ''),
    COALESCE(sheet_key::text, ''), COALESCE(backup_worker_id::text, ''),
    COALESCE(modified_by::text, ''), modified_at, created_at`

func scanShift(row pgx.Row) (*Shift, error) {
	var sh Shift
	err := row.Scan(
		&sh.ID, &sh.WorkerID, &sh.Date, &sh.Month, &sh.Year,
		&sh.PlannedStart, &sh.PlannedEnd, &sh.ActualStart, &sh.ActualEnd,
		&sh.BreakMinutes, &sh.AbsenceKind, &sh.Status, &sh.Note,
		&sh.SheetKey, &sh.BackupWorkerID, &sh.ModifiedBy, &sh.ModifiedAt, &sh.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sh, nil
}

func (s *Store) Get(ctx context.Context, shiftID string) (*Shift, error) {
	sh, err := scanShift(s.DB.QueryRow(ctx, "SELECT"+shiftColumns+" FROM shifts WHERE id = $1", shiftID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}
	return sh, nil
}

func (s *Store) ListMonth(ctx context.Context, workerID string, month, year int) ([]Shift, error) {
	return s.list(ctx, "worker_id = $1 AND month = $2 AND year = $3", workerID, month, year)
}

func (s *Store) ListSheetMonth(ctx context.Context, sheetKey string, month, year int) ([]Shift, error) {
	return s.list(ctx, "sheet_key = $1 AND month = $2 AND year = $3", sheetKey, month, year)
}

func (s *Store) list(ctx context.Context, where string, args ...any) ([]Shift, error) {
	rows, err := s.DB.Query(ctx, "SELECT"+shiftColumns+" FROM shifts WHERE "+where+" ORDER BY date, worker_id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Shift
	for rows.Next() {
		sh, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sh)
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, sh Shift, actorID string) (string, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	var id string
	err = tx.QueryRow(ctx, `
    INSERT INTO shifts (worker_id, date, month, year, planned_start, planned_end, break_minutes,
                        status, note, sheet_key, backup_worker_id, modified_by)
    VALUES ($1,$2,$3,$4,NULLIF($5,''),NULLIF($6,''),$7,$8,NULLIF($9,''),NULLIF($10,'')::uuid,NULLIF($11,'')::uuid,$12)
    RETURNING id
  `, sh.WorkerID, sh.Date, sh.Month, sh.Year, sh.PlannedStart, sh.PlannedEnd, sh.BreakMinutes,
		StatusPlanned, sh.Note, sh.SheetKey, sh.BackupWorkerID, actorID).Scan(&id)
	if err != nil {
		return "", err
	}

	entry := audit.Entry{
		WorkerID: sh.WorkerID,
		ActorID:  actorID,
		Action:   ActionCreate,
		NewValue: fmt.Sprintf("%s %s-%s", sh.Date.Format("2006-01-02"), sh.PlannedStart, sh.PlannedEnd),
	}
	if err := audit.InsertTx(ctx, tx, entry); err != nil {
		return "", err
	}
	return id, tx.Commit(ctx)
}

func (s *Store) UpdatePlan(ctx context.Context, sh Shift, actorID string) (bool, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
    UPDATE shifts
    SET date = $1, month = $2, year = $3, planned_start = NULLIF($4,''), planned_end = NULLIF($5,''),
        break_minutes = $6, note = NULLIF($7,''), backup_worker_id = NULLIF($8,'')::uuid,
        modified_by = $9, modified_at = now()
    WHERE id = $10
  `, sh.Date, sh.Month, sh.Year, sh.PlannedStart, sh.PlannedEnd, sh.BreakMinutes, sh.Note,
		sh.BackupWorkerID, actorID, sh.ID)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	entry := audit.Entry{
		WorkerID: sh.WorkerID,
		ActorID:  actorID,
		Action:   ActionUpdatePlan,
		NewValue: fmt.Sprintf("%s %s-%s", sh.Date.Format("2006-01-02"), sh.PlannedStart, sh.PlannedEnd),
	}
	if err := audit.InsertTx(ctx, tx, entry); err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}

func (s *Store) Delete(ctx context.Context, shiftID, actorID string) (bool, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var workerID, date string
	err = tx.QueryRow(ctx, `
    DELETE FROM shifts WHERE id = $1
    RETURNING worker_id::text, date::text
  `, shiftID).Scan(&workerID, &date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	entry := audit.Entry{WorkerID: workerID, ActorID: actorID, Action: ActionDelete, OldValue: date}
	if err := audit.InsertTx(ctx, tx, entry); err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}

// ConfirmShift moves a PLANNED shift to CONFIRMED, copying the plan into
// the actuals. The status check rides on the UPDATE itself so a
// concurrent transition loses cleanly.
func (s *Store) ConfirmShift(ctx context.Context, shiftID, actorID string) (bool, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var workerID string
	err = tx.QueryRow(ctx, `
    UPDATE shifts
    SET status = $1, actual_start = planned_start, actual_end = planned_end,
        modified_by = $2, modified_at = now()
    WHERE id = $3 AND status = $4
    RETURNING worker_id::text
  `, StatusConfirmed, actorID, shiftID, StatusPlanned).Scan(&workerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	entry := audit.Entry{
		WorkerID: workerID,
		ActorID:  actorID,
		Action:   ActionConfirm,
		OldValue: StatusPlanned,
		NewValue: StatusConfirmed,
	}
	if err := audit.InsertTx(ctx, tx, entry); err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}

func (s *Store) ChangeShift(ctx context.Context, shiftID string, req ChangeRequest, actorID string) (bool, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var workerID, oldStatus string
	err = tx.QueryRow(ctx, `
    SELECT worker_id::text, status
    FROM shifts
    WHERE id = $1
    FOR UPDATE
  `, shiftID).Scan(&workerID, &oldStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	if oldStatus != StatusPlanned && oldStatus != StatusConfirmed {
		return false, nil
	}

	_, err = tx.Exec(ctx, `
    UPDATE shifts
    SET status = $1, actual_start = NULLIF($2,''), actual_end = NULLIF($3,''),
        break_minutes = $4, absence_kind = NULLIF($5,''), note = NULLIF($6,''),
        modified_by = $7, modified_at = now()
    WHERE id = $8
  `, StatusChanged, req.ActualStart, req.ActualEnd, req.BreakMinutes, req.AbsenceKind, req.Note,
		actorID, shiftID)
	if err != nil {
		return false, err
	}

	entry := audit.Entry{
		WorkerID: workerID,
		ActorID:  actorID,
		Action:   ActionChange,
		OldValue: oldStatus,
		NewValue: fmt.Sprintf("%s %s-%s", StatusChanged, req.ActualStart, req.ActualEnd),
	}
	if err := audit.InsertTx(ctx, tx, entry); err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}

func (s *Store) PlannedRemaining(ctx context.Context, workerID string, month, year int) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM shifts
    WHERE worker_id = $1 AND month = $2 AND year = $3
      AND status = $4 AND planned_start IS NOT NULL
  `, workerID, month, year, StatusPlanned).Scan(&count)
	return count, err
}

// SubmitMonth atomically moves every confirmed/changed shift of the
// worker's month to SUBMITTED. The planned-remaining policy is re-checked
// inside the transaction; the bulk move and its single audit entry commit
// together or not at all.
func (s *Store) SubmitMonth(ctx context.Context, workerID, actorID string, month, year int) (int, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var remaining int
	err = tx.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM shifts
    WHERE worker_id = $1 AND month = $2 AND year = $3
      AND status = $4 AND planned_start IS NOT NULL
  `, workerID, month, year, StatusPlanned).Scan(&remaining)
	if err != nil {
		return 0, err
	}
	if remaining > 0 {
		return 0, &PlannedRemainingError{Count: remaining}
	}

	tag, err := tx.Exec(ctx, `
    UPDATE shifts
    SET status = $1, modified_by = $2, modified_at = now()
    WHERE worker_id = $3 AND month = $4 AND year = $5 AND status IN ($6, $7)
  `, StatusSubmitted, actorID, workerID, month, year, StatusConfirmed, StatusChanged)
	if err != nil {
		return 0, err
	}
	moved := int(tag.RowsAffected())

	entry := audit.Entry{
		WorkerID: workerID,
		ActorID:  actorID,
		Action:   ActionSubmitMonth,
		OldValue: fmt.Sprintf("%04d-%02d", year, month),
		NewValue: fmt.Sprintf("%d shifts %s", moved, StatusSubmitted),
	}
	if err := audit.InsertTx(ctx, tx, entry); err != nil {
		return 0, err
	}
	return moved, tx.Commit(ctx)
}
