package submissions

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dienstplan/internal/domain/audit"
	"dienstplan/internal/domain/shifts"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func asPgx(tx Tx) pgx.Tx {
	return tx.(pgx.Tx)
}

const submissionColumns = `
    id, sheet_key, month, year, status,
    COALESCE(sign_token, ''), token_expires_at,
    recipient_signed_at, COALESCE(recipient_ip, ''),
    last_reminder_at, COALESCE(document_ref, ''), created_at`

func scanSubmission(row pgx.Row) (*Submission, error) {
	var sub Submission
	err := row.Scan(
		&sub.ID, &sub.SheetKey, &sub.Month, &sub.Year, &sub.Status,
		&sub.SignToken, &sub.TokenExpiresAt,
		&sub.RecipientSignedAt, &sub.RecipientIP,
		&sub.LastReminderAt, &sub.DocumentRef, &sub.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *Store) GetByID(ctx context.Context, submissionID string) (*Submission, error) {
	sub, err := scanSubmission(s.DB.QueryRow(ctx, "SELECT"+submissionColumns+" FROM submissions WHERE id = $1", submissionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return sub, nil
}

func (s *Store) GetBySheet(ctx context.Context, sheetKey string, month, year int) (*Submission, error) {
	sub, err := scanSubmission(s.DB.QueryRow(ctx,
		"SELECT"+submissionColumns+" FROM submissions WHERE sheet_key = $1 AND month = $2 AND year = $3",
		sheetKey, month, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return sub, nil
}

// CreateIfAbsent inserts the month's submission for a sheet or returns
// the existing one. The unique (sheet_key, month, year) index decides
// concurrent creation races.
func (s *Store) CreateIfAbsent(ctx context.Context, sheetKey string, month, year int) (*Submission, error) {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO submissions (sheet_key, month, year, status)
    VALUES ($1,$2,$3,$4)
    ON CONFLICT (sheet_key, month, year) DO NOTHING
  `, sheetKey, month, year, StatusPendingEmployees)
	if err != nil {
		return nil, err
	}
	return s.GetBySheet(ctx, sheetKey, month, year)
}

func (s *Store) HasSignature(ctx context.Context, submissionID, workerID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM employee_signatures WHERE submission_id = $1 AND worker_id = $2
  `, submissionID, workerID).Scan(&count)
	return count > 0, err
}

func (s *Store) ListSignatures(ctx context.Context, submissionID string) ([]Signature, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, submission_id, worker_id, signed_at
    FROM employee_signatures
    WHERE submission_id = $1
    ORDER BY signed_at
  `, submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Signature
	for rows.Next() {
		var sig Signature
		if err := rows.Scan(&sig.ID, &sig.SubmissionID, &sig.WorkerID, &sig.SignedAt); err != nil {
			return nil, err
		}
		out = append(out, sig)
	}
	return out, nil
}

func (s *Store) RequiredSigners(ctx context.Context, sheetKey string) ([]string, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id::text
    FROM workers
    WHERE team_id = $1 AND required_signer AND active
  `, sheetKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (s *Store) UnsubmittedCount(ctx context.Context, workerID string, month, year int) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM shifts
    WHERE worker_id = $1 AND month = $2 AND year = $3 AND status NOT IN ($4, $5)
  `, workerID, month, year, shifts.StatusSubmitted, shifts.StatusCompleted).Scan(&count)
	return count, err
}

func (s *Store) BeginSerializable(ctx context.Context) (Tx, error) {
	return s.DB.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
}

func (s *Store) InsertSignatureTx(ctx context.Context, tx Tx, submissionID, workerID string) (bool, error) {
	tag, err := asPgx(tx).Exec(ctx, `
    INSERT INTO employee_signatures (submission_id, worker_id)
    VALUES ($1,$2)
    ON CONFLICT (submission_id, worker_id) DO NOTHING
  `, submissionID, workerID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) DeleteSignatureTx(ctx context.Context, tx Tx, submissionID, workerID string) (bool, error) {
	tag, err := asPgx(tx).Exec(ctx, `
    DELETE FROM employee_signatures WHERE submission_id = $1 AND worker_id = $2
  `, submissionID, workerID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) SnapshotTx(ctx context.Context, tx Tx, submissionID string) (*Submission, error) {
	sub, err := scanSubmission(asPgx(tx).QueryRow(ctx,
		"SELECT"+submissionColumns+" FROM submissions WHERE id = $1", submissionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return sub, nil
}

func (s *Store) SignerIDsTx(ctx context.Context, tx Tx, submissionID string) ([]string, error) {
	rows, err := asPgx(tx).Query(ctx, `
    SELECT worker_id::text FROM employee_signatures WHERE submission_id = $1
  `, submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (s *Store) AdvanceToRecipientTx(ctx context.Context, tx Tx, submissionID, token string, expiresAt time.Time) (bool, error) {
	tag, err := asPgx(tx).Exec(ctx, `
    UPDATE submissions
    SET status = $1, sign_token = $2, token_expires_at = $3
    WHERE id = $4 AND status = $5
  `, StatusPendingRecipient, token, expiresAt, submissionID, StatusPendingEmployees)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) CompleteTx(ctx context.Context, tx Tx, submissionID string, signature []byte, ip string) (bool, error) {
	tag, err := asPgx(tx).Exec(ctx, `
    UPDATE submissions
    SET status = $1, recipient_signature = $2, recipient_signed_at = now(),
        recipient_ip = $3, sign_token = NULL, token_expires_at = NULL
    WHERE id = $4 AND status = $5
  `, StatusCompleted, signature, ip, submissionID, StatusPendingRecipient)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) RevertWorkerShiftsTx(ctx context.Context, tx Tx, workerID string, month, year int) (int, error) {
	tag, err := asPgx(tx).Exec(ctx, `
    UPDATE shifts
    SET status = $1, modified_by = $2, modified_at = now()
    WHERE worker_id = $2 AND month = $3 AND year = $4 AND status = $5
  `, shifts.StatusConfirmed, workerID, month, year, shifts.StatusSubmitted)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (s *Store) CompleteSheetShiftsTx(ctx context.Context, tx Tx, sheetKey string, month, year int) (int, error) {
	tag, err := asPgx(tx).Exec(ctx, `
    UPDATE shifts
    SET status = $1, modified_at = now()
    WHERE sheet_key = $2 AND month = $3 AND year = $4 AND status = $5
  `, shifts.StatusCompleted, sheetKey, month, year, shifts.StatusSubmitted)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// RevertStatusTx moves a submission back to PENDING_EMPLOYEES, but only
// while it is still in one of the two pending phases. Zero affected rows
// means a concurrent actor changed the status first.
func (s *Store) RevertStatusTx(ctx context.Context, tx Tx, submissionID string) (bool, error) {
	tag, err := asPgx(tx).Exec(ctx, `
    UPDATE submissions
    SET status = $1
    WHERE id = $2 AND status IN ($3, $4)
  `, StatusPendingEmployees, submissionID, StatusPendingEmployees, StatusPendingRecipient)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) AuditTx(ctx context.Context, tx Tx, e audit.Entry) error {
	return audit.InsertTx(ctx, asPgx(tx), e)
}

func (s *Store) ListPendingRecipient(ctx context.Context) ([]Submission, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT"+submissionColumns+" FROM submissions WHERE status = $1 ORDER BY created_at",
		StatusPendingRecipient)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sub)
	}
	return out, nil
}

func (s *Store) SetLastReminder(ctx context.Context, submissionID string, at time.Time) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE submissions SET last_reminder_at = $1 WHERE id = $2
  `, at, submissionID)
	return err
}

func (s *Store) SetDocumentRef(ctx context.Context, submissionID, ref string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE submissions SET document_ref = $1 WHERE id = $2
  `, ref, submissionID)
	return err
}
