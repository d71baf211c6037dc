package submissions

import (
	"context"
	"time"

	"dienstplan/internal/domain/audit"
)

// Tx is the transaction handle the workflow drives. The Postgres store
// hands out pgx transactions behind it; tests substitute their own.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// StoreAPI is the record-store surface of the submission workflow. Every
// method suffixed Tx must run on the given transaction; the ...Tx bulk
// and status writes are conditional updates whose bool result reports
// whether the precondition still held at write time.
type StoreAPI interface {
	GetByID(ctx context.Context, submissionID string) (*Submission, error)
	GetBySheet(ctx context.Context, sheetKey string, month, year int) (*Submission, error)
	CreateIfAbsent(ctx context.Context, sheetKey string, month, year int) (*Submission, error)
	HasSignature(ctx context.Context, submissionID, workerID string) (bool, error)
	ListSignatures(ctx context.Context, submissionID string) ([]Signature, error)
	RequiredSigners(ctx context.Context, sheetKey string) ([]string, error)
	UnsubmittedCount(ctx context.Context, workerID string, month, year int) (int, error)

	BeginSerializable(ctx context.Context) (Tx, error)

	InsertSignatureTx(ctx context.Context, tx Tx, submissionID, workerID string) (bool, error)
	DeleteSignatureTx(ctx context.Context, tx Tx, submissionID, workerID string) (bool, error)
	SnapshotTx(ctx context.Context, tx Tx, submissionID string) (*Submission, error)
	SignerIDsTx(ctx context.Context, tx Tx, submissionID string) ([]string, error)
	AdvanceToRecipientTx(ctx context.Context, tx Tx, submissionID, token string, expiresAt time.Time) (bool, error)
	CompleteTx(ctx context.Context, tx Tx, submissionID string, signature []byte, ip string) (bool, error)
	RevertWorkerShiftsTx(ctx context.Context, tx Tx, workerID string, month, year int) (int, error)
	CompleteSheetShiftsTx(ctx context.Context, tx Tx, sheetKey string, month, year int) (int, error)
	RevertStatusTx(ctx context.Context, tx Tx, submissionID string) (bool, error)
	AuditTx(ctx context.Context, tx Tx, e audit.Entry) error

	ListPendingRecipient(ctx context.Context) ([]Submission, error)
	SetLastReminder(ctx context.Context, submissionID string, at time.Time) error
	SetDocumentRef(ctx context.Context, submissionID, ref string) error
}
