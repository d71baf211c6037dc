package submissions

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dienstplan/internal/domain/audit"
	"dienstplan/internal/domain/auth"
	"dienstplan/internal/domain/workers"
)

// Notifier delivers invitations and reminders to the care recipient.
// Failures are reported per call and never roll back workflow state.
type Notifier interface {
	SendInvitation(ctx context.Context, recipientName, recipientEmail, signURL, periodLabel string) error
	SendReminder(ctx context.Context, recipientName, recipientEmail, signURL, periodLabel string) error
}

// DocumentGenerator produces the persisted timesheet artifact for a
// completed submission and returns its reference.
type DocumentGenerator interface {
	Generate(ctx context.Context, submissionID string) (string, error)
}

// TeamDirectory resolves a worker's sheet key and the team's recipient.
type TeamDirectory interface {
	TeamIDForWorker(ctx context.Context, workerID string) (string, error)
	GetTeam(ctx context.Context, teamID string) (*workers.Team, error)
}

type Service struct {
	store    StoreAPI
	teams    TeamDirectory
	notifier Notifier
	docs     DocumentGenerator

	signingSecret string
	tokenTTL      time.Duration
	cooldown      time.Duration
	baseURL       string
}

func NewService(store StoreAPI, teams TeamDirectory, notifier Notifier, docs DocumentGenerator, signingSecret, baseURL string, tokenTTL, cooldown time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	if cooldown <= 0 {
		cooldown = DefaultReminderCooldown
	}
	return &Service{
		store:         store,
		teams:         teams,
		notifier:      notifier,
		docs:          docs,
		signingSecret: signingSecret,
		tokenTTL:      tokenTTL,
		cooldown:      cooldown,
		baseURL:       baseURL,
	}
}

func (s *Service) Get(ctx context.Context, submissionID string) (*Submission, error) {
	return s.store.GetByID(ctx, submissionID)
}

func (s *Service) GetForTeam(ctx context.Context, teamID string, month, year int) (*Submission, error) {
	return s.store.GetBySheet(ctx, teamID, month, year)
}

func (s *Service) Signatures(ctx context.Context, submissionID string) ([]Signature, error) {
	return s.store.ListSignatures(ctx, submissionID)
}

// PreviewByToken resolves a signing link to its submission without
// mutating anything, so the recipient can review before signing.
func (s *Service) PreviewByToken(ctx context.Context, token string) (*Submission, error) {
	submissionID, err := auth.ParseSigningToken(s.signingSecret, token)
	if err != nil {
		return nil, err
	}
	sub, err := s.store.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if sub.Status == StatusCompleted {
		return nil, ErrSubmissionCompleted
	}
	if sub.SignToken != token {
		return nil, auth.ErrSigningTokenInvalid
	}
	return sub, nil
}

// SignAsEmployee records the worker's signature on the month's
// submission, creating the submission on first signature. Signing twice
// is a no-op; once the signer set covers the team's required worker set
// the submission advances to PENDING_RECIPIENT and the recipient is
// invited to sign.
func (s *Service) SignAsEmployee(ctx context.Context, workerID string, month, year int) (*Submission, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	sheetKey, err := s.teams.TeamIDForWorker(ctx, workerID)
	if err != nil {
		return nil, err
	}
	if sheetKey == "" {
		return nil, ErrNoTeam
	}

	unsubmitted, err := s.store.UnsubmittedCount(ctx, workerID, month, year)
	if err != nil {
		return nil, err
	}
	if unsubmitted > 0 {
		return nil, ErrMonthNotSubmitted
	}

	sub, err := s.store.CreateIfAbsent(ctx, sheetKey, month, year)
	if err != nil {
		return nil, err
	}
	if sub.Status == StatusCompleted {
		return nil, ErrSubmissionCompleted
	}

	required, err := s.store.RequiredSigners(ctx, sheetKey)
	if err != nil {
		return nil, err
	}

	// The coverage decision below must not run against a stale signer
	// set: two final signers signing at once would otherwise each miss
	// the other's row and leave the submission fully signed but never
	// advanced. Serializable isolation forces one of them to replay.
	tx, err := s.store.BeginSerializable(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	added, err := s.store.InsertSignatureTx(ctx, tx, sub.ID, workerID)
	if err != nil {
		return nil, err
	}

	snap, err := s.store.SnapshotTx(ctx, tx, sub.ID)
	if err != nil {
		return nil, err
	}
	if snap.Status == StatusCompleted {
		return nil, ErrSubmissionCompleted
	}

	advanced := false
	if snap.Status == StatusPendingEmployees {
		signers, err := s.store.SignerIDsTx(ctx, tx, sub.ID)
		if err != nil {
			return nil, err
		}
		if coversRequired(required, signers) {
			token, err := auth.GenerateSigningToken(s.signingSecret, sub.ID, s.tokenTTL)
			if err != nil {
				return nil, err
			}
			advanced, err = s.store.AdvanceToRecipientTx(ctx, tx, sub.ID, token, time.Now().Add(s.tokenTTL))
			if err != nil {
				return nil, err
			}
		}
	}

	if added {
		entry := audit.Entry{
			WorkerID: workerID,
			ActorID:  workerID,
			Action:   ActionSignEmployee,
			OldValue: snap.Status,
			NewValue: sub.PeriodLabel(),
		}
		if err := s.store.AuditTx(ctx, tx, entry); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if advanced {
		s.inviteRecipient(ctx, sheetKey, sub.ID)
	}
	return s.store.GetByID(ctx, sub.ID)
}

// SignAsRecipient finalizes a submission via its single-use link token.
// The completing transaction cascades the sheet's SUBMITTED shifts to
// COMPLETED; the timesheet document is generated after commit.
func (s *Service) SignAsRecipient(ctx context.Context, token string, signature []byte, ip string) (*Submission, error) {
	submissionID, err := auth.ParseSigningToken(s.signingSecret, token)
	if err != nil {
		return nil, err
	}

	tx, err := s.store.BeginSerializable(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	snap, err := s.store.SnapshotTx(ctx, tx, submissionID)
	if err != nil {
		return nil, err
	}
	if snap.Status == StatusCompleted || snap.RecipientSignedAt != nil {
		return nil, ErrSubmissionCompleted
	}
	if snap.Status != StatusPendingRecipient {
		return nil, ErrNotPendingRecipient
	}
	if snap.SignToken != token {
		// A withdrawal re-opened the phase and a fresh token superseded
		// this one.
		return nil, auth.ErrSigningTokenInvalid
	}

	ok, err := s.store.CompleteTx(ctx, tx, submissionID, signature, ip)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStatusChanged
	}

	if _, err := s.store.CompleteSheetShiftsTx(ctx, tx, snap.SheetKey, snap.Month, snap.Year); err != nil {
		return nil, err
	}

	entry := audit.Entry{
		ActorID:  "recipient:" + ip,
		Action:   ActionSignRecipient,
		OldValue: StatusPendingRecipient,
		NewValue: StatusCompleted,
	}
	if err := s.store.AuditTx(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.generateDocument(ctx, submissionID)
	return s.store.GetByID(ctx, submissionID)
}

// Withdraw retracts the worker's own signature. An optimistic pre-check
// rejects early; the serializable transaction re-validates against the
// two actions that must never coexist with a withdrawal: the recipient
// signing and the submission completing.
func (s *Service) Withdraw(ctx context.Context, workerID string, month, year int) error {
	if err := validatePeriod(month, year); err != nil {
		return err
	}

	sheetKey, err := s.teams.TeamIDForWorker(ctx, workerID)
	if err != nil {
		return err
	}
	if sheetKey == "" {
		return ErrNoTeam
	}

	sub, err := s.store.GetBySheet(ctx, sheetKey, month, year)
	if err != nil {
		return err
	}
	signed, err := s.store.HasSignature(ctx, sub.ID, workerID)
	if err != nil {
		return err
	}
	if !signed {
		return ErrSignatureNotFound
	}
	if sub.RecipientSignedAt != nil {
		return ErrRecipientAlreadySigned
	}
	if sub.Status == StatusCompleted {
		return ErrSubmissionCompleted
	}

	tx, err := s.store.BeginSerializable(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	deleted, err := s.store.DeleteSignatureTx(ctx, tx, sub.ID, workerID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrSignatureNotFound
	}

	// The pre-check can be stale by now; only this read decides.
	snap, err := s.store.SnapshotTx(ctx, tx, sub.ID)
	if err != nil {
		return err
	}
	if snap.RecipientSignedAt != nil {
		return ErrRecipientAlreadySigned
	}
	if snap.Status == StatusCompleted {
		return ErrSubmissionCompleted
	}

	if _, err := s.store.RevertWorkerShiftsTx(ctx, tx, workerID, month, year); err != nil {
		return err
	}

	reverted, err := s.store.RevertStatusTx(ctx, tx, sub.ID)
	if err != nil {
		return err
	}
	if !reverted {
		return ErrStatusChanged
	}

	entry := audit.Entry{
		WorkerID: workerID,
		ActorID:  workerID,
		Action:   ActionWithdraw,
		OldValue: snap.Status,
		NewValue: StatusPendingEmployees,
	}
	if err := s.store.AuditTx(ctx, tx, entry); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *Service) inviteRecipient(ctx context.Context, sheetKey, submissionID string) {
	sub, err := s.store.GetByID(ctx, submissionID)
	if err != nil {
		slog.Warn("invitation lookup failed", "submissionId", submissionID, "err", err)
		return
	}
	team, err := s.teams.GetTeam(ctx, sheetKey)
	if err != nil {
		slog.Warn("invitation team lookup failed", "submissionId", submissionID, "err", err)
		return
	}
	if err := s.notifier.SendInvitation(ctx, team.RecipientName, team.RecipientEmail, s.signURL(sub.SignToken), sub.PeriodLabel()); err != nil {
		slog.Warn("invitation send failed", "submissionId", submissionID, "err", err)
	}
}

func (s *Service) generateDocument(ctx context.Context, submissionID string) {
	if s.docs == nil {
		return
	}
	ref, err := s.docs.Generate(ctx, submissionID)
	if err != nil {
		slog.Warn("document generation failed", "submissionId", submissionID, "err", err)
		return
	}
	if err := s.store.SetDocumentRef(ctx, submissionID, ref); err != nil {
		slog.Warn("document ref update failed", "submissionId", submissionID, "err", err)
	}
}

func (s *Service) signURL(token string) string {
	return fmt.Sprintf("%s/sign/%s", s.baseURL, token)
}

// coversRequired reports whether every required worker has signed. An
// empty required set advances on the first signature.
func coversRequired(required, signed []string) bool {
	signedSet := make(map[string]bool, len(signed))
	for _, id := range signed {
		signedSet[id] = true
	}
	for _, id := range required {
		if !signedSet[id] {
			return false
		}
	}
	return len(signed) > 0
}

func validatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("invalid month %d", month)
	}
	if year < 2000 || year > 2100 {
		return fmt.Errorf("invalid year %d", year)
	}
	return nil
}
