package submissions

import (
	"context"
	"time"
)

// IsReminderDue decides whether a pending submission should get a
// recipient reminder at the given instant. Pure over the submission's
// fields; firing the reminder is the sweep's business.
func IsReminderDue(sub Submission, now time.Time, cooldown time.Duration) bool {
	if sub.Status != StatusPendingRecipient {
		return false
	}
	if sub.TokenExpiresAt == nil || !now.Before(*sub.TokenExpiresAt) {
		return false
	}
	if sub.LastReminderAt == nil {
		return now.Sub(sub.CreatedAt) > cooldown
	}
	return now.Sub(*sub.LastReminderAt) > cooldown
}

// SendReminders sweeps all submissions awaiting the recipient and mails
// one reminder per due submission. Failures are collected per item so one
// dead mailbox never starves the rest of the batch.
func (s *Service) SendReminders(ctx context.Context, now time.Time) (SweepResult, error) {
	pending, err := s.store.ListPendingRecipient(ctx)
	if err != nil {
		return SweepResult{}, err
	}

	var result SweepResult
	for _, sub := range pending {
		if !IsReminderDue(sub, now, s.cooldown) {
			continue
		}

		team, err := s.teams.GetTeam(ctx, sub.SheetKey)
		if err != nil {
			result.Failures = append(result.Failures, SweepFailure{SubmissionID: sub.ID, Reason: err.Error()})
			continue
		}
		if err := s.notifier.SendReminder(ctx, team.RecipientName, team.RecipientEmail, s.signURL(sub.SignToken), sub.PeriodLabel()); err != nil {
			result.Failures = append(result.Failures, SweepFailure{SubmissionID: sub.ID, Reason: err.Error()})
			continue
		}
		if err := s.store.SetLastReminder(ctx, sub.ID, now); err != nil {
			result.Failures = append(result.Failures, SweepFailure{SubmissionID: sub.ID, Reason: err.Error()})
			continue
		}
		result.Sent++
	}
	return result, nil
}
