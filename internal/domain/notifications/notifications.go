// Package notifications composes the workflow's outbound messages and
// hands them to the mailer.
package notifications

import (
	"context"
	"fmt"

	"dienstplan/internal/platform/email"
)

type Service struct {
	mailer email.Mailer
}

func NewService(mailer email.Mailer) *Service {
	return &Service{mailer: mailer}
}

func (s *Service) SendInvitation(ctx context.Context, recipientName, recipientEmail, signURL, periodLabel string) error {
	subject := fmt.Sprintf("Timesheet %s is ready for your signature", periodLabel)
	body := fmt.Sprintf(
		"Hello %s,\n\nall workers have signed the timesheet for %s.\nPlease review and sign it here:\n\n%s\n\nThe link is personal and expires automatically.\n",
		recipientName, periodLabel, signURL)
	return s.mailer.Send(ctx, recipientEmail, subject, body)
}

func (s *Service) SendReminder(ctx context.Context, recipientName, recipientEmail, signURL, periodLabel string) error {
	subject := fmt.Sprintf("Reminder: timesheet %s awaits your signature", periodLabel)
	body := fmt.Sprintf(
		"Hello %s,\n\nthe timesheet for %s is still waiting for your signature:\n\n%s\n\nThe link is personal and expires automatically.\n",
		recipientName, periodLabel, signURL)
	return s.mailer.Send(ctx, recipientEmail, subject, body)
}
