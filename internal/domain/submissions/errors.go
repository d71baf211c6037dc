package submissions

import "errors"

var (
	ErrSubmissionNotFound     = errors.New("submission not found")
	ErrSignatureNotFound      = errors.New("no signature by this worker on the submission")
	ErrRecipientAlreadySigned = errors.New("recipient has already signed")
	ErrSubmissionCompleted    = errors.New("submission is completed and immutable")
	ErrStatusChanged          = errors.New("submission status changed concurrently")
	ErrNotPendingRecipient    = errors.New("submission is not awaiting the recipient")
	ErrMonthNotSubmitted      = errors.New("worker has unsubmitted shifts for this month")
	ErrNoTeam                 = errors.New("worker is not assigned to a team")
)
