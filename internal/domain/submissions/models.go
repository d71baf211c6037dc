package submissions

import (
	"fmt"
	"time"
)

// Submission is one team's monthly timesheet claim awaiting signatures.
// Exactly one exists per (sheet key, month, year).
type Submission struct {
	ID                string     `json:"id"`
	SheetKey          string     `json:"sheetKey"`
	Month             int        `json:"month"`
	Year              int        `json:"year"`
	Status            string     `json:"status"`
	SignToken         string     `json:"-"`
	TokenExpiresAt    *time.Time `json:"tokenExpiresAt,omitempty"`
	RecipientSignedAt *time.Time `json:"recipientSignedAt,omitempty"`
	RecipientIP       string     `json:"-"`
	LastReminderAt    *time.Time `json:"lastReminderAt,omitempty"`
	DocumentRef       string     `json:"documentRef,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// PeriodLabel renders the claimed month for mails and documents.
func (s Submission) PeriodLabel() string {
	return fmt.Sprintf("%02d/%d", s.Month, s.Year)
}

// Signature is one worker's signature on one submission, unique per
// (worker, submission) pair.
type Signature struct {
	ID           string    `json:"id"`
	SubmissionID string    `json:"submissionId"`
	WorkerID     string    `json:"workerId"`
	SignedAt     time.Time `json:"signedAt"`
}

// SweepFailure records one submission the reminder sweep could not serve.
type SweepFailure struct {
	SubmissionID string `json:"submissionId"`
	Reason       string `json:"reason"`
}

// SweepResult partitions a reminder sweep into sent and failed items.
type SweepResult struct {
	Sent     int            `json:"sent"`
	Failures []SweepFailure `json:"failures,omitempty"`
}
