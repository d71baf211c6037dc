package submissions

import "time"

const (
	StatusPendingEmployees = "PENDING_EMPLOYEES"
	StatusPendingRecipient = "PENDING_RECIPIENT"
	StatusCompleted        = "COMPLETED"

	ActionSignEmployee  = "submission.sign_employee"
	ActionSignRecipient = "submission.sign_recipient"
	ActionWithdraw      = "submission.withdraw"

	// DefaultReminderCooldown is the minimum quiet period between
	// recipient reminders for one submission.
	DefaultReminderCooldown = 48 * time.Hour

	// DefaultTokenTTL bounds how long an unsigned recipient link stays
	// live before a fresh one must be issued.
	DefaultTokenTTL = 14 * 24 * time.Hour
)
