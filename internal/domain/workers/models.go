package workers

import "time"

// Worker is one personal-assistance worker. The RequiredSigner flag
// maintains the explicit required-signer set of the worker's team; the
// submission workflow never infers that set from shift data.
type Worker struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	TeamID         string    `json:"teamId"`
	RequiredSigner bool      `json:"requiredSigner"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Team is one assistance group around a care recipient. Its ID doubles as
// the sheet key grouping shifts into monthly submissions.
type Team struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	RecipientName  string    `json:"recipientName"`
	RecipientEmail string    `json:"recipientEmail"`
	CreatedAt      time.Time `json:"createdAt"`
}
