package shifts

import "time"

// Shift is one worker's planned or actual work (or absence) on one date.
// Month and Year are denormalized from Date for fast range queries and
// must always agree with it.
type Shift struct {
	ID             string    `json:"id"`
	WorkerID       string    `json:"workerId"`
	Date           time.Time `json:"date"`
	Month          int       `json:"month"`
	Year           int       `json:"year"`
	PlannedStart   string    `json:"plannedStart,omitempty"`
	PlannedEnd     string    `json:"plannedEnd,omitempty"`
	ActualStart    string    `json:"actualStart,omitempty"`
	ActualEnd      string    `json:"actualEnd,omitempty"`
	BreakMinutes   int       `json:"breakMinutes"`
	AbsenceKind    string    `json:"absenceKind,omitempty"`
	Status         string    `json:"status"`
	Note           string    `json:"note,omitempty"`
	SheetKey       string    `json:"sheetKey,omitempty"`
	BackupWorkerID string    `json:"backupWorkerId,omitempty"`
	ModifiedBy     string    `json:"modifiedBy,omitempty"`
	ModifiedAt     time.Time `json:"modifiedAt"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ChangeRequest carries the worker-supplied actuals for a change.
type ChangeRequest struct {
	ActualStart  string `json:"actualStart"`
	ActualEnd    string `json:"actualEnd"`
	BreakMinutes int    `json:"breakMinutes"`
	AbsenceKind  string `json:"absenceKind"`
	Note         string `json:"note"`
}

// PlanRequest carries the admin-supplied plan fields for create/update.
type PlanRequest struct {
	WorkerID       string `json:"workerId"`
	Date           string `json:"date"`
	PlannedStart   string `json:"plannedStart"`
	PlannedEnd     string `json:"plannedEnd"`
	BreakMinutes   int    `json:"breakMinutes"`
	Note           string `json:"note"`
	BackupWorkerID string `json:"backupWorkerId"`
}
