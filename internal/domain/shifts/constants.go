package shifts

const (
	StatusPlanned   = "PLANNED"
	StatusConfirmed = "CONFIRMED"
	StatusChanged   = "CHANGED"
	StatusSubmitted = "SUBMITTED"
	StatusCompleted = "COMPLETED"

	AbsenceNone     = ""
	AbsenceSick     = "sick"
	AbsenceVacation = "vacation"

	ActionConfirm     = "shift.confirm"
	ActionChange      = "shift.change"
	ActionCreate      = "shift.create"
	ActionUpdatePlan  = "shift.update_plan"
	ActionDelete      = "shift.delete"
	ActionSubmitMonth = "timesheet.submit_month"
)
