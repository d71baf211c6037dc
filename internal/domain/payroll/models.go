package payroll

import "time"

// SurchargeRule is one toggleable wage surcharge. Percent is the
// surcharge on top of base pay, e.g. 25 means +25%.
type SurchargeRule struct {
	Enabled bool    `json:"enabled"`
	Percent float64 `json:"percent"`
}

// WageConfig is one worker's pay parameters. StackingCap, when positive,
// bounds the summed surcharge percentage applied to any single minute;
// zero means surcharges stack without limit.
type WageConfig struct {
	WorkerID    string        `json:"workerId"`
	HourlyWage  float64       `json:"hourlyWage"`
	WeeklyHours float64       `json:"weeklyHours"`
	Night       SurchargeRule `json:"night"`
	Sunday      SurchargeRule `json:"sunday"`
	Holiday     SurchargeRule `json:"holiday"`
	StackingCap float64       `json:"stackingCap,omitempty"`
}

// Holiday is one calendar day the holiday surcharge applies to.
type Holiday struct {
	Day  time.Time `json:"day"`
	Name string    `json:"name"`
}

// MonthSummary is the payroll result for one worker and month. All hour
// and amount figures are rounded to two decimals after summation.
type MonthSummary struct {
	WorkerID      string  `json:"workerId"`
	Month         int     `json:"month"`
	Year          int     `json:"year"`
	TargetHours   float64 `json:"targetHours"`
	WorkedHours   float64 `json:"workedHours"`
	SickHours     float64 `json:"sickHours"`
	VacationHours float64 `json:"vacationHours"`
	OvertimeHours float64 `json:"overtimeHours"`
	NightHours    float64 `json:"nightHours"`
	SundayHours   float64 `json:"sundayHours"`
	HolidayHours  float64 `json:"holidayHours"`
	BasePay       float64 `json:"basePay"`
	PremiumPay    float64 `json:"premiumPay"`
	TotalPay      float64 `json:"totalPay"`
}

// SummaryFailure is one worker whose month could not be summarized in a
// batch run; the rest of the batch proceeds regardless.
type SummaryFailure struct {
	WorkerID string `json:"workerId"`
	Reason   string `json:"reason"`
}

// MonthBatch is the all-workers payroll result for one month.
type MonthBatch struct {
	Month     int              `json:"month"`
	Year      int              `json:"year"`
	Summaries []MonthSummary   `json:"summaries"`
	Failures  []SummaryFailure `json:"failures,omitempty"`
}
