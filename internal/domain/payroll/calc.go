package payroll

import (
	"math"
	"time"

	"dienstplan/internal/domain/shifts"
	"dienstplan/internal/domain/timeclock"
)

// Night window: 21:00 up to but excluding 06:00.
const (
	nightStartMinute = 21 * 60
	nightEndMinute   = 6 * 60
)

const dayKey = "2006-01-02"

// HolidaySet answers whether a calendar day is a holiday.
type HolidaySet map[string]bool

func (h HolidaySet) Contains(day time.Time) bool {
	return h[day.Format(dayKey)]
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func daysInMonth(month, year int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthlyTargetHours prorates the weekly target over the month's real
// length instead of assuming four weeks: weekly * daysInMonth / 7.
func MonthlyTargetHours(weeklyHours float64, month, year int) float64 {
	return Round2(weeklyHours * float64(daysInMonth(month, year)) / 7)
}

// Summarize computes the payroll figures for one worker's month of
// shifts. Absence shifts accumulate into sick/vacation hours and stay
// out of the target comparison. Surcharge classification walks each
// minute of a shift's effective interval (the break's position inside
// the interval is unknown, so the whole span is classified), crossing
// into the next calendar day on overnight shifts. A minute can sit in
// several buckets at once; its surcharge percentages add up, bounded by
// StackingCap when set. Rounding happens once, after summation.
func Summarize(cfg WageConfig, monthShifts []shifts.Shift, month, year int, holidays HolidaySet) (MonthSummary, error) {
	var workedMin, sickMin, vacationMin int
	var nightMin, sundayMin, holidayMin int
	var premiumPctMin float64

	for _, sh := range monthShifts {
		minutes, err := shifts.WorkedMinutes(sh)
		if err != nil {
			return MonthSummary{}, err
		}
		switch sh.AbsenceKind {
		case shifts.AbsenceSick:
			sickMin += minutes
			continue
		case shifts.AbsenceVacation:
			vacationMin += minutes
			continue
		}
		if minutes == 0 {
			continue
		}
		workedMin += minutes

		start, end := shifts.EffectiveTimes(sh)
		startMin, err := timeclock.ParseClock(start)
		if err != nil {
			return MonthSummary{}, err
		}
		span, err := timeclock.Duration(start, end)
		if err != nil {
			return MonthSummary{}, err
		}

		for m := 0; m < span; m++ {
			abs := startMin + m
			tod := abs % timeclock.MinutesPerDay
			day := sh.Date.AddDate(0, 0, abs/timeclock.MinutesPerDay)

			pct := 0.0
			if tod >= nightStartMinute || tod < nightEndMinute {
				nightMin++
				if cfg.Night.Enabled {
					pct += cfg.Night.Percent
				}
			}
			if day.Weekday() == time.Sunday {
				sundayMin++
				if cfg.Sunday.Enabled {
					pct += cfg.Sunday.Percent
				}
			}
			if holidays.Contains(day) {
				holidayMin++
				if cfg.Holiday.Enabled {
					pct += cfg.Holiday.Percent
				}
			}
			if cfg.StackingCap > 0 && pct > cfg.StackingCap {
				pct = cfg.StackingCap
			}
			premiumPctMin += pct
		}
	}

	workedHours := float64(workedMin) / 60
	sum := MonthSummary{
		WorkerID:      cfg.WorkerID,
		Month:         month,
		Year:          year,
		TargetHours:   MonthlyTargetHours(cfg.WeeklyHours, month, year),
		WorkedHours:   Round2(workedHours),
		SickHours:     Round2(float64(sickMin) / 60),
		VacationHours: Round2(float64(vacationMin) / 60),
		NightHours:    Round2(float64(nightMin) / 60),
		SundayHours:   Round2(float64(sundayMin) / 60),
		HolidayHours:  Round2(float64(holidayMin) / 60),
		BasePay:       Round2(workedHours * cfg.HourlyWage),
		PremiumPay:    Round2(cfg.HourlyWage * premiumPctMin / 100 / 60),
	}
	sum.OvertimeHours = Round2(workedHours - sum.TargetHours)
	sum.TotalPay = Round2(sum.BasePay + sum.PremiumPay)
	return sum, nil
}
