package payroll

import "errors"

var (
	ErrWageConfigNotFound = errors.New("wage config not found")
	ErrHolidayNotFound    = errors.New("holiday not found")
)
