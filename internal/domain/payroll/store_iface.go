package payroll

import (
	"context"
	"time"

	"dienstplan/internal/domain/shifts"
)

// StoreAPI is the persistence surface of the payroll service.
type StoreAPI interface {
	WageConfig(ctx context.Context, workerID string) (*WageConfig, error)
	UpsertWageConfig(ctx context.Context, cfg WageConfig) error
	Holidays(ctx context.Context, year int) (HolidaySet, error)
	ListHolidays(ctx context.Context, year int) ([]Holiday, error)
	UpsertHoliday(ctx context.Context, day time.Time, name string) error
	DeleteHoliday(ctx context.Context, day time.Time) (bool, error)
	ActiveWorkerIDs(ctx context.Context) ([]string, error)
}

// ShiftSource supplies the month's shifts to summarize.
type ShiftSource interface {
	ListMonth(ctx context.Context, workerID string, month, year int) ([]shifts.Shift, error)
}
