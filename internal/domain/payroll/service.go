package payroll

import (
	"context"
	"fmt"
	"time"

	"dienstplan/internal/platform/cache"
)

type Service struct {
	store  StoreAPI
	shifts ShiftSource
	cache  *cache.Cache
}

func NewService(store StoreAPI, shiftSource ShiftSource, c *cache.Cache) *Service {
	return &Service{store: store, shifts: shiftSource, cache: c}
}

func monthKey(workerID string, month, year int) string {
	return fmt.Sprintf("payroll:%s:%d-%02d", workerID, year, month)
}

// ComputeMonth produces (and caches) the payroll summary for one worker
// and month. The cache entry is dropped whenever the worker's shifts or
// wage config change.
func (s *Service) ComputeMonth(ctx context.Context, workerID string, month, year int) (*MonthSummary, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month %d", month)
	}
	if year < 2000 || year > 2100 {
		return nil, fmt.Errorf("invalid year %d", year)
	}
	return cache.GetOrCompute(s.cache, monthKey(workerID, month, year), func() (*MonthSummary, error) {
		return s.computeMonth(ctx, workerID, month, year)
	})
}

func (s *Service) computeMonth(ctx context.Context, workerID string, month, year int) (*MonthSummary, error) {
	cfg, err := s.store.WageConfig(ctx, workerID)
	if err != nil {
		return nil, err
	}
	monthShifts, err := s.shifts.ListMonth(ctx, workerID, month, year)
	if err != nil {
		return nil, err
	}
	holidays, err := s.store.Holidays(ctx, year)
	if err != nil {
		return nil, err
	}
	sum, err := Summarize(*cfg, monthShifts, month, year, holidays)
	if err != nil {
		return nil, err
	}
	return &sum, nil
}

// ComputeAll summarizes the month for every active worker. A worker
// that cannot be summarized (typically a missing wage config) is
// reported as a failure entry and does not stop the batch.
func (s *Service) ComputeAll(ctx context.Context, month, year int) (*MonthBatch, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month %d", month)
	}
	if year < 2000 || year > 2100 {
		return nil, fmt.Errorf("invalid year %d", year)
	}

	workerIDs, err := s.store.ActiveWorkerIDs(ctx)
	if err != nil {
		return nil, err
	}

	batch := &MonthBatch{Month: month, Year: year}
	for _, workerID := range workerIDs {
		summary, err := s.ComputeMonth(ctx, workerID, month, year)
		if err != nil {
			batch.Failures = append(batch.Failures, SummaryFailure{WorkerID: workerID, Reason: err.Error()})
			continue
		}
		batch.Summaries = append(batch.Summaries, *summary)
	}
	return batch, nil
}

// InvalidateWorker drops every cached summary for the worker.
func (s *Service) InvalidateWorker(workerID string) {
	s.cache.InvalidatePrefix("payroll:" + workerID + ":")
}

func (s *Service) GetWageConfig(ctx context.Context, workerID string) (*WageConfig, error) {
	return s.store.WageConfig(ctx, workerID)
}

func (s *Service) SetWageConfig(ctx context.Context, cfg WageConfig) error {
	if cfg.HourlyWage < 0 || cfg.WeeklyHours < 0 {
		return fmt.Errorf("wage and weekly hours must not be negative")
	}
	if err := s.store.UpsertWageConfig(ctx, cfg); err != nil {
		return err
	}
	s.InvalidateWorker(cfg.WorkerID)
	return nil
}

func (s *Service) ListHolidays(ctx context.Context, year int) ([]Holiday, error) {
	return s.store.ListHolidays(ctx, year)
}

func (s *Service) SetHoliday(ctx context.Context, day time.Time, name string) error {
	if err := s.store.UpsertHoliday(ctx, day, name); err != nil {
		return err
	}
	s.cache.InvalidatePrefix("payroll:")
	return nil
}

func (s *Service) RemoveHoliday(ctx context.Context, day time.Time) error {
	ok, err := s.store.DeleteHoliday(ctx, day)
	if err != nil {
		return err
	}
	if !ok {
		return ErrHolidayNotFound
	}
	s.cache.InvalidatePrefix("payroll:")
	return nil
}
