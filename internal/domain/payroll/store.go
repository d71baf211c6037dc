package payroll

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const wageColumns = `
    worker_id, hourly_wage, weekly_hours,
    night_enabled, night_percent,
    sunday_enabled, sunday_percent,
    holiday_enabled, holiday_percent,
    stacking_cap`

func scanWageConfig(row pgx.Row) (*WageConfig, error) {
	var cfg WageConfig
	err := row.Scan(
		&cfg.WorkerID, &cfg.HourlyWage, &cfg.WeeklyHours,
		&cfg.Night.Enabled, &cfg.Night.Percent,
		&cfg.Sunday.Enabled, &cfg.Sunday.Percent,
		&cfg.Holiday.Enabled, &cfg.Holiday.Percent,
		&cfg.StackingCap,
	)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *Store) WageConfig(ctx context.Context, workerID string) (*WageConfig, error) {
	cfg, err := scanWageConfig(s.DB.QueryRow(ctx,
		"SELECT"+wageColumns+" FROM wage_configs WHERE worker_id = $1", workerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWageConfigNotFound
		}
		return nil, err
	}
	return cfg, nil
}

func (s *Store) UpsertWageConfig(ctx context.Context, cfg WageConfig) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO wage_configs (worker_id, hourly_wage, weekly_hours,
                              night_enabled, night_percent,
                              sunday_enabled, sunday_percent,
                              holiday_enabled, holiday_percent,
                              stacking_cap)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    ON CONFLICT (worker_id) DO UPDATE SET
      hourly_wage = EXCLUDED.hourly_wage,
      weekly_hours = EXCLUDED.weekly_hours,
      night_enabled = EXCLUDED.night_enabled,
      night_percent = EXCLUDED.night_percent,
      sunday_enabled = EXCLUDED.sunday_enabled,
      sunday_percent = EXCLUDED.sunday_percent,
      holiday_enabled = EXCLUDED.holiday_enabled,
      holiday_percent = EXCLUDED.holiday_percent,
      stacking_cap = EXCLUDED.stacking_cap
  `, cfg.WorkerID, cfg.HourlyWage, cfg.WeeklyHours,
		cfg.Night.Enabled, cfg.Night.Percent,
		cfg.Sunday.Enabled, cfg.Sunday.Percent,
		cfg.Holiday.Enabled, cfg.Holiday.Percent,
		cfg.StackingCap)
	return err
}

// Holidays returns the holiday set covering the given year. Overnight
// shifts can cross into January 1 of the following year, so that day is
// included as well.
func (s *Store) Holidays(ctx context.Context, year int) (HolidaySet, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT day FROM holidays
    WHERE day >= make_date($1, 1, 1) AND day <= make_date($1 + 1, 1, 1)
  `, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := HolidaySet{}
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		set[day.Format(dayKey)] = true
	}
	return set, rows.Err()
}

func (s *Store) ListHolidays(ctx context.Context, year int) ([]Holiday, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT day, name FROM holidays
    WHERE day >= make_date($1, 1, 1) AND day < make_date($1 + 1, 1, 1)
    ORDER BY day
  `, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Holiday
	for rows.Next() {
		var h Holiday
		if err := rows.Scan(&h.Day, &h.Name); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *Store) UpsertHoliday(ctx context.Context, day time.Time, name string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO holidays (day, name) VALUES ($1, $2)
    ON CONFLICT (day) DO UPDATE SET name = EXCLUDED.name
  `, day, name)
	return err
}

func (s *Store) DeleteHoliday(ctx context.Context, day time.Time) (bool, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM holidays WHERE day = $1", day)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) ActiveWorkerIDs(ctx context.Context) ([]string, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id::text FROM workers WHERE active ORDER BY last_name, first_name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
