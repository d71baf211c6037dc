package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry is one immutable record of a state-changing action on a worker's
// timesheet data. Entries are only ever inserted, never updated or deleted.
type Entry struct {
	ID        string    `json:"id"`
	WorkerID  string    `json:"workerId"`
	ActorID   string    `json:"actorId"`
	Action    string    `json:"action"`
	OldValue  string    `json:"oldValue,omitempty"`
	NewValue  string    `json:"newValue,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Filter struct {
	WorkerID string
	Action   string
}

// InsertTx appends an entry on an open transaction so the entry commits
// with the state change it describes, or not at all.
func InsertTx(ctx context.Context, tx pgx.Tx, e Entry) error {
	_, err := tx.Exec(ctx, `
    INSERT INTO audit_entries (worker_id, actor_id, action, old_value, new_value)
    VALUES (NULLIF($1,'')::uuid,$2,$3,$4,$5)
  `, e.WorkerID, e.ActorID, e.Action, e.OldValue, e.NewValue)
	return err
}

type Service struct {
	DB *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

// Record appends an entry outside any caller transaction. Bulk workflow
// transitions must use InsertTx instead.
func (s *Service) Record(ctx context.Context, e Entry) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO audit_entries (worker_id, actor_id, action, old_value, new_value)
    VALUES (NULLIF($1,'')::uuid,$2,$3,$4,$5)
  `, e.WorkerID, e.ActorID, e.Action, e.OldValue, e.NewValue)
	return err
}

func (s *Service) Count(ctx context.Context, filter Filter) (int, error) {
	query, args := buildBaseQuery("SELECT COUNT(1)", filter)
	var total int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]Entry, error) {
	query, args := buildBaseQuery("SELECT id, COALESCE(worker_id::text, ''), actor_id, action, old_value, new_value, created_at", filter)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.WorkerID, &e.ActorID, &e.Action, &e.OldValue, &e.NewValue, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func buildBaseQuery(prefix string, filter Filter) (string, []any) {
	query := prefix + " FROM audit_entries WHERE 1=1"
	args := []any{}
	if filter.WorkerID != "" {
		query += fmt.Sprintf(" AND worker_id::text = $%d", len(args)+1)
		args = append(args, filter.WorkerID)
	}
	if filter.Action != "" {
		query += fmt.Sprintf(" AND action = $%d", len(args)+1)
		args = append(args, filter.Action)
	}
	return query, args
}
