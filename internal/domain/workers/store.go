package workers

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrWorkerNotFound = errors.New("worker not found")
	ErrTeamNotFound   = errors.New("team not found")
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Get(ctx context.Context, workerID string) (*Worker, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT id, first_name, last_name, email, COALESCE(team_id::text, ''), required_signer, active, created_at
    FROM workers
    WHERE id = $1
  `, workerID)

	var w Worker
	if err := row.Scan(&w.ID, &w.FirstName, &w.LastName, &w.Email, &w.TeamID, &w.RequiredSigner, &w.Active, &w.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWorkerNotFound
		}
		return nil, err
	}
	return &w, nil
}

func (s *Store) List(ctx context.Context, teamID string) ([]Worker, error) {
	query := `
    SELECT id, first_name, last_name, email, COALESCE(team_id::text, ''), required_signer, active, created_at
    FROM workers
  `
	args := []any{}
	if teamID != "" {
		query += " WHERE team_id = $1"
		args = append(args, teamID)
	}
	query += " ORDER BY last_name, first_name"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Worker
	for rows.Next() {
		var w Worker
		if err := rows.Scan(&w.ID, &w.FirstName, &w.LastName, &w.Email, &w.TeamID, &w.RequiredSigner, &w.Active, &w.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, w Worker) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO workers (first_name, last_name, email, team_id, required_signer, active)
    VALUES ($1,$2,$3,NULLIF($4,'')::uuid,$5,$6)
    RETURNING id
  `, w.FirstName, w.LastName, w.Email, w.TeamID, w.RequiredSigner, w.Active).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, workerID string, w Worker) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE workers
    SET first_name = $1, last_name = $2, email = $3, team_id = NULLIF($4,'')::uuid,
        required_signer = $5, active = $6
    WHERE id = $7
  `, w.FirstName, w.LastName, w.Email, w.TeamID, w.RequiredSigner, w.Active, workerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkerNotFound
	}
	return nil
}

func (s *Store) GetTeam(ctx context.Context, teamID string) (*Team, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT id, name, recipient_name, recipient_email, created_at
    FROM teams
    WHERE id = $1
  `, teamID)

	var t Team
	if err := row.Scan(&t.ID, &t.Name, &t.RecipientName, &t.RecipientEmail, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *Store) ListTeams(ctx context.Context) ([]Team, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, recipient_name, recipient_email, created_at
    FROM teams
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Team
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.ID, &t.Name, &t.RecipientName, &t.RecipientEmail, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *Store) CreateTeam(ctx context.Context, t Team) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO teams (name, recipient_name, recipient_email)
    VALUES ($1,$2,$3)
    RETURNING id
  `, t.Name, t.RecipientName, t.RecipientEmail).Scan(&id)
	return id, err
}

func (s *Store) UpdateTeam(ctx context.Context, teamID string, t Team) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE teams
    SET name = $1, recipient_name = $2, recipient_email = $3
    WHERE id = $4
  `, t.Name, t.RecipientName, t.RecipientEmail, teamID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTeamNotFound
	}
	return nil
}

// TeamIDForWorker resolves the sheet key a worker's shifts belong to.
func (s *Store) TeamIDForWorker(ctx context.Context, workerID string) (string, error) {
	var teamID string
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(team_id::text, '')
    FROM workers
    WHERE id = $1
  `, workerID).Scan(&teamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrWorkerNotFound
		}
		return "", err
	}
	return teamID, nil
}
