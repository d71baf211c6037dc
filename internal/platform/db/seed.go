package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"dienstplan/internal/domain/auth"
	"dienstplan/internal/platform/config"
)

// Seed creates the initial admin account when configured, plus a demo
// team with workers in development. It is idempotent and safe to run on
// every start.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensureAdminUser(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		return err
	}
	if cfg.Environment == "development" {
		return ensureDemoTeam(ctx, pool)
	}
	return nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE lower(email) = lower($1)", email).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	return pool.QueryRow(ctx,
		"INSERT INTO users (email, password_hash, role) VALUES ($1, $2, $3) RETURNING id",
		email, hash, auth.RoleAdmin).Scan(&id)
}

type demoWorker struct {
	FirstName      string
	LastName       string
	Email          string
	RequiredSigner bool
}

type demoTeam struct {
	Name           string
	RecipientName  string
	RecipientEmail string
	Workers        []demoWorker
}

// demoData is the development fixture: one assistance team whose two
// regular workers form the required-signer set, plus a backup worker
// excluded from it.
func demoData() demoTeam {
	return demoTeam{
		Name:           "Team Nord",
		RecipientName:  "Alex Vogel",
		RecipientEmail: "alex.vogel@example.org",
		Workers: []demoWorker{
			{FirstName: "Mara", LastName: "Brandt", Email: "mara.brandt@example.org", RequiredSigner: true},
			{FirstName: "Jonas", LastName: "Keller", Email: "jonas.keller@example.org", RequiredSigner: true},
			{FirstName: "Ines", LastName: "Roth", Email: "ines.roth@example.org"},
		},
	}
}

func ensureDemoTeam(ctx context.Context, pool *pgxpool.Pool) error {
	var existing int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM teams").Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	demo := demoData()
	var teamID string
	err := pool.QueryRow(ctx,
		"INSERT INTO teams (name, recipient_name, recipient_email) VALUES ($1, $2, $3) RETURNING id",
		demo.Name, demo.RecipientName, demo.RecipientEmail).Scan(&teamID)
	if err != nil {
		return err
	}

	for _, w := range demo.Workers {
		_, err := pool.Exec(ctx, `
      INSERT INTO workers (first_name, last_name, email, team_id, required_signer, active)
      VALUES ($1, $2, $3, $4, $5, TRUE)
    `, w.FirstName, w.LastName, w.Email, teamID, w.RequiredSigner)
		if err != nil {
			return err
		}
	}
	return nil
}
