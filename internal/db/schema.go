package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables on startup when they are missing. There is
// no migration tooling here; the statements are idempotent and additive.
//
// Registrations carry no unique (email, marathon_id) constraint on purpose:
// the API does its own duplicate check before inserting, and tightening that
// into a store-level constraint changes behavior under concurrent submits,
// which is a product call that has not been made.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS marathons (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			start_reg_date TIMESTAMPTZ NOT NULL,
			end_reg_date TIMESTAMPTZ NOT NULL,
			marathon_start_date TIMESTAMPTZ NOT NULL,
			location TEXT NOT NULL DEFAULT '',
			distance TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			image TEXT NOT NULL DEFAULT '',
			organizer_email TEXT NOT NULL DEFAULT '',
			total_registrations INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS upcoming_marathons (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			start_reg_date TIMESTAMPTZ NOT NULL,
			end_reg_date TIMESTAMPTZ NOT NULL,
			marathon_start_date TIMESTAMPTZ NOT NULL,
			location TEXT NOT NULL DEFAULT '',
			distance TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			image TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS registrations (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			additional_info TEXT NOT NULL DEFAULT '',
			marathon_id TEXT NOT NULL DEFAULT '',
			marathon_title TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS marathons_organizer_email_idx ON marathons (organizer_email)`,
		`CREATE INDEX IF NOT EXISTS registrations_email_idx ON registrations (email)`,
		`CREATE INDEX IF NOT EXISTS registrations_email_marathon_idx ON registrations (email, marathon_id)`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}
