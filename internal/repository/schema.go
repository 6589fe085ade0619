package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	id       VARCHAR PRIMARY KEY DEFAULT gen_random_uuid(),
	username TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS reservations (
	id          SERIAL PRIMARY KEY,
	date        TEXT NOT NULL,
	time        TEXT NOT NULL,
	name        TEXT NOT NULL,
	phone       TEXT NOT NULL,
	school      TEXT NOT NULL,
	student_id  TEXT NOT NULL,
	email       TEXT NOT NULL,
	location    TEXT NOT NULL,
	price       TEXT NOT NULL,
	treatment   TEXT NOT NULL,
	notes       TEXT,
	photo_url   TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS reservations_created_at_idx ON reservations (created_at DESC, id DESC);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id       TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS reservations (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	date        TEXT NOT NULL,
	time        TEXT NOT NULL,
	name        TEXT NOT NULL,
	phone       TEXT NOT NULL,
	school      TEXT NOT NULL,
	student_id  TEXT NOT NULL,
	email       TEXT NOT NULL,
	location    TEXT NOT NULL,
	price       TEXT NOT NULL,
	treatment   TEXT NOT NULL,
	notes       TEXT,
	photo_url   TEXT,
	created_at  TIMESTAMP NOT NULL
);
`

// Migrate creates the reservation schema if it does not exist yet
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
