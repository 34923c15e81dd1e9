package store

import (
	"context"
	"fmt"
)

// Schema statements, executed one at a time (pgx's extended protocol does not
// accept multi-statement batches). The UNIQUE constraint on
// lectures.lecture_date is the concurrency guard for duplicate submissions:
// a second insert for the same date fails at the storage layer.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		username      TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'student',
		enrollment_no TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id            UUID PRIMARY KEY,
		enrollment_no TEXT UNIQUE NOT NULL,
		name          TEXT NOT NULL,
		department    TEXT NOT NULL DEFAULT 'AI & Machine Learning',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS lectures (
		id           UUID PRIMARY KEY,
		lecture_date TEXT UNIQUE NOT NULL,
		day_name     TEXT NOT NULL,
		status       TEXT NOT NULL CHECK (status IN ('Conducted', 'Cancelled')),
		submitted_by TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS lecture_entries (
		lecture_id UUID NOT NULL REFERENCES lectures(id) ON DELETE CASCADE,
		student_id UUID NOT NULL REFERENCES students(id),
		status     TEXT NOT NULL CHECK (status IN ('Present', 'Absent')),
		position   INT NOT NULL DEFAULT 0,
		PRIMARY KEY (lecture_id, student_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_entries_student ON lecture_entries(student_id)`,
}

// Migrate creates the schema if it does not exist.
func (d *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := d.Client.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
