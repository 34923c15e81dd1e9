package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// Repository persists lecture records in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// LastDate returns the most recent recorded lecture date, or "" for an empty ledger.
func (r *Repository) LastDate(ctx context.Context) (string, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT lecture_date FROM lectures ORDER BY lecture_date DESC LIMIT 1
	`)
	var date string
	if err := row.Scan(&date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return date, nil
}

// Insert writes one lecture record with its entries in a single transaction.
// The UNIQUE constraint on lecture_date is the duplicate guard: concurrent
// submissions for the same date serialize at the storage layer and the loser
// gets ErrDuplicateDate. Nothing is committed on any failure.
func (r *Repository) Insert(ctx context.Context, rec LectureRecord) (LectureRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return LectureRecord{}, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		INSERT INTO lectures (id, lecture_date, day_name, status, submitted_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, rec.ID, rec.Date, rec.Day, rec.Status, rec.SubmittedBy)
	if err := row.Scan(&rec.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return LectureRecord{}, ErrDuplicateDate
		}
		return LectureRecord{}, err
	}

	for i, e := range rec.Entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO lecture_entries (lecture_id, student_id, status, position)
			VALUES ($1, $2, $3, $4)
		`, rec.ID, e.StudentID, e.Status, i); err != nil {
			return LectureRecord{}, fmt.Errorf("insert entry %s: %w", e.StudentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return LectureRecord{}, err
	}
	return rec, nil
}

// ListByDate returns the full ledger ordered by date ascending, entries included.
// An empty ledger yields an empty slice, not an error.
func (r *Repository) ListByDate(ctx context.Context) ([]LectureRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, lecture_date, day_name, status, submitted_by, created_at
		FROM lectures
		ORDER BY lecture_date ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []LectureRecord
	index := map[string]int{}
	for rows.Next() {
		var rec LectureRecord
		if err := rows.Scan(&rec.ID, &rec.Date, &rec.Day, &rec.Status, &rec.SubmittedBy, &rec.CreatedAt); err != nil {
			return nil, err
		}
		index[rec.ID] = len(records)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []LectureRecord{}, nil
	}

	entryRows, err := r.db.QueryContext(ctx, `
		SELECT lecture_id, student_id, status
		FROM lecture_entries
		ORDER BY lecture_id, position
	`)
	if err != nil {
		return nil, err
	}
	defer entryRows.Close()

	for entryRows.Next() {
		var lectureID string
		var e Entry
		if err := entryRows.Scan(&lectureID, &e.StudentID, &e.Status); err != nil {
			return nil, err
		}
		if i, ok := index[lectureID]; ok {
			records[i].Entries = append(records[i].Entries, e)
		}
	}
	return records, entryRows.Err()
}
