package roster

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no student matches the lookup.
var ErrNotFound = errors.New("student not found")

// Student is one cohort member. Created by a one-time import and never
// mutated afterwards; enrollment number is the stable external key.
type Student struct {
	ID           string    `json:"id"`
	EnrollmentNo string    `json:"enrollmentNo"`
	Name         string    `json:"name"`
	Department   string    `json:"department"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Repository persists the student roster in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Upsert creates a student or refreshes the name/department of an existing one.
// Used by the seeding import only.
func (r *Repository) Upsert(ctx context.Context, enrollmentNo, name, department string) (Student, error) {
	st := Student{
		ID:           uuid.NewString(),
		EnrollmentNo: enrollmentNo,
		Name:         name,
		Department:   department,
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO students (id, enrollment_no, name, department)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (enrollment_no) DO UPDATE SET
			name = EXCLUDED.name,
			department = EXCLUDED.department
		RETURNING id, created_at
	`, st.ID, st.EnrollmentNo, st.Name, st.Department)
	if err := row.Scan(&st.ID, &st.CreatedAt); err != nil {
		return Student{}, err
	}
	return st, nil
}

// List returns the roster sorted by enrollment number.
func (r *Repository) List(ctx context.Context) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, enrollment_no, name, department, created_at
		FROM students
		ORDER BY enrollment_no
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []Student
	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.ID, &st.EnrollmentNo, &st.Name, &st.Department, &st.CreatedAt); err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	return students, rows.Err()
}

// GetByEnrollmentNo returns a single student or ErrNotFound.
func (r *Repository) GetByEnrollmentNo(ctx context.Context, enrollmentNo string) (Student, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, enrollment_no, name, department, created_at
		FROM students WHERE enrollment_no = $1
	`, enrollmentNo)
	var st Student
	if err := row.Scan(&st.ID, &st.EnrollmentNo, &st.Name, &st.Department, &st.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Student{}, ErrNotFound
		}
		return Student{}, err
	}
	return st, nil
}
