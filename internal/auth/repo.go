package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrUserNotFound is returned when no account matches the username.
var ErrUserNotFound = errors.New("user not found")

// User is a login account. Students carry the enrollment number their
// account is bound to; admins leave it empty.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         string
	EnrollmentNo string
	CreatedAt    time.Time
}

// Repository persists login accounts in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Upsert creates an account or refreshes its password hash and role.
func (r *Repository) Upsert(ctx context.Context, username, passwordHash, role, enrollmentNo string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, role, enrollment_no)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (username) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			role = EXCLUDED.role,
			enrollment_no = EXCLUDED.enrollment_no
	`, uuid.NewString(), username, passwordHash, role, enrollmentNo)
	return err
}

// GetByUsername returns an account or ErrUserNotFound.
func (r *Repository) GetByUsername(ctx context.Context, username string) (User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, role, enrollment_no, created_at
		FROM users WHERE username = $1
	`, username)
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.EnrollmentNo, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return u, nil
}
