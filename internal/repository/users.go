package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quillhq/quill/internal/models"
)

// Users provides access to the users table.
type Users struct {
	pool *pgxpool.Pool
}

// NewUsers creates the users repository.
func NewUsers(pool *pgxpool.Pool) *Users {
	return &Users{pool: pool}
}

// Create inserts a user and returns the stored row, id included.
// Returns ErrDuplicate when the username or email is already taken.
func (r *Users) Create(ctx context.Context, username, email, passwordHash string) (models.User, error) {
	u := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}

	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		username, email, passwordHash,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrDuplicate
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}

	return u, nil
}

// ByID fetches a user by primary key.
func (r *Users) ByID(ctx context.Context, id int64) (models.User, error) {
	return r.one(ctx,
		`SELECT id, username, email, password_hash, about, created_at
		 FROM users WHERE id = $1`, id)
}

// ByEmail fetches a user by email (exact, case-sensitive).
func (r *Users) ByEmail(ctx context.Context, email string) (models.User, error) {
	return r.one(ctx,
		`SELECT id, username, email, password_hash, about, created_at
		 FROM users WHERE email = $1`, email)
}

// ByUsername fetches a user by username (exact, case-sensitive).
func (r *Users) ByUsername(ctx context.Context, username string) (models.User, error) {
	return r.one(ctx,
		`SELECT id, username, email, password_hash, about, created_at
		 FROM users WHERE username = $1`, username)
}

// UsernameTaken reports whether a username is already registered.
func (r *Users) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return taken, nil
}

// EmailTaken reports whether an email is already registered.
func (r *Users) EmailTaken(ctx context.Context, email string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return taken, nil
}

// UpdateAbout replaces a user's about text.
// Returns ErrNotFound when no row was affected.
func (r *Users) UpdateAbout(ctx context.Context, id int64, about string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET about = $2 WHERE id = $1`, id, about)
	if err != nil {
		return fmt.Errorf("update about: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePassword replaces a user's password hash.
// Returns ErrNotFound when no row was affected.
func (r *Users) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Users) one(ctx context.Context, query string, arg any) (models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.About, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
