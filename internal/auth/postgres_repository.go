package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/huddle14/huddle/internal/database"
)

// PostgresUserRepository implements UserRepository using pgx.
type PostgresUserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a new UserRepository backed by the given querier.
func NewUserRepository(db database.DBTX) UserRepository {
	return &PostgresUserRepository{db: db}
}

// Upsert inserts a user keyed by email, refreshing profile fields on
// repeat logins. The generated id and timestamp are written back.
func (r *PostgresUserRepository) Upsert(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (email, name, avatar_url)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE
		SET name = COALESCE(EXCLUDED.name, users.name), avatar_url = EXCLUDED.avatar_url
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query, u.Email, u.Name, u.AvatarURL).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}

	return nil
}

// GetByID retrieves a single user by its UUID.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `
		SELECT id, email, name, avatar_url, created_at
		FROM users
		WHERE id = $1`

	var u User
	err := r.db.QueryRow(ctx, query, id).Scan(&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}

	return &u, nil
}

// GetByEmail retrieves a single user by email.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, email, name, avatar_url, created_at
		FROM users
		WHERE email = $1`

	var u User
	err := r.db.QueryRow(ctx, query, email).Scan(&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("querying user by email: %w", err)
	}

	return &u, nil
}
