// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"blogd/internal/apperr"
	"blogd/internal/models"
)

// UserStore handles all account-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, username, email, password_hash, first_name, last_name, bio,
	profile_photo_url, profile_photo_key, last_login, created_at, updated_at`

func scanUser(scanner interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	err := scanner.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Bio, &u.ProfilePhotoURL, &u.ProfilePhotoKey, &u.LastLogin,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// FindByEmail retrieves a user by email. Returns nil if not found.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindByUsername retrieves a user by username. Returns nil if not found.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by UUID. Returns nil if not found.
func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// Create inserts a new user with a bcrypt-hashed password. Email and
// username collisions surface as Duplicate errors naming the field even
// when two registrations race past the handler's existence check.
func (s *UserStore) Create(ctx context.Context, username, email, password, firstName, lastName, bio string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash, first_name, last_name, bio)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userColumns,
		username, email, string(hash), firstName, lastName, bio,
	)
	u, err := scanUser(row)
	if err != nil {
		if c := violatedConstraint(err); c != "" {
			if strings.Contains(c, "email") {
				return nil, apperr.Duplicate("email", "Email already registered")
			}
			return nil, apperr.Duplicate("username", "Username already taken")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// ProfileUpdate carries the fields a profile update may change. Nil fields
// are left untouched.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Bio       *string
	Username  *string
}

// UpdateProfile applies a partial profile update and returns the new state.
func (s *UserStore) UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileUpdate) (*models.User, error) {
	u, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user profile not found")
	}

	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		u.LastName = *in.LastName
	}
	if in.Bio != nil {
		u.Bio = *in.Bio
	}
	if in.Username != nil {
		u.Username = *in.Username
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE users SET username = $1, first_name = $2, last_name = $3, bio = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING `+userColumns,
		u.Username, u.FirstName, u.LastName, u.Bio, id,
	)
	updated, err := scanUser(row)
	if err != nil {
		if violatedConstraint(err) != "" {
			return nil, apperr.Duplicate("username", "Username already taken")
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return updated, nil
}

// SetProfilePhoto records the uploaded photo's public URL and storage key.
func (s *UserStore) SetProfilePhoto(ctx context.Context, id uuid.UUID, url, key string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET profile_photo_url = $1, profile_photo_key = $2, updated_at = NOW()
		WHERE id = $3
	`, url, key, id)
	if err != nil {
		return fmt.Errorf("set profile photo: %w", err)
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (s *UserStore) UpdatePassword(ctx context.Context, id uuid.UUID, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2
	`, string(hash), id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// TouchLastLogin stamps a successful login.
func (s *UserStore) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET last_login = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

// CheckPassword verifies a plaintext password against the user's stored hash.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
