package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/skyport-systems/airport-reservation/internal/models"
)

// UserRepository handles user database operations
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// CreateUser creates a new unverified user with the issued OTP stored
// on the record. A duplicate email surfaces as ErrConflict.
func (r *UserRepository) CreateUser(email, passwordHash, firstName, lastName, otp string) (*models.User, error) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		IsStaff:      false,
		IsVerified:   false,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	user.FirstName = models.NullString{NullString: sql.NullString{String: firstName, Valid: firstName != ""}}
	user.LastName = models.NullString{NullString: sql.NullString{String: lastName, Valid: lastName != ""}}
	user.OTP = models.NullString{NullString: sql.NullString{String: otp, Valid: true}}

	query := `
		INSERT INTO users (
			id, email, password_hash, first_name, last_name,
			is_staff, is_verified, otp, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(
		query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.IsStaff,
		user.IsVerified,
		user.OTP,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, conflictError("user with this email")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUserByEmail retrieves a user by email
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User

	query := `
		SELECT id, email, password_hash, first_name, last_name,
		       is_staff, is_verified, otp, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	err := r.db.Get(&user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(id uuid.UUID) (*models.User, error) {
	var user models.User

	query := `
		SELECT id, email, password_hash, first_name, last_name,
		       is_staff, is_verified, otp, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	err := r.db.Get(&user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return &user, nil
}

// MarkVerified flips the user into the verified state. The stored OTP
// is intentionally left in place; see the account service.
func (r *UserRepository) MarkVerified(email string) error {
	query := `
		UPDATE users
		SET is_verified = true,
		    updated_at = $1
		WHERE email = $2
	`

	result, err := r.db.Exec(query, time.Now(), email)
	if err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// SetOTP stores a freshly issued OTP on the user record
func (r *UserRepository) SetOTP(email, otp string) error {
	query := `
		UPDATE users
		SET otp = $1,
		    updated_at = $2
		WHERE email = $3
	`

	result, err := r.db.Exec(query, otp, time.Now(), email)
	if err != nil {
		return fmt.Errorf("failed to set OTP: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdateProfile updates the user's name fields
func (r *UserRepository) UpdateProfile(id uuid.UUID, firstName, lastName string) error {
	query := `
		UPDATE users
		SET first_name = $1,
		    last_name = $2,
		    updated_at = $3
		WHERE id = $4
	`

	result, err := r.db.Exec(query, firstName, lastName, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
