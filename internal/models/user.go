package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NullString wraps sql.NullString to provide proper JSON marshaling
type NullString struct {
	sql.NullString
}

// MarshalJSON implements json.Marshaler
func (ns NullString) MarshalJSON() ([]byte, error) {
	if ns.Valid {
		return json.Marshal(ns.String)
	}
	return json.Marshal(nil)
}

// UnmarshalJSON implements json.Unmarshaler
func (ns *NullString) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s != nil {
		ns.Valid = true
		ns.String = *s
	} else {
		ns.Valid = false
	}
	return nil
}

// NullTime wraps sql.NullTime to provide proper JSON marshaling
type NullTime struct {
	sql.NullTime
}

// MarshalJSON implements json.Marshaler
func (nt NullTime) MarshalJSON() ([]byte, error) {
	if nt.Valid {
		return json.Marshal(nt.Time)
	}
	return json.Marshal(nil)
}

// UnmarshalJSON implements json.Unmarshaler
func (nt *NullTime) UnmarshalJSON(data []byte) error {
	var t *time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	if t != nil {
		nt.Valid = true
		nt.Time = *t
	} else {
		nt.Valid = false
	}
	return nil
}

// User represents an account in the system.
//
// Verification lifecycle: a user is created unverified with a one-time
// password stored on the record; submitting the matching code flips
// IsVerified. There is no path back to unverified.
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FirstName    NullString `json:"first_name,omitempty" db:"first_name"`
	LastName     NullString `json:"last_name,omitempty" db:"last_name"`
	IsStaff      bool       `json:"is_staff" db:"is_staff"`
	IsVerified   bool       `json:"is_verified" db:"is_verified"`
	OTP          NullString `json:"-" db:"otp"` // Never expose in JSON
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// AuditLog represents an audit log entry for auth-related events
type AuditLog struct {
	ID        int64         `json:"id" db:"id"`
	UserID    uuid.NullUUID `json:"user_id,omitempty" db:"user_id"`
	Action    string        `json:"action" db:"action"`
	IPAddress NullString    `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent NullString    `json:"user_agent,omitempty" db:"user_agent"`
	Details   NullString    `json:"details,omitempty" db:"details"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
}
