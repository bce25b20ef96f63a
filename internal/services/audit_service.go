package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/skyport-systems/airport-reservation/internal/database"
	"github.com/skyport-systems/airport-reservation/internal/utils"
)

// AuditService handles audit logging for account security events
type AuditService struct {
	db      database.DB
	enabled bool
}

// NewAuditService creates a new audit service. When enabled is false
// every Log method is a no-op and nothing is written.
func NewAuditService(db database.DB, enabled bool) *AuditService {
	return &AuditService{
		db:      db,
		enabled: enabled,
	}
}

// AuditEvent represents a security event to be logged
type AuditEvent struct {
	UserID    *uuid.UUID             // Can be nil for pre-authentication events
	Action    string                 // Action type (e.g., "user_register", "otp_verify_success", "token_issued")
	IPAddress string                 // Client IP address
	UserAgent string                 // Client user agent
	Details   map[string]interface{} // Additional details as JSONB
}

// LogRegistration logs a new account registration
func (s *AuditService) LogRegistration(userID uuid.UUID, email, ipAddress, userAgent string, mailSent bool) error {
	deviceInfo := utils.ParseUserAgent(userAgent)

	details := map[string]interface{}{
		"email":       email,
		"mail_sent":   mailSent,
		"device_info": deviceInfo,
	}

	return s.logEvent(AuditEvent{
		UserID:    &userID,
		Action:    "user_register",
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Details:   details,
	})
}

// LogOTPVerification logs an OTP verification attempt
func (s *AuditService) LogOTPVerification(userID *uuid.UUID, email string, success bool, ipAddress, userAgent, failureReason string) error {
	deviceInfo := utils.ParseUserAgent(userAgent)

	details := map[string]interface{}{
		"email":       email,
		"success":     success,
		"device_info": deviceInfo,
	}

	if !success && failureReason != "" {
		details["failure_reason"] = failureReason
	}

	action := "otp_verify_failed"
	if success {
		action = "otp_verify_success"
	}

	return s.logEvent(AuditEvent{
		UserID:    userID,
		Action:    action,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Details:   details,
	})
}

// LogTokenIssued logs a successful credential exchange for a token pair
func (s *AuditService) LogTokenIssued(userID uuid.UUID, email, ipAddress, userAgent string) error {
	deviceInfo := utils.ParseUserAgent(userAgent)

	details := map[string]interface{}{
		"email":       email,
		"device_info": deviceInfo,
	}

	return s.logEvent(AuditEvent{
		UserID:    &userID,
		Action:    "token_issued",
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Details:   details,
	})
}

// LogTokenRefresh logs a refresh token usage event
func (s *AuditService) LogTokenRefresh(userID *uuid.UUID, ipAddress, userAgent string, success bool) error {
	deviceInfo := utils.ParseUserAgent(userAgent)

	action := "token_refresh_failed"
	if success {
		action = "token_refresh_success"
	}

	details := map[string]interface{}{
		"success":     success,
		"device_info": deviceInfo,
	}

	return s.logEvent(AuditEvent{
		UserID:    userID,
		Action:    action,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Details:   details,
	})
}

// logEvent is the internal method that writes to the audit_logs table
func (s *AuditService) logEvent(event AuditEvent) error {
	if !s.enabled {
		return nil
	}

	query := `
		INSERT INTO audit_logs (user_id, action, ip_address, user_agent, details, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`

	detailsJSON, err := json.Marshal(event.Details)
	if err != nil {
		return fmt.Errorf("failed to encode audit details: %w", err)
	}

	_, err = s.db.Exec(
		query,
		event.UserID,
		event.Action,
		event.IPAddress,
		event.UserAgent,
		detailsJSON,
	)

	if err != nil {
		return fmt.Errorf("failed to log audit event: %w", err)
	}

	return nil
}

// CleanupOldAuditLogs removes audit logs older than the specified duration
func (s *AuditService) CleanupOldAuditLogs(olderThan time.Duration) (int64, error) {
	cutoffTime := time.Now().Add(-olderThan)

	query := `
		DELETE FROM audit_logs
		WHERE created_at < $1
	`

	result, err := s.db.Exec(query, cutoffTime)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old audit logs: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
