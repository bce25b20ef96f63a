package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuditTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func TestAuditLogging(t *testing.T) {
	userID := uuid.New()

	t.Run("Enabled service writes the event", func(t *testing.T) {
		db, mock := newAuditTestDB(t)
		service := NewAuditService(db, true)

		mock.ExpectExec(`INSERT INTO audit_logs`).
			WithArgs(userID, "user_register", "203.0.113.7", "curl/8.0", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := service.LogRegistration(userID, "jamie@example.com", "203.0.113.7", "curl/8.0", true)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Disabled service writes nothing", func(t *testing.T) {
		db, mock := newAuditTestDB(t)
		service := NewAuditService(db, false)

		err := service.LogRegistration(userID, "jamie@example.com", "203.0.113.7", "curl/8.0", true)
		assert.NoError(t, err)

		err = service.LogTokenIssued(userID, "jamie@example.com", "203.0.113.7", "curl/8.0")
		assert.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCleanupOldAuditLogs(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := newAuditTestDB(t)
		service := NewAuditService(db, true)

		mock.ExpectExec(`DELETE FROM audit_logs`).
			WithArgs(sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 17))

		removed, err := service.CleanupOldAuditLogs(90 * 24 * time.Hour)
		require.NoError(t, err)
		assert.Equal(t, int64(17), removed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database error", func(t *testing.T) {
		db, mock := newAuditTestDB(t)
		service := NewAuditService(db, true)

		mock.ExpectExec(`DELETE FROM audit_logs`).
			WillReturnError(assert.AnError)

		_, err := service.CleanupOldAuditLogs(90 * 24 * time.Hour)
		assert.Error(t, err)
	})
}
