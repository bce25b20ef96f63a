package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/skyport-systems/airport-reservation/internal/config"
	"github.com/skyport-systems/airport-reservation/internal/database"
	"github.com/skyport-systems/airport-reservation/internal/services"
	"github.com/skyport-systems/airport-reservation/pkg/email"
	"github.com/skyport-systems/airport-reservation/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			AccessTokenExpiry: time.Hour,
		},
		Security: config.SecurityConfig{
			BcryptCost: bcrypt.MinCost,
		},
	}
}

func setupAuthRouter(db *sqlx.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := testConfig()
	jwtService := jwt.NewService("test-secret", "test-refresh-secret", time.Hour, 24*time.Hour)
	userRepository := database.NewUserRepository(db)
	accountService := services.NewAccountService(
		userRepository,
		services.NewOTPService(),
		email.NewDevGateway(logger),
		cfg.Security.BcryptCost,
		logger,
	)
	auditService := services.NewAuditService(db, true)

	handler := NewAuthHandler(jwtService, accountService, auditService, userRepository, cfg)

	router := gin.New()
	router.POST("/users/register", handler.Register)
	router.POST("/users/verify-otp", handler.VerifyOTP)
	router.POST("/users/token", handler.Token)
	router.POST("/users/token/refresh", handler.RefreshToken)
	return router
}

var pqUniqueError = pq.Error{Code: "23505"}

var userColumns = []string{
	"id", "email", "password_hash", "first_name", "last_name",
	"is_staff", "is_verified", "otp", "created_at", "updated_at",
}

func TestRegister(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := setupTestDB(t)
		router := setupAuthRouter(db)

		mock.ExpectExec(`INSERT INTO users`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO audit_logs`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		payload, _ := json.Marshal(gin.H{
			"email":      "traveler@example.com",
			"password":   "opensesame1",
			"first_name": "Jamie",
		})

		req := httptest.NewRequest(http.MethodPost, "/users/register", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "traveler@example.com")
		// Neither the password hash nor the OTP may leak
		assert.NotContains(t, w.Body.String(), "password")
		assert.NotContains(t, w.Body.String(), "otp")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate email", func(t *testing.T) {
		db, mock := setupTestDB(t)
		router := setupAuthRouter(db)

		mock.ExpectExec(`INSERT INTO users`).
			WillReturnError(&pqUniqueError)

		payload, _ := json.Marshal(gin.H{
			"email":    "traveler@example.com",
			"password": "opensesame1",
		})

		req := httptest.NewRequest(http.MethodPost, "/users/register", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "user with this email")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Short password fails binding", func(t *testing.T) {
		db, _ := setupTestDB(t)
		router := setupAuthRouter(db)

		payload, _ := json.Marshal(gin.H{
			"email":    "traveler@example.com",
			"password": "short",
		})

		req := httptest.NewRequest(http.MethodPost, "/users/register", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestVerifyOTP(t *testing.T) {
	t.Run("Correct code verifies the account", func(t *testing.T) {
		db, mock := setupTestDB(t)
		router := setupAuthRouter(db)
		userID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email`).
			WithArgs("traveler@example.com").
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
				userID, "traveler@example.com", "hash", nil, nil,
				false, false, "482913", now, now,
			))
		mock.ExpectExec(`UPDATE users`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO audit_logs`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		payload, _ := json.Marshal(gin.H{
			"email": "traveler@example.com",
			"otp":   "482913",
		})

		req := httptest.NewRequest(http.MethodPost, "/users/verify-otp", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Account verified successfully")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Wrong code is rejected", func(t *testing.T) {
		db, mock := setupTestDB(t)
		router := setupAuthRouter(db)
		userID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email`).
			WithArgs("traveler@example.com").
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
				userID, "traveler@example.com", "hash", nil, nil,
				false, false, "482913", now, now,
			))
		mock.ExpectExec(`INSERT INTO audit_logs`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		payload, _ := json.Marshal(gin.H{
			"email": "traveler@example.com",
			"otp":   "000000",
		})

		req := httptest.NewRequest(http.MethodPost, "/users/verify-otp", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_otp")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown account", func(t *testing.T) {
		db, mock := setupTestDB(t)
		router := setupAuthRouter(db)

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email`).
			WithArgs("nobody@example.com").
			WillReturnRows(sqlmock.NewRows(userColumns))

		payload, _ := json.Marshal(gin.H{
			"email": "nobody@example.com",
			"otp":   "482913",
		})

		req := httptest.NewRequest(http.MethodPost, "/users/verify-otp", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestToken(t *testing.T) {
	password := "opensesame1"
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)

	t.Run("Valid credentials yield a token pair", func(t *testing.T) {
		db, mock := setupTestDB(t)
		router := setupAuthRouter(db)
		userID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email`).
			WithArgs("traveler@example.com").
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
				userID, "traveler@example.com", string(hash), nil, nil,
				false, true, "482913", now, now,
			))
		mock.ExpectExec(`INSERT INTO audit_logs`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		payload, _ := json.Marshal(gin.H{
			"email":    "traveler@example.com",
			"password": password,
		})

		req := httptest.NewRequest(http.MethodPost, "/users/token", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var body TokenResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.NotEmpty(t, body.AccessToken)
		assert.NotEmpty(t, body.RefreshToken)
		assert.Equal(t, 3600, body.ExpiresIn)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Wrong password", func(t *testing.T) {
		db, mock := setupTestDB(t)
		router := setupAuthRouter(db)
		userID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email`).
			WithArgs("traveler@example.com").
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
				userID, "traveler@example.com", string(hash), nil, nil,
				false, true, "482913", now, now,
			))

		payload, _ := json.Marshal(gin.H{
			"email":    "traveler@example.com",
			"password": "not-the-password",
		})

		req := httptest.NewRequest(http.MethodPost, "/users/token", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_credentials")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown email reads the same as a wrong password", func(t *testing.T) {
		db, mock := setupTestDB(t)
		router := setupAuthRouter(db)

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email`).
			WithArgs("nobody@example.com").
			WillReturnRows(sqlmock.NewRows(userColumns))

		payload, _ := json.Marshal(gin.H{
			"email":    "nobody@example.com",
			"password": password,
		})

		req := httptest.NewRequest(http.MethodPost, "/users/token", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_credentials")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRefreshToken(t *testing.T) {
	t.Run("Garbage refresh token", func(t *testing.T) {
		db, mock := setupTestDB(t)
		router := setupAuthRouter(db)

		mock.ExpectExec(`INSERT INTO audit_logs`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		payload, _ := json.Marshal(gin.H{"refresh_token": "not-a-token"})

		req := httptest.NewRequest(http.MethodPost, "/users/token/refresh", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Valid refresh token issues a fresh pair", func(t *testing.T) {
		db, mock := setupTestDB(t)
		router := setupAuthRouter(db)
		userID := uuid.New()
		now := time.Now()

		jwtService := jwt.NewService("test-secret", "test-refresh-secret", time.Hour, 24*time.Hour)
		refreshToken, err := jwtService.GenerateRefreshToken(userID, "traveler@example.com")
		require.NoError(t, err)

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE id`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
				userID, "traveler@example.com", "hash", nil, nil,
				false, true, "482913", now, now,
			))
		mock.ExpectExec(`INSERT INTO audit_logs`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		payload, _ := json.Marshal(gin.H{"refresh_token": refreshToken})

		req := httptest.NewRequest(http.MethodPost, "/users/token/refresh", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var body TokenResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.NotEmpty(t, body.AccessToken)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
