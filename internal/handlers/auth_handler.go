package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skyport-systems/airport-reservation/internal/config"
	"github.com/skyport-systems/airport-reservation/internal/database"
	"github.com/skyport-systems/airport-reservation/internal/middleware"
	"github.com/skyport-systems/airport-reservation/internal/services"
	"github.com/skyport-systems/airport-reservation/internal/utils"
	"github.com/skyport-systems/airport-reservation/pkg/jwt"
)

// AuthHandler handles account and authentication HTTP requests
type AuthHandler struct {
	jwtService     *jwt.Service
	accountService *services.AccountService
	auditService   *services.AuditService
	userRepository *database.UserRepository
	config         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	jwtService *jwt.Service,
	accountService *services.AccountService,
	auditService *services.AuditService,
	userRepository *database.UserRepository,
	cfg *config.Config,
) *AuthHandler {
	return &AuthHandler{
		jwtService:     jwtService,
		accountService: accountService,
		auditService:   auditService,
		userRepository: userRepository,
		config:         cfg,
	}
}

// RegisterRequest represents the request to create an account
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// VerifyOTPRequest represents the request to verify an account
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

// TokenRequest represents the credential exchange request
type TokenRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest represents the token refresh request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse carries a freshly issued token pair
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in_seconds"`
}

// UpdateProfileRequest represents the profile update request
type UpdateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Register handles POST /api/v1/users/register. The account starts
// unverified; the verification code goes out by email.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c)
		return
	}

	user, err := h.accountService.Register(services.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	clientIP := utils.GetRealIP(c)
	userAgent := utils.GetUserAgent(c)
	h.auditService.LogRegistration(user.ID, user.Email, clientIP, userAgent, true)

	c.JSON(http.StatusCreated, user)
}

// VerifyOTP handles POST /api/v1/users/verify-otp
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c)
		return
	}

	clientIP := utils.GetRealIP(c)
	userAgent := utils.GetUserAgent(c)

	user, err := h.accountService.VerifyOTP(req.Email, req.OTP)
	if err != nil {
		if errors.Is(err, services.ErrOTPInvalid) {
			h.auditService.LogOTPVerification(nil, req.Email, false, clientIP, userAgent, "otp_mismatch")
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_otp",
				Message: "The verification code is incorrect",
			})
			return
		}
		respondRepositoryError(c, err)
		return
	}

	h.auditService.LogOTPVerification(&user.ID, user.Email, true, clientIP, userAgent, "")

	c.JSON(http.StatusOK, gin.H{
		"message": "Account verified successfully",
		"email":   user.Email,
	})
}

// Token handles POST /api/v1/users/token and exchanges credentials for
// a token pair. Unverified accounts can obtain tokens; the verified
// flag travels in the claims and gates ordering downstream.
func (h *AuthHandler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c)
		return
	}

	user, err := h.accountService.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "invalid_credentials",
				Message: "Invalid email or password",
			})
			return
		}
		respondRepositoryError(c, err)
		return
	}

	tokens, err := h.issueTokens(user.ID, user.Email, user.IsStaff, user.IsVerified)
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	clientIP := utils.GetRealIP(c)
	userAgent := utils.GetUserAgent(c)
	h.auditService.LogTokenIssued(user.ID, user.Email, clientIP, userAgent)

	c.JSON(http.StatusOK, tokens)
}

// RefreshToken handles POST /api/v1/users/token/refresh. The account
// is reloaded so the new access token carries current staff and
// verification flags, not the ones frozen at login.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c)
		return
	}

	clientIP := utils.GetRealIP(c)
	userAgent := utils.GetUserAgent(c)

	claims, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		h.auditService.LogTokenRefresh(nil, clientIP, userAgent, false)
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Invalid or expired refresh token",
		})
		return
	}

	user, err := h.userRepository.GetUserByID(claims.UserID)
	if err != nil {
		h.auditService.LogTokenRefresh(&claims.UserID, clientIP, userAgent, false)
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "invalid_token",
				Message: "Account no longer exists",
			})
			return
		}
		respondRepositoryError(c, err)
		return
	}

	tokens, err := h.issueTokens(user.ID, user.Email, user.IsStaff, user.IsVerified)
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	h.auditService.LogTokenRefresh(&user.ID, clientIP, userAgent, true)

	c.JSON(http.StatusOK, tokens)
}

// GetProfile handles GET /api/v1/users/me
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	user, err := h.userRepository.GetUserByID(userCtx.UserID)
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /api/v1/users/me
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c)
		return
	}

	if err := h.userRepository.UpdateProfile(userCtx.UserID, req.FirstName, req.LastName); err != nil {
		respondRepositoryError(c, err)
		return
	}

	user, err := h.userRepository.GetUserByID(userCtx.UserID)
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) issueTokens(userID uuid.UUID, email string, isStaff, isVerified bool) (*TokenResponse, error) {
	accessToken, err := h.jwtService.GenerateAccessToken(userID, email, isStaff, isVerified)
	if err != nil {
		return nil, err
	}

	refreshToken, err := h.jwtService.GenerateRefreshToken(userID, email)
	if err != nil {
		return nil, err
	}

	return &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(h.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}
