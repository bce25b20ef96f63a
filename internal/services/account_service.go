package services

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/skyport-systems/airport-reservation/internal/database"
	"github.com/skyport-systems/airport-reservation/internal/models"
	"github.com/skyport-systems/airport-reservation/pkg/email"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials indicates the email/password pair did not match
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AccountService drives the registration and verification flow:
// Unregistered -> Pending (created, unverified, OTP issued) -> Verified.
// There is no path back to Pending.
type AccountService struct {
	users       *database.UserRepository
	otpService  *OTPService
	mailGateway email.Gateway
	bcryptCost  int
	logger      *logrus.Logger
}

// NewAccountService creates a new account service
func NewAccountService(
	users *database.UserRepository,
	otpService *OTPService,
	mailGateway email.Gateway,
	bcryptCost int,
	logger *logrus.Logger,
) *AccountService {
	return &AccountService{
		users:       users,
		otpService:  otpService,
		mailGateway: mailGateway,
		bcryptCost:  bcryptCost,
		logger:      logger,
	}
}

// RegisterInput carries the fields accepted at registration
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates a Pending user, stores the issued OTP on the record
// and sends it by mail. The mail send is fire-and-forget: a failure is
// logged but the committed user record stands and the call succeeds.
func (s *AccountService) Register(input RegisterInput) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	otp, err := s.otpService.GenerateOTP()
	if err != nil {
		return nil, err
	}

	user, err := s.users.CreateUser(input.Email, string(hash), input.FirstName, input.LastName, otp)
	if err != nil {
		return nil, err
	}

	if err := s.mailGateway.SendOTP(user.Email, otp); err != nil {
		s.logger.WithFields(logrus.Fields{
			"email":   user.Email,
			"gateway": s.mailGateway.GetName(),
		}).WithError(err).Error("failed to send verification email")
	}

	return user, nil
}

// VerifyOTP transitions a Pending user to Verified on an exact code
// match. A missing account and a mismatched code are distinct client
// errors.
//
// The stored OTP is not cleared after a successful verification, so a
// captured code re-verifies an already-verified account as a no-op.
// TODO: clear users.otp here once product confirms replay should stop working.
func (s *AccountService) VerifyOTP(emailAddr, code string) (*models.User, error) {
	user, err := s.users.GetUserByEmail(emailAddr)
	if err != nil {
		return nil, err
	}

	stored := ""
	if user.OTP.Valid {
		stored = user.OTP.String
	}
	if err := s.otpService.Check(stored, code); err != nil {
		return nil, err
	}

	if !user.IsVerified {
		if err := s.users.MarkVerified(emailAddr); err != nil {
			return nil, err
		}
		user.IsVerified = true
	}

	return user, nil
}

// Authenticate checks an email/password pair and returns the account.
// A missing user and a wrong password both surface as
// ErrInvalidCredentials.
func (s *AccountService) Authenticate(emailAddr, password string) (*models.User, error) {
	user, err := s.users.GetUserByEmail(emailAddr)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
