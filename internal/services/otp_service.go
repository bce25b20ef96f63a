package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// OTPMin is the smallest issuable verification code
	OTPMin = 100000

	// OTPMax is the largest issuable verification code
	OTPMax = 999999
)

var (
	// ErrOTPInvalid indicates the submitted code does not match the stored one
	ErrOTPInvalid = fmt.Errorf("invalid OTP code")
)

// OTPService generates and checks email verification codes
type OTPService struct{}

// NewOTPService creates a new OTP service
func NewOTPService() *OTPService {
	return &OTPService{}
}

// GenerateOTP returns a cryptographically random 6-digit code,
// uniform in [100000, 999999]
func (s *OTPService) GenerateOTP() (string, error) {
	span := big.NewInt(OTPMax - OTPMin + 1)
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}

	return fmt.Sprintf("%d", n.Int64()+OTPMin), nil
}

// Check compares a submitted code against the stored one. The match is
// exact string equality; any difference is ErrOTPInvalid.
func (s *OTPService) Check(stored, submitted string) error {
	if stored == "" || stored != submitted {
		return ErrOTPInvalid
	}
	return nil
}
