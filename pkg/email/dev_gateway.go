package email

import "github.com/sirupsen/logrus"

// DevGateway logs the verification code instead of sending mail.
// Used outside production so registration works without provider
// credentials.
type DevGateway struct {
	logger *logrus.Logger
}

// NewDevGateway creates a new development gateway
func NewDevGateway(logger *logrus.Logger) *DevGateway {
	return &DevGateway{
		logger: logger,
	}
}

// SendOTP logs the code and recipient
func (g *DevGateway) SendOTP(toEmail, otpCode string) error {
	g.logger.WithFields(logrus.Fields{
		"to":  toEmail,
		"otp": otpCode,
	}).Info("dev mail gateway: OTP not sent")
	return nil
}

// GetName returns the gateway implementation name
func (g *DevGateway) GetName() string {
	return "dev"
}

var _ Gateway = (*DevGateway)(nil)
