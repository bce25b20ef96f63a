package email

// Gateway defines the interface for sending verification emails
type Gateway interface {
	// SendOTP sends a verification code to the given address.
	// Returns an error if the send failed.
	SendOTP(toEmail, otpCode string) error

	// GetName returns the name of the gateway implementation
	GetName() string
}
