package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const verificationSubject = "Your account verification email"

// MailjetGateway implements email sending via the Mailjet v3.1 send API
type MailjetGateway struct {
	apiURL    string
	apiKey    string
	apiSecret string
	fromEmail string
	client    *http.Client
}

// MailjetConfig holds configuration for the Mailjet gateway
type MailjetConfig struct {
	APIURL    string
	APIKey    string
	APISecret string
	FromEmail string
}

// NewMailjetGateway creates a new Mailjet gateway client
func NewMailjetGateway(config MailjetConfig) *MailjetGateway {
	return &MailjetGateway{
		apiURL:    config.APIURL,
		apiKey:    config.APIKey,
		apiSecret: config.APISecret,
		fromEmail: config.FromEmail,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// mailjetAddress is a single sender or recipient
type mailjetAddress struct {
	Email string `json:"Email"`
}

// mailjetMessage is one message in a v3.1 send request
type mailjetMessage struct {
	From     mailjetAddress   `json:"From"`
	To       []mailjetAddress `json:"To"`
	Subject  string           `json:"Subject"`
	TextPart string           `json:"TextPart"`
}

// mailjetSendRequest is the v3.1 send request envelope
type mailjetSendRequest struct {
	Messages []mailjetMessage `json:"Messages"`
}

// mailjetSendResponse is the subset of the send response we inspect
type mailjetSendResponse struct {
	Messages []struct {
		Status string `json:"Status"`
	} `json:"Messages"`
}

// SendOTP sends the verification code to the given address
func (g *MailjetGateway) SendOTP(toEmail, otpCode string) error {
	payload := mailjetSendRequest{
		Messages: []mailjetMessage{
			{
				From:     mailjetAddress{Email: g.fromEmail},
				To:       []mailjetAddress{{Email: toEmail}},
				Subject:  verificationSubject,
				TextPart: fmt.Sprintf("Your otp is %s", otpCode),
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal send request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, g.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.apiKey, g.apiSecret)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call mailjet: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read mailjet response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mailjet returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var sendResp mailjetSendResponse
	if err := json.Unmarshal(respBody, &sendResp); err != nil {
		return fmt.Errorf("failed to parse mailjet response: %w", err)
	}

	for _, msg := range sendResp.Messages {
		if msg.Status != "success" {
			return fmt.Errorf("mailjet message status %q", msg.Status)
		}
	}

	return nil
}

// GetName returns the gateway implementation name
func (g *MailjetGateway) GetName() string {
	return "mailjet"
}

var _ Gateway = (*MailjetGateway)(nil)
