package mailer

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"legacy-scheduler/internal/apperrors"
)

// Mailer performs exactly one external send attempt per call. Retries are
// the caller's responsibility.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string, attachments []string) (*Receipt, error)
}

type Receipt struct {
	ID          string    `json:"id"`
	DeliveredAt time.Time `json:"deliveredAt"`
}

type Config struct {
	// Provider is either "http" or "smtp".
	Provider    string
	BaseURL     string
	APIKey      string
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	UseTLS      bool
	SendTimeout time.Duration
}

func New(cfg *Config) (Mailer, error) {
	switch cfg.Provider {
	case "smtp":
		return newSMTPMailer(cfg)
	default:
		return newHTTPMailer(cfg)
	}
}

// validateAddress rejects malformed recipient addresses before any
// transport is touched, so the caller never retries them.
func validateAddress(to string) error {
	if strings.TrimSpace(to) == "" {
		return &apperrors.ValidationError{Field: "to", Reason: "recipient address is empty"}
	}

	if _, err := mail.ParseAddress(to); err != nil {
		return &apperrors.ValidationError{Field: "to", Reason: "recipient address is malformed"}
	}

	return nil
}

func parseFromEmail(from string) string {
	if i := strings.Index(from, "<"); i >= 0 {
		if j := strings.Index(from[i:], ">"); j > 0 {
			return strings.TrimSpace(from[i+1 : i+j])
		}
	}
	return strings.TrimSpace(from)
}
