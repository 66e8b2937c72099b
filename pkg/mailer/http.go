package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"legacy-scheduler/internal/apperrors"
)

const defaultSendTimeout = 10 * time.Second

// httpMailer talks to a hosted transactional email API.
type httpMailer struct {
	baseURL string
	apiKey  string
	from    string
	client  *http.Client
}

func newHTTPMailer(cfg *Config) (*httpMailer, error) {
	if cfg.BaseURL == "" || cfg.APIKey == "" {
		return nil, apperrors.ErrMissingCredentials
	}

	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}

	return &httpMailer{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		from:    cfg.From,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

type sendRequest struct {
	From        string   `json:"from"`
	To          string   `json:"to"`
	Subject     string   `json:"subject"`
	HTMLBody    string   `json:"htmlBody"`
	Attachments []string `json:"attachments,omitempty"`
}

type sendResponse struct {
	ID          string    `json:"id"`
	DeliveredAt time.Time `json:"deliveredAt"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (m *httpMailer) Send(ctx context.Context, to, subject, htmlBody string, attachments []string) (*Receipt, error) {
	if err := validateAddress(to); err != nil {
		return nil, err
	}

	reqBody, err := json.Marshal(sendRequest{
		From:        m.from,
		To:          to,
		Subject:     subject,
		HTMLBody:    htmlBody,
		Attachments: attachments,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/emails", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to build send request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, &apperrors.DeliveryError{StatusCode: 0, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var er errorResponse
		if err := json.Unmarshal(body, &er); err != nil || er.Message == "" {
			er.Message = string(body)
		}

		return nil, &apperrors.DeliveryError{StatusCode: resp.StatusCode, Message: er.Message}
	}

	var sr sendResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("failed to decode provider response: %w body=%q", err, string(body))
	}

	if sr.DeliveredAt.IsZero() {
		sr.DeliveredAt = time.Now().UTC()
	}

	return &Receipt{ID: sr.ID, DeliveredAt: sr.DeliveredAt}, nil
}
