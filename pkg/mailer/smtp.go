package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"

	"legacy-scheduler/internal/apperrors"
)

// smtpMailer is the plain SMTP transport. Media attachments are referenced
// by URL, so they are appended to the body as links rather than encoded as
// MIME parts.
type smtpMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	useTLS   bool
}

func newSMTPMailer(cfg *Config) (*smtpMailer, error) {
	if cfg.Host == "" || cfg.From == "" {
		return nil, apperrors.ErrMissingCredentials
	}

	return &smtpMailer{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
		useTLS:   cfg.UseTLS,
	}, nil
}

func (m *smtpMailer) Send(ctx context.Context, to, subject, htmlBody string, attachments []string) (*Receipt, error) {
	if err := validateAddress(to); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	msg := buildMessage(m.from, to, subject, appendAttachmentLinks(htmlBody, attachments))
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	from := parseFromEmail(m.from)

	// AUTH only over TLS with credentials set, PlainAuth refuses
	// unencrypted connections.
	var auth smtp.Auth
	if m.useTLS && m.username != "" && m.password != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	var err error
	if m.useTLS {
		err = m.sendTLS(addr, auth, from, to, msg)
	} else {
		err = smtp.SendMail(addr, nil, from, []string{to}, []byte(msg))
	}

	if err != nil {
		return nil, &apperrors.DeliveryError{StatusCode: 0, Message: err.Error()}
	}

	return &Receipt{ID: uuid.NewString(), DeliveredAt: time.Now().UTC()}, nil
}

func (m *smtpMailer) sendTLS(addr string, auth smtp.Auth, from, to, msg string) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.host})
	if err != nil {
		return fmt.Errorf("dial tls: %w", err)
	}

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return fmt.Errorf("new client: %w", err)
	}
	defer func() {
		_ = c.Close()
	}()

	if auth != nil {
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	if err := c.Mail(from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	return w.Close()
}

func buildMessage(from, to, subject, htmlBody string) string {
	headers := []string{
		fmt.Sprintf("From: %s", from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
	}
	return strings.Join(headers, "\r\n") + "\r\n\r\n" + htmlBody
}

func appendAttachmentLinks(htmlBody string, attachments []string) string {
	if len(attachments) == 0 {
		return htmlBody
	}

	var b strings.Builder
	b.WriteString(htmlBody)
	b.WriteString("<ul>")
	for _, url := range attachments {
		b.WriteString(fmt.Sprintf(`<li><a href=%q>%s</a></li>`, url, url))
	}
	b.WriteString("</ul>")

	return b.String()
}
