// Package services provides external service integrations and technical concerns like notifications and QR rendering
package services

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ratetap/ratetap/config"
	"github.com/ratetap/ratetap/utils"
)

// NotificationService delivers merchant-facing alert emails, such as the
// negative-feedback notification fired after a low rating.
type NotificationService interface {
	SendEmail(ctx context.Context, recipient, subject, body string) error
}

// NotificationServiceImpl implements NotificationService over SMTP
type NotificationServiceImpl struct {
	config *config.EmailConfig
}

// NewNotificationService creates a new notification service
func NewNotificationService(cfg *config.EmailConfig) NotificationService {
	return &NotificationServiceImpl{
		config: cfg,
	}
}

// SendEmail delivers one plain-text email, retrying per the configured
// attempt budget before giving up.
func (s *NotificationServiceImpl) SendEmail(ctx context.Context, recipient, subject, body string) error {
	if strings.TrimSpace(recipient) == "" {
		return fmt.Errorf("recipient is required")
	}
	if s.config == nil || s.config.Host == "" {
		return fmt.Errorf("email delivery is not configured")
	}

	attempts := s.config.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lastErr = s.deliver(recipient, subject, body); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("failed to send email after %d attempts: %w", attempts, lastErr)
}

func (s *NotificationServiceImpl) deliver(recipient, subject, body string) error {
	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	client, err := s.dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to smtp server: %w", err)
	}
	defer client.Close()

	if !s.config.UseTLS && s.config.UseSTARTTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: s.config.Host}); err != nil {
				return fmt.Errorf("starttls negotiation failed: %w", err)
			}
		}
	}

	if s.config.Username != "" {
		if ok, _ := client.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
			if err := client.Auth(auth); err != nil {
				return fmt.Errorf("smtp authentication failed: %w", err)
			}
		}
	}

	if err := client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("smtp mail command failed: %w", err)
	}
	if err := client.Rcpt(recipient); err != nil {
		return fmt.Errorf("smtp rcpt command failed: %w", err)
	}
	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data command failed: %w", err)
	}
	if _, err := writer.Write(s.composeMessage(recipient, subject, body)); err != nil {
		return fmt.Errorf("failed to write message body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish message: %w", err)
	}
	return client.Quit()
}

// dial opens the SMTP connection, over implicit TLS when configured and
// plain TCP otherwise. STARTTLS upgrades happen after the handshake.
func (s *NotificationServiceImpl) dial(addr string) (*smtp.Client, error) {
	if s.config.UseTLS {
		conn, err := tls.DialWithDialer(&net.Dialer{Timeout: s.config.Timeout}, "tcp", addr, &tls.Config{ServerName: s.config.Host})
		if err != nil {
			return nil, err
		}
		return smtp.NewClient(conn, s.config.Host)
	}
	conn, err := net.DialTimeout("tcp", addr, s.config.Timeout)
	if err != nil {
		return nil, err
	}
	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return client, nil
}

func (s *NotificationServiceImpl) composeMessage(recipient, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Date: %s\r\n", utils.UTCNow().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}

// MockNotificationService implements NotificationService for testing
type MockNotificationService struct {
	mu         sync.Mutex
	SentEmails []MockEmail
	SendErr    error
}

// MockEmail represents one email captured by the mock
type MockEmail struct {
	Recipient string
	Subject   string
	Body      string
	SentAt    time.Time
}

// NewMockNotificationService creates a new mock notification service for testing
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

// SendEmail records the email instead of delivering it
func (m *MockNotificationService) SendEmail(ctx context.Context, recipient, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendErr != nil {
		return m.SendErr
	}
	m.SentEmails = append(m.SentEmails, MockEmail{
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
		SentAt:    utils.UTCNow(),
	})
	return nil
}

// GetSentEmails returns all captured emails (for testing)
func (m *MockNotificationService) GetSentEmails() []MockEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockEmail, len(m.SentEmails))
	copy(out, m.SentEmails)
	return out
}

// ClearSentEmails clears all captured emails (for testing)
func (m *MockNotificationService) ClearSentEmails() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentEmails = nil
}
