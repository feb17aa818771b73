// Package notify delivers best-effort outbound messages.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/newsroom/internal/config"
)

// Message is a plain-text e-mail.
type Message struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// Mailer sends a single message. Implementations make one attempt and do not retry.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NotificationDeliveryError wraps a failed delivery. It never leaves the
// notification layer.
type NotificationDeliveryError struct {
	Recipients []string
	Err        error
}

func (e *NotificationDeliveryError) Error() string {
	return fmt.Sprintf("deliver notification to %s: %v", strings.Join(e.Recipients, ","), e.Err)
}

func (e *NotificationDeliveryError) Unwrap() error {
	return e.Err
}

// NewMailer returns an SMTP mailer when a relay host is configured and a
// logging mailer otherwise.
func NewMailer(cfg config.NotificationConfig, logger *zap.Logger) Mailer {
	if strings.TrimSpace(cfg.SMTPHost) == "" {
		logger.Info("SMTP_HOST not provided; approval notices will only be logged")
		return NewLogMailer(logger)
	}
	return NewSMTPMailer(cfg)
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer relays mail through an SMTP server.
type SMTPMailer struct {
	addr     string
	host     string
	username string
	password string
	sendMail sendMailFunc
}

// NewSMTPMailer builds a mailer for the configured relay.
func NewSMTPMailer(cfg config.NotificationConfig) *SMTPMailer {
	return &SMTPMailer{
		addr:     cfg.SMTPAddr(),
		host:     cfg.SMTPHost,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		sendMail: smtp.SendMail,
	}
}

// Send delivers msg. The context is only checked before dialing since
// net/smtp has no cancellation support.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return &NotificationDeliveryError{Recipients: msg.To, Err: err}
	}
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	if err := m.sendMail(m.addr, auth, msg.From, msg.To, formatMessage(msg)); err != nil {
		return &NotificationDeliveryError{Recipients: msg.To, Err: err}
	}
	return nil
}

func formatMessage(msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + msg.From + "\r\n")
	b.WriteString("To: " + strings.Join(msg.To, ", ") + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer builds a logging mailer.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs msg.
func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("mail",
		zap.String("from", msg.From),
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}
