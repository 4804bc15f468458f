package notify

import (
	"fmt"

	"github.com/estatecrm/backend/internal/infrastructure/config"
	"gopkg.in/gomail.v2"
)

// EmailSender delivers a notification body to an email address
type EmailSender interface {
	Send(to, subject, body string) error
}

// SMTPSender sends email through an SMTP relay
type SMTPSender struct {
	host     string
	port     int
	user     string
	password string
	from     string
}

// NewSMTPSender creates an SMTP-backed email sender from notify config
func NewSMTPSender(cfg config.NotifyConfig) *SMTPSender {
	return &SMTPSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.EmailFrom,
	}
}

// Send delivers a single plain-text email
func (s *SMTPSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.user, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

// NopSender discards email. Used when email delivery is disabled.
type NopSender struct{}

// Send discards the message
func (NopSender) Send(string, string, string) error { return nil }

var (
	_ EmailSender = (*SMTPSender)(nil)
	_ EmailSender = NopSender{}
)
