package notifier

import (
	"log/slog"

	"slotlink/internal/pkg/config"
	"slotlink/internal/pkg/errs"

	"gopkg.in/gomail.v2"
)

// Mailer delivers a single message. Failures are reported back to the outbox
// worker, which owns retry bookkeeping.
type Mailer interface {
	Send(to, subject, body string) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg config.SMTPConfig) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return errs.Wrap(m.dialer.DialAndSend(msg), "failed to send mail")
}

// logMailer stands in for SMTP in development and tests.
type logMailer struct{}

func NewLogMailer() Mailer { return logMailer{} }

func (logMailer) Send(to, subject, body string) error {
	slog.Info("mail suppressed", "to", to, "subject", subject, "bytes", len(body))
	return nil
}
