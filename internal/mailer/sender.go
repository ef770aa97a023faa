package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
)

// SMTPSender delivers through a plain SMTP relay.
type SMTPSender struct {
	Addr string // host:port
	From string
}

func (s SMTPSender) Send(_ context.Context, to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", s.From, to, subject, body)
	if err := smtp.SendMail(s.Addr, nil, s.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// LogSender only logs, for local runs without a relay.
type LogSender struct {
	From string
}

func (s LogSender) Send(_ context.Context, to, subject, _ string) error {
	slog.Info("confirmation email (dry run)", "from", s.From, "to", to, "subject", subject)
	return nil
}
