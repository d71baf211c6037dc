// Package email delivers outbound mail over SMTP. The sender sits
// behind a circuit breaker so a struggling mail relay is not hammered,
// and each send retries with exponential backoff.
package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sony/gobreaker"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type SMTPMailer struct {
	cfg     Config
	breaker *gobreaker.CircuitBreaker
}

func NewSMTPMailer(cfg Config) *SMTPMailer {
	settings := gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
	}
	return &SMTPMailer{cfg: cfg, breaker: gobreaker.NewCircuitBreaker(settings)}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		_, err := m.breaker.Execute(func() (interface{}, error) {
			return nil, m.send(to, subject, body)
		})
		if errors.Is(err, gobreaker.ErrOpenState) {
			// No point retrying while the breaker is open.
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(4))
	return err
}

func (m *SMTPMailer) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		m.cfg.From, to, subject, body)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	return smtp.SendMail(net.JoinHostPort(m.cfg.Host, m.cfg.Port), auth, m.cfg.From, []string{to}, []byte(msg))
}

// NoopMailer logs instead of sending; used when SMTP is unconfigured.
type NoopMailer struct{}

func (NoopMailer) Send(ctx context.Context, to, subject, body string) error {
	slog.Info("mail suppressed (no smtp configured)", "to", to, "subject", subject)
	return nil
}
