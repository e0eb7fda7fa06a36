// Package email sends transactional mail through SendGrid. Every send is
// best-effort: registration must succeed even when the mail provider is
// down, so failures are logged and swallowed by the callers.
package email

import (
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// MailClient sends one composed message; *sendgrid.Client satisfies it
type MailClient interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// Sender composes and sends the platform's transactional mail
type Sender struct {
	client MailClient
	from   string
	logger *zap.Logger
}

// NewSender creates a sender; returns nil when no API key is configured so
// callers can skip mail entirely.
func NewSender(apiKey, from string, logger *zap.Logger) *Sender {
	if apiKey == "" {
		return nil
	}
	return &Sender{client: sendgrid.NewSendClient(apiKey), from: from, logger: logger}
}

// SendWelcome mails the registration greeting
func (s *Sender) SendWelcome(correo, nombre string) error {
	from := mail.NewEmail("Alerta UTEC", s.from)
	to := mail.NewEmail(nombre, correo)
	subject := "Bienvenido a Alerta UTEC"
	plain := fmt.Sprintf("Hola %s, tu cuenta en Alerta UTEC fue creada con éxito.", nombre)
	html := fmt.Sprintf("<p>Hola <strong>%s</strong>, tu cuenta en Alerta UTEC fue creada con éxito.</p>", nombre)

	message := mail.NewSingleEmail(from, subject, to, plain, html)
	resp, err := s.client.Send(message)
	if err != nil {
		return fmt.Errorf("send welcome to %s: %w", correo, err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("send welcome to %s: sendgrid status %d", correo, resp.StatusCode)
	}

	s.logger.Info("welcome email sent", zap.String("correo", correo))
	return nil
}

// TrySendWelcome logs instead of failing when the mail cannot go out
func (s *Sender) TrySendWelcome(correo, nombre string) {
	if s == nil {
		return
	}
	if err := s.SendWelcome(correo, nombre); err != nil {
		s.logger.Warn("welcome email failed", zap.Error(err))
	}
}
