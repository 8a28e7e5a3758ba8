package mail

import (
	"context"
	"fmt"

	"dog-grooming-booking/internal/config"
)

// Message is a single outbound email
type Message struct {
	ToEmail string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers email through a provider.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// New builds the mailer selected by MAIL_PROVIDER.
func New(cfg *config.MailConfig) (Mailer, error) {
	switch cfg.Provider {
	case "smtp":
		return NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.FromName, cfg.FromEmail), nil
	case "mailersend":
		return NewMailerSend(cfg.MailerSendAPIKey, cfg.FromName, cfg.FromEmail), nil
	case "log", "":
		return NewLogMailer(), nil
	default:
		return nil, fmt.Errorf("unsupported mail provider %q", cfg.Provider)
	}
}
