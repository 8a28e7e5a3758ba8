package mail

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

type SMTPMailer struct {
	dialer    *gomail.Dialer
	fromName  string
	fromEmail string
}

func NewSMTPMailer(host string, port int, user, pass, fromName, fromEmail string) *SMTPMailer {
	return &SMTPMailer{
		dialer:    gomail.NewDialer(strings.TrimSpace(host), port, strings.TrimSpace(user), pass),
		fromName:  fromName,
		fromEmail: strings.TrimSpace(fromEmail),
	}
}

func (s *SMTPMailer) Send(ctx context.Context, msg *Message) error {
	if strings.TrimSpace(msg.ToEmail) == "" {
		return fmt.Errorf("recipient email is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.fromEmail, s.fromName)
	m.SetAddressHeader("To", msg.ToEmail, msg.ToName)
	m.SetHeader("Subject", msg.Subject)
	if msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
		if msg.HTML != "" {
			m.AddAlternative("text/html", msg.HTML)
		}
	} else {
		m.SetBody("text/html", msg.HTML)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.ToEmail, err)
	}
	return nil
}
