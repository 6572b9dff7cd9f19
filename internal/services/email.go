package services

import (
	"fmt"
	"net/smtp"

	"github.com/aniwoo/aniwoo-api/internal/config"
)

type EmailService struct {
	cfg config.SMTPConfig
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Username != "" && s.cfg.Password != "" && s.cfg.From != "" && s.cfg.To != ""
}

func (s *EmailService) Send(to, subject, body string) error {
	if !s.IsConfigured() {
		return nil
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.cfg.From, to, subject, body)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg))
}

// SendContactMessage relays a contact-form submission to the support inbox.
func (s *EmailService) SendContactMessage(name, email, subject, message string) error {
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Contact form message</h2>
			<p><strong>From:</strong> %s (%s)</p>
			<p>%s</p>
		</body>
		</html>
	`, name, email, message)

	return s.Send(s.cfg.To, fmt.Sprintf("[Aniwoo contact] %s", subject), body)
}
