package utils

import (
	"fmt"
	"net/smtp"

	"evcharge/config"
)

// SendEmail sends a plain-text email through the configured SMTP relay.
func SendEmail(to, subject, body string) error {
	cfg := config.AppConfig
	if cfg.SMTPHost == "" || cfg.SMTPUser == "" {
		return fmt.Errorf("smtp is not configured")
	}

	addr := cfg.SMTPHost + ":" + cfg.SMTPPort
	auth := smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)

	msg := []byte("From: " + cfg.SMTPUser + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=\"UTF-8\"\r\n" +
		"\r\n" + body + "\r\n")

	if err := smtp.SendMail(addr, auth, cfg.SMTPUser, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
