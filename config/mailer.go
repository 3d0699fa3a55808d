package config

import (
	"crypto/tls"
	"fmt"

	mail "github.com/go-mail/mail/v2"
)

func SendMail(to []string, subject, html string) error {
	if len(to) == 0 {
		return nil
	}
	s := Cfg.SMTP
	if !s.Enabled() {
		return fmt.Errorf("smtp not configured (SMTP_HOST/SMTP_FROM)")
	}

	m := mail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	d := mail.NewDialer(s.Host, s.Port, s.User, s.Pass)

	// STARTTLS is mandatory on 587 for the common providers.
	d.StartTLSPolicy = mail.MandatoryStartTLS

	d.TLSConfig = &tls.Config{
		ServerName:         s.Host,
		InsecureSkipVerify: s.SkipTLSVerify, // dev only
	}

	return d.DialAndSend(m)
}
