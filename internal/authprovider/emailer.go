package authprovider

import (
	"fmt"
	"net/smtp"

	"go.uber.org/zap"
)

// SMTPConfig carries the mail relay settings.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// Emailer sends transactional mail over a plain SMTP relay.
type Emailer struct {
	cfg SMTPConfig
	log *zap.Logger

	// send is swapped out in tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailer(cfg SMTPConfig, log *zap.Logger) *Emailer {
	return &Emailer{cfg: cfg, log: log, send: smtp.SendMail}
}

func (e *Emailer) Send(to, subject, body string) error {
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		e.cfg.From, to, subject, body))

	addr := e.cfg.Host + ":" + e.cfg.Port
	var auth smtp.Auth
	if e.cfg.Username != "" {
		auth = smtp.PlainAuth("", e.cfg.Username, e.cfg.Password, e.cfg.Host)
	}

	if err := e.send(addr, auth, e.cfg.From, []string{to}, msg); err != nil {
		e.log.Error("email send failed", zap.String("to", to), zap.Error(err))
		return err
	}
	return nil
}

// SendVerification mails the account-activation link.
func (e *Emailer) SendVerification(to, link string) error {
	body := fmt.Sprintf(`
		<h2>Welcome to DiaBeater!</h2>
		<p>Please verify your email address to activate your account:</p>
		<p><a href="%s">Verify my email</a></p>
		<p>If the button does not work, copy this link into your browser:</p>
		<p>%s</p>
		<p>This link expires in 24 hours.</p>`, link, link)
	return e.Send(to, "Verify your DiaBeater account", body)
}
