// Package mail delivers contact form submissions over SMTP.
package mail

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("SMTP credentials not configured")

// ContactMessage is one contact form submission.
type ContactMessage struct {
	Name    string `form:"fullName" binding:"required,max=200"`
	Email   string `form:"email" binding:"required,email"`
	Message string `form:"message" binding:"required,max=5000"`
}

type Settings struct {
	Host string
	Port string
	User string
	Pass string
	To   string
}

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer sends contact messages to the site owner.
type Mailer struct {
	settings Settings
	send     SendFunc
	logger   *zap.Logger
}

func New(s Settings, logger *zap.Logger) *Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mailer{settings: s, send: smtp.SendMail, logger: logger}
}

// WithSender replaces the SMTP transport.
func (m *Mailer) WithSender(send SendFunc) *Mailer {
	m.send = send
	return m
}

// Configured reports whether credentials and a recipient are set.
func (m *Mailer) Configured() bool {
	return m.settings.User != "" && m.settings.Pass != "" && m.settings.To != ""
}

// Send mails msg to the configured recipient. Replies go to the sender.
func (m *Mailer) Send(msg ContactMessage) error {
	if !m.Configured() {
		return ErrNotConfigured
	}
	s := m.settings
	auth := smtp.PlainAuth("", s.User, s.Pass, s.Host)
	if err := m.send(s.Host+":"+s.Port, auth, s.User, []string{s.To}, compose(s, msg)); err != nil {
		m.logger.Error("failed to send contact email", zap.Error(err))
		return fmt.Errorf("sending contact email: %w", err)
	}
	m.logger.Info("contact email sent", zap.String("from", msg.Email))
	return nil
}

func compose(s Settings, msg ContactMessage) []byte {
	subject := "Portfolio Contact: " + oneLine(msg.Name)
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, msg.Name, msg.Email, msg.Message)

	return []byte("To: " + s.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + s.User + "\r\n" +
		"Reply-To: " + oneLine(msg.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

// oneLine strips line breaks so form input cannot add headers.
func oneLine(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
