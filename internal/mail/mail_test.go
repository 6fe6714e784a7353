package mail

import (
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var settings = Settings{
	Host: "smtp.example.com",
	Port: "587",
	User: "site@example.com",
	Pass: "pw",
	To:   "binil@example.com",
}

func TestSend(t *testing.T) {
	var (
		gotAddr string
		gotFrom string
		gotTo   []string
		gotMsg  string
	)
	m := New(settings, nil).WithSender(func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, string(msg)
		return nil
	})

	err := m.Send(ContactMessage{Name: "Ada", Email: "ada@example.com", Message: "Hello there"})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "site@example.com", gotFrom)
	assert.Equal(t, []string{"binil@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Portfolio Contact: Ada\r\n")
	assert.Contains(t, gotMsg, "Reply-To: ada@example.com\r\n")
	assert.Contains(t, gotMsg, "Message:\nHello there")
}

func TestSend_HeaderInjection(t *testing.T) {
	var gotMsg string
	m := New(settings, nil).WithSender(func(_ string, _ smtp.Auth, _ string, _ []string, msg []byte) error {
		gotMsg = string(msg)
		return nil
	})

	require.NoError(t, m.Send(ContactMessage{Name: "Eve\r\nBcc: all@example.com", Email: "e@example.com", Message: "x"}))
	headers := strings.SplitN(gotMsg, "\r\n\r\n", 2)[0]
	assert.NotContains(t, headers, "\r\nBcc:")
}

func TestSend_NotConfigured(t *testing.T) {
	s := settings
	s.Pass = ""
	m := New(s, nil).WithSender(func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("should not send")
		return nil
	})
	assert.False(t, m.Configured())
	assert.ErrorIs(t, m.Send(ContactMessage{Name: "a", Email: "a@b.c", Message: "m"}), ErrNotConfigured)
}

func TestSend_TransportError(t *testing.T) {
	boom := errors.New("connection refused")
	m := New(settings, nil).WithSender(func(string, smtp.Auth, string, []string, []byte) error {
		return boom
	})
	assert.ErrorIs(t, m.Send(ContactMessage{Name: "a", Email: "a@b.c", Message: "m"}), boom)
}
