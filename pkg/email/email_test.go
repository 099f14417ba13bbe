package email

import (
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configured() *EmailService {
	return NewEmailService(Config{
		Host:      "smtp.example.com",
		Port:      "587",
		Username:  "mailer",
		Password:  "secret",
		FromEmail: "noreply@example.com",
	})
}

func TestRenderEscapesContent(t *testing.T) {
	s := configured()
	raw, err := s.Render(Message{
		To:      "joe@example.com",
		Subject: "Interview scheduled",
		Heading: "Your interview",
		Lines:   []string{"<script>alert(1)</script>"},
	})
	require.NoError(t, err)

	body := string(raw)
	assert.Contains(t, body, "To: joe@example.com\r\n")
	assert.Contains(t, body, "Content-Type: text/html; charset=UTF-8")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.NotContains(t, body, "<script>")
}

func TestSend(t *testing.T) {
	t.Run("Should hand the message to SMTP", func(t *testing.T) {
		s := configured()
		var gotAddr string
		var gotTo []string
		s.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotTo = addr, to
			return nil
		}

		require.NoError(t, s.Send(Message{To: "joe@example.com", Subject: "Hi", Heading: "Hi"}))
		assert.Equal(t, "smtp.example.com:587", gotAddr)
		assert.Equal(t, []string{"joe@example.com"}, gotTo)
	})

	t.Run("Should refuse header injection", func(t *testing.T) {
		s := configured()
		s.send = func(string, smtp.Auth, string, []string, []byte) error {
			t.Fatal("send must not be called")
			return nil
		}
		assert.Error(t, s.Send(Message{To: "joe@example.com\r\nBcc: eve@example.com"}))
	})

	t.Run("Should require SMTP settings", func(t *testing.T) {
		assert.Error(t, NewEmailService(Config{}).Send(Message{To: "joe@example.com"}))
	})
}
