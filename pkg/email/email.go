package email

import (
	"bytes"
	"fmt"
	"html/template"
	"mime"
	"net/smtp"
	"strings"
)

// Message is one outgoing email rendered with the notification template.
type Message struct {
	To      string
	Subject string
	Heading string
	Lines   []string
	// Optional call to action
	ActionURL   string
	ActionLabel string
}

type Config struct {
	Host      string
	Port      string
	Username  string
	Password  string
	FromEmail string
}

// sendFunc matches smtp.SendMail
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService sends notification emails via SMTP
type EmailService struct {
	cfg  Config
	tmpl *template.Template
	send sendFunc
}

func NewEmailService(cfg Config) *EmailService {
	return &EmailService{
		cfg:  cfg,
		tmpl: template.Must(template.New("notification").Parse(notificationTemplate)),
		send: smtp.SendMail,
	}
}

const notificationTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #1E3A5F; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .action { display: inline-block; margin-top: 15px; padding: 10px 18px; background: #1E3A5F; color: white; text-decoration: none; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h1>{{.Heading}}</h1></div>
        <div class="content">
            {{range .Lines}}<p>{{.}}</p>
            {{end}}{{if .ActionURL}}<a class="action" href="{{.ActionURL}}">{{.ActionLabel}}</a>{{end}}
        </div>
        <div class="footer"><p>You receive this email because an interview involves your account.</p></div>
    </div>
</body>
</html>`

// Render returns the full MIME message.
func (s *EmailService) Render(msg Message) ([]byte, error) {
	var body bytes.Buffer
	if err := s.tmpl.Execute(&body, msg); err != nil {
		return nil, fmt.Errorf("failed to execute email template: %w", err)
	}

	var raw bytes.Buffer
	fmt.Fprintf(&raw, "From: %s\r\n", s.cfg.FromEmail)
	fmt.Fprintf(&raw, "To: %s\r\n", msg.To)
	fmt.Fprintf(&raw, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	raw.WriteString("MIME-Version: 1.0\r\n")
	raw.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	raw.Write(body.Bytes())
	return raw.Bytes(), nil
}

// Send delivers msg. Header injection through the recipient is refused.
func (s *EmailService) Send(msg Message) error {
	if !s.IsConfigured() {
		return fmt.Errorf("email: SMTP is not configured")
	}
	if msg.To == "" || strings.ContainsAny(msg.To, "\r\n") {
		return fmt.Errorf("email: invalid recipient %q", msg.To)
	}

	raw, err := s.Render(msg)
	if err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	if err := s.send(addr, auth, s.cfg.FromEmail, []string{msg.To}, raw); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Username != "" && s.cfg.Password != ""
}
