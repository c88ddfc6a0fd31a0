package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"campusnest/services/logger"
)

// Mailer delivers transactional email.
type Mailer interface {
	SendVerificationCode(ctx context.Context, email, username, code string) error
}

// SMTPMailer sends HTML mail through a plain-auth SMTP relay.
type SMTPMailer struct {
	host     string
	port     string
	user     string
	password string
	from     string
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

type SMTPMailerOptions struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

func NewSMTPMailer(opts SMTPMailerOptions) *SMTPMailer {
	from := opts.From
	if from == "" {
		from = opts.User
	}
	return &SMTPMailer{
		host:     opts.Host,
		port:     opts.Port,
		user:     opts.User,
		password: opts.Password,
		from:     from,
		send:     smtp.SendMail,
	}
}

var verificationTemplate = template.Must(template.New("verify").Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>Verify your campus email</title>
</head>
<body>
	<p>Hi {{.Username}},</p>
	<p>Your verification code is: <strong>{{.Code}}</strong></p>
	<p>If you did not create an account you can safely ignore this email.</p>
	<p>Thanks,<br>The CampusNest team</p>
</body>
</html>`))

func (m *SMTPMailer) SendVerificationCode(ctx context.Context, email, username, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var body bytes.Buffer
	if err := verificationTemplate.Execute(&body, struct{ Username, Code string }{username, code}); err != nil {
		return err
	}
	msg := buildMessage(m.from, email, "Your CampusNest verification code", body.String())

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	if err := m.send(m.host+":"+m.port, auth, m.from, []string{email}, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", email, err)
	}
	return nil
}

func buildMessage(from, to, subject, html string) []byte {
	return []byte("From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n" +
		"\r\n" + html)
}

// LogMailer writes codes to the log instead of sending them. It is used
// when no SMTP host is configured.
type LogMailer struct {
	Logger logger.Logger
}

func (m LogMailer) SendVerificationCode(_ context.Context, email, username, code string) error {
	m.Logger.Info("verification code for %s (%s): %s", username, email, code)
	return nil
}
