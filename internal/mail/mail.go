// Package mail delivers transactional email.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"mime"
	"net/smtp"
	"strings"
)

// Message is a single HTML email.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender sends mail through an SMTP relay.
type SMTPSender struct {
	host     string
	port     string
	username string
	password string
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender creates an SMTPSender. Authentication is skipped when username is empty.
func NewSMTPSender(host, port, username, password string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		sendMail: smtp.SendMail,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	if err := s.sendMail(s.host+":"+s.port, auth, msg.From, []string{msg.To}, build(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}

func build(msg Message) []byte {
	headers := [][2]string{
		{"From", msg.From},
		{"To", msg.To},
		{"Subject", mime.QEncoding.Encode("utf-8", msg.Subject)},
		{"MIME-Version", "1.0"},
		{"Content-Type", `text/html; charset="utf-8"`},
	}

	var b strings.Builder
	for _, h := range headers {
		fmt.Fprintf(&b, "%s: %s\r\n", h[0], h[1])
	}
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}

// LogSender writes messages to the log instead of sending them. Used when no
// SMTP host is configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "mail not sent, no smtp host configured", "to", msg.To, "subject", msg.Subject)
	s.logger.DebugContext(ctx, "mail body", "html", msg.HTML)
	return nil
}

const PasswordResetSubject = "Roleplay: Recuperação de Senha"

var passwordResetTmpl = template.Must(template.New("reset").Parse(`<html>
<body>
	<h2>Recuperação de Senha</h2>
	<p>Olá, {{.Username}}.</p>
	<p>Recebemos uma solicitação para redefinir a sua senha. Para continuar, acesse o link abaixo:</p>
	<p><a href="{{.Link}}">Redefinir senha</a></p>
	<p>Se você não fez esta solicitação, ignore este email.</p>
</body>
</html>
`))

// PasswordReset renders the reset mail for username pointing at link.
func PasswordReset(from, to, username, link string) (Message, error) {
	var body bytes.Buffer
	err := passwordResetTmpl.Execute(&body, struct {
		Username string
		Link     string
	}{username, link})
	if err != nil {
		return Message{}, err
	}

	return Message{From: from, To: to, Subject: PasswordResetSubject, HTML: body.String()}, nil
}
