// internal/app/system/mailer/mailer.go

// Package mailer sends transactional email over SMTP. Delivery failures are
// non-fatal to the flows that trigger them: the record that prompted the
// email persists and the response carries a warning instead.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// Email is one outbound message with both text and HTML bodies.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer submits email to an SMTP relay.
type Mailer struct {
	host     string
	port     int
	user     string
	pass     string
	from     string
	fromName string
	log      *zap.Logger
}

// New creates a Mailer. Empty user/pass means unauthenticated SMTP
// (local relays such as Mailpit).
func New(host string, port int, user, pass, from, fromName string, logger *zap.Logger) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		user:     user,
		pass:     pass,
		from:     from,
		fromName: fromName,
		log:      logger,
	}
}

// Send submits the email. The multipart body carries text and HTML
// alternatives.
func (m *Mailer) Send(e Email) error {
	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}

	msg := m.buildMessage(e)
	if err := smtp.SendMail(addr, auth, m.from, []string{e.To}, msg); err != nil {
		m.log.Error("smtp send failed",
			zap.Error(err),
			zap.String("to", e.To),
			zap.String("subject", e.Subject))
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func (m *Mailer) buildMessage(e Email) []byte {
	const boundary = "webstack-alt-boundary"

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", m.fromName, m.from)
	fmt.Fprintf(&b, "To: %s\r\n", e.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", e.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(e.TextBody)
	b.WriteString("\r\n")

	if e.HTMLBody != "" {
		fmt.Fprintf(&b, "--%s\r\n", boundary)
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		b.WriteString(e.HTMLBody)
		b.WriteString("\r\n")
	}

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}
