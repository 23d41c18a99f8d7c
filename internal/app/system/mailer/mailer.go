// Package mailer sends notification email over SMTP.
//
// Delivery is best-effort by design: callers on the data path must never
// treat a send failure as fatal. The notify package wraps SendBatch and
// absorbs failures into a per-recipient report.
package mailer

import (
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
)

// Email is a single message. To is one address; batch fan-out builds one
// Email per recipient so a bad address never sinks the whole batch.
type Email struct {
	To       string
	ToName   string
	Subject  string
	TextBody string
	HTMLBody string
}

// Config holds SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	User     string // empty means no auth (e.g. Mailpit in dev)
	Pass     string
	From     string
	FromName string
}

// Mailer sends email through a single SMTP relay.
type Mailer struct {
	cfg Config
}

// New creates a Mailer with the given SMTP configuration.
func New(cfg Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// Send delivers one message. It returns an error for connection problems,
// auth failures, or recipient rejection; callers decide whether that error
// is fatal (it never is on the notification path).
func (m *Mailer) Send(e Email) error {
	if e.To == "" {
		return fmt.Errorf("mailer: empty recipient")
	}

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}

	msg := m.buildMessage(e)
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{e.To}, msg); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", e.To, err)
	}
	return nil
}

// buildMessage assembles a multipart/alternative MIME message so clients
// that refuse HTML still get the text body.
func (m *Mailer) buildMessage(e Email) []byte {
	const boundary = "unihub-alt-boundary"

	from := m.cfg.From
	if m.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.From)
	}
	to := e.To
	if e.ToName != "" {
		to = fmt.Sprintf("%s <%s>", e.ToName, e.To)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
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
