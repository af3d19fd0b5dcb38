// Package mail composes and delivers the trip confirmation e-mails.
// The Mailer interface is the transport port; SMTPMailer is the production
// implementation. Dispatcher owns message composition and fan-out.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Address is a display name plus an e-mail address.
type Address struct {
	Name  string
	Email string
}

// String renders the address in RFC 5322 name-addr form.
func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return fmt.Sprintf("%q <%s>", a.Name, a.Email)
}

// Message is a single outbound HTML e-mail.
type Message struct {
	From    Address
	To      Address
	Subject string
	HTML    string
}

// Mailer delivers a single message. Implementations make no delivery
// guarantee beyond handing the message to the transport.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer sends messages over plain SMTP.
// When username is empty the connection is unauthenticated, which suits
// local catch-all servers like MailHog during development.
type SMTPMailer struct {
	addr     string // host:port
	username string
	password string
}

// NewSMTPMailer constructs an SMTPMailer for the given server address.
func NewSMTPMailer(addr, username, password string) *SMTPMailer {
	return &SMTPMailer{addr: addr, username: username, password: password}
}

// Send delivers msg over SMTP. net/smtp has no context support, so ctx is
// accepted only to satisfy the Mailer port; a hung server stalls the call.
func (m *SMTPMailer) Send(_ context.Context, msg Message) error {
	var auth smtp.Auth
	if m.username != "" {
		host, _, found := strings.Cut(m.addr, ":")
		if !found {
			host = m.addr
		}
		auth = smtp.PlainAuth("", m.username, m.password, host)
	}

	raw := encodeMessage(msg)
	if err := smtp.SendMail(m.addr, auth, msg.From.Email, []string{msg.To.Email}, raw); err != nil {
		return fmt.Errorf("mail.SMTPMailer.Send: %w", err)
	}
	return nil
}

// encodeMessage renders the headers and HTML body into wire format.
// Header values pass through sanitizeHeader: Subject and the address names
// carry user-supplied text (e.g. the trip destination), and a stray CRLF in
// them would otherwise smuggle extra headers into the message.
func encodeMessage(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", sanitizeHeader(msg.From.String()))
	fmt.Fprintf(&b, "To: %s\r\n", sanitizeHeader(msg.To.String()))
	fmt.Fprintf(&b, "Subject: %s\r\n", sanitizeHeader(msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// sanitizeHeader strips CR and LF so a value can only ever occupy the
// single header line it was written to.
func sanitizeHeader(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", "")
}
