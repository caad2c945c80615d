package mailer

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"mime"
	"strings"
	"time"
)

var (
	errNoRecipient = errors.New("mailer: at least one recipient required")
	errNoSender    = errors.New("mailer: from address required")
	errNoSubject   = errors.New("mailer: subject required")
	errNoBody      = errors.New("mailer: text or html body required")
)

// message accumulates an RFC 5322 message. Header values pass through
// headerSafe, so visitor-supplied text (the enquiry subject, the visitor's
// reply address) cannot open a new header line.
type message struct {
	strings.Builder
}

func (m *message) header(key, value string) {
	m.WriteString(headerSafe(key))
	m.WriteString(": ")
	m.WriteString(headerSafe(value))
	m.WriteString("\r\n")
}

// part writes a Content-Type header block followed by the body, ending on a
// line break.
func (m *message) part(contentType, body string) {
	m.WriteString("Content-Type: " + contentType + "; charset=UTF-8\r\n")
	m.WriteString("Content-Transfer-Encoding: 7bit\r\n\r\n")
	m.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		m.WriteString("\r\n")
	}
}

func validate(e Email) error {
	switch {
	case len(e.To) == 0:
		return errNoRecipient
	case e.From == "":
		return errNoSender
	case e.Subject == "":
		return errNoSubject
	case e.TextBody == "" && e.HTMLBody == "":
		return errNoBody
	}
	return nil
}

// buildMIMEMessage renders e for the SMTP DATA phase. Message-IDs are minted
// under idDomain.
func buildMIMEMessage(e Email, idDomain string) (string, error) {
	if err := validate(e); err != nil {
		return "", err
	}

	var m message
	m.header("Date", time.Now().Format(time.RFC1123Z))
	m.header("Message-ID", newMessageID(idDomain))
	m.header("From", formatAddress(e.FromName, e.From))
	m.header("To", strings.Join(e.To, ", "))
	if e.ReplyTo != "" {
		m.header("Reply-To", e.ReplyTo)
	}
	if len(e.Cc) > 0 {
		m.header("Cc", strings.Join(e.Cc, ", "))
	}
	m.header("Subject", mime.QEncoding.Encode("utf-8", e.Subject))
	m.header("MIME-Version", "1.0")
	for k, v := range e.Headers {
		if k != "" && v != "" {
			m.header(k, v)
		}
	}

	switch {
	case e.TextBody != "" && e.HTMLBody != "":
		boundary := "alt-" + randomHex(12)
		m.header("Content-Type", `multipart/alternative; boundary="`+boundary+`"`)
		m.WriteString("\r\n--" + boundary + "\r\n")
		m.part("text/plain", e.TextBody)
		m.WriteString("--" + boundary + "\r\n")
		m.part("text/html", e.HTMLBody)
		m.WriteString("--" + boundary + "--\r\n")
	case e.HTMLBody != "":
		m.part("text/html", e.HTMLBody)
	default:
		m.part("text/plain", e.TextBody)
	}
	return m.String(), nil
}

// formatAddress Q-encodes the display name, so "Yantrashilpa Technologies"
// stays readable and non-ASCII names survive.
func formatAddress(name, addr string) string {
	if name == "" {
		return addr
	}
	return mime.QEncoding.Encode("utf-8", name) + " <" + addr + ">"
}

func newMessageID(domain string) string {
	return "<" + randomHex(12) + "@" + domain + ">"
}

func randomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func headerSafe(v string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(v)
}
