package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"yantrashilpa.com/web/internal/config"
)

// SMTPMailer hands contact-form notifications to the configured relay.
// TLSMode picks the transport: "tls" wraps the socket before the greeting,
// "starttls" upgrades after it and fails if the relay cannot, anything else
// talks plain SMTP (MailHog in development).
type SMTPMailer struct {
	cfg          config.SMTPConfig
	dialTimeout  time.Duration
	writeTimeout time.Duration

	// idDomain suffixes generated Message-IDs.
	idDomain string
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	domain := cfg.Host
	if domain == "" {
		domain = "localhost"
	}
	return &SMTPMailer{
		cfg:          cfg,
		dialTimeout:  5 * time.Second,
		writeTimeout: 10 * time.Second,
		idDomain:     domain,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, e Email) error {
	raw, err := buildMIMEMessage(e, m.idDomain)
	if err != nil {
		return err
	}

	conn, err := m.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return stageErr("greeting", err)
	}
	defer c.Quit()

	if err := m.negotiate(c); err != nil {
		return err
	}
	if err := c.Mail(e.From); err != nil {
		return stageErr("MAIL FROM", err)
	}
	for _, rcpt := range e.AllRecipients() {
		if err := c.Rcpt(rcpt); err != nil {
			return stageErr("RCPT TO "+rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return stageErr("DATA", err)
	}
	_ = conn.SetWriteDeadline(m.deadline(ctx))
	if _, err := w.Write([]byte(raw)); err != nil {
		_ = w.Close()
		return stageErr("write", err)
	}
	if err := w.Close(); err != nil {
		return stageErr("end of data", err)
	}
	return nil
}

func (m *SMTPMailer) dial(ctx context.Context) (net.Conn, error) {
	d := &net.Dialer{Timeout: m.dialTimeout}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(m.cfg.Host, m.cfg.Port))
	if err != nil {
		return nil, stageErr("dial", err)
	}
	if !strings.EqualFold(m.cfg.TLSMode, "tls") {
		return conn, nil
	}

	tc := tls.Client(conn, m.tlsConfig())
	if err := tc.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, stageErr("tls handshake", err)
	}
	return tc, nil
}

// negotiate upgrades to STARTTLS when asked and authenticates when the
// relay offers AUTH and credentials are set.
func (m *SMTPMailer) negotiate(c *smtp.Client) error {
	if strings.EqualFold(m.cfg.TLSMode, "starttls") {
		if ok, _ := c.Extension("STARTTLS"); !ok {
			return stageErr("starttls", fmt.Errorf("not offered by %s", m.cfg.Host))
		}
		if err := c.StartTLS(m.tlsConfig()); err != nil {
			return stageErr("starttls", err)
		}
	}

	if m.cfg.User == "" || m.cfg.Pass == "" {
		return nil
	}
	if ok, _ := c.Extension("AUTH"); !ok {
		return nil
	}
	if err := c.Auth(smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)); err != nil {
		return stageErr("auth", err)
	}
	return nil
}

func (m *SMTPMailer) tlsConfig() *tls.Config {
	return &tls.Config{ServerName: m.cfg.Host, InsecureSkipVerify: m.cfg.SkipVerifyTLS}
}

// deadline is the write timeout or the context deadline, whichever is sooner.
func (m *SMTPMailer) deadline(ctx context.Context) time.Time {
	t := time.Now().Add(m.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(t) {
		return d
	}
	return t
}

func stageErr(stage string, err error) error {
	return fmt.Errorf("mailer: smtp %s: %w", stage, err)
}
