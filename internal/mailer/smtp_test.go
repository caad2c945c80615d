package mailer

import (
	"context"
	"net"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yantrashilpa.com/web/internal/config"
)

// fakeRelay accepts one SMTP session and reports the recipients and message
// it was handed.
func fakeRelay(t *testing.T) (config.SMTPConfig, <-chan string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	got := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		tp := textproto.NewConn(conn)
		var rcpts []string
		_ = tp.PrintfLine("220 relay ready")
		for {
			line, err := tp.ReadLine()
			if err != nil {
				return
			}
			cmd := strings.ToUpper(line)
			switch {
			case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
				_ = tp.PrintfLine("250 relay")
			case strings.HasPrefix(cmd, "MAIL FROM"):
				_ = tp.PrintfLine("250 ok")
			case strings.HasPrefix(cmd, "RCPT TO"):
				rcpts = append(rcpts, line[len("RCPT TO:"):])
				_ = tp.PrintfLine("250 ok")
			case cmd == "DATA":
				_ = tp.PrintfLine("354 end with .")
				body, err := tp.ReadDotBytes()
				if err != nil {
					return
				}
				got <- strings.Join(rcpts, ",") + "\n" + string(body)
				_ = tp.PrintfLine("250 queued")
			case cmd == "QUIT":
				_ = tp.PrintfLine("221 bye")
				return
			default:
				_ = tp.PrintfLine("502 not implemented")
			}
		}
	}()

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	return config.SMTPConfig{Host: host, Port: port, TLSMode: "none"}, got
}

func enquiry() Email {
	return Email{
		FromName: "Yantrashilpa Website",
		From:     "no-reply@yantrashilpa.com",
		To:       []string{"support@yantrashilpa.com"},
		Bcc:      []string{"sales@yantrashilpa.com"},
		ReplyTo:  "asha@example.com",
		Subject:  "Enquiry: dyno quote",
		TextBody: "Please quote a 250 kW dyno.",
	}
}

func TestSMTPMailer_DeliversToRelay(t *testing.T) {
	cfg, got := fakeRelay(t)

	require.NoError(t, NewSMTPMailer(cfg).Send(context.Background(), enquiry()))

	select {
	case msg := <-got:
		assert.True(t, strings.HasPrefix(msg, "<support@yantrashilpa.com>,<sales@yantrashilpa.com>\n"), msg)
		assert.Contains(t, msg, "Subject: Enquiry: dyno quote")
		assert.Contains(t, msg, "Reply-To: asha@example.com")
		assert.NotContains(t, msg, "Bcc:")
		assert.Contains(t, msg, "Please quote a 250 kW dyno.")
	case <-time.After(5 * time.Second):
		t.Fatal("relay received nothing")
	}
}

func TestSMTPMailer_StartTLSRequired(t *testing.T) {
	cfg, _ := fakeRelay(t)
	cfg.TLSMode = "STARTTLS"

	err := NewSMTPMailer(cfg).Send(context.Background(), enquiry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp starttls")
}

func TestSMTPMailer_InvalidMessageSkipsDial(t *testing.T) {
	m := NewSMTPMailer(config.SMTPConfig{Host: "relay.invalid", Port: "25"})
	err := m.Send(context.Background(), Email{From: "a@b.c"})
	assert.ErrorIs(t, err, errNoRecipient)
}

func TestSMTPMailer_Deadline(t *testing.T) {
	m := NewSMTPMailer(config.SMTPConfig{})
	soon := time.Now().Add(time.Second)
	ctx, cancel := context.WithDeadline(context.Background(), soon)
	defer cancel()

	assert.Equal(t, soon, m.deadline(ctx))
	assert.True(t, m.deadline(context.Background()).After(soon))
}
