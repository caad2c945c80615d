package mailer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMIMEMessage_TextOnly(t *testing.T) {
	raw, err := buildMIMEMessage(Email{
		FromName: "Yantrashilpa Technologies",
		From:     "no-reply@yantrashilpa.com",
		To:       []string{"support@yantrashilpa.com"},
		ReplyTo:  "visitor@example.com",
		Subject:  "New contact message",
		TextBody: "hello",
	}, "yantrashilpa.com")
	require.NoError(t, err)

	assert.Contains(t, raw, "From: Yantrashilpa Technologies <no-reply@yantrashilpa.com>\r\n")
	assert.Contains(t, raw, "To: support@yantrashilpa.com\r\n")
	assert.Contains(t, raw, "Reply-To: visitor@example.com\r\n")
	assert.Contains(t, raw, "Subject: New contact message\r\n")
	assert.Contains(t, raw, "@yantrashilpa.com>\r\n")
	assert.Contains(t, raw, "Content-Type: text/plain; charset=UTF-8\r\n")
	assert.True(t, strings.HasSuffix(raw, "hello\r\n"))
}

func TestBuildMIMEMessage_Alternative(t *testing.T) {
	raw, err := buildMIMEMessage(Email{
		From:     "a@b.c",
		To:       []string{"x@y.z"},
		Subject:  "Subject",
		TextBody: "plain",
		HTMLBody: "<p>html</p>",
	}, "b.c")
	require.NoError(t, err)

	assert.Contains(t, raw, "multipart/alternative")
	assert.Contains(t, raw, "text/plain")
	assert.Contains(t, raw, "text/html")
	assert.Equal(t, 3, strings.Count(raw, "--alt-"))
}

func TestBuildMIMEMessage_Validation(t *testing.T) {
	base := Email{From: "a@b.c", To: []string{"x@y.z"}, Subject: "s", TextBody: "t"}

	noTo := base
	noTo.To = nil
	noFrom := base
	noFrom.From = ""
	noSubject := base
	noSubject.Subject = ""
	noBody := base
	noBody.TextBody = ""

	for e, want := range map[*Email]error{&noTo: errNoRecipient, &noFrom: errNoSender, &noSubject: errNoSubject, &noBody: errNoBody} {
		_, err := buildMIMEMessage(*e, "b.c")
		assert.ErrorIs(t, err, want)
	}
}

func TestBuildMIMEMessage_NoHeaderInjection(t *testing.T) {
	raw, err := buildMIMEMessage(Email{
		From:     "a@b.c",
		To:       []string{"x@y.z"},
		ReplyTo:  "v@example.com\r\nBcc: victim@example.com",
		Subject:  "hi\r\nBcc: victim@example.com",
		TextBody: "t",
	}, "b.c")
	require.NoError(t, err)
	assert.NotContains(t, raw, "\r\nBcc:")
}

func TestBuildMIMEMessage_EncodesNonASCIISubject(t *testing.T) {
	raw, err := buildMIMEMessage(Email{From: "a@b.c", To: []string{"x@y.z"}, Subject: "Namasté", TextBody: "t"}, "b.c")
	require.NoError(t, err)
	assert.Contains(t, raw, "Subject: =?utf-8?q?")
}

func TestMock_RecordsAndFails(t *testing.T) {
	m := &Mock{}
	require.NoError(t, m.Send(context.Background(), Email{Subject: "one"}))

	m.Err = errors.New("relay down")
	assert.Error(t, m.Send(context.Background(), Email{Subject: "two"}))
	assert.Len(t, m.Sent, 2)

	last, ok := m.Last()
	require.True(t, ok)
	assert.Equal(t, "two", last.Subject)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Send(ctx, Email{Subject: "three"}), context.Canceled)
	assert.Len(t, m.Sent, 2)
}

func TestLogMailer(t *testing.T) {
	var buf strings.Builder
	m := NewLogMailer(slog.New(slog.NewJSONHandler(&buf, nil)))

	err := m.Send(context.Background(), Email{From: "a@b.c", To: []string{"x@y.z"}, Subject: "Contact", TextBody: "t"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"msg":"mail_logged"`)

	assert.Error(t, NewLogMailer(slog.New(slog.NewTextHandler(io.Discard, nil))).Send(context.Background(), Email{}))
}
