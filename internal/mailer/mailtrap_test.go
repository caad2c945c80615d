package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yantrashilpa.com/web/internal/config"
)

func TestMailtrap_Send(t *testing.T) {
	var got mailtrapPayload
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	m := NewMailtrap(config.MailtrapConfig{APIURL: srv.URL, APIToken: "tok"})
	err := m.Send(context.Background(), Email{
		From:     "no-reply@yantrashilpa.com",
		FromName: "Yantrashilpa",
		To:       []string{"support@yantrashilpa.com"},
		ReplyTo:  "visitor@example.com",
		Subject:  "[Contact] Rig quote",
		TextBody: "hello",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok", auth)
	assert.Equal(t, "no-reply@yantrashilpa.com", got.From.Email)
	require.Len(t, got.To, 1)
	assert.Equal(t, "support@yantrashilpa.com", got.To[0].Email)
	require.NotNil(t, got.ReplyTo)
	assert.Equal(t, "visitor@example.com", got.ReplyTo.Email)
	assert.Equal(t, "[Contact] Rig quote", got.Subject)
}

func TestMailtrap_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	ok := Email{From: "a@b.c", To: []string{"x@y.z"}, Subject: "s", TextBody: "t"}

	err := NewMailtrap(config.MailtrapConfig{APIURL: srv.URL, APIToken: "bad"}).Send(context.Background(), ok)
	assert.ErrorContains(t, err, "401")

	err = NewMailtrap(config.MailtrapConfig{}).Send(context.Background(), ok)
	assert.ErrorContains(t, err, "not configured")

	err = NewMailtrap(config.MailtrapConfig{APIURL: srv.URL, APIToken: "tok"}).Send(context.Background(), Email{From: "a@b.c"})
	assert.Error(t, err)
}
