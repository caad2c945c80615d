package contact

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"yantrashilpa.com/web/internal/database"
	"yantrashilpa.com/web/internal/mailer"
)

func newTestService(t *testing.T, mock *mailer.Mock) (*Service, *gorm.DB) {
	t.Helper()
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Message{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	svc := NewService(ServiceDeps{
		DB:       db,
		Mailer:   mock,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		From:     "no-reply@yantrashilpa.com",
		FromName: "Yantrashilpa Website",
		Inbox:    "info@yantrashilpa.com",
	})
	return svc, db
}

func validInput() Input {
	return Input{
		Name:     "Asha Rao",
		Email:    "asha@example.com",
		Subject:  "Dyno enquiry",
		Message:  "Do you build <b>chassis</b> dynos?",
		ClientIP: "198.51.100.4",
	}
}

func TestSubmit_StoresAndNotifies(t *testing.T) {
	mock := &mailer.Mock{}
	svc, db := newTestService(t, mock)

	m, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)
	assert.True(t, m.Notified)

	var stored Message
	require.NoError(t, db.First(&stored, "id = ?", m.ID).Error)
	assert.Equal(t, "Dyno enquiry", stored.Subject)
	assert.True(t, stored.Notified)

	require.Len(t, mock.Sent, 1)
	sent := mock.Sent[0]
	assert.Equal(t, []string{"info@yantrashilpa.com"}, sent.To)
	assert.Equal(t, "asha@example.com", sent.ReplyTo)
	assert.Equal(t, "[Contact] Dyno enquiry", sent.Subject)
	assert.Contains(t, sent.TextBody, "Do you build <b>chassis</b> dynos?")
	assert.Contains(t, sent.HTMLBody, "&lt;b&gt;chassis&lt;/b&gt;")
}

func TestSubmit_MailFailureKeepsMessage(t *testing.T) {
	mock := &mailer.Mock{Err: errors.New("relay down")}
	svc, db := newTestService(t, mock)

	m, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)
	assert.False(t, m.Notified)

	n, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	var stored Message
	require.NoError(t, db.First(&stored, "id = ?", m.ID).Error)
	assert.False(t, stored.Notified)
}

func TestSubmit_Validation(t *testing.T) {
	mock := &mailer.Mock{}
	svc, _ := newTestService(t, mock)

	in := validInput()
	in.Email = "asha-at-example"
	in.Subject = "   "

	_, err := svc.Submit(context.Background(), in)
	require.Error(t, err)

	var ve validator.ValidationErrors
	require.True(t, errors.As(err, &ve))
	fields := map[string]string{}
	for _, fe := range ve {
		fields[fe.StructField()] = fe.Tag()
	}
	assert.Equal(t, map[string]string{"Email": "email", "Subject": "required"}, fields)
	assert.Empty(t, mock.Sent)
}

func TestSubmit_TooLongMessage(t *testing.T) {
	svc, _ := newTestService(t, &mailer.Mock{})
	in := validInput()
	in.Message = strings.Repeat("x", 5001)

	_, err := svc.Submit(context.Background(), in)
	assert.Error(t, err)
}

func TestRecent_NewestFirst(t *testing.T) {
	svc, _ := newTestService(t, &mailer.Mock{})
	ctx := context.Background()

	first := validInput()
	first.Subject = "first"
	_, err := svc.Submit(ctx, first)
	require.NoError(t, err)

	second := validInput()
	second.Subject = "second"
	_, err = svc.Submit(ctx, second)
	require.NoError(t, err)

	got, err := svc.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "second", got[0].Subject)
}
