package mailer

import (
	"context"
	"log/slog"
)

// LogMailer records messages in the structured log instead of sending them.
// It stands in when no SMTP relay is configured.
type LogMailer struct {
	Logger *slog.Logger
}

func NewLogMailer(l *slog.Logger) *LogMailer { return &LogMailer{Logger: l} }

func (m *LogMailer) Send(ctx context.Context, e Email) error {
	if _, err := buildMIMEMessage(e, "localhost"); err != nil {
		return err
	}
	m.Logger.LogAttrs(ctx, slog.LevelInfo, "mail_logged",
		slog.Any("to", e.To),
		slog.String("subject", e.Subject),
		slog.Int("text_bytes", len(e.TextBody)),
	)
	return nil
}
