package contact

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"yantrashilpa.com/web/internal/mailer"
	"yantrashilpa.com/web/internal/observability"
)

type Input struct {
	Name     string
	Email    string
	Subject  string
	Message  string
	ClientIP string
}

type Service struct {
	db       *gorm.DB
	mail     mailer.Service
	validate *validator.Validate
	log      *slog.Logger
	metrics  *observability.Metrics

	from     string
	fromName string
	inbox    string
}

type ServiceDeps struct {
	DB       *gorm.DB
	Mailer   mailer.Service
	Logger   *slog.Logger
	Metrics  *observability.Metrics
	From     string
	FromName string
	Inbox    string
}

func NewService(d ServiceDeps) *Service {
	l := d.Logger
	if l == nil {
		l = slog.Default()
	}
	return &Service{
		db:       d.DB,
		mail:     d.Mailer,
		validate: validator.New(),
		log:      l,
		metrics:  d.Metrics,
		from:     d.From,
		fromName: d.FromName,
		inbox:    d.Inbox,
	}
}

// Submit stores the message and then notifies the inbox. Validation failures
// come back as validator.ValidationErrors. A failed notification is logged
// only; the message is already saved.
func (s *Service) Submit(ctx context.Context, in Input) (Message, error) {
	ctx, span := observability.Tracer().Start(ctx, "contact.Submit")
	defer span.End()

	m := Message{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Subject:  strings.TrimSpace(in.Subject),
		Body:     strings.TrimSpace(in.Message),
		ClientIP: in.ClientIP,
	}
	if err := s.validate.Struct(m); err != nil {
		return Message{}, fmt.Errorf("contact: %w", err)
	}

	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return Message{}, fmt.Errorf("contact: save message: %w", err)
	}
	s.metrics.ContactReceived(ctx)
	s.log.InfoContext(ctx, "contact_message_received",
		"message_id", m.ID,
		"email", m.Email,
		"subject", m.Subject,
	)

	if s.mail == nil || s.inbox == "" {
		return m, nil
	}
	email, err := notification(m, s.from, s.fromName, s.inbox)
	if err == nil {
		err = s.mail.Send(ctx, email)
	}
	if err != nil {
		s.log.ErrorContext(ctx, "contact_notify_failed", "message_id", m.ID, "err", err)
		return m, nil
	}

	if err := s.db.WithContext(ctx).Model(&Message{}).Where("id = ?", m.ID).Update("notified", true).Error; err != nil {
		s.log.WarnContext(ctx, "contact_mark_notified_failed", "message_id", m.ID, "err", err)
		return m, nil
	}
	m.Notified = true
	return m, nil
}

// Recent returns the newest n messages.
func (s *Service) Recent(ctx context.Context, n int) ([]Message, error) {
	var out []Message
	err := s.db.WithContext(ctx).Order("created_at DESC").Limit(n).Find(&out).Error
	return out, err
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&Message{}).Count(&n).Error
	return n, err
}
