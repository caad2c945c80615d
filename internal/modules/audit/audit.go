// Package audit keeps an append-only trail of admin console actions.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ActionProductCreated = "product_created"
	ActionProductDeleted = "product_deleted"
	ActionStatusToggled  = "product_status_toggled"
)

type Event struct {
	ID        string         `gorm:"primaryKey;type:char(36)"`
	Actor     string         `gorm:"size:255;not null;index:ix_admin_events_actor"`
	Action    string         `gorm:"size:64;not null"`
	ProductID string         `gorm:"type:char(36);index:ix_admin_events_product"`
	Payload   datatypes.JSON
	CreatedAt time.Time      `gorm:"not null;index:ix_admin_events_created"`
}

func (Event) TableName() string { return "admin_events" }

// Record inserts an event through db, which is usually the caller's transaction.
func Record(ctx context.Context, db *gorm.DB, actor, action, productID string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	ev := Event{
		ID:        uuid.NewString(),
		Actor:     actor,
		Action:    action,
		ProductID: productID,
		Payload:   datatypes.JSON(raw),
		CreatedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).Create(&ev).Error
}

// Recent returns the newest n events.
func Recent(ctx context.Context, db *gorm.DB, n int) ([]Event, error) {
	if n <= 0 {
		n = 10
	}
	var out []Event
	err := db.WithContext(ctx).
		Order("created_at DESC").
		Limit(n).
		Find(&out).Error
	return out, err
}

// Log reads events for a fixed handle.
type Log struct{ db *gorm.DB }

func NewLog(db *gorm.DB) *Log { return &Log{db: db} }

func (l *Log) Recent(ctx context.Context, n int) ([]Event, error) { return Recent(ctx, l.db, n) }
