// Package schema owns the table list for migrations and first-run seeding.
package schema

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"yantrashilpa.com/web/internal/modules/audit"
	"yantrashilpa.com/web/internal/modules/auth"
	"yantrashilpa.com/web/internal/modules/contact"
	"yantrashilpa.com/web/internal/modules/pageviews"
	"yantrashilpa.com/web/internal/modules/products"
)

func Models() []any {
	return []any{
		&products.Product{},
		&audit.Event{},
		&auth.Throttle{},
		&auth.Session{},
		&contact.Message{},
		&pageviews.PageView{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("schema: migrate: %w", err)
	}
	return nil
}

// Seed fills an empty catalogue and reports how many products were added.
func Seed(ctx context.Context, db *gorm.DB) (int, error) {
	n, err := products.Seed(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("schema: seed: %w", err)
	}
	return n, nil
}
