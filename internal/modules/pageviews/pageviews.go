// Package pageviews keeps one hit counter per public page path.
package pageviews

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PageView struct {
	Path      string    `gorm:"primaryKey;size:191"`
	Views     int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (PageView) TableName() string { return "page_views" }

type Counter struct {
	db *gorm.DB
}

func NewCounter(db *gorm.DB) *Counter { return &Counter{db: db} }

// Record adds one view to path, creating the row on first sight.
func (c *Counter) Record(ctx context.Context, path string) error {
	row := PageView{Path: path, Views: 1, UpdatedAt: time.Now().UTC()}
	return c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "path"}},
		DoUpdates: clause.Assignments(map[string]any{
			"views":      gorm.Expr("views + 1"),
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row).Error
}

// Total sums every path's counter.
func (c *Counter) Total(ctx context.Context) (int64, error) {
	var total int64
	err := c.db.WithContext(ctx).Model(&PageView{}).
		Select("COALESCE(SUM(views), 0)").
		Scan(&total).Error
	return total, err
}

// Top returns the n most viewed paths.
func (c *Counter) Top(ctx context.Context, n int) ([]PageView, error) {
	var out []PageView
	err := c.db.WithContext(ctx).Order("views DESC").Order("path").Limit(n).Find(&out).Error
	return out, err
}
