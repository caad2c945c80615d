package products

import "time"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Categories is the fixed product taxonomy, in display order.
var Categories = []string{
	"Engine Testing",
	"Automotive Safety",
	"Defence",
	"Custom Systems",
}

const AllCategories = "All"

func ValidCategory(c string) bool {
	for _, x := range Categories {
		if x == c {
			return true
		}
	}
	return false
}

type Product struct {
	ID          string    `gorm:"primaryKey;type:char(36)"`
	Name        string    `gorm:"size:200;not null"`
	Slug        string    `gorm:"size:140;not null;uniqueIndex:ux_products_slug"`
	Category    string    `gorm:"size:40;not null;index:ix_products_category"`
	Description string    `gorm:"type:text;not null"`
	ImageURL    string    `gorm:"size:500;not null"`
	ImageKey    string    `gorm:"size:300"`
	Status      string    `gorm:"size:16;not null;default:active;index:ix_products_status"`
	CreatedAt   time.Time `gorm:"not null;index:ix_products_created"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (Product) TableName() string { return "products" }

func (p Product) Active() bool { return p.Status == StatusActive }
