package products

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"yantrashilpa.com/web/internal/shared/slug"
)

type seedProduct struct {
	Name, Category, Description, Image string
}

var catalogue = []seedProduct{
	{
		"Engine Dynamometer Test Rig", "Engine Testing",
		"Advanced engine testing system with real-time monitoring and data acquisition capabilities.",
		"https://images.pexels.com/photos/190574/pexels-photo-190574.jpeg?auto=compress&cs=tinysrgb&w=400&h=300&fit=crop",
	},
	{
		"Automotive Safety Testing Rig", "Automotive Safety",
		"Comprehensive safety testing solution for passive and active automotive systems.",
		"https://images.pexels.com/photos/3862132/pexels-photo-3862132.jpeg?auto=compress&cs=tinysrgb&w=400&h=300&fit=crop",
	},
	{
		"Defence Component Tester", "Defence",
		"Critical testing apparatus designed for military applications with precision accuracy.",
		"https://images.pexels.com/photos/162553/keys-workshop-mechanic-tools-162553.jpeg?auto=compress&cs=tinysrgb&w=400&h=300&fit=crop",
	},
	{
		"Custom Industrial Testing System", "Custom Systems",
		"Tailored engineering solutions for unique industrial testing requirements.",
		"https://images.pexels.com/photos/1108101/pexels-photo-1108101.jpeg?auto=compress&cs=tinysrgb&w=400&h=300&fit=crop",
	},
	{
		"Transmission Test Bench", "Engine Testing",
		"Specialized testing equipment for automotive transmission systems and components.",
		"https://images.pexels.com/photos/3862132/pexels-photo-3862132.jpeg?auto=compress&cs=tinysrgb&w=400&h=300&fit=crop",
	},
	{
		"Crash Test Simulation Rig", "Automotive Safety",
		"Advanced simulation system for automotive crash testing and safety validation.",
		"https://images.pexels.com/photos/190574/pexels-photo-190574.jpeg?auto=compress&cs=tinysrgb&w=400&h=300&fit=crop",
	},
}

// Seed inserts the launch catalogue when the products table is empty. It
// reports how many rows were written.
func Seed(ctx context.Context, db *gorm.DB) (int, error) {
	var n int64
	if err := db.WithContext(ctx).Model(&Product{}).Count(&n).Error; err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	// Newest-first listings keep catalogue order.
	base := time.Now().UTC().Add(-time.Duration(len(catalogue)) * time.Hour)
	rows := make([]Product, 0, len(catalogue))
	for i, c := range catalogue {
		at := base.Add(time.Duration(len(catalogue)-i) * time.Minute)
		rows = append(rows, Product{
			ID:          uuid.NewString(),
			Name:        c.Name,
			Slug:        slug.FromName(c.Name),
			Category:    c.Category,
			Description: c.Description,
			ImageURL:    c.Image,
			Status:      StatusActive,
			CreatedAt:   at,
			UpdatedAt:   at,
		})
	}
	if err := db.WithContext(ctx).Create(&rows).Error; err != nil {
		return 0, err
	}
	return len(rows), nil
}
