package products

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func insert(t *testing.T, r *Repo, name, category, desc, status string, at time.Time) Product {
	t.Helper()
	p := Product{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        uuid.NewString(),
		Category:    category,
		Description: desc,
		ImageURL:    "/img.png",
		Status:      status,
		CreatedAt:   at,
	}
	require.NoError(t, r.Create(context.Background(), &p))
	return p
}

func names(ps []Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

func TestRepo_ListFilters(t *testing.T) {
	r := NewRepo(newTestDB(t))
	ctx := context.Background()
	base := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	insert(t, r, "Engine Dynamometer Test Rig", "Engine Testing", "Real-time monitoring.", StatusActive, base.Add(4*time.Hour))
	insert(t, r, "Crash Test Simulation Rig", "Automotive Safety", "Crash testing and SAFETY validation.", StatusActive, base.Add(3*time.Hour))
	insert(t, r, "Defence Component Tester", "Defence", "Precision accuracy.", StatusInactive, base.Add(2*time.Hour))
	insert(t, r, "100% Custom_System", "Custom Systems", "Tailored.", StatusActive, base.Add(1*time.Hour))

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"everything newest first", Filter{}, []string{"Engine Dynamometer Test Rig", "Crash Test Simulation Rig", "Defence Component Tester", "100% Custom_System"}},
		{"All category", Filter{Category: "All"}, []string{"Engine Dynamometer Test Rig", "Crash Test Simulation Rig", "Defence Component Tester", "100% Custom_System"}},
		{"name match is case-insensitive", Filter{Query: "DYNAMOMETER"}, []string{"Engine Dynamometer Test Rig"}},
		{"description match", Filter{Query: "safety"}, []string{"Crash Test Simulation Rig"}},
		{"query and category intersect", Filter{Query: "rig", Category: "Automotive Safety"}, []string{"Crash Test Simulation Rig"}},
		{"query and category disjoint", Filter{Query: "dynamometer", Category: "Defence"}, []string{}},
		{"status", Filter{Status: StatusInactive}, []string{"Defence Component Tester"}},
		{"percent is literal", Filter{Query: "100%"}, []string{"100% Custom_System"}},
		{"underscore is literal", Filter{Query: "m_s"}, []string{"100% Custom_System"}},
		{"lone percent matches only a literal percent", Filter{Query: "%"}, []string{"100% Custom_System"}},
		{"bang is literal", Filter{Query: "!"}, []string{}},
		{"whitespace query ignored", Filter{Query: "   "}, []string{"Engine Dynamometer Test Rig", "Crash Test Simulation Rig", "Defence Component Tester", "100% Custom_System"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestRepo_ListFoldsASCIIOnlyOnSQLite(t *testing.T) {
	r := NewRepo(newTestDB(t))
	ctx := context.Background()
	insert(t, r, "Ürün Prüfstand", "Custom Systems", "Bremsprüfung.", StatusActive, time.Now())

	tests := []struct {
		query string
		want  []string
	}{
		{"PRÜF", []string{"Ürün Prüfstand"}},
		{"prüfstand", []string{"Ürün Prüfstand"}},
		{"Ürün", []string{}},
		{"ürün", []string{}},
		{"rün", []string{"Ürün Prüfstand"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := r.List(ctx, Filter{Query: tt.query})
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestRepo_GetDelete(t *testing.T) {
	r := NewRepo(newTestDB(t))
	ctx := context.Background()
	p := insert(t, r, "Rig", "Defence", "d", StatusActive, time.Now().UTC())

	got, err := r.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rig", got.Name)

	require.NoError(t, r.Delete(ctx, p.ID))
	_, err = r.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, p.ID), ErrNotFound)
}

func TestRepo_ToggleStatus(t *testing.T) {
	r := NewRepo(newTestDB(t))
	ctx := context.Background()
	p := insert(t, r, "Rig", "Defence", "d", StatusActive, time.Now().UTC())

	got, err := r.ToggleStatus(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusInactive, got.Status)

	got, err = r.ToggleStatus(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, got.Status)

	_, err = r.ToggleStatus(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepo_CountsAndRecent(t *testing.T) {
	r := NewRepo(newTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	insert(t, r, "old", "Defence", "d", StatusActive, now.Add(-30*24*time.Hour))
	insert(t, r, "week", "Defence", "d", StatusActive, now.Add(-3*24*time.Hour))
	insert(t, r, "today", "Defence", "d", StatusInactive, now.Add(-time.Hour))

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	n, err = r.CountSince(ctx, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	recent, err := r.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"today", "week"}, names(recent))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "a!%b!_c!!", escapeLike("a%b_c!"))
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKey(fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})))
	assert.False(t, IsDuplicateKey(&mysql.MySQLError{Number: 1452}))
	assert.False(t, IsDuplicateKey(errors.New("boom")))
	assert.False(t, IsDuplicateKey(nil))
}
