package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yantrashilpa.com/web/internal/modules/audit"
	"yantrashilpa.com/web/internal/modules/contact"
	"yantrashilpa.com/web/internal/modules/products"
)

var now = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

type fakeProducts struct {
	list  []products.Product
	since time.Time
	err   error
}

func (f *fakeProducts) Count(context.Context) (int64, error) { return int64(len(f.list)), f.err }

func (f *fakeProducts) CountSince(_ context.Context, t time.Time) (int64, error) {
	f.since = t
	var n int64
	for _, p := range f.list {
		if !p.CreatedAt.Before(t) {
			n++
		}
	}
	return n, nil
}

func (f *fakeProducts) Recent(_ context.Context, n int) ([]products.Product, error) {
	if n > len(f.list) {
		n = len(f.list)
	}
	return f.list[:n], nil
}

type fixed int64

func (f fixed) Total(context.Context) (int64, error)       { return int64(f), nil }
func (f fixed) ActiveCount(context.Context) (int64, error) { return int64(f), nil }

type fakeEvents []audit.Event

func (f fakeEvents) Recent(context.Context, int) ([]audit.Event, error) { return f, nil }

type fakeInbox []contact.Message

func (f fakeInbox) Count(context.Context) (int64, error) { return int64(len(f)), nil }

func (f fakeInbox) Recent(_ context.Context, n int) ([]contact.Message, error) {
	if n > len(f) {
		n = len(f)
	}
	return f[:n], nil
}

func TestSummary(t *testing.T) {
	fp := &fakeProducts{list: []products.Product{
		{Name: "Engine Dynamometer Test Rig", CreatedAt: now.Add(-2 * time.Hour)},
		{Name: "Automotive Safety Testing Rig", CreatedAt: now.Add(-25 * time.Hour)},
		{Name: "Defence Component Tester", CreatedAt: now.Add(-50 * time.Hour)},
		{Name: "Custom Industrial Testing System", CreatedAt: now.Add(-3 * 24 * time.Hour)},
		{Name: "Old Rig", CreatedAt: now.Add(-30 * 24 * time.Hour)},
	}}
	inbox := fakeInbox{
		{Name: "Asha Rao", Subject: "Dyno quote", CreatedAt: now.Add(-5 * time.Minute)},
		{Name: "Vikram Iyer", Subject: "Brake rig visit", CreatedAt: now.Add(-26 * time.Hour)},
	}
	svc := NewService(Sources{
		Products: fp,
		Views:    fixed(1247),
		Sessions: fixed(1),
		Events:   fakeEvents{{Action: audit.ActionProductCreated}},
		Messages: inbox,
	}).WithClock(func() time.Time { return now })

	got, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Stats{TotalProducts: 5, RecentUploads: 4, TotalViews: 1247, ActiveUsers: 1, Messages: 2}, got.Stats)
	assert.Equal(t, now.Add(-RecentWindow), fp.since)
	require.Len(t, got.Products, 4)
	assert.Equal(t, []string{"2 hours ago", "1 day ago", "2 days ago", "3 days ago"}, []string{
		got.Products[0].Ago, got.Products[1].Ago, got.Products[2].Ago, got.Products[3].Ago,
	})
	assert.Len(t, got.Events, 1)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, "Asha Rao", got.Messages[0].Message.Name)
	assert.Equal(t, "5 minutes ago", got.Messages[0].Ago)
	assert.Equal(t, "1 day ago", got.Messages[1].Ago)
}

func TestSummary_WithoutOptionalSources(t *testing.T) {
	svc := NewService(Sources{Products: &fakeProducts{}, Views: fixed(0), Sessions: fixed(0)})

	got, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, got.Stats.Messages)
	assert.Empty(t, got.Messages)
	assert.Empty(t, got.Events)
}

func TestSummary_PropagatesErrors(t *testing.T) {
	fp := &fakeProducts{err: errors.New("db gone")}
	svc := NewService(Sources{Products: fp, Views: fixed(0), Sessions: fixed(0)})

	_, err := svc.Summary(context.Background())
	assert.ErrorContains(t, err, "db gone")
}

func TestAgo(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{time.Minute, "1 minute ago"},
		{59 * time.Minute, "59 minutes ago"},
		{time.Hour, "1 hour ago"},
		{23 * time.Hour, "23 hours ago"},
		{24 * time.Hour, "1 day ago"},
		{10 * 24 * time.Hour, "10 days ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Ago(now, now.Add(-tt.d)), tt.d.String())
	}
}
