// Package dashboard gathers the numbers shown on the admin home page.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"yantrashilpa.com/web/internal/modules/audit"
	"yantrashilpa.com/web/internal/modules/contact"
	"yantrashilpa.com/web/internal/modules/products"
)

// RecentWindow is the span counted as "Recent Uploads".
const RecentWindow = 7 * 24 * time.Hour

type ProductSource interface {
	Count(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, t time.Time) (int64, error)
	Recent(ctx context.Context, n int) ([]products.Product, error)
}

type ViewSource interface {
	Total(ctx context.Context) (int64, error)
}

type SessionSource interface {
	ActiveCount(ctx context.Context) (int64, error)
}

type EventSource interface {
	Recent(ctx context.Context, n int) ([]audit.Event, error)
}

// MessageSource is the contact inbox.
type MessageSource interface {
	Count(ctx context.Context) (int64, error)
	Recent(ctx context.Context, n int) ([]contact.Message, error)
}

type Stats struct {
	TotalProducts int64
	RecentUploads int64
	TotalViews    int64
	ActiveUsers   int64
	Messages      int64
}

type RecentProduct struct {
	Product products.Product
	Ago     string
}

type RecentMessage struct {
	Message contact.Message
	Ago     string
}

type Summary struct {
	Stats    Stats
	Products []RecentProduct
	Messages []RecentMessage
	Events   []audit.Event
}

// Sources feeds Summary. Events and Messages may be nil; their sections stay
// empty.
type Sources struct {
	Products ProductSource
	Views    ViewSource
	Sessions SessionSource
	Events   EventSource
	Messages MessageSource
}

type Service struct {
	src Sources
	now func() time.Time
}

func NewService(src Sources) *Service {
	return &Service{src: src, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	cp := *s
	cp.now = now
	return &cp
}

// Summary loads the stat cards, the four newest products, the newest
// enquiries and the latest admin events.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	now := s.now()
	var (
		out      Summary
		recent   []products.Product
		messages []contact.Message
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Stats.TotalProducts, err = s.src.Products.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Stats.RecentUploads, err = s.src.Products.CountSince(gctx, now.Add(-RecentWindow))
		return err
	})
	g.Go(func() (err error) {
		out.Stats.TotalViews, err = s.src.Views.Total(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Stats.ActiveUsers, err = s.src.Sessions.ActiveCount(gctx)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.src.Products.Recent(gctx, 4)
		return err
	})
	if s.src.Events != nil {
		g.Go(func() (err error) {
			out.Events, err = s.src.Events.Recent(gctx, 5)
			return err
		})
	}
	if s.src.Messages != nil {
		g.Go(func() (err error) {
			out.Stats.Messages, err = s.src.Messages.Count(gctx)
			return err
		})
		g.Go(func() (err error) {
			messages, err = s.src.Messages.Recent(gctx, 5)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, fmt.Errorf("dashboard: %w", err)
	}

	out.Products = make([]RecentProduct, 0, len(recent))
	for _, p := range recent {
		out.Products = append(out.Products, RecentProduct{Product: p, Ago: Ago(now, p.CreatedAt)})
	}
	out.Messages = make([]RecentMessage, 0, len(messages))
	for _, m := range messages {
		out.Messages = append(out.Messages, RecentMessage{Message: m, Ago: Ago(now, m.CreatedAt)})
	}
	return out, nil
}

// Ago renders the age of t relative to now: "just now", "5 minutes ago",
// "2 hours ago", "1 day ago".
func Ago(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute")
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour")
	default:
		return plural(int(d/(24*time.Hour)), "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
