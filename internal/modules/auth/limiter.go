package auth

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Status is the lockout state of a client key at a point in time.
type Status struct {
	Attempts   int
	Remaining  int
	Locked     bool
	LockoutEnd time.Time
	now        time.Time
}

// MinutesRemaining rounds the rest of the lock up to whole minutes.
func (s Status) MinutesRemaining() int {
	if !s.Locked {
		return 0
	}
	m := int(math.Ceil(s.LockoutEnd.Sub(s.now).Minutes()))
	if m < 1 {
		m = 1
	}
	return m
}

// LockoutText reads "1 minute" or "N minutes".
func (s Status) LockoutText() string { return FormatMinutes(s.MinutesRemaining()) }

func FormatMinutes(n int) string {
	if n == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", n)
}

// Limiter locks a client key for Lockout after MaxAttempts consecutive
// failures. State lives in login_throttles so it survives restarts and is
// shared between instances.
type Limiter struct {
	db          *gorm.DB
	maxAttempts int
	lockout     time.Duration
	now         func() time.Time
}

func NewLimiter(db *gorm.DB, maxAttempts int, lockout time.Duration) *Limiter {
	return &Limiter{db: db, maxAttempts: maxAttempts, lockout: lockout, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock replaces the time source (tests).
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	cp := *l
	cp.now = now
	return &cp
}

func (l *Limiter) MaxAttempts() int        { return l.maxAttempts }
func (l *Limiter) Lockout() time.Duration { return l.lockout }

// Check reports the state of key, clearing a lock that has run out.
func (l *Limiter) Check(ctx context.Context, key string) (Status, error) {
	now := l.now()
	var t Throttle
	err := l.db.WithContext(ctx).First(&t, "client_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return l.status(Throttle{}, now), nil
	}
	if err != nil {
		return Status{}, err
	}
	if expired(t, now) {
		if err := l.Reset(ctx, key); err != nil {
			return Status{}, err
		}
		return l.status(Throttle{}, now), nil
	}
	return l.status(t, now), nil
}

// Fail records one failed attempt. A key that is still locked is not counted.
func (l *Limiter) Fail(ctx context.Context, key string) (Status, error) {
	now := l.now()
	var out Throttle

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t Throttle
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&t, "client_key = ?", key).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			t = Throttle{ClientKey: key}
		case err != nil:
			return err
		}

		if expired(t, now) {
			t.Attempts = 0
			t.LockoutEnd = nil
		}
		if locked(t, now) {
			out = t
			return nil
		}

		t.Attempts++
		t.UpdatedAt = now
		if t.Attempts >= l.maxAttempts {
			end := now.Add(l.lockout)
			t.LockoutEnd = &end
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "client_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"attempts", "lockout_end", "updated_at"}),
		}).Create(&t).Error; err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return Status{}, err
	}
	return l.status(out, now), nil
}

// Reset forgets key, used after a successful login.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.db.WithContext(ctx).Delete(&Throttle{}, "client_key = ?", key).Error
}

func (l *Limiter) status(t Throttle, now time.Time) Status {
	s := Status{Attempts: t.Attempts, now: now}
	if locked(t, now) {
		s.Locked = true
		s.LockoutEnd = *t.LockoutEnd
		return s
	}
	s.Remaining = l.maxAttempts - t.Attempts
	if s.Remaining < 0 {
		s.Remaining = 0
	}
	return s
}

func locked(t Throttle, now time.Time) bool {
	return t.LockoutEnd != nil && now.Before(*t.LockoutEnd)
}

func expired(t Throttle, now time.Time) bool {
	return t.LockoutEnd != nil && !now.Before(*t.LockoutEnd)
}
